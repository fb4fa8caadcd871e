package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"doorlock-remote/internal/domain"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 60 * time.Second

	errorBodyLimit = 300
)

// Part is one prompt part: text, or inline binary data with its mime type.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

type GenerateRequest struct {
	Parts           []Part
	Temperature     *float32
	MaxOutputTokens int
}

// Generator sends a single generate-content call and returns the text of the
// first candidate part.
type Generator interface {
	Generate(ctx context.Context, apiKey string, req GenerateRequest) (string, error)
}

// Client talks to the generate-content REST endpoint directly.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewClient(model string, timeout time.Duration) *Client {
	return NewClientWithURL(model, DefaultBaseURL, timeout)
}

func NewClientWithURL(model, baseURL string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
	}
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type request struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature     *float32 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

func (c *Client) Generate(ctx context.Context, apiKey string, req GenerateRequest) (string, error) {
	if apiKey == "" {
		return "", domain.MissingCredential()
	}

	bodyBytes, err := json.Marshal(buildRequest(req))
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", domain.NetworkFailure(redactKey(err, apiKey))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NetworkFailure(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", remoteError(resp.StatusCode, respBody)
	}

	return extractText(respBody)
}

func buildRequest(req GenerateRequest) request {
	parts := make([]part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.Data != nil {
			parts = append(parts, part{InlineData: &inlineData{
				MIMEType: p.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.Data),
			}})
			continue
		}
		parts = append(parts, part{Text: p.Text})
	}

	out := request{Contents: []content{{Parts: parts}}}
	if req.Temperature != nil || req.MaxOutputTokens > 0 {
		out.GenerationConfig = &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxOutputTokens,
		}
	}
	return out
}

func remoteError(status int, body []byte) error {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error.message"); msg.Type == gjson.String && msg.String() != "" {
			return domain.RemoteError(msg.String())
		}
	}
	return domain.RemoteError(fmt.Sprintf("HTTP %d: %s", status, truncate(string(body), errorBodyLimit)))
}

func extractText(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", domain.MalformedResponse("response is not valid JSON")
	}
	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() || text.Type != gjson.String {
		return "", domain.MalformedResponse("no text in first candidate")
	}
	return text.String(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// redactKey strips the API key from transport errors, which quote the URL.
func redactKey(err error, apiKey string) error {
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(apiKey), "REDACTED")
	msg = strings.ReplaceAll(msg, apiKey, "REDACTED")
	if msg == err.Error() {
		return err
	}
	return &redactedError{msg: msg, err: err}
}

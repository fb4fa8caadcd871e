package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"doorlock-remote/internal/domain"
)

// SDKClient is a Generator backed by the genai SDK. Clients are created
// lazily per API key since the key can change between runs.
type SDKClient struct {
	model      string
	baseURL    string
	apiVersion string
	httpClient *http.Client

	mu      sync.Mutex
	clients map[string]*genai.Client
}

func NewSDKClient(model, baseURL string, timeout time.Duration) *SDKClient {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	root, version := splitAPIVersion(baseURL)
	return &SDKClient{
		model:      model,
		baseURL:    root,
		apiVersion: version,
		httpClient: &http.Client{Timeout: timeout},
		clients:    make(map[string]*genai.Client),
	}
}

// splitAPIVersion turns ".../v1" into (".../", "v1").
func splitAPIVersion(baseURL string) (string, string) {
	trimmed := strings.TrimRight(baseURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return baseURL, ""
	}
	last := trimmed[idx+1:]
	if !strings.HasPrefix(last, "v1") {
		return trimmed + "/", ""
	}
	return trimmed[:idx+1], last
}

func (c *SDKClient) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[apiKey]; ok {
		return client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    c.baseURL,
			APIVersion: c.apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	c.clients[apiKey] = client
	return client, nil
}

func (c *SDKClient) Generate(ctx context.Context, apiKey string, req GenerateRequest) (string, error) {
	if apiKey == "" {
		return "", domain.MissingCredential()
	}

	client, err := c.client(ctx, apiKey)
	if err != nil {
		return "", err
	}

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.Data != nil {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     req.Temperature,
		MaxOutputTokens: int32(req.MaxOutputTokens),
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, []*genai.Content{
		{Role: genai.RoleUser, Parts: parts},
	}, cfg)
	if err != nil {
		return "", sdkError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", domain.MalformedResponse("no text in first candidate")
	}
	first := resp.Candidates[0].Content.Parts[0]
	if first == nil || (first.Text == "" && nonTextPart(first)) {
		return "", domain.MalformedResponse("first part has no text")
	}
	return first.Text, nil
}

func nonTextPart(p *genai.Part) bool {
	return p.InlineData != nil || p.FileData != nil || p.FunctionCall != nil
}

func sdkError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return remoteAPIError(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return remoteAPIError(*apiErrPtr)
	}
	return domain.NetworkFailure(err)
}

func remoteAPIError(e genai.APIError) error {
	if e.Message != "" {
		return domain.RemoteError(e.Message)
	}
	return domain.RemoteError(fmt.Sprintf("HTTP %d: %s", e.Code, e.Status))
}

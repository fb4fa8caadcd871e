package pushover

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"doorlock-remote/internal/domain"
	"doorlock-remote/internal/infra"
)

const DefaultURL = "https://api.pushover.net/1/messages.json"

// Client pushes pipeline outcomes to a phone. A take_photo success carries
// the snapshot as an attachment.
type Client struct {
	token      string
	userKey    string
	url        string
	title      string
	retry      infra.RetryConfig
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(token, userKey string, logger *slog.Logger) *Client {
	return NewClientWithURL(token, userKey, DefaultURL, logger)
}

func NewClientWithURL(token, userKey, url string, logger *slog.Logger) *Client {
	return &Client{
		token:      token,
		userKey:    userKey,
		url:        url,
		title:      "Door Lock",
		retry:      infra.DefaultRetryConfig(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// WithRetry overrides the retry policy.
func (c *Client) WithRetry(cfg infra.RetryConfig) *Client {
	c.retry = cfg
	return c
}

func (c *Client) Notify(ctx context.Context, outcome domain.Outcome) error {
	if c.token == "" || c.userKey == "" {
		return nil
	}

	body, contentType, err := c.buildForm(outcome)
	if err != nil {
		return fmt.Errorf("building notification: %w", err)
	}

	return infra.WithRetry(ctx, c.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return infra.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending notification: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode == http.StatusOK {
			return nil
		}
		err = fmt.Errorf("pushover error: %s", resp.Status)
		if !infra.IsRetryableHTTPStatus(resp.StatusCode) {
			return infra.Permanent(err)
		}
		c.logger.Warn("pushover request failed, retrying", "status", resp.StatusCode)
		return err
	})
}

func (c *Client) buildForm(outcome domain.Outcome) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"token", c.token},
		{"user", c.userKey},
		{"title", c.title},
		{"message", message(outcome)},
	}
	if outcome.VideoURL != "" {
		fields = append(fields, [2]string{"url", outcome.VideoURL}, [2]string{"url_title", "Live video"})
	}
	if !outcome.Success() {
		fields = append(fields, [2]string{"priority", "1"})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if len(outcome.Image) > 0 {
		part, err := w.CreateFormFile("attachment", "snapshot.jpg")
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(outcome.Image); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func message(outcome domain.Outcome) string {
	text := outcome.Message
	if text == "" {
		text = string(outcome.Kind)
	}
	if outcome.Command != "" {
		return fmt.Sprintf("[%s] %s", outcome.Command, text)
	}
	return text
}

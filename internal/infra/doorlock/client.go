package doorlock

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"doorlock-remote/internal/domain"
)

const (
	DefaultSimpleTimeout = 10 * time.Second
	DefaultJSONTimeout   = 30 * time.Second

	// MaxDisplayText is the number of characters the controller's screen shows.
	MaxDisplayText = 20

	statusSuccess = "success"
)

// Client sends commands to the door controller. Every call is a single
// attempt; failures are reported in the returned Outcome.
type Client struct {
	simple *http.Client
	json   *http.Client
	logger *slog.Logger
}

func NewClient(simpleTimeout, jsonTimeout time.Duration, logger *slog.Logger) *Client {
	if simpleTimeout <= 0 {
		simpleTimeout = DefaultSimpleTimeout
	}
	if jsonTimeout <= 0 {
		jsonTimeout = DefaultJSONTimeout
	}
	return &Client{
		simple: &http.Client{Timeout: simpleTimeout},
		json:   &http.Client{Timeout: jsonTimeout},
		logger: logger,
	}
}

// Reply is the JSON body returned by /mobile_command.
type Reply struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	Command     string `json:"command,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

func (c *Client) Execute(ctx context.Context, req domain.DeviceCommandRequest) domain.Outcome {
	switch req.Command {
	case domain.CommandLock, domain.CommandUnlock, domain.CommandChangePassword:
		return c.SendSimpleCommand(ctx, req.Address, req.Command, req.Parameter)
	case domain.CommandTakePhoto:
		return c.TakePhoto(ctx, req.Address)
	default:
		return domain.Failed(req.Command, fmt.Sprintf("unsupported command %q", req.Command))
	}
}

// SendSimpleCommand issues GET /<command>, adding ?password= when a
// parameter is given.
func (c *Client) SendSimpleCommand(ctx context.Context, addr domain.DeviceAddress, cmd domain.Command, parameter string) domain.Outcome {
	endpoint := addr.BaseURL() + "/" + string(cmd)
	if parameter != "" {
		endpoint += "?" + url.Values{"password": {parameter}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Failed(cmd, fmt.Sprintf("Invalid URL address: %v", err))
	}
	req.Header.Set("Cache-Control", "no-cache")

	c.logger.Debug("sending device command", "command", cmd, "device", addr.String())

	resp, err := c.simple.Do(req)
	if err != nil {
		c.logger.Warn("device request failed", "command", cmd, "error", err)
		return domain.Failed(cmd, "Request failed: "+err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("Server returned error: %d", resp.StatusCode)
		if gjson.ValidBytes(body) {
			if m := gjson.GetBytes(body, "message"); m.Type == gjson.String && strings.TrimSpace(m.String()) != "" {
				msg += " (" + strings.TrimSpace(m.String()) + ")"
			}
		} else if text := strings.TrimSpace(string(body)); text != "" {
			msg += " (" + text + ")"
		}
		return domain.Failed(cmd, msg)
	}

	if gjson.ValidBytes(body) {
		status := gjson.GetBytes(body, "status")
		if status.Exists() && status.String() != statusSuccess {
			msg := gjson.GetBytes(body, "message").String()
			if msg == "" {
				msg = fmt.Sprintf("Command %s failed", cmd)
			}
			return domain.Failed(cmd, msg)
		}
	}

	if parameter != "" {
		return domain.Succeeded(cmd, fmt.Sprintf("Command %s with parameter %s sent successfully!", cmd, parameter))
	}
	return domain.Succeeded(cmd, fmt.Sprintf("Command %s sent successfully!", cmd))
}

// SendJSONCommand posts cmd to /mobile_command and reports the reply as an
// Outcome. A video_url in the reply is made absolute.
func (c *Client) SendJSONCommand(ctx context.Context, addr domain.DeviceAddress, cmd domain.Command, fields map[string]string) domain.Outcome {
	reply, err := c.PostCommand(ctx, addr, cmd, fields)
	if err != nil {
		return domain.Failed(cmd, failureMessage(err, fmt.Sprintf("Command %s failed", cmd)))
	}

	msg := reply.Message
	if msg == "" {
		msg = fmt.Sprintf("Command %s sent successfully!", cmd)
	}
	outcome := domain.Succeeded(cmd, msg)
	if reply.VideoURL != "" {
		outcome.VideoURL = absoluteVideoURL(addr, reply.VideoURL)
	}
	return outcome
}

// PostCommand posts {"command": cmd, ...fields} to /mobile_command.
// Reply.Status is "success" when err is nil.
func (c *Client) PostCommand(ctx context.Context, addr domain.DeviceAddress, cmd domain.Command, fields map[string]string) (Reply, error) {
	payload := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["command"] = string(cmd)

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return Reply{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr.BaseURL()+"/mobile_command", bytes.NewReader(bodyBytes))
	if err != nil {
		return Reply{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending mobile command", "command", cmd, "device", addr.String())

	resp, err := c.json.Do(req)
	if err != nil {
		return Reply{}, domain.NetworkFailure(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, domain.NetworkFailure(fmt.Errorf("reading response: %w", err))
	}

	var reply Reply
	if err := json.Unmarshal(respBody, &reply); err != nil || reply.Status == "" {
		if resp.StatusCode != http.StatusOK {
			return Reply{}, fmt.Errorf("server returned error: %d", resp.StatusCode)
		}
		return Reply{}, domain.MalformedResponse("Invalid response format")
	}

	if reply.Status != statusSuccess {
		return reply, &ReplyError{Reply: reply, StatusCode: resp.StatusCode}
	}
	return reply, nil
}

// ReplyError is a well-formed reply whose status is not success.
type ReplyError struct {
	Reply      Reply
	StatusCode int
}

func (e *ReplyError) Error() string {
	if e.Reply.Message != "" {
		return e.Reply.Message
	}
	return fmt.Sprintf("device replied %q (HTTP %d)", e.Reply.Status, e.StatusCode)
}

// FetchPhoto asks the controller for a snapshot and returns the image bytes.
func (c *Client) FetchPhoto(ctx context.Context, addr domain.DeviceAddress) ([]byte, error) {
	reply, err := c.PostCommand(ctx, addr, domain.CommandTakePhoto, nil)
	if err != nil {
		return nil, err
	}
	if reply.ImageBase64 == "" {
		return nil, domain.MalformedResponse("reply has no image")
	}
	image, err := base64.StdEncoding.DecodeString(reply.ImageBase64)
	if err != nil || len(image) == 0 {
		return nil, domain.MalformedResponse("Failed to decode image")
	}
	return image, nil
}

func (c *Client) TakePhoto(ctx context.Context, addr domain.DeviceAddress) domain.Outcome {
	image, err := c.FetchPhoto(ctx, addr)
	if err != nil {
		return domain.Failed(domain.CommandTakePhoto, failureMessage(err, "Failed to take photo"))
	}
	outcome := domain.Succeeded(domain.CommandTakePhoto, "Photo fetched successfully")
	outcome.Image = image
	return outcome
}

// DisplayText shows text on the controller screen, cut to MaxDisplayText
// characters.
func (c *Client) DisplayText(ctx context.Context, addr domain.DeviceAddress, text string) domain.Outcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Failed(domain.CommandDisplayText, "Please enter text")
	}
	if r := []rune(text); len(r) > MaxDisplayText {
		text = string(r[:MaxDisplayText])
	}

	reply, err := c.PostCommand(ctx, addr, domain.CommandDisplayText, map[string]string{"text": text})
	if err != nil {
		return domain.Failed(domain.CommandDisplayText, failureMessage(err, "Failed to send text"))
	}
	msg := reply.Message
	if msg == "" {
		msg = "Text sent"
	}
	return domain.Succeeded(domain.CommandDisplayText, msg)
}

// Stream requests a live video session and returns its absolute URL.
func (c *Client) Stream(ctx context.Context, addr domain.DeviceAddress) domain.Outcome {
	reply, err := c.PostCommand(ctx, addr, domain.CommandStream, nil)
	if err != nil {
		return domain.Failed(domain.CommandStream, failureMessage(err, "Failed to get video URL"))
	}
	if reply.VideoURL == "" {
		return domain.Failed(domain.CommandStream, "Failed to get video URL")
	}

	outcome := domain.Succeeded(domain.CommandStream, reply.Message)
	outcome.VideoURL = absoluteVideoURL(addr, reply.VideoURL)
	return outcome
}

func absoluteVideoURL(addr domain.DeviceAddress, videoURL string) string {
	if strings.HasPrefix(videoURL, "http://") || strings.HasPrefix(videoURL, "https://") {
		return videoURL
	}
	if !strings.HasPrefix(videoURL, "/") {
		videoURL = "/" + videoURL
	}
	return addr.BaseURL() + videoURL
}

func failureMessage(err error, fallback string) string {
	var replyErr *ReplyError
	if errors.As(err, &replyErr) {
		if replyErr.Reply.Message != "" {
			return replyErr.Reply.Message
		}
		return fallback
	}
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.KindNetworkFailure:
			return "Request failed: " + de.Err.Error()
		case domain.KindMalformedResponse:
			return de.Message
		}
	}
	return err.Error()
}

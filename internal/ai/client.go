// internal/ai/client.go
//
// Thin wrapper over the Anthropic Messages API used for word definitions,
// fun facts and hints. One call per request: the SDK's automatic retries are
// disabled and every call is bounded by the configured timeout.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/robalobadob/hangman/internal/config"
)

var (
	// ErrNotConfigured means no API key was provided.
	ErrNotConfigured = errors.New("ai: api key not configured")
	// ErrEmptyReply means the call succeeded but carried no text.
	ErrEmptyReply = errors.New("ai: empty reply")
)

// RequestError reports a failed call to the API (transport or HTTP status).
type RequestError struct {
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ai: request failed: HTTP %d", e.StatusCode)
	}
	return "ai: request failed: " + e.Err.Error()
}

func (e *RequestError) Unwrap() error { return e.Err }

// Request is a single prompt/system-instruction pair.
type Request struct {
	Prompt      string
	System      string
	MaxTokens   int64
	Temperature float64
}

// Client calls the Messages API.
type Client struct {
	api   anthropic.Client
	model string
}

// New builds a client from cfg. It returns ErrNotConfigured when cfg has no key.
func New(cfg config.AIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		api:   anthropic.NewClient(opts...),
		model: cfg.Model,
	}, nil
}

// GenerateText sends req and returns the reply's text blocks joined and trimmed.
func (c *Client) GenerateText(ctx context.Context, req Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   req.MaxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &RequestError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", &RequestError{Err: err}
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

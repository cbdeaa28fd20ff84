package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ibreez3/socratic-relay/tutor"
	openai "github.com/openai/openai-go" // imported as openai
	"github.com/openai/openai-go/option"
)

var (
	ErrNoCompletions = errors.New("no completions returned")
	ErrEmptyMessage  = errors.New("no message content in completion")
)

// Client talks to any OpenAI compatible chat completion endpoint, Gemini's
// included. The SDK's own retries are off; tutor.Retrier owns that policy.
type Client struct {
	cli   openai.Client
	model string
}

func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &Client{
		cli:   openai.NewClient(opts...),
		model: model,
	}
}

// Generate sends prompt as a single user message and returns the first
// choice's text. HTTP 429 responses wrap tutor.ErrRateLimited.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := c.cli.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(res.Choices) == 0 {
		return "", ErrNoCompletions
	}
	text := res.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}
	return text, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("generate content: %w: %w", tutor.ErrRateLimited, err)
	}
	return fmt.Errorf("generate content: %w", err)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ibreez3/socratic-relay/tutor"
)

// ResponseError is a non-200 answer from the relay.
type ResponseError struct {
	Status  int
	Kind    tutor.Kind
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("relay returned %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	session string
	http    *http.Client
}

type Option func(*Client)

func WithSession(id string) Option {
	return func(c *Client) { c.session = id }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type askBody struct {
	Message             string              `json:"message"`
	ConversationHistory []tutor.HistoryItem `json:"conversationHistory,omitempty"`
}

type replyBody struct {
	AIResponse string     `json:"aiResponse"`
	Message    string     `json:"message"`
	Error      string     `json:"error"`
	Kind       tutor.Kind `json:"kind"`
}

// Ask posts message to /ask-ai. history is sent only when non empty.
// Transport failures wrap tutor.ErrNetwork.
func (c *Client) Ask(ctx context.Context, message string, history []tutor.HistoryItem) (string, error) {
	var out replyBody
	if err := c.post(ctx, "/ask-ai", askBody{Message: message, ConversationHistory: history}, &out); err != nil {
		return "", err
	}
	return out.AIResponse, nil
}

// ClearHistory posts to /clear-history and returns the server's
// confirmation.
func (c *Client) ClearHistory(ctx context.Context) (string, error) {
	var out replyBody
	if err := c.post(ctx, "/clear-history", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) post(ctx context.Context, path string, in any, out *replyBody) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.session != "" {
		req.Header.Set("X-Session-ID", c.session)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", tutor.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &ResponseError{Status: resp.StatusCode, Kind: tutor.KindUpstreamFailure, Message: resp.Status}
		}
		return fmt.Errorf("%w: decode response: %w", tutor.ErrNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &ResponseError{Status: resp.StatusCode, Kind: out.Kind, Message: out.Error}
	}
	return nil
}

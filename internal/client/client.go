// Package client talks to the proxy endpoints on behalf of the assistant.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"yai-assistant/internal/types"
)

// Envelope is a decoded response body. The proxy sends exactly one of
// reply, url or error, but the client tolerates anything.
type Envelope map[string]any

// Field reports the named field and whether it holds a string.
func (e Envelope) Field(field string) (string, bool) {
	v, ok := e[field].(string)
	return v, ok
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// Chat posts the turns to /api/chat.
func (c *Client) Chat(ctx context.Context, turns []types.Turn) (Envelope, error) {
	return c.post(ctx, "/api/chat", types.ChatRequest{Messages: turns})
}

// Image posts the prompt to /api/image.
func (c *Client) Image(ctx context.Context, prompt string) (Envelope, error) {
	return c.post(ctx, "/api/image", types.ImageRequest{Prompt: prompt})
}

// post returns the decoded body for any status code. An error means the
// request never completed or the body was not a JSON object.
func (c *Client) post(ctx context.Context, path string, payload any) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode %s response (status %d): %w", path, resp.StatusCode, err)
	}
	if env == nil {
		return nil, fmt.Errorf("decode %s response (status %d): empty body", path, resp.StatusCode)
	}
	return env, nil
}

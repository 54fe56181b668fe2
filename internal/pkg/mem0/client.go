// Package mem0 stores and recalls long term conversation memories per user.
package mem0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

const (
	defaultSearchLimit = 5
	maxErrorBody       = 16 << 10
)

var (
	ErrNotConfigured = exception.ApplicationError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       "memory_not_configured",
		Message:    "memory service credentials are not configured",
	}
	ErrUpstream = exception.ApplicationError{
		StatusCode: http.StatusBadGateway,
		Code:       "memory_error",
		Message:    "memory service request failed",
	}
)

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(config Config) *Client {
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		client:  client,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Memory struct {
	ID     string  `json:"id"`
	Memory string  `json:"memory"`
	Score  float64 `json:"score"`
}

type addRequest struct {
	Messages []Message `json:"messages"`
	UserID   string    `json:"user_id"`
}

type searchRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
	Limit  int    `json:"limit"`
}

// Add stores the exchange as memories for userID.
func (c *Client) Add(ctx context.Context, userID string, messages []Message) error {
	return c.post(ctx, "/v1/memories/", addRequest{Messages: messages, UserID: userID}, nil)
}

// Search returns the memories of userID most relevant to query.
func (c *Client) Search(ctx context.Context, userID, query string, limit int) ([]Memory, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var memories []Memory
	if err := c.post(ctx, "/v1/memories/search/", searchRequest{Query: query, UserID: userID, Limit: limit}, &memories); err != nil {
		return nil, err
	}

	return memories, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}

	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return ErrUpstream.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return ErrUpstream.WithCause(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ErrUpstream.WithCause(fmt.Errorf("decode %s response: %w", path, err))
	}

	return nil
}

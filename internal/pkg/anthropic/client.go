// Package anthropic adapts the Anthropic Messages API to the service's chat types
// and error taxonomy.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

const (
	APIVersion = "2023-06-01"

	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrNotConfigured = exception.ApplicationError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       "llm_not_configured",
		Message:    "language model credentials are not configured",
	}
	ErrRateLimited = exception.ApplicationError{
		StatusCode: http.StatusTooManyRequests,
		Code:       "llm_rate_limited",
		Message:    "language model rate limit exceeded",
	}
	ErrUnavailable = exception.ApplicationError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       "llm_unavailable",
		Message:    "language model is unavailable",
	}
	ErrUpstream = exception.ApplicationError{
		StatusCode: http.StatusBadGateway,
		Code:       "llm_error",
		Message:    "language model request failed",
	}
	ErrEmptyResponse = exception.ApplicationError{
		StatusCode: http.StatusBadGateway,
		Code:       "llm_empty_response",
		Message:    "language model returned no text",
	}
)

var errorTable = map[string]exception.ApplicationError{
	"rate_limit_error":      ErrRateLimited,
	"overloaded_error":      ErrUnavailable,
	"api_error":             ErrUpstream,
	"authentication_error":  ErrUpstream,
	"permission_error":      ErrUpstream,
	"invalid_request_error": ErrUpstream,
	"not_found_error":       ErrUpstream,
}

type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxTokens  int
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	api       anthropicsdk.Client
	apiKey    string
	model     string
	maxTokens int
}

func NewClient(config Config) *Client {
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(client),
		option.WithHeader("anthropic-version", APIVersion),
		option.WithMaxRetries(0),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(config.BaseURL, "/")+"/"))
	}

	return &Client{
		api:       anthropicsdk.NewClient(opts...),
		apiKey:    config.APIKey,
		model:     config.Model,
		maxTokens: config.MaxTokens,
	}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type MessageRequest struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature *float64
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type MessageResponse struct {
	ID         string
	Model      string
	Text       string
	StopReason string
	Usage      *Usage
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Model is the model name sent when a request does not override it.
func (c *Client) Model() string {
	return c.model
}

// CreateMessage sends one Messages API call and joins the text blocks of the reply.
func (c *Client) CreateMessage(ctx context.Context, req MessageRequest) (MessageResponse, error) {
	if c.apiKey == "" {
		return MessageResponse{}, ErrNotConfigured
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages:  toParams(req.Messages),
	}

	if req.System != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: req.System}}
	}

	if req.Temperature != nil {
		params.Temperature = anthropicsdk.Float(*req.Temperature)
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return MessageResponse{}, c.wrapError(ctx, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return MessageResponse{}, ErrEmptyResponse
	}

	out := MessageResponse{
		ID:         msg.ID,
		Model:      string(msg.Model),
		Text:       text.String(),
		StopReason: string(msg.StopReason),
	}

	// a zero usage block means the vendor did not report it
	if msg.Usage.InputTokens > 0 || msg.Usage.OutputTokens > 0 {
		out.Usage = &Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		}
	}

	return out, nil
}

func toParams(messages []Message) []anthropicsdk.MessageParam {
	params := make([]anthropicsdk.MessageParam, 0, len(messages))

	for _, m := range messages {
		block := anthropicsdk.NewTextBlock(m.Content)

		if m.Role == RoleAssistant {
			params = append(params, anthropicsdk.NewAssistantMessage(block))
		} else {
			params = append(params, anthropicsdk.NewUserMessage(block))
		}
	}

	return params
}

func (c *Client) wrapError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *anthropicsdk.Error
	if !errors.As(err, &apiErr) {
		return ErrUnavailable.WithCause(err)
	}

	mapped := mapError(apiErr.StatusCode, []byte(apiErr.RawJSON()))

	slog.WarnContext(ctx, "anthropic request failed",
		slog.Int("status", apiErr.StatusCode),
		slog.String("error", mapped.Error()))

	return mapped
}

func mapError(status int, body []byte) exception.ApplicationError {
	var parsed errorResponse
	_ = json.Unmarshal(body, &parsed)

	mapped, ok := errorTable[parsed.Error.Type]
	if !ok {
		switch {
		case status == http.StatusTooManyRequests:
			mapped = ErrRateLimited
		case status == http.StatusServiceUnavailable || status == 529:
			mapped = ErrUnavailable
		default:
			mapped = ErrUpstream
		}
	}

	detail := parsed.Error.Message
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}

	if detail == "" {
		return mapped
	}

	return mapped.WithCause(errors.New(detail))
}

// EstimateTokens approximates token usage at four characters per token.
func EstimateTokens(text string) int {
	return len(text) / 4
}

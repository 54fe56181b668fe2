// Package tools calls the internal tool endpoints the chat router delegates to.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/logger"
)

const maxErrorBody = 16 << 10

var ErrToolFailed = exception.ApplicationError{
	StatusCode: http.StatusBadGateway,
	Code:       "tool_failed",
	Message:    "tool call failed",
}

type Invoker interface {
	Invoke(ctx context.Context, tool string, req dto.ToolRequest) (dto.ToolResult, error)
}

// HTTPInvoker posts the raw message to <BaseURL>/api/tools/<tool>.
type HTTPInvoker struct {
	baseURL string
	client  *http.Client
}

func NewHTTPInvoker(baseURL string, timeout time.Duration) *HTTPInvoker {
	return &HTTPInvoker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type toolResponse struct {
	Success bool           `json:"success"`
	Data    dto.ToolResult `json:"data"`
	Error   string         `json:"error"`
}

func (h *HTTPInvoker) Invoke(ctx context.Context, tool string, req dto.ToolRequest) (dto.ToolResult, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return dto.ToolResult{}, fmt.Errorf("marshal tool request: %w", err)
	}

	url := fmt.Sprintf("%s/api/tools/%s", h.baseURL, tool)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return dto.ToolResult{}, fmt.Errorf("build tool request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	if requestID, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		httpReq.Header.Set("X-Request-Id", requestID)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return dto.ToolResult{}, ErrToolFailed.WithCause(fmt.Errorf("%s: %w", tool, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return dto.ToolResult{}, ErrToolFailed.WithCause(
			fmt.Errorf("%s: status %d: %s", tool, resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	var parsed toolResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return dto.ToolResult{}, ErrToolFailed.WithCause(fmt.Errorf("%s: decode response: %w", tool, err))
	}

	if !parsed.Success {
		return dto.ToolResult{}, ErrToolFailed.WithCause(fmt.Errorf("%s: %s", tool, parsed.Error))
	}

	if parsed.Data.Tool == "" {
		parsed.Data.Tool = tool
	}

	return parsed.Data, nil
}

package dto

import (
	"encoding/json"
	"net/http"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ChatRequest struct {
	Message          string        `json:"message" validate:"required,max=8000"`
	UserID           string        `json:"user_id,omitempty" validate:"omitempty,max=128"`
	Context          string        `json:"context,omitempty" validate:"max=8000"`
	History          []ChatMessage `json:"history,omitempty" validate:"max=50,dive"`
	IncludeReasoning bool          `json:"include_reasoning,omitempty"`
}

// UnmarshalJSON accepts includeReasoning as sent by web clients next to include_reasoning.
func (c *ChatRequest) UnmarshalJSON(data []byte) error {
	type plain ChatRequest

	var raw struct {
		plain
		IncludeReasoningCamel *bool `json:"includeReasoning"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = ChatRequest(raw.plain)
	if raw.IncludeReasoningCamel != nil {
		c.IncludeReasoning = *raw.IncludeReasoningCamel
	}

	return nil
}

func (c *ChatRequest) Bind(r *http.Request) error {
	return validateStruct(c)
}

type Usage struct {
	InputTokens  int  `json:"input_tokens"`
	OutputTokens int  `json:"output_tokens"`
	Estimated    bool `json:"estimated"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	Reasoning string `json:"reasoning,omitempty"`
	Model     string `json:"model"`
	ToolUsed  string `json:"tool_used,omitempty"`
	Intent    string `json:"intent"`
	Usage     Usage  `json:"usage"`
}

// ConversationTurn is one side of a chat exchange. Turns are never updated.
type ConversationTurn struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	UserID         string          `json:"user_id"`
	Role           string          `json:"role"`
	Content        string          `json:"content"`
	Reasoning      *string         `json:"reasoning,omitempty"`
	ToolCall       json.RawMessage `json:"tool_call,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToolRequest is the body the chat router posts to a tool endpoint.
type ToolRequest struct {
	Message string `json:"message" validate:"required,max=8000"`
	UserID  string `json:"user_id,omitempty"`
}

func (t *ToolRequest) Bind(r *http.Request) error {
	return validateStruct(t)
}

// ToolResult is the payload returned by every tool endpoint.
type ToolResult struct {
	Tool    string `json:"tool"`
	Summary string `json:"summary"`
	Data    any    `json:"data,omitempty"`
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/anthropic"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/intent"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/logger"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/mem0"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/tools"
)

const (
	reasoningTemperature = 0.2
	reasoningMaxTokens   = 300
	memoryRecallLimit    = 5
	historyRecallLimit   = 10
	maxToolContextBytes  = 8000
)

const chatSystemPrompt = `You are a business travel assistant. You help employees plan trips, search flights,
stay within their company travel policy, process travel documents and understand their expenses.
Be concise and concrete. When tool results are provided, base flight prices, times and airlines on
them and never invent offers. Current time: %s.`

const reasoningSystemPrompt = `Explain in two or three short sentences how the previous answer was reached.
Mention which tool results or remembered facts were used, if any.`

type IntentClassifier interface {
	Classify(message string) intent.Intent
}

type LanguageModel interface {
	CreateMessage(ctx context.Context, req anthropic.MessageRequest) (anthropic.MessageResponse, error)
	Model() string
}

type MemoryStore interface {
	Enabled() bool
	Search(ctx context.Context, userID, query string, limit int) ([]mem0.Memory, error)
	Add(ctx context.Context, userID string, messages []mem0.Message) error
}

type ChatLogger interface {
	SaveTurns(ctx context.Context, turns []dto.ConversationTurn) error
}

// HistoryReader loads stored turns for callers that do not send their own history.
type HistoryReader interface {
	RecentTurns(ctx context.Context, userID string, limit int) ([]dto.ConversationTurn, error)
}

type ChatService struct {
	Classifier IntentClassifier
	Tools      tools.Invoker
	Model      LanguageModel
	Memory     MemoryStore
	Log        ChatLogger
	History    HistoryReader
	now        func() time.Time
}

// NewChatService builds the chat router. memory and log may be nil.
func NewChatService(classifier IntentClassifier, invoker tools.Invoker, model LanguageModel,
	memory MemoryStore, log ChatLogger) *ChatService {
	return &ChatService{
		Classifier: classifier,
		Tools:      invoker,
		Model:      model,
		Memory:     memory,
		Log:        log,
		now:        time.Now,
	}
}

// Chat classifies the message, runs the matching tool and answers with the language model.
// Tool, memory and persistence failures never fail the request.
func (s *ChatService) Chat(ctx context.Context, req dto.ChatRequest) (dto.ChatResponse, error) {
	if req.UserID != "" {
		ctx = logger.WithUserID(ctx, req.UserID)
	}

	detected := s.Classifier.Classify(req.Message)

	slog.InfoContext(ctx, "chat message classified", slog.String("intent", string(detected)))

	toolName, toolResult, toolOK := s.runTool(ctx, detected, req)
	memories := s.recall(ctx, req)

	system := s.systemPrompt(req.Context, memories, toolName, toolResult, toolOK)
	messages := conversation(s.history(ctx, req), req.Message)

	answer, err := s.Model.CreateMessage(ctx, anthropic.MessageRequest{
		System:   system,
		Messages: messages,
	})
	if err != nil {
		return dto.ChatResponse{}, fmt.Errorf("generate answer: %w", err)
	}

	resp := dto.ChatResponse{
		Response: answer.Text,
		Model:    answer.Model,
		Intent:   string(detected),
		Usage:    usage(answer, system, messages),
	}

	if resp.Model == "" {
		resp.Model = s.Model.Model()
	}

	if toolOK {
		resp.ToolUsed = toolName
	}

	if req.IncludeReasoning {
		resp.Reasoning = s.reason(ctx, messages, answer.Text)
	}

	s.persist(ctx, req, resp, toolName, toolResult, toolOK)

	return resp, nil
}

func (s *ChatService) runTool(ctx context.Context, detected intent.Intent, req dto.ChatRequest) (string, dto.ToolResult, bool) {
	name := detected.Tool()
	if name == "" || s.Tools == nil {
		return "", dto.ToolResult{}, false
	}

	result, err := s.Tools.Invoke(ctx, name, dto.ToolRequest{Message: req.Message, UserID: req.UserID})
	if err != nil {
		slog.WarnContext(ctx, "tool call failed, answering without tool context",
			slog.String("tool", name),
			slog.String("error", err.Error()))

		return name, dto.ToolResult{}, false
	}

	return name, result, true
}

func (s *ChatService) recall(ctx context.Context, req dto.ChatRequest) []mem0.Memory {
	if req.UserID == "" || s.Memory == nil || !s.Memory.Enabled() {
		return nil
	}

	memories, err := s.Memory.Search(ctx, req.UserID, req.Message, memoryRecallLimit)
	if err != nil {
		slog.WarnContext(ctx, "failed to recall memories", slog.String("error", err.Error()))

		return nil
	}

	return memories
}

func (s *ChatService) systemPrompt(userContext string, memories []mem0.Memory, toolName string,
	toolResult dto.ToolResult, toolOK bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, chatSystemPrompt, s.now().UTC().Format(time.RFC3339))

	if userContext = strings.TrimSpace(userContext); userContext != "" {
		b.WriteString("\n\nContext from the user:\n")
		b.WriteString(userContext)
	}

	if len(memories) > 0 {
		b.WriteString("\n\nWhat you remember about this user:")

		for _, m := range memories {
			b.WriteString("\n- ")
			b.WriteString(m.Memory)
		}
	}

	if toolOK {
		fmt.Fprintf(&b, "\n\nResult of the %s tool:\n%s", toolName, toolSummary(toolResult))
	}

	return b.String()
}

func toolSummary(result dto.ToolResult) string {
	raw, err := json.Marshal(result)
	if err != nil {
		return result.Summary
	}

	if len(raw) > maxToolContextBytes {
		return result.Summary
	}

	return string(raw)
}

// history returns the request history or, when there is none, the stored turns
// of the user in chronological order.
func (s *ChatService) history(ctx context.Context, req dto.ChatRequest) []dto.ChatMessage {
	if len(req.History) > 0 || req.UserID == "" || s.History == nil {
		return req.History
	}

	turns, err := s.History.RecentTurns(ctx, req.UserID, historyRecallLimit)
	if err != nil {
		slog.WarnContext(ctx, "failed to load conversation history", slog.String("error", err.Error()))

		return nil
	}

	// both turns of an exchange can share a timestamp; the question goes first
	sort.SliceStable(turns, func(i, j int) bool {
		if !turns[i].CreatedAt.Equal(turns[j].CreatedAt) {
			return turns[i].CreatedAt.Before(turns[j].CreatedAt)
		}

		return turns[i].Role == dto.RoleUser && turns[j].Role != dto.RoleUser
	})

	history := make([]dto.ChatMessage, 0, len(turns))
	for _, turn := range turns {
		history = append(history, dto.ChatMessage{Role: turn.Role, Content: turn.Content})
	}

	return history
}

// conversation turns the history into model messages. The model requires the
// first message to come from the user, so leading assistant turns are dropped.
func conversation(history []dto.ChatMessage, message string) []anthropic.Message {
	messages := make([]anthropic.Message, 0, len(history)+1)

	for _, h := range history {
		if len(messages) == 0 && h.Role != dto.RoleUser {
			continue
		}

		messages = append(messages, anthropic.Message{Role: h.Role, Content: h.Content})
	}

	return append(messages, anthropic.Message{Role: anthropic.RoleUser, Content: message})
}

func usage(answer anthropic.MessageResponse, system string, messages []anthropic.Message) dto.Usage {
	if answer.Usage != nil {
		return dto.Usage{
			InputTokens:  answer.Usage.InputTokens,
			OutputTokens: answer.Usage.OutputTokens,
		}
	}

	input := anthropic.EstimateTokens(system)
	for _, m := range messages {
		input += anthropic.EstimateTokens(m.Content)
	}

	return dto.Usage{
		InputTokens:  input,
		OutputTokens: anthropic.EstimateTokens(answer.Text),
		Estimated:    true,
	}
}

func (s *ChatService) reason(ctx context.Context, messages []anthropic.Message, answer string) string {
	temperature := reasoningTemperature

	withAnswer := make([]anthropic.Message, 0, len(messages)+2)
	withAnswer = append(withAnswer, messages...)
	withAnswer = append(withAnswer,
		anthropic.Message{Role: anthropic.RoleAssistant, Content: answer},
		anthropic.Message{Role: anthropic.RoleUser, Content: "Briefly explain your reasoning."},
	)

	resp, err := s.Model.CreateMessage(ctx, anthropic.MessageRequest{
		System:      reasoningSystemPrompt,
		Messages:    withAnswer,
		MaxTokens:   reasoningMaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to generate reasoning", slog.String("error", err.Error()))

		return ""
	}

	return resp.Text
}

func (s *ChatService) persist(ctx context.Context, req dto.ChatRequest, resp dto.ChatResponse,
	toolName string, toolResult dto.ToolResult, toolOK bool) {
	if req.UserID == "" {
		return
	}

	if s.Log != nil {
		s.saveTurns(ctx, req, resp, toolName, toolResult, toolOK)
	}

	if s.Memory != nil && s.Memory.Enabled() {
		err := s.Memory.Add(ctx, req.UserID, []mem0.Message{
			{Role: dto.RoleUser, Content: req.Message},
			{Role: dto.RoleAssistant, Content: resp.Response},
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to store memory", slog.String("error", err.Error()))
		}
	}
}

func (s *ChatService) saveTurns(ctx context.Context, req dto.ChatRequest, resp dto.ChatResponse,
	toolName string, toolResult dto.ToolResult, toolOK bool) {
	now := s.now()
	conversationID := uuid.NewString()

	assistant := dto.ConversationTurn{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		UserID:         req.UserID,
		Role:           dto.RoleAssistant,
		Content:        resp.Response,
		CreatedAt:      now.Add(time.Microsecond),
	}

	if resp.Reasoning != "" {
		reasoning := resp.Reasoning
		assistant.Reasoning = &reasoning
	}

	if toolOK {
		raw, err := json.Marshal(map[string]any{"tool": toolName, "summary": toolResult.Summary})
		if err == nil {
			assistant.ToolCall = raw
		}
	}

	turns := []dto.ConversationTurn{
		{
			ID:             uuid.NewString(),
			ConversationID: conversationID,
			UserID:         req.UserID,
			Role:           dto.RoleUser,
			Content:        req.Message,
			CreatedAt:      now,
		},
		assistant,
	}

	if err := s.Log.SaveTurns(ctx, turns); err != nil {
		slog.WarnContext(ctx, "failed to save conversation", slog.String("error", err.Error()))
	}
}

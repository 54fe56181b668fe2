package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/jmoiron/sqlx"
)

type ChatLogRepository struct {
	db *sqlx.DB
}

func NewChatLogRepository(db *sqlx.DB) *ChatLogRepository {
	return &ChatLogRepository{db: db}
}

// turnRow keeps nullable columns nullable. tool_call is jsonb.
type turnRow struct {
	ID             string         `db:"id"`
	ConversationID string         `db:"conversation_id"`
	UserID         string         `db:"user_id"`
	Role           string         `db:"role"`
	Content        string         `db:"content"`
	Reasoning      sql.NullString `db:"reasoning"`
	ToolCall       sql.NullString `db:"tool_call"`
	CreatedAt      time.Time      `db:"created_at"`
}

func toTurnRow(turn dto.ConversationTurn) turnRow {
	row := turnRow{
		ID:             turn.ID,
		ConversationID: turn.ConversationID,
		UserID:         turn.UserID,
		Role:           turn.Role,
		Content:        turn.Content,
		CreatedAt:      turn.CreatedAt,
	}

	if turn.Reasoning != nil {
		row.Reasoning = sql.NullString{String: *turn.Reasoning, Valid: true}
	}

	if len(turn.ToolCall) > 0 {
		row.ToolCall = sql.NullString{String: string(turn.ToolCall), Valid: true}
	}

	return row
}

func (row turnRow) toTurn() dto.ConversationTurn {
	turn := dto.ConversationTurn{
		ID:             row.ID,
		ConversationID: row.ConversationID,
		UserID:         row.UserID,
		Role:           row.Role,
		Content:        row.Content,
		CreatedAt:      row.CreatedAt,
	}

	if row.Reasoning.Valid {
		reasoning := row.Reasoning.String
		turn.Reasoning = &reasoning
	}

	if row.ToolCall.Valid {
		turn.ToolCall = json.RawMessage(row.ToolCall.String)
	}

	return turn
}

// SaveTurns appends turns in one statement. Turns are never updated.
func (r *ChatLogRepository) SaveTurns(ctx context.Context, turns []dto.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}

	rows := make([]turnRow, 0, len(turns))
	for _, turn := range turns {
		rows = append(rows, toTurnRow(turn))
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO conversation_turns (id, conversation_id, user_id, role, content, reasoning, tool_call, created_at)
		VALUES (:id, :conversation_id, :user_id, :role, :content, :reasoning, :tool_call, :created_at)`, rows)
	if err != nil {
		return fmt.Errorf("save conversation turns: %w", MapError(err))
	}

	return nil
}

// RecentTurns returns the latest turns of a user in chronological order.
func (r *ChatLogRepository) RecentTurns(ctx context.Context, userID string, limit int) ([]dto.ConversationTurn, error) {
	rows := []turnRow{}

	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, conversation_id, user_id, role, content, reasoning, tool_call::text AS tool_call, created_at
		FROM (
			SELECT * FROM conversation_turns
			WHERE user_id = $1
			ORDER BY created_at DESC, CASE role WHEN 'assistant' THEN 0 ELSE 1 END
			LIMIT $2
		) recent
		ORDER BY created_at ASC, CASE role WHEN 'user' THEN 0 ELSE 1 END`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load conversation turns: %w", MapError(err))
	}

	turns := make([]dto.ConversationTurn, 0, len(rows))
	for _, row := range rows {
		turns = append(turns, row.toTurn())
	}

	return turns, nil
}

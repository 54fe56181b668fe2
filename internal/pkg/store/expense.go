package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/jmoiron/sqlx"
)

type ExpenseRepository struct {
	db *sqlx.DB
}

func NewExpenseRepository(db *sqlx.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// TotalsByCategory sums the expenses of a user incurred at or after since, largest first.
func (r *ExpenseRepository) TotalsByCategory(ctx context.Context, userID string, since time.Time) ([]dto.ExpenseCategoryTotal, error) {
	totals := []dto.ExpenseCategoryTotal{}

	err := r.db.SelectContext(ctx, &totals, `
		SELECT category, currency, SUM(amount)::float8 AS total, COUNT(*) AS count
		FROM expenses
		WHERE user_id = $1 AND incurred_at >= $2
		GROUP BY category, currency
		ORDER BY total DESC, category ASC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("aggregate expenses of user %s: %w", userID, MapError(err))
	}

	return totals, nil
}

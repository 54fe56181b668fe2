package store

import (
	"context"
	"fmt"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/jmoiron/sqlx"
)

type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert writes the billing state of a user. Empty customer or subscription ids
// keep the stored value.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub dto.Subscription) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO subscriptions (user_id, stripe_customer_id, stripe_subscription_id, status, tier, updated_at)
		VALUES (:user_id, :stripe_customer_id, :stripe_subscription_id, :status, :tier, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			stripe_customer_id = COALESCE(NULLIF(EXCLUDED.stripe_customer_id, ''), subscriptions.stripe_customer_id),
			stripe_subscription_id = COALESCE(NULLIF(EXCLUDED.stripe_subscription_id, ''), subscriptions.stripe_subscription_id),
			status = COALESCE(NULLIF(EXCLUDED.status, ''), subscriptions.status),
			tier = COALESCE(NULLIF(EXCLUDED.tier, ''), subscriptions.tier),
			updated_at = EXCLUDED.updated_at`, sub)
	if err != nil {
		return fmt.Errorf("upsert subscription %s: %w", sub.UserID, MapError(err))
	}

	return nil
}

func (r *SubscriptionRepository) FindByUserID(ctx context.Context, userID string) (dto.Subscription, error) {
	var sub dto.Subscription

	err := r.db.GetContext(ctx, &sub, `
		SELECT user_id, stripe_customer_id, stripe_subscription_id, status, tier, updated_at
		FROM subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		return dto.Subscription{}, fmt.Errorf("find subscription of user %s: %w", userID, MapError(err))
	}

	return sub, nil
}

func (r *SubscriptionRepository) FindByCustomerID(ctx context.Context, customerID string) (dto.Subscription, error) {
	var sub dto.Subscription

	err := r.db.GetContext(ctx, &sub, `
		SELECT user_id, stripe_customer_id, stripe_subscription_id, status, tier, updated_at
		FROM subscriptions WHERE stripe_customer_id = $1`, customerID)
	if err != nil {
		return dto.Subscription{}, fmt.Errorf("find subscription of customer %s: %w", customerID, MapError(err))
	}

	return sub, nil
}

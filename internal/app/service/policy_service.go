package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/policy"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/store"
)

type SubscriptionFinder interface {
	FindByUserID(ctx context.Context, userID string) (dto.Subscription, error)
}

var activeStatuses = map[string]bool{
	"active":   true,
	"trialing": true,
}

type PolicyService struct {
	Subscriptions SubscriptionFinder
	now           func() time.Time
}

func NewPolicyService(subscriptions SubscriptionFinder) *PolicyService {
	return &PolicyService{
		Subscriptions: subscriptions,
		now:           time.Now,
	}
}

// Evaluate checks the booking against the policy of the caller's tier.
func (s *PolicyService) Evaluate(ctx context.Context, req dto.PolicyEvaluateRequest) (policy.Decision, error) {
	booking := req.Booking
	if booking.RequestedAt.IsZero() {
		booking.RequestedAt = s.now()
	}

	tier := s.ResolveTier(ctx, req.UserID, req.Tier)

	decision := policy.Evaluate(policy.ForTier(tier), booking)

	slog.DebugContext(ctx, "policy evaluated",
		slog.String("tier", string(tier)),
		slog.String("outcome", string(decision.Outcome)),
		slog.Int("violations", len(decision.Violations)))

	return decision, nil
}

// ResolveTier prefers the stored subscription of userID. A lapsed subscription
// means free. The requested tier only applies when no subscription is stored;
// a failed lookup falls back to free.
func (s *PolicyService) ResolveTier(ctx context.Context, userID, requested string) policy.Tier {
	if userID == "" || s.Subscriptions == nil {
		return policy.ParseTier(requested)
	}

	sub, err := s.Subscriptions.FindByUserID(ctx, userID)
	switch {
	case err == nil && activeStatuses[sub.Status]:
		return policy.ParseTier(sub.Tier)
	case err == nil:
		return policy.TierFree
	case errors.Is(err, store.ErrNotFound):
		return policy.ParseTier(requested)
	default:
		slog.WarnContext(ctx, "failed to load subscription", slog.String("error", err.Error()))

		return policy.TierFree
	}
}

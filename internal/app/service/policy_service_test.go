//go:build unit

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/policy"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPolicyService_ResolveTier(t *testing.T) {
	resolveTierRequest := func(userID, requested string, setupMock func(m *MockSubscriptionStore), want policy.Tier) func(t *testing.T) {
		return func(t *testing.T) {
			m := NewMockSubscriptionStore(t)
			setupMock(m)

			s := NewPolicyService(m)

			assert.Equal(t, want, s.ResolveTier(context.Background(), userID, requested))
		}
	}

	t.Run("no_user_uses_requested", resolveTierRequest("", "pro",
		func(m *MockSubscriptionStore) {},
		policy.TierPro))

	t.Run("no_user_defaults_to_free", resolveTierRequest("", "",
		func(m *MockSubscriptionStore) {},
		policy.TierFree))

	t.Run("active_subscription_wins", resolveTierRequest("usr_1", "free",
		func(m *MockSubscriptionStore) {
			m.On("FindByUserID", mock.Anything, "usr_1").
				Return(dto.Subscription{UserID: "usr_1", Status: "active", Tier: "enterprise"}, nil)
		},
		policy.TierEnterprise))

	t.Run("lapsed_subscription_is_free", resolveTierRequest("usr_1", "enterprise",
		func(m *MockSubscriptionStore) {
			m.On("FindByUserID", mock.Anything, "usr_1").
				Return(dto.Subscription{UserID: "usr_1", Status: "canceled", Tier: "pro"}, nil)
		},
		policy.TierFree))

	t.Run("unknown_user_uses_requested", resolveTierRequest("usr_2", "pro",
		func(m *MockSubscriptionStore) {
			m.On("FindByUserID", mock.Anything, "usr_2").Return(dto.Subscription{}, store.ErrNotFound)
		},
		policy.TierPro))

	t.Run("store_failure_is_free", resolveTierRequest("usr_3", "enterprise",
		func(m *MockSubscriptionStore) {
			m.On("FindByUserID", mock.Anything, "usr_3").Return(dto.Subscription{}, errors.New("timeout"))
		},
		policy.TierFree))
}

func TestPolicyService_Evaluate(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	s := NewPolicyService(nil)
	s.now = func() time.Time { return now }

	decision, err := s.Evaluate(context.Background(), dto.PolicyEvaluateRequest{
		Tier: "free",
		Booking: policy.Booking{
			TotalCost:     750,
			CabinClass:    "economy",
			DepartureDate: "2025-06-01",
		},
	})

	require.NoError(t, err)
	assert.False(t, decision.Approved)
	assert.Equal(t, policy.OutcomeRejected, decision.Outcome)
	assert.Equal(t, policy.TierFree, decision.Tier)
	require.Len(t, decision.Violations, 1)
	assert.Equal(t, "budget-limit", decision.Violations[0].RuleID)
}

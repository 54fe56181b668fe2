//go:build unit

package policy

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requestedAt = time.Date(2025, 5, 1, 15, 30, 0, 0, time.UTC)

func TestEvaluate(t *testing.T) {
	evaluate := func(tier Tier, booking Booking, wantOutcome Outcome, wantCodes []string) func(t *testing.T) {
		return func(t *testing.T) {
			decision := Evaluate(ForTier(tier), booking)

			assert.Equal(t, wantOutcome, decision.Outcome)
			assert.Equal(t, len(wantCodes) == 0, decision.Approved)

			gotCodes := make([]string, 0, len(decision.Violations))
			for _, v := range decision.Violations {
				gotCodes = append(gotCodes, v.Code)
			}

			if diff := cmp.Diff(wantCodes, gotCodes); diff != "" {
				t.Fatalf("violation codes mismatch (-want +got):\n%s", diff)
			}
		}
	}

	trusted := Requester{TenureDays: 400, PriorBookings: 12}

	t.Run("free_tier_over_budget", evaluate(TierFree, Booking{
		TotalCost: 600, RequestedAt: requestedAt, Requester: trusted,
	}, OutcomeRejected, []string{"budget_exceeded"}))

	t.Run("free_tier_within_budget", evaluate(TierFree, Booking{
		TotalCost: 500, CabinClass: "first", DepartureDate: "2025-05-02", RequestedAt: requestedAt,
	}, OutcomeApproved, []string{}))

	t.Run("pro_business_cabin_requires_approval", evaluate(TierPro, Booking{
		TotalCost: 1500, CabinClass: "business", DepartureDate: "2025-06-01", RequestedAt: requestedAt,
	}, OutcomeRequireApproval, []string{"cabin_not_allowed"}))

	t.Run("pro_first_violation_decides", evaluate(TierPro, Booking{
		TotalCost: 2500, CabinClass: "business", DepartureDate: "2025-05-03", RequestedAt: requestedAt,
	}, OutcomeRejected, []string{"budget_exceeded", "cabin_not_allowed", "insufficient_advance_booking"}))

	t.Run("enterprise_late_booking", evaluate(TierEnterprise, Booking{
		TotalCost: 1200, DepartureDate: "2025-05-03", RequestedAt: requestedAt,
	}, OutcomeRequireApproval, []string{"insufficient_advance_booking"}))

	t.Run("enterprise_exact_advance_window", evaluate(TierEnterprise, Booking{
		TotalCost: 1200, DepartureDate: "2025-05-04", RequestedAt: requestedAt,
	}, OutcomeApproved, []string{}))

	t.Run("enterprise_invalid_departure", evaluate(TierEnterprise, Booking{
		TotalCost: 100, DepartureDate: "05/04/2025", RequestedAt: requestedAt,
	}, OutcomeRequireApproval, []string{"invalid_departure_date"}))
}

func TestEvaluate_BudgetReason(t *testing.T) {
	decision := Evaluate(ForTier(TierFree), Booking{TotalCost: 600, RequestedAt: requestedAt})

	require.Len(t, decision.Violations, 1)
	assert.False(t, decision.Approved)
	assert.Equal(t, "budget-limit", decision.Violations[0].RuleID)
	assert.Contains(t, decision.Violations[0].Reason, "exceeds the budget limit of 500.00")
	assert.Equal(t, []string{decision.Violations[0].Reason}, decision.Reasons)
}

func TestEvaluate_SkipsAIRules(t *testing.T) {
	decision := Evaluate(ForTier(TierPro), Booking{
		TotalCost: 100, DepartureDate: "2025-07-01", RequestedAt: requestedAt,
	})

	assert.True(t, decision.Approved)
	assert.Equal(t, []string{"ai-budget-reasonableness"}, decision.SkippedRules)
	assert.Equal(t, []string{"booking complies with 3 evaluated rule(s)"}, decision.Reasons)
}

func TestEvaluate_Deterministic(t *testing.T) {
	booking := Booking{
		TotalCost:     2400,
		CabinClass:    "first",
		DepartureDate: "2025-05-02",
		RequestedAt:   requestedAt,
		Requester:     Requester{TenureDays: 3},
	}

	first := Evaluate(ForTier(TierPro), booking)
	for i := 0; i < 50; i++ {
		if diff := cmp.Diff(first, Evaluate(ForTier(TierPro), booking)); diff != "" {
			t.Fatalf("evaluation is not deterministic (-first +got):\n%s", diff)
		}
	}
}

func TestEvaluate_PriorityOrder(t *testing.T) {
	p := Policy{
		Tier: TierPro,
		Rules: []Rule{
			{ID: "late", Type: RuleAdvanceBooking, Priority: 5, Action: ActionReject, MinAdvanceDays: 30},
			{ID: "cabin", Type: RuleCabinClassRestriction, Priority: 1, Action: ActionRequireApproval,
				AllowedCabins: []string{"economy"}},
		},
	}

	decision := Evaluate(p, Booking{CabinClass: "business", DepartureDate: "2025-05-10", RequestedAt: requestedAt})

	require.Len(t, decision.Violations, 2)
	assert.Equal(t, "cabin", decision.Violations[0].RuleID)
	assert.Equal(t, OutcomeRequireApproval, decision.Outcome)
	assert.Equal(t, "late", p.Rules[0].ID, "input rules must not be reordered")
}

func TestAutoApprovalConfidence(t *testing.T) {
	confidence := func(r Requester, want int) func(t *testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, want, AutoApprovalConfidence(r))
		}
	}

	t.Run("trusted", confidence(Requester{TenureDays: 90, PriorBookings: 4}, 95))
	t.Run("new_requester", confidence(Requester{TenureDays: 5, PriorBookings: 2}, 75))
	t.Run("no_bookings", confidence(Requester{TenureDays: 90}, 85))
	t.Run("new_without_bookings", confidence(Requester{}, 65))
}

func TestForTier(t *testing.T) {
	ids := func(p Policy) []string {
		out := make([]string, 0, len(p.Rules))
		for _, r := range p.Rules {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"budget-limit"}, ids(ForTier(TierFree)))
	assert.Equal(t, []string{"pro-budget-limit", "pro-cabin-class", "pro-advance-booking", "ai-budget-reasonableness"},
		ids(ForTier(TierPro)))
	assert.Equal(t, []string{"enterprise-budget-approval", "enterprise-advance-booking", "ai-budget-reasonableness"},
		ids(ForTier(TierEnterprise)))
	assert.Equal(t, TierFree, ParseTier("unknown"))
	assert.Equal(t, TierEnterprise, ParseTier(" Enterprise "))
}

package policy

import "strings"

type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// ParseTier maps a subscription or request value to a tier, defaulting to free.
func ParseTier(value string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(value))) {
	case TierPro:
		return TierPro
	case TierEnterprise:
		return TierEnterprise
	default:
		return TierFree
	}
}

// DefaultRules is the rule catalogue. Each rule lists the tiers it belongs to.
var DefaultRules = []Rule{
	{
		ID:        "budget-limit",
		Name:      "Budget limit",
		Type:      RuleBudgetCeiling,
		Priority:  1,
		Action:    ActionReject,
		Tiers:     []Tier{TierFree},
		MaxAmount: 500,
	},
	{
		ID:        "pro-budget-limit",
		Name:      "Pro budget limit",
		Type:      RuleBudgetCeiling,
		Priority:  1,
		Action:    ActionReject,
		Tiers:     []Tier{TierPro},
		MaxAmount: 2000,
	},
	{
		ID:            "pro-cabin-class",
		Name:          "Economy cabins only",
		Type:          RuleCabinClassRestriction,
		Priority:      2,
		Action:        ActionRequireApproval,
		Tiers:         []Tier{TierPro},
		AllowedCabins: []string{"economy", "premium_economy"},
	},
	{
		ID:             "pro-advance-booking",
		Name:           "Book 7 days ahead",
		Type:           RuleAdvanceBooking,
		Priority:       3,
		Action:         ActionRequireApproval,
		Tiers:          []Tier{TierPro},
		MinAdvanceDays: 7,
	},
	{
		ID:        "enterprise-budget-approval",
		Name:      "Enterprise budget approval",
		Type:      RuleBudgetCeiling,
		Priority:  1,
		Action:    ActionRequireApproval,
		Tiers:     []Tier{TierEnterprise},
		MaxAmount: 5000,
	},
	{
		ID:             "enterprise-advance-booking",
		Name:           "Book 3 days ahead",
		Type:           RuleAdvanceBooking,
		Priority:       2,
		Action:         ActionRequireApproval,
		Tiers:          []Tier{TierEnterprise},
		MinAdvanceDays: 3,
	},
	{
		ID:        "ai-budget-reasonableness",
		Name:      "Budget reasonableness review",
		Type:      RuleAIEvaluated,
		Priority:  10,
		Action:    ActionRequireApproval,
		Tiers:     []Tier{TierPro, TierEnterprise},
		Condition: "ai_evaluate_budget_reasonableness(booking.total_cost, booking.route)",
	},
}

// ForTier builds the policy for tier out of DefaultRules.
func ForTier(tier Tier) Policy {
	rules := make([]Rule, 0, len(DefaultRules))

	for _, rule := range DefaultRules {
		if rule.AppliesTo(tier) {
			rules = append(rules, rule)
		}
	}

	return Policy{
		Name:  string(tier) + "-travel-policy",
		Tier:  tier,
		Rules: rules,
	}
}

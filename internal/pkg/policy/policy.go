// Package policy evaluates proposed bookings against ordered, declarative travel rules.
package policy

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type RuleType string

const (
	RuleBudgetCeiling         RuleType = "budget_ceiling"
	RuleCabinClassRestriction RuleType = "cabin_class_restriction"
	RuleAdvanceBooking        RuleType = "advance_booking"
	// RuleAIEvaluated rules carry an opaque condition with no interpreter. They are reported, never executed.
	RuleAIEvaluated RuleType = "ai_evaluated"
)

type Action string

const (
	ActionReject          Action = "reject"
	ActionRequireApproval Action = "require_approval"
)

type Outcome string

const (
	OutcomeApproved        Outcome = "approved"
	OutcomeRequireApproval Outcome = "require_approval"
	OutcomeRejected        Outcome = "rejected"
)

const dateLayout = "2006-01-02"

type Rule struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           RuleType `json:"type"`
	Priority       int      `json:"priority"`
	Action         Action   `json:"action"`
	Tiers          []Tier   `json:"tiers"`
	MaxAmount      float64  `json:"max_amount,omitempty"`
	AllowedCabins  []string `json:"allowed_cabins,omitempty"`
	MinAdvanceDays int      `json:"min_advance_days,omitempty"`
	Condition      string   `json:"condition,omitempty"`
}

// AppliesTo reports whether the rule is part of the tier's policy.
func (r Rule) AppliesTo(tier Tier) bool {
	for _, t := range r.Tiers {
		if t == tier {
			return true
		}
	}

	return false
}

type Policy struct {
	Name  string `json:"name"`
	Tier  Tier   `json:"tier"`
	Rules []Rule `json:"rules"`
}

type Requester struct {
	TenureDays    int `json:"tenure_days" validate:"gte=0"`
	PriorBookings int `json:"prior_bookings" validate:"gte=0"`
}

// Booking is the proposed trip. RequestedAt anchors advance-booking checks so that
// evaluation does not depend on the wall clock.
type Booking struct {
	TotalCost     float64   `json:"total_cost" validate:"gte=0"`
	Currency      string    `json:"currency,omitempty"`
	CabinClass    string    `json:"cabin_class,omitempty"`
	DepartureDate string    `json:"departure_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	RequestedAt   time.Time `json:"requested_at"`
	Requester     Requester `json:"requester"`
}

type Violation struct {
	RuleID   string   `json:"rule_id"`
	RuleName string   `json:"rule_name"`
	Type     RuleType `json:"type"`
	Action   Action   `json:"action"`
	Code     string   `json:"code"`
	Reason   string   `json:"reason"`
}

type Decision struct {
	Approved     bool        `json:"approved"`
	Outcome      Outcome     `json:"outcome"`
	Confidence   int         `json:"confidence"`
	Tier         Tier        `json:"tier"`
	Reasons      []string    `json:"reasons"`
	Violations   []Violation `json:"violations"`
	SkippedRules []string    `json:"skipped_rules"`
}

// Evaluate applies the policy rules to booking in priority order. The first
// violation's action decides between rejection and approval routing.
func Evaluate(p Policy, booking Booking) Decision {
	rules := make([]Rule, len(p.Rules))
	copy(rules, p.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})

	decision := Decision{
		Tier:         p.Tier,
		Reasons:      []string{},
		Violations:   []Violation{},
		SkippedRules: []string{},
	}

	evaluated := 0
	for _, rule := range rules {
		if rule.Type == RuleAIEvaluated {
			decision.SkippedRules = append(decision.SkippedRules, rule.ID)
			continue
		}

		evaluated++

		if v, violated := check(rule, booking); violated {
			decision.Violations = append(decision.Violations, v)
			decision.Reasons = append(decision.Reasons, v.Reason)
		}
	}

	decision.Approved = len(decision.Violations) == 0
	decision.Confidence = AutoApprovalConfidence(booking.Requester)

	switch {
	case decision.Approved:
		decision.Outcome = OutcomeApproved
		decision.Reasons = append(decision.Reasons,
			fmt.Sprintf("booking complies with %d evaluated rule(s)", evaluated))
	case decision.Violations[0].Action == ActionRequireApproval:
		decision.Outcome = OutcomeRequireApproval
	default:
		decision.Outcome = OutcomeRejected
	}

	return decision
}

func check(rule Rule, booking Booking) (Violation, bool) {
	v := Violation{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		Type:     rule.Type,
		Action:   rule.Action,
	}

	switch rule.Type {
	case RuleBudgetCeiling:
		if booking.TotalCost <= rule.MaxAmount {
			return v, false
		}

		v.Code = "budget_exceeded"
		v.Reason = fmt.Sprintf("total cost %.2f exceeds the budget limit of %.2f",
			booking.TotalCost, rule.MaxAmount)

	case RuleCabinClassRestriction:
		cabin := strings.ToLower(booking.CabinClass)
		if cabin == "" {
			cabin = "economy"
		}

		for _, allowed := range rule.AllowedCabins {
			if strings.EqualFold(allowed, cabin) {
				return v, false
			}
		}

		v.Code = "cabin_not_allowed"
		v.Reason = fmt.Sprintf("cabin class %s is not allowed, permitted: %s",
			cabin, strings.Join(rule.AllowedCabins, ", "))

	case RuleAdvanceBooking:
		if booking.DepartureDate == "" {
			return v, false
		}

		departure, err := time.Parse(dateLayout, booking.DepartureDate)
		if err != nil {
			v.Code = "invalid_departure_date"
			v.Reason = fmt.Sprintf("departure date %q is not a valid date", booking.DepartureDate)

			return v, true
		}

		requested := booking.RequestedAt.UTC()
		requestedDay := time.Date(requested.Year(), requested.Month(), requested.Day(), 0, 0, 0, 0, time.UTC)
		days := int(departure.Sub(requestedDay).Hours() / 24)

		if days >= rule.MinAdvanceDays {
			return v, false
		}

		v.Code = "insufficient_advance_booking"
		v.Reason = fmt.Sprintf("booking made %d day(s) before departure, at least %d required",
			days, rule.MinAdvanceDays)

	default:
		return v, false
	}

	return v, true
}

// AutoApprovalConfidence scores how much the requester can be trusted for
// automatic approval: 95 base, minus 20 for tenure under 30 days, minus 10 with no prior bookings.
func AutoApprovalConfidence(r Requester) int {
	confidence := 95

	if r.TenureDays < 30 {
		confidence -= 20
	}

	if r.PriorBookings == 0 {
		confidence -= 10
	}

	if confidence < 0 {
		return 0
	}

	return confidence
}

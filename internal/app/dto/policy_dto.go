package dto

import (
	"net/http"

	"github.com/ijalalfrz/business-travel-service/internal/pkg/policy"
)

type PolicyEvaluateRequest struct {
	Booking policy.Booking `json:"booking"`
	UserID  string         `json:"user_id,omitempty"`
	Tier    string         `json:"tier,omitempty" validate:"omitempty,oneof=free pro enterprise"`
}

func (p *PolicyEvaluateRequest) Bind(r *http.Request) error {
	return validateStruct(p)
}

package endpoints

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/policy"
)

type PolicyService interface {
	Evaluate(ctx context.Context, req dto.PolicyEvaluateRequest) (policy.Decision, error)
}

type PolicyEndpoint struct {
	Evaluate endpoint.Endpoint
}

func MakePolicyEndpoint(service PolicyService) PolicyEndpoint {
	return PolicyEndpoint{
		Evaluate: func(ctx context.Context, req interface{}) (interface{}, error) {
			request, ok := req.(*dto.PolicyEvaluateRequest)
			if !ok || request == nil {
				return nil, errInvalidType
			}

			decision, err := service.Evaluate(ctx, *request)
			if err != nil {
				return nil, fmt.Errorf("policy service: %w", err)
			}

			return decision, nil
		},
	}
}

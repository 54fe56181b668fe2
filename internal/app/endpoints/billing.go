package endpoints

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
)

type BillingService interface {
	HandleWebhook(ctx context.Context, event dto.WebhookEvent) (dto.WebhookResponse, error)
}

type BillingEndpoint struct {
	HandleWebhook endpoint.Endpoint
}

func MakeBillingEndpoint(service BillingService) BillingEndpoint {
	return BillingEndpoint{
		HandleWebhook: func(ctx context.Context, req interface{}) (interface{}, error) {
			request, ok := req.(*dto.WebhookEvent)
			if !ok || request == nil {
				return nil, errInvalidType
			}

			resp, err := service.HandleWebhook(ctx, *request)
			if err != nil {
				return nil, fmt.Errorf("billing service: %w", err)
			}

			return resp, nil
		},
	}
}

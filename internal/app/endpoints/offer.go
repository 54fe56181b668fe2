package endpoints

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
)

type OfferService interface {
	SearchOffers(ctx context.Context, params dto.SearchParams) (dto.SearchOffersResponse, error)
	GetOffer(ctx context.Context, offerID string) (dto.Offer, error)
}

type OfferEndpoint struct {
	SearchOffers endpoint.Endpoint
	GetOffer     endpoint.Endpoint
}

func MakeOfferEndpoint(service OfferService) OfferEndpoint {
	return OfferEndpoint{
		SearchOffers: makeSearchOffersEndpoint(service),
		GetOffer:     makeGetOfferEndpoint(service),
	}
}

func makeSearchOffersEndpoint(service OfferService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.SearchParams)
		if !ok || request == nil {
			return nil, errInvalidType
		}

		result, err := service.SearchOffers(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("offer service: %w", err)
		}

		return dto.NewResponse(result), nil
	}
}

func makeGetOfferEndpoint(service OfferService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.OfferRequest)
		if !ok || request == nil {
			return nil, errInvalidType
		}

		offer, err := service.GetOffer(ctx, request.OfferID)
		if err != nil {
			return nil, fmt.Errorf("offer service: %w", err)
		}

		return dto.NewResponse(offer), nil
	}
}

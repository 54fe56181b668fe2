package endpoints

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
)

type PlaceService interface {
	SearchPlaces(ctx context.Context, query dto.PlaceQuery) ([]dto.Place, error)
}

type PlaceEndpoint struct {
	SearchPlaces endpoint.Endpoint
}

func MakePlaceEndpoint(service PlaceService) PlaceEndpoint {
	return PlaceEndpoint{
		SearchPlaces: func(ctx context.Context, req interface{}) (interface{}, error) {
			request, ok := req.(*dto.PlaceQuery)
			if !ok || request == nil {
				return nil, errInvalidType
			}

			places, err := service.SearchPlaces(ctx, *request)
			if err != nil {
				return nil, fmt.Errorf("place service: %w", err)
			}

			return dto.NewResponse(places), nil
		},
	}
}

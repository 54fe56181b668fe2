package service

import (
	"context"
	"fmt"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/places"
)

type PlaceSuggester interface {
	Suggest(ctx context.Context, query string) ([]dto.Place, error)
}

type PlaceService struct {
	Resolver PlaceSuggester
}

func NewPlaceService(resolver PlaceSuggester) *PlaceService {
	return &PlaceService{Resolver: resolver}
}

// SearchPlaces validates the query, asks the vendors and ranks their answer.
func (s *PlaceService) SearchPlaces(ctx context.Context, query dto.PlaceQuery) ([]dto.Place, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	suggestions, err := s.Resolver.Suggest(ctx, query.Query)
	if err != nil {
		return nil, fmt.Errorf("suggest places: %w", err)
	}

	return places.Rank(suggestions, query.Query, query.Types, query.Limit), nil
}

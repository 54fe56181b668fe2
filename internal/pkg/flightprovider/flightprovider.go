package flightprovider

import (
	"context"
	"net/http"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/ratelimit"
)

// config for flight provider
type FlightProviderConfig struct {
	BaseURL      string
	Token        string
	Version      string
	Timeout      time.Duration
	RateLimitRPS int
	Limiter      ratelimit.Limiter
	HTTPClient   *http.Client
}

// OfferSearchResult is what a provider returns for one offer request.
type OfferSearchResult struct {
	OfferRequestID string
	Offers         []dto.Offer
}

type OfferProvider interface {
	SearchOffers(ctx context.Context, params dto.SearchParams) (OfferSearchResult, error)
	GetOffer(ctx context.Context, offerID string) (dto.Offer, error)
}

type PlaceProvider interface {
	SuggestPlaces(ctx context.Context, query string) ([]dto.Place, error)
}

type AirlineFetcher interface {
	FetchAirline(ctx context.Context, iataCode string) (dto.Airline, error)
}

// Package duffel talks to the Duffel flights API: offer requests, offers,
// place suggestions and airline metadata.
package duffel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-redis/redis_rate/v10"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider/providerutils"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/ratelimit"
)

const (
	ProviderName = "duffel"

	passengerAdult  = "adult"
	passengerChild  = "child"
	passengerInfant = "infant_without_seat"

	maxErrorBody = 64 << 10
)

var ErrAirlineNotFound = exception.ApplicationError{
	StatusCode: http.StatusNotFound,
	Code:       "airline_not_found",
	Message:    "airline not found",
}

var ErrMissingToken = exception.ApplicationError{
	StatusCode: http.StatusServiceUnavailable,
	Code:       "provider_not_configured",
	Message:    "flight provider credentials are not configured",
}

type Provider struct {
	Name         string
	BaseURL      string
	Token        string
	Version      string
	RateLimitRPS int
	Limiter      ratelimit.Limiter
	client       *http.Client
}

func NewProvider(config flightprovider.FlightProviderConfig) *Provider {
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Provider{
		Name:         ProviderName,
		BaseURL:      strings.TrimRight(config.BaseURL, "/"),
		Token:        config.Token,
		Version:      config.Version,
		RateLimitRPS: config.RateLimitRPS,
		Limiter:      config.Limiter,
		client:       client,
	}
}

// SearchOffers submits an offer request and returns the offers attached to it.
func (p *Provider) SearchOffers(ctx context.Context, params dto.SearchParams) (flightprovider.OfferSearchResult, error) {
	payload := envelope[offerRequestData]{Data: buildOfferRequest(params)}

	var response envelope[offerRequestResponse]
	if err := p.do(ctx, http.MethodPost, "/air/offer_requests?return_offers=true", payload, &response); err != nil {
		return flightprovider.OfferSearchResult{}, fmt.Errorf("create offer request: %w", err)
	}

	offers := make([]dto.Offer, 0, len(response.Data.Offers))
	for _, o := range response.Data.Offers {
		offers = append(offers, toOffer(o))
	}

	slog.DebugContext(ctx, "duffel offer request completed",
		slog.String("offer_request_id", response.Data.ID),
		slog.Int("offers", len(offers)))

	return flightprovider.OfferSearchResult{
		OfferRequestID: response.Data.ID,
		Offers:         offers,
	}, nil
}

// GetOffer fetches the latest state of a single offer.
func (p *Provider) GetOffer(ctx context.Context, offerID string) (dto.Offer, error) {
	var response envelope[offerPayload]

	path := "/air/offers/" + url.PathEscape(offerID)
	if err := p.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return dto.Offer{}, fmt.Errorf("get offer %s: %w", offerID, err)
	}

	return toOffer(response.Data), nil
}

// SuggestPlaces looks up airports and cities matching query, in vendor order.
func (p *Provider) SuggestPlaces(ctx context.Context, query string) ([]dto.Place, error) {
	var response envelope[[]placePayload]

	path := "/places/suggestions?query=" + url.QueryEscape(query)
	if err := p.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, fmt.Errorf("suggest places: %w", err)
	}

	places := make([]dto.Place, 0, len(response.Data))
	for _, pl := range response.Data {
		places = append(places, toPlace(pl))
	}

	return places, nil
}

// FetchAirline resolves airline metadata by IATA code.
func (p *Provider) FetchAirline(ctx context.Context, iataCode string) (dto.Airline, error) {
	var response envelope[[]airlinePayload]

	path := "/air/airlines?iata_code=" + url.QueryEscape(iataCode)
	if err := p.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return dto.Airline{}, fmt.Errorf("fetch airline %s: %w", iataCode, err)
	}

	for _, a := range response.Data {
		if strings.EqualFold(str(a.IATACode), iataCode) {
			return toAirline(a), nil
		}
	}

	return dto.Airline{}, ErrAirlineNotFound
}

func buildOfferRequest(params dto.SearchParams) offerRequestData {
	req := offerRequestData{
		Slices: []sliceRequest{{
			Origin:        params.Origin,
			Destination:   params.Destination,
			DepartureDate: params.DepartureDate,
		}},
		Passengers: make([]passengerRequest, 0, params.Passengers.Total()),
		CabinClass: params.CabinClass,
	}

	if req.CabinClass == "" {
		req.CabinClass = dto.CabinEconomy
	}

	if params.ReturnDate != "" {
		req.Slices = append(req.Slices, sliceRequest{
			Origin:        params.Destination,
			Destination:   params.Origin,
			DepartureDate: params.ReturnDate,
		})
	}

	for _, group := range []struct {
		kind  string
		count int
	}{
		{passengerAdult, params.Passengers.Adults},
		{passengerChild, params.Passengers.Children},
		{passengerInfant, params.Passengers.Infants},
	} {
		for i := 0; i < group.count; i++ {
			req.Passengers = append(req.Passengers, passengerRequest{Type: group.kind})
		}
	}

	return req
}

func (p *Provider) do(ctx context.Context, method, path string, body, out any) error {
	if p.Token == "" {
		return ErrMissingToken
	}

	if err := p.throttle(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.Token)
	req.Header.Set("Duffel-Version", p.Version)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return providerutils.MapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		mapped := mapError(resp.StatusCode, raw)

		slog.WarnContext(ctx, "duffel request failed",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("error", mapped.Error()))

		return mapped
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return providerutils.ErrProviderInternalError.WithCause(fmt.Errorf("decode response: %w", err))
	}

	return nil
}

// throttle applies the shared outbound limit. Limiter errors are logged and ignored.
func (p *Provider) throttle(ctx context.Context) error {
	if p.Limiter == nil || p.RateLimitRPS <= 0 {
		return nil
	}

	res, err := p.Limiter.Allow(ctx, fmt.Sprintf("limit:%s", p.Name), redis_rate.PerSecond(p.RateLimitRPS))
	if err != nil {
		slog.WarnContext(ctx, "failed to rate limit", slog.String("error", err.Error()))

		return nil
	}

	if !res.Allowed {
		return providerutils.ErrProviderRateLimitExceeded
	}

	return nil
}

// Package airlabs is the secondary place lookup used when the flight vendor's
// suggestions endpoint is unavailable.
package airlabs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider/providerutils"
)

const ProviderName = "airlabs"

type suggestResponse struct {
	Response *suggestPayload `json:"response"`
	Error    *apiError       `json:"error"`
}

type suggestPayload struct {
	Airports []airportPayload `json:"airports"`
	Cities   []cityPayload    `json:"cities"`
}

type airportPayload struct {
	IATACode    *string  `json:"iata_code"`
	Name        *string  `json:"name"`
	City        *string  `json:"city"`
	CountryCode *string  `json:"country_code"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

type cityPayload struct {
	CityCode    *string  `json:"city_code"`
	Name        *string  `json:"name"`
	CountryCode *string  `json:"country_code"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type Provider struct {
	Name    string
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewProvider(config flightprovider.FlightProviderConfig) *Provider {
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Provider{
		Name:    ProviderName,
		BaseURL: strings.TrimRight(config.BaseURL, "/"),
		APIKey:  config.Token,
		client:  client,
	}
}

// SuggestPlaces returns cities first, then airports, as AirLabs orders its suggestions.
func (p *Provider) SuggestPlaces(ctx context.Context, query string) ([]dto.Place, error) {
	endpoint := fmt.Sprintf("%s/suggest?q=%s&api_key=%s",
		p.BaseURL, url.QueryEscape(query), url.QueryEscape(p.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, providerutils.MapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, providerutils.MapStatus(resp.StatusCode).WithCause(
			fmt.Errorf("airlabs suggest returned status %d", resp.StatusCode))
	}

	var body suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, providerutils.ErrProviderInternalError.WithCause(fmt.Errorf("decode response: %w", err))
	}

	// AirLabs reports failures in the body with a 200 status
	if body.Error != nil {
		return nil, providerutils.ErrProviderInternalError.WithCause(errors.New(body.Error.Message))
	}

	if body.Response == nil {
		return []dto.Place{}, nil
	}

	places := make([]dto.Place, 0, len(body.Response.Cities)+len(body.Response.Airports))

	for _, c := range body.Response.Cities {
		code := deref(c.CityCode)
		places = append(places, dto.Place{
			ID:              "airlabs_city_" + code,
			Type:            "city",
			IATACode:        code,
			Name:            deref(c.Name),
			CityName:        deref(c.Name),
			IATACountryCode: deref(c.CountryCode),
			Latitude:        c.Lat,
			Longitude:       c.Lng,
		})
	}

	for _, a := range body.Response.Airports {
		code := deref(a.IATACode)
		places = append(places, dto.Place{
			ID:              "airlabs_airport_" + code,
			Type:            "airport",
			IATACode:        code,
			Name:            deref(a.Name),
			CityName:        deref(a.City),
			IATACountryCode: deref(a.CountryCode),
			Latitude:        a.Lat,
			Longitude:       a.Lng,
		})
	}

	return places, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

package dto

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

const (
	CabinEconomy        = "economy"
	CabinPremiumEconomy = "premium_economy"
	CabinBusiness       = "business"
	CabinFirst          = "first"

	MaxPassengers = 9

	// VendorDateTimeLayout is the local, offset-less timestamp format used by the flight vendor.
	VendorDateTimeLayout = "2006-01-02T15:04:05"
)

const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyNormal   = "normal"
)

var AllowedSortField = map[string]bool{
	"best":           true,
	"price":          true,
	"duration":       true,
	"stops":          true,
	"departure_time": true,
	"arrival_time":   true,
}

type Offer struct {
	ID                   string    `json:"id"`
	Price                Price     `json:"price"`
	ExpiresAt            time.Time `json:"expires_at"`
	Owner                Airline   `json:"owner"`
	Slices               []Slice   `json:"slices"`
	TotalDurationMinutes int       `json:"total_duration_minutes"`
	TotalStops           int       `json:"total_stops"`
	MinutesUntilExpiry   int       `json:"minutes_until_expiry"`
	Urgency              string    `json:"urgency"`
	Score                float64   `json:"score"`
}

// Expired reports whether the offer can no longer be shown or booked at now.
func (o Offer) Expired(now time.Time) bool {
	return !o.ExpiresAt.After(now)
}

// DepartingAt returns the first segment departure of the outbound slice.
func (o Offer) DepartingAt() string {
	if len(o.Slices) == 0 || len(o.Slices[0].Segments) == 0 {
		return ""
	}

	return o.Slices[0].Segments[0].DepartingAt
}

// ArrivingAt returns the last segment arrival of the outbound slice.
func (o Offer) ArrivingAt() string {
	if len(o.Slices) == 0 || len(o.Slices[0].Segments) == 0 {
		return ""
	}

	segments := o.Slices[0].Segments

	return segments[len(segments)-1].ArrivingAt
}

// Carriers returns the distinct marketing and operating carrier codes of the offer.
func (o Offer) Carriers() []string {
	seen := make(map[string]bool)
	codes := make([]string, 0)

	for _, slice := range o.Slices {
		for _, segment := range slice.Segments {
			for _, code := range []string{segment.MarketingCarrier.IATACode, segment.OperatingCarrier.IATACode} {
				if code == "" || seen[code] {
					continue
				}

				seen[code] = true
				codes = append(codes, code)
			}
		}
	}

	return codes
}

type Slice struct {
	ID          string    `json:"id"`
	Origin      Place     `json:"origin"`
	Destination Place     `json:"destination"`
	Duration    Duration  `json:"duration"`
	Stops       int       `json:"stops"`
	Segments    []Segment `json:"segments"`
}

type Segment struct {
	ID               string   `json:"id"`
	Origin           Place    `json:"origin"`
	Destination      Place    `json:"destination"`
	DepartingAt      string   `json:"departing_at"`
	ArrivingAt       string   `json:"arriving_at"`
	MarketingCarrier Airline  `json:"marketing_carrier"`
	OperatingCarrier Airline  `json:"operating_carrier"`
	FlightNumber     string   `json:"flight_number"`
	Aircraft         *string  `json:"aircraft,omitempty"`
	Duration         Duration `json:"duration"`
}

type Airline struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	IATACode      string `json:"iata_code"`
	LogoSymbolURL string `json:"logo_symbol_url,omitempty"`
	LogoLockupURL string `json:"logo_lockup_url,omitempty"`
}

type Place struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	IATACode        string   `json:"iata_code"`
	Name            string   `json:"name"`
	CityName        string   `json:"city_name,omitempty"`
	IATACountryCode string   `json:"iata_country_code,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

type Duration struct {
	TotalMinutes int    `json:"total_minutes"`
	Formatted    string `json:"formatted"`
}

type Price struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

type Passengers struct {
	Adults   int `json:"adults" validate:"min=1,max=9"`
	Children int `json:"children" validate:"min=0,max=8"`
	Infants  int `json:"infants" validate:"min=0,max=9"`
}

func (p Passengers) Total() int {
	return p.Adults + p.Children + p.Infants
}

// SearchParams is a validated flight search. It is not modified after Bind.
type SearchParams struct {
	Origin        string        `json:"origin" validate:"required,iata"`
	Destination   string        `json:"destination" validate:"required,iata"`
	DepartureDate string        `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string        `json:"return_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Passengers    Passengers    `json:"passengers"`
	CabinClass    string        `json:"cabin_class,omitempty" validate:"omitempty,oneof=economy premium_economy business first"`
	MaxResults    int           `json:"max_results,omitempty" validate:"omitempty,min=1,max=50"`
	SortOption    *SortOption   `json:"sort_option,omitempty"`
	FilterOption  *FilterOption `json:"filter_option,omitempty"`
}

func (s *SearchParams) Bind(r *http.Request) error {
	s.Normalize()

	if err := s.Validate(); err != nil {
		return fmt.Errorf("error validate request: %w", err)
	}

	return nil
}

// Normalize upper-cases codes, lower-cases the cabin and applies defaults.
func (s *SearchParams) Normalize() {
	s.Origin = strings.ToUpper(strings.TrimSpace(s.Origin))
	s.Destination = strings.ToUpper(strings.TrimSpace(s.Destination))
	s.CabinClass = strings.ToLower(strings.TrimSpace(s.CabinClass))

	if s.CabinClass == "" {
		s.CabinClass = CabinEconomy
	}

	if s.Passengers.Total() == 0 {
		s.Passengers.Adults = 1
	}

	if s.FilterOption != nil {
		for i, code := range s.FilterOption.Airlines {
			s.FilterOption.Airlines[i] = strings.ToUpper(strings.TrimSpace(code))
		}
	}
}

func (s *SearchParams) Validate() error {
	violations, err := ValidateFields(s)
	if err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Code:       ValidationErrorCode,
			Message:    err.Error(),
		}
	}

	violations = append(violations, s.crossFieldViolations()...)

	return ValidationError(violations)
}

func (s *SearchParams) crossFieldViolations() []exception.Violation {
	var violations []exception.Violation

	if s.Origin != "" && s.Origin == s.Destination {
		violations = append(violations, exception.Violation{
			Field:   "destination",
			Message: "destination must differ from origin",
		})
	}

	if s.Passengers.Infants > s.Passengers.Adults {
		violations = append(violations, exception.Violation{
			Field:   "passengers.infants",
			Message: "infants cannot outnumber adults",
		})
	}

	if s.Passengers.Total() > MaxPassengers {
		violations = append(violations, exception.Violation{
			Field:   "passengers",
			Message: fmt.Sprintf("a search cannot exceed %d passengers", MaxPassengers),
		})
	}

	if s.ReturnDate != "" && s.ReturnDate < s.DepartureDate {
		violations = append(violations, exception.Violation{
			Field:   "return_date",
			Message: "return_date must not be before departure_date",
		})
	}

	if s.SortOption != nil {
		if !AllowedSortField[s.SortOption.Field] {
			violations = append(violations, exception.Violation{
				Field:   "sort_option.field",
				Message: fmt.Sprintf("Invalid sort field %s", s.SortOption.Field),
			})
		}

		if s.SortOption.Order != "" && s.SortOption.Order != "asc" && s.SortOption.Order != "desc" {
			violations = append(violations, exception.Violation{
				Field:   "sort_option.order",
				Message: "order must be one of [asc desc]",
			})
		}
	}

	if s.FilterOption != nil {
		violations = append(violations, s.FilterOption.violations()...)
	}

	return violations
}

type FilterOption struct {
	Airlines           []string `json:"airlines,omitempty" validate:"omitempty,dive,len=2"`
	MinPrice           *float64 `json:"min_price,omitempty" validate:"omitempty,gt=0"`
	MaxPrice           *float64 `json:"max_price,omitempty" validate:"omitempty,gt=0"`
	MaxStops           *int     `json:"max_stops,omitempty" validate:"omitempty,gte=0"`
	DepartureTimeStart *string  `json:"departure_time_start,omitempty" validate:"omitempty,datetime=15:04"`
	DepartureTimeEnd   *string  `json:"departure_time_end,omitempty" validate:"omitempty,datetime=15:04"`
	ArrivalTimeStart   *string  `json:"arrival_time_start,omitempty" validate:"omitempty,datetime=15:04"`
	ArrivalTimeEnd     *string  `json:"arrival_time_end,omitempty" validate:"omitempty,datetime=15:04"`
	MaxDurationMinutes *int     `json:"max_duration_minutes,omitempty" validate:"omitempty,gt=0"`
}

func (f *FilterOption) violations() []exception.Violation {
	var violations []exception.Violation

	if f.MinPrice != nil && f.MaxPrice != nil && *f.MaxPrice <= *f.MinPrice {
		violations = append(violations, exception.Violation{
			Field:   "filter_option.max_price",
			Message: "max_price must be greater than min_price",
		})
	}

	if (f.DepartureTimeStart == nil) != (f.DepartureTimeEnd == nil) {
		violations = append(violations, exception.Violation{
			Field:   "filter_option.departure_time_end",
			Message: "departure_time_start and departure_time_end must be set together",
		})
	}

	if (f.ArrivalTimeStart == nil) != (f.ArrivalTimeEnd == nil) {
		violations = append(violations, exception.Violation{
			Field:   "filter_option.arrival_time_end",
			Message: "arrival_time_start and arrival_time_end must be set together",
		})
	}

	return violations
}

type SortOption struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

type SearchMetadata struct {
	TotalResults   int    `json:"total_results"`
	ExpiredDropped int    `json:"expired_dropped"`
	OfferRequestID string `json:"offer_request_id,omitempty"`
	SearchTimeMs   int    `json:"search_time_ms"`
	CacheHit       bool   `json:"cache_hit"`
}

type SearchOffersResponse struct {
	Offers   []Offer        `json:"offers"`
	Metadata SearchMetadata `json:"metadata"`
}

// OfferRequest identifies a single offer by its vendor id.
type OfferRequest struct {
	OfferID string `json:"offer_id" validate:"required"`
}

func (o *OfferRequest) Bind(r *http.Request) error {
	return validateStruct(o)
}

package duffel

import (
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/utils"
)

// Wire types mirror the vendor JSON. Every field the vendor may omit is a pointer
// and is resolved once, in the conversion functions below.

type envelope[T any] struct {
	Data T `json:"data"`
}

type offerRequestData struct {
	Slices     []sliceRequest     `json:"slices"`
	Passengers []passengerRequest `json:"passengers"`
	CabinClass string             `json:"cabin_class"`
}

type sliceRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

type passengerRequest struct {
	Type string `json:"type"`
}

type offerRequestResponse struct {
	ID     string         `json:"id"`
	Offers []offerPayload `json:"offers"`
}

type offerPayload struct {
	ID            string          `json:"id"`
	TotalAmount   *string         `json:"total_amount"`
	TotalCurrency *string         `json:"total_currency"`
	ExpiresAt     *string         `json:"expires_at"`
	Owner         *airlinePayload `json:"owner"`
	Slices        []slicePayload  `json:"slices"`
}

type slicePayload struct {
	ID          string           `json:"id"`
	Origin      placePayload     `json:"origin"`
	Destination placePayload     `json:"destination"`
	Duration    *string          `json:"duration"`
	Segments    []segmentPayload `json:"segments"`
}

type segmentPayload struct {
	ID                           string           `json:"id"`
	Origin                       placePayload     `json:"origin"`
	Destination                  placePayload     `json:"destination"`
	DepartingAt                  *string          `json:"departing_at"`
	ArrivingAt                   *string          `json:"arriving_at"`
	MarketingCarrier             *airlinePayload  `json:"marketing_carrier"`
	OperatingCarrier             *airlinePayload  `json:"operating_carrier"`
	MarketingCarrierFlightNumber *string          `json:"marketing_carrier_flight_number"`
	Aircraft                     *aircraftPayload `json:"aircraft"`
	Duration                     *string          `json:"duration"`
}

type aircraftPayload struct {
	Name *string `json:"name"`
}

type airlinePayload struct {
	ID            string  `json:"id"`
	Name          *string `json:"name"`
	IATACode      *string `json:"iata_code"`
	LogoSymbolURL *string `json:"logo_symbol_url"`
	LogoLockupURL *string `json:"logo_lockup_url"`
}

type placePayload struct {
	ID              string       `json:"id"`
	Type            *string      `json:"type"`
	IATACode        *string      `json:"iata_code"`
	Name            *string      `json:"name"`
	CityName        *string      `json:"city_name"`
	City            *cityPayload `json:"city"`
	IATACountryCode *string      `json:"iata_country_code"`
	Latitude        *float64     `json:"latitude"`
	Longitude       *float64     `json:"longitude"`
}

type cityPayload struct {
	Name *string `json:"name"`
}

func str(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func toOffer(o offerPayload) dto.Offer {
	amount, _ := utils.ParseAmount(str(o.TotalAmount))
	currency := str(o.TotalCurrency)

	offer := dto.Offer{
		ID: o.ID,
		Price: dto.Price{
			Amount:    amount,
			Currency:  currency,
			Formatted: utils.FormatAmount(amount, currency),
		},
		Slices: make([]dto.Slice, 0, len(o.Slices)),
	}

	// offers without a readable expiry are treated as already expired
	if expiresAt, err := time.Parse(time.RFC3339, str(o.ExpiresAt)); err == nil {
		offer.ExpiresAt = expiresAt
	}

	if o.Owner != nil {
		offer.Owner = toAirline(*o.Owner)
	}

	for _, s := range o.Slices {
		offer.Slices = append(offer.Slices, toSlice(s))
	}

	return offer
}

func toSlice(s slicePayload) dto.Slice {
	slice := dto.Slice{
		ID:          s.ID,
		Origin:      toPlace(s.Origin),
		Destination: toPlace(s.Destination),
		Segments:    make([]dto.Segment, 0, len(s.Segments)),
	}

	for _, seg := range s.Segments {
		slice.Segments = append(slice.Segments, toSegment(seg))
	}

	minutes, err := utils.ParseISODurationMinutes(str(s.Duration))
	if err != nil && len(slice.Segments) > 0 {
		first, last := slice.Segments[0], slice.Segments[len(slice.Segments)-1]
		minutes = minutesBetween(first.DepartingAt, last.ArrivingAt)
	}

	slice.Duration = toDuration(minutes)

	return slice
}

func toSegment(s segmentPayload) dto.Segment {
	segment := dto.Segment{
		ID:           s.ID,
		Origin:       toPlace(s.Origin),
		Destination:  toPlace(s.Destination),
		DepartingAt:  str(s.DepartingAt),
		ArrivingAt:   str(s.ArrivingAt),
		FlightNumber: str(s.MarketingCarrierFlightNumber),
	}

	if s.MarketingCarrier != nil {
		segment.MarketingCarrier = toAirline(*s.MarketingCarrier)
	}

	if s.OperatingCarrier != nil {
		segment.OperatingCarrier = toAirline(*s.OperatingCarrier)
	} else {
		segment.OperatingCarrier = segment.MarketingCarrier
	}

	if segment.FlightNumber != "" && segment.MarketingCarrier.IATACode != "" {
		segment.FlightNumber = segment.MarketingCarrier.IATACode + segment.FlightNumber
	}

	if s.Aircraft != nil && s.Aircraft.Name != nil {
		name := *s.Aircraft.Name
		segment.Aircraft = &name
	}

	minutes, err := utils.ParseISODurationMinutes(str(s.Duration))
	if err != nil {
		minutes = minutesBetween(segment.DepartingAt, segment.ArrivingAt)
	}

	segment.Duration = toDuration(minutes)

	return segment
}

func toAirline(a airlinePayload) dto.Airline {
	return dto.Airline{
		ID:            a.ID,
		Name:          str(a.Name),
		IATACode:      str(a.IATACode),
		LogoSymbolURL: str(a.LogoSymbolURL),
		LogoLockupURL: str(a.LogoLockupURL),
	}
}

func toPlace(p placePayload) dto.Place {
	place := dto.Place{
		ID:              p.ID,
		Type:            str(p.Type),
		IATACode:        str(p.IATACode),
		Name:            str(p.Name),
		CityName:        str(p.CityName),
		IATACountryCode: str(p.IATACountryCode),
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
	}

	if place.CityName == "" && p.City != nil {
		place.CityName = str(p.City.Name)
	}

	if place.CityName == "" && place.Type == "city" {
		place.CityName = place.Name
	}

	return place
}

func toDuration(minutes int) dto.Duration {
	return dto.Duration{
		TotalMinutes: minutes,
		Formatted:    utils.ConvertMinutesToDuration(int64(minutes)),
	}
}

// minutesBetween works on local vendor timestamps, so it is only exact when both ends
// share a time zone. It is used when the vendor omits the duration.
func minutesBetween(from, to string) int {
	start, err := time.Parse(dto.VendorDateTimeLayout, from)
	if err != nil {
		return 0
	}

	end, err := time.Parse(dto.VendorDateTimeLayout, to)
	if err != nil || end.Before(start) {
		return 0
	}

	return int(end.Sub(start).Minutes())
}

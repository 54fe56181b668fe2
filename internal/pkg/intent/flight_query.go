package intent

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

const (
	dateLayout           = "2006-01-02"
	defaultDaysAhead     = 7
	defaultChatMaxOffers = 5
)

var ErrNoRoute = exception.ApplicationError{
	StatusCode: http.StatusBadRequest,
	Code:       "route_not_found",
	Message:    "message does not contain an origin and destination, e.g. \"JFK to LHR\"",
}

var (
	routeCapture     = regexp.MustCompile(`\b([A-Z]{3})\s*(?:to|-|→|>)\s*([A-Z]{3})\b`)
	fromToCapture    = regexp.MustCompile(`(?i)\bfrom\s+([a-z]{3})\s+to\s+([a-z]{3})\b`)
	isoDate          = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	passengerCount   = regexp.MustCompile(`(?i)\b(\d)\s*(?:adults?|passengers?|people|persons?|travell?ers?|pax)\b`)
	premiumEconomyRe = regexp.MustCompile(`(?i)\bpremium[\s_-]?economy\b`)
	businessRe       = regexp.MustCompile(`(?i)\bbusiness(?:\s+class)?\b`)
	firstRe          = regexp.MustCompile(`(?i)\bfirst[\s_-]?class\b`)
	tomorrowRe       = regexp.MustCompile(`(?i)\btomorrow\b`)
	todayRe          = regexp.MustCompile(`(?i)\btoday\b`)
)

// ExtractFlightQuery turns a message like "JFK to LHR 2025-06-01 business for 2 adults"
// into search params. A second ISO date becomes the return date. Without a date
// the search departs a week after now.
func ExtractFlightQuery(message string, now time.Time) (dto.SearchParams, error) {
	origin, destination, ok := extractRoute(message)
	if !ok {
		return dto.SearchParams{}, ErrNoRoute
	}

	params := dto.SearchParams{
		Origin:      origin,
		Destination: destination,
		CabinClass:  extractCabin(message),
		Passengers:  dto.Passengers{Adults: 1},
		MaxResults:  defaultChatMaxOffers,
	}

	dates := isoDate.FindAllString(message, 2)

	switch {
	case len(dates) > 0:
		params.DepartureDate = dates[0]
		if len(dates) > 1 {
			params.ReturnDate = dates[1]
		}
	case tomorrowRe.MatchString(message):
		params.DepartureDate = now.AddDate(0, 0, 1).Format(dateLayout)
	case todayRe.MatchString(message):
		params.DepartureDate = now.Format(dateLayout)
	default:
		params.DepartureDate = now.AddDate(0, 0, defaultDaysAhead).Format(dateLayout)
	}

	if m := passengerCount.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			params.Passengers.Adults = min(n, dto.MaxPassengers)
		}
	}

	params.Normalize()

	return params, nil
}

func extractRoute(message string) (string, string, bool) {
	if m := routeCapture.FindStringSubmatch(message); m != nil {
		return m[1], m[2], true
	}

	if m := fromToCapture.FindStringSubmatch(message); m != nil {
		return strings.ToUpper(m[1]), strings.ToUpper(m[2]), true
	}

	return "", "", false
}

func extractCabin(message string) string {
	switch {
	case premiumEconomyRe.MatchString(message):
		return dto.CabinPremiumEconomy
	case firstRe.MatchString(message):
		return dto.CabinFirst
	case businessRe.MatchString(message):
		return dto.CabinBusiness
	default:
		return dto.CabinEconomy
	}
}

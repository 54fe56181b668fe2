// Package places resolves free-text airport and city queries into ranked places.
package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider"
)

const (
	scoreExactIATA    = 120
	scoreExactName    = 90
	scoreNameContains = 45
	scoreCityContains = 25
	scoreIATATypeBias = 20
	scoreTypeMismatch = -1000

	placeTypeAirport = "airport"
)

var iataLike = regexp.MustCompile(`^[A-Za-z]{3}$`)

var ErrLookupUnavailable = exception.ApplicationError{
	StatusCode: http.StatusInternalServerError,
	Code:       "place_lookup_unavailable",
	Message:    "place lookup unavailable",
}

// Resolver asks Primary first and only falls back when Primary fails.
type Resolver struct {
	Primary  flightprovider.PlaceProvider
	Fallback flightprovider.PlaceProvider
}

func NewResolver(primary, fallback flightprovider.PlaceProvider) *Resolver {
	return &Resolver{Primary: primary, Fallback: fallback}
}

func (r *Resolver) Suggest(ctx context.Context, query string) ([]dto.Place, error) {
	places, err := r.Primary.SuggestPlaces(ctx, query)
	if err == nil {
		return places, nil
	}

	if errors.Is(err, context.Canceled) {
		return nil, err
	}

	slog.WarnContext(ctx, "primary place lookup failed", slog.String("error", err.Error()))

	if r.Fallback == nil {
		return nil, unavailable(err)
	}

	places, fallbackErr := r.Fallback.SuggestPlaces(ctx, query)
	if fallbackErr != nil {
		slog.WarnContext(ctx, "fallback place lookup failed", slog.String("error", fallbackErr.Error()))

		return nil, unavailable(fallbackErr)
	}

	return places, nil
}

func unavailable(cause error) error {
	return ErrLookupUnavailable.
		WithMessage(fmt.Sprintf("%s: %s", ErrLookupUnavailable.Message, vendorMessage(cause))).
		WithCause(cause)
}

func vendorMessage(err error) string {
	var appErr exception.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	return err.Error()
}

// Score rates how well place matches query. types is the caller's type filter, empty means any.
func Score(place dto.Place, query string, types []string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	name := strings.ToLower(place.Name)
	city := strings.ToLower(place.CityName)

	score := 0

	if strings.EqualFold(place.IATACode, q) {
		score += scoreExactIATA
	}

	switch {
	case name == q:
		score += scoreExactName
	case q != "" && strings.Contains(name, q):
		score += scoreNameContains
	}

	if q != "" && strings.Contains(city, q) {
		score += scoreCityContains
	}

	if iataLike.MatchString(q) && place.Type == placeTypeAirport {
		score += scoreIATATypeBias
	}

	if len(types) > 0 && !contains(types, place.Type) {
		score += scoreTypeMismatch
	}

	return score
}

// Rank orders places by score. Equal scores keep the vendor order. A limit of
// zero or less returns every place.
func Rank(places []dto.Place, query string, types []string, limit int) []dto.Place {
	type scored struct {
		place dto.Place
		score int
	}

	ranked := make([]scored, 0, len(places))
	for _, p := range places {
		ranked = append(ranked, scored{place: p, score: Score(p, query, types)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := make([]dto.Place, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, r.place)
	}

	return result
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}

	return false
}

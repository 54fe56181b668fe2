package flight

import (
	"sort"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
)

// SortOffers orders offers in place. Ties keep the vendor order.
func SortOffers(offers []dto.Offer, sortOption *dto.SortOption) []dto.Offer {
	var (
		option = ""
		order  = "asc"
	)
	if sortOption != nil {
		option = sortOption.Field
		if sortOption.Order != "" {
			order = sortOption.Order
		}
	}

	var less func(a, b dto.Offer) bool

	switch option {
	case "price":
		less = func(a, b dto.Offer) bool { return a.Price.Amount < b.Price.Amount }
	case "duration":
		less = func(a, b dto.Offer) bool { return a.TotalDurationMinutes < b.TotalDurationMinutes }
	case "stops":
		less = func(a, b dto.Offer) bool { return a.TotalStops < b.TotalStops }
	case "departure_time":
		// vendor timestamps share one layout, so they order lexically
		less = func(a, b dto.Offer) bool { return a.DepartingAt() < b.DepartingAt() }
	case "arrival_time":
		less = func(a, b dto.Offer) bool { return a.ArrivingAt() < b.ArrivingAt() }
	default:
		// best score
		less = func(a, b dto.Offer) bool { return a.Score < b.Score }
	}

	sort.SliceStable(offers, func(i, j int) bool {
		if order == "desc" {
			return less(offers[j], offers[i])
		}

		return less(offers[i], offers[j])
	})

	return offers
}

package flight

import (
	"math"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
)

// weighted scoring using normalization
// ref: https://www.1000minds.com/decision-making/what-is-mcdm-mcda

// weights for each criteria
const (
	WeightPrice             = 0.6
	WeightDurationInMinutes = 0.25
	WeightStops             = 0.15
)

// RankOffers scores the offers with weighted, normalized criteria.
// 0 indicates the best offer and 1 indicates the worst offer
func RankOffers(offers []dto.Offer) []dto.Offer {
	if len(offers) == 0 {
		return offers
	}

	priceMin, priceMax := findRange(offers, func(o dto.Offer) float64 { return o.Price.Amount })
	durationMin, durationMax := findRange(offers, func(o dto.Offer) float64 { return float64(o.TotalDurationMinutes) })
	stopsMin, stopsMax := findRange(offers, func(o dto.Offer) float64 { return float64(o.TotalStops) })

	for i, offer := range offers {
		priceScore := normalizeValue(offer.Price.Amount, priceMin, priceMax)
		durationScore := normalizeValue(float64(offer.TotalDurationMinutes), durationMin, durationMax)
		stopsScore := normalizeValue(float64(offer.TotalStops), stopsMin, stopsMax)

		offers[i].Score = WeightPrice*priceScore +
			WeightDurationInMinutes*durationScore +
			WeightStops*stopsScore
	}

	return offers
}

func findRange(offers []dto.Offer, value func(dto.Offer) float64) (float64, float64) {
	minValue := math.MaxFloat64
	maxValue := -math.MaxFloat64

	for _, offer := range offers {
		v := value(offer)
		if v < minValue {
			minValue = v
		}
		if v > maxValue {
			maxValue = v
		}
	}

	return minValue, maxValue
}

func normalizeValue(value float64, min float64, max float64) float64 {
	if max == min {
		return 0
	}

	return (value - min) / (max - min)
}

package flight

import (
	"context"
	"log/slog"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
)

// DropExpired removes offers whose expiry is not after now and reports how many were dropped.
func DropExpired(offers []dto.Offer, now time.Time) ([]dto.Offer, int) {
	results := make([]dto.Offer, 0, len(offers))

	for _, offer := range offers {
		if offer.Expired(now) {
			continue
		}

		results = append(results, offer)
	}

	return results, len(offers) - len(results)
}

func FilterOffers(ctx context.Context, offers []dto.Offer, filterOpts *dto.FilterOption) []dto.Offer {
	if filterOpts == nil {
		return offers
	}

	results := make([]dto.Offer, 0, len(offers))

	for _, offer := range offers {
		if len(filterOpts.Airlines) > 0 && !operatedBy(offer, filterOpts.Airlines) {
			continue
		}

		if filterOpts.MaxPrice != nil && offer.Price.Amount > *filterOpts.MaxPrice {
			continue
		}

		if filterOpts.MinPrice != nil && offer.Price.Amount < *filterOpts.MinPrice {
			continue
		}

		if filterOpts.MaxStops != nil && maxSliceStops(offer) > *filterOpts.MaxStops {
			continue
		}

		if filterOpts.MaxDurationMinutes != nil && outboundMinutes(offer) > *filterOpts.MaxDurationMinutes {
			continue
		}

		if filterOpts.DepartureTimeStart != nil && filterOpts.DepartureTimeEnd != nil {
			if !isWithinTimeRange(ctx, offer.DepartingAt(), *filterOpts.DepartureTimeStart, *filterOpts.DepartureTimeEnd) {
				continue
			}
		}

		if filterOpts.ArrivalTimeStart != nil && filterOpts.ArrivalTimeEnd != nil {
			if !isWithinTimeRange(ctx, offer.ArrivingAt(), *filterOpts.ArrivalTimeStart, *filterOpts.ArrivalTimeEnd) {
				continue
			}
		}

		results = append(results, offer)
	}

	return results
}

// operatedBy matches the validating carrier or any marketing carrier.
func operatedBy(offer dto.Offer, airlines []string) bool {
	for _, code := range airlines {
		if offer.Owner.IATACode == code {
			return true
		}

		for _, slice := range offer.Slices {
			for _, segment := range slice.Segments {
				if segment.MarketingCarrier.IATACode == code {
					return true
				}
			}
		}
	}

	return false
}

func maxSliceStops(offer dto.Offer) int {
	stops := 0

	for _, slice := range offer.Slices {
		if n := len(slice.Segments) - 1; n > stops {
			stops = n
		}
	}

	return stops
}

func outboundMinutes(offer dto.Offer) int {
	if len(offer.Slices) == 0 {
		return 0
	}

	return offer.Slices[0].Duration.TotalMinutes
}

// startTime and endTime are wall clock times in the airport's local zone, the same
// zone the vendor uses for segment timestamps. A window whose start is after its end
// wraps past midnight, e.g. 22:00-06:00.
func isWithinTimeRange(ctx context.Context, targetTime string, startTime string, endTime string) bool {
	targetTimeParsed, err := time.Parse(dto.VendorDateTimeLayout, targetTime)
	if err != nil {
		return false
	}

	startTimeParsed, err := time.Parse("15:04", startTime)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse start time", slog.String("time", startTime), slog.Any("error", err))
		return false
	}

	endTimeParsed, err := time.Parse("15:04", endTime)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse end time", slog.String("time", endTime), slog.Any("error", err))
		return false
	}

	target := targetTimeParsed.Hour()*60 + targetTimeParsed.Minute()
	start := startTimeParsed.Hour()*60 + startTimeParsed.Minute()
	end := endTimeParsed.Hour()*60 + endTimeParsed.Minute()

	if start <= end {
		return target >= start && target <= end
	}

	return target >= start || target <= end
}

// Package enrichment decorates vendor offers with airline metadata and derived
// fields (stops, expiry countdown, urgency).
package enrichment

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider"
)

const defaultConcurrency = 4

type Enricher struct {
	cache       AirlineCache
	fetcher     flightprovider.AirlineFetcher
	concurrency int
	now         func() time.Time
}

func NewEnricher(cache AirlineCache, fetcher flightprovider.AirlineFetcher, concurrency int) *Enricher {
	if cache == nil {
		cache = NoopAirlineCache{}
	}

	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Enricher{
		cache:       cache,
		fetcher:     fetcher,
		concurrency: concurrency,
		now:         time.Now,
	}
}

type fetchResult struct {
	Code    string
	Airline dto.Airline
	Error   error
}

// Enrich merges airline metadata onto every carrier of the offers and computes
// derived fields. Vendor identifiers are never modified and metadata failures
// leave the carrier as the vendor sent it.
func (e *Enricher) Enrich(ctx context.Context, offers []dto.Offer) []dto.Offer {
	codes := distinctCarriers(offers)
	airlines := e.resolve(ctx, codes)
	now := e.now()

	for i := range offers {
		mergeAirline(&offers[i].Owner, airlines)

		for s := range offers[i].Slices {
			for g := range offers[i].Slices[s].Segments {
				segment := &offers[i].Slices[s].Segments[g]
				mergeAirline(&segment.MarketingCarrier, airlines)
				mergeAirline(&segment.OperatingCarrier, airlines)
			}
		}

		ComputeDerived(&offers[i], now)
	}

	return offers
}

func (e *Enricher) resolve(ctx context.Context, codes []string) map[string]dto.Airline {
	airlines := make(map[string]dto.Airline, len(codes))
	missing := make([]string, 0, len(codes))

	for _, code := range codes {
		airline, ok, err := e.cache.Get(code)
		if err != nil {
			slog.WarnContext(ctx, "airline cache read failed", slog.String("code", code), slog.String("error", err.Error()))
		}

		if ok {
			airlines[code] = airline
			continue
		}

		missing = append(missing, code)
	}

	if len(missing) == 0 || e.fetcher == nil {
		return airlines
	}

	results := make(chan fetchResult, len(missing))
	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	// bounded fan-out, one fetch per distinct code
	wg.Add(len(missing))
	for _, code := range missing {
		go func(code string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			airline, err := e.fetcher.FetchAirline(ctx, code)
			results <- fetchResult{Code: code, Airline: airline, Error: err}
		}(code)
	}

	// wait all go routine finish
	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		if result.Error != nil {
			slog.WarnContext(ctx, "airline metadata fetch failed",
				slog.String("code", result.Code),
				slog.Any("error", result.Error))
			continue
		}

		airlines[result.Code] = result.Airline

		if err := e.cache.Set(result.Code, result.Airline); err != nil {
			slog.WarnContext(ctx, "airline cache write failed", slog.String("code", result.Code), slog.String("error", err.Error()))
		}
	}

	return airlines
}

func distinctCarriers(offers []dto.Offer) []string {
	seen := make(map[string]bool)
	codes := make([]string, 0)

	for _, offer := range offers {
		if code := offer.Owner.IATACode; code != "" && !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}

		for _, code := range offer.Carriers() {
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}

	return codes
}

func mergeAirline(carrier *dto.Airline, airlines map[string]dto.Airline) {
	meta, ok := airlines[carrier.IATACode]
	if !ok {
		return
	}

	if carrier.Name == "" {
		carrier.Name = meta.Name
	}

	if meta.LogoSymbolURL != "" {
		carrier.LogoSymbolURL = meta.LogoSymbolURL
	}

	if meta.LogoLockupURL != "" {
		carrier.LogoLockupURL = meta.LogoLockupURL
	}
}

// ComputeDerived sets stops per slice, totals, minutes until expiry and urgency.
func ComputeDerived(offer *dto.Offer, now time.Time) {
	offer.TotalStops = 0
	offer.TotalDurationMinutes = 0

	for i := range offer.Slices {
		slice := &offer.Slices[i]

		slice.Stops = 0
		if n := len(slice.Segments); n > 0 {
			slice.Stops = n - 1
		}

		offer.TotalStops += slice.Stops
		offer.TotalDurationMinutes += slice.Duration.TotalMinutes
	}

	offer.MinutesUntilExpiry = MinutesUntil(offer.ExpiresAt, now)
	offer.Urgency = Urgency(offer.MinutesUntilExpiry)
}

// MinutesUntil rounds down and never goes below zero.
func MinutesUntil(expiresAt, now time.Time) int {
	remaining := expiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}

	return int(math.Floor(remaining.Minutes()))
}

// Urgency classifies the minutes left before an offer expires.
func Urgency(minutesUntilExpiry int) string {
	switch {
	case minutesUntilExpiry < 30:
		return dto.UrgencyCritical
	case minutesUntilExpiry < 60:
		return dto.UrgencyHigh
	default:
		return dto.UrgencyNormal
	}
}

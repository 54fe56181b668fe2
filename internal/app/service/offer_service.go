package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flight"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider/providerutils"
	"github.com/redis/go-redis/v9"
)

type OfferCacher interface {
	GetLockKey(req dto.SearchParams) string
	GetCacheKey(req dto.SearchParams) string
	AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	GetOffers(ctx context.Context, key string) (flight.CachedSearch, error)
	SetOffers(ctx context.Context, key string, entry flight.CachedSearch, expiration time.Duration) error
}

type OfferEnricher interface {
	Enrich(ctx context.Context, offers []dto.Offer) []dto.Offer
}

type OfferService struct {
	Provider        flightprovider.OfferProvider
	Cache           OfferCacher
	Enricher        OfferEnricher
	CacheExpiration time.Duration
	LockTimeout     time.Duration
	MaxOffers       int
	now             func() time.Time
}

func NewOfferService(provider flightprovider.OfferProvider, cache OfferCacher, enricher OfferEnricher,
	cacheExpiration time.Duration, lockTimeout time.Duration, maxOffers int) *OfferService {
	return &OfferService{
		Provider:        provider,
		Cache:           cache,
		Enricher:        enricher,
		CacheExpiration: cacheExpiration,
		LockTimeout:     lockTimeout,
		MaxOffers:       maxOffers,
		now:             time.Now,
	}
}

// SearchOffers returns live offers for params, enriched, filtered, ranked and sorted.
// An empty result is not an error.
func (s *OfferService) SearchOffers(ctx context.Context, params dto.SearchParams) (dto.SearchOffersResponse, error) {
	startTime := s.now()
	cacheHit := false

	// get from cache first
	cacheKey := s.Cache.GetCacheKey(params)
	lockKey := s.Cache.GetLockKey(params)

	entry, err := s.Cache.GetOffers(ctx, cacheKey)
	if err == nil {
		cacheHit = true
	} else if !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "failed to get offers from cache", slog.String("error", err.Error()))
	}

	// cache miss: ask the vendor, and only the lock holder writes the cache
	// so concurrent identical searches do not overwrite each other
	if !cacheHit {
		result, err := s.Provider.SearchOffers(ctx, params)
		if err != nil {
			return dto.SearchOffersResponse{}, fmt.Errorf("search offers: %w", err)
		}

		entry = flight.CachedSearch{
			OfferRequestID: result.OfferRequestID,
			Offers:         result.Offers,
			CachedAt:       s.now(),
		}

		s.storeSearch(ctx, cacheKey, lockKey, entry)
	}

	offers, dropped := flight.DropExpired(entry.Offers, s.now())
	offers = s.Enricher.Enrich(ctx, offers)

	// filter, rank, and sort offers
	offers = flight.FilterOffers(ctx, offers, params.FilterOption)
	offers = flight.RankOffers(offers)
	offers = flight.SortOffers(offers, params.SortOption)

	limit := params.MaxResults
	if limit <= 0 {
		limit = s.MaxOffers
	}

	if limit > 0 && len(offers) > limit {
		offers = offers[:limit]
	}

	return dto.SearchOffersResponse{
		Offers: offers,
		Metadata: dto.SearchMetadata{
			TotalResults:   len(offers),
			ExpiredDropped: dropped,
			OfferRequestID: entry.OfferRequestID,
			SearchTimeMs:   int(s.now().Sub(startTime).Milliseconds()),
			CacheHit:       cacheHit,
		},
	}, nil
}

func (s *OfferService) storeSearch(ctx context.Context, cacheKey, lockKey string, entry flight.CachedSearch) {
	ttl := flight.CacheTTL(entry.Offers, s.CacheExpiration, s.now())
	if ttl <= 0 {
		return
	}

	acquired, err := s.Cache.AcquireLock(ctx, lockKey, s.LockTimeout)
	if err != nil {
		slog.WarnContext(ctx, "failed to acquire offers cache lock", slog.String("error", err.Error()))

		return
	}

	if !acquired {
		return
	}

	defer func() {
		if err := s.Cache.ReleaseLock(ctx, lockKey); err != nil {
			slog.WarnContext(ctx, "failed to release offers cache lock", slog.String("error", err.Error()))
		}
	}()

	if err := s.Cache.SetOffers(ctx, cacheKey, entry, ttl); err != nil {
		slog.WarnContext(ctx, "failed to set offers to cache", slog.String("error", err.Error()))
	}
}

// GetOffer returns the enriched detail of one offer. Expired offers are reported as gone.
func (s *OfferService) GetOffer(ctx context.Context, offerID string) (dto.Offer, error) {
	offer, err := s.Provider.GetOffer(ctx, offerID)
	if err != nil {
		return dto.Offer{}, fmt.Errorf("get offer: %w", err)
	}

	if offer.Expired(s.now()) {
		return dto.Offer{}, providerutils.ErrOfferExpired
	}

	enriched := s.Enricher.Enrich(ctx, []dto.Offer{offer})

	return enriched[0], nil
}

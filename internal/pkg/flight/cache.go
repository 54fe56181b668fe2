package flight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/redis/go-redis/v9"
)

type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// CachedSearch is the raw vendor answer for one set of search params, before
// filtering and sorting.
type CachedSearch struct {
	OfferRequestID string      `json:"offer_request_id"`
	Offers         []dto.Offer `json:"offers"`
	CachedAt       time.Time   `json:"cached_at"`
}

type SearchCache struct {
	redis RedisClient
}

func NewSearchCache(redis RedisClient) *SearchCache {
	return &SearchCache{
		redis: redis,
	}
}

func (c *SearchCache) GetLockKey(req dto.SearchParams) string {
	return "offers:lock:" + searchKey(req)
}

func (c *SearchCache) GetCacheKey(req dto.SearchParams) string {
	return "offers:cache:" + searchKey(req)
}

// searchKey covers every parameter sent to the vendor. Filters and sort options are
// applied after the cache and are not part of it.
func searchKey(req dto.SearchParams) string {
	returnDate := req.ReturnDate
	if returnDate == "" {
		returnDate = "oneway"
	}

	return strings.Join([]string{
		req.Origin,
		req.Destination,
		req.DepartureDate,
		returnDate,
		req.CabinClass,
		fmt.Sprintf("%d-%d-%d", req.Passengers.Adults, req.Passengers.Children, req.Passengers.Infants),
	}, ":")
}

func (c *SearchCache) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	return c.redis.SetNX(ctx, key, "1", timeout).Result()
}

func (c *SearchCache) ReleaseLock(ctx context.Context, key string) error {
	return c.redis.Del(ctx, key).Err()
}

func (c *SearchCache) SetOffers(ctx context.Context, key string, entry CachedSearch, expiration time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal offers: %w", err)
	}

	if err := c.redis.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set offers: %w", err)
	}

	return nil
}

// GetOffers returns redis.Nil when the key is absent.
func (c *SearchCache) GetOffers(ctx context.Context, key string) (CachedSearch, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return CachedSearch{}, err
	}

	var entry CachedSearch
	if err := json.Unmarshal(data, &entry); err != nil {
		return CachedSearch{}, fmt.Errorf("failed to unmarshal offers: %w", err)
	}

	return entry, nil
}

// CacheTTL bounds the configured expiration by the earliest offer expiry, so an entry
// never outlives its first offer. Zero means do not cache.
func CacheTTL(offers []dto.Offer, maxExpiration time.Duration, now time.Time) time.Duration {
	ttl := maxExpiration

	for _, offer := range offers {
		if remaining := offer.ExpiresAt.Sub(now); remaining < ttl {
			ttl = remaining
		}
	}

	if ttl <= 0 {
		return 0
	}

	return ttl
}

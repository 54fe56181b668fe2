// Package ratelimit throttles outbound vendor calls and inbound client requests.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (Result, error)
}

// RedisLimiter shares the GCRA buckets across every instance of the service.
type RedisLimiter struct {
	limiter *redis_rate.Limiter
}

func NewRedisLimiter(client redis.UniversalClient) *RedisLimiter {
	return &RedisLimiter{limiter: redis_rate.NewLimiter(client)}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) (Result, error) {
	res, err := l.limiter.Allow(ctx, key, limit)
	if err != nil {
		return Result{}, fmt.Errorf("redis rate limit %s: %w", key, err)
	}

	return Result{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		RetryAfter: res.RetryAfter,
	}, nil
}

// DefaultIdleTTL is how long an unused local bucket is kept before eviction.
const DefaultIdleTTL = 10 * time.Minute

type localBucket struct {
	limiter  *rate.Limiter
	period   time.Duration
	lastSeen time.Time
}

// LocalLimiter keeps token buckets in process memory, one per key. Buckets idle
// for longer than IdleTTL (or their own period, if longer) are evicted.
type LocalLimiter struct {
	IdleTTL time.Duration

	mu        sync.Mutex
	buckets   map[string]*localBucket
	lastSweep time.Time
	now       func() time.Time
}

func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{
		IdleTTL: DefaultIdleTTL,
		buckets: make(map[string]*localBucket),
		now:     time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (Result, error) {
	if limit.IsZero() || limit.Rate <= 0 {
		return Result{Allowed: true}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	bucket, ok := l.buckets[key]
	if !ok {
		every := limit.Period / time.Duration(limit.Rate)
		bucket = &localBucket{
			limiter: rate.NewLimiter(rate.Every(every), limit.Burst),
			period:  limit.Period,
		}
		l.buckets[key] = bucket
	}

	bucket.lastSeen = now

	reservation := bucket.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)

		return Result{Allowed: false, RetryAfter: delay}, nil
	}

	return Result{Allowed: true, Remaining: int(bucket.limiter.TokensAt(now))}, nil
}

// Len reports how many buckets are currently held.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.buckets)
}

// sweep runs at most once per IdleTTL. Callers hold l.mu.
func (l *LocalLimiter) sweep(now time.Time) {
	if l.IdleTTL <= 0 || now.Sub(l.lastSweep) < l.IdleTTL {
		return
	}

	l.lastSweep = now

	for key, bucket := range l.buckets {
		idle := max(l.IdleTTL, bucket.period)
		if now.Sub(bucket.lastSeen) > idle {
			delete(l.buckets, key)
		}
	}
}

// Fallback answers from Secondary whenever Primary returns an error.
type Fallback struct {
	Primary   Limiter
	Secondary Limiter
}

func (f Fallback) Allow(ctx context.Context, key string, limit redis_rate.Limit) (Result, error) {
	res, err := f.Primary.Allow(ctx, key, limit)
	if err == nil {
		return res, nil
	}

	return f.Secondary.Allow(ctx, key, limit)
}

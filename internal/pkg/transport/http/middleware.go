package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/netip"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/go-chi/cors"
	"github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/logger"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/ratelimit"
)

type MiddlewareFunc func(http.Handler) http.Handler

var ErrTooManyRequests = exception.ApplicationError{
	StatusCode: http.StatusTooManyRequests,
	Code:       "rate_limited",
	Message:    "too many requests, please retry later",
}

func Recoverer(logger *slog.Logger) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if err, _ := rvr.(error); errors.Is(err, http.ErrAbortHandler) {
						// we don't recover http.ErrAbortHandler so the response
						// to the client is aborted, this should not be logged
						panic(rvr)
					}

					logger.ErrorContext(req.Context(), "panic occurred", slog.Any("message", rvr), slog.String("stack_trace", string(debug.Stack())))
					ErrorResponse(req.Context(), fmt.Errorf("panic: %v", rvr), respWriter)
				}
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}

// CORSMiddleware set CORS related headers.
func CORSMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "OPTIONS", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Origin", "Content-Type", "Stripe-Signature", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
	})
}

// RequestID add request id to context and response header.
func RequestID() MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), logger.RequestIDKey, requestID)
			w.Header().Set("X-Request-Id", requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit limits requests per client IP. Limiter failures let the request through.
// Forwarded headers are only honoured when the peer is one of trustedProxies.
func RateLimit(limiter ratelimit.Limiter, name string, perMinute int, trustedProxies []netip.Prefix) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if perMinute <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("inbound:%s:%s", name, ClientIP(r, trustedProxies))

			res, err := limiter.Allow(r.Context(), key, redis_rate.PerMinute(perMinute))
			if err != nil {
				slog.WarnContext(r.Context(), "rate limiter unavailable", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)

				return
			}

			if !res.Allowed {
				retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				ErrorResponse(r.Context(), ErrTooManyRequests, w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ParseTrustedProxies reads IPs or CIDR ranges. Invalid entries are logged and skipped.
func ParseTrustedProxies(values []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(values))

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if prefix, err := netip.ParsePrefix(value); err == nil {
			prefixes = append(prefixes, prefix.Masked())

			continue
		}

		addr, err := netip.ParseAddr(value)
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy", slog.String("value", value))

			continue
		}

		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}

	return prefixes
}

// ClientIP returns the remote address, unless it is a trusted proxy. Then the
// X-Forwarded-For hops are walked from the right and the first untrusted hop wins.
func ClientIP(r *http.Request, trustedProxies []netip.Prefix) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}

	if !trusted(remote, trustedProxies) {
		return remote
	}

	forwarded := r.Header.Values("X-Forwarded-For")
	if len(forwarded) == 0 {
		return remote
	}

	hops := strings.Split(strings.Join(forwarded, ","), ",")

	client := remote
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}

		client = hop
		if !trusted(hop, trustedProxies) {
			break
		}
	}

	return client
}

func trusted(ip string, prefixes []netip.Prefix) bool {
	if len(prefixes) == 0 {
		return false
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	addr = addr.Unmap()
	for _, prefix := range prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}

	return false
}

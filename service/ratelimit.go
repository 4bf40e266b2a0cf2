// file: service/ratelimit.go

package service

import (
	"context"
	"fmt"
	"med-transcribe-api/logger"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// RateLimitError reports an over-limit request together with the seconds
// the client should wait before retrying.
type RateLimitError struct {
	RetryAfter int
	Limit      int
	Period     string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, try again in %d seconds", e.RetryAfter)
}

// periodSeconds maps rate limit period names to fixed window lengths.
var periodSeconds = map[string]int{
	"second": 1,
	"minute": 60,
	"hour":   3600,
	"day":    86400,
}

type rateLimit struct {
	count  int
	period string
	window time.Duration
}

func parseRateLimit(limit string) (rateLimit, error) {
	parts := strings.SplitN(limit, "/", 2)
	if len(parts) != 2 {
		return rateLimit{}, fmt.Errorf("invalid rate limit %q, expected \"count/period\"", limit)
	}

	count, err := strconv.Atoi(parts[0])
	if err != nil || count <= 0 {
		return rateLimit{}, fmt.Errorf("invalid rate limit count in %q", limit)
	}

	seconds, ok := periodSeconds[parts[1]]
	if !ok {
		return rateLimit{}, fmt.Errorf("invalid rate limit period: %q", parts[1])
	}

	return rateLimit{count: count, period: parts[1], window: time.Duration(seconds) * time.Second}, nil
}

// RateLimitService enforces fixed-window request limits per client IP and
// route key, backed by atomic counters in the shared store. Like the
// lockout tracker it fails open: if the store is unreachable the request
// is allowed and the outage is logged.
type RateLimitService struct {
	store        IAttemptStore
	limits       map[string]rateLimit
	defaultLimit rateLimit
	storeTimeout time.Duration
}

// NewRateLimitService validates the whole rate-limit table up front so a
// bad period string fails at startup rather than on the first request.
func NewRateLimitService(store IAttemptStore, limits map[string]string, defaultLimit string, storeTimeoutSeconds int) (*RateLimitService, error) {
	parsedDefault, err := parseRateLimit(defaultLimit)
	if err != nil {
		return nil, fmt.Errorf("default rate limit: %w", err)
	}

	parsed := make(map[string]rateLimit, len(limits))
	for routeKey, limit := range limits {
		rl, err := parseRateLimit(limit)
		if err != nil {
			return nil, fmt.Errorf("rate limit for %q: %w", routeKey, err)
		}
		parsed[routeKey] = rl
	}

	return &RateLimitService{
		store:        store,
		limits:       parsed,
		defaultLimit: parsedDefault,
		storeTimeout: time.Duration(storeTimeoutSeconds) * time.Second,
	}, nil
}

// Allow counts the request against the (client IP, route key) window and
// returns a *RateLimitError once the window's limit is exceeded.
func (s *RateLimitService) Allow(ctx context.Context, clientIP, routeKey string) error {
	limit, ok := s.limits[routeKey]
	if !ok {
		limit = s.defaultLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	key := fmt.Sprintf("rate-limit:%s:%s", clientIP, routeKey)

	current, err := s.store.Incr(ctx, key).Result()
	if err != nil {
		logger.Log.WithError(err).WithField("route_key", routeKey).Error("Rate limiting unavailable, allowing request")
		return nil
	}

	// First request in a fresh window starts the clock.
	if current == 1 {
		if err := s.store.Expire(ctx, key, limit.window).Err(); err != nil {
			logger.Log.WithError(err).WithField("route_key", routeKey).Error("Could not set rate limit window TTL")
		}
	}

	if current > int64(limit.count) {
		retryAfter := int(limit.window.Seconds())
		if ttl, err := s.store.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			retryAfter = int(ttl.Seconds())
		}

		logger.Log.WithFields(logrus.Fields{
			"client_ip": clientIP,
			"route_key": routeKey,
			"limit":     limit.count,
			"period":    limit.period,
		}).Warn("Rate limit exceeded")

		return &RateLimitError{RetryAfter: retryAfter, Limit: limit.count, Period: limit.period}
	}

	return nil
}

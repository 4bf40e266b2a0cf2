// file: service/ratelimit_test.go

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRateLimit(t *testing.T) {
	tests := []struct {
		input      string
		wantCount  int
		wantWindow time.Duration
		wantErr    bool
	}{
		{"1/second", 1, time.Second, false},
		{"15/minute", 15, time.Minute, false},
		{"100/hour", 100, time.Hour, false},
		{"200/day", 200, 24 * time.Hour, false},
		{"15/fortnight", 0, 0, true},
		{"minute", 0, 0, true},
		{"0/minute", 0, 0, true},
		{"abc/minute", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rl, err := parseRateLimit(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantCount, rl.count)
			assert.Equal(t, tt.wantWindow, rl.window)
		})
	}
}

func TestNewRateLimitService_RejectsBadConfig(t *testing.T) {
	store := newFakeAttemptStore()

	_, err := NewRateLimitService(store, map[string]string{"login": "15/fortnight"}, "30/minute", 5)
	assert.Error(t, err, "a bad period string must fail at startup")

	_, err = NewRateLimitService(store, nil, "not-a-limit", 5)
	assert.Error(t, err, "a bad default limit must fail at startup")
}

func TestRateLimitService_AllowsUpToLimit(t *testing.T) {
	store := newFakeAttemptStore()
	svc, err := NewRateLimitService(store, map[string]string{"login": "15/minute"}, "30/minute", 5)
	assert.NoError(t, err)
	ctx := context.Background()

	for i := 1; i <= 15; i++ {
		assert.NoError(t, svc.Allow(ctx, "10.0.0.1", "login"), "call %d must be allowed", i)
	}

	err = svc.Allow(ctx, "10.0.0.1", "login")
	assert.Error(t, err, "call 16 must be rejected")

	rateErr, ok := err.(*RateLimitError)
	assert.True(t, ok, "expected a *RateLimitError, got %T", err)
	assert.LessOrEqual(t, rateErr.RetryAfter, 60)
	assert.Greater(t, rateErr.RetryAfter, 0)
	assert.Equal(t, 15, rateErr.Limit)
	assert.Equal(t, "minute", rateErr.Period)
}

func TestRateLimitService_FirstRequestStartsWindow(t *testing.T) {
	store := newFakeAttemptStore()
	svc, err := NewRateLimitService(store, map[string]string{"login": "15/minute"}, "30/minute", 5)
	assert.NoError(t, err)

	assert.NoError(t, svc.Allow(context.Background(), "10.0.0.1", "login"))
	assert.Equal(t, time.Minute, store.ttl("rate-limit:10.0.0.1:login"))
}

func TestRateLimitService_KeysAreIndependent(t *testing.T) {
	store := newFakeAttemptStore()
	svc, err := NewRateLimitService(store, map[string]string{"login": "1/minute"}, "30/minute", 5)
	assert.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, svc.Allow(ctx, "10.0.0.1", "login"))
	assert.Error(t, svc.Allow(ctx, "10.0.0.1", "login"))

	// A different IP and a different route key each get their own window.
	assert.NoError(t, svc.Allow(ctx, "10.0.0.2", "login"))
	assert.NoError(t, svc.Allow(ctx, "10.0.0.1", "register"))
}

func TestRateLimitService_UnknownRouteUsesDefault(t *testing.T) {
	store := newFakeAttemptStore()
	svc, err := NewRateLimitService(store, nil, "2/minute", 5)
	assert.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, svc.Allow(ctx, "10.0.0.1", "transcribe"))
	assert.NoError(t, svc.Allow(ctx, "10.0.0.1", "transcribe"))
	assert.Error(t, svc.Allow(ctx, "10.0.0.1", "transcribe"))
}

func TestRateLimitService_FailOpenWhenStoreUnavailable(t *testing.T) {
	store := newFakeAttemptStore()
	svc, err := NewRateLimitService(store, map[string]string{"login": "1/minute"}, "30/minute", 5)
	assert.NoError(t, err)
	ctx := context.Background()

	store.setUnavailable(true)

	// With the store down every request is allowed.
	for i := 0; i < 10; i++ {
		assert.NoError(t, svc.Allow(ctx, "10.0.0.1", "login"))
	}
}

// file: service/store.go

package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IAttemptStore defines the contract for the shared key-value store backing
// the login-attempt tracker and the rate limiter. The store must provide
// atomic increments and key TTLs; multiple server instances share it, so
// none of this state may live only in-process.
//
// This abstraction decouples the services from a concrete Redis client,
// enabling easier testing and future flexibility.
type IAttemptStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// file: service/store_fake_test.go

package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var errStoreDown = errors.New("store unreachable")

// fakeAttemptStore is an in-memory IAttemptStore. TTLs are recorded but
// not enforced by a clock; tests inspect or clear keys directly. Setting
// unavailable makes every command fail, for exercising the fail-open
// branches.
type fakeAttemptStore struct {
	mu          sync.Mutex
	values      map[string]string
	ttls        map[string]time.Duration
	unavailable bool
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeAttemptStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return redis.NewIntResult(0, errStoreDown)
	}
	n, _ := strconv.ParseInt(f.values[key], 10, 64)
	n++
	f.values[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func (f *fakeAttemptStore) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return redis.NewStringResult("", errStoreDown)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeAttemptStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return redis.NewStatusResult("", errStoreDown)
	}
	switch v := value.(type) {
	case string:
		f.values[key] = v
	case int64:
		f.values[key] = strconv.FormatInt(v, 10)
	case int:
		f.values[key] = strconv.Itoa(v)
	default:
		return redis.NewStatusResult("", errors.New("unsupported value type"))
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeAttemptStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return redis.NewIntResult(0, errStoreDown)
	}
	var deleted int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			delete(f.ttls, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

func (f *fakeAttemptStore) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return redis.NewBoolResult(false, errStoreDown)
	}
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeAttemptStore) TTL(ctx context.Context, key string) *redis.DurationCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return redis.NewDurationResult(0, errStoreDown)
	}
	ttl, ok := f.ttls[key]
	if !ok {
		return redis.NewDurationResult(-2*time.Second, nil)
	}
	return redis.NewDurationResult(ttl, nil)
}

func (f *fakeAttemptStore) setValue(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

func (f *fakeAttemptStore) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeAttemptStore) ttl(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttls[key]
}

func (f *fakeAttemptStore) setUnavailable(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unavailable = down
}

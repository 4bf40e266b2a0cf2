// file: service/lockout.go

package service

import (
	"context"
	"fmt"
	"med-transcribe-api/logger"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// AccountLockedError reports that an identity is temporarily locked out
// after too many failed login attempts.
type AccountLockedError struct {
	RetrySeconds int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account is temporarily locked, try again in %d seconds", e.RetrySeconds)
}

// LockoutService tracks failed logins per identity in the shared store and
// enforces a temporary lockout window.
//
// The store is not a point of failure: if it is unreachable, every check
// reports unlocked and failures are only logged, so an outage never blocks
// logins.
type LockoutService struct {
	store         IAttemptStore
	maxAttempts   int
	lockoutPeriod time.Duration
	storeTimeout  time.Duration
}

func NewLockoutService(store IAttemptStore, maxAttempts, lockoutPeriodSeconds, storeTimeoutSeconds int) *LockoutService {
	return &LockoutService{
		store:         store,
		maxAttempts:   maxAttempts,
		lockoutPeriod: time.Duration(lockoutPeriodSeconds) * time.Second,
		storeTimeout:  time.Duration(storeTimeoutSeconds) * time.Second,
	}
}

func failedLoginKey(identity string) string {
	return "login:failed:" + identity
}

func failedLoginTimestampKey(identity string) string {
	return failedLoginKey(identity) + ":timestamp"
}

// RecordFailure increments the identity's failure counter and refreshes the
// last-failure timestamp. Both keys expire after twice the lockout period
// so stale entries clean themselves up.
func (s *LockoutService) RecordFailure(ctx context.Context, identity string) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	key := failedLoginKey(identity)
	attempts, err := s.store.Incr(ctx, key).Result()
	if err != nil {
		logger.Log.WithError(err).WithField("identity", identity).Error("Failed login tracking unavailable")
		return
	}

	ttl := 2 * s.lockoutPeriod
	if err := s.store.Set(ctx, failedLoginTimestampKey(identity), time.Now().Unix(), ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("identity", identity).Error("Could not store failure timestamp")
	}
	if err := s.store.Expire(ctx, key, ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("identity", identity).Error("Could not set failure counter TTL")
	}

	log := logger.Log.WithFields(logrus.Fields{
		"identity": identity,
		"attempts": attempts,
		"max":      s.maxAttempts,
	})
	log.Warn("Failed login attempt recorded")

	if attempts >= int64(s.maxAttempts) {
		log.Warn("Account locked after repeated failed attempts")
	}
}

// RecordSuccess clears the identity's failure state entirely.
func (s *LockoutService) RecordSuccess(ctx context.Context, identity string) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.store.Del(ctx, failedLoginKey(identity), failedLoginTimestampKey(identity)).Err(); err != nil {
		logger.Log.WithError(err).WithField("identity", identity).Error("Could not reset failed login counter")
		return
	}
	logger.Log.WithField("identity", identity).Info("Reset failed login counter")
}

// CheckLockout reports whether the identity is currently locked out and,
// if so, how many seconds remain. A lockout that has elapsed clears the
// failure state. Store errors report unlocked.
func (s *LockoutService) CheckLockout(ctx context.Context, identity string) (bool, int) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	attemptsStr, err := s.store.Get(ctx, failedLoginKey(identity)).Result()
	if err == redis.Nil {
		return false, 0
	}
	if err != nil {
		logger.Log.WithError(err).WithField("identity", identity).Error("Lockout check unavailable, allowing login")
		return false, 0
	}

	attempts, err := strconv.Atoi(attemptsStr)
	if err != nil || attempts < s.maxAttempts {
		return false, 0
	}

	timestampStr, err := s.store.Get(ctx, failedLoginTimestampKey(identity)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).WithField("identity", identity).Error("Lockout check unavailable, allowing login")
		}
		return false, 0
	}

	lastFailure, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return false, 0
	}

	elapsed := time.Since(time.Unix(lastFailure, 0))
	if elapsed < s.lockoutPeriod {
		remaining := int((s.lockoutPeriod - elapsed).Seconds())
		logger.Log.WithFields(logrus.Fields{
			"identity":  identity,
			"remaining": remaining,
		}).Warn("Account is locked")
		return true, remaining
	}

	// Lockout window has elapsed; clear the stale counter.
	logger.Log.WithField("identity", identity).Info("Lockout period expired, resetting counter")
	if err := s.store.Del(ctx, failedLoginKey(identity), failedLoginTimestampKey(identity)).Err(); err != nil {
		logger.Log.WithError(err).WithField("identity", identity).Error("Could not clear expired lockout state")
	}
	return false, 0
}

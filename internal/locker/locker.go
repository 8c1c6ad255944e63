// Package locker serialises work on a single claim across requests.
package locker

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned by Acquire when the lock stayed held for the whole wait.
var ErrNotAcquired = errors.New("lock is held by another request")

// Locker grants short-lived exclusive ownership of a key.
type Locker interface {
	// TryLock attempts to take the lock once. On success it returns the token
	// that must be passed to Unlock.
	TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error)

	// Unlock releases the lock if it is still owned by token.
	Unlock(ctx context.Context, key, token string) error
}

// Acquire retries TryLock until it succeeds, wait elapses or ctx ends.
func Acquire(ctx context.Context, l Locker, key string, expiration, wait time.Duration) (string, error) {
	const pollInterval = 20 * time.Millisecond

	deadline := time.Now().Add(wait)
	for {
		ok, token, err := l.TryLock(ctx, key, expiration)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
		if time.Now().After(deadline) {
			return "", ErrNotAcquired
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// ClaimKey is the lock key guarding one claim and its payments.
func ClaimKey(claimID string) string {
	return "claimwise:lock:claim:" + claimID
}

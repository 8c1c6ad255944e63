package locker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Locker = (*LocalLocker)(nil)

// LocalLocker is an in-process Locker for single-instance deployments.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]localLock
	nowFn func() time.Time
}

type localLock struct {
	token   string
	expires time.Time
}

// NewLocal returns an empty in-process locker.
func NewLocal() *LocalLocker {
	return &LocalLocker{held: make(map[string]localLock), nowFn: time.Now}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFn()
	if cur, ok := l.held[key]; ok && now.Before(cur.expires) {
		return false, "", nil
	}
	token := uuid.NewString()
	l.held[key] = localLock{token: token, expires: now.Add(expiration)}
	return true, token, nil
}

func (l *LocalLocker) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur, ok := l.held[key]; ok && cur.token == token {
		delete(l.held, key)
	}
	return nil
}

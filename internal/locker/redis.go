package locker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ Locker = (*RedisLocker)(nil)

// unlockScript deletes the key only when it still holds the caller's token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX so several server instances share locks.
type RedisLocker struct {
	client redis.UniversalClient
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: client}
}

// Dial connects to Redis and verifies the connection with PING.
func Dial(ctx context.Context, addr, password string) (*RedisLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisLocker{client: client}, nil
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	token := uuid.NewString()
	acquired, err := l.client.SetNX(ctx, key, token, expiration).Result()
	if err != nil {
		return false, "", fmt.Errorf("failed to set lock %s: %w", key, err)
	}
	if !acquired {
		slog.Debug("Lock not acquired", "key", key)
		return false, "", nil
	}
	return true, token, nil
}

func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	released, err := unlockScript.Run(ctx, l.client, []string{key}, token).Int()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	if released == 0 {
		slog.Warn("Lock expired or taken over before unlock", "key", key)
	}
	return nil
}

// Close closes the underlying client.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

// RedisLocker hands out single-attempt redis locks. A held lock is reported as
// portssvc.ErrLockHeld; anything else is an infrastructure failure.
type RedisLocker struct {
	rdb    *redis.Client
	client *redislock.Client
}

var _ portssvc.Locker = (*RedisLocker)(nil)

func NewRedisLocker(ctx context.Context, addr, password string) (*RedisLocker, error) {
	if addr == "" {
		return nil, errors.New("REDIS_ADDR is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return &RedisLocker{rdb: rdb, client: redislock.New(rdb)}, nil
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (portssvc.Lock, error) {
	lk, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, portssvc.ErrLockHeld
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return &redisLock{lock: lk}, nil
}

func (l *RedisLocker) Close() error {
	return l.rdb.Close()
}

type redisLock struct {
	lock *redislock.Lock
}

// Release treats an already expired lock as released.
func (l *redisLock) Release(ctx context.Context) error {
	if err := l.lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		return err
	}
	return nil
}

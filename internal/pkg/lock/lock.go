// Package lock provides the distributed lock that keeps scheduled jobs from
// running on more than one instance at a time.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrNotObtained means another holder currently owns the key.
var ErrNotObtained = errors.New("lock not obtained")

// Release gives a held lock back.
type Release func(ctx context.Context) error

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

type RedisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(rdb redis.Scripter) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

// Acquire tries once; it does not wait for the current holder.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	held, err := l.client.Obtain(ctx, key, ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, ErrNotObtained
		}
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		if err := held.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}

// LocalLocker serializes holders inside one process. It is used when Redis
// is not configured.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time)}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return nil, ErrNotObtained
	}
	deadline := now.Add(ttl)
	l.held[key] = deadline

	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// An expired lock may have been taken by someone else since.
		if l.held[key].Equal(deadline) {
			delete(l.held, key)
		}
		return nil
	}, nil
}

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

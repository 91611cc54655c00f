package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotObtained is returned when the lock is still held after all retries
var ErrLockNotObtained = errors.New("lock not obtained")

// Lock is a held lock
type Lock interface {
	Release(ctx context.Context) error
}

// Locker serializes work on a key across instances
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// RedisLocker implements Locker with bsm/redislock
type RedisLocker struct {
	client     *redislock.Client
	keyPrefix  string
	retryCount int
	retryDelay time.Duration
}

// NewRedisLocker creates a locker that retries retryCount times, retryDelay apart
func NewRedisLocker(client redis.UniversalClient, retryCount int, retryDelay time.Duration) *RedisLocker {
	return &RedisLocker{
		client:     redislock.New(client),
		keyPrefix:  "menuhub:lock:",
		retryCount: retryCount,
		retryDelay: retryDelay,
	}
}

// Obtain implements Locker
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.retryDelay), l.retryCount),
	}
	lock, err := l.client.Obtain(ctx, l.keyPrefix+key, ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return lock, nil
}

// InMemoryLocker implements Locker within a single process
type InMemoryLocker struct {
	mu         sync.Mutex
	held       map[string]time.Time
	retryCount int
	retryDelay time.Duration
}

// NewInMemoryLocker creates an in-process locker
func NewInMemoryLocker(retryCount int, retryDelay time.Duration) *InMemoryLocker {
	return &InMemoryLocker{
		held:       make(map[string]time.Time),
		retryCount: retryCount,
		retryDelay: retryDelay,
	}
}

// Obtain implements Locker. Expired holds are taken over like in Redis.
func (l *InMemoryLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	for attempt := 0; ; attempt++ {
		if l.tryObtain(key, ttl) {
			return &memoryLock{locker: l, key: key}, nil
		}
		if attempt >= l.retryCount {
			return nil, ErrLockNotObtained
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *InMemoryLocker) tryObtain(key string, ttl time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.held[key]; ok && time.Now().Before(until) {
		return false
	}
	l.held[key] = time.Now().Add(ttl)
	return true
}

type memoryLock struct {
	locker *InMemoryLocker
	key    string
}

func (m *memoryLock) Release(context.Context) error {
	m.locker.mu.Lock()
	defer m.locker.mu.Unlock()
	delete(m.locker.held, m.key)
	return nil
}

var (
	_ Locker = (*RedisLocker)(nil)
	_ Locker = (*InMemoryLocker)(nil)
)

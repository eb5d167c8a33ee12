package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-structures/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockSuffix        = ":generate_lock"
	defaultLockExpiry = 120 * time.Second
)

var (
	ErrLockExpired = errors.New("generate lock expired before release")
)

var _ i.LayoutCache = &RedisLayoutCache{}

// RedisLayoutCache maps deterministic generate requests to stored batch IDs.
type RedisLayoutCache struct {
	client     *redis.Client
	locker     *redsync.Redsync
	ttl        time.Duration
	lockExpiry time.Duration
}

// NewRedisLayoutCache initializes a RedisLayoutCache with the provided Redis client,
// entry TTL and lock expiry. A non-positive lock expiry means 120 seconds.
func NewRedisLayoutCache(client *redis.Client, ttlSeconds, lockSeconds int) (*RedisLayoutCache, error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}

	cache := &RedisLayoutCache{
		client:     client,
		ttl:        time.Duration(ttlSeconds) * time.Second,
		lockExpiry: defaultLockExpiry,
	}
	if lockSeconds > 0 {
		cache.lockExpiry = time.Duration(lockSeconds) * time.Second
	}
	pool := goredis.NewPool(client)
	cache.locker = redsync.New(pool)
	return cache, nil
}

// BatchID returns the batch ID stored under key.
func (c *RedisLayoutCache) BatchID(ctx context.Context, key string) (uuid.UUID, bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("non-UUID value under %s: %w", key, err)
	}
	return id, true, nil
}

// SetBatchID stores id under key, expiring after the cache TTL.
func (c *RedisLayoutCache) SetBatchID(ctx context.Context, key string, id uuid.UUID) error {
	return c.client.Set(ctx, key, id.String(), c.ttl).Err()
}

// Lock takes a distributed lock so one request per key generates at a time.
// The returned func fails with ErrLockExpired when the lock was no longer held.
func (c *RedisLayoutCache) Lock(ctx context.Context, key string) (func() error, error) {
	mutex := c.locker.NewMutex(key+lockSuffix, redsync.WithExpiry(c.lockExpiry))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}

	return func() error {
		ok, err := mutex.Unlock()
		if err != nil {
			return fmt.Errorf("releasing %s: %w", mutex.Name(), err)
		}
		if !ok {
			return ErrLockExpired
		}
		return nil
	}, nil
}

package utils

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = time.Minute

// setIfGeneration writes KEYS[1] only while the counter at KEYS[2] still
// reads ARGV[2]. A missing counter reads as "0".
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[2] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// Cache is a thin byte cache over Redis. A Cache with a nil client is a no-op.
//
// Entries can be guarded by a generation counter: writers bump it with
// Invalidate, and SetIfGeneration refuses a fill computed under an older one.
type Cache struct {
	rc *redis.Client
}

// NewCache wraps rc; rc may be nil.
func NewCache(rc *redis.Client) *Cache {
	return &Cache{rc: rc}
}

// Enabled reports whether the cache has a backing client.
func (c *Cache) Enabled() bool {
	return c != nil && c.rc != nil
}

// GetBytes returns cached bytes for a key.
func (c *Cache) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		return nil, false
	}
	return b, true
}

// Generation reads the counter at genKey. ok is false when the cache is
// disabled or Redis cannot be reached; callers should then skip filling.
func (c *Cache) Generation(ctx context.Context, genKey string) (gen string, ok bool) {
	if !c.Enabled() {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	gen, err := c.rc.Get(ctx, genKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "0", true
	case err != nil:
		Sugar.Warnf("cache generation read failed key=%s err=%v", genKey, err)
		return "", false
	}
	return gen, true
}

// SetIfGeneration stores b under key if genKey still holds gen, atomically.
// ttl <= 0 uses the default TTL. stored is false when a writer got in between.
func (c *Cache) SetIfGeneration(ctx context.Context, key string, b []byte, ttl time.Duration, genKey, gen string) (stored bool, err error) {
	if !c.Enabled() {
		return false, nil
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	n, err := setIfGeneration.Run(ctx, c.rc, []string{key, genKey}, b, gen, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Invalidate bumps the counter at genKey and deletes keys in one transaction.
// It returns the Redis error so writers can log a failed invalidation.
func (c *Cache) Invalidate(ctx context.Context, genKey string, keys ...string) error {
	if !c.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err := c.rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		return nil
	})
	return err
}

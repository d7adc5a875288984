package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "jwt:blacklist:"

// TokenBlacklist remembers revoked tokens until their natural expiration.
// Redis is preferred; without it the list is kept in process memory.
type TokenBlacklist struct {
	rc      *redis.Client
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewTokenBlacklist creates a blacklist backed by rc, or by memory when rc is nil.
func NewTokenBlacklist(rc *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rc: rc, entries: map[string]time.Time{}}
}

// Add stores a token until expiresAt.
func (b *TokenBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := b.rc.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
		if err == nil {
			return
		}
		Sugar.Warnf("token blacklist redis set failed, using memory: %v", err)
	}
	b.mu.Lock()
	b.entries[token] = expiresAt
	b.mu.Unlock()
}

// IsRevoked checks if a token was revoked before natural expiration.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		n, err := b.rc.Exists(ctx, blacklistPrefix+token).Result()
		if err == nil && n > 0 {
			return true
		}
		if err != nil {
			// Fail open on Redis errors to avoid locking every user out
			Sugar.Warnf("token blacklist redis lookup failed: %v", err)
		}
	}

	b.mu.RLock()
	expiresAt, ok := b.entries[token]
	b.mu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		b.mu.Lock()
		delete(b.entries, token)
		b.mu.Unlock()
		return false
	}
	return true
}

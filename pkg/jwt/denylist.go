package jwt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records token ids revoked before their expiry.
type Denylist interface {
	// Revoke denies the token id until the given time.
	Revoke(ctx context.Context, jti string, until time.Time) error
	// IsRevoked reports whether the token id is currently denied.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisClient is the subset of redis.Cmdable used by RedisDenylist.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisDenylist keeps revoked token ids as expiring Redis keys.
type RedisDenylist struct {
	client RedisClient
	prefix string
	now    func() time.Time
}

// NewRedisDenylist creates a Redis backed denylist. Keys are written as
// prefix + jti; an empty prefix defaults to "jwt:denylist:".
func NewRedisDenylist(client RedisClient, prefix string) *RedisDenylist {
	if prefix == "" {
		prefix = "jwt:denylist:"
	}
	return &RedisDenylist{client: client, prefix: prefix, now: time.Now}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.prefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("jwt: revoke token: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("jwt: check denylist: %w", err)
	}
	return n > 0, nil
}

// MemoryDenylist is an in-process denylist for tests and single-instance runs.
type MemoryDenylist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{entries: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, exp := range d.entries {
		if !exp.After(now) {
			delete(d.entries, id)
		}
	}
	if until.After(now) {
		d.entries[jti] = until
	}
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	exp, ok := d.entries[jti]
	return ok && exp.After(d.now()), nil
}

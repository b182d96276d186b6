package auth

import (
	"context"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Revoker records revoked token ids until their natural expiry.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) bool
}

// RedisRevoker stores revoked jtis as expiring Redis keys.
type RedisRevoker struct {
	client *goredis.Client
	prefix string
}

// NewRedisRevoker creates a RedisRevoker with the given key prefix.
func NewRedisRevoker(client *goredis.Client, prefix string) *RedisRevoker {
	if prefix == "" {
		prefix = "silverbank:revoked"
	}
	return &RedisRevoker{client: client, prefix: prefix}
}

func (r *RedisRevoker) key(jti string) string {
	return r.prefix + ":" + jti
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(jti), "1", ttl).Err()
}

// IsRevoked treats Redis errors as "not revoked": an unreachable revocation
// store must not lock every signed-in user out.
func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) bool {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		log.Printf("level=warn component=auth msg=\"revocation check failed\" err=%v", err)
		return false
	}
	return n > 0
}

// NopRevoker is used when no revocation store is configured; logout becomes a
// client-side token discard.
type NopRevoker struct{}

func (NopRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error { return nil }
func (NopRevoker) IsRevoked(ctx context.Context, jti string) bool                  { return false }

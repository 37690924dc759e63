package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "auth:denylist:"

// TokenDenylist stores revoked token IDs in Redis. Each entry carries a TTL
// equal to the remaining token lifetime, so revocations expire with the
// tokens they cover.
type TokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist builds a Redis-backed denylist.
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

// Revoke marks a token ID as revoked until ttl elapses.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistKeyPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

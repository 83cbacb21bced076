package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked_refresh:"

// RevocationRepository tracks refresh-token JTIs that were invalidated
// before natural expiry. Membership checks reflect the latest Revoke call
// from any caller; Redis gives that consistency directly.
type RevocationRepository interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type revocationRepository struct {
	client *redis.Client
}

// NewRevocationRepository returns a Redis-backed implementation. Entries
// carry a TTL equal to the remaining token life, so the set never outgrows
// the live token population.
func NewRevocationRepository(client *redis.Client) RevocationRepository {
	return &revocationRepository{client: client}
}

func (r *revocationRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already past natural expiry; verification rejects it anyway.
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err()
}

func (r *revocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Xushengqwer/identity_hub/constants"
)

// TokenBlackRepo is the blacklist of revoked refresh-token JTIs.
type TokenBlackRepo interface {
	// AddJtiToBlacklist revokes jti for ttl, which should be the token's
	// remaining lifetime. A non-positive ttl is a no-op: the token is already
	// expired.
	AddJtiToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsJtiBlacklisted reports whether jti has been revoked.
	IsJtiBlacklisted(ctx context.Context, jti string) (bool, error)
}

type tokenBlackRepo struct {
	client *redis.Client
}

func NewTokenBlacklistRepo(client *redis.Client) TokenBlackRepo {
	return &tokenBlackRepo{client: client}
}

func (r *tokenBlackRepo) buildBlacklistKey(jti string) string {
	return constants.BlacklistKeyPrefix + ":jti:" + jti
}

func (r *tokenBlackRepo) AddJtiToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.buildBlacklistKey(jti), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("tokenBlackRepo.AddJtiToBlacklist: set failed (JTI: %s): %w", jti, err)
	}
	return nil
}

func (r *tokenBlackRepo) IsJtiBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.buildBlacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("tokenBlackRepo.IsJtiBlacklisted: exists failed (JTI: %s): %w", jti, err)
	}
	return exists == 1, nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Xushengqwer/identity_hub/constants"
)

// LoginAttemptRepo counts failed password logins per email in a fixed window.
type LoginAttemptRepo interface {
	// Failures returns the failures recorded in the current window.
	Failures(ctx context.Context, email string) (int64, error)

	// RecordFailure increments the counter. The window starts at the first
	// failure and is not extended by later ones.
	RecordFailure(ctx context.Context, email string, window time.Duration) (int64, error)

	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, email string) error
}

type loginAttemptRepo struct {
	client *redis.Client
}

func NewLoginAttemptRepo(client *redis.Client) LoginAttemptRepo {
	return &loginAttemptRepo{client: client}
}

func (r *loginAttemptRepo) buildKey(email string) string {
	return constants.LoginAttemptKeyPrefix + ":" + email
}

func (r *loginAttemptRepo) Failures(ctx context.Context, email string) (int64, error) {
	n, err := r.client.Get(ctx, r.buildKey(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("loginAttemptRepo.Failures: get failed: %w", err)
	}
	return n, nil
}

func (r *loginAttemptRepo) RecordFailure(ctx context.Context, email string, window time.Duration) (int64, error) {
	key := r.buildKey(email)
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("loginAttemptRepo.RecordFailure: incr failed: %w", err)
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return n, fmt.Errorf("loginAttemptRepo.RecordFailure: expire failed: %w", err)
		}
	}
	return n, nil
}

func (r *loginAttemptRepo) Reset(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, r.buildKey(email)).Err(); err != nil {
		return fmt.Errorf("loginAttemptRepo.Reset: del failed: %w", err)
	}
	return nil
}

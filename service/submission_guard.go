package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const submissionKeyPrefix = "order-submission:"

// SubmissionGuard claims idempotency keys of order submissions
type SubmissionGuard interface {
	// Claim returns false when key was already claimed
	Claim(ctx context.Context, key string) (bool, error)
	// Release frees a key whose submission was abandoned before anything was written
	Release(ctx context.Context, key string) error
}

// RedisSubmissionGuard claims keys with SETNX so that a key is accepted once per TTL
type RedisSubmissionGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSubmissionGuard creates a new RedisSubmissionGuard
func NewRedisSubmissionGuard(client *redis.Client, ttl time.Duration) *RedisSubmissionGuard {
	return &RedisSubmissionGuard{client: client, ttl: ttl}
}

// Claim marks key as used. A submission that reached the order stage keeps its
// key even when it fails, so an automatic retry cannot create a second order.
func (g *RedisSubmissionGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, submissionKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim submission key: %w", err)
	}
	return ok, nil
}

// Release deletes the claim on key
func (g *RedisSubmissionGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, submissionKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release submission key: %w", err)
	}
	return nil
}

// NoopSubmissionGuard accepts every key. Used when Redis is not configured.
type NoopSubmissionGuard struct{}

// Claim always succeeds
func (NoopSubmissionGuard) Claim(context.Context, string) (bool, error) {
	return true, nil
}

// Release does nothing
func (NoopSubmissionGuard) Release(context.Context, string) error {
	return nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imezy/imezy-api/internal/core/domain"
)

// RedisRefreshTokenRepository stores at most one refresh token per user under
// key refresh_token:<email>. SET is the rotation upsert: last writer wins and
// the replaced token stops verifying immediately. The key TTL matches the
// token lifetime, so expiry is enforced by the store as well as the claims.
type RedisRefreshTokenRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRefreshTokenRepository(client *redis.Client, ttl time.Duration) *RedisRefreshTokenRepository {
	return &RedisRefreshTokenRepository{client: client, ttl: ttl}
}

func (r *RedisRefreshTokenRepository) key(email string) string {
	return fmt.Sprintf("refresh_token:%s", email)
}

func (r *RedisRefreshTokenRepository) Put(ctx context.Context, email, token string) error {
	if err := r.client.Set(ctx, r.key(email), token, r.ttl).Err(); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

func (r *RedisRefreshTokenRepository) Get(ctx context.Context, email string) (string, error) {
	token, err := r.client.Get(ctx, r.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrTokenInvalid
		}
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	return token, nil
}

func (r *RedisRefreshTokenRepository) Delete(ctx context.Context, email string) (bool, error) {
	n, err := r.client.Del(ctx, r.key(email)).Result()
	if err != nil {
		return false, fmt.Errorf("delete refresh token: %w", err)
	}
	return n > 0, nil
}

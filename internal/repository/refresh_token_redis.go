package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"taskmanager/internal/domain"

	"github.com/redis/go-redis/v9"
)

const refreshTokenKeyPrefix = "refresh_token:"

// RedisRefreshTokenRepository keeps one refresh session per user in Redis.
// Keys expire together with the refresh token they describe.
type RedisRefreshTokenRepository struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisRefreshTokenRepository(client *redis.Client, ttl time.Duration) *RedisRefreshTokenRepository {
	return &RedisRefreshTokenRepository{client: client, ttl: ttl, now: time.Now}
}

func refreshTokenKey(userID string) string {
	return refreshTokenKeyPrefix + userID
}

// Save overwrites the user's key with a single SET, keeping the original
// creation time when a record already exists.
func (r *RedisRefreshTokenRepository) Save(ctx context.Context, userID, tokenHash string) (*domain.RefreshToken, error) {
	now := r.now().UTC()
	t := &domain.RefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		t.CreatedAt = existing.CreatedAt
	}

	payload, err := json.Marshal(redisRefreshToken{
		TokenHash: t.TokenHash,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	if err := r.client.Set(ctx, refreshTokenKey(userID), payload, r.ttl).Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *RedisRefreshTokenRepository) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, refreshTokenKey(userID)).Err()
}

// GetByUserID returns nil, nil when the key is missing or expired.
func (r *RedisRefreshTokenRepository) GetByUserID(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	raw, err := r.client.Get(ctx, refreshTokenKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stored redisRefreshToken
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	return &domain.RefreshToken{
		UserID:    userID,
		TokenHash: stored.TokenHash,
		CreatedAt: stored.CreatedAt,
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

type redisRefreshToken struct {
	TokenHash string    `json:"tokenHash"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

package server

import (
	"context"
	"fmt"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/modules/auth"
	"taskmanager/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewTokenRegistry returns the refresh-session store selected by TOKEN_STORE
// and a function releasing whatever it opened.
func NewTokenRegistry(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) (auth.TokenRegistry, func() error, error) {
	if cfg.TokenStore != config.TokenStoreRedis {
		log.Info("refresh sessions stored in the database")
		return repository.NewRefreshTokenRepository(db), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info("refresh sessions stored in redis", zap.String("addr", opts.Addr))
	return repository.NewRedisRefreshTokenRepository(client, cfg.JWTRefreshTTL), client.Close, nil
}

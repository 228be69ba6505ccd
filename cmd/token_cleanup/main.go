package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/database"
	"taskmanager/internal/pkg/logger"
	"taskmanager/internal/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// token_cleanup removes refresh sessions that were not rotated within the
// refresh TTL. Their tokens have expired, so nothing can use them.
// Redis-backed sessions expire on their own and need no cleanup.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	if cfg.TokenStore == config.TokenStoreRedis {
		log.Info("token store is redis, nothing to clean up")
		return
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-cfg.JWTRefreshTTL)
	removed, err := repository.NewRefreshTokenRepository(db).DeleteStaleBefore(ctx, cutoff)
	if err != nil {
		log.Fatal("cleanup refresh_tokens failed", zap.Error(err))
	}

	log.Info("token cleanup completed", zap.Int64("refresh_tokens", removed), zap.Time("cutoff", cutoff))
}

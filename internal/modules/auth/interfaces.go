package auth

import (
	"context"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/pkg/jwt"
)

// UserRepository lists only the methods the auth service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// TokenRegistry keeps at most one refresh session per user.
// Implemented by the SQL and Redis refresh token repositories.
type TokenRegistry interface {
	Save(ctx context.Context, userID, tokenHash string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, userID string) error
	GetByUserID(ctx context.Context, userID string) (*domain.RefreshToken, error)
}

type TokenIssuer interface {
	GenerateTokens(p jwt.Payload) (jwt.TokenPair, error)
	VerifyRefreshToken(token string) (*jwt.Claims, error)
	RefreshTTL() time.Duration
}

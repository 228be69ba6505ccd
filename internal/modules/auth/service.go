package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/pkg/apperr"
	"taskmanager/internal/pkg/jwt"
	"taskmanager/internal/pkg/metrics"
	"taskmanager/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service owns the session lifecycle: registration, login, logout and
// refresh-token rotation. A user has at most one live refresh session; every
// login or refresh overwrites it.
type Service struct {
	users              UserRepository
	tokens             TokenRegistry
	issuer             TokenIssuer
	refreshTokenPepper string
	bcryptCost         int
	log                *zap.Logger
}

// Session is what a successful registration or login hands back.
type Session struct {
	User   *domain.User
	Tokens jwt.TokenPair
}

func NewService(
	users UserRepository,
	tokens TokenRegistry,
	issuer TokenIssuer,
	refreshTokenPepper string,
	bcryptCost int,
	log *zap.Logger,
) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:              users,
		tokens:             tokens,
		issuer:             issuer,
		refreshTokenPepper: refreshTokenPepper,
		bcryptCost:         bcryptCost,
		log:                log.Named("auth"),
	}
}

func (s *Service) Registration(ctx context.Context, req RegistrationRequest) (sess *Session, err error) {
	defer func() { metrics.RegistrationAttemptsTotal.WithLabelValues(metrics.Outcome(err)).Inc() }()

	existing, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, usernameTaken(req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		Surname:      req.Surname,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same name
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, usernameTaken(req.Username)
		}
		return nil, apperr.Internal(err)
	}

	tokens, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return &Session{User: user, Tokens: tokens}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (sess *Session, err error) {
	defer func() { metrics.LoginAttemptsTotal.WithLabelValues(metrics.Outcome(err)).Inc() }()

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.log.Info("login rejected", zap.String("user_id", user.ID), zap.String("reason", "invalid_password"))
			return nil, ErrInvalidPassword
		}
		return nil, apperr.Internal(err)
	}

	tokens, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID))
	return &Session{User: user, Tokens: tokens}, nil
}

// Logout ends the user's refresh session. Access tokens already issued stay
// valid until they expire.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.tokens.Delete(ctx, userID); err != nil {
		return apperr.Internal(err)
	}
	metrics.LogoutsTotal.Inc()
	s.log.Info("user logged out", zap.String("user_id", userID))
	return nil
}

// Refresh exchanges the presented refresh token for a new pair. The token must
// verify, and it must be the exact token stored for its user: a token
// superseded by a later login or refresh is rejected.
func (s *Service) Refresh(ctx context.Context, presented string) (tokens jwt.TokenPair, err error) {
	defer func() { metrics.TokenRefreshTotal.WithLabelValues(metrics.Outcome(err)).Inc() }()

	if presented == "" {
		return jwt.TokenPair{}, ErrRefreshTokenMissing
	}

	claims, err := s.issuer.VerifyRefreshToken(presented)
	if err != nil {
		return jwt.TokenPair{}, ErrRefreshTokenInvalid
	}

	stored, err := s.tokens.GetByUserID(ctx, claims.UserID)
	if err != nil {
		return jwt.TokenPair{}, apperr.Internal(err)
	}
	if stored == nil {
		s.log.Info("refresh rejected", zap.String("user_id", claims.UserID), zap.String("reason", "no_session"))
		return jwt.TokenPair{}, ErrRefreshTokenRevoked
	}
	if subtle.ConstantTimeCompare([]byte(stored.TokenHash), []byte(s.hashToken(presented))) != 1 {
		s.log.Info("refresh rejected", zap.String("user_id", claims.UserID), zap.String("reason", "superseded"))
		return jwt.TokenPair{}, ErrRefreshTokenRevoked
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return jwt.TokenPair{}, apperr.Internal(err)
	}
	if user == nil {
		if err := s.tokens.Delete(ctx, claims.UserID); err != nil {
			return jwt.TokenPair{}, apperr.Internal(err)
		}
		return jwt.TokenPair{}, ErrRefreshTokenRevoked
	}

	return s.startSession(ctx, user)
}

func (s *Service) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// RefreshTTL is how long a freshly issued refresh token lives.
func (s *Service) RefreshTTL() time.Duration {
	return s.issuer.RefreshTTL()
}

// startSession mints a pair for user and makes its refresh token the user's
// only live one.
func (s *Service) startSession(ctx context.Context, user *domain.User) (jwt.TokenPair, error) {
	tokens, err := s.issuer.GenerateTokens(jwt.Payload{UserID: user.ID, Username: user.Username})
	if err != nil {
		return jwt.TokenPair{}, apperr.Internal(err)
	}
	if _, err := s.tokens.Save(ctx, user.ID, s.hashToken(tokens.RefreshToken)); err != nil {
		return jwt.TokenPair{}, apperr.Internal(err)
	}
	return tokens, nil
}

func (s *Service) hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw + s.refreshTokenPepper))
	return hex.EncodeToString(sum[:])
}

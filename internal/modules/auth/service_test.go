package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskmanager/internal/database"
	"taskmanager/internal/domain"
	"taskmanager/internal/pkg/apperr"
	"taskmanager/internal/pkg/jwt"
	"taskmanager/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testPepper = "test-pepper"

func newIssuer() *jwt.Service {
	return jwt.New(jwt.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
}

type fixture struct {
	service *Service
	users   *repository.UserRepository
	tokens  *repository.RefreshTokenRepository
}

func newFixture(t *testing.T) fixture {
	db := database.NewTestDB(t)
	users := repository.NewUserRepository(db)
	tokens := repository.NewRefreshTokenRepository(db)
	return fixture{
		service: NewService(users, tokens, newIssuer(), testPepper, bcrypt.MinCost, zap.NewNop()),
		users:   users,
		tokens:  tokens,
	}
}

func register(t *testing.T, s *Service, username, password string) *Session {
	t.Helper()
	sess, err := s.Registration(context.Background(), RegistrationRequest{
		FirstName: "Alice",
		Surname:   "Smith",
		Username:  username,
		Password:  password,
	})
	require.NoError(t, err)
	return sess
}

func TestService_Registration_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess := register(t, f.service, "alice", "secret1")

	assert.NotEmpty(t, sess.User.ID)
	assert.Equal(t, "alice", sess.User.Username)
	assert.NotEqual(t, "secret1", sess.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(sess.User.PasswordHash), []byte("secret1")))

	stored, err := f.tokens.GetByUserID(ctx, sess.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, f.service.hashToken(sess.Tokens.RefreshToken), stored.TokenHash)
	assert.NotContains(t, stored.TokenHash, sess.Tokens.RefreshToken)
}

func TestService_Registration_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	register(t, f.service, "alice", "secret1")

	_, err := f.service.Registration(context.Background(), RegistrationRequest{
		FirstName: "Other",
		Surname:   "Person",
		Username:  "alice",
		Password:  "secret2",
	})

	require.ErrorIs(t, err, ErrUsernameTaken)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindBadRequest, appErr.Kind)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "username", appErr.Fields[0].Field)
}

func TestService_Registration_UsernameIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	register(t, f.service, "alice", "secret1")
	register(t, f.service, "Alice", "secret1")
}

func TestService_Login(t *testing.T) {
	f := newFixture(t)
	register(t, f.service, "alice", "secret1")
	ctx := context.Background()

	sess, err := f.service.Login(ctx, LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.User.Username)
	assert.NotEmpty(t, sess.Tokens.AccessToken)

	_, err = f.service.Login(ctx, LoginRequest{Username: "alice", Password: "wrong-1"})
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = f.service.Login(ctx, LoginRequest{Username: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_Refresh_RotatesSession(t *testing.T) {
	f := newFixture(t)
	sess := register(t, f.service, "alice", "secret1")
	ctx := context.Background()

	rotated, err := f.service.Refresh(ctx, sess.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, sess.Tokens.RefreshToken, rotated.RefreshToken)

	// the rotated-out token is no longer accepted
	_, err = f.service.Refresh(ctx, sess.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)

	_, err = f.service.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestService_Refresh_AfterLogoutFails(t *testing.T) {
	f := newFixture(t)
	sess := register(t, f.service, "alice", "secret1")
	ctx := context.Background()

	require.NoError(t, f.service.Logout(ctx, sess.User.ID))
	// logout is idempotent
	require.NoError(t, f.service.Logout(ctx, sess.User.ID))

	_, err := f.service.Refresh(ctx, sess.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindUnauthorized, appErr.Kind)
}

func TestService_Refresh_OverwrittenSession(t *testing.T) {
	f := newFixture(t)
	register(t, f.service, "alice", "secret1")
	ctx := context.Background()

	first, err := f.service.Login(ctx, LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	second, err := f.service.Login(ctx, LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.service.Refresh(ctx, first.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)

	pair, err := f.service.Refresh(ctx, second.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, second.Tokens.RefreshToken, pair.RefreshToken)
}

func TestService_Refresh_RejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	sess := register(t, f.service, "alice", "secret1")
	ctx := context.Background()

	_, err := f.service.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrRefreshTokenMissing)

	_, err = f.service.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)

	// an access token is signed with the other secret
	_, err = f.service.Refresh(ctx, sess.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestService_Refresh_UserGone(t *testing.T) {
	db := database.NewTestDB(t)
	tokens := repository.NewRefreshTokenRepository(db)
	issuer := newIssuer()
	users := new(mockUserRepo)
	s := NewService(users, tokens, issuer, testPepper, bcrypt.MinCost, zap.NewNop())
	ctx := context.Background()

	pair, err := issuer.GenerateTokens(jwt.Payload{UserID: "gone", Username: "ghost"})
	require.NoError(t, err)
	_, err = tokens.Save(ctx, "gone", s.hashToken(pair.RefreshToken))
	require.NoError(t, err)

	users.On("FindByID", mock.Anything, "gone").Return(nil, nil)

	_, err = s.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)

	stored, err := tokens.GetByUserID(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestService_CurrentUser(t *testing.T) {
	f := newFixture(t)
	sess := register(t, f.service, "alice", "secret1")

	user, err := f.service.CurrentUser(context.Background(), sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.FirstName)

	_, err = f.service.CurrentUser(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockTokenRegistry struct {
	mock.Mock
}

func (m *mockTokenRegistry) Save(ctx context.Context, userID, tokenHash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, userID, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *mockTokenRegistry) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockTokenRegistry) GetByUserID(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func TestService_StoreFailuresAreInternal(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokenRegistry)
	s := NewService(users, tokens, newIssuer(), testPepper, bcrypt.MinCost, zap.NewNop())
	ctx := context.Background()
	storeErr := errors.New("connection reset by peer")

	users.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	tokens.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil, storeErr)
	tokens.On("Delete", mock.Anything, "u-1").Return(storeErr)

	_, err := s.Registration(ctx, RegistrationRequest{FirstName: "Al", Surname: "Sm", Username: "alice", Password: "secret1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	_, isDomain := apperr.As(err)
	assert.False(t, isDomain)

	err = s.Logout(ctx, "u-1")
	assert.ErrorIs(t, err, storeErr)

	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestService_Registration_DuplicateFromStore(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokenRegistry)
	s := NewService(users, tokens, newIssuer(), testPepper, bcrypt.MinCost, zap.NewNop())

	users.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := s.Registration(context.Background(), RegistrationRequest{FirstName: "Al", Surname: "Sm", Username: "alice", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	tokens.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

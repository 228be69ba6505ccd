package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(opts ...Option) *Service {
	return New(Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, opts...)
}

func TestGenerateTokens_RoundTrip(t *testing.T) {
	svc := newTestService()
	payload := Payload{UserID: "6a1f6f4e-1111-4c34-9a57-0c1f0f5e8a10", Username: "alice"}

	pair, err := svc.GenerateTokens(payload)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := svc.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, payload.UserID, access.UserID)
	assert.Equal(t, payload.Username, access.Username)
	require.NotNil(t, access.ExpiresAt)
	require.NotNil(t, access.IssuedAt)
	assert.WithinDuration(t, access.IssuedAt.Add(15*time.Minute), access.ExpiresAt.Time, time.Second)

	refresh, err := svc.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, payload.UserID, refresh.UserID)
	assert.WithinDuration(t, refresh.IssuedAt.Add(7*24*time.Hour), refresh.ExpiresAt.Time, time.Second)
}

func TestGenerateTokens_UniquePerCall(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(WithClock(func() time.Time { return fixed }))
	payload := Payload{UserID: "u-1", Username: "alice"}

	first, err := svc.GenerateTokens(payload)
	require.NoError(t, err)
	second, err := svc.GenerateTokens(payload)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
}

func TestVerify_SecretsAreNotInterchangeable(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokens(Payload{UserID: "u-1", Username: "alice"})
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)

	claims, err = svc.VerifyRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestVerify_WrongSecret(t *testing.T) {
	other := New(Config{AccessSecret: "other", RefreshSecret: "other-refresh", AccessTTL: time.Hour, RefreshTTL: 2 * time.Hour})
	pair, err := other.GenerateTokens(Payload{UserID: "u-1", Username: "alice"})
	require.NoError(t, err)

	_, err = newTestService().VerifyAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := newTestService(WithClock(func() time.Time { return past }))
	pair, err := issuer.GenerateTokens(Payload{UserID: "u-1", Username: "alice"})
	require.NoError(t, err)

	_, err = newTestService().VerifyAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// the refresh token issued at the same moment is still inside its TTL
	_, err = newTestService().VerifyRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestVerify_Malformed(t *testing.T) {
	svc := newTestService()
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		claims, err := svc.VerifyAccessToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
		assert.Nil(t, claims)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID:   "u-1",
		Username: "alice",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = newTestService().VerifyAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	claims := Claims{UserID: "u-1", Username: "alice"}
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = newTestService().VerifyAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

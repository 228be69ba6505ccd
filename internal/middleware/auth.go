package middleware

import (
	"context"
	"net/http"
	"strings"

	"taskmanager/internal/pkg/apperr"
	"taskmanager/internal/pkg/jwt"
	"taskmanager/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrAuthHeaderMissing = apperr.Unauthorized("AUTH_HEADER_MISSING", "Authorization header is required")
	ErrInvalidAuthFormat = apperr.Unauthorized("INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
	ErrInvalidToken      = apperr.Unauthorized("INVALID_TOKEN", "Invalid or expired token")
	ErrAuthRequired      = apperr.Unauthorized("UNAUTHORIZED", "Authentication required")
)

const identityKey = "identity"

type identityCtxKey struct{}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID   string
	Username string
}

// TokenVerifier checks access tokens. *jwt.Service satisfies it.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*jwt.Claims, error)
}

// JWTAuth admits requests carrying a valid Bearer access token and stores the
// caller's Identity in both the gin and the request context. It never touches
// storage, so an access token stays usable until it expires even after logout.
func JWTAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Abort(c, err)
			return
		}

		identity, err := Authenticate(verifier, token)
		if err != nil {
			response.Abort(c, err)
			return
		}

		SetIdentity(c, identity)
		c.Next()
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrAuthHeaderMissing
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidAuthFormat
	}
	return strings.TrimSpace(parts[1]), nil
}

// Authenticate verifies an access token and returns the identity it carries.
func Authenticate(verifier TokenVerifier, token string) (Identity, error) {
	claims, err := verifier.VerifyAccessToken(token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}

func SetIdentity(c *gin.Context, identity Identity) {
	c.Set(identityKey, identity)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), identityCtxKey{}, identity))
}

// CurrentIdentity returns the identity stored by JWTAuth.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}

// RequireIdentity is CurrentIdentity for handlers mounted behind JWTAuth.
func RequireIdentity(c *gin.Context) (Identity, error) {
	identity, ok := CurrentIdentity(c)
	if !ok || identity.UserID == "" {
		return Identity{}, ErrAuthRequired
	}
	return identity, nil
}

// IdentityFromContext is CurrentIdentity for code that only sees the request
// context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(Identity)
	return identity, ok
}

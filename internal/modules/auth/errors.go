package auth

import "taskmanager/internal/pkg/apperr"

var (
	ErrUsernameTaken       = apperr.BadRequest("USERNAME_TAKEN", "Username is already taken")
	ErrUserNotFound        = apperr.NotFound("USER_NOT_FOUND", "User not found")
	ErrInvalidPassword     = apperr.BadRequest("INVALID_PASSWORD", "Password is incorrect")
	ErrRefreshTokenMissing = apperr.Unauthorized("REFRESH_TOKEN_MISSING", "Refresh token is missing")
	ErrRefreshTokenInvalid = apperr.Unauthorized("REFRESH_TOKEN_INVALID", "Refresh token is invalid or expired")
	ErrRefreshTokenRevoked = apperr.Unauthorized("REFRESH_TOKEN_REVOKED", "Refresh session is no longer active")
)

func usernameTaken(username string) error {
	return ErrUsernameTaken.WithFields(apperr.FieldError{
		Field:   "username",
		Message: "is already taken",
		Value:   username,
	})
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = BadRequest("SAMPLE", "sample failure")

func TestError_IsMatchesByCode(t *testing.T) {
	withFields := errSample.WithFields(FieldError{Field: "username", Message: "taken", Value: "alice"})

	assert.ErrorIs(t, withFields, errSample)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", withFields), errSample)
	assert.NotErrorIs(t, NotFound("OTHER", "other"), errSample)
	assert.Empty(t, errSample.Fields, "WithFields must not mutate the sentinel")
}

func TestError_Status(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("X", "x").Status())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("X", "x").Status())
	assert.Equal(t, http.StatusNotFound, NotFound("X", "x").Status())
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("boom")).Status())
}

func TestAs(t *testing.T) {
	appErr, ok := As(fmt.Errorf("ctx: %w", Unauthorized("NOPE", "nope")))
	assert.True(t, ok)
	assert.Equal(t, "NOPE", appErr.Code)

	_, ok = As(Internal(errors.New("db down")))
	assert.False(t, ok)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

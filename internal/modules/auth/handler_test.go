package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskmanager/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	f := newFixture(t)
	h := NewHandler(f.service, CookieConfig{Path: "/api/auth", SameSite: http.SameSiteLaxMode})

	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	api := router.Group("/api")
	h.RegisterPublicRoutes(api)
	h.RegisterProtectedRoutes(api.Group("", middleware.JWTAuth(newIssuer())))
	return router
}

func doJSON(router *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == RefreshCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", RefreshCookieName)
	return nil
}

func TestHandler_Registration_SetsCookie(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/registration", gin.H{
		"firstName": "Alice",
		"surname":   "Smith",
		"username":  "alice",
		"password":  "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body RegistrationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.UserID)
	assert.Equal(t, "alice", body.Username)
	assert.NotEmpty(t, body.AccessToken)
	assert.NotContains(t, w.Body.String(), "refreshToken")

	cookie := refreshCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/api/auth", cookie.Path)
	assert.Equal(t, 24*60*60, cookie.MaxAge)
	assert.NotEmpty(t, cookie.Value)
}

func TestHandler_Registration_Validation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/registration", gin.H{
		"firstName": "A",
		"surname":   "Smith",
		"username":  "al",
		"password":  "123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), `"field":"username"`)
	assert.Contains(t, w.Body.String(), `"field":"password"`)
	assert.Contains(t, w.Body.String(), `"field":"firstName"`)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/registration", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestHandler_Login_Errors(t *testing.T) {
	router := newTestRouter(t)
	doJSON(router, http.MethodPost, "/api/auth/registration", gin.H{
		"firstName": "Alice", "surname": "Smith", "username": "alice", "password": "secret1",
	})

	w := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{"username": "alice", "password": "secret2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_PASSWORD")

	w = doJSON(router, http.MethodPost, "/api/auth/login", gin.H{"username": "nobody", "password": "secret1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "USER_NOT_FOUND")
}

func TestHandler_Refresh_FailureClearsCookie(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/auth/refresh", nil, &http.Cookie{Name: RefreshCookieName, Value: "stale"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "REFRESH_TOKEN_INVALID")
	cleared := refreshCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	w = doJSON(router, http.MethodGet, "/api/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "REFRESH_TOKEN_MISSING")
}

func TestHandler_Refresh_Rotates(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(router, http.MethodPost, "/api/auth/registration", gin.H{
		"firstName": "Alice", "surname": "Smith", "username": "alice", "password": "secret1",
	})
	first := refreshCookie(t, w)

	w = doJSON(router, http.MethodGet, "/api/auth/refresh", nil, first)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "accessToken")
	second := refreshCookie(t, w)
	assert.NotEqual(t, first.Value, second.Value)

	w = doJSON(router, http.MethodGet, "/api/auth/refresh", nil, first)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "REFRESH_TOKEN_REVOKED")
}

func TestHandler_ProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/user/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

package auth

import (
	"net/http"

	"taskmanager/internal/middleware"
	"taskmanager/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// RefreshCookieName is the httpOnly cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

type CookieConfig struct {
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	cookie  CookieConfig
}

func NewHandler(service *Service, cookie CookieConfig) *Handler {
	return &Handler{service: service, cookie: cookie}
}

// Registration creates an account and starts its first session.
func (h *Handler) Registration(c *gin.Context) {
	var req RegistrationRequest
	if err := validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	sess, err := h.service.Registration(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setRefreshCookie(c, sess.Tokens.RefreshToken)
	c.JSON(http.StatusCreated, RegistrationResponse{
		UserID:      sess.User.ID,
		FirstName:   sess.User.FirstName,
		Surname:     sess.User.Surname,
		Username:    sess.User.Username,
		AccessToken: sess.Tokens.AccessToken,
	})
}

// Login replaces whatever session the user had with a new one.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	sess, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setRefreshCookie(c, sess.Tokens.RefreshToken)
	c.JSON(http.StatusOK, LoginResponse{
		UserID:      sess.User.ID,
		Username:    sess.User.Username,
		AccessToken: sess.Tokens.AccessToken,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	identity, err := middleware.RequireIdentity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Logout(c.Request.Context(), identity.UserID); err != nil {
		_ = c.Error(err)
		return
	}

	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

// Refresh rotates the refresh cookie. Any failure clears the cookie so the
// client falls back to logging in again.
func (h *Handler) Refresh(c *gin.Context) {
	presented, _ := c.Cookie(RefreshCookieName)

	tokens, err := h.service.Refresh(c.Request.Context(), presented)
	if err != nil {
		h.clearRefreshCookie(c)
		_ = c.Error(err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	c.JSON(http.StatusOK, RefreshResponse{AccessToken: tokens.AccessToken})
}

func (h *Handler) GetMe(c *gin.Context) {
	identity, err := middleware.RequireIdentity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), identity.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		Surname:   user.Surname,
		Username:  user.Username,
	})
}

func (h *Handler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(RefreshCookieName, token, int(h.service.RefreshTTL().Seconds()), h.cookie.Path, "", h.cookie.Secure, true)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(RefreshCookieName, "", -1, h.cookie.Path, "", h.cookie.Secure, true)
}

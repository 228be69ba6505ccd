package list

import (
	"net/http"

	"taskmanager/internal/middleware"
	"taskmanager/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	lists := protected.Group("/list")
	{
		lists.GET("", h.List)
		lists.POST("", h.Create)
		lists.GET("/:id", h.Get)
		lists.PATCH("/:id", h.Update)
		lists.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	identity, err := middleware.RequireIdentity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	lists, err := h.service.List(c.Request.Context(), identity.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

func (h *Handler) Create(c *gin.Context) {
	identity, err := middleware.RequireIdentity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req CreateListRequest
	if err := validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	l, err := h.service.Create(c.Request.Context(), identity.UserID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *Handler) Get(c *gin.Context) {
	identity, id, ok := target(c)
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), identity.UserID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) Update(c *gin.Context) {
	identity, id, ok := target(c)
	if !ok {
		return
	}

	var req UpdateListRequest
	if err := validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	l, err := h.service.Update(c.Request.Context(), identity.UserID, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) Delete(c *gin.Context) {
	identity, id, ok := target(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), identity.UserID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// target resolves the caller and the :id path parameter, recording an error
// on c when either is unusable.
func target(c *gin.Context) (middleware.Identity, string, bool) {
	identity, err := middleware.RequireIdentity(c)
	if err != nil {
		_ = c.Error(err)
		return middleware.Identity{}, "", false
	}

	id := c.Param("id")
	if !validator.ValidID(id) {
		_ = c.Error(validator.InvalidID("id", id))
		return middleware.Identity{}, "", false
	}
	return identity, id, true
}

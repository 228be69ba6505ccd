package task

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
	tasks := protected.Group("/task")
	{
		tasks.GET("", h.List)
		tasks.POST("", h.Create)
		tasks.GET("/:id", h.Get)
		tasks.PATCH("/:id", h.Update)
		tasks.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	identity, err := middleware.RequireIdentity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var listID *string
	if v, ok := c.GetQuery("listId"); ok {
		listID = &v
	}

	tasks, err := h.service.List(c.Request.Context(), identity.UserID, listID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) Create(c *gin.Context) {
	identity, err := middleware.RequireIdentity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req CreateTaskRequest
	if err := validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	t, err := h.service.Create(c.Request.Context(), identity.UserID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) Get(c *gin.Context) {
	identity, id, ok := target(c)
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), identity.UserID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) Update(c *gin.Context) {
	identity, id, ok := target(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	t, err := h.service.Update(c.Request.Context(), identity.UserID, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
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

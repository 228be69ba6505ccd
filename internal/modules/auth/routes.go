package auth

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/registration", h.Registration)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/refresh", h.Refresh)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.DELETE("/auth/logout", h.Logout)
	protected.GET("/user/me", h.GetMe)
}

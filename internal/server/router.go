package server

import (
	"context"
	"net/http"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/middleware"
	"taskmanager/internal/modules/auth"
	"taskmanager/internal/modules/feed"
	"taskmanager/internal/modules/list"
	"taskmanager/internal/modules/task"
	"taskmanager/internal/pkg/jwt"
	"taskmanager/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the process-wide resources the HTTP layer is built on.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Tokens auth.TokenRegistry
	Log    *zap.Logger
}

// App is the assembled HTTP surface.
type App struct {
	Router *gin.Engine
	Hub    *feed.Hub
}

// New wires every service into a gin engine. Services are created once here
// and shared by all requests.
func New(deps Deps) *App {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	issuer := jwt.New(jwt.Config{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTAccessTTL,
		RefreshTTL:    cfg.JWTRefreshTTL,
	})

	userRepo := repository.NewUserRepository(deps.DB)
	listRepo := repository.NewListRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)

	hub := feed.NewHub(deps.Log)

	authService := auth.NewService(userRepo, deps.Tokens, issuer, cfg.RefreshTokenPepper, cfg.BcryptCost, deps.Log)
	listService := list.NewService(listRepo, deps.Log)
	taskService := task.NewService(taskRepo, listRepo, hub, deps.Log)

	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Path:     cfg.CookiePath,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.SameSite(),
	})
	listHandler := list.NewHandler(listService)
	taskHandler := task.NewHandler(taskService)
	feedHandler := feed.NewHandler(hub, issuer, cfg.CORSAllowedOrigins, deps.Log)

	r := gin.New()
	r.Use(
		middleware.RequestLogger(deps.Log),
		middleware.Metrics(),
		middleware.ErrorHandler(deps.Log),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/healthz", healthz(deps.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		authHandler.RegisterPublicRoutes(api)
		// the feed authenticates itself so browsers can pass ?token=
		feedHandler.RegisterProtectedRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.JWTAuth(issuer))
		{
			authHandler.RegisterProtectedRoutes(protected)
			listHandler.RegisterProtectedRoutes(protected)
			taskHandler.RegisterProtectedRoutes(protected)
		}
	}

	return &App{Router: r, Hub: hub}
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

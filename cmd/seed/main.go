package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"taskmanager/internal/config"
	"taskmanager/internal/database"
	"taskmanager/internal/modules/auth"
	"taskmanager/internal/modules/list"
	"taskmanager/internal/modules/task"
	"taskmanager/internal/pkg/jwt"
	"taskmanager/internal/pkg/logger"
	"taskmanager/internal/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	demoUsername = "demo"
	demoPassword = "demo123"
)

// seed creates a demo account with one list and a few tasks, going through
// the same services the API uses.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	ctx := context.Background()
	issuer := jwt.New(jwt.Config{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTAccessTTL,
		RefreshTTL:    cfg.JWTRefreshTTL,
	})
	listRepo := repository.NewListRepository(db)

	authService := auth.NewService(
		repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db),
		issuer,
		cfg.RefreshTokenPepper,
		cfg.BcryptCost,
		log,
	)
	listService := list.NewService(listRepo, log)
	taskService := task.NewService(repository.NewTaskRepository(db), listRepo, nil, log)

	sess, err := authService.Registration(ctx, auth.RegistrationRequest{
		FirstName: "Demo",
		Surname:   "User",
		Username:  demoUsername,
		Password:  demoPassword,
	})
	if errors.Is(err, auth.ErrUsernameTaken) {
		log.Info("demo user already exists, nothing to do", zap.String("username", demoUsername))
		return
	}
	if err != nil {
		log.Fatal("create demo user failed", zap.Error(err))
	}
	userID := sess.User.ID

	home, err := listService.Create(ctx, userID, list.CreateListRequest{Label: "Home"})
	if err != nil {
		log.Fatal("create list failed", zap.Error(err))
	}

	note := "Milk, eggs, bread"
	seeds := []task.CreateTaskRequest{
		{Text: "Buy groceries", Note: &note, ListID: &home.ID},
		{Text: "Pay electricity bill", IsImportant: true, ListID: &home.ID},
		{Text: "Call the dentist"},
	}
	for _, req := range seeds {
		if _, err := taskService.Create(ctx, userID, req); err != nil {
			log.Fatal("create task failed", zap.Error(err))
		}
	}

	log.Info("seed completed",
		zap.String("username", demoUsername),
		zap.String("password", demoPassword),
		zap.Int("tasks", len(seeds)),
	)
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("logger: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authSvc := service.NewAuthService(userRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	taskSvc := service.NewTaskService(taskRepo, categoryRepo)

	server := web.New(cfg, userRepo, authSvc, taskSvc, categorySvc)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("taskboard started", "port", cfg.Port, "database", cfg.DatabaseURL)
	if err := server.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
	slog.Info("shutdown complete")
}

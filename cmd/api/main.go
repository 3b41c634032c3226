package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"godiv/adapters/postgres"
	"godiv/app"
	"godiv/internal/api"
	"godiv/internal/config"
	"godiv/ports"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
)

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Load()
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store ports.FitStore
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		store, err = postgres.NewFitRepository(ctx, db)
		if err != nil {
			logger.Error("repository init failed", "error", err)
			os.Exit(1)
		}
		logger.Info("report persistence enabled")
	} else {
		logger.Info("DATABASE_URL not set, persistence disabled")
	}

	service := app.NewDiversityService(logger)
	server := api.NewServer(service, store, logger)

	addr := ":" + cfg.Server.Port
	logger.Info("starting API server", "addr", addr)
	if err := server.Router().Run(addr); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

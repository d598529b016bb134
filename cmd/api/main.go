package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/pitch_booking/internal/app"
	"github.com/Freeeeeet/pitch_booking/internal/config"
	"github.com/Freeeeeet/pitch_booking/internal/httpapi"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTP API без телеграм бота
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, "api")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build application", zap.Error(err))
	}
	defer container.Close()

	router := httpapi.NewRouter(container.Bookings, container.Registry, container.Metrics, logger.Named("http"))
	if err := httpapi.NewServer(cfg.HTTPAddr, router, logger).Run(ctx); err != nil {
		logger.Error("HTTP API stopped with error", zap.Error(err))
	}
}

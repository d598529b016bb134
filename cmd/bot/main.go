package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/pitch_booking/internal/app"
	"github.com/Freeeeeet/pitch_booking/internal/config"
	"github.com/Freeeeeet/pitch_booking/internal/controller"
	"github.com/Freeeeeet/pitch_booking/internal/httpapi"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, "bot")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Sugar().Infow("Starting pitch booking bot",
		"environment", cfg.Environment,
		"timezone", cfg.Timezone,
		"token_length", len(cfg.TelegramToken))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build application", zap.Error(err))
	}
	defer container.Close()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		b,
		container.Users,
		container.Bookings,
		cfg.AdminTelegramIDs,
		container.Metrics,
		logger.Named("bot"),
	)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	// HTTP API с /metrics работает рядом с ботом
	router := httpapi.NewRouter(container.Bookings, container.Registry, container.Metrics, logger.Named("http"))
	server := httpapi.NewServer(cfg.HTTPAddr, router, logger)
	go func() {
		if err := server.Run(ctx); err != nil {
			logger.Error("HTTP API stopped", zap.Error(err))
		}
	}()

	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}
	logger.Info("👋 Bot stopped")
}

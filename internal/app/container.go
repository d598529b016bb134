package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pitch_booking/internal/config"
	"github.com/Freeeeeet/pitch_booking/internal/metrics"
	"github.com/Freeeeeet/pitch_booking/internal/repository"
	"github.com/Freeeeeet/pitch_booking/internal/repository/base"
	"github.com/Freeeeeet/pitch_booking/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Container собранные зависимости приложения
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Pool     *pgxpool.Pool
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Bookings *service.BookingService
	Users    *service.UserService
}

// Build подключается к базе, применяет миграции и собирает сервисы
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	pool, err := NewPool(ctx, cfg.DBDSN, logger)
	if err != nil {
		return nil, err
	}

	migrator, err := NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Up(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	bookingService := service.NewBookingService(
		base.NewTxManager(pool),
		repository.NewBookingRepository(pool),
		repository.NewPaymentRepository(pool),
		repository.NewPriceConfigRepository(pool),
		repository.NewFieldRepository(pool),
		cfg.Location,
		m,
		logger.Named("booking"),
	)
	userService := service.NewUserService(
		repository.NewUserRepository(pool),
		cfg.AdminTelegramIDs,
		logger.Named("user"),
	)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Pool:     pool,
		Registry: registry,
		Metrics:  m,
		Bookings: bookingService,
		Users:    userService,
	}, nil
}

// Close освобождает ресурсы
func (c *Container) Close() {
	c.Pool.Close()
}

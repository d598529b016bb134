package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Freeeeeet/pitch_booking/internal/app"
	"github.com/Freeeeeet/pitch_booking/internal/config"
	"go.uber.org/zap"
)

const usage = "usage: migrator up|down|status|version"

func main() {
	if len(os.Args) != 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, "migrator")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := app.NewPool(ctx, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer migrator.Close()

	switch os.Args[1] {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		err = migrator.Down(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "version":
		var version int64
		version, err = migrator.Version(ctx)
		if err == nil {
			logger.Info("Current migration version", zap.Int64("version", version))
		}
	default:
		fmt.Println(usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Fatal("Migration failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	defaultEnvironment    = "development"
	defaultHTTPAddr       = ":8080"
	defaultMigrationsPath = "migrations"
	defaultTimezone       = "Asia/Bangkok"
)

type Config struct {
	TelegramToken    string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN            string `mapstructure:"DB_DSN"`
	Environment      string `mapstructure:"ENV"`
	HTTPAddr         string `mapstructure:"HTTP_ADDR"`
	MigrationsPath   string `mapstructure:"MIGRATIONS_PATH"`
	Timezone         string `mapstructure:"TIMEZONE"`
	AdminTelegramIDs []int64

	// Location часовой пояс площадки, загружается из Timezone
	Location *time.Location
}

// Load читает конфигурацию из .env и переменных окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из функции чтения переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:          getenv("DB_DSN"),
		TelegramToken:  getenv("TELEGRAM_TOKEN"),
		Environment:    orDefault(getenv("ENV"), defaultEnvironment),
		HTTPAddr:       orDefault(getenv("HTTP_ADDR"), defaultHTTPAddr),
		MigrationsPath: orDefault(getenv("MIGRATIONS_PATH"), defaultMigrationsPath),
		Timezone:       orDefault(getenv("TIMEZONE"), defaultTimezone),
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	ids, err := parseIDs(getenv("ADMIN_TELEGRAM_IDS"))
	if err != nil {
		return nil, fmt.Errorf("parse ADMIN_TELEGRAM_IDS: %w", err)
	}
	cfg.AdminTelegramIDs = ids

	return cfg, nil
}

// RequireTelegram проверяет, что задан токен бота
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// parseIDs разбирает список через запятую: "1, 2,3"
func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

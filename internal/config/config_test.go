package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"DB_DSN": "postgres://localhost/pitch",
	}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, "Asia/Bangkok", cfg.Location.String())
	assert.Empty(t, cfg.AdminTelegramIDs)
	assert.False(t, cfg.IsProduction())
	assert.Error(t, cfg.RequireTelegram())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"DB_DSN":             "postgres://db/pitch",
		"TELEGRAM_TOKEN":     "123:abc",
		"ENV":                "production",
		"HTTP_ADDR":          ":9000",
		"TIMEZONE":           "UTC",
		"ADMIN_TELEGRAM_IDS": " 10, 20,,30 ",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, []int64{10, 20, 30}, cfg.AdminTelegramIDs)
	assert.NoError(t, cfg.RequireTelegram())
	assert.Equal(t, "postgres://db/pitch", cfg.GetDBDSN())
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", map[string]string{}},
		{"bad timezone", map[string]string{"DB_DSN": "x", "TIMEZONE": "Mars/Olympus"}},
		{"bad admin id", map[string]string{"DB_DSN": "x", "ADMIN_TELEGRAM_IDS": "12,abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.env))
			assert.Error(t, err)
		})
	}
}

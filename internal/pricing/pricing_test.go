package pricing

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/slot"
)

func referenceConfig() *model.PriceConfig {
	return &model.PriceConfig{
		PricePerHour:            600,
		PricePerHalfHour:        300,
		DaytimePricePerHour:     400,
		DaytimePricePerHalfHour: 200,
		DaytimeStartHour:        13,
		DaytimeEndHour:          17,
		DepositAmount:           300,
		Mode:                    model.PricingModeBanded,
	}
}

func interval(t *testing.T, startHour, startMin, endHour, endMin int) slot.TimeSlot {
	t.Helper()
	loc := time.FixedZone("ICT", 7*60*60)
	s, err := slot.New(1,
		time.Date(2024, time.January, 1, startHour, startMin, 0, 0, loc),
		time.Date(2024, time.January, 1, endHour, endMin, 0, 0, loc),
	)
	require.NoError(t, err)
	return s
}

func TestBanded_Amount(t *testing.T) {
	cfg := referenceConfig()

	tests := []struct {
		name string
		slot slot.TimeSlot
		want int64
	}{
		{"two daytime hours", interval(t, 13, 0, 15, 0), 800},
		{"daytime half hour then standard hour", interval(t, 16, 30, 18, 0), 800},
		{"one standard hour", interval(t, 18, 0, 19, 0), 600},
		{"standard hour and a half", interval(t, 18, 0, 19, 30), 900},
		{"morning hour", interval(t, 9, 0, 10, 0), 600},
		{"crosses into daytime", interval(t, 12, 0, 14, 0), 1000},
		{"crosses out of daytime", interval(t, 16, 0, 18, 0), 1000},
		{"unaligned start rounds first segment to half hour", interval(t, 13, 15, 14, 15), 400},
		{"short tail rounds up", interval(t, 18, 0, 19, 10), 900},
		{"last hour of day", interval(t, 23, 0, 23, 59), 0},
		{"below minimum", interval(t, 13, 0, 13, 30), 0},
		{"full evening", interval(t, 17, 0, 22, 0), 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Banded{Config: *cfg}.Amount(tt.slot))
		})
	}
}

func TestBanded_UsesConfiguredBand(t *testing.T) {
	cfg := referenceConfig()
	cfg.DaytimeStartHour = 8
	cfg.DaytimeEndHour = 12
	cfg.DaytimePricePerHour = 100

	assert.Equal(t, int64(200), Banded{Config: *cfg}.Amount(interval(t, 9, 0, 11, 0)))
	assert.Equal(t, int64(1200), Banded{Config: *cfg}.Amount(interval(t, 13, 0, 15, 0)))
}

func TestFlat_Amount(t *testing.T) {
	f := Flat{PerHour: 600, PerHalfHour: 300}

	assert.Equal(t, int64(600), f.Amount(interval(t, 18, 0, 19, 0)))
	assert.Equal(t, int64(900), f.Amount(interval(t, 18, 0, 19, 30)))
	assert.Equal(t, int64(1200), f.Amount(interval(t, 18, 0, 20, 0)))
	assert.Equal(t, int64(1500), f.Amount(interval(t, 18, 0, 20, 10)))
	assert.Equal(t, int64(0), f.Amount(interval(t, 18, 0, 18, 45)))
	// дневной диапазон flat не учитывает
	assert.Equal(t, int64(1200), f.Amount(interval(t, 13, 0, 15, 0)))
}

func TestForConfig(t *testing.T) {
	cfg := referenceConfig()
	assert.IsType(t, Banded{}, ForConfig(cfg))

	cfg.Mode = model.PricingModeFlat
	assert.IsType(t, Flat{}, ForConfig(cfg))
	assert.Equal(t, int64(1200), Amount(interval(t, 13, 0, 15, 0), cfg))

	cfg.Mode = ""
	assert.IsType(t, Banded{}, ForConfig(cfg))
}

func TestAmount_Deterministic(t *testing.T) {
	faker := gofakeit.New(2024)
	cfg := referenceConfig()

	for i := 0; i < 200; i++ {
		start := interval(t, faker.IntRange(6, 18), faker.RandomInt([]int{0, 15, 30}), 23, 0).Start
		s, err := slot.New(1, start, start.Add(time.Duration(faker.IntRange(2, 8))*30*time.Minute))
		require.NoError(t, err)

		first := Amount(s, cfg)
		second := Amount(s, cfg)
		require.Equal(t, first, second)
		require.Positive(t, first)
	}
}

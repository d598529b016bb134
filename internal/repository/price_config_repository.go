package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// priceConfigID тарифы хранятся одной строкой
const priceConfigID = 1

type PriceConfigRepository struct {
	*base.Repository
}

func NewPriceConfigRepository(pool *pgxpool.Pool) *PriceConfigRepository {
	return &PriceConfigRepository{Repository: base.NewRepository(pool)}
}

// Get читает текущие тарифы, nil если не настроены
func (r *PriceConfigRepository) Get(ctx context.Context) (*model.PriceConfig, error) {
	query := `
		SELECT id, price_per_hour, price_per_half_hour, daytime_price_per_hour, daytime_price_per_half_hour,
		       daytime_start_hour, daytime_end_hour, deposit_amount, mode, updated_at
		FROM price_configs
		WHERE id = $1
	`

	var cfg model.PriceConfig
	err := r.QueryRow(ctx, query, priceConfigID).Scan(
		&cfg.ID,
		&cfg.PricePerHour,
		&cfg.PricePerHalfHour,
		&cfg.DaytimePricePerHour,
		&cfg.DaytimePricePerHalfHour,
		&cfg.DaytimeStartHour,
		&cfg.DaytimeEndHour,
		&cfg.DepositAmount,
		&cfg.Mode,
		&cfg.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price config: %w", err)
	}

	return &cfg, nil
}

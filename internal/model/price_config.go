package model

import "time"

type PricingMode string

const (
	PricingModeBanded PricingMode = "banded" // Дневной тариф + стандартный
	PricingModeFlat   PricingMode = "flat"   // Только по длительности
)

// PriceConfig тарифы площадки, одна запись
type PriceConfig struct {
	ID                      int64       `json:"id"`
	PricePerHour            int64       `json:"price_per_hour"`
	PricePerHalfHour        int64       `json:"price_per_half_hour"`
	DaytimePricePerHour     int64       `json:"daytime_price_per_hour"`
	DaytimePricePerHalfHour int64       `json:"daytime_price_per_half_hour"`
	DaytimeStartHour        int         `json:"daytime_start_hour"` // включительно
	DaytimeEndHour          int         `json:"daytime_end_hour"`   // не включительно
	DepositAmount           int64       `json:"deposit_amount"`
	Mode                    PricingMode `json:"mode"`
	UpdatedAt               time.Time   `json:"updated_at"`
}

// IsDaytime проверяет попадает ли час в дневной тариф
func (c *PriceConfig) IsDaytime(hour int) bool {
	return hour >= c.DaytimeStartHour && hour < c.DaytimeEndHour
}

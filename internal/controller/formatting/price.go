package formatting

import (
	"fmt"
	"strconv"

	"github.com/Freeeeeet/pitch_booking/internal/model"
)

// Currency знак валюты в сообщениях
const Currency = "฿"

// FormatAmount форматирует сумму в целых единицах с разделителем тысяч: 12 500 ฿
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[i])
	}
	return sign + string(out) + " " + Currency
}

// FormatPriceConfig описание тарифов для /price
func FormatPriceConfig(cfg *model.PriceConfig) string {
	if cfg.Mode == model.PricingModeFlat {
		return fmt.Sprintf("💰 Тарифы\n\n"+
			"⏱ Час: %s\n"+
			"⏱ Полчаса: %s\n\n"+
			"Минимальная бронь: 1 час\n"+
			"💳 Предоплата: %s",
			FormatAmount(cfg.PricePerHour),
			FormatAmount(cfg.PricePerHalfHour),
			FormatAmount(cfg.DepositAmount),
		)
	}

	return fmt.Sprintf("💰 Тарифы\n\n"+
		"☀️ Днём %02d:00–%02d:00\n"+
		"   час: %s, полчаса: %s\n"+
		"🌙 В остальное время\n"+
		"   час: %s, полчаса: %s\n\n"+
		"Тариф считается по каждому часу отдельно.\n"+
		"Минимальная бронь: 1 час\n"+
		"💳 Предоплата: %s",
		cfg.DaytimeStartHour, cfg.DaytimeEndHour,
		FormatAmount(cfg.DaytimePricePerHour), FormatAmount(cfg.DaytimePricePerHalfHour),
		FormatAmount(cfg.PricePerHour), FormatAmount(cfg.PricePerHalfHour),
		FormatAmount(cfg.DepositAmount),
	)
}

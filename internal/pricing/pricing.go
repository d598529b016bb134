// Package pricing считает стоимость брони поля.
//
// Это единственное место, где живёт формула цены: её используют сервис бронирований,
// предпросмотр цены в боте и HTTP эндпоинт /price.
package pricing

import (
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/slot"
)

// MinDuration минимальная длительность брони
const MinDuration = 60 * time.Minute

// Calculator считает сумму за слот
type Calculator interface {
	Amount(s slot.TimeSlot) int64
}

// ForConfig возвращает калькулятор по режиму из конфига.
// Неизвестный или пустой режим трактуется как banded.
func ForConfig(cfg *model.PriceConfig) Calculator {
	if cfg.Mode == model.PricingModeFlat {
		return Flat{PerHour: cfg.PricePerHour, PerHalfHour: cfg.PricePerHalfHour}
	}
	return Banded{Config: *cfg}
}

// Amount удобная обёртка: калькулятор по конфигу + расчёт
func Amount(s slot.TimeSlot, cfg *model.PriceConfig) int64 {
	return ForConfig(cfg).Amount(s)
}

// Banded тарифицирует по отрезкам, выровненным по началу часа.
// Ставка отрезка определяется часом его начала: дневной диапазон дешевле.
type Banded struct {
	Config model.PriceConfig
}

func (b Banded) Amount(s slot.TimeSlot) int64 {
	if s.Duration() < MinDuration {
		return 0
	}

	var total int64
	cursor := s.Start
	for cursor.Before(s.End) {
		segmentEnd := nextHour(cursor)
		if segmentEnd.After(s.End) {
			segmentEnd = s.End
		}

		perHour, perHalfHour := b.rates(cursor.Hour())
		if segmentEnd.Sub(cursor) >= time.Hour {
			total += perHour
		} else {
			// меньше получаса округляется вверх до получаса
			total += perHalfHour
		}

		cursor = segmentEnd
	}

	return total
}

func (b Banded) rates(hour int) (perHour, perHalfHour int64) {
	if b.Config.IsDaytime(hour) {
		return b.Config.DaytimePricePerHour, b.Config.DaytimePricePerHalfHour
	}
	return b.Config.PricePerHour, b.Config.PricePerHalfHour
}

// nextHour ближайшее начало часа строго после t в локации t
func nextHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, t.Location())
}

// Flat считает только по длительности: полные часы плюс полчаса за любой остаток.
type Flat struct {
	PerHour     int64
	PerHalfHour int64
}

func (f Flat) Amount(s slot.TimeSlot) int64 {
	if s.Duration() < MinDuration {
		return 0
	}

	minutes := int64(s.Minutes())
	total := minutes / 60 * f.PerHour
	if minutes%60 > 0 {
		total += f.PerHalfHour
	}
	return total
}

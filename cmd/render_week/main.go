package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/controller/render"
	"github.com/Freeeeeet/pitch_booking/internal/model"
)

// Рисует тестовую неделю с бронями в week.png
func main() {
	now := time.Now()
	startDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Начинаем с понедельника текущей недели
	for startDate.Weekday() != time.Monday {
		startDate = startDate.AddDate(0, 0, -1)
	}

	at := func(day, hour, minute int) time.Time {
		return startDate.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}

	bookings := []*model.Booking{
		// Понедельник
		{ID: 1, UserID: 100, StartTime: at(0, 9, 0), EndTime: at(0, 10, 30), Status: model.BookingStatusPaid},
		{ID: 2, UserID: 200, StartTime: at(0, 18, 0), EndTime: at(0, 20, 0), Status: model.BookingStatusPending},
		// Среда
		{ID: 3, UserID: 100, StartTime: at(2, 16, 30), EndTime: at(2, 17, 30), Status: model.BookingStatusPendingConfirmation},
		// Пятница
		{ID: 4, UserID: 300, StartTime: at(4, 20, 0), EndTime: at(5, 0, 0), Status: model.BookingStatusPaid},
		// Суббота, отменённая не рисуется
		{ID: 5, UserID: 200, StartTime: at(5, 11, 0), EndTime: at(5, 12, 0), Status: model.BookingStatusCancelled},
	}

	imageData, err := render.WeekImage(render.Week{
		FieldName: "Поле 1",
		Date:      startDate,
		Bookings:  bookings,
		Names:     map[int64]string{100: "Иван", 200: "@striker", 300: "Команда Б"},
		Prices: &model.PriceConfig{
			PricePerHour:        800,
			DaytimePricePerHour: 600,
			DaytimeStartHour:    8,
			DaytimeEndHour:      17,
			Mode:                model.PricingModeBanded,
		},
		Now: now,
	})
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	// Сохраняем в файл
	filename := "week.png"
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", filename)
	fmt.Printf("📅 Неделя с %s\n", startDate.Format("02.01.2006"))
	fmt.Printf("📊 Броней: %d\n", len(bookings))
}

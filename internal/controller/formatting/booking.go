package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/pitch_booking/internal/model"
)

// FormatBooking карточка брони для сообщений
func FormatBooking(booking *model.Booking, fieldName string) string {
	display := GetBookingStatusDisplay(booking.Status)
	if fieldName == "" {
		fieldName = fmt.Sprintf("Поле #%d", booking.FieldID)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Бронь #%d\n\n", display.Emoji, booking.ID)
	fmt.Fprintf(&sb, "⚽️ %s\n", fieldName)
	fmt.Fprintf(&sb, "📅 %s\n", FormatDateWithWeekday(booking.StartTime))
	fmt.Fprintf(&sb, "🕐 %s (%s)\n", FormatTimeRange(booking.StartTime, booking.EndTime),
		FormatDuration(int(booking.EndTime.Sub(booking.StartTime).Minutes())))
	fmt.Fprintf(&sb, "💰 %s\n", FormatAmount(booking.TotalAmount))
	fmt.Fprintf(&sb, "📊 Статус: %s", display.Text)

	return sb.String()
}

// FormatDaySchedule занятые интервалы поля за день
func FormatDaySchedule(bookings []*model.Booking) string {
	if len(bookings) == 0 {
		return "🟢 Весь день свободен"
	}

	var sb strings.Builder
	sb.WriteString("Уже занято:\n")
	for _, b := range bookings {
		fmt.Fprintf(&sb, "🔴 %s\n", FormatTimeRange(b.StartTime, b.EndTime))
	}
	return strings.TrimRight(sb.String(), "\n")
}

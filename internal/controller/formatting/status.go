package formatting

import "github.com/Freeeeeet/pitch_booking/internal/model"

// BookingStatusDisplay представляет отображение статуса бронирования
type BookingStatusDisplay struct {
	Emoji string
	Text  string
}

// GetBookingStatusDisplay возвращает emoji и текст для статуса бронирования
func GetBookingStatusDisplay(status model.BookingStatus) BookingStatusDisplay {
	displays := map[model.BookingStatus]BookingStatusDisplay{
		model.BookingStatusPending:             {"⏳", "Ожидает оплаты"},
		model.BookingStatusPendingConfirmation: {"🧾", "Чек на проверке"},
		model.BookingStatusPaid:                {"✅", "Оплачено"},
		model.BookingStatusCancelled:           {"❌", "Отменено"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return BookingStatusDisplay{"❓", "Неизвестно"}
}

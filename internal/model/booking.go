package model

import "time"

type BookingStatus string

const (
	BookingStatusPending             BookingStatus = "pending"              // Ожидает оплаты
	BookingStatusPendingConfirmation BookingStatus = "pending_confirmation" // Чек загружен, ждёт проверки
	BookingStatusPaid                BookingStatus = "paid"                 // Оплачено
	BookingStatusCancelled           BookingStatus = "cancelled"            // Отменено
)

// bookingTransitions допустимые переходы статусов брони
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending: {
		BookingStatusPaid,
		BookingStatusPendingConfirmation,
		BookingStatusCancelled,
	},
	BookingStatusPendingConfirmation: {
		BookingStatusPaid,
		BookingStatusPending,
		BookingStatusCancelled,
	},
}

// Valid проверяет что статус известен
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusPendingConfirmation, BookingStatusPaid, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода из s в next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	FieldID     int64         `json:"field_id"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Status      BookingStatus `json:"status"`
	TotalAmount int64         `json:"total_amount"`
	// ManualAmount сумма задана вручную, пересчёт тарифов её не трогает
	ManualAmount bool      `json:"manual_amount"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Field    *Field     `json:"field,omitempty"`
	Payments []*Payment `json:"payments,omitempty"`
}

// IsPaid true если бронь оплачена
func (b *Booking) IsPaid() bool {
	return b.Status == BookingStatusPaid
}

// IsActive true если бронь занимает время на поле
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}

package model

import "time"

type PaymentType string

const (
	PaymentTypeDeposit PaymentType = "deposit" // Предоплата
	PaymentTypeFull    PaymentType = "full"    // Полная оплата
)

// Valid проверяет что тип оплаты известен
func (t PaymentType) Valid() bool {
	return t == PaymentTypeDeposit || t == PaymentTypeFull
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodTransfer
}

// Payment запись об оплате брони, только добавляется
type Payment struct {
	ID        int64         `json:"id"`
	BookingID int64         `json:"booking_id"`
	Type      PaymentType   `json:"type"`
	Method    PaymentMethod `json:"method"`
	ProofURL  string        `json:"proof_url,omitempty"`
	Amount    int64         `json:"amount"`
	CreatedAt time.Time     `json:"created_at"`
}

package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния диалога бронирования: поле -> дата -> время -> подтверждение
	StateBookDate    UserState = "book_date"
	StateBookTime    UserState = "book_time"
	StateBookConfirm UserState = "book_confirm"

	// Ожидаем ссылку на чек перевода
	StateProofURL UserState = "proof_url"

	// Ожидаем период выгрузки (admin)
	StateExportRange UserState = "export_range"
)

// Ключи временных данных диалога
const (
	KeyFieldID   = "field_id"
	KeyDate      = "date"
	KeyStart     = "start"
	KeyEnd       = "end"
	KeyBookingID = "booking_id"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]any // Временные данные для текущего диалога
}

package service

import "errors"

// Классы ошибок сервиса. Детали добавляются через fmt.Errorf("%w: ...", ErrX),
// транспортный слой классифицирует их через errors.Is.
// Всё, что не обёрнуто в эти ошибки, считается внутренней ошибкой.
var (
	ErrValidation = errors.New("validation failed")
	ErrSlotTaken  = errors.New("slot already booked")
	ErrForbidden  = errors.New("permission denied")
	ErrNotFound   = errors.New("not found")
)

// IsUserError true для ошибок, текст которых можно показать пользователю
func IsUserError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrSlotTaken) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound)
}

// outcome метка исхода операции для метрик
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrSlotTaken):
		return "conflict"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "error"
}

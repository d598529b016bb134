package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrBookingOverlap срабатывает exclusion constraint bookings_no_overlap
	ErrBookingOverlap = errors.New("booking overlaps existing booking")
	// ErrNotFound запись для UPDATE/DELETE не найдена
	ErrNotFound = errors.New("record not found")
	// ErrStatusChanged условное обновление статуса не нашло строку в ожидаемом статусе
	ErrStatusChanged = errors.New("booking status changed")
	// ErrCheckViolation значение не прошло CHECK в схеме
	ErrCheckViolation = errors.New("value violates check constraint")
)

const (
	pgExclusionViolation  = "23P01"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapPgError переводит коды ошибок postgres в ошибки репозитория
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgExclusionViolation:
		return ErrBookingOverlap
	case pgForeignKeyViolation:
		return ErrNotFound
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", ErrCheckViolation, pgErr.ConstraintName)
	}
	return err
}

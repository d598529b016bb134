package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, user_id, field_id, start_time, end_time, status, total_amount, manual_amount, created_at, updated_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.FieldID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.TotalAmount,
		&booking.ManualAmount,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (user_id, field_id, start_time, end_time, status, total_amount, manual_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.UserID,
		booking.FieldID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.TotalAmount,
		booking.ManualAmount,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", mapPgError(err))
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// GetByIDForUpdate читает бронь с блокировкой строки до конца транзакции.
// Вне транзакции блокировка снимается сразу.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock booking: %w", err)
	}

	return booking, nil
}

// FindByField возвращает не отменённые брони поля, начинающиеся в [from, to)
func (r *BookingRepository) FindByField(ctx context.Context, fieldID int64, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE field_id = $1
		  AND status <> 'cancelled'
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, fieldID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get bookings by field: %w", err)
	}

	return collectBookings(rows)
}

// ListByUser получает все бронирования пользователя
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY start_time DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by user: %w", err)
	}

	return collectBookings(rows)
}

// ListRange все брони всех полей, начинающиеся в [from, to)
func (r *BookingRepository) ListRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY field_id, start_time
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get bookings in range: %w", err)
	}

	return collectBookings(rows)
}

// ListUnpaid не отменённые и не оплаченные брони, для пересчёта сумм.
// В транзакции строки блокируются до её конца, оплаченные за это время отсеиваются.
func (r *BookingRepository) ListUnpaid(ctx context.Context) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status IN ('pending', 'pending_confirmation')
		ORDER BY id
		FOR UPDATE
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get unpaid bookings: %w", err)
	}

	return collectBookings(rows)
}

// Update сохраняет интервал, статус и сумму брони
func (r *BookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET field_id = $1, start_time = $2, end_time = $3, status = $4,
		    total_amount = $5, manual_amount = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.FieldID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.TotalAmount,
		booking.ManualAmount,
		booking.ID,
	).Scan(&booking.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update booking: %w", ErrNotFound)
		}
		return fmt.Errorf("update booking: %w", mapPgError(err))
	}

	return nil
}

// UpdateStatus переводит бронь из статуса from в to.
// ErrStatusChanged если брони нет или её статус уже не from.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to model.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	affected, err := r.ExecAffected(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("update booking status: %w", mapPgError(err))
	}

	if affected == 0 {
		return fmt.Errorf("update booking status: %w", ErrStatusChanged)
	}

	return nil
}

// UpdateAmount обновляет сумму бронирования
func (r *BookingRepository) UpdateAmount(ctx context.Context, id int64, amount int64) error {
	query := `UPDATE bookings SET total_amount = $1, updated_at = NOW() WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("update booking amount: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update booking amount: %w", ErrNotFound)
	}

	return nil
}

// Delete удаляет бронирование
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete booking: %w", ErrNotFound)
	}

	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	*base.Repository
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{Repository: base.NewRepository(pool)}
}

// Create добавляет запись об оплате
func (r *PaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (booking_id, type, method, proof_url, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		payment.BookingID,
		payment.Type,
		payment.Method,
		payment.ProofURL,
		payment.Amount,
	).Scan(&payment.ID, &payment.CreatedAt)

	if err != nil {
		return fmt.Errorf("create payment: %w", mapPgError(err))
	}

	return nil
}

// ListByBooking все оплаты брони в порядке поступления
func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]*model.Payment, error) {
	query := `
		SELECT id, booking_id, type, method, proof_url, amount, created_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get payments by booking: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		var payment model.Payment
		err := rows.Scan(
			&payment.ID,
			&payment.BookingID,
			&payment.Type,
			&payment.Method,
			&payment.ProofURL,
			&payment.Amount,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, &payment)
	}

	return payments, rows.Err()
}

// DeleteByBooking удаляет все оплаты брони, возвращает количество
func (r *PaymentRepository) DeleteByBooking(ctx context.Context, bookingID int64) (int64, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM payments WHERE booking_id = $1`, bookingID)
	if err != nil {
		return 0, fmt.Errorf("delete payments: %w", err)
	}
	return affected, nil
}

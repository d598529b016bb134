package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FieldRepository struct {
	*base.Repository
}

func NewFieldRepository(pool *pgxpool.Pool) *FieldRepository {
	return &FieldRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает поле по ID
func (r *FieldRepository) GetByID(ctx context.Context, id int64) (*model.Field, error) {
	query := `SELECT id, name, is_active, created_at FROM fields WHERE id = $1`

	var field model.Field
	err := r.QueryRow(ctx, query, id).Scan(&field.ID, &field.Name, &field.IsActive, &field.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get field by id: %w", err)
	}

	return &field, nil
}

// List все поля по порядку
func (r *FieldRepository) List(ctx context.Context) ([]*model.Field, error) {
	rows, err := r.Query(ctx, `SELECT id, name, is_active, created_at FROM fields ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	defer rows.Close()

	var fields []*model.Field
	for rows.Next() {
		var field model.Field
		if err := rows.Scan(&field.ID, &field.Name, &field.IsActive, &field.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		fields = append(fields, &field)
	}

	return fields, rows.Err()
}

// LockForUpdate блокирует строку поля до конца транзакции.
// Так создание и перенос броней одного поля выполняются по очереди.
func (r *FieldRepository) LockForUpdate(ctx context.Context, id int64) error {
	var locked int64
	err := r.QueryRow(ctx, `SELECT id FROM fields WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("lock field: %w", ErrNotFound)
		}
		return fmt.Errorf("lock field: %w", err)
	}
	return nil
}

package repository

import (
	"context"

	"go-cinema-booking/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ComboRepository interface {
	List(ctx context.Context) ([]*model.Combo, error)
	FindActiveByIDs(ctx context.Context, ids []int) ([]*model.Combo, error)
}

type ComboRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewComboRepository(pool *pgxpool.Pool) ComboRepository {
	return &ComboRepositoryImpl{
		pool: pool,
	}
}

func (r *ComboRepositoryImpl) List(ctx context.Context) ([]*model.Combo, error) {
	query := `
		SELECT id, name, price_cents, is_active, created_at, updated_at
		FROM combos
		WHERE is_active
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	combos := make([]*model.Combo, 0)

	for rows.Next() {
		var c model.Combo
		err := rows.Scan(&c.ID, &c.Name, &c.PriceCents, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		combos = append(combos, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return combos, nil
}

func (r *ComboRepositoryImpl) FindActiveByIDs(ctx context.Context, ids []int) ([]*model.Combo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, price_cents, is_active, created_at, updated_at
		FROM combos
		WHERE id = ANY($1) AND is_active
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	combos := make([]*model.Combo, 0)

	for rows.Next() {
		var c model.Combo
		err := rows.Scan(&c.ID, &c.Name, &c.PriceCents, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		combos = append(combos, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return combos, nil
}

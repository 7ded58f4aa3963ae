package repository

import (
	"context"

	"go-cinema-booking/internal/model"
	apperrors "go-cinema-booking/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PromotionRepository interface {
	FindByCode(ctx context.Context, code string) (*model.Promotion, error)

	// Transaction methods
	// IncrementUsage 在使用上限內累加使用次數；超過上限時回傳 ErrPromotionExhausted
	IncrementUsage(ctx context.Context, tx pgx.Tx, id int) error
}

type PromotionRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewPromotionRepository(pool *pgxpool.Pool) PromotionRepository {
	return &PromotionRepositoryImpl{
		pool: pool,
	}
}

func (r *PromotionRepositoryImpl) FindByCode(ctx context.Context, code string) (*model.Promotion, error) {
	query := `
		SELECT id, code, name, discount_percent, starts_at, ends_at,
		       is_active, min_amount_cents, max_usage, usage_count,
		       created_at, updated_at
		FROM promotions
		WHERE code = $1
	`

	var p model.Promotion
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.DiscountPercent,
		&p.StartsAt,
		&p.EndsAt,
		&p.IsActive,
		&p.MinAmountCents,
		&p.MaxUsage,
		&p.UsageCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrPromotionNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PromotionRepositoryImpl) IncrementUsage(ctx context.Context, tx pgx.Tx, id int) error {
	query := `
		UPDATE promotions
		SET usage_count = usage_count + 1, updated_at = now()
		WHERE id = $1 AND (max_usage = 0 OR usage_count < max_usage)
	`

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPromotionExhausted
	}

	return nil
}

package repository

import (
	"context"

	"go-cinema-booking/internal/model"
	apperrors "go-cinema-booking/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ShowtimeRepository interface {
	List(ctx context.Context) ([]*model.Showtime, error)
	FindByID(ctx context.Context, id int) (*model.Showtime, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, showtime *model.Showtime) (*model.Showtime, error)
}

type ShowtimeRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewShowtimeRepository(pool *pgxpool.Pool) ShowtimeRepository {
	return &ShowtimeRepositoryImpl{
		pool: pool,
	}
}

const showtimeColumns = `id, movie_title, auditorium, starts_at, base_price_cents,
		rows, cols, created_at, updated_at`

func scanShowtime(row pgx.Row) (*model.Showtime, error) {
	var st model.Showtime
	err := row.Scan(
		&st.ID,
		&st.MovieTitle,
		&st.Auditorium,
		&st.StartsAt,
		&st.BasePriceCents,
		&st.Rows,
		&st.Cols,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *ShowtimeRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, showtime *model.Showtime) (*model.Showtime, error) {
	query := `
		INSERT INTO showtimes (movie_title, auditorium, starts_at, base_price_cents, rows, cols)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + showtimeColumns

	return scanShowtime(tx.QueryRow(ctx, query,
		showtime.MovieTitle, showtime.Auditorium, showtime.StartsAt,
		showtime.BasePriceCents, showtime.Rows, showtime.Cols,
	))
}

func (r *ShowtimeRepositoryImpl) List(ctx context.Context) ([]*model.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		ORDER BY starts_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	showtimes := make([]*model.Showtime, 0)

	for rows.Next() {
		st, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		showtimes = append(showtimes, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return showtimes, nil
}

func (r *ShowtimeRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE id = $1
	`

	showtime, err := scanShowtime(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrShowtimeNotFound
		}
		return nil, err
	}

	return showtime, nil
}

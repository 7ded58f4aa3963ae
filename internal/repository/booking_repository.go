package repository

import (
	"context"
	"fmt"
	"time"

	"go-cinema-booking/internal/model"
	apperrors "go-cinema-booking/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id int) (*model.Booking, error)
	ListCombos(ctx context.Context, bookingID int) ([]*model.BookingCombo, error)
	// FindPendingByIDs 回傳候選編號中仍為 PENDING 的訂單，用於付款對帳
	FindPendingByIDs(ctx context.Context, ids []int) ([]*model.Booking, error)
	// FindPaidByIDs 供 webhook 重放判斷：已 PAID 的同額通知視為冪等成功
	FindPaidByIDs(ctx context.Context, ids []int) ([]*model.Booking, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, error)
	CreateCombos(ctx context.Context, tx pgx.Tx, combos []*model.BookingCombo) error
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Booking, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.BookingStatus) (*model.Booking, error)
	ListExpiredPendingForUpdate(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]*model.Booking, error)
}

type BookingRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &BookingRepositoryImpl{
		pool: pool,
	}
}

const bookingColumns = `id, booking_code, user_id, showtime_id, subtotal_cents,
		discount_cents, total_cents, promotion_id, status, expires_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.BookingCode,
		&b.UserID,
		&b.ShowtimeID,
		&b.SubtotalCents,
		&b.DiscountCents,
		&b.TotalCents,
		&b.PromotionID,
		&b.Status,
		&b.ExpiresAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, error) {
	query := `
		INSERT INTO bookings (
			booking_code, user_id, showtime_id, subtotal_cents,
			discount_cents, total_cents, promotion_id, status, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + bookingColumns

	created, err := scanBooking(tx.QueryRow(ctx, query,
		booking.BookingCode, booking.UserID, booking.ShowtimeID, booking.SubtotalCents,
		booking.DiscountCents, booking.TotalCents, booking.PromotionID, booking.Status, booking.ExpiresAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return created, nil
}

func (r *BookingRepositoryImpl) CreateCombos(ctx context.Context, tx pgx.Tx, combos []*model.BookingCombo) error {
	if len(combos) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(combos))
	for _, c := range combos {
		rows = append(rows, []interface{}{c.BookingID, c.ComboID, c.Quantity, c.UnitPriceCents})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"booking_combos"},
		[]string{"booking_id", "combo_id", "quantity", "unit_price_cents"},
		pgx.CopyFromRows(rows),
	)
	return err
}

func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) ListCombos(ctx context.Context, bookingID int) ([]*model.BookingCombo, error) {
	query := `
		SELECT id, booking_id, combo_id, quantity, unit_price_cents
		FROM booking_combos
		WHERE booking_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	combos := make([]*model.BookingCombo, 0)

	for rows.Next() {
		var c model.BookingCombo
		err := rows.Scan(&c.ID, &c.BookingID, &c.ComboID, &c.Quantity, &c.UnitPriceCents)
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

func (r *BookingRepositoryImpl) FindPendingByIDs(ctx context.Context, ids []int) ([]*model.Booking, error) {
	return r.findByIDsWithStatus(ctx, ids, model.BookingStatusPending)
}

func (r *BookingRepositoryImpl) FindPaidByIDs(ctx context.Context, ids []int) ([]*model.Booking, error) {
	return r.findByIDsWithStatus(ctx, ids, model.BookingStatusPaid)
}

func (r *BookingRepositoryImpl) findByIDsWithStatus(ctx context.Context, ids []int, status model.BookingStatus) ([]*model.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = ANY($1) AND status = $2
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ids, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	booking, err := scanBooking(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.BookingStatus) (*model.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + bookingColumns

	booking, err := scanBooking(tx.QueryRow(ctx, query, status, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return booking, nil
}

// ListExpiredPendingForUpdate 鎖定逾期的 PENDING 訂單供清掃；
// SKIP LOCKED 讓多個清掃者可以並行而不互相等待。
func (r *BookingRepositoryImpl) ListExpiredPendingForUpdate(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED
	`

	rows, err := tx.Query(ctx, query, model.BookingStatusPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

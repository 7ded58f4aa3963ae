package repository

import (
	"context"
	"time"

	"go-cinema-booking/internal/model"
	apperrors "go-cinema-booking/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeatRepository 是座位帳本：所有狀態轉換都是條件式 UPDATE，
// 以 RowsAffected 判斷整組成功或整組失敗，不做先讀後寫。
type SeatRepository interface {
	CreateBulk(ctx context.Context, tx pgx.Tx, seats []*model.Seat) error
	ListByShowtime(ctx context.Context, showtimeID int) ([]*model.Seat, error)
	CountByIDs(ctx context.Context, showtimeID int, seatIDs []int) (int, error)

	// TryHold 將整組座位轉為 HELD。任一座位不可用則全組失敗。
	// 同一使用者重複保留視為刷新到期時間。
	TryHold(ctx context.Context, showtimeID int, seatIDs []int, userID int, expiresAt time.Time) error
	// Release 只釋放該使用者自己持有的保留，冪等。
	Release(ctx context.Context, showtimeID int, seatIDs []int, userID int) error

	ListByBooking(ctx context.Context, bookingID int) ([]*model.Seat, error)

	// Transaction methods
	// ListByIDsForUpdate 以固定順序（id 升冪）鎖定座位列，避免交叉死鎖
	ListByIDsForUpdate(ctx context.Context, tx pgx.Tx, showtimeID int, seatIDs []int) ([]*model.Seat, error)
	TryClaim(ctx context.Context, tx pgx.Tx, showtimeID int, seatIDs []int, userID int, bookingID int) error
	ListByBookingTx(ctx context.Context, tx pgx.Tx, bookingID int) ([]*model.Seat, error)
	ReleaseByBooking(ctx context.Context, tx pgx.Tx, bookingID int) error
}

type SeatRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSeatRepository(pool *pgxpool.Pool) SeatRepository {
	return &SeatRepositoryImpl{
		pool: pool,
	}
}

const seatColumns = `id, showtime_id, row_label, number, class, price_cents,
		status, held_by, hold_expires_at, booking_id, created_at, updated_at`

func scanSeat(row pgx.Row) (*model.Seat, error) {
	var seat model.Seat
	err := row.Scan(
		&seat.ID,
		&seat.ShowtimeID,
		&seat.RowLabel,
		&seat.Number,
		&seat.Class,
		&seat.PriceCents,
		&seat.Status,
		&seat.HeldBy,
		&seat.HoldExpiresAt,
		&seat.BookingID,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *SeatRepositoryImpl) CreateBulk(ctx context.Context, tx pgx.Tx, seats []*model.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(seats))
	for _, s := range seats {
		rows = append(rows, []interface{}{
			s.ShowtimeID, s.RowLabel, s.Number, s.Class, s.PriceCents, model.SeatStatusFree,
		})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"seats"},
		[]string{"showtime_id", "row_label", "number", "class", "price_cents", "status"},
		pgx.CopyFromRows(rows),
	)
	return err
}

func (r *SeatRepositoryImpl) ListByShowtime(ctx context.Context, showtimeID int) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE showtime_id = $1
		ORDER BY row_label, number
	`

	rows, err := r.pool.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]*model.Seat, 0)

	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (r *SeatRepositoryImpl) CountByIDs(ctx context.Context, showtimeID int, seatIDs []int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM seats
		WHERE showtime_id = $1 AND id = ANY($2)
	`

	var count int
	err := r.pool.QueryRow(ctx, query, showtimeID, seatIDs).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *SeatRepositoryImpl) TryHold(ctx context.Context, showtimeID int, seatIDs []int, userID int, expiresAt time.Time) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	// 逾期的 HELD 視同 FREE；同一使用者的有效保留可刷新
	query := `
		UPDATE seats
		SET status = $1, held_by = $2, hold_expires_at = $3, updated_at = $4
		WHERE showtime_id = $5
		  AND id = ANY($6)
		  AND booking_id IS NULL
		  AND (status = $7
		       OR (status = $1 AND (held_by = $2 OR hold_expires_at < $4)))
	`

	result, err := tx.Exec(ctx, query,
		model.SeatStatusHeld, userID, expiresAt, now,
		showtimeID, seatIDs, model.SeatStatusFree,
	)
	if err != nil {
		return err
	}

	if int(result.RowsAffected()) != len(seatIDs) {
		return apperrors.ErrSeatConflict
	}

	return tx.Commit(ctx)
}

func (r *SeatRepositoryImpl) Release(ctx context.Context, showtimeID int, seatIDs []int, userID int) error {
	query := `
		UPDATE seats
		SET status = $1, held_by = NULL, hold_expires_at = NULL, updated_at = $2
		WHERE showtime_id = $3
		  AND id = ANY($4)
		  AND status = $5
		  AND held_by = $6
	`

	_, err := r.pool.Exec(ctx, query,
		model.SeatStatusFree, time.Now().UTC(),
		showtimeID, seatIDs, model.SeatStatusHeld, userID,
	)
	return err
}

func (r *SeatRepositoryImpl) TryClaim(ctx context.Context, tx pgx.Tx, showtimeID int, seatIDs []int, userID int, bookingID int) error {
	now := time.Now().UTC()

	query := `
		UPDATE seats
		SET status = $1, booking_id = $2, held_by = NULL, hold_expires_at = NULL, updated_at = $3
		WHERE showtime_id = $4
		  AND id = ANY($5)
		  AND (status = $6
		       OR (status = $7 AND (held_by = $8 OR hold_expires_at < $3)))
	`

	result, err := tx.Exec(ctx, query,
		model.SeatStatusSold, bookingID, now,
		showtimeID, seatIDs,
		model.SeatStatusFree, model.SeatStatusHeld, userID,
	)
	if err != nil {
		return err
	}

	if int(result.RowsAffected()) != len(seatIDs) {
		return apperrors.ErrSeatConflict
	}

	return nil
}

func (r *SeatRepositoryImpl) ListByIDsForUpdate(ctx context.Context, tx pgx.Tx, showtimeID int, seatIDs []int) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE showtime_id = $1 AND id = ANY($2)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]*model.Seat, 0, len(seatIDs))

	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (r *SeatRepositoryImpl) ListByBooking(ctx context.Context, bookingID int) ([]*model.Seat, error) {
	return r.listByBooking(ctx, r.pool, bookingID)
}

func (r *SeatRepositoryImpl) ListByBookingTx(ctx context.Context, tx pgx.Tx, bookingID int) ([]*model.Seat, error) {
	return r.listByBooking(ctx, tx, bookingID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *SeatRepositoryImpl) listByBooking(ctx context.Context, q querier, bookingID int) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE booking_id = $1
		ORDER BY row_label, number
	`

	rows, err := q.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]*model.Seat, 0)

	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (r *SeatRepositoryImpl) ReleaseByBooking(ctx context.Context, tx pgx.Tx, bookingID int) error {
	query := `
		UPDATE seats
		SET status = $1, booking_id = NULL, held_by = NULL, hold_expires_at = NULL, updated_at = $2
		WHERE booking_id = $3 AND status = $4
	`

	_, err := tx.Exec(ctx, query,
		model.SeatStatusFree, time.Now().UTC(), bookingID, model.SeatStatusSold,
	)
	return err
}

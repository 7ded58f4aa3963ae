package repository

import (
	"context"
	"time"

	"go-cinema-booking/internal/model"
	apperrors "go-cinema-booking/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	FindDetailByID(ctx context.Context, id int) (*model.TicketDetail, error)
	ListByBooking(ctx context.Context, bookingID int) ([]*model.Ticket, error)
	// CheckIn 以條件式 UPDATE 執行一次性的 ISSUED → CHECKED_IN 轉換。
	// 回傳 false 表示票已被其他掃描搶先核銷。
	CheckIn(ctx context.Context, id int, now time.Time) (bool, error)

	// Transaction methods
	CreateBatch(ctx context.Context, tx pgx.Tx, tickets []*model.Ticket) error
	CountByBooking(ctx context.Context, tx pgx.Tx, bookingID int) (int, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

func (r *TicketRepositoryImpl) CreateBatch(ctx context.Context, tx pgx.Tx, tickets []*model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, []interface{}{
			t.Serial, t.BookingID, t.SeatID, t.PriceCents, model.TicketStatusIssued,
		})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"tickets"},
		[]string{"serial", "booking_id", "seat_id", "price_cents", "status"},
		pgx.CopyFromRows(rows),
	)
	return err
}

func (r *TicketRepositoryImpl) CountByBooking(ctx context.Context, tx pgx.Tx, bookingID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets
		WHERE booking_id = $1
	`

	var count int
	err := tx.QueryRow(ctx, query, bookingID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *TicketRepositoryImpl) ListByBooking(ctx context.Context, bookingID int) ([]*model.Ticket, error) {
	query := `
		SELECT id, serial, booking_id, seat_id, price_cents, status, issued_at, checked_in_at
		FROM tickets
		WHERE booking_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)

	for rows.Next() {
		var t model.Ticket
		err := rows.Scan(
			&t.ID,
			&t.Serial,
			&t.BookingID,
			&t.SeatID,
			&t.PriceCents,
			&t.Status,
			&t.IssuedAt,
			&t.CheckedInAt,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) FindDetailByID(ctx context.Context, id int) (*model.TicketDetail, error) {
	query := `
		SELECT t.id, t.serial, t.status, t.price_cents, t.issued_at, t.checked_in_at,
		       s.row_label, s.number, s.class,
		       b.booking_code, b.status,
		       st.movie_title, st.auditorium, st.starts_at
		FROM tickets t
		JOIN seats s ON s.id = t.seat_id
		JOIN bookings b ON b.id = t.booking_id
		JOIN showtimes st ON st.id = b.showtime_id
		WHERE t.id = $1
	`

	var (
		detail   model.TicketDetail
		rowLabel string
		number   int
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.Serial,
		&detail.Status,
		&detail.PriceCents,
		&detail.IssuedAt,
		&detail.CheckedInAt,
		&rowLabel,
		&number,
		&detail.SeatClass,
		&detail.BookingCode,
		&detail.BookingStatus,
		&detail.MovieTitle,
		&detail.Auditorium,
		&detail.ShowtimeStart,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	seat := model.Seat{RowLabel: rowLabel, Number: number}
	detail.SeatLabel = seat.Label()

	return &detail, nil
}

func (r *TicketRepositoryImpl) CheckIn(ctx context.Context, id int, now time.Time) (bool, error) {
	query := `
		UPDATE tickets
		SET status = $1, checked_in_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.pool.Exec(ctx, query,
		model.TicketStatusCheckedIn, now, id, model.TicketStatusIssued,
	)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() == 1, nil
}

package service

import (
	"context"
	"time"

	"go-cinema-booking/internal/cache"
	"go-cinema-booking/internal/model"
	"go-cinema-booking/internal/repository"
	"go-cinema-booking/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ShowtimeService interface {
	List(ctx context.Context) ([]*model.Showtime, error)
	GetByID(ctx context.Context, id int) (*model.Showtime, error)
	// GetSeatMap 座位表輪詢讀取；經過快取，寫入決策不得依賴此結果
	GetSeatMap(ctx context.Context, showtimeID int) ([]model.SeatView, error)
	// Create 建立場次並依排數配置批次產生座位
	Create(ctx context.Context, req model.CreateShowtimeRequest) (*model.Showtime, error)
}

type ShowtimeServiceImpl struct {
	pool      *pgxpool.Pool
	repo      repository.ShowtimeRepository
	seatRepo  repository.SeatRepository
	seatCache cache.SeatMapCache
}

func NewShowtimeService(
	pool *pgxpool.Pool,
	repo repository.ShowtimeRepository,
	seatRepo repository.SeatRepository,
	seatCache cache.SeatMapCache,
) ShowtimeService {
	return &ShowtimeServiceImpl{
		pool:      pool,
		repo:      repo,
		seatRepo:  seatRepo,
		seatCache: seatCache,
	}
}

func (s *ShowtimeServiceImpl) List(ctx context.Context) ([]*model.Showtime, error) {
	return s.repo.List(ctx)
}

func (s *ShowtimeServiceImpl) GetByID(ctx context.Context, id int) (*model.Showtime, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ShowtimeServiceImpl) GetSeatMap(ctx context.Context, showtimeID int) ([]model.SeatView, error) {
	if s.seatCache != nil {
		views, ok, err := s.seatCache.Get(ctx, showtimeID)
		if err != nil {
			logger.WithComponent("service").Warn("seat map cache read failed",
				zap.Int("showtime_id", showtimeID), zap.Error(err))
		}
		if ok {
			return views, nil
		}
	}

	if _, err := s.repo.FindByID(ctx, showtimeID); err != nil {
		return nil, err
	}

	seats, err := s.seatRepo.ListByShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]model.SeatView, 0, len(seats))
	for _, seat := range seats {
		views = append(views, seat.View(now))
	}

	if s.seatCache != nil {
		if err := s.seatCache.Set(ctx, showtimeID, views); err != nil {
			logger.WithComponent("service").Warn("seat map cache write failed",
				zap.Int("showtime_id", showtimeID), zap.Error(err))
		}
	}

	return views, nil
}

func (s *ShowtimeServiceImpl) Create(ctx context.Context, req model.CreateShowtimeRequest) (*model.Showtime, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	showtime, err := s.repo.Create(ctx, tx, &model.Showtime{
		MovieTitle:     req.MovieTitle,
		Auditorium:     req.Auditorium,
		StartsAt:       req.StartsAt,
		BasePriceCents: req.BasePriceCents,
		Rows:           req.Rows,
		Cols:           req.Cols,
	})
	if err != nil {
		return nil, err
	}

	seats := make([]*model.Seat, 0, req.Rows*req.Cols)
	for row := 0; row < req.Rows; row++ {
		class := model.ClassForRow(row, req.Rows)
		label := string(rune('A' + row))
		for col := 1; col <= req.Cols; col++ {
			seats = append(seats, &model.Seat{
				ShowtimeID: showtime.ID,
				RowLabel:   label,
				Number:     col,
				Class:      class,
				PriceCents: model.PriceForClass(req.BasePriceCents, class),
			})
		}
	}

	if err := s.seatRepo.CreateBulk(ctx, tx, seats); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return showtime, nil
}

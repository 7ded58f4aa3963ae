package service

import (
	"context"
	"time"

	"go-cinema-booking/internal/cache"
	"go-cinema-booking/internal/model"
	"go-cinema-booking/internal/repository"
	apperrors "go-cinema-booking/pkg/app_errors"
	"go-cinema-booking/pkg/logger"

	"go.uber.org/zap"
)

// HoldService 管理座位的限時保留。同一使用者重複保留等同刷新到期時間。
type HoldService interface {
	Hold(ctx context.Context, userID int, req model.HoldSeatsRequest) (*model.HoldSeatsResponse, error)
	Release(ctx context.Context, userID int, req model.ReleaseSeatsRequest) error
}

type HoldServiceImpl struct {
	seatRepo  repository.SeatRepository
	seatCache cache.SeatMapCache
	holdTTL   time.Duration
}

func NewHoldService(seatRepo repository.SeatRepository, seatCache cache.SeatMapCache, holdTTL time.Duration) HoldService {
	return &HoldServiceImpl{
		seatRepo:  seatRepo,
		seatCache: seatCache,
		holdTTL:   holdTTL,
	}
}

func (s *HoldServiceImpl) Hold(ctx context.Context, userID int, req model.HoldSeatsRequest) (*model.HoldSeatsResponse, error) {
	if len(req.SeatIDs) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// 先確認座位確實屬於該場次，缺漏回報 404 而非 409
	count, err := s.seatRepo.CountByIDs(ctx, req.ShowtimeID, req.SeatIDs)
	if err != nil {
		return nil, err
	}
	if count != len(req.SeatIDs) {
		return nil, apperrors.ErrSeatNotFound
	}

	expiresAt := time.Now().UTC().Add(s.holdTTL)

	if err := s.seatRepo.TryHold(ctx, req.ShowtimeID, req.SeatIDs, userID, expiresAt); err != nil {
		return nil, err
	}

	s.invalidateSeatMap(ctx, req.ShowtimeID)

	return &model.HoldSeatsResponse{ExpiresAt: expiresAt}, nil
}

func (s *HoldServiceImpl) Release(ctx context.Context, userID int, req model.ReleaseSeatsRequest) error {
	if len(req.SeatIDs) == 0 {
		return apperrors.ErrInvalidInput
	}

	if err := s.seatRepo.Release(ctx, req.ShowtimeID, req.SeatIDs, userID); err != nil {
		return err
	}

	s.invalidateSeatMap(ctx, req.ShowtimeID)

	return nil
}

func (s *HoldServiceImpl) invalidateSeatMap(ctx context.Context, showtimeID int) {
	if s.seatCache == nil {
		return
	}
	if err := s.seatCache.Invalidate(ctx, showtimeID); err != nil {
		// 快取只是 UI 提示，失效失敗不影響正確性
		logger.WithComponent("service").Warn("invalidate seat map failed",
			zap.Int("showtime_id", showtimeID), zap.Error(err))
	}
}

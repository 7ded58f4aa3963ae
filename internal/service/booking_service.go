package service

import (
	"context"
	"time"

	"go-cinema-booking/internal/cache"
	"go-cinema-booking/internal/model"
	"go-cinema-booking/internal/repository"
	apperrors "go-cinema-booking/pkg/app_errors"
	"go-cinema-booking/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// BookingService 是座位從可選到被佔用的唯一入口。
// 針對重疊座位組的併發請求，至多一個成功，其餘收到座位衝突。
type BookingService interface {
	Create(ctx context.Context, userID int, req model.CreateBookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id int, requesterID int, isStaff bool) (*model.Booking, error)
	// ExpirePending 清掃逾期的 PENDING 訂單並釋放座位，冪等、可重複執行
	ExpirePending(ctx context.Context, batchSize int) (int, error)
}

type BookingServiceImpl struct {
	pool       *pgxpool.Pool
	repo       repository.BookingRepository
	seatRepo   repository.SeatRepository
	comboRepo  repository.ComboRepository
	promoRepo  repository.PromotionRepository
	promotions PromotionService
	seatCache  cache.SeatMapCache
	pendingTTL time.Duration
}

func NewBookingService(
	pool *pgxpool.Pool,
	repo repository.BookingRepository,
	seatRepo repository.SeatRepository,
	comboRepo repository.ComboRepository,
	promoRepo repository.PromotionRepository,
	promotions PromotionService,
	seatCache cache.SeatMapCache,
	pendingTTL time.Duration,
) BookingService {
	return &BookingServiceImpl{
		pool:       pool,
		repo:       repo,
		seatRepo:   seatRepo,
		comboRepo:  comboRepo,
		promoRepo:  promoRepo,
		promotions: promotions,
		seatCache:  seatCache,
		pendingTTL: pendingTTL,
	}
}

func (s *BookingServiceImpl) Create(ctx context.Context, userID int, req model.CreateBookingRequest) (*model.Booking, error) {
	if len(req.SeatIDs) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. 以固定順序鎖定座位列；缺漏代表座位不存在或不屬於該場次
	seats, err := s.seatRepo.ListByIDsForUpdate(ctx, tx, req.ShowtimeID, req.SeatIDs)
	if err != nil {
		return nil, err
	}
	if len(seats) != len(req.SeatIDs) {
		return nil, apperrors.ErrSeatNotFound
	}

	// 2. 計價：座位票價 + 套餐
	var subtotal int64
	for _, seat := range seats {
		subtotal += seat.PriceCents
	}

	comboLines, comboTotal, err := s.priceCombos(ctx, req.Combos)
	if err != nil {
		return nil, err
	}
	subtotal += comboTotal

	// 3. 折扣碼：無效的碼讓整筆訂單失敗，不會默默略過折扣
	var promo *model.Promotion
	var discount int64
	if req.PromotionCode != "" {
		promo, err = s.promotions.Evaluate(ctx, req.PromotionCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = promo.DiscountFor(subtotal)
	}

	booking := &model.Booking{
		BookingCode:   uuid.New(),
		UserID:        userID,
		ShowtimeID:    req.ShowtimeID,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    subtotal - discount,
		Status:        model.BookingStatusPending,
		ExpiresAt:     time.Now().UTC().Add(s.pendingTTL),
	}
	if promo != nil {
		booking.PromotionID = &promo.ID
	}

	// 4. 寫入訂單後以條件式 UPDATE 佔用整組座位；任一座位被別人搶走則整筆回滾
	created, err := s.repo.Create(ctx, tx, booking)
	if err != nil {
		return nil, err
	}

	if err := s.seatRepo.TryClaim(ctx, tx, req.ShowtimeID, req.SeatIDs, userID, created.ID); err != nil {
		return nil, err
	}

	for _, line := range comboLines {
		line.BookingID = created.ID
	}
	if err := s.repo.CreateCombos(ctx, tx, comboLines); err != nil {
		return nil, err
	}

	if promo != nil {
		if err := s.promoRepo.IncrementUsage(ctx, tx, promo.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.invalidateSeatMap(ctx, req.ShowtimeID)

	created.Combos = comboLines
	return created, nil
}

func (s *BookingServiceImpl) priceCombos(ctx context.Context, lines []model.ComboLineRequest) ([]*model.BookingCombo, int64, error) {
	if len(lines) == 0 {
		return nil, 0, nil
	}

	ids := make([]int, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ComboID)
	}

	combos, err := s.comboRepo.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	priceByID := make(map[int]int64, len(combos))
	for _, combo := range combos {
		priceByID[combo.ID] = combo.PriceCents
	}

	result := make([]*model.BookingCombo, 0, len(lines))
	var total int64
	for _, line := range lines {
		price, ok := priceByID[line.ComboID]
		if !ok {
			return nil, 0, apperrors.ErrComboNotFound
		}
		if line.Quantity <= 0 {
			return nil, 0, apperrors.ErrInvalidInput
		}
		result = append(result, &model.BookingCombo{
			ComboID:        line.ComboID,
			Quantity:       line.Quantity,
			UnitPriceCents: price,
		})
		total += price * int64(line.Quantity)
	}

	return result, total, nil
}

func (s *BookingServiceImpl) GetByID(ctx context.Context, id int, requesterID int, isStaff bool) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != requesterID && !isStaff {
		return nil, apperrors.ErrForbidden
	}

	seats, err := s.seatRepo.ListByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Seats = seats

	combos, err := s.repo.ListCombos(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Combos = combos

	return booking, nil
}

func (s *BookingServiceImpl) ExpirePending(ctx context.Context, batchSize int) (int, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	expired, err := s.repo.ListExpiredPendingForUpdate(ctx, tx, time.Now().UTC(), batchSize)
	if err != nil {
		return 0, err
	}

	showtimes := make(map[int]struct{})
	for _, booking := range expired {
		if _, err := s.repo.UpdateStatus(ctx, tx, booking.ID, model.BookingStatusExpired); err != nil {
			return 0, err
		}
		if err := s.seatRepo.ReleaseByBooking(ctx, tx, booking.ID); err != nil {
			return 0, err
		}
		showtimes[booking.ShowtimeID] = struct{}{}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	for showtimeID := range showtimes {
		s.invalidateSeatMap(ctx, showtimeID)
	}

	return len(expired), nil
}

func (s *BookingServiceImpl) invalidateSeatMap(ctx context.Context, showtimeID int) {
	if s.seatCache == nil {
		return
	}
	if err := s.seatCache.Invalidate(ctx, showtimeID); err != nil {
		logger.WithComponent("service").Warn("invalidate seat map failed",
			zap.Int("showtime_id", showtimeID), zap.Error(err))
	}
}

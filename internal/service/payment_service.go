package service

import (
	"context"
	"math"
	"regexp"
	"strconv"

	"go-cinema-booking/internal/model"
	"go-cinema-booking/internal/queue"
	"go-cinema-booking/internal/repository"
	"go-cinema-booking/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PaymentService 對帳金流閘道的轉帳通知。
// 對不上帳一律回 success=false 且不動任何資料；重放已付款的通知是冪等的成功。
type PaymentService interface {
	HandleNotification(ctx context.Context, req model.SepayWebhookRequest) (*model.SepayWebhookResponse, error)
	// SendTicketEmail 由 worker 呼叫，寄送失敗可重試，與付款交易無關
	SendTicketEmail(ctx context.Context, bookingID int) error
}

type PaymentServiceImpl struct {
	pool          *pgxpool.Pool
	bookingRepo   repository.BookingRepository
	seatRepo      repository.SeatRepository
	ticketRepo    repository.TicketRepository
	emailQueue    queue.EmailQueue
	mailer        TicketMailer
	toleranceCent int64
}

func NewPaymentService(
	pool *pgxpool.Pool,
	bookingRepo repository.BookingRepository,
	seatRepo repository.SeatRepository,
	ticketRepo repository.TicketRepository,
	emailQueue queue.EmailQueue,
	mailer TicketMailer,
	toleranceCent int64,
) PaymentService {
	return &PaymentServiceImpl{
		pool:          pool,
		bookingRepo:   bookingRepo,
		seatRepo:      seatRepo,
		ticketRepo:    ticketRepo,
		emailQueue:    emailQueue,
		mailer:        mailer,
		toleranceCent: toleranceCent,
	}
}

var refPattern = regexp.MustCompile(`\d+`)

// extractCandidateIDs 從自由文字的轉帳備註撈出可能的訂單編號。
// 這個啟發式承襲既有閘道行為：備註沒有固定格式，只能比對數字 token。
func extractCandidateIDs(content string) []int {
	tokens := refPattern.FindAllString(content, -1)
	seen := make(map[int]struct{}, len(tokens))
	ids := make([]int, 0, len(tokens))
	for _, token := range tokens {
		// 太長的數字是卡號或時間戳，不可能是訂單編號
		if len(token) > 9 {
			continue
		}
		id, err := strconv.Atoi(token)
		if err != nil || id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (s *PaymentServiceImpl) HandleNotification(ctx context.Context, req model.SepayWebhookRequest) (*model.SepayWebhookResponse, error) {
	log := logger.WithComponent("payment")

	if req.TransferType != "in" {
		return &model.SepayWebhookResponse{Success: false}, nil
	}

	amountCents := int64(math.Round(req.TransferAmount * 100))
	candidates := extractCandidateIDs(req.Content)
	if len(candidates) == 0 {
		log.Warn("no booking reference in webhook content", zap.String("content", req.Content))
		return &model.SepayWebhookResponse{Success: false}, nil
	}

	pending, err := s.bookingRepo.FindPendingByIDs(ctx, candidates)
	if err != nil {
		return nil, err
	}

	for _, booking := range pending {
		if !s.amountMatches(amountCents, booking.TotalCents) {
			log.Warn("webhook amount mismatch",
				zap.Int("booking_id", booking.ID),
				zap.Int64("expected_cents", booking.TotalCents),
				zap.Int64("received_cents", amountCents))
			continue
		}

		reconciled, err := s.reconcile(ctx, booking.ID)
		if err != nil {
			return nil, err
		}
		if !reconciled {
			// 取鎖前已被清掃或並發對帳處理掉，交給下面的重放判斷
			log.Warn("booking no longer payable at reconcile time", zap.Int("booking_id", booking.ID))
			continue
		}

		log.Info("booking reconciled",
			zap.Int("booking_id", booking.ID),
			zap.Int64("amount_cents", amountCents))
		return &model.SepayWebhookResponse{Success: true}, nil
	}

	// 重放判斷：同一參照且同額的通知若已付款完成，回報成功但不再動資料
	paid, err := s.bookingRepo.FindPaidByIDs(ctx, candidates)
	if err != nil {
		return nil, err
	}
	for _, booking := range paid {
		if s.amountMatches(amountCents, booking.TotalCents) {
			log.Info("webhook replay for paid booking", zap.Int("booking_id", booking.ID))
			return &model.SepayWebhookResponse{Success: true}, nil
		}
	}

	return &model.SepayWebhookResponse{Success: false}, nil
}

func (s *PaymentServiceImpl) amountMatches(received, expected int64) bool {
	diff := received - expected
	if diff < 0 {
		diff = -diff
	}
	return diff <= s.toleranceCent
}

// reconcile 在單一交易內完成 PENDING→PAID、座位定案與出票，再於交易外投遞寄票工作。
// 回傳值表示這次呼叫是否真的把訂單轉成 PAID；
// 取鎖後發現已非 PENDING（被清掃或被並發對帳搶先）時回 false，由呼叫端決定怎麼回報。
func (s *PaymentServiceImpl) reconcile(ctx context.Context, bookingID int) (bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
	if err != nil {
		return false, err
	}

	// 取鎖後再驗一次狀態：可能已被並發的重放對帳或清掃處理掉
	if !booking.Status.CanTransitionTo(model.BookingStatusPaid) {
		return false, tx.Commit(ctx)
	}

	if _, err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, model.BookingStatusPaid); err != nil {
		return false, err
	}

	issued, err := s.ticketRepo.CountByBooking(ctx, tx, booking.ID)
	if err != nil {
		return false, err
	}
	if issued == 0 {
		seats, err := s.seatRepo.ListByBookingTx(ctx, tx, booking.ID)
		if err != nil {
			return false, err
		}

		tickets := make([]*model.Ticket, 0, len(seats))
		for _, seat := range seats {
			tickets = append(tickets, &model.Ticket{
				Serial:     uuid.New(),
				BookingID:  booking.ID,
				SeatID:     seat.ID,
				PriceCents: seat.PriceCents,
			})
		}

		if err := s.ticketRepo.CreateBatch(ctx, tx, tickets); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	// 寄票是盡力而為：投遞失敗只記錄，不影響已提交的付款
	if s.emailQueue != nil {
		job := &model.TicketEmailJob{BookingID: booking.ID}
		if err := s.emailQueue.PublishJob(context.Background(), job); err != nil {
			logger.WithComponent("payment").Error("publish ticket email job failed",
				zap.Int("booking_id", booking.ID), zap.Error(err))
		}
	}

	return true, nil
}

func (s *PaymentServiceImpl) SendTicketEmail(ctx context.Context, bookingID int) error {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	tickets, err := s.ticketRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	return s.mailer.SendTickets(ctx, booking, tickets)
}

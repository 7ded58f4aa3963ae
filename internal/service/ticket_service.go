package service

import (
	"context"
	"time"

	"go-cinema-booking/internal/model"
	"go-cinema-booking/internal/repository"
	apperrors "go-cinema-booking/pkg/app_errors"
)

// TicketService 驗票與核銷。ISSUED → CHECKED_IN 由資料庫的條件式
// UPDATE 保證恰好一次：兩台裝置同時掃同一張票，只有一台成功。
type TicketService interface {
	VerifyTicket(ctx context.Context, ticketID int) (*model.VerifyTicketResponse, error)
}

type TicketServiceImpl struct {
	repo  repository.TicketRepository
	grace time.Duration
}

func NewTicketService(repo repository.TicketRepository, grace time.Duration) TicketService {
	return &TicketServiceImpl{
		repo:  repo,
		grace: grace,
	}
}

func (s *TicketServiceImpl) VerifyTicket(ctx context.Context, ticketID int) (*model.VerifyTicketResponse, error) {
	detail, err := s.repo.FindDetailByID(ctx, ticketID)
	if err != nil {
		if err == apperrors.ErrTicketNotFound {
			return &model.VerifyTicketResponse{Valid: false, Message: "not found"}, err
		}
		return nil, err
	}

	if detail.BookingStatus != model.BookingStatusPaid {
		return &model.VerifyTicketResponse{Valid: false, Message: "not paid", Ticket: detail}, apperrors.ErrBookingNotPaid
	}

	if detail.Status == model.TicketStatusCheckedIn {
		return &model.VerifyTicketResponse{Valid: false, Message: "already used", Ticket: detail}, apperrors.ErrTicketAlreadyUsed
	}

	now := time.Now().UTC()
	if now.After(detail.ShowtimeStart.Add(s.grace)) {
		return &model.VerifyTicketResponse{Valid: false, Message: "expired", Ticket: detail}, apperrors.ErrTicketExpired
	}

	ok, err := s.repo.CheckIn(ctx, ticketID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 輸掉並發掃描的那一方：重抓快照給櫃檯看
		detail, ferr := s.repo.FindDetailByID(ctx, ticketID)
		if ferr != nil {
			return nil, ferr
		}
		return &model.VerifyTicketResponse{Valid: false, Message: "already used", Ticket: detail}, apperrors.ErrTicketAlreadyUsed
	}

	detail, err = s.repo.FindDetailByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	return &model.VerifyTicketResponse{Valid: true, Ticket: detail}, nil
}

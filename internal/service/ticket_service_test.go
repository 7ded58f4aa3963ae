package service

import (
	"context"
	"testing"
	"time"

	"go-cinema-booking/internal/model"
	apperrors "go-cinema-booking/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ticketRepoMock struct {
	mock.Mock
}

func (m *ticketRepoMock) FindDetailByID(ctx context.Context, id int) (*model.TicketDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketDetail), args.Error(1)
}

func (m *ticketRepoMock) ListByBooking(ctx context.Context, bookingID int) ([]*model.Ticket, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *ticketRepoMock) CheckIn(ctx context.Context, id int, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *ticketRepoMock) CreateBatch(ctx context.Context, tx pgx.Tx, tickets []*model.Ticket) error {
	args := m.Called(ctx, tx, tickets)
	return args.Error(0)
}

func (m *ticketRepoMock) CountByBooking(ctx context.Context, tx pgx.Tx, bookingID int) (int, error) {
	args := m.Called(ctx, tx, bookingID)
	return args.Int(0), args.Error(1)
}

func issuedTicketDetail() *model.TicketDetail {
	return &model.TicketDetail{
		ID:            10,
		Status:        model.TicketStatusIssued,
		PriceCents:    12500,
		SeatLabel:     "C12",
		SeatClass:     model.SeatClassPremium,
		MovieTitle:    "Midnight Express",
		Auditorium:    "Hall 1",
		ShowtimeStart: time.Now().UTC().Add(time.Hour),
		BookingStatus: model.BookingStatusPaid,
	}
}

func TestTicketService_VerifyTicket(t *testing.T) {
	ctx := context.Background()
	grace := 30 * time.Minute

	t.Run("Success", func(t *testing.T) {
		repo := &ticketRepoMock{}
		detail := issuedTicketDetail()
		checkedIn := issuedTicketDetail()
		checkedIn.Status = model.TicketStatusCheckedIn

		repo.On("FindDetailByID", ctx, 10).Return(detail, nil).Once()
		repo.On("CheckIn", ctx, 10, mock.Anything).Return(true, nil).Once()
		repo.On("FindDetailByID", ctx, 10).Return(checkedIn, nil).Once()

		svc := NewTicketService(repo, grace)
		resp, err := svc.VerifyTicket(ctx, 10)

		require.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.Equal(t, model.TicketStatusCheckedIn, resp.Ticket.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		repo := &ticketRepoMock{}
		repo.On("FindDetailByID", ctx, 99).Return(nil, apperrors.ErrTicketNotFound).Once()

		svc := NewTicketService(repo, grace)
		resp, err := svc.VerifyTicket(ctx, 99)

		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
		require.NotNil(t, resp)
		assert.False(t, resp.Valid)
		assert.Equal(t, "not found", resp.Message)
	})

	t.Run("Failed - BookingNotPaid", func(t *testing.T) {
		repo := &ticketRepoMock{}
		detail := issuedTicketDetail()
		detail.BookingStatus = model.BookingStatusPending
		repo.On("FindDetailByID", ctx, 10).Return(detail, nil).Once()

		svc := NewTicketService(repo, grace)
		resp, err := svc.VerifyTicket(ctx, 10)

		assert.ErrorIs(t, err, apperrors.ErrBookingNotPaid)
		assert.False(t, resp.Valid)
		assert.Equal(t, "not paid", resp.Message)
		assert.NotNil(t, resp.Ticket)
	})

	t.Run("Failed - AlreadyUsed", func(t *testing.T) {
		repo := &ticketRepoMock{}
		detail := issuedTicketDetail()
		detail.Status = model.TicketStatusCheckedIn
		repo.On("FindDetailByID", ctx, 10).Return(detail, nil).Once()

		svc := NewTicketService(repo, grace)
		resp, err := svc.VerifyTicket(ctx, 10)

		assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyUsed)
		assert.False(t, resp.Valid)
		assert.Equal(t, "already used", resp.Message)
	})

	t.Run("Failed - PastGracePeriod", func(t *testing.T) {
		repo := &ticketRepoMock{}
		detail := issuedTicketDetail()
		detail.ShowtimeStart = time.Now().UTC().Add(-time.Hour)
		repo.On("FindDetailByID", ctx, 10).Return(detail, nil).Once()

		svc := NewTicketService(repo, grace)
		resp, err := svc.VerifyTicket(ctx, 10)

		assert.ErrorIs(t, err, apperrors.ErrTicketExpired)
		assert.False(t, resp.Valid)
		assert.Equal(t, "expired", resp.Message)
	})

	t.Run("WithinGracePeriodStillValid", func(t *testing.T) {
		repo := &ticketRepoMock{}
		detail := issuedTicketDetail()
		detail.ShowtimeStart = time.Now().UTC().Add(-10 * time.Minute)
		checkedIn := issuedTicketDetail()
		checkedIn.ShowtimeStart = detail.ShowtimeStart
		checkedIn.Status = model.TicketStatusCheckedIn

		repo.On("FindDetailByID", ctx, 10).Return(detail, nil).Once()
		repo.On("CheckIn", ctx, 10, mock.Anything).Return(true, nil).Once()
		repo.On("FindDetailByID", ctx, 10).Return(checkedIn, nil).Once()

		svc := NewTicketService(repo, grace)
		resp, err := svc.VerifyTicket(ctx, 10)

		require.NoError(t, err)
		assert.True(t, resp.Valid)
	})

	t.Run("Failed - LostConcurrentCheckIn", func(t *testing.T) {
		// 兩台裝置同掃：資料庫條件式 UPDATE 只讓一台成功，
		// 輸的那台收到 already used 與最新快照
		repo := &ticketRepoMock{}
		detail := issuedTicketDetail()
		checkedIn := issuedTicketDetail()
		checkedIn.Status = model.TicketStatusCheckedIn

		repo.On("FindDetailByID", ctx, 10).Return(detail, nil).Once()
		repo.On("CheckIn", ctx, 10, mock.Anything).Return(false, nil).Once()
		repo.On("FindDetailByID", ctx, 10).Return(checkedIn, nil).Once()

		svc := NewTicketService(repo, grace)
		resp, err := svc.VerifyTicket(ctx, 10)

		assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyUsed)
		assert.False(t, resp.Valid)
		assert.Equal(t, "already used", resp.Message)
		assert.Equal(t, model.TicketStatusCheckedIn, resp.Ticket.Status)
		repo.AssertExpectations(t)
	})
}

package service

import (
	"context"

	"go-cinema-booking/internal/model"
	"go-cinema-booking/pkg/logger"

	"go.uber.org/zap"
)

// TicketMailer 寄送電子票的外部協作者邊界
type TicketMailer interface {
	SendTickets(ctx context.Context, booking *model.Booking, tickets []*model.Ticket) error
}

// LogTicketMailer 將寄送動作記到日誌，供開發環境與測試使用
type LogTicketMailer struct{}

func NewLogTicketMailer() TicketMailer {
	return &LogTicketMailer{}
}

func (m *LogTicketMailer) SendTickets(ctx context.Context, booking *model.Booking, tickets []*model.Ticket) error {
	serials := make([]string, 0, len(tickets))
	for _, t := range tickets {
		serials = append(serials, t.Serial.String())
	}

	logger.WithComponent("mailer").Info("ticket email sent",
		zap.Int("booking_id", booking.ID),
		zap.String("booking_code", booking.BookingCode.String()),
		zap.Strings("ticket_serials", serials))

	return nil
}

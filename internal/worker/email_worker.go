package worker

import (
	"context"

	"go-cinema-booking/internal/queue"
	"go-cinema-booking/internal/service"
	"go-cinema-booking/pkg/logger"

	"go.uber.org/zap"
)

// EmailWorker 消費寄票隊列，把「工作」變成「寄出的票」
type EmailWorker interface {
	Start(ctx context.Context) error
}

type EmailWorkerImpl struct {
	payments service.PaymentService
	queue    queue.EmailQueue
}

func NewEmailWorker(payments service.PaymentService, queue queue.EmailQueue) EmailWorker {
	return &EmailWorkerImpl{
		payments: payments,
		queue:    queue,
	}
}

func (w *EmailWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeJobs(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			err := w.payments.SendTicketEmail(ctx, msg.Data.BookingID)

			if err != nil {
				logger.WithComponent("worker").Warn("send ticket email failed, will retry",
					zap.Int("booking_id", msg.Data.BookingID), zap.Error(err))
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}

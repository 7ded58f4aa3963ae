package worker

import (
	"context"
	"time"

	"go-cinema-booking/internal/service"
	"go-cinema-booking/pkg/logger"

	"go.uber.org/zap"
)

const sweepBatchSize = 100

// Sweeper 定期清掃逾期的 PENDING 訂單並釋放座位。
// 清掃是冪等的，多個實例同時跑也不會互相干擾。
type Sweeper interface {
	Start(ctx context.Context)
}

type SweeperImpl struct {
	bookings service.BookingService
	interval time.Duration
}

func NewSweeper(bookings service.BookingService, interval time.Duration) Sweeper {
	return &SweeperImpl{
		bookings: bookings,
		interval: interval,
	}
}

func (w *SweeperImpl) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.sweepOnce(ctx)
			}
		}
	}()
}

func (w *SweeperImpl) sweepOnce(ctx context.Context) {
	log := logger.WithComponent("sweeper")

	for {
		n, err := w.bookings.ExpirePending(ctx, sweepBatchSize)
		if err != nil {
			log.Error("expire pending bookings failed", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("expired pending bookings", zap.Int("count", n))
		}
		if n < sweepBatchSize {
			return
		}
	}
}

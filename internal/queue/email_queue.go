package queue

import (
	"context"

	"go-cinema-booking/internal/model"
)

type Delivery struct {
	Data *model.TicketEmailJob
	Ack  func()
	Nack func(requeue bool)
}

// EmailQueue 寄票工作隊列。付款交易提交後才投遞，寄送失敗不回滾付款。
type EmailQueue interface {
	// 發送寄票工作到隊列
	PublishJob(ctx context.Context, job *model.TicketEmailJob) error
	// 訂閱寄票工作隊列
	SubscribeJobs(ctx context.Context) (<-chan Delivery, error)
}

type MemoryEmailQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列，供測試與單機部署使用
	ch chan *model.TicketEmailJob
}

func NewMemoryEmailQueue(bufferSize int) EmailQueue {
	return &MemoryEmailQueueImpl{
		ch: make(chan *model.TicketEmailJob, bufferSize),
	}
}

func (q *MemoryEmailQueueImpl) PublishJob(ctx context.Context, job *model.TicketEmailJob) error {
	q.ch <- job
	return nil
}

func (q *MemoryEmailQueueImpl) SubscribeJobs(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: job,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- job // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}

package queue

import (
	"context"
	"testing"
	"time"

	"go-cinema-booking/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEmailQueue_PublishAndSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewMemoryEmailQueue(10)

	msgs, err := q.SubscribeJobs(ctx)
	require.NoError(t, err)

	err = q.PublishJob(ctx, &model.TicketEmailJob{BookingID: 7})
	require.NoError(t, err)

	select {
	case delivery := <-msgs:
		assert.Equal(t, 7, delivery.Data.BookingID)
		delivery.Ack()
	case <-time.After(time.Second):
		t.Fatal("expected a delivery")
	}
}

func TestMemoryEmailQueue_NackRequeues(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewMemoryEmailQueue(10)

	msgs, err := q.SubscribeJobs(ctx)
	require.NoError(t, err)

	require.NoError(t, q.PublishJob(ctx, &model.TicketEmailJob{BookingID: 3}))

	first := <-msgs
	first.Nack(true)

	select {
	case redelivered := <-msgs:
		assert.Equal(t, 3, redelivered.Data.BookingID)
		redelivered.Ack()
	case <-time.After(time.Second):
		t.Fatal("expected redelivery after nack")
	}
}

func TestMemoryEmailQueue_SubscribeStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	q := NewMemoryEmailQueue(1)
	msgs, err := q.SubscribeJobs(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-msgs:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected channel to close after cancel")
	}
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-cinema-booking/internal/model"

	"github.com/redis/go-redis/v9"
)

// SeatMapCache 座位表的讀取快取，僅供輪詢端點使用。
// 寫入決策一律以資料庫為準，這裡的資料只是 UI 提示。
type SeatMapCache interface {
	Get(ctx context.Context, showtimeID int) ([]model.SeatView, bool, error)
	Set(ctx context.Context, showtimeID int, views []model.SeatView) error
	Invalidate(ctx context.Context, showtimeID int) error
}

type SeatMapCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSeatMapCache(client *redis.Client, ttl time.Duration) SeatMapCache {
	return &SeatMapCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

func (c *SeatMapCacheImpl) key(showtimeID int) string {
	return fmt.Sprintf("showtime:%d:seatmap", showtimeID)
}

func (c *SeatMapCacheImpl) Get(ctx context.Context, showtimeID int) ([]model.SeatView, bool, error) {
	raw, err := c.client.Get(ctx, c.key(showtimeID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var views []model.SeatView
	if err := json.Unmarshal(raw, &views); err != nil {
		return nil, false, fmt.Errorf("unmarshal seat map: %w", err)
	}

	return views, true, nil
}

func (c *SeatMapCacheImpl) Set(ctx context.Context, showtimeID int, views []model.SeatView) error {
	raw, err := json.Marshal(views)
	if err != nil {
		return fmt.Errorf("marshal seat map: %w", err)
	}

	return c.client.Set(ctx, c.key(showtimeID), raw, c.ttl).Err()
}

func (c *SeatMapCacheImpl) Invalidate(ctx context.Context, showtimeID int) error {
	return c.client.Del(ctx, c.key(showtimeID)).Err()
}

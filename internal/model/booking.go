package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus 訂單狀態類型
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusPaid      BookingStatus = "PAID"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

// IsValid 驗證狀態是否有效
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusPaid, BookingStatusCancelled, BookingStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	transitions := map[BookingStatus][]BookingStatus{
		BookingStatusPending:   {BookingStatusPaid, BookingStatusCancelled, BookingStatusExpired},
		BookingStatusPaid:      {}, // 付款後為終態，退款不在本引擎範圍
		BookingStatusCancelled: {},
		BookingStatusExpired:   {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Booking 一次購票交易；座位與套餐快照在建立後不可變
type Booking struct {
	ID            int           `json:"id" db:"id"`
	BookingCode   uuid.UUID     `json:"booking_code" db:"booking_code"`
	UserID        int           `json:"user_id" db:"user_id"`
	ShowtimeID    int           `json:"showtime_id" db:"showtime_id"`
	SubtotalCents int64         `json:"subtotal_cents" db:"subtotal_cents"`
	DiscountCents int64         `json:"discount_cents" db:"discount_cents"`
	TotalCents    int64         `json:"total_cents" db:"total_cents"`
	PromotionID   *int          `json:"promotion_id,omitempty" db:"promotion_id"`
	Status        BookingStatus `json:"status" db:"status"`
	ExpiresAt     time.Time     `json:"expires_at" db:"expires_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`

	Seats  []*Seat         `json:"seats,omitempty" db:"-"`
	Combos []*BookingCombo `json:"combos,omitempty" db:"-"`
}

// BookingCombo 訂單內的套餐明細，單價為成交當下的快照
type BookingCombo struct {
	ID             int   `json:"id" db:"id"`
	BookingID      int   `json:"booking_id" db:"booking_id"`
	ComboID        int   `json:"combo_id" db:"combo_id"`
	Quantity       int   `json:"quantity" db:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents" db:"unit_price_cents"`
}

// ComboLineRequest 購票請求中的套餐行
type ComboLineRequest struct {
	ComboID  int `json:"combo_id" binding:"required"`
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CreateBookingRequest 建立訂單請求
type CreateBookingRequest struct {
	ShowtimeID    int                `json:"showtime_id" binding:"required"`
	SeatIDs       []int              `json:"seat_ids"`
	Combos        []ComboLineRequest `json:"combos"`
	PromotionCode string             `json:"promotion_code"`
}

// CreateBookingResponse 建立訂單回應
type CreateBookingResponse struct {
	BookingID   int       `json:"booking_id"`
	BookingCode uuid.UUID `json:"booking_code"`
	TotalCents  int64     `json:"total_cents"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
}

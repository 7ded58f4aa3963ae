package model

import (
	"fmt"
	"time"
)

// SeatStatus 座位銷售狀態
type SeatStatus string

const (
	SeatStatusFree SeatStatus = "FREE"
	SeatStatusHeld SeatStatus = "HELD"
	SeatStatusSold SeatStatus = "SOLD"
)

func (s SeatStatus) IsValid() bool {
	switch s {
	case SeatStatusFree, SeatStatusHeld, SeatStatusSold:
		return true
	}
	return false
}

// SeatClass 座位等級，依排數位置決定
type SeatClass string

const (
	SeatClassStandard SeatClass = "standard"
	SeatClassPremium  SeatClass = "premium"
	SeatClassPaired   SeatClass = "paired"
)

// ClassForRow 依排的位置決定座位等級：最後一排為情侶座，
// 中段三分之一為 premium，其餘為 standard。rowIndex 從 0 起算。
func ClassForRow(rowIndex, totalRows int) SeatClass {
	if totalRows <= 0 {
		return SeatClassStandard
	}
	if rowIndex == totalRows-1 {
		return SeatClassPaired
	}
	if rowIndex >= totalRows/3 && rowIndex < totalRows*2/3 {
		return SeatClassPremium
	}
	return SeatClassStandard
}

// PriceForClass 依等級計算座位票價（分）
func PriceForClass(basePriceCents int64, class SeatClass) int64 {
	switch class {
	case SeatClassPremium:
		return basePriceCents * 125 / 100
	case SeatClassPaired:
		return basePriceCents * 180 / 100
	default:
		return basePriceCents
	}
}

// Seat 單一場次中的一個座位，銷售狀態欄位即為保留（hold）的載體
type Seat struct {
	ID            int        `json:"id" db:"id"`
	ShowtimeID    int        `json:"showtime_id" db:"showtime_id"`
	RowLabel      string     `json:"row_label" db:"row_label"`
	Number        int        `json:"number" db:"number"`
	Class         SeatClass  `json:"class" db:"class"`
	PriceCents    int64      `json:"price_cents" db:"price_cents"`
	Status        SeatStatus `json:"status" db:"status"`
	HeldBy        *int       `json:"held_by,omitempty" db:"held_by"`
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty" db:"hold_expires_at"`
	BookingID     *int       `json:"booking_id,omitempty" db:"booking_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

func (s *Seat) Label() string {
	return fmt.Sprintf("%s%d", s.RowLabel, s.Number)
}

// HoldExpired 保留是否已逾期；逾期的 HELD 在所有讀寫路徑上視同 FREE
func (s *Seat) HoldExpired(now time.Time) bool {
	return s.Status == SeatStatusHeld && s.HoldExpiresAt != nil && s.HoldExpiresAt.Before(now)
}

// EffectiveStatus 回傳對外可見的狀態，逾期保留回報為 FREE
func (s *Seat) EffectiveStatus(now time.Time) SeatStatus {
	if s.HoldExpired(now) {
		return SeatStatusFree
	}
	return s.Status
}

// SeatView 座位表輪詢用的唯讀快照
type SeatView struct {
	ID         int        `json:"id"`
	Label      string     `json:"label"`
	Class      SeatClass  `json:"class"`
	PriceCents int64      `json:"price_cents"`
	Status     SeatStatus `json:"status"`
}

func (s *Seat) View(now time.Time) SeatView {
	return SeatView{
		ID:         s.ID,
		Label:      s.Label(),
		Class:      s.Class,
		PriceCents: s.PriceCents,
		Status:     s.EffectiveStatus(now),
	}
}

// HoldSeatsRequest 保留座位請求
type HoldSeatsRequest struct {
	ShowtimeID int   `json:"showtime_id" binding:"required"`
	SeatIDs    []int `json:"seat_ids" binding:"required,min=1"`
}

// ReleaseSeatsRequest 釋放保留請求，重複釋放為冪等操作
type ReleaseSeatsRequest struct {
	ShowtimeID int   `json:"showtime_id" binding:"required"`
	SeatIDs    []int `json:"seat_ids" binding:"required,min=1"`
}

// HoldSeatsResponse 保留成功後回傳的到期時間
type HoldSeatsResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

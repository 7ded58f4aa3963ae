package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus 票券狀態，ISSUED → CHECKED_IN 為單向且僅一次
type TicketStatus string

const (
	TicketStatusIssued    TicketStatus = "ISSUED"
	TicketStatusCheckedIn TicketStatus = "CHECKED_IN"
)

func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusIssued, TicketStatusCheckedIn:
		return true
	}
	return false
}

// Ticket 付款完成後每個座位各發一張
type Ticket struct {
	ID          int          `json:"id" db:"id"`
	Serial      uuid.UUID    `json:"serial" db:"serial"` // QR 內容
	BookingID   int          `json:"booking_id" db:"booking_id"`
	SeatID      int          `json:"seat_id" db:"seat_id"`
	PriceCents  int64        `json:"price_cents" db:"price_cents"`
	Status      TicketStatus `json:"status" db:"status"`
	IssuedAt    time.Time    `json:"issued_at" db:"issued_at"`
	CheckedInAt *time.Time   `json:"checked_in_at,omitempty" db:"checked_in_at"`
}

// TicketDetail 驗票時回傳給櫃檯畫面的完整資訊
type TicketDetail struct {
	ID            int           `json:"id"`
	Serial        uuid.UUID     `json:"serial"`
	Status        TicketStatus  `json:"status"`
	PriceCents    int64         `json:"price_cents"`
	SeatLabel     string        `json:"seat_label"`
	SeatClass     SeatClass     `json:"seat_class"`
	MovieTitle    string        `json:"movie_title"`
	Auditorium    string        `json:"auditorium"`
	ShowtimeStart time.Time     `json:"showtime_start"`
	BookingCode   uuid.UUID     `json:"booking_code"`
	BookingStatus BookingStatus `json:"booking_status"`
	IssuedAt      time.Time     `json:"issued_at"`
	CheckedInAt   *time.Time    `json:"checked_in_at,omitempty"`
}

// VerifyTicketRequest 掃描 QR 後送出的票券編號
type VerifyTicketRequest struct {
	TicketID int `json:"ticket_id" binding:"required"`
}

// VerifyTicketResponse 驗票結果；已使用的票仍回傳快照供櫃檯顯示
type VerifyTicketResponse struct {
	Valid   bool          `json:"valid"`
	Message string        `json:"message,omitempty"`
	Ticket  *TicketDetail `json:"ticket,omitempty"`
}

// TicketEmailJob 付款完成後投遞到隊列的寄票工作
type TicketEmailJob struct {
	BookingID int `json:"booking_id"`
}

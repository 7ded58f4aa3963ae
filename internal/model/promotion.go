package model

import "time"

// Promotion 折扣活動，僅在 active 且時間窗內可用
type Promotion struct {
	ID              int       `json:"id" db:"id"`
	Code            string    `json:"code" db:"code"`
	Name            string    `json:"name" db:"name"`
	DiscountPercent int       `json:"discount_percent" db:"discount_percent"`
	StartsAt        time.Time `json:"starts_at" db:"starts_at"`
	EndsAt          time.Time `json:"ends_at" db:"ends_at"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	MinAmountCents  int64     `json:"min_amount_cents" db:"min_amount_cents"`
	MaxUsage        int       `json:"max_usage" db:"max_usage"` // 0 表示不限
	UsageCount      int       `json:"usage_count" db:"usage_count"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// DiscountFor 依百分比計算折扣金額（分），整數運算避免浮點誤差
func (p *Promotion) DiscountFor(amountCents int64) int64 {
	return amountCents * int64(p.DiscountPercent) / 100
}

// VerifyPromotionRequest 折扣碼驗證請求
type VerifyPromotionRequest struct {
	Code        string `json:"code" binding:"required"`
	AmountCents int64  `json:"amount_cents"`
	UserID      int    `json:"user_id"`
	SeatCount   int    `json:"seat_count"`
}

// VerifyPromotionResponse 折扣碼驗證結果
type VerifyPromotionResponse struct {
	Valid           bool   `json:"valid"`
	PromotionID     int    `json:"promotion_id,omitempty"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
	Message         string `json:"message,omitempty"`
}

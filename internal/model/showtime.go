package model

import "time"

// Showtime 場次；建立時依廳內座位配置批次產生 seats 列
type Showtime struct {
	ID             int       `json:"id" db:"id"`
	MovieTitle     string    `json:"movie_title" db:"movie_title"`
	Auditorium     string    `json:"auditorium" db:"auditorium"`
	StartsAt       time.Time `json:"starts_at" db:"starts_at"`
	BasePriceCents int64     `json:"base_price_cents" db:"base_price_cents"`
	Rows           int       `json:"rows" db:"rows"`
	Cols           int       `json:"cols" db:"cols"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// CreateShowtimeRequest 建立場次請求（後台）
type CreateShowtimeRequest struct {
	MovieTitle     string    `json:"movie_title" binding:"required"`
	Auditorium     string    `json:"auditorium" binding:"required"`
	StartsAt       time.Time `json:"starts_at" binding:"required"`
	BasePriceCents int64     `json:"base_price_cents" binding:"required,min=1"`
	Rows           int       `json:"rows" binding:"required,min=1,max=26"`
	Cols           int       `json:"cols" binding:"required,min=1"`
}

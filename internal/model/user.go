package model

import "time"

const (
	RoleUser  = "user"
	RoleStaff = "staff"
)

// User 僅作為認證協作邊界，註冊與登入流程不在本服務內
type User struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

package domain

import (
	"time"
)

type User struct {
	ID           string    `json:"p_no"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	RoleID       *int64    `json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
}

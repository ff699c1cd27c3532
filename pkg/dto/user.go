package dto

import (
	"time"
)

// UserCreate represents the data needed to create a new user.
type UserCreate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRead represents a read-optimized view of a user.
type UserRead struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

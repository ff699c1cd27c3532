package user

import (
	"time"
)

// User represents a user record in the database.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;size:100"`
	Email     string `gorm:"uniqueIndex;not null;size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

package repository

import (
	infratx "github.com/amirasaad/findash/infra/repository/transaction"
	infrauser "github.com/amirasaad/findash/infra/repository/user"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the users and transactions tables.
// Users go first so the transactions foreign key has a target.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&infrauser.User{}, &infratx.Transaction{})
}

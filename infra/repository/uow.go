package repository

import (
	"context"

	infratx "github.com/amirasaad/findash/infra/repository/transaction"
	infrauser "github.com/amirasaad/findash/infra/repository/user"
	"github.com/amirasaad/findash/pkg/repository"
	"github.com/amirasaad/findash/pkg/repository/transaction"
	"github.com/amirasaad/findash/pkg/repository/user"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories handed out inside Do share the open transaction; outside Do
// they run against the plain connection.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn in a transaction. Nested calls reuse the outer transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// UserRepository returns a user repository bound to the current session.
func (u *UoW) UserRepository() (user.Repository, error) {
	return infrauser.New(u.session()), nil
}

// TransactionRepository returns a transaction repository bound to the current session.
func (u *UoW) TransactionRepository() (transaction.Repository, error) {
	return infratx.New(u.session()), nil
}

var _ repository.UnitOfWork = (*UoW)(nil)

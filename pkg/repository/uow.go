package repository

import (
	"context"

	"github.com/amirasaad/findash/pkg/repository/transaction"
	"github.com/amirasaad/findash/pkg/repository/user"
)

// UnitOfWork defines the contract for transactional work and repository access.
//
// Do runs fn in one database transaction; repositories obtained from the
// UnitOfWork passed to fn share that transaction. If fn returns an error the
// transaction is rolled back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	UserRepository() (user.Repository, error)
	TransactionRepository() (transaction.Repository, error)
}

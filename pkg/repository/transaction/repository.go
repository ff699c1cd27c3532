package transaction

import (
	"context"

	"github.com/amirasaad/findash/pkg/dto"
)

// Repository defines the interface for transaction data access operations.
type Repository interface {
	// Create inserts a transaction and returns it with the store-assigned ID.
	Create(ctx context.Context, create dto.TransactionCreate) (*dto.TransactionRead, error)

	// Get retrieves a transaction by its ID.
	Get(ctx context.Context, id uint) (*dto.TransactionRead, error)

	// List returns transactions ordered by date then ID.
	List(ctx context.Context, filter dto.TransactionFilter) ([]*dto.TransactionRead, error)

	// ListByUser lists all transactions of one user ordered by date then ID.
	ListByUser(ctx context.Context, userID uint) ([]*dto.TransactionRead, error)
}

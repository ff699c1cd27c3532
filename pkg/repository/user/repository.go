package user

import (
	"context"

	"github.com/amirasaad/findash/pkg/dto"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	// Create inserts a new user and returns it with the store-assigned ID.
	Create(ctx context.Context, create *dto.UserCreate) (*dto.UserRead, error)

	// Get retrieves a user by its ID. Missing users yield user.ErrUserNotFound.
	Get(ctx context.Context, id uint) (*dto.UserRead, error)

	// List retrieves all users ordered by ID.
	List(ctx context.Context) ([]*dto.UserRead, error)

	// Exists checks if a user with the given ID exists.
	Exists(ctx context.Context, id uint) (bool, error)
}

package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/findash/pkg/domain"
	"github.com/go-playground/validator/v10"
)

const (
	MaxNameLength  = 100
	MaxEmailLength = 255
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = fmt.Errorf("user %w", domain.ErrNotFound)
	// ErrEmailTaken is returned when another user already owns the email.
	ErrEmailTaken = fmt.Errorf("email %w", domain.ErrAlreadyExists)

	ErrNameRequired = fmt.Errorf("%w: name is required", domain.ErrValidation)
	ErrNameTooLong  = fmt.Errorf("%w: name must be at most %d characters", domain.ErrValidation, MaxNameLength)
	ErrInvalidEmail = fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
)

// User represents a person owning transactions.
type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// New validates name and email and returns an unsaved User. The ID is
// assigned by the store.
func New(name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len([]rune(name)) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	return &User{
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}, nil
}

var validate = validator.New()

func validateEmail(email string) error {
	if err := validate.Var(email, fmt.Sprintf("required,email,max=%d", MaxEmailLength)); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// Package user provides business logic for user management operations.
package user

import (
	"context"
	"log/slog"

	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/amirasaad/findash/pkg/domain/user"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/amirasaad/findash/pkg/eventbus"
	"github.com/amirasaad/findash/pkg/repository"
)

// Service provides business logic for user operations.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
}

// New creates a new Service. bus may be nil when no events are wanted.
func New(
	uow repository.UnitOfWork,
	bus eventbus.Bus,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:    uow,
		bus:    bus,
		logger: logger,
	}
}

// CreateUser validates and stores a new user, then emits UserCreated.
func (s *Service) CreateUser(
	ctx context.Context,
	name, email string,
) (u *dto.UserRead, err error) {
	candidate, err := user.New(name, email)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.Create(ctx, &dto.UserCreate{
			Name:  candidate.Name,
			Email: candidate.Email,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID)
	if s.bus != nil {
		if emitErr := s.bus.Emit(ctx, events.NewUserCreated(u.ID, u.Email)); emitErr != nil {
			s.logger.Error("failed to emit UserCreated", "user_id", u.ID, "error", emitErr)
		}
	}
	return u, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(
	ctx context.Context,
	userID uint,
) (u *dto.UserRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, userID)
		return err
	})
	if err != nil {
		u = nil
	}
	return
}

// ListUsers returns every user ordered by ID.
func (s *Service) ListUsers(ctx context.Context) (users []*dto.UserRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		users, err = repo.List(ctx)
		return err
	})
	if err != nil {
		users = nil
	}
	return
}

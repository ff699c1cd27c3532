package user_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/amirasaad/findash/internal/fixtures/mocks"
	"github.com/amirasaad/findash/pkg/domain"
	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/amirasaad/findash/pkg/domain/user"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/amirasaad/findash/pkg/repository"
	usersvc "github.com/amirasaad/findash/pkg/service/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Helper to create a service with mocks
func newUserServiceWithMocks(t interface {
	mock.TestingT
	Cleanup(func())
}) (*usersvc.Service, *mocks.MockUserRepository, *mocks.MockUnitOfWork, *mocks.MockBus) {
	userRepo := mocks.NewMockUserRepository(t)
	uow := mocks.NewMockUnitOfWork(t)
	bus := mocks.NewMockBus(t)
	uow.EXPECT().UserRepository().Return(userRepo, nil).Maybe()
	uow.EXPECT().Do(mock.Anything, mock.Anything).RunAndReturn(
		func(ctx context.Context, fn func(repository.UnitOfWork) error) error {
			return fn(uow)
		},
	).Maybe()
	svc := usersvc.New(uow, bus, slog.Default())
	return svc, userRepo, uow, bus
}

func TestCreateUser_Success(t *testing.T) {
	t.Parallel()
	svc, userRepo, _, bus := newUserServiceWithMocks(t)
	userRepo.EXPECT().
		Create(mock.Anything, &dto.UserCreate{Name: "Alice", Email: "alice@example.com"}).
		Return(&dto.UserRead{ID: 1, Name: "Alice", Email: "alice@example.com"}, nil)
	bus.EXPECT().
		Emit(mock.Anything, mock.MatchedBy(func(e events.Event) bool {
			uc, ok := e.(*events.UserCreated)
			return ok && uc.UserID == 1 && uc.Email == "alice@example.com"
		})).
		Return(nil)

	u, err := svc.CreateUser(context.Background(), "  Alice ", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(1), u.ID)
	assert.Equal(t, "Alice", u.Name)
}

func TestCreateUser_ValidationFailsBeforeStore(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newUserServiceWithMocks(t)

	_, err := svc.CreateUser(context.Background(), "", "alice@example.com")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateUser(context.Background(), "Alice", "not-an-email")
	assert.ErrorIs(t, err, user.ErrInvalidEmail)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, userRepo, _, _ := newUserServiceWithMocks(t)
	userRepo.EXPECT().Create(mock.Anything, mock.Anything).Return(nil, user.ErrEmailTaken)

	u, err := svc.CreateUser(context.Background(), "Bob", "bob@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Nil(t, u)
}

func TestCreateUser_EmitFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	svc, userRepo, _, bus := newUserServiceWithMocks(t)
	userRepo.EXPECT().Create(mock.Anything, mock.Anything).
		Return(&dto.UserRead{ID: 2, Name: "Bob", Email: "bob@example.com"}, nil)
	bus.EXPECT().Emit(mock.Anything, mock.Anything).Return(errors.New("broker down"))

	u, err := svc.CreateUser(context.Background(), "Bob", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(2), u.ID)
}

func TestGetUser(t *testing.T) {
	t.Parallel()
	svc, userRepo, _, _ := newUserServiceWithMocks(t)
	want := &dto.UserRead{ID: 3, Name: "Carol"}
	userRepo.EXPECT().Get(mock.Anything, uint(3)).Return(want, nil)
	userRepo.EXPECT().Get(mock.Anything, uint(4)).Return(nil, user.ErrUserNotFound)

	got, err := svc.GetUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = svc.GetUser(context.Background(), 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, got)
}

func TestGetUser_UoWError(t *testing.T) {
	uow := mocks.NewMockUnitOfWork(t)
	expectedErr := errors.New("factory error")
	uow.EXPECT().Do(mock.Anything, mock.Anything).Return(expectedErr)

	svc := usersvc.New(uow, nil, slog.Default())
	_, err := svc.GetUser(context.Background(), 1)
	assert.ErrorIs(t, err, expectedErr)
}

func TestListUsers(t *testing.T) {
	t.Parallel()
	svc, userRepo, _, _ := newUserServiceWithMocks(t)
	userRepo.EXPECT().List(mock.Anything).Return([]*dto.UserRead{{ID: 1}, {ID: 2}}, nil)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

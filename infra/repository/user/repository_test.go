package user

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/findash/infra/repository/common"
	domainuser "github.com/amirasaad/findash/pkg/domain/user"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users" (.+) VALUES (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	got, err := repo.Create(ctx, &dto.UserCreate{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users" (.+) VALUES (.+) RETURNING "id"`).
		WillReturnError(errors.New("create error"))
	mock.ExpectRollback()

	_, err = repo.Create(ctx, &dto.UserCreate{Name: "Ada", Email: "ada@example.com"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users" (.+) VALUES (.+) RETURNING "id"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &dto.UserCreate{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, domainuser.ErrEmailTaken)
}

func TestRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)
	ctx := context.Background()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "created_at", "updated_at"}).
			AddRow(3, "Grace", "grace@example.com", created, created))

	got, err := repo.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, &dto.UserRead{ID: 3, Name: "Grace", Email: "grace@example.com", CreatedAt: created}, got)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.Get(ctx, 99)
	assert.ErrorIs(t, err, domainuser.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectQuery(`SELECT \* FROM "users" ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(1, "A", "a@example.com").
			AddRow(2, "B", "b@example.com"))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, "b@example.com", got[1].Email)
}

func TestRepository_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	ok, err := repo.Exists(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE id = \$1`).
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	ok, err = repo.Exists(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRefine(t *testing.T) {
	t.Parallel()
	other := errors.New("disk full")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, domainuser.ErrUserNotFound},
		{"duplicate key", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), domainuser.ErrEmailTaken},
		{"unmapped", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := refine(common.MapGormErrorToDomain(tt.in))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

package user

import (
	"context"
	"errors"

	"github.com/amirasaad/findash/infra/repository/common"
	"github.com/amirasaad/findash/pkg/domain"
	domainuser "github.com/amirasaad/findash/pkg/domain/user"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/amirasaad/findash/pkg/repository/user"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New returns a gorm backed user.Repository.
func New(db *gorm.DB) user.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create *dto.UserCreate,
) (*dto.UserRead, error) {
	m := &User{
		Name:  create.Name,
		Email: create.Email,
	}
	if err := common.WrapError(func() error {
		return r.db.WithContext(ctx).Create(m).Error
	}); err != nil {
		return nil, refine(err)
	}
	return mapModelToDTO(m), nil
}

func (r *repository) Get(
	ctx context.Context,
	id uint,
) (*dto.UserRead, error) {
	var m User
	if err := common.WrapError(func() error {
		return r.db.WithContext(ctx).First(&m, id).Error
	}); err != nil {
		return nil, refine(err)
	}
	return mapModelToDTO(&m), nil
}

func (r *repository) List(
	ctx context.Context,
) ([]*dto.UserRead, error) {
	var users []User
	if err := common.WrapError(func() error {
		return r.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	}); err != nil {
		return nil, err
	}

	result := make([]*dto.UserRead, 0, len(users))
	for i := range users {
		result = append(result, mapModelToDTO(&users[i]))
	}
	return result, nil
}

func (r *repository) Exists(
	ctx context.Context,
	id uint,
) (bool, error) {
	var count int64
	err := common.WrapError(func() error {
		return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&count).Error
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// refine narrows mapped domain errors to the user package's errors.
func refine(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domainuser.ErrUserNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return domainuser.ErrEmailTaken
	}
	return err
}

func mapModelToDTO(m *User) *dto.UserRead {
	return &dto.UserRead{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}

var _ user.Repository = (*repository)(nil)

// Package common holds the store error mapping shared by the gorm
// repositories.
package common

import (
	"errors"

	"github.com/amirasaad/findash/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors so that callers
// never see driver specific failures. Errors without a mapping are returned
// unchanged.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}

	currentErr := err
	for currentErr != nil {
		switch {
		case errors.Is(currentErr, gorm.ErrDuplicatedKey):
			return domain.ErrAlreadyExists
		case errors.Is(currentErr, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		case errors.Is(currentErr, gorm.ErrForeignKeyViolated):
			return domain.ErrInvalidReference
		}
		currentErr = errors.Unwrap(currentErr)
	}

	return err
}

// WrapError runs a GORM operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(&m).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

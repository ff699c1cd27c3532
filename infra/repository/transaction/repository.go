package transaction

import (
	"context"
	"errors"

	"github.com/amirasaad/findash/infra/repository/common"
	"github.com/amirasaad/findash/pkg/domain"
	domaintx "github.com/amirasaad/findash/pkg/domain/transaction"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/amirasaad/findash/pkg/repository/transaction"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New returns a gorm backed transaction.Repository.
func New(db *gorm.DB) transaction.Repository {
	return &repository{db: db}
}

// Create implements transaction.Repository.
func (r *repository) Create(
	ctx context.Context,
	create dto.TransactionCreate,
) (*dto.TransactionRead, error) {
	m := mapCreateDTOToModel(create)
	if err := common.WrapError(func() error {
		return r.db.WithContext(ctx).Omit("User").Create(&m).Error
	}); err != nil {
		return nil, refine(err)
	}
	return mapModelToDTO(&m), nil
}

// Get implements transaction.Repository.
func (r *repository) Get(
	ctx context.Context,
	id uint,
) (*dto.TransactionRead, error) {
	var m Transaction
	if err := common.WrapError(func() error {
		return r.db.WithContext(ctx).First(&m, id).Error
	}); err != nil {
		return nil, refine(err)
	}
	return mapModelToDTO(&m), nil
}

// List implements transaction.Repository.
func (r *repository) List(
	ctx context.Context,
	filter dto.TransactionFilter,
) ([]*dto.TransactionRead, error) {
	q := r.db.WithContext(ctx).Model(&Transaction{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}

	var rows []Transaction
	if err := common.WrapError(func() error {
		return q.Order("date ASC").Order("id ASC").Find(&rows).Error
	}); err != nil {
		return nil, err
	}

	result := make([]*dto.TransactionRead, 0, len(rows))
	for i := range rows {
		result = append(result, mapModelToDTO(&rows[i]))
	}
	return result, nil
}

// ListByUser implements transaction.Repository.
func (r *repository) ListByUser(
	ctx context.Context,
	userID uint,
) ([]*dto.TransactionRead, error) {
	return r.List(ctx, dto.TransactionFilter{UserID: &userID})
}

func mapCreateDTOToModel(c dto.TransactionCreate) Transaction {
	return Transaction{
		UserID:       c.UserID,
		Date:         c.Date,
		Type:         c.Type,
		Category:     c.Category,
		Amount:       c.Amount,
		AssetSymbol:  c.AssetSymbol,
		Shares:       toNullDecimal(c.Shares),
		PriceAtTrade: toNullDecimal(c.PriceAtTrade),
	}
}

func mapModelToDTO(m *Transaction) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:           m.ID,
		UserID:       m.UserID,
		Date:         m.Date.UTC().Format(domaintx.DateLayout),
		Type:         m.Type,
		Category:     m.Category,
		Amount:       m.Amount,
		AssetSymbol:  m.AssetSymbol,
		Shares:       fromNullDecimal(m.Shares),
		PriceAtTrade: fromNullDecimal(m.PriceAtTrade),
		CreatedAt:    m.CreatedAt,
	}
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

var _ transaction.Repository = (*repository)(nil)

// refine narrows mapped domain errors to the transaction package's errors.
func refine(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domaintx.ErrTransactionNotFound
	case errors.Is(err, domain.ErrInvalidReference):
		return domaintx.ErrUnknownUser
	}
	return err
}

package transaction

import (
	"github.com/amirasaad/findash/pkg/domain/transaction"
	"github.com/shopspring/decimal"
)

// NewTransaction represents the request body for recording a transaction.
// Numbers may be sent as JSON numbers or strings.
type NewTransaction struct {
	UserID       uint             `json:"user_id" validate:"required"`
	Date         string           `json:"date" validate:"required,datetime=2006-01-02"`
	Type         string           `json:"type" validate:"required,oneof=income expense trade"`
	Category     string           `json:"category" validate:"max=50"`
	Amount       decimal.Decimal  `json:"amount" swaggertype:"number"`
	AssetSymbol  *string          `json:"asset_symbol,omitempty" validate:"required_if=Type trade,omitempty,max=20"`
	Shares       *decimal.Decimal `json:"shares,omitempty" validate:"required_if=Type trade" swaggertype:"number"`
	PriceAtTrade *decimal.Decimal `json:"price_at_trade,omitempty" validate:"required_if=Type trade" swaggertype:"number"`
}

func (n *NewTransaction) toParams() (transaction.Params, error) {
	date, err := transaction.ParseDate(n.Date)
	if err != nil {
		return transaction.Params{}, err
	}
	txType, err := transaction.ParseType(n.Type)
	if err != nil {
		return transaction.Params{}, err
	}
	return transaction.Params{
		UserID:       n.UserID,
		Date:         date,
		Type:         txType,
		Category:     n.Category,
		Amount:       n.Amount,
		AssetSymbol:  n.AssetSymbol,
		Shares:       n.Shares,
		PriceAtTrade: n.PriceAtTrade,
	}, nil
}

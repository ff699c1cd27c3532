package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCreate is the repository input for a validated transaction.
type TransactionCreate struct {
	UserID       uint
	Date         time.Time
	Type         string
	Category     string
	Amount       decimal.Decimal
	AssetSymbol  *string
	Shares       *decimal.Decimal
	PriceAtTrade *decimal.Decimal
}

// TransactionRead is the read-optimized view returned by the API.
// Date is formatted as YYYY-MM-DD. Money fields are written as JSON numbers
// carrying the exact decimal digits.
type TransactionRead struct {
	ID           uint             `json:"id"`
	UserID       uint             `json:"user_id"`
	Date         string           `json:"date"`
	Type         string           `json:"type"`
	Category     string           `json:"category"`
	Amount       decimal.Decimal  `json:"amount" swaggertype:"number"`
	AssetSymbol  *string          `json:"asset_symbol"`
	Shares       *decimal.Decimal `json:"shares" swaggertype:"number"`
	PriceAtTrade *decimal.Decimal `json:"price_at_trade" swaggertype:"number"`
	CreatedAt    time.Time        `json:"created_at"`
}

// MarshalJSON writes the decimal fields unquoted. Decoding goes through
// decimal.Decimal, which accepts both quoted and bare numbers.
func (t TransactionRead) MarshalJSON() ([]byte, error) {
	type plain TransactionRead
	return json.Marshal(struct {
		plain
		Amount       json.Number  `json:"amount"`
		Shares       *json.Number `json:"shares"`
		PriceAtTrade *json.Number `json:"price_at_trade"`
	}{
		plain:        plain(t),
		Amount:       json.Number(t.Amount.String()),
		Shares:       number(t.Shares),
		PriceAtTrade: number(t.PriceAtTrade),
	})
}

func number(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := json.Number(d.String())
	return &n
}

// TransactionFilter narrows a transaction listing. A nil UserID lists all users.
type TransactionFilter struct {
	UserID *uint
}

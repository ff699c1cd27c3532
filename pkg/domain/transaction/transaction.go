// Package transaction holds the Transaction entity and the rules that decide
// whether a transaction may be stored.
package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/findash/pkg/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of transaction dates.
const DateLayout = "2006-01-02"

const (
	MaxCategoryLength = 50
	MaxSymbolLength   = 20

	// CategorySell marks a trade that reduces a position.
	CategorySell = "sell"
)

// Type is the closed set of transaction kinds.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
	TypeTrade   Type = "trade"
)

// Types lists every valid Type in a stable order.
var Types = []Type{TypeIncome, TypeExpense, TypeTrade}

func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTrade:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }

var (
	ErrUserRequired         = fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	ErrDateRequired         = fmt.Errorf("%w: date is required", domain.ErrValidation)
	ErrInvalidDate          = fmt.Errorf("%w: date must be formatted as %s", domain.ErrValidation, DateLayout)
	ErrInvalidType          = fmt.Errorf("%w: type must be one of income, expense, trade", domain.ErrValidation)
	ErrAmountMustBePositive = fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	ErrCategoryTooLong      = fmt.Errorf("%w: category must be at most %d characters", domain.ErrValidation, MaxCategoryLength)
	ErrTradeFieldsRequired  = fmt.Errorf("%w: trade requires asset_symbol, shares and price_at_trade", domain.ErrValidation)
	ErrSymbolTooLong        = fmt.Errorf("%w: asset_symbol must be at most %d characters", domain.ErrValidation, MaxSymbolLength)
	ErrSharesMustBePositive = fmt.Errorf("%w: shares must be positive", domain.ErrValidation)
	ErrPriceMustBePositive  = fmt.Errorf("%w: price_at_trade must be positive", domain.ErrValidation)
	// ErrTransactionNotFound is returned when no transaction has the requested ID.
	ErrTransactionNotFound = fmt.Errorf("transaction %w", domain.ErrNotFound)
	// ErrUnknownUser is returned when user_id does not reference an existing user.
	ErrUnknownUser = fmt.Errorf("%w: user_id does not reference an existing user", domain.ErrInvalidReference)
)

// Transaction is a single money movement or trade owned by one user.
type Transaction struct {
	ID           uint
	UserID       uint
	Date         time.Time
	Type         Type
	Category     string
	Amount       decimal.Decimal
	AssetSymbol  *string
	Shares       *decimal.Decimal
	PriceAtTrade *decimal.Decimal
	CreatedAt    time.Time
}

// Params carries the client-supplied fields of a new transaction.
type Params struct {
	UserID       uint
	Date         time.Time
	Type         Type
	Category     string
	Amount       decimal.Decimal
	AssetSymbol  *string
	Shares       *decimal.Decimal
	PriceAtTrade *decimal.Decimal
}

// New checks p and returns an unsaved Transaction. Trade fields are required
// together for trades and dropped for income and expense. Amount is kept as
// given; it is not derived from shares and price.
func New(p Params) (*Transaction, error) {
	if p.UserID == 0 {
		return nil, ErrUserRequired
	}
	if p.Date.IsZero() {
		return nil, ErrDateRequired
	}
	if !p.Type.Valid() {
		return nil, ErrInvalidType
	}
	if !p.Amount.IsPositive() {
		return nil, ErrAmountMustBePositive
	}
	category := strings.TrimSpace(p.Category)
	if len([]rune(category)) > MaxCategoryLength {
		return nil, ErrCategoryTooLong
	}

	tx := &Transaction{
		UserID:    p.UserID,
		Date:      truncateToDay(p.Date),
		Type:      p.Type,
		Category:  category,
		Amount:    p.Amount,
		CreatedAt: time.Now().UTC(),
	}
	if p.Type != TypeTrade {
		return tx, nil
	}

	if p.AssetSymbol == nil || strings.TrimSpace(*p.AssetSymbol) == "" || p.Shares == nil || p.PriceAtTrade == nil {
		return nil, ErrTradeFieldsRequired
	}
	symbol := strings.ToUpper(strings.TrimSpace(*p.AssetSymbol))
	if len(symbol) > MaxSymbolLength {
		return nil, ErrSymbolTooLong
	}
	if !p.Shares.IsPositive() {
		return nil, ErrSharesMustBePositive
	}
	if !p.PriceAtTrade.IsPositive() {
		return nil, ErrPriceMustBePositive
	}
	shares, price := *p.Shares, *p.PriceAtTrade
	tx.AssetSymbol = &symbol
	tx.Shares = &shares
	tx.PriceAtTrade = &price
	return tx, nil
}

// ParseType converts a wire value into a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// IsSell reports whether a trade reduces its position.
func (t *Transaction) IsSell() bool {
	return t.Type == TypeTrade && strings.EqualFold(t.Category, CategorySell)
}

// SignedShares returns the position change of a trade: negative for sells,
// zero for anything that is not a trade.
func (t *Transaction) SignedShares() decimal.Decimal {
	if t.Type != TypeTrade || t.Shares == nil {
		return decimal.Zero
	}
	if t.IsSell() {
		return t.Shares.Neg()
	}
	return *t.Shares
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package transaction_test

import (
	"testing"
	"time"

	"github.com/amirasaad/findash/pkg/domain"
	"github.com/amirasaad/findash/pkg/domain/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := transaction.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestNew_Income(t *testing.T) {
	tx, err := transaction.New(transaction.Params{
		UserID:   1,
		Date:     date(t, "2025-01-05"),
		Type:     transaction.TypeIncome,
		Category: "salary",
		Amount:   decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), tx.UserID)
	assert.Equal(t, "2025-01-05", tx.Date.Format(transaction.DateLayout))
	assert.True(t, decimal.NewFromInt(5000).Equal(tx.Amount))
	assert.Nil(t, tx.AssetSymbol)
	assert.Nil(t, tx.Shares)
	assert.Nil(t, tx.PriceAtTrade)
}

func TestNew_IncomeDropsTradeFields(t *testing.T) {
	tx, err := transaction.New(transaction.Params{
		UserID:       1,
		Date:         date(t, "2025-01-10"),
		Type:         transaction.TypeExpense,
		Category:     "rent",
		Amount:       decimal.NewFromInt(2000),
		AssetSymbol:  ptr("AAPL"),
		Shares:       ptr(decimal.NewFromInt(1)),
		PriceAtTrade: ptr(decimal.NewFromInt(1)),
	})
	require.NoError(t, err)
	assert.Nil(t, tx.AssetSymbol)
	assert.Nil(t, tx.Shares)
	assert.Nil(t, tx.PriceAtTrade)
}

func TestNew_TradeKeepsAmountAsGiven(t *testing.T) {
	tx, err := transaction.New(transaction.Params{
		UserID:       1,
		Date:         date(t, "2025-02-01"),
		Type:         transaction.TypeTrade,
		Category:     "buy",
		Amount:       decimal.NewFromInt(1500),
		AssetSymbol:  ptr(" aapl "),
		Shares:       ptr(decimal.NewFromInt(10)),
		PriceAtTrade: ptr(decimal.NewFromInt(150)),
	})
	require.NoError(t, err)
	require.NotNil(t, tx.AssetSymbol)
	assert.Equal(t, "AAPL", *tx.AssetSymbol)
	assert.True(t, decimal.NewFromInt(1500).Equal(tx.Amount))
	assert.True(t, decimal.NewFromInt(10).Equal(tx.SignedShares()))
}

func TestNew_Invalid(t *testing.T) {
	valid := func() transaction.Params {
		return transaction.Params{
			UserID:       1,
			Date:         date(t, "2025-02-01"),
			Type:         transaction.TypeTrade,
			Category:     "buy",
			Amount:       decimal.NewFromInt(1500),
			AssetSymbol:  ptr("AAPL"),
			Shares:       ptr(decimal.NewFromInt(10)),
			PriceAtTrade: ptr(decimal.NewFromInt(150)),
		}
	}
	testCases := []struct {
		desc    string
		mutate  func(p *transaction.Params)
		wantErr error
	}{
		{"missing user", func(p *transaction.Params) { p.UserID = 0 }, transaction.ErrUserRequired},
		{"missing date", func(p *transaction.Params) { p.Date = time.Time{} }, transaction.ErrDateRequired},
		{"unknown type", func(p *transaction.Params) { p.Type = "transfer" }, transaction.ErrInvalidType},
		{"zero amount", func(p *transaction.Params) { p.Amount = decimal.Zero }, transaction.ErrAmountMustBePositive},
		{"negative amount", func(p *transaction.Params) { p.Amount = decimal.NewFromInt(-1) }, transaction.ErrAmountMustBePositive},
		{"missing symbol", func(p *transaction.Params) { p.AssetSymbol = nil }, transaction.ErrTradeFieldsRequired},
		{"blank symbol", func(p *transaction.Params) { p.AssetSymbol = ptr("  ") }, transaction.ErrTradeFieldsRequired},
		{"missing shares", func(p *transaction.Params) { p.Shares = nil }, transaction.ErrTradeFieldsRequired},
		{"missing price", func(p *transaction.Params) { p.PriceAtTrade = nil }, transaction.ErrTradeFieldsRequired},
		{"zero shares", func(p *transaction.Params) { p.Shares = ptr(decimal.Zero) }, transaction.ErrSharesMustBePositive},
		{"negative price", func(p *transaction.Params) { p.PriceAtTrade = ptr(decimal.NewFromInt(-3)) }, transaction.ErrPriceMustBePositive},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			p := valid()
			tc.mutate(&p)
			tx, err := transaction.New(p)
			assert.Nil(t, tx)
			require.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestParseType(t *testing.T) {
	for _, want := range transaction.Types {
		got, err := transaction.ParseType(" " + string(want) + " ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := transaction.ParseType("transfer")
	assert.ErrorIs(t, err, transaction.ErrInvalidType)
}

func TestParseDate(t *testing.T) {
	d, err := transaction.ParseDate("2025-01-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), d)

	_, err = transaction.ParseDate("05/01/2025")
	assert.ErrorIs(t, err, transaction.ErrInvalidDate)
}

func TestSignedShares(t *testing.T) {
	sell := &transaction.Transaction{Type: transaction.TypeTrade, Category: "SELL", Shares: ptr(decimal.NewFromInt(4))}
	assert.True(t, sell.IsSell())
	assert.True(t, decimal.NewFromInt(-4).Equal(sell.SignedShares()))

	income := &transaction.Transaction{Type: transaction.TypeIncome}
	assert.True(t, income.SignedShares().IsZero())
}

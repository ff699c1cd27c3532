package dashboard

import (
	"slices"

	"github.com/amirasaad/findash/pkg/dto"
)

// TransactionRow is one formatted line of the transactions table.
type TransactionRow struct {
	Date     string
	Type     string
	Category string
	Amount   string
	Symbol   string
	Shares   string
	Price    string
	// Negative marks outflows for styling.
	Negative bool
}

// TransactionRows formats txs newest first. Trade columns stay blank for
// income and expenses.
func TransactionRows(txs []dto.TransactionRead) []TransactionRow {
	rows := make([]TransactionRow, 0, len(txs))
	for _, tx := range txs {
		row := TransactionRow{
			Date:     tx.Date,
			Type:     tx.Type,
			Category: tx.Category,
			Amount:   tx.Amount.StringFixed(2),
			Negative: tx.Amount.IsNegative(),
		}
		if tx.AssetSymbol != nil {
			row.Symbol = *tx.AssetSymbol
		}
		if tx.Shares != nil {
			row.Shares = tx.Shares.String()
		}
		if tx.PriceAtTrade != nil {
			row.Price = tx.PriceAtTrade.StringFixed(2)
		}
		rows = append(rows, row)
	}
	// Dates are YYYY-MM-DD, so string order is date order.
	slices.SortStableFunc(rows, func(a, b TransactionRow) int {
		switch {
		case a.Date > b.Date:
			return -1
		case a.Date < b.Date:
			return 1
		}
		return 0
	})
	return rows
}

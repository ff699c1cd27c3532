package analytics

import (
	"sort"
	"time"

	"github.com/amirasaad/findash/pkg/domain/transaction"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/amirasaad/findash/pkg/provider"
	"github.com/shopspring/decimal"
)

// CashLabel is the allocation slice holding the cash balance.
const CashLabel = "Cash"

// Positions maps an upper-case symbol to its share count.
type Positions map[string]decimal.Decimal

// Symbols returns the held symbols in lexical order.
func (p Positions) Symbols() []string {
	out := make([]string, 0, len(p))
	for s := range p {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// CashBalance is total income minus total expense. Trades do not move cash.
func CashBalance(txs []*dto.TransactionRead) decimal.Decimal {
	cash := decimal.Zero
	for _, t := range txs {
		switch transaction.Type(t.Type) {
		case transaction.TypeIncome:
			cash = cash.Add(t.Amount)
		case transaction.TypeExpense:
			cash = cash.Sub(t.Amount)
		}
	}
	return cash
}

// HeldPositions sums trade shares per symbol. Trades categorised as sells
// reduce the position; symbols netting to zero are dropped.
func HeldPositions(txs []*dto.TransactionRead) Positions {
	pos := Positions{}
	for _, t := range txs {
		if transaction.Type(t.Type) != transaction.TypeTrade || t.AssetSymbol == nil || t.Shares == nil {
			continue
		}
		domainTx := transaction.Transaction{
			Type:     transaction.TypeTrade,
			Category: t.Category,
			Shares:   t.Shares,
		}
		pos[*t.AssetSymbol] = pos[*t.AssetSymbol].Add(domainTx.SignedShares())
	}
	for s, shares := range pos {
		if shares.IsZero() {
			delete(pos, s)
		}
	}
	return pos
}

// Cashflow buckets income and expense by calendar month, oldest first.
func Cashflow(txs []*dto.TransactionRead) []dto.CashflowPoint {
	type bucket struct{ income, expense decimal.Decimal }
	months := map[time.Time]*bucket{}

	for _, t := range txs {
		typ := transaction.Type(t.Type)
		if typ != transaction.TypeIncome && typ != transaction.TypeExpense {
			continue
		}
		d, err := time.Parse(transaction.DateLayout, t.Date)
		if err != nil {
			continue
		}
		key := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		b, ok := months[key]
		if !ok {
			b = &bucket{}
			months[key] = b
		}
		if typ == transaction.TypeIncome {
			b.income = b.income.Add(t.Amount)
		} else {
			b.expense = b.expense.Add(t.Amount)
		}
	}

	keys := make([]time.Time, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	points := make([]dto.CashflowPoint, 0, len(keys))
	for _, k := range keys {
		b := months[k]
		points = append(points, dto.CashflowPoint{
			Date:    k.Format(transaction.DateLayout),
			Income:  b.income.InexactFloat64(),
			Expense: b.expense.InexactFloat64(),
			Net:     b.income.Sub(b.expense).InexactFloat64(),
		})
	}
	return points
}

// ValueSeries values cash plus positions on every day from start to end
// inclusive, using each symbol's last close at or before the day. A symbol
// with no close yet contributes nothing.
func ValueSeries(
	cash decimal.Decimal,
	pos Positions,
	history map[string][]provider.PricePoint,
	start, end time.Time,
) []dto.PortfolioValuePoint {
	start, end = provider.Day(start), provider.Day(end)
	symbols := pos.Symbols()
	cursor := make(map[string]int, len(symbols))
	last := make(map[string]float64, len(symbols))

	var points []dto.PortfolioValuePoint
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		total := cash
		for _, s := range symbols {
			series := history[s]
			i := cursor[s]
			for i < len(series) && !provider.Day(series[i].Date).After(d) {
				last[s] = series[i].Close
				i++
			}
			cursor[s] = i
			total = total.Add(pos[s].Mul(decimal.NewFromFloat(last[s])))
		}
		points = append(points, dto.PortfolioValuePoint{
			Date:  d.Format(transaction.DateLayout),
			Value: total.InexactFloat64(),
		})
	}
	return points
}

// MarketValue is cash plus every position at its price.
func MarketValue(cash decimal.Decimal, pos Positions, prices map[string]float64) decimal.Decimal {
	total := cash
	for s, shares := range pos {
		total = total.Add(shares.Mul(decimal.NewFromFloat(prices[s])))
	}
	return total
}

// Allocation splits the current value into a Cash slice and one slice per
// symbol. Non-positive slices are omitted.
func Allocation(cash decimal.Decimal, pos Positions, prices map[string]float64) []dto.AllocationSlice {
	parts := []dto.AllocationSlice{}
	if cash.IsPositive() {
		parts = append(parts, dto.AllocationSlice{Label: CashLabel, Value: cash.InexactFloat64()})
	}
	for _, s := range pos.Symbols() {
		value := pos[s].Mul(decimal.NewFromFloat(prices[s]))
		if value.IsPositive() {
			parts = append(parts, dto.AllocationSlice{Label: s, Value: value.InexactFloat64()})
		}
	}
	return parts
}

type holdings struct {
	pos  Positions
	cash decimal.Decimal
}

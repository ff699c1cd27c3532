// Package provider defines the market data sources used to value portfolios.
package provider

import (
	"context"
	"errors"
	"time"
)

// ErrNoData is returned when a source has no history for a symbol.
var ErrNoData = errors.New("no price data")

// PricePoint is the closing price of a symbol on one day.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceHistory serves daily closing prices. Implementations return points in
// ascending date order; they may return points outside [start, end].
type PriceHistory interface {
	Name() string
	History(ctx context.Context, symbol string, start, end time.Time) ([]PricePoint, error)
}

// FilterRange keeps the points whose day lies in [start, end].
func FilterRange(points []PricePoint, start, end time.Time) []PricePoint {
	start, end = Day(start), Day(end)
	out := make([]PricePoint, 0, len(points))
	for _, p := range points {
		d := Day(p.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterRange(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	points := []PricePoint{
		{Date: day(1), Close: 1},
		{Date: day(2), Close: 2},
		{Date: day(3).Add(15 * time.Hour), Close: 3},
		{Date: day(4), Close: 4},
	}

	got := FilterRange(points, day(2), day(3))
	assert.Equal(t, []PricePoint{points[1], points[2]}, got)

	assert.Empty(t, FilterRange(points, day(10), day(12)))
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	in := time.Date(2025, 6, 7, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), Day(in))
}

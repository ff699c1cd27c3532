package dashboard

import (
	"github.com/amirasaad/findash/pkg/dto"
)

// Figure is a plotly figure serialised to JSON for Plotly.newPlot.
type Figure struct {
	Data   []Trace        `json:"data"`
	Layout map[string]any `json:"layout"`
}

// Trace is one plotly trace. Only the attributes the dashboard uses are
// modelled.
type Trace struct {
	Type   string         `json:"type"`
	Name   string         `json:"name,omitempty"`
	Mode   string         `json:"mode,omitempty"`
	X      []any          `json:"x,omitempty"`
	Y      []float64      `json:"y,omitempty"`
	Labels []string       `json:"labels,omitempty"`
	Values []float64      `json:"values,omitempty"`
	Hole   float64        `json:"hole,omitempty"`
	Fill   string         `json:"fill,omitempty"`
	Line   map[string]any `json:"line,omitempty"`
	Marker map[string]any `json:"marker,omitempty"`
}

func baseLayout() map[string]any {
	return map[string]any{
		"template": "plotly",
		"margin":   map[string]int{"l": 20, "r": 20, "t": 20, "b": 20},
	}
}

// NetWorthFigure draws the net worth line. It returns nil without points.
func NetWorthFigure(points []dto.NetWorthPoint) *Figure {
	if len(points) == 0 {
		return nil
	}
	x := make([]any, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i], y[i] = p.Date, p.NetWorth
	}
	return &Figure{
		Data: []Trace{{
			Type: "scatter",
			Mode: "lines",
			Name: "Net Worth",
			X:    x,
			Y:    y,
			Line: map[string]any{"color": "#00b894", "width": 3},
		}},
		Layout: baseLayout(),
	}
}

// CashflowFigure stacks income above and expense below zero with the net
// as a line.
func CashflowFigure(points []dto.CashflowPoint) *Figure {
	if len(points) == 0 {
		return nil
	}
	x := make([]any, len(points))
	income := make([]float64, len(points))
	expense := make([]float64, len(points))
	net := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.Date
		income[i] = p.Income
		expense[i] = -p.Expense
		net[i] = p.Net
	}
	layout := baseLayout()
	layout["barmode"] = "relative"
	return &Figure{
		Data: []Trace{
			{Type: "bar", Name: "Income", X: x, Y: income, Marker: map[string]any{"color": "#0984e3"}},
			{Type: "bar", Name: "Expense", X: x, Y: expense, Marker: map[string]any{"color": "#d63031"}},
			{Type: "scatter", Name: "Net", Mode: "lines+markers", X: x, Y: net, Line: map[string]any{"color": "#fdcb6e"}},
		},
		Layout: layout,
	}
}

func AllocationFigure(parts []dto.AllocationSlice) *Figure {
	if len(parts) == 0 {
		return nil
	}
	labels := make([]string, len(parts))
	values := make([]float64, len(parts))
	for i, s := range parts {
		labels[i], values[i] = s.Label, s.Value
	}
	return &Figure{
		Data:   []Trace{{Type: "pie", Labels: labels, Values: values, Hole: 0.3}},
		Layout: baseLayout(),
	}
}

// MonteCarloFigure fills the band between p10 and p90 and draws the median
// on top.
func MonteCarloFigure(res *dto.MonteCarloResult) *Figure {
	if res == nil || len(res.Median) == 0 {
		return nil
	}
	x := make([]any, len(res.Median))
	for i := range x {
		x[i] = i
	}
	band := map[string]any{"color": "#b2bec3"}
	return &Figure{
		Data: []Trace{
			{Type: "scatter", Name: "P10", X: x, Y: res.P10, Line: band},
			{Type: "scatter", Name: "P90", X: x, Y: res.P90, Line: band, Fill: "tonexty"},
			{Type: "scatter", Name: "Median", X: x, Y: res.Median, Line: map[string]any{"color": "#00b894"}},
		},
		Layout: baseLayout(),
	}
}

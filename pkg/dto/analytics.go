package dto

// CashflowPoint is one month of income and expense. Date is the first day of
// the month.
type CashflowPoint struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

type PortfolioValuePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type NetWorthPoint struct {
	Date     string  `json:"date"`
	NetWorth float64 `json:"net_worth"`
}

type AllocationSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MonteCarloParams configures a simulation. Zero values take the defaults.
type MonteCarloParams struct {
	UserID         uint     `json:"user_id"`
	InitialValue   *float64 `json:"initial_value,omitempty"`
	ExpectedReturn *float64 `json:"expected_return,omitempty"`
	Volatility     *float64 `json:"volatility,omitempty"`
	Periods        int      `json:"periods,omitempty"`
	Simulations    int      `json:"simulations,omitempty"`
}

type MonteCarloResult struct {
	Median []float64 `json:"median"`
	P10    []float64 `json:"p10"`
	P90    []float64 `json:"p90"`
}

type SeedResult struct {
	UserID uint `json:"user_id"`
}

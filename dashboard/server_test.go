package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/amirasaad/findash/pkg/client"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) BaseURL() string { return "http://api.test" }

func (m *mockBackend) NetWorth(ctx context.Context, userID uint, asOf string) ([]dto.NetWorthPoint, error) {
	args := m.Called(ctx, userID, asOf)
	points, _ := args.Get(0).([]dto.NetWorthPoint)
	return points, args.Error(1)
}

func (m *mockBackend) Cashflow(ctx context.Context, userID uint) ([]dto.CashflowPoint, error) {
	args := m.Called(ctx, userID)
	points, _ := args.Get(0).([]dto.CashflowPoint)
	return points, args.Error(1)
}

func (m *mockBackend) Allocation(ctx context.Context, userID uint, asOf string) ([]dto.AllocationSlice, error) {
	args := m.Called(ctx, userID, asOf)
	parts, _ := args.Get(0).([]dto.AllocationSlice)
	return parts, args.Error(1)
}

func (m *mockBackend) MonteCarlo(ctx context.Context, params dto.MonteCarloParams) (*dto.MonteCarloResult, error) {
	args := m.Called(ctx, params)
	res, _ := args.Get(0).(*dto.MonteCarloResult)
	return res, args.Error(1)
}

func (m *mockBackend) ListTransactions(ctx context.Context, userID uint) ([]dto.TransactionRead, error) {
	args := m.Called(ctx, userID)
	txs, _ := args.Get(0).([]dto.TransactionRead)
	return txs, args.Error(1)
}

func (m *mockBackend) Seed(ctx context.Context) (*dto.SeedResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*dto.SeedResult)
	return res, args.Error(1)
}

func (m *mockBackend) Health(ctx context.Context) (*client.Health, error) {
	args := m.Called(ctx)
	h, _ := args.Get(0).(*client.Health)
	return h, args.Error(1)
}

func newTestServer(t *testing.T, backend *mockBackend) *fiber.App {
	t.Helper()
	srv, err := New(backend, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return srv.App()
}

func get(t *testing.T, app *fiber.App, target string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestIndex_NoUserSelected(t *testing.T) {
	backend := &mockBackend{}
	app := newTestServer(t, backend)

	status, body := get(t, app, "/")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "No user selected. Click Seed Demo Data to create one.")
	assert.Contains(t, body, "http://api.test/docs/index.html")
	backend.AssertNotCalled(t, "NetWorth", mock.Anything, mock.Anything, mock.Anything)
}

func TestIndex_NetWorthPlot(t *testing.T) {
	backend := &mockBackend{}
	backend.On("NetWorth", mock.Anything, uint(3), "").
		Return([]dto.NetWorthPoint{{Date: "2024-01-31", NetWorth: 1500}}, nil).Once()
	app := newTestServer(t, backend)

	status, body := get(t, app, "/?user_id=3")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Plotly.newPlot")
	assert.Contains(t, body, `"2024-01-31"`)
	backend.AssertExpectations(t)
}

func TestIndex_EmptyTabs(t *testing.T) {
	backend := &mockBackend{}
	backend.On("Cashflow", mock.Anything, uint(1)).Return([]dto.CashflowPoint{}, nil)
	backend.On("Allocation", mock.Anything, uint(1), "").Return([]dto.AllocationSlice{}, nil)
	backend.On("MonteCarlo", mock.Anything, dto.MonteCarloParams{UserID: 1}).Return(&dto.MonteCarloResult{}, nil)
	backend.On("ListTransactions", mock.Anything, uint(1)).Return([]dto.TransactionRead{}, nil)
	app := newTestServer(t, backend)

	for tab, msg := range map[string]string{
		"transactions": "No transactions yet. Add some or seed demo.",
		"cashflow":     "No data yet. Add income/expenses or seed demo.",
		"allocation":   "No positions yet. Add trades or seed demo.",
		"montecarlo":   "Not enough data to simulate.",
	} {
		t.Run(tab, func(t *testing.T) {
			_, body := get(t, app, "/?user_id=1&tab="+tab)
			assert.Contains(t, body, msg)
			assert.NotContains(t, body, "Plotly.newPlot")
		})
	}
}

func TestIndex_TransactionsTable(t *testing.T) {
	symbol := "AAPL"
	shares := decimal.NewFromInt(10)
	price := decimal.RequireFromString("150")
	backend := &mockBackend{}
	backend.On("ListTransactions", mock.Anything, uint(4)).Return([]dto.TransactionRead{
		{ID: 1, UserID: 4, Date: "2025-01-05", Type: "income", Category: "salary", Amount: decimal.NewFromInt(3000)},
		{ID: 2, UserID: 4, Date: "2025-01-10", Type: "expense", Category: "rent", Amount: decimal.RequireFromString("-1200.5")},
		{ID: 3, UserID: 4, Date: "2025-02-01", Type: "trade", Category: "buy", Amount: decimal.NewFromInt(-1500),
			AssetSymbol: &symbol, Shares: &shares, PriceAtTrade: &price},
	}, nil).Once()
	app := newTestServer(t, backend)

	status, body := get(t, app, "/?user_id=4&tab=transactions")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `id="transactions"`)
	assert.Contains(t, body, "-1200.50")
	assert.Contains(t, body, "3000.00")
	assert.Contains(t, body, "AAPL")
	assert.Contains(t, body, "150.00")
	assert.NotContains(t, body, "Plotly.newPlot")
	assert.Less(t, strings.Index(body, "2025-02-01"), strings.Index(body, "2025-01-05"), "newest first")
	backend.AssertExpectations(t)
}

func TestIndex_TransactionsBackendError(t *testing.T) {
	backend := &mockBackend{}
	backend.On("ListTransactions", mock.Anything, uint(5)).
		Return(nil, &client.APIError{StatusCode: 500, Title: "Couldn't list transactions"})
	app := newTestServer(t, backend)

	_, body := get(t, app, "/?user_id=5&tab=transactions")
	assert.Contains(t, body, "Error: ")
	assert.NotContains(t, body, `id="transactions"`)
}

func TestTransactionRows(t *testing.T) {
	rows := TransactionRows([]dto.TransactionRead{
		{Date: "2025-01-01", Type: "income", Category: "salary", Amount: decimal.NewFromInt(10)},
		{Date: "2025-03-01", Type: "expense", Category: "food", Amount: decimal.RequireFromString("-2.345")},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-01", rows[0].Date)
	assert.Equal(t, "-2.35", rows[0].Amount)
	assert.True(t, rows[0].Negative)
	assert.Empty(t, rows[0].Symbol)
	assert.Equal(t, "10.00", rows[1].Amount)
	assert.False(t, rows[1].Negative)
}

func TestIndex_BackendError(t *testing.T) {
	backend := &mockBackend{}
	backend.On("NetWorth", mock.Anything, uint(9), "").
		Return(nil, &client.APIError{StatusCode: 404, Title: "User not found"})
	app := newTestServer(t, backend)

	status, body := get(t, app, "/?user_id=9&tab=unknown")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Error: ")
	assert.Contains(t, body, "User not found")
}

func TestSeed_RedirectsToSeededUser(t *testing.T) {
	backend := &mockBackend{}
	backend.On("Seed", mock.Anything).Return(&dto.SeedResult{UserID: 12}, nil).Once()
	app := newTestServer(t, backend)

	form := url.Values{"tab": {"cashflow"}}
	req := httptest.NewRequest(fiber.MethodPost, "/seed", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get(fiber.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, "12", loc.Query().Get("user_id"))
	assert.Equal(t, "cashflow", loc.Query().Get("tab"))

	backend.On("Cashflow", mock.Anything, uint(12)).Return([]dto.CashflowPoint{}, nil)
	_, body := get(t, app, loc.String())
	assert.Contains(t, body, "Seeded demo data for user_id 12.")
}

func TestSeed_Failure(t *testing.T) {
	backend := &mockBackend{}
	backend.On("Seed", mock.Anything).Return(nil, errors.New("connection refused"))
	app := newTestServer(t, backend)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/seed", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	loc, err := url.Parse(resp.Header.Get(fiber.HeaderLocation))
	require.NoError(t, err)

	_, body := get(t, app, loc.String())
	assert.Contains(t, body, "Seed failed: connection refused")
	assert.Contains(t, body, "No user selected.")
}

func TestHealthz(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		backend := &mockBackend{}
		backend.On("Health", mock.Anything).Return(&client.Health{Status: "ok"}, nil)
		status, body := get(t, newTestServer(t, backend), "/healthz")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, body, `"status":"ok"`)
	})

	t.Run("down", func(t *testing.T) {
		backend := &mockBackend{}
		backend.On("Health", mock.Anything).Return(nil, errors.New("dial tcp: refused"))
		status, _ := get(t, newTestServer(t, backend), "/healthz")
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
	})
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amirasaad/findash/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": status, "message": "ok", "data": data})
}

func TestCreateUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in dto.UserCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		envelope(w, http.StatusCreated, dto.UserRead{ID: 7, Name: in.Name, Email: in.Email})
	}))
	defer srv.Close()

	u, err := New(Config{BaseURL: srv.URL + "/"}).CreateUser(context.Background(), "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(7), u.ID)
	assert.Equal(t, "Ada", u.Name)
}

func TestProblemDetailsBecomeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"type":"about:blank","title":"Couldn't create transaction","status":422,"detail":"unknown user"}`))
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).CreateTransaction(context.Background(), NewTransaction{UserID: 1})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "unknown user", apiErr.Detail)
	assert.Contains(t, apiErr.Error(), "422")
}

func TestPlainErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).ListUsers(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Title)
	assert.Equal(t, "upstream down", apiErr.Detail)
}

func TestAnalyticsQueries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("user_id"))
		switch r.URL.Path {
		case "/api/networth":
			assert.Equal(t, "2025-03-01", r.URL.Query().Get("as_of"))
			envelope(w, http.StatusOK, []dto.NetWorthPoint{{Date: "2025-03-01", NetWorth: 10}})
		case "/api/cashflow":
			assert.Empty(t, r.URL.Query().Get("as_of"))
			envelope(w, http.StatusOK, []dto.CashflowPoint{})
		case "/api/allocation":
			envelope(w, http.StatusOK, []dto.AllocationSlice{{Label: "Cash", Value: 1}})
		case "/api/portfolio/value":
			envelope(w, http.StatusOK, []dto.PortfolioValuePoint{{Date: "2025-03-01", Value: 10}})
		case "/api/transactions":
			envelope(w, http.StatusOK, []dto.TransactionRead{{ID: 1, UserID: 3}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	nw, err := c.NetWorth(ctx, 3, "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, 10.0, nw[0].NetWorth)

	flow, err := c.Cashflow(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, flow)

	parts, err := c.Allocation(ctx, 3, "")
	require.NoError(t, err)
	assert.Equal(t, "Cash", parts[0].Label)

	pv, err := c.PortfolioValue(ctx, 3, "")
	require.NoError(t, err)
	assert.Len(t, pv, 1)

	txs, err := c.ListTransactions(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestMonteCarloSeedAndHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_ = json.NewEncoder(w).Encode(Health{Status: "ok", Service: "Finance Dashboard API"})
		case "/api/montecarlo":
			var p dto.MonteCarloParams
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			assert.Equal(t, 12, p.Periods)
			envelope(w, http.StatusOK, dto.MonteCarloResult{Median: make([]float64, 13)})
		case "/api/demo/seed":
			envelope(w, http.StatusCreated, dto.SeedResult{UserID: 9})
		}
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)

	mc, err := c.MonteCarlo(ctx, dto.MonteCarloParams{UserID: 1, Periods: 12})
	require.NoError(t, err)
	assert.Len(t, mc.Median, 13)

	seeded, err := c.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(9), seeded.UserID)
}

func TestUnreachableBackend(t *testing.T) {
	_, err := New(Config{BaseURL: "http://127.0.0.1:1"}).Health(context.Background())
	assert.Error(t, err)
}

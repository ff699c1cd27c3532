// Package client is a typed HTTP client for the finance dashboard API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amirasaad/findash/pkg/dto"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 30 * time.Second
)

// APIError is a non-2xx answer from the backend, decoded from its problem
// details body when there is one.
type APIError struct {
	StatusCode int    `json:"status"`
	Title      string `json:"title"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Title)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: &jsonTransport{Base: http.DefaultTransport},
			Timeout:   cfg.Timeout,
		},
	}
}

// jsonTransport asks for JSON on every request.
type jsonTransport struct {
	Base http.RoundTripper
}

func (t *jsonTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "findash-client/1.0")
	return t.Base.RoundTrip(req)
}

// BaseURL is the backend address the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Title == "" {
		apiErr.Title = http.StatusText(resp.StatusCode)
		apiErr.Detail = strings.TrimSpace(string(raw))
	}
	apiErr.StatusCode = resp.StatusCode
	return apiErr
}

func userQuery(userID uint, asOf string) url.Values {
	q := url.Values{"user_id": {strconv.FormatUint(uint64(userID), 10)}}
	if asOf != "" {
		q.Set("as_of", asOf)
	}
	return q
}

// Health is the backend's root status document.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health calls GET /. The root endpoint is not enveloped.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) CreateUser(ctx context.Context, name, email string) (*dto.UserRead, error) {
	var u dto.UserRead
	err := c.do(ctx, http.MethodPost, "/api/users", nil, dto.UserCreate{Name: name, Email: email}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]dto.UserRead, error) {
	var users []dto.UserRead
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// NewTransaction is the request body of CreateTransaction. Decimal values
// are sent as strings to keep their precision.
type NewTransaction struct {
	UserID       uint   `json:"user_id"`
	Date         string `json:"date"`
	Type         string `json:"type"`
	Category     string `json:"category,omitempty"`
	Amount       string `json:"amount"`
	AssetSymbol  string `json:"asset_symbol,omitempty"`
	Shares       string `json:"shares,omitempty"`
	PriceAtTrade string `json:"price_at_trade,omitempty"`
}

func (c *Client) CreateTransaction(ctx context.Context, tx NewTransaction) (*dto.TransactionRead, error) {
	var out dto.TransactionRead
	if err := c.do(ctx, http.MethodPost, "/api/transactions", nil, tx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTransactions lists one user's transactions, or everyone's when
// userID is 0.
func (c *Client) ListTransactions(ctx context.Context, userID uint) ([]dto.TransactionRead, error) {
	var q url.Values
	if userID != 0 {
		q = userQuery(userID, "")
	}
	var txs []dto.TransactionRead
	if err := c.do(ctx, http.MethodGet, "/api/transactions", q, nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *Client) Cashflow(ctx context.Context, userID uint) ([]dto.CashflowPoint, error) {
	var points []dto.CashflowPoint
	if err := c.do(ctx, http.MethodGet, "/api/cashflow", userQuery(userID, ""), nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// NetWorth fetches the net worth series. An empty asOf means today.
func (c *Client) NetWorth(ctx context.Context, userID uint, asOf string) ([]dto.NetWorthPoint, error) {
	var points []dto.NetWorthPoint
	if err := c.do(ctx, http.MethodGet, "/api/networth", userQuery(userID, asOf), nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *Client) PortfolioValue(ctx context.Context, userID uint, asOf string) ([]dto.PortfolioValuePoint, error) {
	var points []dto.PortfolioValuePoint
	if err := c.do(ctx, http.MethodGet, "/api/portfolio/value", userQuery(userID, asOf), nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *Client) Allocation(ctx context.Context, userID uint, asOf string) ([]dto.AllocationSlice, error) {
	var parts []dto.AllocationSlice
	if err := c.do(ctx, http.MethodGet, "/api/allocation", userQuery(userID, asOf), nil, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

func (c *Client) MonteCarlo(ctx context.Context, params dto.MonteCarloParams) (*dto.MonteCarloResult, error) {
	var out dto.MonteCarloResult
	if err := c.do(ctx, http.MethodPost, "/api/montecarlo", nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Seed(ctx context.Context) (*dto.SeedResult, error) {
	var out dto.SeedResult
	if err := c.do(ctx, http.MethodPost, "/api/demo/seed", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

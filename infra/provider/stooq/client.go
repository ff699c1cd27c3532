// Package stooq reads daily close history from stooq.com CSV downloads.
package stooq

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/amirasaad/findash/pkg/provider"
	"github.com/andybalholm/brotli"
)

const (
	// Name identifies this provider in configuration and logs.
	Name = "stooq"

	userAgent = "findash/1.0"
	csvHeader = "Date,Open,High,Low,Close,Volume"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements provider.PriceHistory against stooq.
type Client struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://stooq.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client: &http.Client{
			Transport: &headerTransport{Base: http.DefaultTransport},
			Timeout:   cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger.With("provider", Name),
	}
}

// headerTransport identifies the client and asks for brotli bodies.
type headerTransport struct {
	Base http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("Accept-Encoding", "br")
	return t.Base.RoundTrip(req)
}

func (c *Client) Name() string { return Name }

// History downloads the full daily history of symbol, trying the bare ticker
// first and then the ".us" listing. start and end are not sent upstream.
func (c *Client) History(
	ctx context.Context,
	symbol string,
	start, end time.Time,
) ([]provider.PricePoint, error) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}

	var lastErr error
	for _, candidate := range []string{symbol, symbol + ".us"} {
		points, err := c.fetch(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Debug("stooq fetch failed", "symbol", candidate, "error", err)
			lastErr = err
			continue
		}
		if len(points) > 0 {
			return points, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w for %s: %w", provider.ErrNoData, symbol, lastErr)
	}
	return nil, fmt.Errorf("%w for %s", provider.ErrNoData, symbol)
}

func (c *Client) fetch(ctx context.Context, symbol string) ([]provider.PricePoint, error) {
	q := url.Values{}
	q.Set("s", symbol)
	q.Set("i", "d")
	endpoint := fmt.Sprintf("%s/q/d/l/?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}
	return ParseCSV(resp.Body)
}

// ParseCSV reads a stooq daily CSV. Bodies without the expected header yield
// no points; rows with an unparsable date or close are skipped. The result is
// sorted by date.
func ParseCSV(r io.Reader) ([]provider.PricePoint, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if strings.Join(header, ",") != csvHeader {
		return nil, nil
	}

	var points []provider.PricePoint
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, err
		}
		if len(row) < 5 {
			continue
		}
		day, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			continue
		}
		closePrice, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			continue
		}
		points = append(points, provider.PricePoint{Date: day, Close: closePrice})
	}

	slices.SortStableFunc(points, func(a, b provider.PricePoint) int {
		return a.Date.Compare(b.Date)
	})
	return points, nil
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}

var _ provider.PriceHistory = (*Client)(nil)

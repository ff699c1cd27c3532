// Package dashboard renders a user's finances as plotly charts and a
// transactions table. It reads everything from the backend API and keeps no
// state of its own.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/amirasaad/findash/pkg/client"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

//go:embed templates/*.html
var templateFS embed.FS

// Backend is the slice of the API client the dashboard needs. *client.Client
// satisfies it.
type Backend interface {
	BaseURL() string
	NetWorth(ctx context.Context, userID uint, asOf string) ([]dto.NetWorthPoint, error)
	Cashflow(ctx context.Context, userID uint) ([]dto.CashflowPoint, error)
	Allocation(ctx context.Context, userID uint, asOf string) ([]dto.AllocationSlice, error)
	MonteCarlo(ctx context.Context, params dto.MonteCarloParams) (*dto.MonteCarloResult, error)
	ListTransactions(ctx context.Context, userID uint) ([]dto.TransactionRead, error)
	Seed(ctx context.Context) (*dto.SeedResult, error)
	Health(ctx context.Context) (*client.Health, error)
}

type Tab struct {
	ID    string
	Label string
	// Empty is shown when the tab has nothing to plot.
	Empty string
}

var _ Backend = (*client.Client)(nil)

var Tabs = []Tab{
	{ID: "networth", Label: "Net Worth", Empty: "No data yet. Add transactions or seed demo."},
	{ID: "cashflow", Label: "Cash Flow", Empty: "No data yet. Add income/expenses or seed demo."},
	{ID: "allocation", Label: "Allocation", Empty: "No positions yet. Add trades or seed demo."},
	{ID: "montecarlo", Label: "Monte Carlo", Empty: "Not enough data to simulate."},
	{ID: "transactions", Label: "Transactions", Empty: "No transactions yet. Add some or seed demo."},
}

const DefaultTab = "networth"

func findTab(id string) (Tab, bool) {
	for _, t := range Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

// page is the template model of index.html.
type page struct {
	Title      string
	DocsURL    string
	Tabs       []Tab
	Active     string
	UserID     string
	Warning    string
	Error      string
	Info       string
	Empty      string
	FigureJSON template.JS
	Rows       []TransactionRow
}

type Server struct {
	backend Backend
	logger  *slog.Logger
	tmpl    *template.Template
}

func New(backend Backend, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard templates: %w", err)
	}
	return &Server{
		backend: backend,
		logger:  log.With("component", "dashboard"),
		tmpl:    tmpl,
	}, nil
}

// App builds the fiber application serving the dashboard.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{AppName: "Finance Dashboard"})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Get("/", s.index)
	app.Post("/seed", s.seed)
	app.Get("/healthz", s.healthz)
	return app
}

func (s *Server) index(c *fiber.Ctx) error {
	tabID := c.Query("tab", DefaultTab)
	tab, ok := findTab(tabID)
	if !ok {
		tab, _ = findTab(DefaultTab)
	}
	p := page{
		Title:   "Finance Dashboard",
		DocsURL: s.backend.BaseURL() + "/docs/index.html",
		Tabs:    Tabs,
		Active:  tab.ID,
		UserID:  c.Query("user_id"),
	}
	if seeded := c.Query("seeded"); seeded != "" {
		p.Info = "Seeded demo data for user_id " + seeded + "."
	}
	if failed := c.Query("seed_error"); failed != "" {
		p.Info = "Seed failed: " + failed
	}

	userID, err := strconv.ParseUint(p.UserID, 10, 64)
	if p.UserID == "" || err != nil || userID == 0 {
		p.Warning = "No user selected. Click Seed Demo Data to create one."
		return s.render(c, p)
	}

	if tab.ID == "transactions" {
		txs, err := s.backend.ListTransactions(c.UserContext(), uint(userID))
		switch {
		case err != nil:
			s.logger.Warn("backend request failed", "tab", tab.ID, "user_id", userID, "error", err)
			p.Error = "Error: " + err.Error()
		case len(txs) == 0:
			p.Empty = tab.Empty
		default:
			p.Rows = TransactionRows(txs)
		}
		return s.render(c, p)
	}

	fig, err := s.figure(c.UserContext(), tab.ID, uint(userID))
	switch {
	case err != nil:
		s.logger.Warn("backend request failed", "tab", tab.ID, "user_id", userID, "error", err)
		p.Error = "Error: " + err.Error()
	case fig == nil:
		p.Empty = tab.Empty
	default:
		raw, err := json.Marshal(fig)
		if err != nil {
			return err
		}
		p.FigureJSON = template.JS(raw) //nolint:gosec // marshalled from typed values
	}
	return s.render(c, p)
}

func (s *Server) figure(ctx context.Context, tab string, userID uint) (*Figure, error) {
	switch tab {
	case "cashflow":
		points, err := s.backend.Cashflow(ctx, userID)
		if err != nil {
			return nil, err
		}
		return CashflowFigure(points), nil
	case "allocation":
		parts, err := s.backend.Allocation(ctx, userID, "")
		if err != nil {
			return nil, err
		}
		return AllocationFigure(parts), nil
	case "montecarlo":
		res, err := s.backend.MonteCarlo(ctx, dto.MonteCarloParams{UserID: userID})
		if err != nil {
			return nil, err
		}
		return MonteCarloFigure(res), nil
	default:
		points, err := s.backend.NetWorth(ctx, userID, "")
		if err != nil {
			return nil, err
		}
		return NetWorthFigure(points), nil
	}
}

func (s *Server) render(c *fiber.Ctx, p page) error {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", p); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) seed(c *fiber.Ctx) error {
	tab := c.FormValue("tab", DefaultTab)
	q := url.Values{"tab": {tab}}
	res, err := s.backend.Seed(c.UserContext())
	if err != nil {
		s.logger.Warn("seed failed", "error", err)
		q.Set("user_id", c.FormValue("user_id"))
		q.Set("seed_error", err.Error())
	} else {
		id := strconv.FormatUint(uint64(res.UserID), 10)
		q.Set("user_id", id)
		q.Set("seeded", id)
	}
	return c.Redirect("/?"+q.Encode(), fiber.StatusSeeOther)
}

func (s *Server) healthz(c *fiber.Ctx) error {
	backend, err := s.backend.Health(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok", "backend": backend})
}

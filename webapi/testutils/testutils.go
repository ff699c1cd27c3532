// Package testutils runs the fiber app end to end against an in-memory
// SQLite database.
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"

	"github.com/amirasaad/findash/infra"
	infracache "github.com/amirasaad/findash/infra/cache"
	infraeventbus "github.com/amirasaad/findash/infra/eventbus"
	"github.com/amirasaad/findash/infra/provider/simulated"
	infrarepo "github.com/amirasaad/findash/infra/repository"
	"github.com/amirasaad/findash/pkg/app"
	"github.com/amirasaad/findash/pkg/config"
	"github.com/amirasaad/findash/pkg/service/market"
	"github.com/amirasaad/findash/webapi"
	"github.com/amirasaad/findash/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// E2ETestSuite provides a test suite backed by a fresh SQLite database.
type E2ETestSuite struct {
	suite.Suite
	db    *gorm.DB
	app   *fiber.App
	App   *app.App
	Bus   *infraeventbus.MemoryEventBus
	Cfg   *config.App
	cache *infracache.MemoryCache
}

// SetupSuite opens the database and builds the application.
func (s *E2ETestSuite) SetupSuite() {
	s.Cfg = &config.App{
		Env:       "test",
		DB:        &config.DB{Url: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())},
		RateLimit: &config.RateLimit{},
		Cors:      &config.Cors{AllowOrigins: "*"},
		Market:    &config.Market{Provider: "simulated"},
	}

	var err error
	s.db, err = infra.NewDBConnection(s.Cfg.DB, s.Cfg.Env)
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Bus = infraeventbus.NewWithMemory(logger, infraeventbus.WithPublishedLog(1024))
	s.cache = infracache.NewMemoryCache()
	prices := simulated.NewWithRand(rand.New(rand.NewPCG(1, 2)))
	mkt := market.New(prices, nil, s.cache, market.Options{}, logger)

	s.App = app.New(&app.Deps{
		Uow:      infrarepo.NewUoW(s.db),
		EventBus: s.Bus,
		Market:   mkt,
		Logger:   logger,
	}, s.Cfg)
	s.app = webapi.SetupApp(s.App)
}

// TearDownSuite waits for background work and closes the database.
func (s *E2ETestSuite) TearDownSuite() {
	if s.App != nil {
		_ = s.App.Close()
	}
	if s.cache != nil {
		_ = s.cache.Close()
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// MakeRequest is a helper for making HTTP requests in tests
func (s *E2ETestSuite) MakeRequest(method, path, body string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// DecodeData reads a success envelope and decodes its data into out.
func (s *E2ETestSuite) DecodeData(resp *http.Response, out any) {
	defer resp.Body.Close() //nolint:errcheck
	var envelope struct {
		common.Response
		Data json.RawMessage `json:"data"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	if out != nil {
		s.Require().NoError(json.Unmarshal(envelope.Data, out))
	}
}

// DecodeProblem reads a problem details body.
func (s *E2ETestSuite) DecodeProblem(resp *http.Response) common.ProblemDetails {
	defer resp.Body.Close() //nolint:errcheck
	var pd common.ProblemDetails
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}

// CreateTestUser creates a unique user through POST /api/users and returns
// its ID.
func (s *E2ETestSuite) CreateTestUser() uint {
	suffix := uuid.NewString()[:8]
	body := fmt.Sprintf(`{"name":"Test %s","email":"test_%s@example.com"}`, suffix, suffix)
	resp := s.MakeRequest(fiber.MethodPost, "/api/users", body)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	var created struct {
		ID uint `json:"id"`
	}
	s.DecodeData(resp, &created)
	s.Require().NotZero(created.ID)
	return created.ID
}

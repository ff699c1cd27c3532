package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/amirasaad/findash/pkg/config"
	"github.com/amirasaad/findash/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

type MainTestSuite struct {
	testutils.E2ETestSuite
}

func TestMainTestSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}

func (s *MainTestSuite) TestRootRoute() {
	resp := s.MakeRequest(http.MethodGet, "/", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *MainTestSuite) TestNotFoundRoute() {
	resp := s.MakeRequest(http.MethodGet, "/doesnotexist", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *MainTestSuite) TestUnknownUserAnalytics() {
	resp := s.MakeRequest(http.MethodGet, "/api/networth?user_id=999999", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestListenAddr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8000", listenAddr(nil))
	assert.Equal(t, "127.0.0.1:9000", listenAddr(&config.Server{Host: "127.0.0.1", Port: 9000}))
}

func TestServe_StopsOnCancel(t *testing.T) {
	f := fiber.New(fiber.Config{DisableStartupMessage: true})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, f, "127.0.0.1:0", slog.Default()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

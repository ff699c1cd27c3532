package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirasaad/findash/infra/initializer"
	"github.com/amirasaad/findash/pkg/app"
	"github.com/amirasaad/findash/pkg/config"
	"github.com/amirasaad/findash/webapi"
	log "github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

const shutdownTimeout = 10 * time.Second

// @title Finance Dashboard API
// @version 1.0.0
// @description Personal finance tracking: users, transactions and portfolio analytics.
// @license.name MIT
// @host localhost:8000
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger

	a := app.New(deps, cfg)
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("Failed to release resources", "error", err)
		}
	}()

	fiberApp := webapi.SetupApp(a)
	addr := listenAddr(cfg.Server)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, fiberApp, addr, logger)
}

func listenAddr(s *config.Server) string {
	if s == nil {
		return "0.0.0.0:8000"
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// serve listens until ctx is cancelled and then drains in-flight requests.
func serve(ctx context.Context, f *fiber.App, addr string, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() { errCh <- f.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("Shutting down server")
	if err := f.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

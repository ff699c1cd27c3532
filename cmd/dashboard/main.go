package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirasaad/findash/dashboard"
	"github.com/amirasaad/findash/pkg/client"
	"github.com/amirasaad/findash/pkg/config"
	log "github.com/charmbracelet/log"
)

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
	logger := slog.New(log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
		Prefix:          "[dashboard]",
	}))

	api := client.New(client.Config{
		BaseURL: cfg.Dashboard.BackendURL,
		Timeout: cfg.Dashboard.Timeout,
	})
	srv, err := dashboard.New(api, logger)
	if err != nil {
		return err
	}
	f := srv.App()

	addr := fmt.Sprintf("%s:%d", cfg.Dashboard.Host, cfg.Dashboard.Port)
	logger.Info("Starting dashboard", "address", addr, "backend", api.BaseURL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if err := f.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Error("Dashboard shutdown failed", "error", err)
		}
	}()
	return f.Listen(addr)
}

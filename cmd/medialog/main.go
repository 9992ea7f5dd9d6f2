package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/medialog/internal/apiclient"
	"github.com/mmynk/medialog/internal/catalog"
	"github.com/mmynk/medialog/internal/config"
	"github.com/mmynk/medialog/internal/console"
	"github.com/mmynk/medialog/internal/session"
	"github.com/mmynk/medialog/pkg/logging"
)

func main() {
	// Logs go to stderr; stdout belongs to the console.
	logger := logging.Setup()

	cfg, err := config.LoadClient()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.New(logger)
	client := apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithRateLimit(cfg.RequestsPerSecond, cfg.RequestBurst),
		apiclient.WithTokenSource(sessions),
		apiclient.WithLogger(logger),
	)
	catalogs := catalog.New(client, cfg.CatalogTTL, logger)

	slog.Debug("Client configured", "api_url", cfg.APIURL, "timeout", cfg.RequestTimeout)

	c := console.New(client, catalogs, sessions, os.Stdout, logger)
	if err := c.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		slog.Error("Console failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/medialog/internal/auth"
	"github.com/mmynk/medialog/internal/config"
	"github.com/mmynk/medialog/internal/service"
	"github.com/mmynk/medialog/internal/storage/sqlite"
	"github.com/mmynk/medialog/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := logging.Setup()

	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	api := service.NewServer(service.Config{
		Store:         store,
		Authenticator: auth.NewPasswordAuthenticator(store),
		JWTManager:    auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration),
		Logger:        logger,
		CORSOrigins:   cfg.CORSOrigins,
		Registry:      reg,
	})

	srv := &http.Server{
		Addr: cfg.Addr(),
		// h2c serves HTTP/2 without TLS next to plain HTTP/1.1.
		Handler:           h2c.NewHandler(api, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting", "address", srv.Addr, "url", "http://localhost"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown error", "error", err)
		}
	}
}

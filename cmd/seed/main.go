// Package main seeds a MediaLog SQLite database with the demo data set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/medialog/internal/auth"
	"github.com/mmynk/medialog/internal/config"
	"github.com/mmynk/medialog/internal/seed"
	"github.com/mmynk/medialog/internal/storage/sqlite"
	"github.com/mmynk/medialog/pkg/logging"
)

func main() {
	logger := logging.Setup()

	cfg, err := config.LoadSeed()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var dbPath, password string
	var reset bool
	flag.StringVar(&dbPath, "db", cfg.DBPath, "SQLite database path")
	flag.BoolVar(&reset, "reset", false, "delete the database before seeding")
	flag.StringVar(&password, "password", seed.DefaultPassword, "password for every demo account")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if reset {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			slog.Error("Failed to clear database", "database", dbPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Cleared existing data", "database", dbPath)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	res, err := seed.New(store, auth.NewPasswordAuthenticator(store), password, logger).Run(ctx)
	if err != nil {
		slog.Error("Seed failed", "error", err, "hint", "run with -reset to start from an empty database")
		store.Close()
		os.Exit(1)
	}

	fmt.Printf("Seeded %d users, %d items (sign in as jack@example.com / %s)\n", res.Users, res.Items, password)
}

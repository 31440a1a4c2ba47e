// Package main is the entry point for the expense tracker API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"paperless/internal/auth"
	"paperless/internal/config"
	"paperless/internal/database"
	"paperless/internal/httpapi"
	"paperless/internal/logger"
	"paperless/internal/repository"
	"paperless/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("paperless %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	logger.InitHashSalt()

	// Amounts serialize as JSON numbers, matching the API contract.
	decimal.MarshalJSONWithoutQuotes = true

	if cfg.OTelEnabled {
		shutdown, err := telemetry.Setup(ctx, telemetry.Options{
			Exporter: cfg.OTelExporter,
			Endpoint: cfg.OTelEndpoint,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to set up telemetry")
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Log.Error().Err(err).Msg("Telemetry shutdown failed")
			}
		}()
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Log.Info().Msg("Database initialized successfully")

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	var google *auth.GoogleClient
	if cfg.GoogleEnabled() {
		google = auth.NewGoogleClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	}

	server := httpapi.New(cfg, httpapi.Stores{
		Users:      repository.NewUserRepository(pool),
		Categories: repository.NewCategoryRepository(pool),
		Entries:    repository.NewEntryRepository(pool),
	}, tokens, google, pool)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error().Err(err).Msg("HTTP server shutdown failed")
		}
		cancel()
	}()

	if err := server.Start(); err != nil {
		logger.Log.Fatal().Err(err).Msg("HTTP server failed")
	}
}

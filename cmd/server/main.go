// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/christiankenc/letspopin-matching/internal/api"
	"github.com/christiankenc/letspopin-matching/internal/config"
	"github.com/christiankenc/letspopin-matching/internal/logging"
	"github.com/christiankenc/letspopin-matching/internal/supervisor"
	"github.com/christiankenc/letspopin-matching/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("driver", cfg.Store.Driver).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting LetsPopIn matching server")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Server stopped")
}

func run(cfg *config.Config) error {
	store, err := openStore(&cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Store.SeedFile != "" {
		n, err := seedProfiles(ctx, store, cfg.Store.SeedFile)
		if err != nil {
			return err
		}
		logging.Info().Int("profiles", n).Str("file", cfg.Store.SeedFile).Msg("Seeded profiles")
	}

	embedder, err := newEmbedder(&cfg.Embedding)
	if err != nil {
		return err
	}
	extractor, err := newExtractor(&cfg.Extractor)
	if err != nil {
		return err
	}
	engine, err := newEngine(&cfg.Match, store, embedder)
	if err != nil {
		return err
	}

	handler, err := api.NewHandler(api.Dependencies{
		Store:          store,
		Matcher:        engine,
		Extractor:      extractor,
		EmbedderName:   embedder.ProviderName(),
		RequestTimeout: cfg.Server.Timeout,
	})
	if err != nil {
		return err
	}

	chiMW := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSMaxAge:         300,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, chiMW).SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// extraction calls can take most of the request budget
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddDataService(services.NewVectorWarmerService(engine, services.VectorWarmerConfig{
		OnStartup: cfg.Match.WarmOnStartup,
		Interval:  cfg.Match.WarmInterval,
	}, logging.Logger()))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}
	return nil
}

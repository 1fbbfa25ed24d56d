// Package main runs the credit-card fraud exploratory dashboard: it loads the
// transaction table once, then serves the four views over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"creditcard-eda/internal/config"
	"creditcard-eda/internal/dashboard"
	"creditcard-eda/internal/dataset"
	"creditcard-eda/internal/logger"
)

func main() {
	// Load .env file if exists
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Parse(os.Args[0], os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		var dse *dataset.DataSourceError
		if errors.As(err, &dse) {
			log.Fatal().Err(err).Str("source", dse.Source).Str("op", dse.Op).
				Msg("Cannot load the transaction dataset; the dashboard will not start")
		}
		log.Fatal().Err(err).Msg("Dashboard stopped")
	}
	log.Info().Msg("Shutdown complete")
}

// source picks the dataset source from the configuration.
func source(cfg *config.Config) (dataset.Source, error) {
	if cfg.UseFixtures {
		return &dataset.FixtureSource{Rows: cfg.FixtureRows, Seed: cfg.FixtureSeed}, nil
	}
	return dataset.Open(cfg.Data)
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	src, err := source(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	table, err := dataset.NewLoader(src, log).Load(ctx)
	if err != nil {
		return err
	}

	srv, err := dashboard.NewServer(dashboard.Options{
		Table:        table,
		Source:       src.Name(),
		LoadDuration: time.Since(start),
		PreviewRows:  cfg.PreviewRows,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	servers := []*http.Server{{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.MetricsAddr != "" && cfg.MetricsAddr != cfg.Addr {
		servers = append(servers, &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           srv.OpsHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	errCh := make(chan error, len(servers))
	for _, hs := range servers {
		go func(hs *http.Server) {
			log.Info().Str("addr", hs.Addr).Msg("Starting HTTP server")
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server %s: %w", hs.Addr, err)
			}
		}(hs)
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("Received shutdown signal, stopping HTTP servers")
	case err := <-errCh:
		shutdown(servers, cfg.ShutdownTimeout, log)
		return err
	}

	shutdown(servers, cfg.ShutdownTimeout, log)
	return nil
}

func shutdown(servers []*http.Server, timeout time.Duration, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, hs := range servers {
		if err := hs.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Str("addr", hs.Addr).Msg("Graceful shutdown failed")
		}
	}
}

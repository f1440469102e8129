package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/castaway-labs/castaway/internal/adapters/directory"
	"github.com/castaway-labs/castaway/internal/adapters/ollama"
	"github.com/castaway-labs/castaway/internal/adapters/player"
	"github.com/castaway-labs/castaway/internal/adapters/rest"
	"github.com/castaway-labs/castaway/internal/adapters/rules"
	"github.com/castaway-labs/castaway/internal/adapters/sqlite"
	"github.com/castaway-labs/castaway/internal/config"
	"github.com/castaway-labs/castaway/internal/core/ports"
	"github.com/castaway-labs/castaway/internal/core/services"
	"github.com/castaway-labs/castaway/internal/logging"
	"github.com/castaway-labs/castaway/internal/metrics"
	"github.com/castaway-labs/castaway/internal/worker"
)

func main() {
	configFile := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Logging)

	// Driven adapters.
	repo, err := sqlite.NewAdapter(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer repo.Close()

	var fallback ports.FallbackInterpreter
	if cfg.Fallback.Enabled {
		fallback = ollama.NewClient(cfg.Fallback.Endpoint, cfg.Fallback.Model)
	}

	var catalog ports.DirectoryProvider
	if cfg.Directory.Enabled {
		catalog = directory.NewClient(cfg.Directory.BaseURL, directory.Credentials{
			ClientID:     cfg.Directory.ClientID,
			ClientSecret: cfg.Directory.ClientSecret,
			TokenURL:     cfg.Directory.TokenURL,
		})
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Background refresh pool, fed by subscribe commands and a timer.
	var refresher services.Refresher
	var pool *worker.Pool
	if catalog != nil {
		pool = worker.NewPool(repo, catalog, cfg.Refresh.QueueSize, log.With().Str("component", "worker").Logger())
		pool.Start(cfg.Refresh.Workers)
		defer pool.Stop()
		refresher = pool
	}

	// Core service.
	svc := services.NewAssistant(services.Deps{
		Parser:    rules.New(),
		Fallback:  fallback,
		Library:   repo,
		Player:    player.New(),
		Directory: catalog,
		Refresh:   refresher,
		Metrics:   metrics.New(registry),
		Log:       log.With().Str("component", "assistant").Logger(),
	})

	handler := rest.NewHandler(svc, registry, log.With().Str("component", "rest").Logger())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if pool != nil && cfg.Refresh.IntervalMinutes > 0 {
		go pool.RunPeriodic(ctx, time.Duration(cfg.Refresh.IntervalMinutes)*time.Minute)
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("castaway API is running")

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}
}

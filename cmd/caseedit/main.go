package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/caseedit/internal/api"
	"github.com/snarg/caseedit/internal/archive"
	"github.com/snarg/caseedit/internal/config"
	"github.com/snarg/caseedit/internal/importer"
	"github.com/snarg/caseedit/internal/store"
	"github.com/snarg/caseedit/internal/task"
	"github.com/snarg/caseedit/internal/transcribe"
)

var version = "dev"

func main() {
	var overrides config.Overrides
	flag.StringVar(&overrides.EnvFile, "env-file", "", "path to .env file")
	flag.StringVar(&overrides.HTTPAddr, "addr", "", "http listen address")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "log level (trace..error)")
	flag.StringVar(&overrides.ResourcesDir, "resources", "", "durable per-case audio directory")
	flag.StringVar(&overrides.StaticDir, "static", "", "static file directory")
	flag.StringVar(&overrides.DataDir, "data", "", "case-data document directory")
	flag.Parse()

	// Config
	cfg, err := config.Load(overrides)
	if err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("failed to load config")
	}

	// Logger
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	log.Info().Str("version", version).Msg("caseedit starting")
	if cfg.InsecureTLS {
		log.Warn().Msg("TLS certificate verification disabled for archive fetches")
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wiring: archive fetcher -> importer -> task manager -> ASR provider
	fetcher := archive.NewClient(cfg.FetchTimeout, cfg.InsecureTLS)
	provider := transcribe.NewWhisperClient(cfg.ASRURL, cfg.ASRAPIKey, cfg.ASRModel, cfg.ASRTimeout)
	tasks := task.NewManager(provider, log)
	imp := importer.New(fetcher, tasks, cfg.ResourcesDir, log)
	st := store.New(cfg.DataDir)

	// HTTP Server
	httpLog := log.With().Str("component", "http").Logger()
	srv := api.NewServer(cfg, imp, tasks, st, httpLog)

	// Start HTTP server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	// Graceful shutdown with 10s timeout. In-flight transcription
	// workers are detached and simply stop with the process; tasks are
	// not persisted.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	log.Info().Msg("caseedit stopped")
}

// cmd/web/main.go
//
// Videk – resolution-service entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Connect Vault when VAULT_ADDR is set; config references resolve
//     through it, plain deployments run without one.
//
//  4. Load and validate configuration (YAML + env overlays + secrets).
//
//  5. Open the control-plane DB and log the active-site count.
//
//  6. Assemble the pipeline: store → resolvers → site cache → settings
//     aggregator → HTTP boundary.
//
//  7. Serve /metrics (Prometheus) beside the API and shut down cleanly on
//     SIGINT/SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/videkhq/videk/internal/config"
	"github.com/videkhq/videk/internal/database"
	"github.com/videkhq/videk/internal/language"
	"github.com/videkhq/videk/internal/logger"
	"github.com/videkhq/videk/internal/resolver"
	"github.com/videkhq/videk/internal/server"
	"github.com/videkhq/videk/internal/settings"
	"github.com/videkhq/videk/internal/sitecache"
	"github.com/videkhq/videk/internal/store"
	"github.com/videkhq/videk/internal/vault"
)

const serverEnvPath = "/usr/local/etc/videk/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Secrets (optional) ──────────────────────────────────────────
	//
	var secrets config.SecretSource
	if os.Getenv("VAULT_ADDR") != "" {
		cli, err := vault.New(ctx)
		if err != nil {
			logOut.Fatalw("vault connect", "err", err)
		}
		secrets = cli
		logOut.Infow("vault online")
	}

	//
	// ── 2.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		logOut.Fatalw("load config", "err", err)
	}

	//
	// ── 3.  Global DB connect ───────────────────────────────────────────
	//
	logOut.Infow("connecting to control-plane DB")
	globalDB, err := database.Open(ctx, cfg.Database.DSN())
	if err != nil {
		logOut.Fatalw("connect control-plane DB", "err", err)
	}
	defer globalDB.Close()
	logOut.Infow("control-plane DB online")

	// Log active-site count as an early sanity check.
	var active int
	_ = globalDB.GetContext(ctx, &active,
		`SELECT COUNT(*) FROM site WHERE is_active = TRUE`)
	logOut.Infow("active sites", "count", active)

	//
	// ── 4.  Resolution pipeline ─────────────────────────────────────────
	//
	st := store.New(globalDB)
	langs := language.New(cfg.Platform.Languages, cfg.Platform.DefaultLanguage)

	sites := sitecache.New(
		resolver.NewSiteResolver(st, cfg.Platform.DefaultSiteID),
		sitecache.IdleTTL, sitecache.MaxEntries,
	)
	defer sites.Close()

	srv := server.New(langs, sites,
		resolver.NewEntityResolver(st),
		settings.NewAggregator(st, langs),
		st,
	)

	//
	// ── 5.  HTTP: API + metrics ─────────────────────────────────────────
	//
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", srv.Router())

	httpSrv := server.NewHTTPServer(cfg.HTTP.ListenAddr, mux)

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)

	//
	// ── 6.  Shutdown ────────────────────────────────────────────────────
	//
	select {
	case <-ctx.Done():
		logOut.Infow("shutdown signal received")
		shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutCtx); err != nil {
			logOut.Errorw("shutdown", "err", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logOut.Fatalw("http server", "err", err)
		}
	}
	logOut.Infow("bye")
}

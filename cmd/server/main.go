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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phuslu/log"

	"github.com/kjannette/newsimpact-backend/internal/analysis"
	"github.com/kjannette/newsimpact-backend/internal/api"
	"github.com/kjannette/newsimpact-backend/internal/app"
	"github.com/kjannette/newsimpact-backend/internal/config"
	"github.com/kjannette/newsimpact-backend/internal/db"
	"github.com/kjannette/newsimpact-backend/internal/logging"
	"github.com/kjannette/newsimpact-backend/internal/notifications"
	"github.com/kjannette/newsimpact-backend/internal/repository"
	"github.com/kjannette/newsimpact-backend/internal/scheduler"
)

const banner = `
╔══════════════════════════════════════╗
║       News Impact Backend v0.1       ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	core, err := app.NewCore(ctx, cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	// History (optional)
	var (
		pool    *pgxpool.Pool
		history *repository.AnalysisRepo
	)
	deps := api.Deps{Prices: core.Prices, Reliability: core.Reliability}
	if cfg.HistoryEnabled {
		log.Info().Str("host", cfg.DBHost).Int("port", cfg.DBPort).Str("db", cfg.DBName).Msg("db: connecting")
		pool, err = db.Connect(ctx, cfg.DSN())
		if err != nil {
			log.Fatal().Err(err).Msg("db: connection failed")
		}
		defer func() {
			pool.Close()
			log.Info().Msg("db: connection pool closed")
		}()
		if err := db.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("db: schema setup failed")
		}
		history = repository.NewAnalysisRepo(pool)
		deps.History = history
		deps.DBPing = func(ctx context.Context) error { return db.Ping(ctx, pool) }
	}

	// Notifications
	notify := notifications.NewSender(cfg.WebhookURL, cfg.BotName)

	var recorder analysis.HistoryRecorder
	if history != nil {
		recorder = history
	}
	var notifier analysis.Notifier
	if notify.Enabled() {
		notifier = notify
	}
	deps.Pipeline = core.Pipeline(cfg, recorder, notifier)

	// 1. API server
	srv := api.NewServer(deps, api.Options{
		Port:            cfg.APIPort,
		APIKey:          cfg.APIKey,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		RatePerMinute:   cfg.APIRatePerMinute,
	})
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("api: server error")
		}
	}()

	// 2. Cache purge schedule
	var purger *scheduler.CachePurger
	if cfg.CachePurgeCron != "" {
		purger, err = scheduler.NewCachePurger(core.Prices.Cache(), scheduler.PurgerConfig{Schedule: cfg.CachePurgeCron})
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler: setup failed")
		}
		purger.Start()
	} else {
		log.Info().Msg("scheduler: cache purge disabled")
	}

	log.Info().Msg("all services started")

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully")

	if purger != nil {
		purger.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("api: shutdown error")
	}
	log.Info().Msg("shutdown complete")
}

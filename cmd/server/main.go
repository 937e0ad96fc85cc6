package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulvo/backend/internal/app"
	"fulvo/backend/internal/config"
	"fulvo/backend/internal/database"
	"fulvo/backend/internal/logging"
	"fulvo/backend/internal/metrics"
	"fulvo/backend/internal/scheduler"
	"fulvo/backend/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	_ "fulvo/backend/docs"
)

const shutdownTimeout = 10 * time.Second

// @title           Fulvo API
// @version         1.0
// @description     Backend for Fulvo, amateur football match organisation.
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		boot := logging.New("error", false)
		boot.Fatal().Err(err).Msg("Failed to load config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogPretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewService(registry)

	deps, err := app.DepsFromConfig(ctx, cfg, db, m, log)
	if err != nil {
		return err
	}
	a := app.New(deps)

	if cfg.SchedulerEnabled {
		sched, err := scheduler.New(deps.Location, deps.Clock, log.With().Str("component", "scheduler").Logger())
		if err != nil {
			return err
		}
		err = scheduler.RegisterJobs(sched, scheduler.Schedules{
			SeasonRollover:    cfg.SeasonRolloverCron,
			SubscriptionSweep: cfg.SubscriptionCron,
		}, a.Leagues, a.Payments)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				log.Error().Err(err).Msg("Scheduler shutdown failed")
			}
		}()
	}

	router := a.Router(metrics.NewMetricsHandler(registry), true)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.WithCORS(router, []string{cfg.CORSOrigin}),
		ReadHeaderTimeout: 10 * time.Second,
		// SSE streams end when ctx is cancelled.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

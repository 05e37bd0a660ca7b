package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osegonte/football-dashboard/internal/app"
	"github.com/osegonte/football-dashboard/internal/config"
	"github.com/osegonte/football-dashboard/internal/platform/logging"
	"github.com/osegonte/football-dashboard/internal/usecase"
)

func main() {
	runOnce := flag.Bool("run", false, "execute one pipeline run and exit instead of serving")
	daysAhead := flag.Int("days", 0, "override look-ahead window in days")
	teamLimit := flag.Int("team-limit", 0, "override enrichment candidates per run")
	interval := flag.Duration("interval", 0, "override scheduler interval and enable the scheduler")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if *daysAhead > 0 {
		cfg.PipelineDaysAhead = *daysAhead
	}
	if *teamLimit > 0 {
		cfg.PipelineTeamLimit = *teamLimit
	}
	if *interval > 0 {
		cfg.SchedulerEnabled = true
		cfg.SchedulerInterval = *interval
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() { _ = application.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *runOnce {
		runAndExit(ctx, application, logger)
		return
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := application.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	if application.Scheduler != nil {
		go func() {
			logger.Info("scheduler starting", "interval", cfg.SchedulerInterval.String())
			_ = application.Scheduler.Run(ctx)
		}()
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("http server stopped")
}

func runAndExit(ctx context.Context, application *app.App, logger *logging.Logger) {
	status, err := application.Pipeline.RunOnce(ctx)
	if err != nil {
		logger.Error("pipeline run failed to start", "error", err)
		os.Exit(1)
	}
	if status.State == usecase.RunStateFailed {
		logger.Error("pipeline run failed", "errors", status.Errors)
		os.Exit(1)
	}

	logger.Info("pipeline run finished",
		"matches_scraped", status.Stats.MatchesScraped,
		"matches_stored", status.Stats.MatchesStored,
		"teams_created", status.Stats.TeamsCreated,
		"leagues_created", status.Stats.LeaguesCreated,
		"teams_enriched", status.Stats.TeamsEnriched,
	)
}

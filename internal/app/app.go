package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/osegonte/football-dashboard/external/browser"
	"github.com/osegonte/football-dashboard/external/sofascore"
	"github.com/osegonte/football-dashboard/external/wikipedia"
	"github.com/osegonte/football-dashboard/internal/config"
	"github.com/osegonte/football-dashboard/internal/domain/league"
	"github.com/osegonte/football-dashboard/internal/domain/match"
	"github.com/osegonte/football-dashboard/internal/domain/team"
	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
	"github.com/osegonte/football-dashboard/internal/infrastructure/repository/memory"
	"github.com/osegonte/football-dashboard/internal/infrastructure/repository/postgres"
	"github.com/osegonte/football-dashboard/internal/interfaces/httpapi"
	"github.com/osegonte/football-dashboard/internal/platform/logging"
	"github.com/osegonte/football-dashboard/internal/platform/resilience"
	"github.com/osegonte/football-dashboard/internal/usecase"
)

// App holds the wired service graph plus the handles the entrypoint
// needs to run and shut it down.
type App struct {
	Server    *http.Server
	Pipeline  *usecase.PipelineService
	Scheduler *usecase.Scheduler

	db *sqlx.DB
}

type repositories struct {
	leagues  league.Repository
	teams    team.Repository
	matches  match.Repository
	teamData teamdata.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		repos repositories
		db    *sqlx.DB
		err   error
	)
	if cfg.DBURL == "" {
		logger.Info("no DB_URL configured, using in-memory store")
		repos = newMemoryRepositories()
	} else {
		db, err = sqlx.Connect("postgres", cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		repos = newPostgresRepositories(db)
	}

	sofaScoreClient := sofascore.NewClient(sofascore.ClientConfig{
		BaseURL:    cfg.SofaScoreBaseURL,
		Timeout:    cfg.SofaScoreTimeout,
		MaxRetries: cfg.SofaScoreMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SofaScoreCircuitEnabled,
			FailureThreshold: cfg.SofaScoreCircuitFailureCount,
			OpenTimeout:      cfg.SofaScoreCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SofaScoreCircuitHalfOpenMaxReq,
		},
	})
	wikipediaClient := wikipedia.NewClient(wikipedia.ClientConfig{
		APIBaseURL: cfg.WikipediaBaseURL,
		Timeout:    cfg.WikipediaTimeout,
		Logger:     logger,
	})

	var fallback usecase.EnrichmentSource
	if cfg.BrowserEnabled {
		fallback = browser.NewClient(browser.ClientConfig{
			Timeout:   cfg.BrowserTimeout,
			SearchURL: cfg.BrowserSearchURL,
			Logger:    logger,
		})
	}

	reconciler := usecase.NewReconcileService(repos.leagues, repos.teams, repos.matches, logger)
	enricher := usecase.NewEnrichmentService(
		repos.teamData,
		[]usecase.EnrichmentSource{wikipediaClient, sofaScoreClient},
		fallback,
		usecase.EnrichmentConfig{
			DataDir:  cfg.DataDir,
			DelayMin: cfg.EnrichDelayMin,
			DelayMax: cfg.EnrichDelayMax,
		},
		logger,
	)
	pipeline := usecase.NewPipelineService(
		[]usecase.FixtureFetcher{sofaScoreClient},
		reconciler,
		enricher,
		usecase.PipelineConfig{
			DaysAhead: cfg.PipelineDaysAhead,
			TeamLimit: cfg.PipelineTeamLimit,
		},
		logger,
	)
	query := usecase.NewQueryService(repos.leagues, repos.teams, repos.matches, repos.teamData)

	handler := httpapi.NewHandler(pipeline, query, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{
		Server:   server,
		Pipeline: pipeline,
		db:       db,
	}
	if cfg.SchedulerEnabled {
		a.Scheduler = usecase.NewScheduler(pipeline, cfg.SchedulerInterval, logger)
	}

	return a, nil
}

func newMemoryRepositories() repositories {
	dataRepo := memory.NewTeamDataRepository()
	return repositories{
		leagues:  memory.NewLeagueRepository(),
		teams:    memory.NewTeamRepository(dataRepo),
		matches:  memory.NewMatchRepository(),
		teamData: dataRepo,
	}
}

func newPostgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		leagues:  postgres.NewLeagueRepository(db),
		teams:    postgres.NewTeamRepository(db),
		matches:  postgres.NewMatchRepository(db),
		teamData: postgres.NewTeamDataRepository(db),
	}
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

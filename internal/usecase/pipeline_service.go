package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/osegonte/football-dashboard/internal/domain/match"
	"github.com/osegonte/football-dashboard/internal/platform/logging"
	"github.com/osegonte/football-dashboard/internal/platform/resilience"
	"github.com/sourcegraph/conc/panics"
)

type RunState string

const (
	RunStateIdle                RunState = "idle"
	RunStateFetchingFixtures    RunState = "fetching_fixtures"
	RunStateReconciling         RunState = "reconciling"
	RunStateSelectingCandidates RunState = "selecting_candidates"
	RunStateEnriching           RunState = "enriching"
	RunStateDone                RunState = "done"
	RunStateFailed              RunState = "failed"
)

// RunStats aggregates counters across all stages of one run.
type RunStats struct {
	DaysProcessed  int `json:"days_processed"`
	MatchesScraped int `json:"matches_scraped"`
	MatchesStored  int `json:"matches_stored"`
	TeamsCreated   int `json:"teams_created"`
	LeaguesCreated int `json:"leagues_created"`
	RecordsFailed  int `json:"records_failed"`
	Candidates     int `json:"candidates"`
	TeamsEnriched  int `json:"teams_enriched"`
	EnrichFailed   int `json:"enrich_failed"`
	SourcesFailed  int `json:"sources_failed"`
}

// RunStatus is an immutable snapshot of the current or most recent run.
// Readers always get a consistent view; the pipeline swaps in a fresh
// snapshot on every transition instead of mutating a shared one.
type RunStatus struct {
	State      RunState   `json:"state"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Stats      RunStats   `json:"stats"`
	Errors     []string   `json:"errors,omitempty"`
}

// FixtureFetchResult is one source's haul for a date range.
type FixtureFetchResult struct {
	DaysProcessed int
	TotalMatches  int
	Records       []match.RawRecord
}

// FixtureFetcher lists raw fixture records from one external provider.
type FixtureFetcher interface {
	Name() string
	FetchMatchesForDateRange(ctx context.Context, from, to time.Time) (FixtureFetchResult, error)
}

type PipelineConfig struct {
	DaysAhead int
	TeamLimit int
}

func normalizePipelineConfig(cfg PipelineConfig) PipelineConfig {
	if cfg.DaysAhead <= 0 {
		cfg.DaysAhead = 7
	}
	if cfg.TeamLimit <= 0 {
		cfg.TeamLimit = 25
	}
	return cfg
}

// PipelineService orchestrates the full acquisition run: fetch raw
// fixtures from every source, reconcile them into the store, select
// enrichment candidates and enrich them. At most one run is in flight
// at a time; a second start is refused with ErrRunInProgress rather
// than queued.
type PipelineService struct {
	fetchers   []FixtureFetcher
	reconciler *ReconcileService
	enricher   *EnrichmentService
	cfg        PipelineConfig
	logger     *logging.Logger
	now        func() time.Time

	gate   resilience.Gate
	status atomic.Pointer[RunStatus]
}

func NewPipelineService(
	fetchers []FixtureFetcher,
	reconciler *ReconcileService,
	enricher *EnrichmentService,
	cfg PipelineConfig,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}

	s := &PipelineService{
		fetchers:   fetchers,
		reconciler: reconciler,
		enricher:   enricher,
		cfg:        normalizePipelineConfig(cfg),
		logger:     logger,
		now:        time.Now,
	}
	s.status.Store(&RunStatus{State: RunStateIdle})

	return s
}

// Status returns the latest run snapshot.
func (s *PipelineService) Status() RunStatus {
	return *s.status.Load()
}

// RunOnce executes a full pipeline run synchronously. It returns
// ErrRunInProgress when another run holds the gate.
func (s *PipelineService) RunOnce(ctx context.Context) (RunStatus, error) {
	if !s.gate.TryAcquire() {
		return s.Status(), ErrRunInProgress
	}
	defer s.gate.Release()

	return s.run(ctx), nil
}

// Start launches a run in the background and returns immediately. The
// run keeps going even if the caller's request context is cancelled.
func (s *PipelineService) Start(ctx context.Context) error {
	if !s.gate.TryAcquire() {
		return ErrRunInProgress
	}

	runCtx := context.WithoutCancel(ctx)
	go func() {
		defer s.gate.Release()

		var recovered panics.Catcher
		recovered.Try(func() { s.run(runCtx) })
		if r := recovered.Recovered(); r != nil {
			s.logger.ErrorContext(runCtx, "pipeline run panicked", "panic", r.String())
			s.transition(func(st *RunStatus) {
				st.State = RunStateFailed
				st.Errors = append(st.Errors, fmt.Sprintf("panic: %v", r.Value))
				finished := s.now().UTC()
				st.FinishedAt = &finished
			})
		}
	}()

	return nil
}

func (s *PipelineService) run(ctx context.Context) RunStatus {
	started := s.now().UTC()
	s.status.Store(&RunStatus{
		State:     RunStateFetchingFixtures,
		StartedAt: &started,
	})
	s.logger.InfoContext(ctx, "pipeline run started", "days_ahead", s.cfg.DaysAhead)

	records := s.fetchFixtures(ctx)

	s.transition(func(st *RunStatus) { st.State = RunStateReconciling })
	reconcileStats := s.reconciler.ProcessRecords(ctx, records)
	s.transition(func(st *RunStatus) {
		st.Stats.MatchesStored = reconcileStats.Matches
		st.Stats.TeamsCreated = reconcileStats.Teams
		st.Stats.LeaguesCreated = reconcileStats.Leagues
		st.Stats.RecordsFailed = reconcileStats.Failed
	})

	s.transition(func(st *RunStatus) { st.State = RunStateSelectingCandidates })
	candidates, err := s.reconciler.SelectCandidates(ctx, s.cfg.TeamLimit)
	if err != nil {
		// A broken selection costs this run its enrichment stage; the
		// run still completes with what reconciliation stored.
		s.logger.ErrorContext(ctx, "candidate selection failed", "error", err)
		s.recordError(fmt.Errorf("select candidates: %w", err))
		candidates = nil
	} else if err := s.enricher.SaveCandidates(ctx, candidates); err != nil {
		s.logger.WarnContext(ctx, "save candidates artifact failed", "error", err)
		s.recordError(fmt.Errorf("save candidates: %w", err))
	}
	s.transition(func(st *RunStatus) { st.Stats.Candidates = len(candidates) })

	if len(candidates) > 0 {
		s.transition(func(st *RunStatus) { st.State = RunStateEnriching })
		enrichStats, err := s.enricher.EnrichTeams(ctx, candidates)
		s.transition(func(st *RunStatus) {
			st.Stats.TeamsEnriched = enrichStats.Enriched
			st.Stats.EnrichFailed = enrichStats.Failed
		})
		if err != nil {
			// EnrichTeams absorbs per-team and per-source trouble into
			// its stats; an error here means the run context died.
			return s.fail(ctx, fmt.Errorf("enrich teams: %w", err))
		}
	}

	finished := s.now().UTC()
	s.transition(func(st *RunStatus) {
		st.State = RunStateDone
		st.FinishedAt = &finished
	})
	final := s.Status()
	s.logger.InfoContext(ctx, "pipeline run finished",
		"matches_stored", final.Stats.MatchesStored,
		"teams_created", final.Stats.TeamsCreated,
		"leagues_created", final.Stats.LeaguesCreated,
		"teams_enriched", final.Stats.TeamsEnriched,
		"duration", finished.Sub(started).String(),
	)

	return final
}

// fetchFixtures collects raw records from every source. A failing
// source is logged and counted; the others still contribute.
func (s *PipelineService) fetchFixtures(ctx context.Context) []match.RawRecord {
	from := s.now().UTC().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, s.cfg.DaysAhead-1)

	var records []match.RawRecord
	maxDays := 0
	for _, fetcher := range s.fetchers {
		result, err := fetcher.FetchMatchesForDateRange(ctx, from, to)
		if err != nil {
			s.logger.WarnContext(ctx, "fixture source failed",
				"source", fetcher.Name(),
				"error", err,
			)
			s.transition(func(st *RunStatus) { st.Stats.SourcesFailed++ })
			s.recordError(fmt.Errorf("source %s: %w", fetcher.Name(), err))
			continue
		}
		records = append(records, result.Records...)
		if result.DaysProcessed > maxDays {
			maxDays = result.DaysProcessed
		}
		s.logger.InfoContext(ctx, "fixture source done",
			"source", fetcher.Name(),
			"matches", result.TotalMatches,
			"days", result.DaysProcessed,
		)
	}

	s.transition(func(st *RunStatus) {
		st.Stats.DaysProcessed = maxDays
		st.Stats.MatchesScraped = len(records)
	})

	return records
}

func (s *PipelineService) fail(ctx context.Context, err error) RunStatus {
	s.logger.ErrorContext(ctx, "pipeline run failed", "error", err)
	finished := s.now().UTC()
	s.transition(func(st *RunStatus) {
		st.State = RunStateFailed
		st.Errors = append(st.Errors, err.Error())
		st.FinishedAt = &finished
	})

	return s.Status()
}

func (s *PipelineService) recordError(err error) {
	s.transition(func(st *RunStatus) {
		st.Errors = append(st.Errors, err.Error())
	})
}

// transition copies the current snapshot, applies mutate and swaps the
// copy in. Only the run goroutine writes, so a plain load/store pair
// is race free for writers and lock free for readers.
func (s *PipelineService) transition(mutate func(*RunStatus)) {
	current := s.status.Load()
	next := *current
	next.Errors = append([]string(nil), current.Errors...)
	mutate(&next)
	s.status.Store(&next)
}

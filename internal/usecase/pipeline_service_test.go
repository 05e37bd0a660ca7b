package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osegonte/football-dashboard/internal/domain/match"
	"github.com/osegonte/football-dashboard/internal/domain/team"
	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
	"github.com/osegonte/football-dashboard/internal/infrastructure/repository/memory"
	"github.com/osegonte/football-dashboard/internal/platform/logging"
)

type stubFetcher struct {
	name    string
	records []match.RawRecord
	err     error
	block   chan struct{}
}

func (f *stubFetcher) Name() string { return f.name }

func (f *stubFetcher) FetchMatchesForDateRange(ctx context.Context, from, to time.Time) (FixtureFetchResult, error) {
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return FixtureFetchResult{}, f.err
	}
	return FixtureFetchResult{
		DaysProcessed: int(to.Sub(from).Hours()/24) + 1,
		TotalMatches:  len(f.records),
		Records:       f.records,
	}, nil
}

type pipelineFixture struct {
	reconcile reconcileFixture
	pipeline  *PipelineService
	enricher  *EnrichmentService
	wikipedia *stubSource
}

func newPipelineFixture(t *testing.T, fetchers ...FixtureFetcher) *pipelineFixture {
	t.Helper()

	fx := newReconcileFixture()
	wikipedia := &stubSource{name: teamdata.SourceWikipedia, fetch: func(_ context.Context, teamName, _ string) (teamdata.Partial, bool, error) {
		return teamdata.Partial{Stadium: teamName + " Stadium", Source: teamdata.SourceWikipedia}, true, nil
	}}
	enricher := NewEnrichmentService(fx.dataRepo, []EnrichmentSource{wikipedia}, nil, EnrichmentConfig{
		DataDir: t.TempDir(),
	}, logging.NewNop())
	enricher.sleep = func(time.Duration) {}

	pipeline := NewPipelineService(fetchers, fx.service, enricher, PipelineConfig{
		DaysAhead: 3,
		TeamLimit: 10,
	}, logging.NewNop())

	return &pipelineFixture{
		reconcile: fx,
		pipeline:  pipeline,
		enricher:  enricher,
		wikipedia: wikipedia,
	}
}

func TestRunOnce_FullRun(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{name: "sofascore", records: []match.RawRecord{
		sampleRecord(),
		{
			ExternalID: "ss-1002",
			HomeTeam:   "Liverpool",
			AwayTeam:   "Everton",
			Date:       "2025-05-11",
			League:     "Premier League",
			Country:    "England",
			Source:     "sofascore",
		},
	}}
	fx := newPipelineFixture(t, fetcher)

	status, err := fx.pipeline.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}

	if status.State != RunStateDone {
		t.Fatalf("expected done, got %s (errors=%v)", status.State, status.Errors)
	}
	if status.Stats.MatchesScraped != 2 || status.Stats.MatchesStored != 2 {
		t.Fatalf("unexpected match counters: %+v", status.Stats)
	}
	if status.Stats.TeamsCreated != 4 || status.Stats.LeaguesCreated != 1 {
		t.Fatalf("unexpected entity counters: %+v", status.Stats)
	}
	if status.Stats.Candidates != 4 || status.Stats.TeamsEnriched != 4 {
		t.Fatalf("every new team should be enriched: %+v", status.Stats)
	}
	if status.StartedAt == nil || status.FinishedAt == nil {
		t.Fatalf("timestamps missing: %+v", status)
	}
}

func TestRunOnce_RejectsConcurrentRun(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	fetcher := &stubFetcher{name: "sofascore", block: block}
	fx := newPipelineFixture(t, fetcher)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = fx.pipeline.RunOnce(context.Background())
	}()

	// Wait for the background run to take the gate.
	deadline := time.After(2 * time.Second)
	for fx.pipeline.Status().State == RunStateIdle {
		select {
		case <-deadline:
			t.Fatal("background run never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := fx.pipeline.RunOnce(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}

	close(block)
	<-done

	if _, err := fx.pipeline.RunOnce(context.Background()); errors.Is(err, ErrRunInProgress) {
		t.Fatal("gate must be free after the run finished")
	}
}

func TestRunOnce_FailingSourceDoesNotSinkRun(t *testing.T) {
	t.Parallel()

	broken := &stubFetcher{name: "sofascore", err: errors.New("blocked by provider")}
	working := &stubFetcher{name: "fallback", records: []match.RawRecord{sampleRecord()}}
	fx := newPipelineFixture(t, broken, working)

	status, err := fx.pipeline.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}

	if status.State != RunStateDone {
		t.Fatalf("run must finish despite one dead source, got %s", status.State)
	}
	if status.Stats.SourcesFailed != 1 {
		t.Fatalf("expected 1 failed source, got %d", status.Stats.SourcesFailed)
	}
	if status.Stats.MatchesStored != 1 {
		t.Fatalf("working source must still land its match: %+v", status.Stats)
	}
	if len(status.Errors) != 1 {
		t.Fatalf("source failure must be recorded: %v", status.Errors)
	}
}

type failingCandidateTeamRepo struct {
	*memory.TeamRepository
	err error
}

func (r *failingCandidateTeamRepo) ListNeedingData(context.Context, int) ([]team.Team, error) {
	return nil, r.err
}

func TestRunOnce_CandidateSelectionFailureDoesNotSinkRun(t *testing.T) {
	t.Parallel()

	leagueRepo := memory.NewLeagueRepository()
	dataRepo := memory.NewTeamDataRepository()
	teamRepo := &failingCandidateTeamRepo{
		TeamRepository: memory.NewTeamRepository(dataRepo),
		err:            errors.New("store temporarily unavailable"),
	}
	matchRepo := memory.NewMatchRepository()
	reconciler := NewReconcileService(leagueRepo, teamRepo, matchRepo, logging.NewNop())

	wikipedia := &stubSource{name: teamdata.SourceWikipedia}
	enricher := NewEnrichmentService(dataRepo, []EnrichmentSource{wikipedia}, nil, EnrichmentConfig{
		DataDir: t.TempDir(),
	}, logging.NewNop())
	enricher.sleep = func(time.Duration) {}

	fetcher := &stubFetcher{name: "sofascore", records: []match.RawRecord{sampleRecord()}}
	pipeline := NewPipelineService([]FixtureFetcher{fetcher}, reconciler, enricher, PipelineConfig{
		DaysAhead: 3,
		TeamLimit: 10,
	}, logging.NewNop())

	status, err := pipeline.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}

	if status.State != RunStateDone {
		t.Fatalf("run must finish despite the selection failure, got %s (errors=%v)", status.State, status.Errors)
	}
	if status.Stats.MatchesStored != 1 || status.Stats.TeamsCreated != 2 || status.Stats.LeaguesCreated != 1 {
		t.Fatalf("reconciliation results must survive: %+v", status.Stats)
	}
	if status.Stats.Candidates != 0 || status.Stats.TeamsEnriched != 0 {
		t.Fatalf("expected zero candidates and no enrichment: %+v", status.Stats)
	}
	if wikipedia.calls != 0 {
		t.Fatalf("enrichment sources must stay idle, calls=%d", wikipedia.calls)
	}
	if len(status.Errors) != 1 {
		t.Fatalf("selection failure must be recorded once: %v", status.Errors)
	}
}

func TestRunOnce_SkipsEnrichmentWithoutCandidates(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{name: "sofascore"}
	fx := newPipelineFixture(t, fetcher)

	status, err := fx.pipeline.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}

	if status.State != RunStateDone {
		t.Fatalf("expected done, got %s", status.State)
	}
	if status.Stats.Candidates != 0 || status.Stats.TeamsEnriched != 0 {
		t.Fatalf("nothing to enrich: %+v", status.Stats)
	}
	if fx.wikipedia.calls != 0 {
		t.Fatalf("enrichment sources must stay idle, calls=%d", fx.wikipedia.calls)
	}
}

func TestStart_RunsInBackground(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{name: "sofascore", records: []match.RawRecord{sampleRecord()}}
	fx := newPipelineFixture(t, fetcher)

	if err := fx.pipeline.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		status := fx.pipeline.Status()
		if status.State == RunStateDone {
			if status.Stats.MatchesStored != 1 {
				t.Fatalf("unexpected stats: %+v", status.Stats)
			}
			return
		}
		if status.State == RunStateFailed {
			t.Fatalf("background run failed: %v", status.Errors)
		}
		select {
		case <-deadline:
			t.Fatalf("background run never finished, state=%s", status.State)
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestStatus_IdleBeforeFirstRun(t *testing.T) {
	t.Parallel()

	fx := newPipelineFixture(t, &stubFetcher{name: "sofascore"})

	status := fx.pipeline.Status()
	if status.State != RunStateIdle {
		t.Fatalf("expected idle, got %s", status.State)
	}
	if status.StartedAt != nil {
		t.Fatalf("idle status must carry no timestamps: %+v", status)
	}
}

func TestScheduler_RunsImmediatelyAndStopsOnCancel(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{name: "sofascore", records: []match.RawRecord{sampleRecord()}}
	fx := newPipelineFixture(t, fetcher)
	scheduler := NewScheduler(fx.pipeline, time.Hour, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- scheduler.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for fx.pipeline.Status().State != RunStateDone {
		select {
		case <-deadline:
			t.Fatalf("scheduler never triggered a run, state=%s", fx.pipeline.Status().State)
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}

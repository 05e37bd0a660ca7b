package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/osegonte/football-dashboard/internal/domain/match"
	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
	"github.com/osegonte/football-dashboard/internal/infrastructure/repository/memory"
	"github.com/osegonte/football-dashboard/internal/platform/logging"
	"github.com/osegonte/football-dashboard/internal/usecase"
)

type fakeFetcher struct {
	records []match.RawRecord
	block   chan struct{}
}

func (f *fakeFetcher) Name() string { return "fake" }

func (f *fakeFetcher) FetchMatchesForDateRange(ctx context.Context, _, _ time.Time) (usecase.FixtureFetchResult, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return usecase.FixtureFetchResult{}, ctx.Err()
		}
	}

	return usecase.FixtureFetchResult{
		DaysProcessed: 1,
		TotalMatches:  len(f.records),
		Records:       f.records,
	}, nil
}

type fakeEnrichmentSource struct{}

func (fakeEnrichmentSource) Name() string { return teamdata.SourceWikipedia }

func (fakeEnrichmentSource) FetchTeamProfile(_ context.Context, teamName, _ string) (teamdata.Partial, bool, error) {
	return teamdata.Partial{
		Stadium: teamName + " Stadium",
		Source:  teamdata.SourceWikipedia,
	}, true, nil
}

type apiFixture struct {
	server   *httptest.Server
	pipeline *usecase.PipelineService
}

func newAPIFixture(t *testing.T, fetcher usecase.FixtureFetcher) apiFixture {
	t.Helper()

	logger := logging.NewNop()
	dataRepo := memory.NewTeamDataRepository()
	leagueRepo := memory.NewLeagueRepository()
	teamRepo := memory.NewTeamRepository(dataRepo)
	matchRepo := memory.NewMatchRepository()

	reconciler := usecase.NewReconcileService(leagueRepo, teamRepo, matchRepo, logger)
	enricher := usecase.NewEnrichmentService(
		dataRepo,
		[]usecase.EnrichmentSource{fakeEnrichmentSource{}},
		nil,
		usecase.EnrichmentConfig{
			DataDir:  t.TempDir(),
			DelayMin: time.Millisecond,
			DelayMax: 2 * time.Millisecond,
		},
		logger,
	)
	pipeline := usecase.NewPipelineService(
		[]usecase.FixtureFetcher{fetcher},
		reconciler,
		enricher,
		usecase.PipelineConfig{DaysAhead: 3, TeamLimit: 10},
		logger,
	)
	query := usecase.NewQueryService(leagueRepo, teamRepo, matchRepo, dataRepo)

	handler := NewHandler(pipeline, query, logger)
	server := httptest.NewServer(NewRouter(handler, logger, nil))
	t.Cleanup(server.Close)

	return apiFixture{server: server, pipeline: pipeline}
}

func (fx apiFixture) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := http.Get(fx.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, decodeEnvelope(t, resp)
}

func (fx apiFixture) post(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := http.Post(fx.server.URL+path, "application/json", nil)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, decodeEnvelope(t, resp)
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]any
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func (fx apiFixture) waitForState(t *testing.T, want usecase.RunState) {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		if fx.pipeline.Status().State == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("pipeline never reached state %q, still %q", want, fx.pipeline.Status().State)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func sampleFixtureRecords() []match.RawRecord {
	return []match.RawRecord{
		{
			ExternalID: "ss-1001",
			HomeTeam:   "Arsenal",
			AwayTeam:   "Chelsea",
			Date:       "2025-05-10",
			League:     "Premier League",
			Country:    "England",
			Source:     "sofascore",
		},
	}
}

func TestRouter_Healthz(t *testing.T) {
	fx := newAPIFixture(t, &fakeFetcher{})

	resp, body := fx.get(t, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data, _ := body["data"].(map[string]any)
	if got, _ := data["status"].(string); got != "ok" {
		t.Fatalf("unexpected health payload: %v", body)
	}
}

func TestRouter_PipelineRunThenCatalog(t *testing.T) {
	fx := newAPIFixture(t, &fakeFetcher{records: sampleFixtureRecords()})

	resp, body := fx.post(t, "/v1/pipeline/runs")
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d (body %v)", resp.StatusCode, body)
	}

	fx.waitForState(t, usecase.RunStateDone)

	resp, body = fx.get(t, "/v1/pipeline/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data, _ := body["data"].(map[string]any)
	if got, _ := data["state"].(string); got != "done" {
		t.Fatalf("expected state done, got %v", data["state"])
	}

	resp, body = fx.get(t, "/v1/teams")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	teams, _ := body["data"].([]any)
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}

	resp, body = fx.get(t, "/v1/leagues")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	leagues, _ := body["data"].([]any)
	if len(leagues) != 1 {
		t.Fatalf("expected 1 league, got %d", len(leagues))
	}

	resp, body = fx.get(t, "/v1/matches?from=2025-05-01&to=2025-05-31")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	matches, _ := body["data"].([]any)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	first, _ := matches[0].(map[string]any)
	if got, _ := first["homeTeam"].(string); got != "Arsenal" {
		t.Fatalf("unexpected match payload: %v", first)
	}

	resp, body = fx.get(t, "/v1/teams/1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	profile, _ := body["data"].(map[string]any)
	profileData, _ := profile["data"].(map[string]any)
	if got, _ := profileData["stadium"].(string); got != "Arsenal Stadium" {
		t.Fatalf("expected enrichment in profile, got %v", profile)
	}
}

func TestRouter_SecondRunIsConflict(t *testing.T) {
	block := make(chan struct{})
	fx := newAPIFixture(t, &fakeFetcher{block: block})
	defer close(block)

	if resp, _ := fx.post(t, "/v1/pipeline/runs"); resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 on first run, got %d", resp.StatusCode)
	}

	resp, body := fx.post(t, "/v1/pipeline/runs")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on concurrent run, got %d", resp.StatusCode)
	}
	errorObj, _ := body["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "ABORTED" {
		t.Fatalf("expected ABORTED status, got %v", errorObj)
	}
}

func TestRouter_UnknownTeamIsNotFound(t *testing.T) {
	fx := newAPIFixture(t, &fakeFetcher{})

	resp, _ := fx.get(t, "/v1/teams/99")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRouter_BadMatchRangeIsInvalid(t *testing.T) {
	fx := newAPIFixture(t, &fakeFetcher{})

	resp, _ := fx.get(t, "/v1/matches?from=yesterday")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp, _ = fx.get(t, "/v1/matches?from=2025-05-10&to=2025-05-01")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted range, got %d", resp.StatusCode)
	}
}

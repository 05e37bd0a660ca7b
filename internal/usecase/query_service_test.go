package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osegonte/football-dashboard/internal/domain/match"
	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
)

func newQueryFixture() (reconcileFixture, *QueryService) {
	fx := newReconcileFixture()
	return fx, NewQueryService(fx.leagueRepo, fx.teamRepo, fx.matchRepo, fx.dataRepo)
}

func TestGetTeamProfile_WithAndWithoutEnrichment(t *testing.T) {
	t.Parallel()

	fx, query := newQueryFixture()
	ctx := context.Background()

	fx.service.ProcessRecords(ctx, []match.RawRecord{sampleRecord()})
	if _, err := fx.dataRepo.Upsert(ctx, teamdata.TeamData{TeamID: 1, Stadium: "Emirates Stadium"}); err != nil {
		t.Fatalf("seed team data: %v", err)
	}

	enriched, err := query.GetTeamProfile(ctx, 1)
	if err != nil {
		t.Fatalf("get enriched profile: %v", err)
	}
	if enriched.Data == nil || enriched.Data.Stadium != "Emirates Stadium" {
		t.Fatalf("unexpected profile data: %+v", enriched.Data)
	}

	bare, err := query.GetTeamProfile(ctx, 2)
	if err != nil {
		t.Fatalf("get bare profile: %v", err)
	}
	if bare.Data != nil {
		t.Fatalf("team without enrichment must have nil data, got %+v", bare.Data)
	}
}

func TestGetTeamProfile_UnknownTeamIsNotFound(t *testing.T) {
	t.Parallel()

	_, query := newQueryFixture()

	if _, err := query.GetTeamProfile(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListMatches_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	_, query := newQueryFixture()

	from := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	if _, err := query.ListMatches(context.Background(), from, from.AddDate(0, 0, -1)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

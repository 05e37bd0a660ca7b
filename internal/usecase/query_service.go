package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/osegonte/football-dashboard/internal/domain/league"
	"github.com/osegonte/football-dashboard/internal/domain/match"
	"github.com/osegonte/football-dashboard/internal/domain/team"
	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
)

// TeamProfile is a team joined with whatever enrichment exists for it.
type TeamProfile struct {
	Team team.Team
	Data *teamdata.TeamData
}

// QueryService is the read side of the dashboard: plain lookups over
// what the pipeline has stored.
type QueryService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	matchRepo  match.Repository
	dataRepo   teamdata.Repository
}

func NewQueryService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	dataRepo teamdata.Repository,
) *QueryService {
	return &QueryService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		dataRepo:   dataRepo,
	}
}

func (s *QueryService) ListMatches(ctx context.Context, from, to time.Time) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListMatches")
	defer span.End()

	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end before start", ErrInvalidInput)
	}

	items, err := s.matchRepo.ListInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	return items, nil
}

func (s *QueryService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListTeams")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return items, nil
}

func (s *QueryService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListLeagues")
	defer span.End()

	items, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return items, nil
}

// GetTeamProfile returns the team with its enrichment row when one
// exists. A team the pipeline never saw is ErrNotFound; a team without
// enrichment simply has nil Data.
func (s *QueryService) GetTeamProfile(ctx context.Context, teamID int64) (TeamProfile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetTeamProfile")
	defer span.End()

	if teamID <= 0 {
		return TeamProfile{}, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamProfile{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamProfile{}, fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
	}

	profile := TeamProfile{Team: item}
	data, exists, err := s.dataRepo.GetByTeamID(ctx, teamID)
	if err != nil {
		return TeamProfile{}, fmt.Errorf("get team data: %w", err)
	}
	if exists {
		profile.Data = &data
	}

	return profile, nil
}

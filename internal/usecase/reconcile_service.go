package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osegonte/football-dashboard/internal/domain/league"
	"github.com/osegonte/football-dashboard/internal/domain/match"
	"github.com/osegonte/football-dashboard/internal/domain/team"
	"github.com/osegonte/football-dashboard/internal/platform/logging"
)

const unknownLeagueName = "Unknown League"

// dateFormats lists the layouts sources have been seen to emit, most
// specific first. Order matters: "2006-01-02" would otherwise shadow
// the timestamped variants.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
}

// ReconcileStats summarizes one batch of raw fixture records.
// Teams and Leagues count rows created during the batch, so re-running
// the same batch reports zero for both. Matches counts every record
// written, created or refreshed.
type ReconcileStats struct {
	Matches int `json:"matches"`
	Teams   int `json:"teams"`
	Leagues int `json:"leagues"`
	Failed  int `json:"failed"`
}

// Candidate is a team selected for enrichment, with display context
// already resolved so downstream consumers need no further lookups.
type Candidate struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	League  string `json:"league"`
	Country string `json:"country"`
}

// ReconcileService resolves raw fixture records into leagues, teams and
// matches. Each record is processed independently: one malformed row
// never aborts the rest of the batch.
type ReconcileService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	matchRepo  match.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewReconcileService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	logger *logging.Logger,
) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ReconcileService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// ProcessRecords upserts every record into the store. The returned
// stats never carry an error: failures are counted and logged so a bad
// row from one source cannot block fixtures from another.
func (s *ReconcileService) ProcessRecords(ctx context.Context, records []match.RawRecord) ReconcileStats {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.ProcessRecords")
	defer span.End()

	var stats ReconcileStats
	for idx, record := range records {
		if err := s.processRecord(ctx, record, &stats); err != nil {
			stats.Failed++
			s.logger.WarnContext(ctx, "record reconciliation failed",
				"index", idx,
				"home_team", record.HomeTeam,
				"away_team", record.AwayTeam,
				"source", record.Source,
				"error", err,
			)
		}
	}

	return stats
}

func (s *ReconcileService) processRecord(ctx context.Context, record match.RawRecord, stats *ReconcileStats) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	leagueName := strings.TrimSpace(record.League)
	if leagueName == "" {
		leagueName = unknownLeagueName
	}
	lg, leagueCreated, err := s.leagueRepo.Upsert(ctx, league.League{
		Name:    leagueName,
		Country: strings.TrimSpace(record.Country),
	})
	if err != nil {
		return fmt.Errorf("upsert league %q: %w", leagueName, err)
	}
	if leagueCreated {
		stats.Leagues++
	}

	now := s.now().UTC()
	homeTeam, homeCreated, err := s.teamRepo.Upsert(ctx, team.Team{
		Name:        strings.TrimSpace(record.HomeTeam),
		Country:     strings.TrimSpace(record.Country),
		LeagueID:    lg.ID,
		LastUpdated: now,
	})
	if err != nil {
		return fmt.Errorf("upsert home team %q: %w", record.HomeTeam, err)
	}
	if homeCreated {
		stats.Teams++
	}

	awayTeam, awayCreated, err := s.teamRepo.Upsert(ctx, team.Team{
		Name:        strings.TrimSpace(record.AwayTeam),
		Country:     strings.TrimSpace(record.Country),
		LeagueID:    lg.ID,
		LastUpdated: now,
	})
	if err != nil {
		return fmt.Errorf("upsert away team %q: %w", record.AwayTeam, err)
	}
	if awayCreated {
		stats.Teams++
	}

	externalID := strings.TrimSpace(record.ExternalID)
	if externalID == "" {
		externalID = match.SynthesizeExternalID(record.HomeTeam, record.AwayTeam, record.Date)
	}

	item := match.Match{
		ExternalID:   externalID,
		HomeTeamName: homeTeam.Name,
		AwayTeamName: awayTeam.Name,
		MatchDate:    parseMatchDate(ctx, s.logger, record.Date),
		StartTime:    strings.TrimSpace(record.StartTime),
		Status:       normalizeStatus(record.Status),
		Venue:        strings.TrimSpace(record.Venue),
		Round:        strings.TrimSpace(record.Round),
		LeagueID:     lg.ID,
		Source:       strings.TrimSpace(record.Source),
		LastUpdated:  now,
	}
	stored, _, err := s.matchRepo.Upsert(ctx, item)
	if err != nil {
		return fmt.Errorf("upsert match %s: %w", externalID, err)
	}
	stats.Matches++

	if err := s.matchRepo.LinkTeam(ctx, homeTeam.ID, stored.ID, true); err != nil {
		return fmt.Errorf("link home team: %w", err)
	}
	if err := s.matchRepo.LinkTeam(ctx, awayTeam.ID, stored.ID, false); err != nil {
		return fmt.Errorf("link away team: %w", err)
	}

	return nil
}

// SelectCandidates picks up to limit teams with no enrichment row yet
// and resolves their league names for display.
func (s *ReconcileService) SelectCandidates(ctx context.Context, limit int) ([]Candidate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.SelectCandidates")
	defer span.End()

	if limit <= 0 {
		limit = 25
	}

	teams, err := s.teamRepo.ListNeedingData(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list teams needing data: %w", err)
	}

	leagueNames := make(map[int64]string, len(teams))
	candidates := make([]Candidate, 0, len(teams))
	for _, item := range teams {
		leagueName, cached := leagueNames[item.LeagueID]
		if !cached {
			leagueName = "Unknown"
			if item.LeagueID > 0 {
				lg, exists, err := s.leagueRepo.GetByID(ctx, item.LeagueID)
				if err != nil {
					return nil, fmt.Errorf("resolve league %d: %w", item.LeagueID, err)
				}
				if exists {
					leagueName = lg.Name
				}
			}
			leagueNames[item.LeagueID] = leagueName
		}

		country := item.Country
		if country == "" {
			country = "Unknown"
		}

		candidates = append(candidates, Candidate{
			ID:      item.ID,
			Name:    item.Name,
			League:  leagueName,
			Country: country,
		})
	}

	return candidates, nil
}

// parseMatchDate tries each known layout in order. A date no layout
// accepts yields nil; the record itself is still stored.
func parseMatchDate(ctx context.Context, logger *logging.Logger, raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range dateFormats {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}

	logger.DebugContext(ctx, "unparseable match date", "raw", raw)
	return nil
}

func normalizeStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case match.StatusFinished, "ft", "ended", "afterextra", "penalties":
		return match.StatusFinished
	case match.StatusPostponed:
		return match.StatusPostponed
	case match.StatusCancelled, "canceled":
		return match.StatusCancelled
	default:
		return match.StatusScheduled
	}
}

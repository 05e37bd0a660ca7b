package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/osegonte/football-dashboard/internal/domain/match"
	qb "github.com/osegonte/football-dashboard/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert inserts or refreshes a fixture keyed by external id. Pairing
// and date always track the latest ingest; descriptive fields only
// move when the new ingest actually carries them; the league reference
// is set once and then kept.
func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) (match.Match, bool, error) {
	if item.ExternalID == "" {
		return match.Match{}, false, fmt.Errorf("match external id is required")
	}
	if item.HomeTeamName == "" || item.AwayTeamName == "" {
		return match.Match{}, false, fmt.Errorf("match team names are required")
	}

	now := time.Now().UTC()
	lastUpdated := item.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = now
	}
	insertModel := matchInsertModel{
		ExternalID:   item.ExternalID,
		HomeTeamName: item.HomeTeamName,
		AwayTeamName: item.AwayTeamName,
		MatchDate:    item.MatchDate,
		StartTime:    nullableString(item.StartTime),
		Status:       nullableString(item.Status),
		Venue:        nullableString(item.Venue),
		Round:        nullableString(item.Round),
		LeagueID:     nullableInt64(item.LeagueID),
		Source:       nullableString(item.Source),
		LastUpdated:  lastUpdated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (external_id) DO UPDATE SET
		home_team_name = EXCLUDED.home_team_name,
		away_team_name = EXCLUDED.away_team_name,
		match_date = EXCLUDED.match_date,
		start_time = COALESCE(EXCLUDED.start_time, matches.start_time),
		status = COALESCE(EXCLUDED.status, matches.status),
		venue = COALESCE(EXCLUDED.venue, matches.venue),
		round = COALESCE(EXCLUDED.round, matches.round),
		source = COALESCE(EXCLUDED.source, matches.source),
		league_id = COALESCE(matches.league_id, EXCLUDED.league_id),
		last_updated = EXCLUDED.last_updated,
		updated_at = EXCLUDED.updated_at
	RETURNING id, external_id, home_team_name, away_team_name, match_date, start_time, status, venue, round, league_id, source, last_updated, (xmax = 0) AS created`)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build upsert match query: %w", err)
	}

	var row matchUpsertRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return match.Match{}, false, fmt.Errorf("upsert match: %w", err)
	}

	return match.Match{
		ID:           row.ID,
		ExternalID:   row.ExternalID,
		HomeTeamName: row.HomeTeamName,
		AwayTeamName: row.AwayTeamName,
		MatchDate:    row.MatchDate,
		StartTime:    nullStringToString(row.StartTime),
		Status:       nullStringToString(row.Status),
		Venue:        nullStringToString(row.Venue),
		Round:        nullStringToString(row.Round),
		LeagueID:     nullInt64ToInt64(row.LeagueID),
		Source:       nullStringToString(row.Source),
		LastUpdated:  row.LastUpdated,
	}, row.Created, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return mapMatchRow(row), true, nil
}

func (r *MatchRepository) ListInRange(ctx context.Context, from, to time.Time) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Expr("match_date >= ?", from),
			qb.Expr("match_date <= ?", to),
		).
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches in range query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches in range: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMatchRow(row))
	}

	return out, nil
}

func (r *MatchRepository) LinkTeam(ctx context.Context, teamID, matchID int64, isHome bool) error {
	query, args, err := qb.InsertInto("team_matches").
		Columns("team_id", "match_id", "is_home").
		Values(teamID, matchID, isHome).
		Suffix("ON CONFLICT (team_id, match_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build link team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("link team to match: %w", err)
	}

	return nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/osegonte/football-dashboard/internal/domain/team"
	qb "github.com/osegonte/football-dashboard/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Upsert inserts the team or refreshes an existing one. Attributes
// like country and league stick with whichever source saw them first;
// only last_updated moves on every touch.
func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) (team.Team, bool, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, false, err
	}

	now := time.Now().UTC()
	lastUpdated := item.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = now
	}
	insertModel := teamInsertModel{
		Name:        item.Name,
		Country:     nullableString(item.Country),
		LeagueID:    nullableInt64(item.LeagueID),
		ExternalID:  nullableString(item.ExternalID),
		LogoURL:     nullableString(item.LogoURL),
		LastUpdated: lastUpdated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (lower(name)) DO UPDATE SET
		country = COALESCE(teams.country, EXCLUDED.country),
		league_id = COALESCE(teams.league_id, EXCLUDED.league_id),
		external_id = COALESCE(teams.external_id, EXCLUDED.external_id),
		logo_url = COALESCE(teams.logo_url, EXCLUDED.logo_url),
		last_updated = EXCLUDED.last_updated,
		updated_at = EXCLUDED.updated_at
	RETURNING id, name, country, league_id, external_id, logo_url, last_updated, (xmax = 0) AS created`)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build upsert team query: %w", err)
	}

	var row teamUpsertRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return team.Team{}, false, fmt.Errorf("upsert team: %w", err)
	}

	return team.Team{
		ID:          row.ID,
		Name:        row.Name,
		Country:     nullStringToString(row.Country),
		LeagueID:    nullInt64ToInt64(row.LeagueID),
		ExternalID:  nullStringToString(row.ExternalID),
		LogoURL:     nullStringToString(row.LogoURL),
		LastUpdated: row.LastUpdated,
	}, row.Created, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	return mapTeamRow(row), true, nil
}

// ListNeedingData returns teams without an enrichment row yet, oldest
// first so long-known teams get their profile before newcomers.
func (r *TeamRepository) ListNeedingData(ctx context.Context, limit int) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Expr("NOT EXISTS (SELECT 1 FROM team_data WHERE team_data.team_id = teams.id)")).
		OrderBy("id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams needing data query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams needing data: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}

	return out, nil
}

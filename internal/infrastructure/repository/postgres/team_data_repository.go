package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
	qb "github.com/osegonte/football-dashboard/internal/platform/querybuilder"
)

type TeamDataRepository struct {
	db *sqlx.DB
}

func NewTeamDataRepository(db *sqlx.DB) *TeamDataRepository {
	return &TeamDataRepository{db: db}
}

// Upsert writes the team's enrichment row. A later scrape with a
// non-empty field overwrites the stored one; an empty field never
// clears what an earlier scrape found. last_scraped always moves.
func (r *TeamDataRepository) Upsert(ctx context.Context, item teamdata.TeamData) (teamdata.TeamData, error) {
	if item.TeamID <= 0 {
		return teamdata.TeamData{}, fmt.Errorf("team id is required")
	}

	now := time.Now().UTC()
	lastScraped := item.LastScraped
	if lastScraped.IsZero() {
		lastScraped = now
	}
	insertModel := teamDataInsertModel{
		TeamID:      item.TeamID,
		Stadium:     nullableString(item.Stadium),
		Manager:     nullableString(item.Manager),
		Founded:     nullableInt(item.Founded),
		Website:     nullableString(item.Website),
		Description: nullableString(item.Description),
		Sources:     pq.StringArray(item.Sources),
		LastScraped: lastScraped,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if insertModel.Sources == nil {
		insertModel.Sources = pq.StringArray{}
	}

	query, args, err := qb.InsertModel("team_data", insertModel, `ON CONFLICT (team_id) DO UPDATE SET
		stadium = COALESCE(EXCLUDED.stadium, team_data.stadium),
		manager = COALESCE(EXCLUDED.manager, team_data.manager),
		founded = COALESCE(EXCLUDED.founded, team_data.founded),
		website = COALESCE(EXCLUDED.website, team_data.website),
		description = COALESCE(EXCLUDED.description, team_data.description),
		sources = CASE WHEN cardinality(EXCLUDED.sources) > 0 THEN EXCLUDED.sources ELSE team_data.sources END,
		last_scraped = EXCLUDED.last_scraped,
		updated_at = EXCLUDED.updated_at
	RETURNING id, team_id, stadium, manager, founded, website, description, sources, last_scraped, created_at, updated_at`)
	if err != nil {
		return teamdata.TeamData{}, fmt.Errorf("build upsert team data query: %w", err)
	}

	var row teamDataTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return teamdata.TeamData{}, fmt.Errorf("upsert team data: %w", err)
	}

	return mapTeamDataRow(row), nil
}

func (r *TeamDataRepository) GetByTeamID(ctx context.Context, teamID int64) (teamdata.TeamData, bool, error) {
	query, args, err := qb.Select("*").From("team_data").
		Where(qb.Eq("team_id", teamID)).
		ToSQL()
	if err != nil {
		return teamdata.TeamData{}, false, fmt.Errorf("build get team data query: %w", err)
	}

	var row teamDataTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return teamdata.TeamData{}, false, nil
		}
		return teamdata.TeamData{}, false, fmt.Errorf("get team data: %w", err)
	}

	return mapTeamDataRow(row), true, nil
}

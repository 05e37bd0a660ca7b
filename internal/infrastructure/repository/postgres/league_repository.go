package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/osegonte/football-dashboard/internal/domain/league"
	qb "github.com/osegonte/football-dashboard/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

// Upsert inserts the league or, when a league with the same name
// already exists, fills only its still-empty attributes. The created
// flag distinguishes a fresh row from a revisit.
func (r *LeagueRepository) Upsert(ctx context.Context, item league.League) (league.League, bool, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, false, err
	}

	now := time.Now().UTC()
	insertModel := leagueInsertModel{
		Name:       item.Name,
		Country:    nullableString(item.Country),
		ExternalID: nullableString(item.ExternalID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	query, args, err := qb.InsertModel("leagues", insertModel, `ON CONFLICT (lower(name)) DO UPDATE SET
		country = COALESCE(leagues.country, EXCLUDED.country),
		external_id = COALESCE(leagues.external_id, EXCLUDED.external_id),
		updated_at = EXCLUDED.updated_at
	RETURNING id, name, country, external_id, (xmax = 0) AS created`)
	if err != nil {
		return league.League{}, false, fmt.Errorf("build upsert league query: %w", err)
	}

	var row leagueUpsertRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return league.League{}, false, fmt.Errorf("upsert league: %w", err)
	}

	return league.League{
		ID:         row.ID,
		Name:       row.Name,
		Country:    nullStringToString(row.Country),
		ExternalID: nullStringToString(row.ExternalID),
	}, row.Created, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapLeagueRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return mapLeagueRow(row), true, nil
}

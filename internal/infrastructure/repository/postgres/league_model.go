package postgres

import (
	"database/sql"
	"time"

	"github.com/osegonte/football-dashboard/internal/domain/league"
)

type leagueTableModel struct {
	ID         int64          `db:"id"`
	Name       string         `db:"name"`
	Country    sql.NullString `db:"country"`
	ExternalID sql.NullString `db:"external_id"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type leagueInsertModel struct {
	Name       string    `db:"name"`
	Country    *string   `db:"country"`
	ExternalID *string   `db:"external_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type leagueUpsertRow struct {
	ID         int64          `db:"id"`
	Name       string         `db:"name"`
	Country    sql.NullString `db:"country"`
	ExternalID sql.NullString `db:"external_id"`
	Created    bool           `db:"created"`
}

func mapLeagueRow(row leagueTableModel) league.League {
	return league.League{
		ID:         row.ID,
		Name:       row.Name,
		Country:    nullStringToString(row.Country),
		ExternalID: nullStringToString(row.ExternalID),
	}
}

package postgres

import (
	"database/sql"
	"time"

	"github.com/osegonte/football-dashboard/internal/domain/team"
)

type teamTableModel struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Country     sql.NullString `db:"country"`
	LeagueID    sql.NullInt64  `db:"league_id"`
	ExternalID  sql.NullString `db:"external_id"`
	LogoURL     sql.NullString `db:"logo_url"`
	LastUpdated time.Time      `db:"last_updated"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type teamInsertModel struct {
	Name        string    `db:"name"`
	Country     *string   `db:"country"`
	LeagueID    *int64    `db:"league_id"`
	ExternalID  *string   `db:"external_id"`
	LogoURL     *string   `db:"logo_url"`
	LastUpdated time.Time `db:"last_updated"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type teamUpsertRow struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Country     sql.NullString `db:"country"`
	LeagueID    sql.NullInt64  `db:"league_id"`
	ExternalID  sql.NullString `db:"external_id"`
	LogoURL     sql.NullString `db:"logo_url"`
	LastUpdated time.Time      `db:"last_updated"`
	Created     bool           `db:"created"`
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		ID:          row.ID,
		Name:        row.Name,
		Country:     nullStringToString(row.Country),
		LeagueID:    nullInt64ToInt64(row.LeagueID),
		ExternalID:  nullStringToString(row.ExternalID),
		LogoURL:     nullStringToString(row.LogoURL),
		LastUpdated: row.LastUpdated,
	}
}

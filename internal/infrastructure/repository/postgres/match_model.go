package postgres

import (
	"database/sql"
	"time"

	"github.com/osegonte/football-dashboard/internal/domain/match"
)

type matchTableModel struct {
	ID           int64          `db:"id"`
	ExternalID   string         `db:"external_id"`
	HomeTeamName string         `db:"home_team_name"`
	AwayTeamName string         `db:"away_team_name"`
	MatchDate    *time.Time     `db:"match_date"`
	StartTime    sql.NullString `db:"start_time"`
	Status       sql.NullString `db:"status"`
	Venue        sql.NullString `db:"venue"`
	Round        sql.NullString `db:"round"`
	LeagueID     sql.NullInt64  `db:"league_id"`
	Source       sql.NullString `db:"source"`
	LastUpdated  time.Time      `db:"last_updated"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	ExternalID   string     `db:"external_id"`
	HomeTeamName string     `db:"home_team_name"`
	AwayTeamName string     `db:"away_team_name"`
	MatchDate    *time.Time `db:"match_date"`
	StartTime    *string    `db:"start_time"`
	Status       *string    `db:"status"`
	Venue        *string    `db:"venue"`
	Round        *string    `db:"round"`
	LeagueID     *int64     `db:"league_id"`
	Source       *string    `db:"source"`
	LastUpdated  time.Time  `db:"last_updated"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

type matchUpsertRow struct {
	ID           int64          `db:"id"`
	ExternalID   string         `db:"external_id"`
	HomeTeamName string         `db:"home_team_name"`
	AwayTeamName string         `db:"away_team_name"`
	MatchDate    *time.Time     `db:"match_date"`
	StartTime    sql.NullString `db:"start_time"`
	Status       sql.NullString `db:"status"`
	Venue        sql.NullString `db:"venue"`
	Round        sql.NullString `db:"round"`
	LeagueID     sql.NullInt64  `db:"league_id"`
	Source       sql.NullString `db:"source"`
	LastUpdated  time.Time      `db:"last_updated"`
	Created      bool           `db:"created"`
}

func mapMatchRow(row matchTableModel) match.Match {
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
	}
}

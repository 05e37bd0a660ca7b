package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
)

type teamDataTableModel struct {
	ID          int64          `db:"id"`
	TeamID      int64          `db:"team_id"`
	Stadium     sql.NullString `db:"stadium"`
	Manager     sql.NullString `db:"manager"`
	Founded     sql.NullInt64  `db:"founded"`
	Website     sql.NullString `db:"website"`
	Description sql.NullString `db:"description"`
	Sources     pq.StringArray `db:"sources"`
	LastScraped time.Time      `db:"last_scraped"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type teamDataInsertModel struct {
	TeamID      int64          `db:"team_id"`
	Stadium     *string        `db:"stadium"`
	Manager     *string        `db:"manager"`
	Founded     *int           `db:"founded"`
	Website     *string        `db:"website"`
	Description *string        `db:"description"`
	Sources     pq.StringArray `db:"sources"`
	LastScraped time.Time      `db:"last_scraped"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func mapTeamDataRow(row teamDataTableModel) teamdata.TeamData {
	return teamdata.TeamData{
		TeamID:      row.TeamID,
		Stadium:     nullStringToString(row.Stadium),
		Manager:     nullStringToString(row.Manager),
		Founded:     nullInt64ToInt(row.Founded),
		Website:     nullStringToString(row.Website),
		Description: nullStringToString(row.Description),
		Sources:     append([]string(nil), row.Sources...),
		LastScraped: row.LastScraped,
	}
}

package teamdata

import "context"

// Repository describes enrichment persistence needs from use cases.
// Upsert matches on team id; incoming non-empty fields overwrite stored
// ones, empty fields never clear them, and last_scraped is always
// refreshed.
type Repository interface {
	Upsert(ctx context.Context, item TeamData) (TeamData, error)
	GetByTeamID(ctx context.Context, teamID int64) (TeamData, bool, error)
}

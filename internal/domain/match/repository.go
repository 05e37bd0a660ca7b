package match

import (
	"context"
	"time"
)

// Repository describes match persistence needs from use cases.
type Repository interface {
	// Upsert matches on external id. Mutable fields are last-write-wins;
	// the league reference is set once and kept afterwards.
	Upsert(ctx context.Context, item Match) (Match, bool, error)
	GetByID(ctx context.Context, matchID int64) (Match, bool, error)
	// ListInRange returns matches whose date falls inside [from, to].
	ListInRange(ctx context.Context, from, to time.Time) ([]Match, error)
	// LinkTeam associates a team with a match. Linking the same pair
	// twice is a no-op, never an error.
	LinkTeam(ctx context.Context, teamID, matchID int64, isHome bool) error
}

package team

import "context"

// Repository describes team persistence needs from use cases.
// Upsert matches on lower(name); country, league, external id and logo
// follow first-write-wins, while last_updated is refreshed on every touch.
type Repository interface {
	Upsert(ctx context.Context, item Team) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID int64) (Team, bool, error)
	// ListNeedingData returns up to limit teams that have no enrichment
	// row yet. Order is unspecified.
	ListNeedingData(ctx context.Context, limit int) ([]Team, error)
}

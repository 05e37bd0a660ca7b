package league

import "context"

// Repository describes league persistence needs from use cases.
// Upsert matches on lower(name); country and external id follow
// first-write-wins and are never overwritten once set.
type Repository interface {
	Upsert(ctx context.Context, item League) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID int64) (League, bool, error)
}

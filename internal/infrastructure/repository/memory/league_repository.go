package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/osegonte/football-dashboard/internal/domain/league"
)

// LeagueRepository keys leagues by lowercased name, mirroring the
// unique index the postgres schema puts on lower(name).
type LeagueRepository struct {
	mu     sync.RWMutex
	items  map[int64]league.League
	byName map[string]int64
	order  []int64
	nextID int64
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		items:  make(map[int64]league.League),
		byName: make(map[string]int64),
	}
}

func (r *LeagueRepository) Upsert(_ context.Context, item league.League) (league.League, bool, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(item.Name))
	if id, ok := r.byName[key]; ok {
		stored := r.items[id]
		if stored.Country == "" {
			stored.Country = item.Country
		}
		if stored.ExternalID == "" {
			stored.ExternalID = item.ExternalID
		}
		r.items[id] = stored
		return stored, false, nil
	}

	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = item
	r.byName[key] = item.ID
	r.order = append(r.order, item.ID)

	return item, true, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID int64) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return item, true, nil
}

package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/osegonte/football-dashboard/internal/domain/team"
)

// TeamRepository keys teams by lowercased name. It consults the team
// data repository to answer ListNeedingData, standing in for the
// NOT EXISTS subquery the postgres implementation uses.
type TeamRepository struct {
	mu     sync.RWMutex
	items  map[int64]team.Team
	byName map[string]int64
	order  []int64
	nextID int64
	data   *TeamDataRepository
}

func NewTeamRepository(data *TeamDataRepository) *TeamRepository {
	return &TeamRepository{
		items:  make(map[int64]team.Team),
		byName: make(map[string]int64),
		data:   data,
	}
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) (team.Team, bool, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(item.Name))
	if id, ok := r.byName[key]; ok {
		stored := r.items[id]
		if stored.Country == "" {
			stored.Country = item.Country
		}
		if stored.LeagueID == 0 {
			stored.LeagueID = item.LeagueID
		}
		if stored.ExternalID == "" {
			stored.ExternalID = item.ExternalID
		}
		if stored.LogoURL == "" {
			stored.LogoURL = item.LogoURL
		}
		stored.LastUpdated = item.LastUpdated
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

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return item, true, nil
}

func (r *TeamRepository) ListNeedingData(_ context.Context, limit int) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, limit)
	for _, id := range r.order {
		if len(out) >= limit {
			break
		}
		if r.data != nil && r.data.has(id) {
			continue
		}
		out = append(out, r.items[id])
	}

	return out, nil
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osegonte/football-dashboard/internal/domain/match"
)

// MatchRepository keys matches by external id. Mutable fixture fields
// follow the same overwrite rules as the postgres implementation.
type MatchRepository struct {
	mu         sync.RWMutex
	items      map[int64]match.Match
	byExternal map[string]int64
	links      map[string]bool
	nextID     int64
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		items:      make(map[int64]match.Match),
		byExternal: make(map[string]int64),
		links:      make(map[string]bool),
	}
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) (match.Match, bool, error) {
	if item.ExternalID == "" {
		return match.Match{}, false, fmt.Errorf("match external id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byExternal[item.ExternalID]; ok {
		stored := r.items[id]
		stored.HomeTeamName = item.HomeTeamName
		stored.AwayTeamName = item.AwayTeamName
		stored.MatchDate = item.MatchDate
		if item.StartTime != "" {
			stored.StartTime = item.StartTime
		}
		if item.Status != "" {
			stored.Status = item.Status
		}
		if item.Venue != "" {
			stored.Venue = item.Venue
		}
		if item.Round != "" {
			stored.Round = item.Round
		}
		if item.Source != "" {
			stored.Source = item.Source
		}
		if stored.LeagueID == 0 {
			stored.LeagueID = item.LeagueID
		}
		stored.LastUpdated = item.LastUpdated
		r.items[id] = stored
		return stored, false, nil
	}

	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = item
	r.byExternal[item.ExternalID] = item.ID

	return item, true, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return item, true, nil
}

func (r *MatchRepository) ListInRange(_ context.Context, from, to time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Match
	for _, item := range r.items {
		if item.MatchDate == nil {
			continue
		}
		if item.MatchDate.Before(from) || item.MatchDate.After(to) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MatchDate.Before(*out[j].MatchDate)
	})

	return out, nil
}

func (r *MatchRepository) LinkTeam(_ context.Context, teamID, matchID int64, isHome bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.links[linkKey(teamID, matchID)] = isHome
	return nil
}

// LinkCount reports how many distinct team to match links exist.
func (r *MatchRepository) LinkCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.links)
}

func linkKey(teamID, matchID int64) string {
	return fmt.Sprintf("%d::%d", teamID, matchID)
}

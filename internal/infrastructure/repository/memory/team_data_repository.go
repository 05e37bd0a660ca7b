package memory

import (
	"context"
	"sync"

	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
)

type TeamDataRepository struct {
	mu    sync.RWMutex
	items map[int64]teamdata.TeamData
}

func NewTeamDataRepository() *TeamDataRepository {
	return &TeamDataRepository{items: make(map[int64]teamdata.TeamData)}
}

func (r *TeamDataRepository) Upsert(_ context.Context, item teamdata.TeamData) (teamdata.TeamData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.TeamID]
	if !ok {
		stored = teamdata.TeamData{TeamID: item.TeamID}
	}
	if item.Stadium != "" {
		stored.Stadium = item.Stadium
	}
	if item.Manager != "" {
		stored.Manager = item.Manager
	}
	if item.Founded != 0 {
		stored.Founded = item.Founded
	}
	if item.Website != "" {
		stored.Website = item.Website
	}
	if item.Description != "" {
		stored.Description = item.Description
	}
	if len(item.Sources) > 0 {
		stored.Sources = append([]string(nil), item.Sources...)
	}
	stored.LastScraped = item.LastScraped

	r.items[item.TeamID] = stored
	return stored, nil
}

func (r *TeamDataRepository) GetByTeamID(_ context.Context, teamID int64) (teamdata.TeamData, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	if !ok {
		return teamdata.TeamData{}, false, nil
	}

	copied := item
	copied.Sources = append([]string(nil), item.Sources...)
	return copied, true, nil
}

func (r *TeamDataRepository) has(teamID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[teamID]
	return ok
}

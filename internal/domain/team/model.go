package team

import (
	"fmt"
	"time"
)

// Team is a real football club sighted in at least one fixture.
// Name is the natural key and is unique case-insensitively.
type Team struct {
	ID          int64
	Name        string
	Country     string
	LeagueID    int64
	ExternalID  string
	LogoURL     string
	LastUpdated time.Time
}

func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

package match

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusFinished  = "finished"
	StatusPostponed = "postponed"
	StatusCancelled = "cancelled"
)

// Match is one fixture keyed by its source-provided external id.
// Mutable fields (date, start time, status, venue, round) are
// overwritten on every re-ingest, unlike League/Team attributes.
type Match struct {
	ID           int64
	ExternalID   string
	HomeTeamName string
	AwayTeamName string
	MatchDate    *time.Time
	StartTime    string
	Status       string
	Venue        string
	Round        string
	LeagueID     int64
	Source       string
	LastUpdated  time.Time
}

// RawRecord is one fixture row exactly as a listing source produced it,
// before any entity resolution. Date stays a string because sources
// disagree on formats; the reconciler owns parsing.
type RawRecord struct {
	ExternalID string `json:"id,omitempty"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time,omitempty"`
	League     string `json:"league"`
	Country    string `json:"country,omitempty"`
	Venue      string `json:"venue,omitempty"`
	Round      string `json:"round,omitempty"`
	Status     string `json:"status,omitempty"`
	Source     string `json:"source"`
}

func (r RawRecord) Validate() error {
	if strings.TrimSpace(r.HomeTeam) == "" || strings.TrimSpace(r.AwayTeam) == "" {
		return fmt.Errorf("home and away team names are required")
	}

	return nil
}

// SynthesizeExternalID builds a stable fallback id for fixtures whose
// source supplied none. It is a content hash of the pairing and the raw
// date string, so re-ingesting the same logical match always resolves
// to the same row regardless of process or run.
func SynthesizeExternalID(homeTeam, awayTeam, rawDate string) string {
	seed := strings.ToLower(strings.TrimSpace(homeTeam)) + "|" +
		strings.ToLower(strings.TrimSpace(awayTeam)) + "|" +
		strings.TrimSpace(rawDate)
	sum := sha256.Sum256([]byte(seed))

	return "gen-" + hex.EncodeToString(sum[:])[:16]
}

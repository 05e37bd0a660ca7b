package sofascore

import (
	"strconv"
	"strings"
	"time"

	"github.com/osegonte/football-dashboard/internal/domain/match"
)

type scheduledEventsEnvelope struct {
	Events []scheduledEvent `json:"events"`
}

type scheduledEvent struct {
	ID         int64 `json:"id"`
	Tournament struct {
		Name     string `json:"name"`
		Category struct {
			Name string `json:"name"`
		} `json:"category"`
	} `json:"tournament"`
	HomeTeam struct {
		Name string `json:"name"`
	} `json:"homeTeam"`
	AwayTeam struct {
		Name string `json:"name"`
	} `json:"awayTeam"`
	Status struct {
		Type string `json:"type"`
	} `json:"status"`
	RoundInfo struct {
		Round int `json:"round"`
	} `json:"roundInfo"`
	Venue struct {
		Stadium struct {
			Name string `json:"name"`
		} `json:"stadium"`
	} `json:"venue"`
	StartTimestamp int64 `json:"startTimestamp"`
}

type searchEnvelope struct {
	Results []struct {
		Type   string `json:"type"`
		Entity struct {
			ID      int64  `json:"id"`
			Name    string `json:"name"`
			Slug    string `json:"slug"`
			Country struct {
				Name string `json:"name"`
			} `json:"country"`
		} `json:"entity"`
	} `json:"results"`
}

type teamEnvelope struct {
	Team struct {
		Name    string `json:"name"`
		Manager struct {
			Name string `json:"name"`
		} `json:"manager"`
		Venue struct {
			Stadium struct {
				Name string `json:"name"`
			} `json:"stadium"`
		} `json:"venue"`
		Country struct {
			Name string `json:"name"`
		} `json:"country"`
		FoundationDateTimestamp int64 `json:"foundationDateTimestamp"`
	} `json:"team"`
}

func mapEvent(event scheduledEvent) (match.RawRecord, bool) {
	home := strings.TrimSpace(event.HomeTeam.Name)
	away := strings.TrimSpace(event.AwayTeam.Name)
	if home == "" || away == "" {
		return match.RawRecord{}, false
	}

	record := match.RawRecord{
		HomeTeam: home,
		AwayTeam: away,
		League:   strings.TrimSpace(event.Tournament.Name),
		Country:  strings.TrimSpace(event.Tournament.Category.Name),
		Venue:    strings.TrimSpace(event.Venue.Stadium.Name),
		Status:   mapEventStatus(event.Status.Type),
		Source:   sourceName,
	}
	if event.ID > 0 {
		record.ExternalID = "ss-" + strconv.FormatInt(event.ID, 10)
	}
	if event.RoundInfo.Round > 0 {
		record.Round = "Round " + strconv.Itoa(event.RoundInfo.Round)
	}
	if event.StartTimestamp > 0 {
		kickoff := time.Unix(event.StartTimestamp, 0).UTC()
		record.Date = kickoff.Format(time.RFC3339)
		record.StartTime = kickoff.Format("15:04")
	}

	return record, true
}

func mapEventStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "finished", "afterextra", "afterpenalties":
		return match.StatusFinished
	case "postponed":
		return match.StatusPostponed
	case "canceled", "cancelled":
		return match.StatusCancelled
	default:
		return match.StatusScheduled
	}
}

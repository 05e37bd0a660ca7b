package teamdata

import "time"

// Source tags in fixed merge-priority order.
const (
	SourceWikipedia = "wikipedia"
	SourceSofaScore = "sofascore"
	SourceBrowser   = "browser"
)

// TeamData is the enriched profile of one team (1:1). A row exists only
// after at least one successful enrichment scrape; its absence is what
// marks a team as an enrichment candidate.
type TeamData struct {
	TeamID      int64
	Stadium     string
	Manager     string
	Founded     int
	Website     string
	Description string
	Sources     []string
	LastScraped time.Time
}

// Partial is the best-effort record one source extracted for a team.
// Zero values mean the source had nothing for that field.
type Partial struct {
	Stadium     string
	Manager     string
	Founded     int
	Website     string
	Description string
	Source      string
	ScrapedAt   time.Time
}

// Empty reports whether the record carries no extracted fields at all.
func (p Partial) Empty() bool {
	return p.Stadium == "" && p.Manager == "" && p.Founded == 0 &&
		p.Website == "" && p.Description == ""
}

package teamdata

import "sort"

// Merged is the combined profile produced from the partial records of
// several sources. Sources lists every contributing tag in priority
// order.
type Merged struct {
	Stadium     string
	Manager     string
	Founded     int
	Website     string
	Description string
	Sources     []string
}

func (m Merged) Empty() bool {
	return m.Stadium == "" && m.Manager == "" && m.Founded == 0 &&
		m.Website == "" && m.Description == ""
}

// sourcePriority ranks sources by fidelity; lower wins. Unknown tags
// sort last, keeping their relative input order.
var sourcePriority = map[string]int{
	SourceWikipedia: 0,
	SourceSofaScore: 1,
	SourceBrowser:   2,
}

func priorityOf(source string) int {
	if rank, ok := sourcePriority[source]; ok {
		return rank
	}
	return len(sourcePriority)
}

// Merge combines partial records into one profile. For every field the
// highest-priority source holding a non-empty value wins. The result is
// independent of input order: records are re-sorted by priority here,
// never trusted to arrive sorted.
func Merge(parts []Partial) Merged {
	sorted := make([]Partial, 0, len(parts))
	for _, p := range parts {
		if p.Empty() && p.Source == "" {
			continue
		}
		sorted = append(sorted, p)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityOf(sorted[i].Source) < priorityOf(sorted[j].Source)
	})

	var out Merged
	contributed := make(map[string]bool, len(sorted))
	for _, p := range sorted {
		used := false
		if out.Stadium == "" && p.Stadium != "" {
			out.Stadium = p.Stadium
			used = true
		}
		if out.Manager == "" && p.Manager != "" {
			out.Manager = p.Manager
			used = true
		}
		if out.Founded == 0 && p.Founded != 0 {
			out.Founded = p.Founded
			used = true
		}
		if out.Website == "" && p.Website != "" {
			out.Website = p.Website
			used = true
		}
		if out.Description == "" && p.Description != "" {
			out.Description = p.Description
			used = true
		}
		if used && p.Source != "" && !contributed[p.Source] {
			contributed[p.Source] = true
			out.Sources = append(out.Sources, p.Source)
		}
	}

	return out
}

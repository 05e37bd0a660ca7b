package teamdata

import (
	"reflect"
	"testing"
)

func TestMerge_FieldPriority(t *testing.T) {
	wiki := Partial{Source: SourceWikipedia, Stadium: "Old Trafford", Founded: 1878}
	sofa := Partial{Source: SourceSofaScore, Stadium: "Theatre of Dreams", Manager: "Erik ten Hag"}

	got := Merge([]Partial{sofa, wiki})

	if got.Stadium != "Old Trafford" {
		t.Fatalf("stadium must come from wikipedia: got=%q", got.Stadium)
	}
	if got.Manager != "Erik ten Hag" {
		t.Fatalf("manager must fall through to sofascore: got=%q", got.Manager)
	}
	if got.Founded != 1878 {
		t.Fatalf("unexpected founded year: got=%d", got.Founded)
	}
}

func TestMerge_DeterministicUnderInputOrder(t *testing.T) {
	wiki := Partial{Source: SourceWikipedia, Stadium: "Old Trafford", Website: "https://www.manutd.com"}
	sofa := Partial{Source: SourceSofaScore, Stadium: "Theatre of Dreams", Description: "English club"}

	forward := Merge([]Partial{wiki, sofa})
	reversed := Merge([]Partial{sofa, wiki})

	if !reflect.DeepEqual(forward, reversed) {
		t.Fatalf("merge depends on input order:\nforward=%+v\nreversed=%+v", forward, reversed)
	}
}

func TestMerge_SourcesListsContributorsInPriorityOrder(t *testing.T) {
	browser := Partial{Source: SourceBrowser, Website: "https://arsenal.com"}
	wiki := Partial{Source: SourceWikipedia, Stadium: "Emirates Stadium"}

	got := Merge([]Partial{browser, wiki})

	want := []string{SourceWikipedia, SourceBrowser}
	if !reflect.DeepEqual(got.Sources, want) {
		t.Fatalf("unexpected sources: got=%v want=%v", got.Sources, want)
	}
}

func TestMerge_NonContributingSourceOmitted(t *testing.T) {
	wiki := Partial{Source: SourceWikipedia, Stadium: "Anfield", Manager: "Arne Slot"}
	sofa := Partial{Source: SourceSofaScore, Stadium: "Anfield Road"}

	got := Merge([]Partial{wiki, sofa})

	// sofascore lost every field to wikipedia, so it must not be listed.
	want := []string{SourceWikipedia}
	if !reflect.DeepEqual(got.Sources, want) {
		t.Fatalf("unexpected sources: got=%v want=%v", got.Sources, want)
	}
}

func TestMerge_EmptyInput(t *testing.T) {
	got := Merge(nil)

	if !got.Empty() || len(got.Sources) != 0 {
		t.Fatalf("merging nothing must yield an empty record: got=%+v", got)
	}
}

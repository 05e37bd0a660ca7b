package browser

import "testing"

func TestPickOfficialURL(t *testing.T) {
	t.Parallel()

	t.Run("prefers host carrying the club name", func(t *testing.T) {
		t.Parallel()

		links := []string{
			"https://en.wikipedia.org/wiki/Arsenal_F.C.",
			"https://www.transfermarkt.com/arsenal-fc",
			"https://www.arsenal.com/",
		}
		if got := pickOfficialURL(links, "Arsenal"); got != "https://www.arsenal.com/" {
			t.Fatalf("unexpected pick: %s", got)
		}
	})

	t.Run("falls back to fc-ish host", func(t *testing.T) {
		t.Parallel()

		links := []string{
			"https://www.youtube.com/some-channel",
			"https://www.smallclubfc.example.org/",
		}
		if got := pickOfficialURL(links, "Zebre"); got != "https://www.smallclubfc.example.org/" {
			t.Fatalf("unexpected pick: %s", got)
		}
	})

	t.Run("aggregators are never picked", func(t *testing.T) {
		t.Parallel()

		links := []string{
			"https://www.sofascore.com/team/arsenal",
			"https://www.flashscore.com/team/arsenal",
		}
		if got := pickOfficialURL(links, "Arsenal"); got != "" {
			t.Fatalf("expected no pick, got %s", got)
		}
	})
}

func TestFindStadium(t *testing.T) {
	t.Parallel()

	body := "Welcome to the official site\nTickets\nVisit Emirates Stadium today\n" +
		"This is a very long paragraph about the history of the club that mentions the stadium somewhere deep inside a wall of text and should not be picked\n"
	if got := findStadium(body); got != "Visit Emirates Stadium today" {
		t.Fatalf("unexpected stadium line: %q", got)
	}

	if got := findStadium("no ground info here"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestNameTokens(t *testing.T) {
	t.Parallel()

	tokens := nameTokens("Real Madrid")
	want := map[string]bool{"real": true, "madrid": true, "realmadrid": true}
	if len(tokens) != len(want) {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
	for _, token := range tokens {
		if !want[token] {
			t.Fatalf("unexpected token %q in %v", token, tokens)
		}
	}
}

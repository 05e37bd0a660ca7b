package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/osegonte/football-dashboard/internal/platform/logging"
)

const arsenalArticle = `<html><body>
<div class="mw-parser-output">
<p class="mw-empty-elt"></p>
<p>Arsenal Football Club is an English professional football club based in Islington, North London, which competes in the Premier League.</p>
<table class="infobox">
<tr><th>Full name</th><td>Arsenal Football Club</td></tr>
<tr><th>Founded</th><td>October 1886; as Dial Square[1]</td></tr>
<tr><th>Ground</th><td>Emirates Stadium[2]</td></tr>
<tr><th>Manager</th><td>Mikel Arteta</td></tr>
<tr><th>Website</th><td><a href="https://www.arsenal.com">arsenal.com</a></td></tr>
</table>
</div>
</body></html>`

func newTestClient(t *testing.T, mux *http.ServeMux) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		APIBaseURL: server.URL + "/w/api.php",
		Timeout:    2 * time.Second,
		Logger:     logging.NewNop(),
	})
	return client, server
}

func TestFetchTeamProfile_ExtractsInfoboxAndLead(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "opensearch" {
			t.Errorf("unexpected action: %s", got)
		}
		_, _ = fmt.Fprintf(w, `["Arsenal",["Arsenal F.C."],[""],["%s/wiki/Arsenal_F.C."]]`, server.URL)
	})
	mux.HandleFunc("/wiki/Arsenal_F.C.", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(arsenalArticle))
	})

	client, srv := newTestClient(t, mux)
	server = srv

	part, ok, err := client.FetchTeamProfile(context.Background(), "Arsenal", "England")
	if err != nil {
		t.Fatalf("fetch profile: %v", err)
	}
	if !ok {
		t.Fatal("expected a profile")
	}

	if part.Stadium != "Emirates Stadium" {
		t.Fatalf("unexpected stadium: %q", part.Stadium)
	}
	if part.Manager != "Mikel Arteta" {
		t.Fatalf("unexpected manager: %q", part.Manager)
	}
	if part.Founded != 1886 {
		t.Fatalf("unexpected founded year: %d", part.Founded)
	}
	if part.Website != "https://www.arsenal.com" {
		t.Fatalf("unexpected website: %q", part.Website)
	}
	if part.Description == "" || part.Description[:7] != "Arsenal" {
		t.Fatalf("unexpected description: %q", part.Description)
	}
	if part.Source != "wikipedia" {
		t.Fatalf("unexpected source tag: %q", part.Source)
	}
}

func TestFetchTeamProfile_NoSearchHitIsAbsent(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["query",[],[],[]]`))
	})

	client, _ := newTestClient(t, mux)

	_, ok, err := client.FetchTeamProfile(context.Background(), "Nonexistent FC", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("no article must report absent")
	}
}

func TestFetchTeamProfile_ShortOpensearchPayloadIsAbsent(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["query"]`))
	})

	client, _ := newTestClient(t, mux)

	_, ok, err := client.FetchTeamProfile(context.Background(), "Whoever", "")
	if err != nil {
		t.Fatalf("truncated payload must not error: %v", err)
	}
	if ok {
		t.Fatal("truncated payload must report absent")
	}
}

func TestFetchTeamProfile_EmptyInfoboxIsAbsent(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintf(w, `["x",["Some Page"],[""],["%s/wiki/Some_Page"]]`, server.URL)
	})
	mux.HandleFunc("/wiki/Some_Page", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="mw-parser-output"><p>Hi.</p></div></body></html>`))
	})

	client, srv := newTestClient(t, mux)
	server = srv

	_, ok, err := client.FetchTeamProfile(context.Background(), "Some Page", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("article without profile fields must report absent")
	}
}

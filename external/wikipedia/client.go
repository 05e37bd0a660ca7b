package wikipedia

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	sonic "github.com/bytedance/sonic"
	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
	"github.com/osegonte/football-dashboard/internal/platform/logging"
)

const (
	defaultAPIBaseURL = "https://en.wikipedia.org/w/api.php"
	sourceName        = "wikipedia"
)

var yearRegex = regexp.MustCompile(`\b(18|19|20)\d{2}\b`)
var citationRegex = regexp.MustCompile(`\[\d+\]`)

type ClientConfig struct {
	HTTPClient *http.Client
	APIBaseURL string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
}

// Client resolves a team to its Wikipedia article via opensearch and
// scrapes the infobox and lead paragraph for profile fields.
type Client struct {
	httpClient *http.Client
	apiBaseURL string
	maxRetries int
	logger     *logging.Logger
	now        func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	apiBaseURL := strings.TrimSpace(cfg.APIBaseURL)
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	return &Client{
		httpClient: httpClient,
		apiBaseURL: apiBaseURL,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		now:        time.Now,
	}
}

func (c *Client) Name() string { return sourceName }

// FetchTeamProfile searches the team article and extracts whatever the
// infobox offers. A team without an article is absent, not an error.
func (c *Client) FetchTeamProfile(ctx context.Context, teamName, country string) (teamdata.Partial, bool, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return teamdata.Partial{}, false, fmt.Errorf("team name is required")
	}

	articleURL, err := c.searchArticle(ctx, teamName)
	if err != nil {
		return teamdata.Partial{}, false, err
	}
	if articleURL == "" {
		// Bare club names are often ambiguous; retry with a football
		// qualifier before giving up.
		articleURL, err = c.searchArticle(ctx, teamName+" football club")
		if err != nil {
			return teamdata.Partial{}, false, err
		}
	}
	if articleURL == "" {
		return teamdata.Partial{}, false, nil
	}

	doc, err := c.fetchDocument(ctx, articleURL)
	if err != nil {
		return teamdata.Partial{}, false, err
	}

	part := c.extractProfile(doc)
	if part.Empty() {
		return teamdata.Partial{}, false, nil
	}
	part.Source = teamdata.SourceWikipedia
	part.ScrapedAt = c.now().UTC()

	return part, true, nil
}

// searchArticle returns the URL of the best opensearch hit, or "" when
// nothing matched. The opensearch payload is a positional four-element
// array, not an object.
func (c *Client) searchArticle(ctx context.Context, query string) (string, error) {
	values := url.Values{}
	values.Set("action", "opensearch")
	values.Set("search", query)
	values.Set("limit", "5")
	values.Set("namespace", "0")
	values.Set("format", "json")

	raw, err := c.get(ctx, c.apiBaseURL+"?"+values.Encode())
	if err != nil {
		return "", fmt.Errorf("opensearch %q: %w", query, err)
	}

	var payload []any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("decode opensearch payload: %w", err)
	}
	if len(payload) < 4 {
		return "", nil
	}
	urls, ok := payload[3].([]any)
	if !ok || len(urls) == 0 {
		return "", nil
	}
	first, ok := urls[0].(string)
	if !ok {
		return "", nil
	}

	return strings.TrimSpace(first), nil
}

func (c *Client) fetchDocument(ctx context.Context, articleURL string) (*goquery.Document, error) {
	raw, err := c.get(ctx, articleURL)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse article: %w", err)
	}

	return doc, nil
}

func (c *Client) extractProfile(doc *goquery.Document) teamdata.Partial {
	var part teamdata.Partial

	doc.Find("table.infobox tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(row.Find("th").First().Text()))
		value := row.Find("td").First()
		if label == "" || value.Length() == 0 {
			return
		}

		switch {
		case label == "ground" || label == "stadium":
			if part.Stadium == "" {
				part.Stadium = cleanCellText(value.Text())
			}
		case label == "manager" || label == "head coach" || label == "coach":
			if part.Manager == "" {
				part.Manager = cleanCellText(value.Text())
			}
		case label == "founded":
			if part.Founded == 0 {
				if m := yearRegex.FindString(value.Text()); m != "" {
					part.Founded, _ = strconv.Atoi(m)
				}
			}
		case label == "website":
			if part.Website == "" {
				if href, ok := value.Find("a").First().Attr("href"); ok {
					part.Website = strings.TrimSpace(href)
				}
			}
		}
	})

	doc.Find("div.mw-parser-output > p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if p.HasClass("mw-empty-elt") {
			return true
		}
		text := cleanCellText(p.Text())
		if len(text) < 40 {
			return true
		}
		part.Description = text
		return false
	})

	return part
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("user-agent", "football-dashboard/1.0 (fixture enrichment)")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("send request: %w", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("read response body: %w", readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				lastErr = fmt.Errorf("wikipedia status=%d", resp.StatusCode)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
					return nil, lastErr
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * 500 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "wikipedia request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func cleanCellText(text string) string {
	text = citationRegex.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
	"github.com/osegonte/football-dashboard/internal/platform/logging"
)

// chromeMu serializes all Chrome usage so only one headless instance
// runs at a time regardless of how many enrichment passes overlap.
var chromeMu sync.Mutex

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Hosts that a web search surfaces for any club but that are never the
// club's own site.
var excludedHosts = []string{
	"wikipedia.org",
	"facebook.com",
	"twitter.com",
	"x.com",
	"instagram.com",
	"youtube.com",
	"transfermarkt",
	"sofascore",
	"flashscore",
}

var stadiumKeywords = []string{"stadium", "arena", "park"}

type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	SearchURL string
	Logger    *logging.Logger
}

// Client is the last-resort enrichment source. It drives a headless
// Chrome through a web search to find the club's official site and
// pulls whatever can be read off the landing page. Expensive and
// imprecise, so the enrichment service only calls it when every
// primary source came back empty.
type Client struct {
	timeout   time.Duration
	userAgent string
	searchURL string
	logger    *logging.Logger
	now       func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	searchURL := strings.TrimSpace(cfg.SearchURL)
	if searchURL == "" {
		searchURL = "https://duckduckgo.com/?q="
	}

	return &Client{
		timeout:   timeout,
		userAgent: userAgent,
		searchURL: searchURL,
		logger:    logger,
		now:       time.Now,
	}
}

func (c *Client) Name() string { return teamdata.SourceBrowser }

func (c *Client) FetchTeamProfile(ctx context.Context, teamName, country string) (teamdata.Partial, bool, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return teamdata.Partial{}, false, fmt.Errorf("team name is required")
	}

	chromeMu.Lock()
	defer chromeMu.Unlock()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(c.userAgent)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, c.timeout)
	defer cancelTimeout()

	links, err := c.searchLinks(browserCtx, teamName, country)
	if err != nil {
		return teamdata.Partial{}, false, fmt.Errorf("search official site: %w", err)
	}

	target := pickOfficialURL(links, teamName)
	if target == "" {
		c.logger.DebugContext(ctx, "no plausible official site found", "team", teamName)
		return teamdata.Partial{}, false, nil
	}

	var title, bodyText string
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.Sleep(2*time.Second),
		chromedp.Title(&title),
		chromedp.Evaluate(`document.body ? document.body.innerText.slice(0, 20000) : ""`, &bodyText),
	)
	if err != nil {
		return teamdata.Partial{}, false, fmt.Errorf("visit %s: %w", target, err)
	}

	part := teamdata.Partial{
		Website:   target,
		Stadium:   findStadium(bodyText),
		Source:    teamdata.SourceBrowser,
		ScrapedAt: c.now().UTC(),
	}
	if title = strings.TrimSpace(title); title != "" {
		part.Description = title
	}
	if part.Empty() {
		return teamdata.Partial{}, false, nil
	}

	return part, true, nil
}

func (c *Client) searchLinks(ctx context.Context, teamName, country string) ([]string, error) {
	query := teamName + " " + country + " football club official website"
	searchURL := c.searchURL + url.QueryEscape(strings.TrimSpace(query))

	var links []string
	err := chromedp.Run(ctx,
		chromedp.Navigate(searchURL),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(
			`Array.from(document.querySelectorAll('a[href^="http"]')).map(a => a.href).slice(0, 40)`,
			&links,
		),
	)
	if err != nil {
		return nil, err
	}

	return links, nil
}

func allocatorOptions(userAgent string) []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(userAgent),
	)
}

// pickOfficialURL chooses the first search hit whose host looks like a
// club site: not an aggregator and ideally carrying a token of the
// club's name.
func pickOfficialURL(links []string, teamName string) string {
	tokens := nameTokens(teamName)

	var fallback string
	for _, link := range links {
		parsed, err := url.Parse(link)
		if err != nil || parsed.Host == "" {
			continue
		}
		host := strings.ToLower(parsed.Host)
		if isExcludedHost(host) {
			continue
		}

		for _, token := range tokens {
			if strings.Contains(host, token) {
				return link
			}
		}
		if fallback == "" && (strings.Contains(host, "fc") || strings.Contains(host, "club")) {
			fallback = link
		}
	}

	return fallback
}

func isExcludedHost(host string) bool {
	for _, excluded := range excludedHosts {
		if strings.Contains(host, excluded) {
			return true
		}
	}
	return false
}

func nameTokens(teamName string) []string {
	fields := strings.Fields(strings.ToLower(teamName))
	tokens := make([]string, 0, len(fields)+1)
	for _, field := range fields {
		field = strings.Map(keepAlnum, field)
		if len(field) >= 4 {
			tokens = append(tokens, field)
		}
	}
	if joined := strings.Map(keepAlnum, strings.ToLower(teamName)); len(joined) >= 4 {
		tokens = append(tokens, joined)
	}
	return tokens
}

func keepAlnum(r rune) rune {
	if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
		return r
	}
	return -1
}

// findStadium scans the visible page text for a short line mentioning
// a stadium keyword. Crude, but official sites almost always name the
// ground in the footer or an about blurb.
func findStadium(bodyText string) string {
	for _, line := range strings.Split(bodyText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > 60 {
			continue
		}
		lower := strings.ToLower(line)
		for _, keyword := range stadiumKeywords {
			if strings.Contains(lower, keyword) {
				return line
			}
		}
	}
	return ""
}

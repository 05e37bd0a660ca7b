package sofascore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/osegonte/football-dashboard/internal/domain/match"
	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
	"github.com/osegonte/football-dashboard/internal/platform/logging"
	"github.com/osegonte/football-dashboard/internal/platform/resilience"
	"github.com/osegonte/football-dashboard/internal/usecase"
)

const (
	defaultBaseURL = "https://api.sofascore.com/api/v1"
	sourceName     = "sofascore"
)

var errSofaScoreTransient = crerr.New("sofascore transient failure")

// The provider throttles unfamiliar clients aggressively, so requests
// rotate through a small pool of desktop user agents.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the SofaScore public JSON API. It serves both as a
// fixture lister and as a team profile enrichment source.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	agentCursor    atomic.Uint32
	now            func() time.Time
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
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}
}

func (c *Client) Name() string { return sourceName }

// FetchMatchesForDateRange lists scheduled events day by day. A day
// the provider refuses is logged and skipped. Even a range where every
// day failed comes back as a zero-result outcome rather than an error,
// so a dead provider degrades the run instead of aborting it.
func (c *Client) FetchMatchesForDateRange(ctx context.Context, from, to time.Time) (usecase.FixtureFetchResult, error) {
	if to.Before(from) {
		return usecase.FixtureFetchResult{}, fmt.Errorf("invalid range: %s after %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var result usecase.FixtureFetchResult
	days := 0
	failedDays := 0
	var lastErr error
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		days++

		records, err := c.fetchDay(ctx, day)
		if err != nil {
			failedDays++
			lastErr = err
			c.logger.WarnContext(ctx, "sofascore day fetch failed",
				"date", day.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		result.DaysProcessed++
		result.TotalMatches += len(records)
		result.Records = append(result.Records, records...)
	}

	if days > 0 && failedDays == days {
		c.logger.WarnContext(ctx, "sofascore returned nothing for entire range",
			"days", days,
			"last_error", lastErr,
		)
	}

	return result, nil
}

func (c *Client) fetchDay(ctx context.Context, day time.Time) ([]match.RawRecord, error) {
	path := "/sport/football/scheduled-events/" + day.Format("2006-01-02")

	var envelope scheduledEventsEnvelope
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}

	records := make([]match.RawRecord, 0, len(envelope.Events))
	for _, event := range envelope.Events {
		record, ok := mapEvent(event)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// FetchTeamProfile resolves the team via the provider's search and
// reads stadium, manager and foundation year off its team endpoint.
func (c *Client) FetchTeamProfile(ctx context.Context, teamName, country string) (teamdata.Partial, bool, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return teamdata.Partial{}, false, fmt.Errorf("team name is required")
	}

	teamID, err := c.searchTeamID(ctx, teamName, country)
	if err != nil {
		return teamdata.Partial{}, false, err
	}
	if teamID <= 0 {
		return teamdata.Partial{}, false, nil
	}

	var envelope teamEnvelope
	if err := c.doJSON(ctx, "/team/"+strconv.FormatInt(teamID, 10), nil, &envelope); err != nil {
		return teamdata.Partial{}, false, err
	}

	part := teamdata.Partial{
		Stadium:   strings.TrimSpace(envelope.Team.Venue.Stadium.Name),
		Manager:   strings.TrimSpace(envelope.Team.Manager.Name),
		Source:    teamdata.SourceSofaScore,
		ScrapedAt: c.now().UTC(),
	}
	if ts := envelope.Team.FoundationDateTimestamp; ts != 0 {
		part.Founded = time.Unix(ts, 0).UTC().Year()
	}
	if part.Empty() {
		return teamdata.Partial{}, false, nil
	}

	return part, true, nil
}

func (c *Client) searchTeamID(ctx context.Context, teamName, country string) (int64, error) {
	var envelope searchEnvelope
	query := map[string]string{"q": teamName}
	if err := c.doJSON(ctx, "/search/all", query, &envelope); err != nil {
		return 0, err
	}

	country = strings.ToLower(strings.TrimSpace(country))
	var fallback int64
	for _, result := range envelope.Results {
		if result.Type != "team" || result.Entity.ID <= 0 {
			continue
		}
		if fallback == 0 {
			fallback = result.Entity.ID
		}
		if country == "" || strings.ToLower(result.Entity.Country.Name) == country {
			return result.Entity.ID, nil
		}
	}

	return fallback, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sofascore circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: fixture provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errSofaScoreTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("user-agent", c.nextUserAgent())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errSofaScoreTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errSofaScoreTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d", errSofaScoreTransient, resp.StatusCode)
			} else {
				return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sofascore request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) nextUserAgent() string {
	idx := c.agentCursor.Add(1)
	return userAgents[int(idx)%len(userAgents)]
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

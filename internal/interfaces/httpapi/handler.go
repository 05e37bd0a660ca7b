package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/osegonte/football-dashboard/internal/domain/league"
	"github.com/osegonte/football-dashboard/internal/domain/match"
	"github.com/osegonte/football-dashboard/internal/domain/team"
	"github.com/osegonte/football-dashboard/internal/platform/logging"
	"github.com/osegonte/football-dashboard/internal/usecase"
)

type Handler struct {
	pipelineService *usecase.PipelineService
	queryService    *usecase.QueryService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	pipelineService *usecase.PipelineService,
	queryService *usecase.QueryService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		pipelineService: pipelineService,
		queryService:    queryService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.queryService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.queryService.ListTeams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeamProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamProfile")
	defer span.End()

	var teamID int64
	if _, err := fmt.Sscanf(r.PathValue("teamID"), "%d", &teamID); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: team id must be numeric", usecase.ErrInvalidInput))
		return
	}

	profile, err := h.queryService.GetTeamProfile(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team profile failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamProfileToDTO(profile))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	req := listMatchesRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	from, to := defaultMatchRange(time.Now().UTC())
	if req.From != "" {
		from, _ = time.Parse(time.DateOnly, req.From)
	}
	if req.To != "" {
		to, _ = time.Parse(time.DateOnly, req.To)
	}

	matches, err := h.queryService.ListMatches(ctx, from, to)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "from", req.From, "to", req.To, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// defaultMatchRange is the window served when the caller sends no
// bounds: today through the end of the default look-ahead.
func defaultMatchRange(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 7)
}

type listMatchesRequest struct {
	From string `validate:"omitempty,datetime=2006-01-02"`
	To   string `validate:"omitempty,datetime=2006-01-02"`
}

type leagueDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Country    string `json:"country,omitempty"`
	ExternalID string `json:"externalId,omitempty"`
}

type teamDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Country    string `json:"country,omitempty"`
	LeagueID   int64  `json:"leagueId,omitempty"`
	ExternalID string `json:"externalId,omitempty"`
	LogoURL    string `json:"logoUrl,omitempty"`
}

type teamProfileDTO struct {
	Team teamDTO      `json:"team"`
	Data *teamDataDTO `json:"data"`
}

type teamDataDTO struct {
	Stadium     string   `json:"stadium,omitempty"`
	Manager     string   `json:"manager,omitempty"`
	Founded     int      `json:"founded,omitempty"`
	Website     string   `json:"website,omitempty"`
	Description string   `json:"description,omitempty"`
	Sources     []string `json:"sources"`
	LastScraped string   `json:"lastScrapedAt"`
}

type matchDTO struct {
	ID         int64   `json:"id"`
	ExternalID string  `json:"externalId"`
	HomeTeam   string  `json:"homeTeam"`
	AwayTeam   string  `json:"awayTeam"`
	Date       *string `json:"date"`
	StartTime  string  `json:"startTime,omitempty"`
	Status     string  `json:"status"`
	Venue      string  `json:"venue,omitempty"`
	Round      string  `json:"round,omitempty"`
	LeagueID   int64   `json:"leagueId,omitempty"`
	Source     string  `json:"source,omitempty"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:         v.ID,
		Name:       v.Name,
		Country:    v.Country,
		ExternalID: v.ExternalID,
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:         v.ID,
		Name:       v.Name,
		Country:    v.Country,
		LeagueID:   v.LeagueID,
		ExternalID: v.ExternalID,
		LogoURL:    v.LogoURL,
	}
}

func teamProfileToDTO(v usecase.TeamProfile) teamProfileDTO {
	dto := teamProfileDTO{Team: teamToDTO(v.Team)}
	if v.Data != nil {
		dto.Data = &teamDataDTO{
			Stadium:     v.Data.Stadium,
			Manager:     v.Data.Manager,
			Founded:     v.Data.Founded,
			Website:     v.Data.Website,
			Description: v.Data.Description,
			Sources:     append([]string(nil), v.Data.Sources...),
			LastScraped: v.Data.LastScraped.UTC().Format(time.RFC3339),
		}
	}

	return dto
}

func matchToDTO(v match.Match) matchDTO {
	dto := matchDTO{
		ID:         v.ID,
		ExternalID: v.ExternalID,
		HomeTeam:   v.HomeTeamName,
		AwayTeam:   v.AwayTeamName,
		StartTime:  v.StartTime,
		Status:     v.Status,
		Venue:      v.Venue,
		Round:      v.Round,
		LeagueID:   v.LeagueID,
		Source:     v.Source,
	}
	if v.MatchDate != nil {
		formatted := v.MatchDate.UTC().Format(time.DateOnly)
		dto.Date = &formatted
	}

	return dto
}

package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/osegonte/football-dashboard/internal/domain/teamdata"
	"github.com/osegonte/football-dashboard/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

const candidatesFileName = "candidates.json"

// EnrichmentSource extracts a best-effort team profile from one
// external provider. The ok flag reports whether anything usable was
// found; an error means the source itself misbehaved.
type EnrichmentSource interface {
	Name() string
	FetchTeamProfile(ctx context.Context, teamName, country string) (teamdata.Partial, bool, error)
}

type EnrichmentConfig struct {
	DataDir  string
	DelayMin time.Duration
	DelayMax time.Duration
}

func normalizeEnrichmentConfig(cfg EnrichmentConfig) EnrichmentConfig {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.DelayMin <= 0 {
		cfg.DelayMin = 2 * time.Second
	}
	if cfg.DelayMax < cfg.DelayMin {
		cfg.DelayMax = cfg.DelayMin
	}
	return cfg
}

// EnrichStats summarizes one enrichment pass.
type EnrichStats struct {
	Attempted int `json:"attempted"`
	Enriched  int `json:"enriched"`
	Failed    int `json:"failed"`
}

// teamProfileArtifact is the per-team JSON dropped next to the store
// so a scrape result survives even if the database write fails later.
type teamProfileArtifact struct {
	TeamID      int64    `json:"team_id"`
	Name        string   `json:"name"`
	League      string   `json:"league"`
	Country     string   `json:"country"`
	Stadium     string   `json:"stadium,omitempty"`
	Manager     string   `json:"manager,omitempty"`
	Founded     int      `json:"founded,omitempty"`
	Website     string   `json:"website,omitempty"`
	Description string   `json:"description,omitempty"`
	Sources     []string `json:"sources"`
	ScrapedAt   string   `json:"scraped_at"`
}

// EnrichmentService scrapes team metadata from several sources and
// merges it into one profile per team. Teams are processed one at a
// time and every provider request is preceded by a jittered pause to
// stay polite to providers.
type EnrichmentService struct {
	dataRepo  teamdata.Repository
	primaries []EnrichmentSource
	fallback  EnrichmentSource
	cfg       EnrichmentConfig
	logger    *logging.Logger
	now       func() time.Time
	sleep     func(time.Duration)
}

func NewEnrichmentService(
	dataRepo teamdata.Repository,
	primaries []EnrichmentSource,
	fallback EnrichmentSource,
	cfg EnrichmentConfig,
	logger *logging.Logger,
) *EnrichmentService {
	if logger == nil {
		logger = logging.Default()
	}

	return &EnrichmentService{
		dataRepo:  dataRepo,
		primaries: primaries,
		fallback:  fallback,
		cfg:       normalizeEnrichmentConfig(cfg),
		logger:    logger,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// EnrichTeams scrapes and persists profiles for the given candidates.
// A team for which every source came back empty counts as failed; the
// pass keeps going regardless.
func (s *EnrichmentService) EnrichTeams(ctx context.Context, candidates []Candidate) (EnrichStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.EnrichTeams")
	defer span.End()

	var stats EnrichStats
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Attempted++

		if err := s.enrichTeam(ctx, candidate); err != nil {
			stats.Failed++
			s.logger.WarnContext(ctx, "team enrichment failed",
				"team_id", candidate.ID,
				"team", candidate.Name,
				"error", err,
			)
			continue
		}
		stats.Enriched++
	}

	return stats, nil
}

func (s *EnrichmentService) enrichTeam(ctx context.Context, candidate Candidate) error {
	parts := make([]teamdata.Partial, 0, len(s.primaries)+1)
	for _, source := range s.primaries {
		s.sleep(s.jitteredDelay())
		part, ok, err := source.FetchTeamProfile(ctx, candidate.Name, candidate.Country)
		if err != nil {
			s.logger.WarnContext(ctx, "enrichment source failed",
				"source", source.Name(),
				"team", candidate.Name,
				"error", err,
			)
			continue
		}
		if ok {
			parts = append(parts, part)
		}
	}

	// The browser is expensive and noisy. It only runs when every
	// primary source came back empty.
	if len(parts) == 0 && s.fallback != nil {
		s.sleep(s.jitteredDelay())
		part, ok, err := s.fallback.FetchTeamProfile(ctx, candidate.Name, candidate.Country)
		if err != nil {
			s.logger.WarnContext(ctx, "fallback source failed",
				"source", s.fallback.Name(),
				"team", candidate.Name,
				"error", err,
			)
		} else if ok {
			parts = append(parts, part)
		}
	}

	merged := teamdata.Merge(parts)
	if merged.Empty() {
		return fmt.Errorf("no source produced data for team %q", candidate.Name)
	}

	now := s.now().UTC()
	if _, err := s.dataRepo.Upsert(ctx, teamdata.TeamData{
		TeamID:      candidate.ID,
		Stadium:     merged.Stadium,
		Manager:     merged.Manager,
		Founded:     merged.Founded,
		Website:     merged.Website,
		Description: merged.Description,
		Sources:     merged.Sources,
		LastScraped: now,
	}); err != nil {
		return fmt.Errorf("upsert team data: %w", err)
	}

	if err := s.writeTeamArtifact(candidate, merged, now); err != nil {
		s.logger.WarnContext(ctx, "write team artifact failed",
			"team_id", candidate.ID,
			"error", err,
		)
	}

	return nil
}

// SaveCandidates drops the selected candidates as a JSON artifact so
// the enrichment stage can be replayed without re-querying the store.
func (s *EnrichmentService) SaveCandidates(ctx context.Context, candidates []Candidate) error {
	_, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.SaveCandidates")
	defer span.End()

	if err := os.MkdirAll(s.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if candidates == nil {
		candidates = []Candidate{}
	}
	payload, err := sonic.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("encode candidates: %w", err)
	}
	buf.Set(payload)

	path := filepath.Join(s.cfg.DataDir, candidatesFileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write candidates artifact: %w", err)
	}

	return nil
}

// LoadCandidates reads back the candidates artifact. A missing file is
// ErrNotFound so callers can distinguish "never saved" from corruption.
func (s *EnrichmentService) LoadCandidates(ctx context.Context) ([]Candidate, error) {
	_, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.LoadCandidates")
	defer span.End()

	path := filepath.Join(s.cfg.DataDir, candidatesFileName)
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: candidates artifact %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read candidates artifact: %w", err)
	}

	var candidates []Candidate
	if err := sonic.Unmarshal(payload, &candidates); err != nil {
		return nil, fmt.Errorf("decode candidates artifact: %w", err)
	}

	return candidates, nil
}

// EnrichFromArtifact replays enrichment for the last saved candidates.
func (s *EnrichmentService) EnrichFromArtifact(ctx context.Context) (EnrichStats, error) {
	candidates, err := s.LoadCandidates(ctx)
	if err != nil {
		return EnrichStats{}, err
	}

	return s.EnrichTeams(ctx, candidates)
}

func (s *EnrichmentService) writeTeamArtifact(candidate Candidate, merged teamdata.Merged, scrapedAt time.Time) error {
	dir := filepath.Join(s.cfg.DataDir, "teams")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create teams dir: %w", err)
	}

	artifact := teamProfileArtifact{
		TeamID:      candidate.ID,
		Name:        candidate.Name,
		League:      candidate.League,
		Country:     candidate.Country,
		Stadium:     merged.Stadium,
		Manager:     merged.Manager,
		Founded:     merged.Founded,
		Website:     merged.Website,
		Description: merged.Description,
		Sources:     merged.Sources,
		ScrapedAt:   scrapedAt.Format(time.RFC3339),
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	payload, err := sonic.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("encode team artifact: %w", err)
	}
	buf.Set(payload)

	name := fmt.Sprintf("team_%d_%s.json", candidate.ID, slugify(candidate.Name))
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write team artifact: %w", err)
	}

	return nil
}

func (s *EnrichmentService) jitteredDelay() time.Duration {
	spread := s.cfg.DelayMax - s.cfg.DelayMin
	if spread <= 0 {
		return s.cfg.DelayMin
	}
	return s.cfg.DelayMin + time.Duration(rand.Int63n(int64(spread)))
}

func slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

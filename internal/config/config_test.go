package config

import (
	"testing"
	"time"

	"github.com/osegonte/football-dashboard/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected default http addr: %q", cfg.HTTPAddr)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected empty DB_URL default, got %q", cfg.DBURL)
	}
	if cfg.PipelineDaysAhead != 7 {
		t.Fatalf("unexpected default days ahead: %d", cfg.PipelineDaysAhead)
	}
	if cfg.PipelineTeamLimit != 25 {
		t.Fatalf("unexpected default team limit: %d", cfg.PipelineTeamLimit)
	}
	if cfg.SchedulerEnabled {
		t.Fatalf("expected scheduler disabled by default")
	}
	if cfg.SchedulerInterval != 12*time.Hour {
		t.Fatalf("unexpected default scheduler interval: %s", cfg.SchedulerInterval)
	}
	if cfg.EnrichDelayMin != 2*time.Second || cfg.EnrichDelayMax != 4*time.Second {
		t.Fatalf("unexpected enrichment delays: %s..%s", cfg.EnrichDelayMin, cfg.EnrichDelayMax)
	}
	if cfg.SofaScoreBaseURL != "https://api.sofascore.com/api/v1" {
		t.Fatalf("unexpected sofascore base url: %q", cfg.SofaScoreBaseURL)
	}
	if cfg.BrowserEnabled {
		t.Fatalf("expected browser fallback disabled by default")
	}
}

func TestLoad_PipelineBoundsValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("days ahead must be positive", func(t *testing.T) {
		t.Setenv("PIPELINE_DAYS_AHEAD", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for PIPELINE_DAYS_AHEAD=0")
		}
	})

	t.Run("team limit must be positive", func(t *testing.T) {
		t.Setenv("PIPELINE_TEAM_LIMIT", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative PIPELINE_TEAM_LIMIT")
		}
	})

	t.Run("delay max below min", func(t *testing.T) {
		t.Setenv("ENRICH_DELAY_MIN", "5s")
		t.Setenv("ENRICH_DELAY_MAX", "1s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when ENRICH_DELAY_MAX < ENRICH_DELAY_MIN")
		}
	})
}

func TestLoad_SofaScoreCircuitParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SOFASCORE_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("SOFASCORE_CIRCUIT_OPEN_TIMEOUT", "30s")
	t.Setenv("SOFASCORE_MAX_RETRIES", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SofaScoreCircuitFailureCount != 3 {
		t.Fatalf("unexpected failure count: %d", cfg.SofaScoreCircuitFailureCount)
	}
	if cfg.SofaScoreCircuitOpenTimeout != 30*time.Second {
		t.Fatalf("unexpected open timeout: %s", cfg.SofaScoreCircuitOpenTimeout)
	}
	if cfg.SofaScoreMaxRetries != 4 {
		t.Fatalf("unexpected max retries: %d", cfg.SofaScoreMaxRetries)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
	}
	if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
		t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

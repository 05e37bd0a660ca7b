package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/osegonte/football-dashboard/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// DBURL empty means the in-memory store: handy for local runs and
	// tests, everything is lost on shutdown.
	DBURL string

	CORSAllowedOrigins []string
	LogLevel           logging.Level

	DataDir           string
	PipelineDaysAhead int
	PipelineTeamLimit int
	SchedulerEnabled  bool
	SchedulerInterval time.Duration
	EnrichDelayMin    time.Duration
	EnrichDelayMax    time.Duration

	SofaScoreBaseURL               string
	SofaScoreTimeout               time.Duration
	SofaScoreMaxRetries            int
	SofaScoreCircuitEnabled        bool
	SofaScoreCircuitFailureCount   int
	SofaScoreCircuitOpenTimeout    time.Duration
	SofaScoreCircuitHalfOpenMaxReq int

	WikipediaBaseURL string
	WikipediaTimeout time.Duration

	BrowserEnabled   bool
	BrowserTimeout   time.Duration
	BrowserSearchURL string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	daysAhead, err := getEnvAsInt("PIPELINE_DAYS_AHEAD", 7)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_DAYS_AHEAD: %w", err)
	}
	if daysAhead < 1 {
		return Config{}, fmt.Errorf("PIPELINE_DAYS_AHEAD must be >= 1")
	}

	teamLimit, err := getEnvAsInt("PIPELINE_TEAM_LIMIT", 25)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_TEAM_LIMIT: %w", err)
	}
	if teamLimit < 1 {
		return Config{}, fmt.Errorf("PIPELINE_TEAM_LIMIT must be >= 1")
	}

	schedulerEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_ENABLED: %w", err)
	}
	schedulerInterval, err := time.ParseDuration(getEnv("SCHEDULER_INTERVAL", "12h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_INTERVAL: %w", err)
	}
	if schedulerInterval <= 0 {
		return Config{}, fmt.Errorf("SCHEDULER_INTERVAL must be > 0")
	}

	enrichDelayMin, err := time.ParseDuration(getEnv("ENRICH_DELAY_MIN", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ENRICH_DELAY_MIN: %w", err)
	}
	if enrichDelayMin <= 0 {
		return Config{}, fmt.Errorf("ENRICH_DELAY_MIN must be > 0")
	}
	enrichDelayMax, err := time.ParseDuration(getEnv("ENRICH_DELAY_MAX", "4s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ENRICH_DELAY_MAX: %w", err)
	}
	if enrichDelayMax < enrichDelayMin {
		return Config{}, fmt.Errorf("ENRICH_DELAY_MAX must be >= ENRICH_DELAY_MIN")
	}

	sofaScoreTimeout, err := time.ParseDuration(getEnv("SOFASCORE_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SOFASCORE_TIMEOUT: %w", err)
	}
	if sofaScoreTimeout <= 0 {
		return Config{}, fmt.Errorf("SOFASCORE_TIMEOUT must be > 0")
	}
	sofaScoreMaxRetries, err := getEnvAsInt("SOFASCORE_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SOFASCORE_MAX_RETRIES: %w", err)
	}
	if sofaScoreMaxRetries < 0 {
		return Config{}, fmt.Errorf("SOFASCORE_MAX_RETRIES must be >= 0")
	}
	sofaScoreCircuitEnabled, err := strconv.ParseBool(getEnv("SOFASCORE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SOFASCORE_CIRCUIT_ENABLED: %w", err)
	}
	sofaScoreCircuitFailureCount, err := getEnvAsInt("SOFASCORE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SOFASCORE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if sofaScoreCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SOFASCORE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	sofaScoreCircuitOpenTimeout, err := time.ParseDuration(getEnv("SOFASCORE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SOFASCORE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if sofaScoreCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SOFASCORE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	sofaScoreCircuitHalfOpenMaxReq, err := getEnvAsInt("SOFASCORE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SOFASCORE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if sofaScoreCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SOFASCORE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	wikipediaTimeout, err := time.ParseDuration(getEnv("WIKIPEDIA_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WIKIPEDIA_TIMEOUT: %w", err)
	}
	if wikipediaTimeout <= 0 {
		return Config{}, fmt.Errorf("WIKIPEDIA_TIMEOUT must be > 0")
	}

	browserEnabled, err := strconv.ParseBool(getEnv("BROWSER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BROWSER_ENABLED: %w", err)
	}
	browserTimeout, err := time.ParseDuration(getEnv("BROWSER_TIMEOUT", "45s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BROWSER_TIMEOUT: %w", err)
	}
	if browserTimeout <= 0 {
		return Config{}, fmt.Errorf("BROWSER_TIMEOUT must be > 0")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "football-dashboard-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		DataDir:           getEnv("PIPELINE_DATA_DIR", "data"),
		PipelineDaysAhead: daysAhead,
		PipelineTeamLimit: teamLimit,
		SchedulerEnabled:  schedulerEnabled,
		SchedulerInterval: schedulerInterval,
		EnrichDelayMin:    enrichDelayMin,
		EnrichDelayMax:    enrichDelayMax,

		SofaScoreBaseURL:               strings.TrimSpace(getEnv("SOFASCORE_BASE_URL", "https://api.sofascore.com/api/v1")),
		SofaScoreTimeout:               sofaScoreTimeout,
		SofaScoreMaxRetries:            sofaScoreMaxRetries,
		SofaScoreCircuitEnabled:        sofaScoreCircuitEnabled,
		SofaScoreCircuitFailureCount:   sofaScoreCircuitFailureCount,
		SofaScoreCircuitOpenTimeout:    sofaScoreCircuitOpenTimeout,
		SofaScoreCircuitHalfOpenMaxReq: sofaScoreCircuitHalfOpenMaxReq,

		WikipediaBaseURL: strings.TrimSpace(getEnv("WIKIPEDIA_BASE_URL", "https://en.wikipedia.org/w/api.php")),
		WikipediaTimeout: wikipediaTimeout,

		BrowserEnabled:   browserEnabled,
		BrowserTimeout:   browserTimeout,
		BrowserSearchURL: strings.TrimSpace(getEnv("BROWSER_SEARCH_URL", "https://duckduckgo.com/?q=")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

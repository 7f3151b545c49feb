package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application-level configuration
type Config struct {
	// Cache directories
	DataDir      string
	StandingsDir string
	ScoresDir    string

	// Scraper
	BaseURL      string
	Seasons      []int
	MaxRetries   int
	BaseDelay    time.Duration // multiplied by the attempt number before each fetch
	FetchTimeout time.Duration // per-attempt navigation timeout
	Headless     bool

	// Parser
	OutputCSV    string
	PartialGames string // "keep" or "drop"

	// Logging
	LogLevel string

	// Optional sinks; empty disables
	DatabaseURL string
	RedisURL    string
	RedisStream string
	GCSBucket   string
	GCSPrefix   string
	BQProject   string
	BQDataset   string
	BQTable     string
}

const (
	PartialKeep = "keep"
	PartialDrop = "drop"
)

// Load reads configuration from environment variables or falls back to defaults
func Load() *Config {
	dataDir := getEnv("DATA_DIR", "data")
	return &Config{
		DataDir:      dataDir,
		StandingsDir: getEnv("STANDINGS_DIR", filepath.Join(dataDir, "standings")),
		ScoresDir:    getEnv("SCORES_DIR", filepath.Join(dataDir, "scores")),
		BaseURL:      strings.TrimRight(getEnv("BASE_URL", "https://www.basketball-reference.com"), "/"),
		Seasons:      getEnvSeasons("SEASONS", defaultSeasons()),
		MaxRetries:   getEnvInt("MAX_RETRIES", 3),
		BaseDelay:    time.Duration(getEnvInt("BASE_DELAY_MS", 5000)) * time.Millisecond,
		FetchTimeout: time.Duration(getEnvInt("FETCH_TIMEOUT_SEC", 60)) * time.Second,
		Headless:     getEnvBool("HEADLESS", true),
		OutputCSV:    getEnv("OUTPUT_CSV", "nba_games.csv"),
		PartialGames: strings.ToLower(getEnv("PARTIAL_GAMES", PartialKeep)),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RedisURL:     getEnv("REDIS_URL", ""),
		RedisStream:  getEnv("REDIS_STREAM", "nba.games.records"),
		GCSBucket:    getEnv("GCS_BUCKET", ""),
		GCSPrefix:    getEnv("GCS_PREFIX", "nba-games"),
		BQProject:    getEnv("BQ_PROJECT", ""),
		BQDataset:    getEnv("BQ_DATASET", "nba"),
		BQTable:      getEnv("BQ_TABLE", "games"),
	}
}

// Validate checks the values that have no safe fallback
func (c *Config) Validate() error {
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.BaseDelay < 0 {
		return fmt.Errorf("base delay must not be negative, got %v", c.BaseDelay)
	}
	if c.PartialGames != PartialKeep && c.PartialGames != PartialDrop {
		return fmt.Errorf("invalid partial games policy: %q (must be %q or %q)", c.PartialGames, PartialKeep, PartialDrop)
	}
	if len(c.Seasons) == 0 {
		return fmt.Errorf("no seasons configured")
	}
	return nil
}

func defaultSeasons() []int {
	seasons := make([]int, 0, 9)
	for s := 2016; s <= 2024; s++ {
		seasons = append(seasons, s)
	}
	return seasons
}

// ParseSeasons accepts "2016-2024", "2019,2021" or a mix like "2016-2018,2021".
func ParseSeasons(raw string) ([]int, error) {
	var seasons []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid season range %q: %w", part, err)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid season range %q: %w", part, err)
			}
			if end < start {
				return nil, fmt.Errorf("invalid season range %q: end before start", part)
			}
			for s := start; s <= end; s++ {
				seasons = append(seasons, s)
			}
			continue
		}
		s, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid season %q: %w", part, err)
		}
		seasons = append(seasons, s)
	}
	return seasons, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvSeasons(key string, defaultVal []int) []int {
	if val := os.Getenv(key); val != "" {
		if seasons, err := ParseSeasons(val); err == nil && len(seasons) > 0 {
			return seasons
		}
	}
	return defaultVal
}

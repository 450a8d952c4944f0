package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Seattle open data config
const SEATTLE_OPEN_DATA_ENDPOINT_BASE = "https://data.seattle.gov/resource"
const FREMONT_BRIDGE_DATASET = "65db-xm6k"
const DEFAULT_QUERY_LIMIT = 50000

// Server config
const DEFAULT_PORT = "3300"
const DEFAULT_PUBLIC_DIR = "public"
const DEFAULT_SRC_DIR = "src"
const SHUTDOWN_TIMEOUT_SECONDS = 5

// Fetch deferral before every outbound query, as the page always did.
const DEFAULT_FETCH_DELAY = 1 * time.Second
const DEFAULT_HTTP_TIMEOUT = 10 * time.Second

// Redis Config
const DEFAULT_REDIS_ADDRESS = "redis:6379"
const DEFAULT_CACHE_TTL = 6 * time.Hour

// Bike counts refresher config
const DEFAULT_REFRESH_INTERVAL = 60 * time.Minute

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const BIKE_COUNTS_SAMPLE_RESOURCE = "bike_counts_sample.json"

const (
	ENV_PROD = "prod"
	ENV_DEV  = "dev"
)

// Mock data source modes, used outside prod
const (
	MOCK_MODE_SAMPLE    = "sample"
	MOCK_MODE_GENERATED = "generated"
)

const DEFAULT_MOCK_SEED = 2014

// Config holds the runtime settings, read from the environment (and an
// optional .env file) with the defaults above.
type Config struct {
	Env       string
	Port      string
	PublicDir string
	SrcDir    string

	FetchDelay  time.Duration
	HTTPTimeout time.Duration
	QueryLimit  int

	RedisEnabled  bool
	RedisAddress  string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RefreshInterval time.Duration

	MockMode string
	MockSeed int

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	cfg := &Config{
		Env:           envOrDefault("APP_ENV", ENV_DEV),
		Port:          envOrDefault("PORT", DEFAULT_PORT),
		PublicDir:     envOrDefault("PUBLIC_DIR", DEFAULT_PUBLIC_DIR),
		SrcDir:        envOrDefault("SRC_DIR", DEFAULT_SRC_DIR),
		RedisAddress:  envOrDefault("REDIS_ADDR", DEFAULT_REDIS_ADDRESS),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		LogFormat:     envOrDefault("LOG_FORMAT", "console"),
		MockMode:      envOrDefault("MOCK_MODE", MOCK_MODE_SAMPLE),
	}

	var err error
	if cfg.FetchDelay, err = parseDuration("FETCH_DELAY", DEFAULT_FETCH_DELAY, true); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = parseDuration("HTTP_TIMEOUT", DEFAULT_HTTP_TIMEOUT, false); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", DEFAULT_CACHE_TTL, true); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = parseDuration("REFRESH_INTERVAL", DEFAULT_REFRESH_INTERVAL, true); err != nil {
		return nil, err
	}
	if cfg.QueryLimit, err = parseInt("QUERY_LIMIT", DEFAULT_QUERY_LIMIT); err != nil {
		return nil, err
	}
	if cfg.QueryLimit <= 0 {
		return nil, errors.New("invalid QUERY_LIMIT: must be positive")
	}
	if cfg.RedisDB, err = parseInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.MockSeed, err = parseInt("MOCK_SEED", DEFAULT_MOCK_SEED); err != nil {
		return nil, err
	}
	if cfg.MockSeed < 0 {
		return nil, errors.New("invalid MOCK_SEED: must not be negative")
	}
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		if cfg.RedisEnabled, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid REDIS_ENABLED: %w", err)
		}
	}

	if cfg.Env != ENV_PROD && cfg.Env != ENV_DEV {
		return nil, fmt.Errorf("invalid APP_ENV %q: want %s or %s", cfg.Env, ENV_DEV, ENV_PROD)
	}
	if cfg.MockMode != MOCK_MODE_SAMPLE && cfg.MockMode != MOCK_MODE_GENERATED {
		return nil, fmt.Errorf("invalid MOCK_MODE %q: want %s or %s", cfg.MockMode, MOCK_MODE_SAMPLE, MOCK_MODE_GENERATED)
	}

	return cfg, nil
}

// IsProd reports whether the live Seattle open data API should be queried.
func (c *Config) IsProd() bool {
	return c.Env == ENV_PROD
}

// ListenAddr returns the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return ":" + c.Port
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration, allowZero bool) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s: %s is out of range", key, d)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything Shelf reads at startup.
type Config struct {
	APIURL            string
	RequestTimeout    time.Duration
	Retries           int
	RequestsPerSecond float64
	RefreshInterval   time.Duration
	StaleAfter        time.Duration
	RowsPerPage       int
	LogFile           string
}

const (
	defaultConfigPath      = "~/.config/shelf/config.toml"
	defaultLogFile         = "~/.local/state/shelf/shelf.log"
	defaultAPIURL          = "http://127.0.0.1:3001"
	defaultRequestTimeout  = 5 * time.Second
	defaultRetries         = 1
	maxRetries             = 1 // at most one retry of an idempotent request
	defaultRefreshInterval = 30 * time.Second
	defaultRowsPerPage     = 10
)

// Environment variables that override the file.
const (
	EnvAPIURL      = "SHELF_API_URL"
	EnvRetries     = "SHELF_RETRIES"
	EnvRowsPerPage = "SHELF_ROWS_PER_PAGE"
)

// Default returns the built-in configuration with paths expanded.
func Default() Config {
	return Config{
		APIURL:          defaultAPIURL,
		RequestTimeout:  defaultRequestTimeout,
		Retries:         defaultRetries,
		RefreshInterval: defaultRefreshInterval,
		RowsPerPage:     defaultRowsPerPage,
		LogFile:         mustExpand(defaultLogFile),
	}
}

// LoadEnvFile reads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load locates and parses the config, falling back to defaults when missing.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL            string  `toml:"api_url"`
		RequestTimeout    string  `toml:"request_timeout"`
		Retries           *int    `toml:"retries"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		RefreshInterval   string  `toml:"refresh_interval"`
		StaleAfter        string  `toml:"stale_after"`
		RowsPerPage       int     `toml:"rows_per_page"`
		LogFile           string  `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = parseDuration("refresh_interval", raw.RefreshInterval, cfg.RefreshInterval); err != nil {
		return Config{}, err
	}
	if cfg.StaleAfter, err = parseDuration("stale_after", raw.StaleAfter, cfg.StaleAfter); err != nil {
		return Config{}, err
	}
	if raw.Retries != nil {
		if *raw.Retries < 0 || *raw.Retries > maxRetries {
			return Config{}, fmt.Errorf("parse config: retries must be 0 or %d, got %d", maxRetries, *raw.Retries)
		}
		cfg.Retries = *raw.Retries
	}
	if raw.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = raw.RequestsPerSecond
	}
	if raw.RowsPerPage > 0 {
		cfg.RowsPerPage = raw.RowsPerPage
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRetries)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxRetries {
			return Config{}, fmt.Errorf("%s: want 0 or %d, got %q", EnvRetries, maxRetries, v)
		}
		cfg.Retries = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvRowsPerPage)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%s: want a positive integer, got %q", EnvRowsPerPage, v)
		}
		cfg.RowsPerPage = n
	}
	return cfg, nil
}

func parseDuration(key, raw string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse config: %s must not be negative", key)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

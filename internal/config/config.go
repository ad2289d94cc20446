package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything courtside reads from config.toml.
type Config struct {
	APIBase           string
	UserAgent         string
	Categories        []string
	PageLimit         int
	RequestTimeout    time.Duration
	RequestsPerSecond int
	Search            Search
	LogLevel          string
	LogFile           string
}

// Search tunes the debounced search controller.
type Search struct {
	Debounce       time.Duration
	Latency        time.Duration
	MinQueryLength int
	MaxQueryLength int
	CacheSize      int
}

const (
	defaultConfigPath        = "~/.config/courtside/config.toml"
	defaultLogFile           = "~/.local/state/courtside/courtside.log"
	defaultAPIBase           = "https://en.wikipedia.org"
	defaultUserAgent         = "courtside/0.1 (+https://github.com/five82/courtside)"
	defaultPageLimit         = 500
	defaultRequestTimeout    = 10 * time.Second
	defaultRequestsPerSecond = 5
	defaultDebounce          = 300 * time.Millisecond
	defaultLatency           = 500 * time.Millisecond
	defaultMinQueryLength    = 2
	defaultMaxQueryLength    = 100
	defaultCacheSize         = 256
	defaultLogLevel          = "info"
	maxPageLimit             = 500
)

var defaultCategories = []string{
	"Category:Italian_male_tennis_players",
	"Category:Italian_female_tennis_players",
}

// ValidationError reports a config field holding an unusable value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBase:           defaultAPIBase,
		UserAgent:         defaultUserAgent,
		Categories:        append([]string(nil), defaultCategories...),
		PageLimit:         defaultPageLimit,
		RequestTimeout:    defaultRequestTimeout,
		RequestsPerSecond: defaultRequestsPerSecond,
		Search: Search{
			Debounce:       defaultDebounce,
			Latency:        defaultLatency,
			MinQueryLength: defaultMinQueryLength,
			MaxQueryLength: defaultMaxQueryLength,
			CacheSize:      defaultCacheSize,
		},
		LogLevel: defaultLogLevel,
		LogFile:  mustExpand(defaultLogFile),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase           string   `toml:"api_base"`
		UserAgent         string   `toml:"user_agent"`
		Categories        []string `toml:"categories"`
		PageLimit         *int     `toml:"page_limit"`
		RequestTimeoutMS  *int     `toml:"request_timeout_ms"`
		RequestsPerSecond *int     `toml:"requests_per_second"`
		LogLevel          string   `toml:"log_level"`
		LogFile           string   `toml:"log_file"`
		Search            struct {
			DebounceMS     *int `toml:"debounce_ms"`
			LatencyMS      *int `toml:"latency_ms"`
			MinQueryLength *int `toml:"min_query_length"`
			MaxQueryLength *int `toml:"max_query_length"`
			CacheSize      *int `toml:"cache_size"`
		} `toml:"search"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(raw.UserAgent); v != "" {
		cfg.UserAgent = v
	}
	if raw.Categories != nil {
		cfg.Categories = cfg.Categories[:0]
		for _, c := range raw.Categories {
			if c = strings.TrimSpace(c); c != "" {
				cfg.Categories = append(cfg.Categories, c)
			}
		}
	}
	setInt(&cfg.PageLimit, raw.PageLimit)
	setMillis(&cfg.RequestTimeout, raw.RequestTimeoutMS)
	setInt(&cfg.RequestsPerSecond, raw.RequestsPerSecond)
	setMillis(&cfg.Search.Debounce, raw.Search.DebounceMS)
	setMillis(&cfg.Search.Latency, raw.Search.LatencyMS)
	setInt(&cfg.Search.MinQueryLength, raw.Search.MinQueryLength)
	setInt(&cfg.Search.MaxQueryLength, raw.Search.MaxQueryLength)
	setInt(&cfg.Search.CacheSize, raw.Search.CacheSize)

	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise surface as odd runtime behavior.
func (c Config) Validate() error {
	switch {
	case len(c.Categories) == 0:
		return &ValidationError{Field: "categories", Reason: "at least one category is required"}
	case c.PageLimit < 1 || c.PageLimit > maxPageLimit:
		return &ValidationError{Field: "page_limit", Reason: fmt.Sprintf("must be between 1 and %d", maxPageLimit)}
	case c.RequestTimeout < 0:
		return &ValidationError{Field: "request_timeout_ms", Reason: "must not be negative"}
	case c.RequestsPerSecond < 0:
		return &ValidationError{Field: "requests_per_second", Reason: "must not be negative"}
	case c.Search.Debounce < 0:
		return &ValidationError{Field: "search.debounce_ms", Reason: "must not be negative"}
	case c.Search.Latency < 0:
		return &ValidationError{Field: "search.latency_ms", Reason: "must not be negative"}
	case c.Search.MinQueryLength < 1:
		return &ValidationError{Field: "search.min_query_length", Reason: "must be at least 1"}
	case c.Search.MaxQueryLength < c.Search.MinQueryLength:
		return &ValidationError{Field: "search.max_query_length", Reason: "must not be below min_query_length"}
	case c.Search.CacheSize < 0:
		return &ValidationError{Field: "search.cache_size", Reason: "must not be negative"}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Field: "log_level", Reason: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	return nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setMillis(dst *time.Duration, v *int) {
	if v != nil {
		*dst = time.Duration(*v) * time.Millisecond
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
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

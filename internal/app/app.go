package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/five82/courtside/internal/config"
	"github.com/five82/courtside/internal/prefs"
	"github.com/five82/courtside/internal/roster"
	"github.com/five82/courtside/internal/search"
	"github.com/five82/courtside/internal/ui"
	"github.com/five82/courtside/internal/wiki"
)

// Options configure the courtside application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/courtside/prefs.toml
	LogFile    string // overrides the config log_file
	Verbose    bool
	Version    string
}

// Run boots the courtside TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile := cfg.LogFile
	if v := strings.TrimSpace(opts.LogFile); v != "" {
		logFile = v
	}
	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger, closeLog := newLogger(logFile, level)
	defer closeLog()
	logger.Info("starting", "version", opts.Version, "api", cfg.APIBase, "categories", len(cfg.Categories))

	prefsPath := opts.PrefsPath
	if strings.TrimSpace(prefsPath) == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn("prefs unreadable, using defaults", "path", prefsPath, "err", err)
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("init wiki client: %w", err)
	}
	source := roster.New(client, cfg.Categories,
		roster.WithPageLimit(cfg.PageLimit),
		roster.WithLogger(logger.WithPrefix("roster")),
	)

	return ui.Run(ui.Options{
		Context:     ctx,
		Source:      source,
		Search:      searchOptions(cfg.Search),
		Logger:      logger.WithPrefix("ui"),
		ThemeName:   userPrefs.Theme,
		ShowSortKey: userPrefs.ShowSortKey,
		PrefsPath:   prefsPath,
		ArticleURL:  client.ArticleURL,
	})
}

func newClient(cfg config.Config, logger *log.Logger) (*wiki.Client, error) {
	opts := []wiki.Option{
		wiki.WithUserAgent(cfg.UserAgent),
		wiki.WithLogger(logger.WithPrefix("wiki")),
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, wiki.WithTimeout(cfg.RequestTimeout))
	}
	if cfg.RequestsPerSecond > 0 {
		opts = append(opts, wiki.WithRateLimit(float64(cfg.RequestsPerSecond)))
	}
	return wiki.NewClient(cfg.APIBase, opts...)
}

func searchOptions(s config.Search) search.Options {
	return search.Options{
		Debounce:       s.Debounce,
		Latency:        s.Latency,
		MinQueryLength: s.MinQueryLength,
		MaxQueryLength: s.MaxQueryLength,
		CacheSize:      s.CacheSize,
	}
}

// newLogger opens path for appending and returns a logger writing to it. The
// terminal belongs to the UI, so when the file cannot be opened records are
// discarded.
func newLogger(path, level string) (*log.Logger, func()) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if path = strings.TrimSpace(path); path != "" {
		if f, err := openLogFile(path); err == nil {
			w = f
			closeFn = func() { _ = f.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "courtside",
	})
	return logger, closeFn
}

func openLogFile(path string) (*os.File, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

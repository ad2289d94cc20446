package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/courtside/internal/app"
)

var (
	// Version is the release version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "courtside: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "courtside",
		Short: "Search Italian tennis players from Wikipedia as you type",
		Long: `courtside fetches the Italian male and female tennis player categories from
Wikipedia once at startup and lets you search them with a debounced,
highlighted, keyboard navigable result list.`,
		Version:       versionString(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Version = Version
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default is ~/.config/courtside/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default is ~/.config/courtside/prefs.toml)")
	flags.StringVar(&opts.LogFile, "log-file", "", "log file (overrides log_file from the config)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")
	return cmd
}

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

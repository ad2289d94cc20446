// Package app is the composition root for courtside.
//
// Run loads the TOML config and user preferences, opens the log file, builds
// the Wikipedia client and the roster source over it, and hands everything to
// the Bubble Tea program in package ui, which blocks until the user quits or
// the context is cancelled.
//
//	Run()
//	  ├─> config.Load()    ~/.config/courtside/config.toml, defaults when missing
//	  ├─> newLogger()      charmbracelet/log to a file; the TUI owns the terminal
//	  ├─> prefs.Load()     theme and sort-key column, defaults on error
//	  ├─> wiki.NewClient() rate limited categorymembers client
//	  ├─> roster.New()     merges the configured categories
//	  └─> ui.Run()         blocks
//
// Config errors are fatal. A broken prefs file or an unwritable log path is
// logged or ignored and startup continues. The roster fetch happens inside
// the UI so that a failed fetch can be retried without restarting.
package app

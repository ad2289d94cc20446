// Package config loads courtside's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/courtside/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	api_base = "https://en.wikipedia.org"
//	user_agent = "courtside/0.1 (+https://github.com/five82/courtside)"
//	categories = [
//		"Category:Italian_male_tennis_players",
//		"Category:Italian_female_tennis_players",
//	]
//	page_limit = 500
//	request_timeout_ms = 10000
//	requests_per_second = 5
//	log_level = "info"
//	log_file = "~/.local/state/courtside/courtside.log"
//
//	[search]
//	debounce_ms = 300
//	latency_ms = 500
//	min_query_length = 2
//	max_query_length = 100
//	cache_size = 256
//
// Every field is optional. Strings are trimmed and tilde expansion is
// applied to log_file. Numeric fields keep an explicit zero: latency_ms = 0
// asks for the controller default, cache_size = 0 disables memoisation and
// requests_per_second = 0 disables throttling.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors ("parse config: ...")
//   - Out-of-range values, as *ValidationError naming the field
package config

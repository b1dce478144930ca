// Package config loads stockroom's TOML configuration.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/stockroom/config.toml
//  3. If the file doesn't exist, use the defaults
//  4. Blank or missing fields in an existing file use the defaults
//
// # TOML Format
//
//	api_url = "https://api.escuelajs.co/api/v1/products"
//	page_size = 10
//	request_timeout = "10s"
//	premium_threshold = "500"
//	export_dir = "~/Downloads"
//	log_file = "~/.local/state/stockroom/stockroom.log"
//	log_level = "info"
//
// Every field is optional. Paths get tilde expansion and are made absolute.
//
// # Error Handling
//
// A missing file is not an error. Unreadable files, invalid TOML, durations
// that do not parse and non-numeric thresholds are.
package config

// Package config loads pocketspice's TOML configuration and applies
// environment overrides.
//
// # Resolution
//
// Load starts from built-in defaults, overlays the TOML file (explicit path or
// ~/.config/pocketspice/config.toml), then overlays environment variables and
// validates the result. A missing file is not an error: pocketspice works out
// of the box against the hosted backend.
//
// # TOML Format
//
//	api_base_url = "https://my-pocket-spice-backend.onrender.com/api"
//	use_mock = false
//	timeout = "10s"
//	rate_limit = 0      # requests per second, 0 disables
//	rate_burst = 1
//	log_file = "~/.local/share/pocketspice/pocketspice.log"
//	log_level = "info"
//	session_file = "~/.config/pocketspice/session.toml"
//
// Every field is optional. Tilde expansion is applied to paths.
//
// # Environment
//
//   - POCKETSPICE_API_URL: backend base URL
//   - POCKETSPICE_USE_MOCK: serve fixtures instead of calling the backend
//   - POCKETSPICE_LOG_LEVEL: zerolog level name
//   - POCKETSPICE_TIMEOUT: request timeout as a Go duration
//   - POCKETSPICE_SESSION_FILE: token file location
//
// Unset variables leave the file value in place.
package config

// Package config defines client configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// BaseURL is the backend API root, e.g. "http://localhost:5000/api".
	BaseURL string `koanf:"base_url"`

	// AppName is the display name shown by the console.
	AppName string `koanf:"app_name"`

	// TimeoutMS is the fixed HTTP request timeout in milliseconds.
	TimeoutMS int `koanf:"timeout_ms"`

	// SessionDir is where the session store keeps its authToken and user
	// entries. Empty means "resolve under the user config dir at load time".
	SessionDir string `koanf:"session_dir"`
}

// New creates a Config populated with defaults. The defaults mirror the
// backend's development setup so the client works out of the box.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		BaseURL:   "http://localhost:5000/api",
		AppName:   "Tournaments",
		TimeoutMS: 10_000,
	}
}

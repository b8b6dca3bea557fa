package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// Config holds everything pocketspice needs to reach the recipe backend.
type Config struct {
	APIBaseURL  string
	UseMock     bool
	Timeout     time.Duration
	RateLimit   float64
	RateBurst   int
	LogFile     string
	LogLevel    string
	SessionFile string
}

const (
	DefaultAPIBaseURL = "https://my-pocket-spice-backend.onrender.com/api"

	defaultConfigPath  = "~/.config/pocketspice/config.toml"
	defaultSessionFile = "~/.config/pocketspice/session.toml"
	defaultLogFile     = "~/.local/share/pocketspice/pocketspice.log"
	defaultLogLevel    = "info"
	defaultTimeout     = 10 * time.Second
	defaultRateBurst   = 1
)

// envOverrides are applied after the file. Unset variables leave the file
// value alone.
type envOverrides struct {
	APIBaseURL  *string        `env:"POCKETSPICE_API_URL"`
	UseMock     *bool          `env:"POCKETSPICE_USE_MOCK"`
	LogLevel    *string        `env:"POCKETSPICE_LOG_LEVEL"`
	Timeout     *time.Duration `env:"POCKETSPICE_TIMEOUT"`
	SessionFile *string        `env:"POCKETSPICE_SESSION_FILE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL:  DefaultAPIBaseURL,
		Timeout:     defaultTimeout,
		RateBurst:   defaultRateBurst,
		LogFile:     mustExpand(defaultLogFile),
		LogLevel:    defaultLogLevel,
		SessionFile: mustExpand(defaultSessionFile),
	}
}

// Load reads the config file at path (or the default location), applies
// environment overrides and validates the result. A missing file is not an
// error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := cfg.readFile(resolved); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBaseURL  string   `toml:"api_base_url"`
		UseMock     bool     `toml:"use_mock"`
		Timeout     string   `toml:"timeout"`
		RateLimit   *float64 `toml:"rate_limit"`
		RateBurst   *int     `toml:"rate_burst"`
		LogFile     string   `toml:"log_file"`
		LogLevel    string   `toml:"log_level"`
		SessionFile string   `toml:"session_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
		c.APIBaseURL = v
	}
	c.UseMock = raw.UseMock
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: timeout %q: %w", v, err)
		}
		c.Timeout = d
	}
	if raw.RateLimit != nil {
		c.RateLimit = *raw.RateLimit
	}
	if raw.RateBurst != nil {
		c.RateBurst = *raw.RateBurst
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.SessionFile); v != "" {
		c.SessionFile = mustExpand(v)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if _, err := env.UnmarshalFromEnviron(&o); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if o.APIBaseURL != nil && strings.TrimSpace(*o.APIBaseURL) != "" {
		c.APIBaseURL = strings.TrimSpace(*o.APIBaseURL)
	}
	if o.UseMock != nil {
		c.UseMock = *o.UseMock
	}
	if o.LogLevel != nil && strings.TrimSpace(*o.LogLevel) != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(*o.LogLevel))
	}
	if o.Timeout != nil {
		c.Timeout = *o.Timeout
	}
	if o.SessionFile != nil && strings.TrimSpace(*o.SessionFile) != "" {
		c.SessionFile = mustExpand(*o.SessionFile)
	}
	return nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.APIBaseURL))
	if err != nil {
		return fmt.Errorf("api_base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_base_url %q: scheme must be http or https", c.APIBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api_base_url %q: missing host", c.APIBaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("rate_burst must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// DefaultPath returns the expanded default config file location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
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

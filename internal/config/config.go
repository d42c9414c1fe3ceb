package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings reel needs to reach the backend and log.
type Config struct {
	APIURL            string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	LogFile           string
	LogLevel          string
}

const (
	defaultConfigPath = "~/.config/reel/config.toml"
	defaultAPIURL     = "http://127.0.0.1:8000/"
	defaultTimeout    = 10 * time.Second
	defaultRPS        = 5
	defaultLogFile    = "~/.local/state/reel/reel.log"
	defaultLogLevel   = "info"
)

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

// overrides are applied on top of the file. Unset variables stay nil.
type overrides struct {
	APIURL            *string        `env:"REEL_API_URL"`
	RequestTimeout    *time.Duration `env:"REEL_REQUEST_TIMEOUT"`
	RequestsPerSecond *float64       `env:"REEL_RPS"`
	LogFile           *string        `env:"REEL_LOG_FILE"`
	LogLevel          *string        `env:"REEL_LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:            defaultAPIURL,
		RequestTimeout:    defaultTimeout,
		RequestsPerSecond: defaultRPS,
		LogFile:           mustExpand(defaultLogFile),
		LogLevel:          defaultLogLevel,
	}
}

// Load reads the config file, falling back to defaults when it is missing,
// then applies REEL_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := readFile(resolved, &cfg); err != nil {
		return Config{}, err
	}

	var ov overrides
	if err := parseEnv(&ov); err != nil {
		return Config{}, err
	}
	ov.apply(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
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
		APIURL            string  `toml:"api_url"`
		RequestTimeout    string  `toml:"request_timeout"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		LogFile           string  `toml:"log_file"`
		LogLevel          string  `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if raw.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = raw.RequestsPerSecond
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return nil
}

func parseEnv(target *overrides) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (o overrides) apply(cfg *Config) {
	if o.APIURL != nil && strings.TrimSpace(*o.APIURL) != "" {
		cfg.APIURL = strings.TrimSpace(*o.APIURL)
	}
	if o.RequestTimeout != nil && *o.RequestTimeout > 0 {
		cfg.RequestTimeout = *o.RequestTimeout
	}
	if o.RequestsPerSecond != nil && *o.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = *o.RequestsPerSecond
	}
	if o.LogFile != nil && strings.TrimSpace(*o.LogFile) != "" {
		cfg.LogFile = mustExpand(*o.LogFile)
	}
	if o.LogLevel != nil && strings.TrimSpace(*o.LogLevel) != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*o.LogLevel))
	}
}

func (c Config) validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request_timeout must be positive")
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	return filepath.Dir(c.LogFile)
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

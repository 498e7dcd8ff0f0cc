package cliconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	logAdapter "github.com/policeoffice/policeoffice/internal/adapters/log"
	"github.com/policeoffice/policeoffice/internal/domain"
)

// DefaultHTTPTimeout bounds a single report POST made by the CLI.
const DefaultHTTPTimeout = 15 * time.Second

// Config holds CLI configuration for policeoffice.
type Config struct {
	domain.Config

	// ConfigFile is the file the configuration was loaded from, if any.
	ConfigFile string

	HTTPTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
// Log location defaults are applied later by domain.LogsConfig.
func DefaultConfig() Config {
	return Config{
		HTTPTimeout: DefaultHTTPTimeout,
	}
}

// Validate checks the configuration for errors.
// A missing api.url is valid: reports then go straight to the log file.
func (c *Config) Validate() error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	return nil
}

// Logger returns the console logger used by the CLI.
func Logger() zerolog.Logger {
	return logAdapter.NewConsoleLogger(os.Stderr)
}

// configSetter applies configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

package cliconfig

import (
	"context"
	"fmt"
	"sync"

	"github.com/policeoffice/policeoffice/internal/domain"
)

// Loader resolves the configuration at most once per process:
// defaults, then the discovered file, then environment, then flags.
// It implements ports.ConfigProvider.
type Loader struct {
	// Base holds defaults plus any flag values already parsed.
	Base Config
	// Changed lists flags set on the command line; they win over file and env.
	Changed map[string]bool

	once sync.Once
	cfg  Config
	err  error
}

// NewLoader creates a Loader starting from base.
func NewLoader(base Config, changed map[string]bool) *Loader {
	return &Loader{Base: base, Changed: changed}
}

// Resolve returns the full CLI configuration.
func (l *Loader) Resolve() (Config, error) {
	l.once.Do(func() {
		l.cfg, l.err = l.resolve()
	})
	return l.cfg, l.err
}

// Load implements ports.ConfigProvider.
func (l *Loader) Load(context.Context) (domain.Config, error) {
	cfg, err := l.Resolve()
	return cfg.Config, err
}

func (l *Loader) resolve() (Config, error) {
	cfg := l.Base

	file := cfg.ConfigFile
	if file == "" {
		found, err := FindConfigFile()
		if err != nil {
			return Config{}, err
		}
		file = found
	}

	if file != "" {
		fc, err := LoadFileConfig(file)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		if err := ApplyFileConfig(&cfg, fc, l.Changed); err != nil {
			return Config{}, err
		}
		cfg.ConfigFile = file
	}

	if err := ApplyEnvConfig(&cfg, l.Changed); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

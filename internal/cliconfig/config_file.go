package cliconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/policeoffice/policeoffice/internal/domain"
)

// SearchPlaces are the file names looked for, in order, when no explicit
// configuration file is given.
var SearchPlaces = []string{"police-office.json", "police-office.toml"}

// FileConfig is the on-disk configuration. JSON and TOML share field names.
type FileConfig struct {
	HTTPTimeout string            `json:"http_timeout,omitempty" toml:"http_timeout"`
	API         domain.APIConfig  `json:"api" toml:"api"`
	Logs        domain.LogsConfig `json:"logs" toml:"logs"`
}

// LoadFileConfig reads and parses a config file. Files ending in .toml are
// parsed as TOML, everything else as JSON.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(b, &fc)
	} else {
		err = json.Unmarshal(b, &fc)
	}
	if err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// FindConfigFile resolves the configuration file to load.
//
// POLICEOFFICE_CONFIG_FILE names an exact file. Otherwise SearchPlaces are
// tried in the directory given by POLICEOFFICE_CONFIG_FROM, falling back to
// the working directory. It returns "" when nothing is found.
func FindConfigFile() (string, error) {
	if f := os.Getenv("POLICEOFFICE_CONFIG_FILE"); f != "" {
		return filepath.Abs(f)
	}

	dir := os.Getenv("POLICEOFFICE_CONFIG_FROM")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}

	for _, name := range SearchPlaces {
		p := filepath.Join(dir, name)
		if FileExists(p) {
			return p, nil
		}
	}
	return "", nil
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("api-url", fc.API.URL, &cfg.API.URL)
	s.setString("payload-error-name", fc.API.PayloadErrorName, &cfg.API.PayloadErrorName)
	s.setString("folder-path", fc.Logs.FolderPath, &cfg.Logs.FolderPath)
	s.setString("folder-name", fc.Logs.FolderName, &cfg.Logs.FolderName)
	s.setString("file-name", fc.Logs.FileName, &cfg.Logs.FileName)

	if fc.API.ExamplePayload != nil {
		cfg.API.ExamplePayload = fc.API.ExamplePayload
	}

	return s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout)
}

// FileExists checks if a regular file exists at the given path.
func FileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

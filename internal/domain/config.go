package domain

import (
	"path/filepath"
	"regexp"
)

// Defaults applied when the corresponding configuration field is empty.
const (
	DefaultPayloadErrorName = "data"
	DefaultLogFolderPath    = "./"
	DefaultLogFolderName    = "logs"
	DefaultLogFileName      = "log"
)

// Config is the reporter configuration. It is resolved once per process and
// never mutated by the reporting pipeline.
type Config struct {
	API  APIConfig  `json:"api" toml:"api"`
	Logs LogsConfig `json:"logs" toml:"logs"`
}

// APIConfig describes the remote reporting endpoint.
type APIConfig struct {
	// URL is the endpoint receiving the POSTed payload. Empty disables remote reporting.
	URL string `json:"url,omitempty" toml:"url"`

	// ExamplePayload is the template every payload is shallow-copied from.
	ExamplePayload map[string]any `json:"example_payload,omitempty" toml:"example_payload"`

	// PayloadErrorName is the payload key that receives the error properties.
	PayloadErrorName string `json:"payload_error_name,omitempty" toml:"payload_error_name"`
}

// LogsConfig describes where fallback log entries are written.
type LogsConfig struct {
	FolderPath string `json:"folder_path,omitempty" toml:"folder_path"`
	FolderName string `json:"folder_name,omitempty" toml:"folder_name"`
	FileName   string `json:"file_name,omitempty" toml:"file_name"`
}

// PayloadKey returns the configured payload error key or its default.
func (a APIConfig) PayloadKey() string {
	if a.PayloadErrorName == "" {
		return DefaultPayloadErrorName
	}
	return a.PayloadErrorName
}

var unsafeFileChars = regexp.MustCompile(`[^\w.-]`)

// SanitizeFileName replaces every character outside [A-Za-z0-9_.-] with '_'.
func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// RelativePath returns the log file path before resolution against the
// working directory. The extension is always .json. Segments are folded left
// to right and an absolute segment discards everything before it, so an
// absolute folder_name ignores folder_path.
func (l LogsConfig) RelativePath() string {
	folderPath := l.FolderPath
	if folderPath == "" {
		folderPath = DefaultLogFolderPath
	}
	folderName := l.FolderName
	if folderName == "" {
		folderName = DefaultLogFolderName
	}
	fileName := l.FileName
	if fileName == "" {
		fileName = DefaultLogFileName
	}
	return foldPath(folderPath, folderName, SanitizeFileName(fileName)+".json")
}

func foldPath(segments ...string) string {
	var p string
	for _, s := range segments {
		if filepath.IsAbs(s) {
			p = filepath.Clean(s)
			continue
		}
		p = filepath.Join(p, s)
	}
	return p
}

package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (POLICEOFFICE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("api-url", os.Getenv("POLICEOFFICE_API_URL"), &cfg.API.URL)
	s.setString("payload-error-name", os.Getenv("POLICEOFFICE_PAYLOAD_ERROR_NAME"), &cfg.API.PayloadErrorName)
	s.setString("folder-path", os.Getenv("POLICEOFFICE_LOGS_FOLDER_PATH"), &cfg.Logs.FolderPath)
	s.setString("folder-name", os.Getenv("POLICEOFFICE_LOGS_FOLDER_NAME"), &cfg.Logs.FolderName)
	s.setString("file-name", os.Getenv("POLICEOFFICE_LOGS_FILE_NAME"), &cfg.Logs.FileName)

	return s.setDuration("timeout", os.Getenv("POLICEOFFICE_HTTP_TIMEOUT"), &cfg.HTTPTimeout)
}

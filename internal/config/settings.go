package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/neurosift/eegbci-downloader/internal/dataset"
)

// EnvDataPath is the environment variable consulted when no explicit data
// path is given.
const EnvDataPath = "EEGBCI_DATA_PATH"

// Settings holds all configuration options.
type Settings struct {
	// Data storage
	DataPath string `json:"data_path"`
	BaseURL  string `json:"base_url"`

	// Retry behavior
	DownloadMaxRetries    int     `json:"download_max_retries"`
	DownloadRetryCooldown float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent float64 `json:"download_retry_exponent"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		DataPath: "",
		BaseURL:  dataset.DefaultBaseURL,

		// 2 retries = 3 total attempts per file.
		DownloadMaxRetries:    2,
		DownloadRetryCooldown: 0.2,
		DownloadRetryExponent: 4.0,
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultSettingsPath returns the default location of the settings file.
func DefaultSettingsPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "eegbci-downloader", "config.json")
}

// PathUpdate selects whether a resolved data path is written back to the
// settings file for future invocations.
type PathUpdate int

const (
	// PathUpdateUnspecified leaves the settings file untouched.
	PathUpdateUnspecified PathUpdate = iota
	// PathUpdateYes persists the resolved path.
	PathUpdateYes
	// PathUpdateNo never persists, even if nothing is stored yet.
	PathUpdateNo
)

// ResolveDataPath resolves the local storage location for dataset files.
//
// Priority order: the explicit argument, the EEGBCI_DATA_PATH environment
// variable, the persisted settings value, then "~/eegbci_data". The result
// is cleaned and made absolute.
func ResolveDataPath(explicit string, s *Settings) (string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvDataPath)
	}
	if path == "" && s != nil {
		path = s.DataPath
	}
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(homeDir, "eegbci_data")
	}
	return filepath.Abs(filepath.Clean(path))
}

// MaybePersistDataPath writes path into the settings file when update is
// PathUpdateYes. Calling it again with the same path, or with any other
// update value, is a no-op, so callers may invoke it after every fetch.
func (s *Settings) MaybePersistDataPath(path string, update PathUpdate, settingsFile string) error {
	if update != PathUpdateYes {
		return nil
	}
	if s.DataPath == path {
		return nil
	}
	s.DataPath = path
	return s.Save(settingsFile)
}

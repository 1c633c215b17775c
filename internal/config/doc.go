// Package config provides configuration management for eegbci-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Resolving the local data path from argument, environment, or settings
//   - Persisting a resolved data path for future invocations
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/eegbci_data
//	// 2 retries per file (3 attempts total)
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Data Path Resolution
//
// ResolveDataPath picks the storage location in priority order: an explicit
// argument, the EEGBCI_DATA_PATH environment variable, the persisted
// settings value, then the default under the user's home directory. The
// settings object is passed explicitly; there is no process-wide state.
package config

// Package ioutils provides file system utilities for the eegbci-downloader.
//
// This package contains functions for:
//   - Directory creation
//   - File existence checks
//   - Conditional file removal (forced re-downloads)
//
// All operations are idempotent: creating an existing directory or removing
// a missing file is not an error.
package ioutils

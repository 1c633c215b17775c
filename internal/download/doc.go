// Package download provides the orchestration logic for fetching EEGBCI
// recordings from PhysioNet into the local cache.
//
// # Manager
//
// The Manager coordinates one request end to end:
//
//  1. Resolve the local data path (argument, environment, settings, default)
//  2. Validate the base URL against the PhysioNet folder structure
//  3. Derive the cache directory mirroring the remote layout
//  4. Fetch each requested (subject, run) recording sequentially
//  5. Optionally persist the resolved data path for future invocations
//
// # Basic Usage
//
//	manager := download.NewManager(settings, settingsFile, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	paths, err := manager.LoadData(ctx, download.Request{
//	    Subject: 1,
//	    Runs:    []int{4, 10, 14},
//	})
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// # Failure Semantics
//
// Fetches run one at a time; the first failure aborts the request and
// surfaces to the caller. Files fetched before the failure stay on disk,
// where a later invocation will find and skip them.
package download

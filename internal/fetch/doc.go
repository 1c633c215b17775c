// Package fetch downloads individual dataset files into a local cache
// directory with retries and checksum verification.
//
// # Fetcher
//
// A Fetcher is bound to one cache directory, one base URL, and one checksum
// registry. Fetch resolves a dataset-relative path against all three:
//
//	fetcher := fetch.New(cacheDir, baseURL, 2, reg)
//	local, err := fetcher.Fetch(ctx, "S001/S001R04.edf")
//
// A file already present and matching its registry checksum is returned
// without any network access. A missing file is streamed to a temporary
// file, verified, and renamed into place; a failed or mismatching download
// never leaves a partial file at the destination.
//
// # Retry Logic
//
// Transfer failures are retried with exponential backoff up to the
// configured retry count. Checksum mismatches are not retried: a corrupt
// artifact means either the registry or the remote copy is wrong, and
// re-downloading cannot decide which.
package fetch

// Package http wraps the standard HTTP client with the configuration the
// downloader needs when talking to PhysioNet.
//
// The wrapper provides:
//   - A fixed User-Agent header
//   - A request timeout
//   - Streaming file download with progress tracking
//   - File size retrieval via HEAD requests
//
// Example usage:
//
//	client := http.NewClient()
//
//	// Check the remote size before downloading
//	size, err := client.GetFileSize(ctx, edfURL)
//
//	// Stream a recording to an open file with progress
//	err = client.Download(ctx, edfURL, file, func(written, total int64) {
//	    percent := float64(written) / float64(total) * 100
//	    fmt.Printf("%.1f%%\n", percent)
//	})
package http

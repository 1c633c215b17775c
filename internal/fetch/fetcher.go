package fetch

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/neurosift/eegbci-downloader/internal/http"
	ioutils "github.com/neurosift/eegbci-downloader/internal/io"
	"github.com/neurosift/eegbci-downloader/internal/registry"
)

// Fetcher downloads dataset files into a cache directory, verifying each
// one against a checksum registry.
type Fetcher struct {
	dir     string
	baseURL string
	retries int
	reg     registry.Registry
	client  *http.Client

	// RetryCooldown is the base wait in seconds before a retry; each
	// further retry multiplies it by RetryExponent.
	RetryCooldown float64
	RetryExponent float64

	// OnProgress, if set, receives byte-level progress for the file
	// currently being transferred.
	OnProgress func(written, total int64)

	// OnRetry, if set, is called before each retry attempt with the
	// retry number, the configured maximum, and the file being fetched.
	OnRetry func(attempt, max int, rel string)
}

// New creates a Fetcher for the given cache directory and base URL.
// retries is the number of additional attempts after a failed transfer;
// 2 retries means 3 attempts total.
func New(dir, baseURL string, retries int, reg registry.Registry) *Fetcher {
	return &Fetcher{
		dir:           dir,
		baseURL:       baseURL,
		retries:       retries,
		reg:           reg,
		client:        http.NewClient(),
		RetryCooldown: 0.2,
		RetryExponent: 4.0,
	}
}

// Fetch ensures the file at the dataset-relative path rel is present and
// valid in the cache directory, downloading it if needed, and returns its
// local path.
//
// An existing file is verified against the registry and returned without
// any network access. Exhausted retries and checksum mismatches are both
// fatal; Fetch never returns an unverified path.
func (f *Fetcher) Fetch(ctx context.Context, rel string) (string, error) {
	dest := filepath.Join(f.dir, filepath.FromSlash(rel))

	// The registry entry must exist before anything touches disk or
	// network; an unlisted file could never be verified.
	if _, err := f.reg.Lookup(rel); err != nil {
		return "", err
	}

	if ioutils.FileExists(dest) {
		if err := f.reg.Verify(rel, dest); err != nil {
			return "", err
		}
		return dest, nil
	}

	if err := ioutils.EnsureDir(filepath.Dir(dest)); err != nil {
		return "", err
	}

	var err error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			if f.OnRetry != nil {
				f.OnRetry(attempt, f.retries, rel)
			}
			f.waitForRetry(ctx, attempt-1)
		}
		err = f.download(ctx, rel, dest)
		if err == nil {
			return dest, nil
		}
		if errors.Is(err, registry.ErrChecksumMismatch) || ctx.Err() != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("fetching %s after %d attempts: %w", rel, f.retries+1, err)
}

// download streams one file to a temporary file next to dest, hashing it
// as it arrives, and renames it into place only after the digest matches
// the registry. A failed download leaves no file at dest.
func (f *Fetcher) download(ctx context.Context, rel, dest string) (err error) {
	cs, err := f.reg.Lookup(rel)
	if err != nil {
		return err
	}
	h, err := cs.New()
	if err != nil {
		return err
	}

	if f.OnProgress != nil {
		// Report the expected size before any bytes arrive, so a
		// frontend can show a total from the start. Best effort; the
		// transfer itself still carries its own Content-Length.
		if size, sizeErr := f.client.GetFileSize(ctx, f.baseURL+rel); sizeErr == nil {
			f.OnProgress(0, size)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".eegbci-dl-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	writer := io.MultiWriter(tmp, h)
	if err = f.client.Download(ctx, f.baseURL+rel, writer, f.OnProgress); err != nil {
		return err
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if actual != cs.Digest {
		return fmt.Errorf("%w for %q: expected %s, got %s", registry.ErrChecksumMismatch, rel, cs.Digest, actual)
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func (f *Fetcher) waitForRetry(ctx context.Context, tries int) {
	cooldown := f.RetryCooldown * math.Pow(f.RetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

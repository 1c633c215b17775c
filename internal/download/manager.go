package download

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/neurosift/eegbci-downloader/internal/config"
	"github.com/neurosift/eegbci-downloader/internal/dataset"
	"github.com/neurosift/eegbci-downloader/internal/fetch"
	ioutils "github.com/neurosift/eegbci-downloader/internal/io"
	"github.com/neurosift/eegbci-downloader/internal/registry"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Request names the recordings to fetch and how to fetch them.
type Request struct {
	// Subject identifier, 1-109.
	Subject int
	// Runs to fetch, each 1-14. Order and duplicates are preserved in
	// the returned path list.
	Runs []int
	// Path overrides the resolved data path when non-empty.
	Path string
	// ForceUpdate deletes existing destination files before re-fetching.
	ForceUpdate bool
	// UpdatePath controls whether the resolved data path is persisted.
	UpdatePath config.PathUpdate
}

// Manager coordinates dataset downloads.
type Manager struct {
	settings     *config.Settings
	settingsFile string
	onProgress   func(ProgressEvent)

	totalFiles int32
	doneFiles  int32

	// Registry overrides the bundled checksum registry when non-nil.
	Registry registry.Registry

	// OnTransferProgress, if set, receives byte-level progress for the
	// file currently being transferred.
	OnTransferProgress func(written, total int64)
}

// NewManager creates a new download Manager. settingsFile is where a
// persisted data path is written when a Request asks for it.
func NewManager(settings *config.Settings, settingsFile string, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:     settings,
		settingsFile: settingsFile,
		onProgress:   onProgress,
	}
}

// GetProgress returns how many of the current request's files are done.
func (m *Manager) GetProgress() (done, total int32) {
	return atomic.LoadInt32(&m.doneFiles), atomic.LoadInt32(&m.totalFiles)
}

// DestinationPaths returns the local paths a request would produce, without
// touching the network or the filesystem. The base URL is still validated;
// a malformed URL fails here exactly as it would in LoadData.
func (m *Manager) DestinationPaths(req Request) ([]string, error) {
	dataPath, err := config.ResolveDataPath(req.Path, m.settings)
	if err != nil {
		return nil, err
	}
	cacheRoot, err := dataset.CacheRoot(m.settings.BaseURL, dataPath)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(req.Runs))
	for _, run := range req.Runs {
		part, err := dataset.FilePart(req.Subject, run)
		if err != nil {
			return nil, err
		}
		paths = append(paths, filepath.Join(cacheRoot, filepath.FromSlash(part)))
	}
	return paths, nil
}

// LoadData fetches the requested recordings sequentially and returns their
// local paths, one per requested run, in request order.
//
// Recordings already present and matching their registry checksum are
// skipped without a transfer. The first failure aborts the request; files
// fetched before it remain on disk.
func (m *Manager) LoadData(ctx context.Context, req Request) ([]string, error) {
	dataPath, err := config.ResolveDataPath(req.Path, m.settings)
	if err != nil {
		return nil, err
	}

	cacheRoot, err := dataset.CacheRoot(m.settings.BaseURL, dataPath)
	if err != nil {
		return nil, err
	}

	reg := m.Registry
	if reg == nil {
		reg, err = registry.Embedded()
		if err != nil {
			return nil, err
		}
	}

	fetcher := fetch.New(cacheRoot, m.settings.BaseURL, m.settings.DownloadMaxRetries, reg)
	fetcher.RetryCooldown = m.settings.DownloadRetryCooldown
	fetcher.RetryExponent = m.settings.DownloadRetryExponent
	fetcher.OnProgress = m.OnTransferProgress
	fetcher.OnRetry = func(attempt, max int, rel string) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", attempt, max, rel), Level: LevelWarning})
	}

	atomic.StoreInt32(&m.totalFiles, int32(len(req.Runs)))
	atomic.StoreInt32(&m.doneFiles, 0)

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Fetching %d recording(s) for subject %d into %s", len(req.Runs), req.Subject, cacheRoot),
		Level:   LevelInfo,
	})

	paths := make([]string, 0, len(req.Runs))
	for _, run := range req.Runs {
		part, err := dataset.FilePart(req.Subject, run)
		if err != nil {
			return nil, err
		}
		dest := filepath.Join(cacheRoot, filepath.FromSlash(part))

		if req.ForceUpdate && ioutils.FileExists(dest) {
			if err := ioutils.RemoveIfExists(dest); err != nil {
				return nil, err
			}
			m.progress(ProgressEvent{Message: fmt.Sprintf("Removed for re-download: %s", part), Level: LevelVerbose})
		}

		existed := ioutils.FileExists(dest)

		local, err := fetcher.Fetch(ctx, part)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching %s: %v", part, err), Level: LevelError})
			return nil, err
		}

		if existed {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", part), Level: LevelVerbose})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s (%s)", part, dataset.RunDescription(run)), Level: LevelVerbose})
		}
		paths = append(paths, local)
		atomic.AddInt32(&m.doneFiles, 1)

		// No-op unless the request asked for persistence and the path
		// changed since the last call.
		if err := m.settings.MaybePersistDataPath(dataPath, req.UpdatePath, m.settingsFile); err != nil {
			return nil, err
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Fetched %d/%d recording(s) for subject %d", len(paths), len(req.Runs), req.Subject),
		Level:   LevelSuccess,
	})

	return paths, nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

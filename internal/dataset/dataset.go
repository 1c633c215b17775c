package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

// DefaultBaseURL is the PhysioNet location of the EEG Motor Movement/Imagery
// dataset.
const DefaultBaseURL = "https://physionet.org/files/eegmmidb/1.0.0/"

// CacheFolder is the fixed subfolder under the data path that holds all
// cached EEGBCI files.
const CacheFolder = "eegbci-data"

// Subject and run ranges of the EEGBCI dataset. 109 subjects, 14 runs each.
const (
	MinSubject = 1
	MaxSubject = 109
	MinRun     = 1
	MaxRun     = 14
)

// ErrBadBaseURL indicates a base URL that does not match the expected
// PhysioNet folder structure.
var ErrBadBaseURL = errors.New("base URL does not match the expected PhysioNet folder structure")

// baseURLPattern captures the trailing files/<name>/<version> segments of a
// PhysioNet dataset URL. A mismatch means the upstream layout changed and
// must not silently produce wrong cache paths.
var baseURLPattern = regexp.MustCompile(`^https?://.+/(files)/([^/]+)/(\d+\.\d+\.\d+)/?$`)

// URLParts are the path segments extracted from a valid base URL, used to
// mirror the remote folder structure locally.
type URLParts struct {
	Folder  string // always "files"
	Name    string // dataset name, e.g. "eegmmidb"
	Version string // dataset version, e.g. "1.0.0"
}

// ValidateBaseURL checks url against the PhysioNet folder structure and
// returns its path segments. Returns ErrBadBaseURL on mismatch.
func ValidateBaseURL(url string) (URLParts, error) {
	m := baseURLPattern.FindStringSubmatch(url)
	if m == nil {
		return URLParts{}, fmt.Errorf("%w: %q", ErrBadBaseURL, url)
	}
	return URLParts{Folder: m[1], Name: m[2], Version: m[3]}, nil
}

// CacheRoot derives the local cache directory for a base URL: the data path,
// the fixed cache subfolder, then the URL's own path segments. The result is
// a pure function of its inputs.
func CacheRoot(baseURL, dataPath string) (string, error) {
	parts, err := ValidateBaseURL(baseURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(dataPath, CacheFolder, parts.Folder, parts.Name, parts.Version), nil
}

// FilePart returns the dataset-relative path of the EDF recording for a
// subject and run, e.g. FilePart(1, 4) == "S001/S001R04.edf".
func FilePart(subject, run int) (string, error) {
	if subject < MinSubject || subject > MaxSubject {
		return "", fmt.Errorf("subject must be in range %d-%d, got %d", MinSubject, MaxSubject, subject)
	}
	if run < MinRun || run > MaxRun {
		return "", fmt.Errorf("run must be in range %d-%d, got %d", MinRun, MaxRun, run)
	}
	return fmt.Sprintf("S%03d/S%03dR%02d.edf", subject, subject, run), nil
}

// RunDescription returns the task recorded in a given run. The mapping is
// fixed across all subjects.
func RunDescription(run int) string {
	switch run {
	case 1:
		return "Baseline, eyes open"
	case 2:
		return "Baseline, eyes closed"
	case 3, 7, 11:
		return "Motor execution: left vs right hand"
	case 4, 8, 12:
		return "Motor imagery: left vs right hand"
	case 5, 9, 13:
		return "Motor execution: hands vs feet"
	case 6, 10, 14:
		return "Motor imagery: hands vs feet"
	default:
		return "Unknown"
	}
}

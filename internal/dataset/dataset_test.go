package dataset

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFilePart(t *testing.T) {
	tests := []struct {
		subject int
		run     int
		want    string
	}{
		{1, 4, "S001/S001R04.edf"},
		{1, 10, "S001/S001R10.edf"},
		{1, 14, "S001/S001R14.edf"},
		{42, 1, "S042/S042R01.edf"},
		{109, 14, "S109/S109R14.edf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := FilePart(tt.subject, tt.run)
			if err != nil {
				t.Fatalf("FilePart(%d, %d) error: %v", tt.subject, tt.run, err)
			}
			if got != tt.want {
				t.Errorf("FilePart(%d, %d) = %q, want %q", tt.subject, tt.run, got, tt.want)
			}
		})
	}
}

func TestFilePart_OutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		subject int
		run     int
	}{
		{"subject too low", 0, 1},
		{"subject too high", 110, 1},
		{"run too low", 1, 0},
		{"run too high", 1, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FilePart(tt.subject, tt.run); err == nil {
				t.Errorf("FilePart(%d, %d) expected error, got nil", tt.subject, tt.run)
			}
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	parts, err := ValidateBaseURL(DefaultBaseURL)
	if err != nil {
		t.Fatalf("ValidateBaseURL(%q) error: %v", DefaultBaseURL, err)
	}
	want := URLParts{Folder: "files", Name: "eegmmidb", Version: "1.0.0"}
	if parts != want {
		t.Errorf("ValidateBaseURL(%q) = %+v, want %+v", DefaultBaseURL, parts, want)
	}
}

func TestValidateBaseURL_Invalid(t *testing.T) {
	tests := []string{
		"https://physionet.org/eegmmidb/1.0.0/",
		"https://physionet.org/files/eegmmidb/",
		"https://physionet.org/files/eegmmidb/latest/",
		"ftp://physionet.org/files/eegmmidb/1.0.0/",
		"physionet.org/files/eegmmidb/1.0.0/",
		"",
	}

	for _, url := range tests {
		t.Run(url, func(t *testing.T) {
			_, err := ValidateBaseURL(url)
			if !errors.Is(err, ErrBadBaseURL) {
				t.Errorf("ValidateBaseURL(%q) = %v, want ErrBadBaseURL", url, err)
			}
		})
	}
}

func TestCacheRoot(t *testing.T) {
	got, err := CacheRoot(DefaultBaseURL, "/data")
	if err != nil {
		t.Fatalf("CacheRoot error: %v", err)
	}
	want := filepath.Join("/data", "eegbci-data", "files", "eegmmidb", "1.0.0")
	if got != want {
		t.Errorf("CacheRoot = %q, want %q", got, want)
	}
}

func TestCacheRoot_BadURL(t *testing.T) {
	if _, err := CacheRoot("https://physionet.org/other/", "/data"); !errors.Is(err, ErrBadBaseURL) {
		t.Errorf("CacheRoot with bad URL = %v, want ErrBadBaseURL", err)
	}
}

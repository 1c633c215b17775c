package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/neurosift/eegbci-downloader/internal/registry"
)

const testFile = "S001/S001R04.edf"

var testContent = []byte("fake edf recording")

func testRegistry() registry.Registry {
	sum := sha256.Sum256(testContent)
	return registry.Registry{
		testFile: {Algorithm: "sha256", Digest: hex.EncodeToString(sum[:])},
	}
}

// newFetcher returns a Fetcher against a test server with retry cooldowns
// disabled, plus a counter of requests the server saw.
func newFetcher(t *testing.T, handler http.HandlerFunc, retries int, reg registry.Registry) (*Fetcher, *int) {
	t.Helper()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	f := New(t.TempDir(), server.URL+"/", retries, reg)
	f.RetryCooldown = 0
	return f, &requests
}

func serveContent(w http.ResponseWriter, r *http.Request) {
	w.Write(testContent)
}

func TestFetch(t *testing.T) {
	f, requests := newFetcher(t, serveContent, 2, testRegistry())

	local, err := f.Fetch(context.Background(), testFile)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	want := filepath.Join(f.dir, filepath.FromSlash(testFile))
	if local != want {
		t.Errorf("Fetch = %q, want %q", local, want)
	}
	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("reading fetched file: %v", err)
	}
	if string(data) != string(testContent) {
		t.Errorf("fetched content = %q, want %q", data, testContent)
	}
	if *requests != 1 {
		t.Errorf("server saw %d requests, want 1", *requests)
	}
}

func TestFetch_ExistingValidSkipsTransfer(t *testing.T) {
	f, requests := newFetcher(t, serveContent, 2, testRegistry())

	if _, err := f.Fetch(context.Background(), testFile); err != nil {
		t.Fatalf("first Fetch error: %v", err)
	}
	if _, err := f.Fetch(context.Background(), testFile); err != nil {
		t.Fatalf("second Fetch error: %v", err)
	}

	if *requests != 1 {
		t.Errorf("server saw %d requests, want 1 (second fetch must not transfer)", *requests)
	}
}

func TestFetch_ChecksumMismatchNotRetried(t *testing.T) {
	reg := registry.Registry{
		testFile: {Algorithm: "sha256", Digest: "deadbeef"},
	}
	f, requests := newFetcher(t, serveContent, 2, reg)

	_, err := f.Fetch(context.Background(), testFile)
	if !errors.Is(err, registry.ErrChecksumMismatch) {
		t.Fatalf("Fetch = %v, want ErrChecksumMismatch", err)
	}
	if *requests != 1 {
		t.Errorf("server saw %d requests, want 1 (mismatch must not be retried)", *requests)
	}

	// The corrupt download must not be left at the destination.
	dest := filepath.Join(f.dir, filepath.FromSlash(testFile))
	if _, err := os.Stat(dest); err == nil {
		t.Error("destination file exists after checksum mismatch")
	}
}

func TestFetch_TransientFailureRetried(t *testing.T) {
	failures := 2
	handler := func(w http.ResponseWriter, r *http.Request) {
		if failures > 0 {
			failures--
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		serveContent(w, r)
	}

	f, requests := newFetcher(t, handler, 2, testRegistry())

	if _, err := f.Fetch(context.Background(), testFile); err != nil {
		t.Fatalf("Fetch error after retries: %v", err)
	}
	if *requests != 3 {
		t.Errorf("server saw %d requests, want 3", *requests)
	}
}

func TestFetch_OnRetryHook(t *testing.T) {
	failures := 2
	handler := func(w http.ResponseWriter, r *http.Request) {
		if failures > 0 {
			failures--
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		serveContent(w, r)
	}

	f, _ := newFetcher(t, handler, 2, testRegistry())

	var retries [][2]int
	f.OnRetry = func(attempt, max int, rel string) {
		if rel != testFile {
			t.Errorf("OnRetry rel = %q, want %q", rel, testFile)
		}
		retries = append(retries, [2]int{attempt, max})
	}

	if _, err := f.Fetch(context.Background(), testFile); err != nil {
		t.Fatalf("Fetch error after retries: %v", err)
	}

	want := [][2]int{{1, 2}, {2, 2}}
	if len(retries) != len(want) {
		t.Fatalf("OnRetry called %d times, want %d", len(retries), len(want))
	}
	for i := range want {
		if retries[i] != want[i] {
			t.Errorf("retries[%d] = %v, want %v", i, retries[i], want[i])
		}
	}
}

func TestFetch_ReportsExpectedSizeFirst(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", strconv.Itoa(len(testContent)))
			return
		}
		serveContent(w, r)
	}

	f, _ := newFetcher(t, handler, 2, testRegistry())

	var first []int64
	f.OnProgress = func(written, total int64) {
		if first == nil {
			first = []int64{written, total}
		}
	}

	if _, err := f.Fetch(context.Background(), testFile); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if first == nil {
		t.Fatal("OnProgress never called")
	}
	if first[0] != 0 || first[1] != int64(len(testContent)) {
		t.Errorf("first progress report = (%d, %d), want (0, %d)", first[0], first[1], len(testContent))
	}
}

func TestFetch_RetriesExhausted(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}

	f, requests := newFetcher(t, handler, 2, testRegistry())

	if _, err := f.Fetch(context.Background(), testFile); err == nil {
		t.Fatal("Fetch expected error after exhausted retries, got nil")
	}
	// 2 retries = 3 total attempts.
	if *requests != 3 {
		t.Errorf("server saw %d requests, want 3", *requests)
	}

	dest := filepath.Join(f.dir, filepath.FromSlash(testFile))
	if _, err := os.Stat(dest); err == nil {
		t.Error("destination file exists after failed fetch")
	}
}

func TestFetch_NotInRegistry(t *testing.T) {
	f, requests := newFetcher(t, serveContent, 2, registry.Registry{})

	_, err := f.Fetch(context.Background(), testFile)
	if !errors.Is(err, registry.ErrNotInRegistry) {
		t.Fatalf("Fetch = %v, want ErrNotInRegistry", err)
	}
	if *requests != 0 {
		t.Errorf("server saw %d requests, want 0", *requests)
	}
}

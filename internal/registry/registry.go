// Package registry loads and applies the checksum registry bundled with
// the downloader.
//
// The registry is a plain text file shipped via go:embed, mapping each
// dataset-relative file path to its expected digest. Every downloaded file
// is verified against it before being handed to the caller.
package registry

import (
	"bufio"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
	"sync"
)

//go:embed eegbci_checksums.txt
var bundled embed.FS

// ErrChecksumMismatch indicates a file whose digest does not match the
// registry entry.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ErrNotInRegistry indicates a file path with no registry entry.
var ErrNotInRegistry = errors.New("file not present in checksum registry")

// Checksum is one registry entry: an algorithm name and the expected
// hex-encoded digest.
type Checksum struct {
	Algorithm string
	Digest    string
}

// New returns a hash for the entry's algorithm.
func (c Checksum) New() (hash.Hash, error) {
	switch c.Algorithm {
	case "sha256":
		return sha256.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "md5":
		return md5.New(), nil
	default:
		return nil, fmt.Errorf("unsupported checksum algorithm %q", c.Algorithm)
	}
}

// Registry maps dataset-relative file paths to their expected checksums.
type Registry map[string]Checksum

// Load parses a registry from r. Each non-empty line holds a relative path
// and a digest separated by whitespace; the digest may carry an
// "<algorithm>:" prefix and defaults to sha256 without one. Lines starting
// with '#' are comments.
func Load(r io.Reader) (Registry, error) {
	reg := make(Registry)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("registry line %d: expected \"<path> <digest>\", got %q", lineNo, line)
		}
		path, digest := fields[0], fields[1]
		cs := Checksum{Algorithm: "sha256", Digest: digest}
		if algo, hexDigest, ok := strings.Cut(digest, ":"); ok {
			cs = Checksum{Algorithm: algo, Digest: hexDigest}
		}
		if _, err := cs.New(); err != nil {
			return nil, fmt.Errorf("registry line %d: %w", lineNo, err)
		}
		reg[path] = cs
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	return reg, nil
}

var (
	embeddedOnce sync.Once
	embeddedReg  Registry
	embeddedErr  error
)

// Embedded returns the registry bundled with the package. The file is
// parsed once; subsequent calls return the same map.
func Embedded() (Registry, error) {
	embeddedOnce.Do(func() {
		f, err := bundled.Open("eegbci_checksums.txt")
		if err != nil {
			embeddedErr = err
			return
		}
		defer f.Close()
		embeddedReg, embeddedErr = Load(f)
	})
	return embeddedReg, embeddedErr
}

// Lookup returns the checksum recorded for a relative path, or
// ErrNotInRegistry when the path has no entry.
func (r Registry) Lookup(rel string) (Checksum, error) {
	cs, ok := r[rel]
	if !ok {
		return Checksum{}, fmt.Errorf("%w: %q", ErrNotInRegistry, rel)
	}
	return cs, nil
}

// Verify streams the file at path through the digest recorded for rel and
// returns ErrChecksumMismatch when they differ.
func (r Registry) Verify(rel, path string) error {
	cs, err := r.Lookup(rel)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := cs.New()
	if err != nil {
		return err
	}
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if actual != cs.Digest {
		return fmt.Errorf("%w for %q: expected %s, got %s", ErrChecksumMismatch, rel, cs.Digest, actual)
	}
	return nil
}

package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	input := `# comment line

S001/S001R01.edf sha256:aabbcc
S001/S001R02.edf sha1:ddeeff
S001/S001R03.edf 001122
`
	reg, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	tests := []struct {
		path string
		want Checksum
	}{
		{"S001/S001R01.edf", Checksum{Algorithm: "sha256", Digest: "aabbcc"}},
		{"S001/S001R02.edf", Checksum{Algorithm: "sha1", Digest: "ddeeff"}},
		{"S001/S001R03.edf", Checksum{Algorithm: "sha256", Digest: "001122"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := reg.Lookup(tt.path)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too many fields", "a b c\n"},
		{"one field", "justapath\n"},
		{"unknown algorithm", "file.edf crc32:aabb\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.input)); err == nil {
				t.Errorf("Load(%q) expected error, got nil", tt.input)
			}
		})
	}
}

func TestLookup_NotInRegistry(t *testing.T) {
	reg := Registry{}
	_, err := reg.Lookup("S001/S001R01.edf")
	if !errors.Is(err, ErrNotInRegistry) {
		t.Errorf("Lookup on empty registry = %v, want ErrNotInRegistry", err)
	}
}

func TestVerify(t *testing.T) {
	content := []byte("edf recording bytes")
	sum := sha256.Sum256(content)

	dir := t.TempDir()
	path := filepath.Join(dir, "S001R01.edf")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	reg := Registry{
		"S001/S001R01.edf": {Algorithm: "sha256", Digest: hex.EncodeToString(sum[:])},
		"S001/S001R02.edf": {Algorithm: "sha256", Digest: strings.Repeat("0", 64)},
	}

	if err := reg.Verify("S001/S001R01.edf", path); err != nil {
		t.Errorf("Verify with matching digest: %v", err)
	}

	err := reg.Verify("S001/S001R02.edf", path)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Verify with wrong digest = %v, want ErrChecksumMismatch", err)
	}
}

func TestEmbedded(t *testing.T) {
	reg, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded error: %v", err)
	}

	// One entry per subject/run combination.
	if len(reg) != 109*14 {
		t.Errorf("embedded registry has %d entries, want %d", len(reg), 109*14)
	}

	cs, err := reg.Lookup("S001/S001R04.edf")
	if err != nil {
		t.Fatalf("Lookup(S001/S001R04.edf) error: %v", err)
	}
	if cs.Algorithm != "sha256" || len(cs.Digest) != 64 {
		t.Errorf("unexpected checksum entry: %+v", cs)
	}
}

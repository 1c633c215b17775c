package channels

import (
	"strings"
	"testing"
)

func TestStandardize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Fp1.", "Fp1"},
		{"fp2.", "Fp2"},
		{"Fpz.", "Fpz"},
		{"cz", "Cz"},
		{"Cz..", "Cz"},
		{"t7", "T7"},
		{"oz", "Oz"},
		{"C3", "C3"},
		{".po8.", "PO8"},
		{"AFZ", "AFz"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rename := Standardize([]string{tt.input})
			if got := rename[tt.input]; got != tt.want {
				t.Errorf("Standardize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStandardize_EveryNameMapped(t *testing.T) {
	names := []string{"C3", "C4", "cz"}
	rename := Standardize(names)

	if len(rename) != len(names) {
		t.Fatalf("Standardize returned %d entries, want %d", len(rename), len(names))
	}
	// Unchanged names still get an entry.
	if got := rename["C3"]; got != "C3" {
		t.Errorf("rename[%q] = %q, want unchanged", "C3", got)
	}
}

// fakeRecording implements Renamer for tests.
type fakeRecording struct {
	names   []string
	renamed map[string]string
}

func (f *fakeRecording) ChannelNames() []string { return f.names }

func (f *fakeRecording) RenameChannels(mapping map[string]string) error {
	f.renamed = mapping
	return nil
}

func TestApply(t *testing.T) {
	rec := &fakeRecording{names: []string{"Fp1.", "cz", "t7"}}

	if err := Apply(rec); err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	want := map[string]string{"Fp1.": "Fp1", "cz": "Cz", "t7": "T7"}
	for name, std := range want {
		if got := rec.renamed[name]; got != std {
			t.Errorf("renamed[%q] = %q, want %q", name, got, std)
		}
	}
}

func TestApply_Collision(t *testing.T) {
	// "cz" and "CZ." both standardize to "Cz".
	rec := &fakeRecording{names: []string{"cz", "CZ."}}

	err := Apply(rec)
	if err == nil {
		t.Fatal("Apply expected collision error, got nil")
	}
	if !strings.Contains(err.Error(), "collision") {
		t.Errorf("Apply error = %v, want collision error", err)
	}
	if rec.renamed != nil {
		t.Error("RenameChannels must not be called when names collide")
	}
}

package channels

import (
	"fmt"
	"strings"
)

// Standardize maps every channel name to its 10-05 convention form.
//
// For each name: leading and trailing periods are stripped, the name is
// upper-cased, a trailing "Z" becomes lower-case (midline electrodes are
// written "Cz", "Pz"), and a leading "FP" becomes "Fp" (frontal-pole
// electrodes use mixed case). Unchanged names still get an entry, so the
// result always has one mapping per input.
func Standardize(names []string) map[string]string {
	rename := make(map[string]string, len(names))
	for _, name := range names {
		std := strings.Trim(name, ".")
		std = strings.ToUpper(std)
		if strings.HasSuffix(std, "Z") {
			std = std[:len(std)-1] + "z"
		}
		if strings.HasPrefix(std, "FP") {
			std = "Fp" + std[2:]
		}
		rename[name] = std
	}
	return rename
}

// Renamer is a loaded recording whose channels can be relabeled in place.
type Renamer interface {
	ChannelNames() []string
	RenameChannels(mapping map[string]string) error
}

// Apply standardizes r's channel names and relabels it in place. Two
// distinct names collapsing onto the same standardized form is an error;
// nothing is renamed in that case.
func Apply(r Renamer) error {
	names := r.ChannelNames()
	rename := Standardize(names)

	seen := make(map[string]string, len(rename))
	for _, name := range names {
		std := rename[name]
		if prev, ok := seen[std]; ok && prev != name {
			return fmt.Errorf("channel name collision: %q and %q both standardize to %q", prev, name, std)
		}
		seen[std] = name
	}

	return r.RenameChannels(rename)
}

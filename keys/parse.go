package keys

import (
	"fmt"
	"strings"
)

// ParseCombo converts a string hotkey combination (e.g. "ctrl+alt+v") into
// its modifier keys and main key. The last "+"-separated token is the key,
// every preceding token a modifier. Whitespace around tokens is ignored.
func ParseCombo(combo string) ([]ModKey, VKey, error) {
	raw := strings.TrimSpace(combo)
	if raw == "" {
		return nil, 0, fmt.Errorf("%w: empty combination", ErrUnknownKey)
	}

	parts := strings.Split(raw, "+")

	key, err := VKeyFromName(parts[len(parts)-1])
	if err != nil {
		return nil, 0, fmt.Errorf("combination %q: %w", combo, err)
	}

	var mods []ModKey
	for _, part := range parts[:len(parts)-1] {
		mod, err := ModKeyFromName(part)
		if err != nil {
			return nil, 0, fmt.Errorf("combination %q: %w", combo, err)
		}
		mods = append(mods, mod)
	}

	return mods, key, nil
}

// FormatCombo renders modifiers and a key back into the canonical "+"-joined
// form used by ParseCombo. Useful for logging and config round-trips.
func FormatCombo(mods []ModKey, key VKey) string {
	parts := make([]string, 0, len(mods)+1)
	for _, m := range mods {
		parts = append(parts, m.String())
	}
	parts = append(parts, key.String())
	return strings.Join(parts, "+")
}

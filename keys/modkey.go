package keys

import (
	"fmt"
	"strings"
)

// ModKey is a modifier key that can take part in a global hotkey combination.
// The associated codes follow the fsModifiers values accepted by the Windows
// RegisterHotKey API.
//
// See: https://learn.microsoft.com/en-us/windows/win32/api/winuser/nf-winuser-registerhotkey
type ModKey uint8

const (
	ModAlt ModKey = iota
	ModCtrl
	ModShift
	ModWin
)

// ModNoRepeat is the MOD_NOREPEAT wire flag. It suppresses auto-repeated
// trigger events while the combination is held down. It is applied at
// registration time only and is never part of a hotkey's identity.
const ModNoRepeat uint32 = 0x4000

// ModKeyFromName interprets a string as one of the modifier keys.
// Accepted values (case insensitive) are ALT, CTRL / CONTROL, SHIFT and
// WIN / WINDOWS / SUPER.
func ModKeyFromName(name string) (ModKey, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ALT":
		return ModAlt, nil
	case "CTRL", "CONTROL":
		return ModCtrl, nil
	case "SHIFT":
		return ModShift, nil
	case "WIN", "WINDOWS", "SUPER":
		return ModWin, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModifier, name)
}

// Code returns the Win32 modifier bit for the ModKey.
func (m ModKey) Code() uint32 {
	switch m {
	case ModAlt:
		return 0x0001
	case ModCtrl:
		return 0x0002
	case ModShift:
		return 0x0004
	case ModWin:
		return 0x0008
	}
	return 0
}

// VKey returns the virtual key that corresponds to the modifier itself, for
// callers that need to query the key directly rather than as a hotkey
// modifier.
func (m ModKey) VKey() VKey {
	switch m {
	case ModAlt:
		return VKeyMenu
	case ModCtrl:
		return VKeyControl
	case ModShift:
		return VKeyShift
	case ModWin:
		return VKeyLWin
	}
	return 0
}

func (m ModKey) String() string {
	switch m {
	case ModAlt:
		return "ALT"
	case ModCtrl:
		return "CONTROL"
	case ModShift:
		return "SHIFT"
	case ModWin:
		return "WIN"
	}
	return "UNKNOWN"
}

// Combine ORs the modifier codes of all given keys into a single bitmask.
// Duplicates and ordering are irrelevant, which makes the result suitable as
// the modifier half of a hotkey identity.
func Combine(mods []ModKey) uint32 {
	var code uint32
	for _, m := range mods {
		code |= m.Code()
	}
	return code
}

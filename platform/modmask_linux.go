//go:build linux

package platform

import (
	"fmt"

	"golang.design/x/hotkey"
)

// legacyModifiers converts a MOD_* bitmask into golang.design/x/hotkey
// modifiers for X11, where Alt is Mod1 and Super is Mod4. The MOD_NOREPEAT
// bit has no X11 equivalent and is ignored.
func legacyModifiers(mask uint32) ([]hotkey.Modifier, error) {
	var mods []hotkey.Modifier
	if mask&0x0001 != 0 {
		mods = append(mods, hotkey.Mod1)
	}
	if mask&0x0002 != 0 {
		mods = append(mods, hotkey.ModCtrl)
	}
	if mask&0x0004 != 0 {
		mods = append(mods, hotkey.ModShift)
	}
	if mask&0x0008 != 0 {
		mods = append(mods, hotkey.Mod4)
	}
	if rest := mask &^ uint32(0x400F); rest != 0 {
		return nil, fmt.Errorf("unsupported modifier bits 0x%04X", rest)
	}
	return mods, nil
}

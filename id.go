package hotkeys

import (
	"fmt"

	"github.com/TanaroSch/global-hotkeys/keys"
)

// ID identifies a registered hotkey. It is derived from the key and
// modifier combination, so registering the same combination twice yields
// the same ID regardless of modifier order.
type ID int32

// IDNone is the pseudo-id reported when a poll returns without a hotkey
// having fired.
const IDNone ID = -1

// modMask covers the four combinable modifier bits. MOD_NOREPEAT is a
// delivery flag, not part of a hotkey's identity.
const modMask uint32 = 0x000F

// idFor packs the modifier bits and the virtual-key code into one value.
// Virtual-key codes fit in a byte, so the result is unique per
// combination and stays inside the Win32 application hotkey id range.
func idFor(vk keys.VKey, modifiers uint32) ID {
	return ID(modifiers&modMask)<<8 | ID(vk.Code())&0xFF
}

func (id ID) String() string {
	if id == IDNone {
		return "none"
	}
	return fmt.Sprintf("0x%03X", int32(id))
}

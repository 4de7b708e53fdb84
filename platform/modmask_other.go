//go:build !windows && !linux

package platform

import (
	"fmt"

	"golang.design/x/hotkey"
)

// legacyModifiers is not implemented on this OS.
// The project primarily targets Windows and Linux.
func legacyModifiers(mask uint32) ([]hotkey.Modifier, error) {
	return nil, fmt.Errorf("hotkey modifiers are not supported on this OS")
}

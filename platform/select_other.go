//go:build !windows

package platform

import (
	"fmt"
	"log"
)

// Select chooses the appropriate platform for the current environment.
// X11 (and macOS, which behaves the same from this layer's point of view)
// gets the golang.design/x/hotkey backed Legacy platform. Wayland has no
// usable global-shortcut facility here and reports ErrUnavailable.
func Select() (Platform, error) {
	ds := DetectDisplayServer()

	switch ds {
	case DisplayServerX11:
		log.Printf("Selected hotkey platform: %s for %s", "Legacy (golang.design/x/hotkey)", ds)
		return NewLegacy(), nil
	case DisplayServerWayland:
		return nil, fmt.Errorf("%w: Wayland global shortcuts are not supported", ErrUnavailable)
	default:
		return nil, fmt.Errorf("%w: unknown display server", ErrUnavailable)
	}
}

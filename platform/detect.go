package platform

import (
	"log"
	"os"
	"runtime"
)

// DisplayServer represents the type of display server in use
type DisplayServer int

const (
	DisplayServerUnknown DisplayServer = iota
	DisplayServerWindows
	DisplayServerX11
	DisplayServerWayland
)

func (ds DisplayServer) String() string {
	switch ds {
	case DisplayServerWindows:
		return "Windows"
	case DisplayServerX11:
		return "X11"
	case DisplayServerWayland:
		return "Wayland"
	default:
		return "Unknown"
	}
}

// DetectDisplayServer determines which display server is currently in use.
// This function is safe to call on any platform.
func DetectDisplayServer() DisplayServer {
	// Windows always uses its own system
	if runtime.GOOS == "windows" {
		return DisplayServerWindows
	}

	// On Unix-like systems, check environment variables.
	// Check Wayland first (more specific).
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}

	if os.Getenv("DISPLAY") != "" {
		return DisplayServerX11
	}

	// macOS uses its own system, but golang.design/x/hotkey supports it the
	// same way it supports X11, so it is treated as X11-compatible here.
	if runtime.GOOS == "darwin" {
		return DisplayServerX11
	}

	log.Println("Warning: Could not detect display server type")
	return DisplayServerUnknown
}

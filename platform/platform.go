// Package platform contains the OS-facing half of the hotkey stack: the
// Platform interface consumed by the manager layer and its implementations
// (native Win32, golang.design/x/hotkey, and an in-memory simulator).
package platform

import (
	"errors"
	"time"
)

// ErrUnavailable is returned when no platform can be used on the current
// system.
var ErrUnavailable = errors.New("no hotkey platform available on this system")

// EventKind discriminates the possible outcomes of a Wait call.
type EventKind int

const (
	// KindTriggered reports that a registered hotkey combination fired.
	KindTriggered EventKind = iota
	// KindInterrupted reports an internal wake signal, delivered through
	// the same queue as real events.
	KindInterrupted
	// KindTimedOut reports that a bounded Wait elapsed without an event.
	KindTimedOut
)

func (k EventKind) String() string {
	switch k {
	case KindTriggered:
		return "triggered"
	case KindInterrupted:
		return "interrupted"
	case KindTimedOut:
		return "timed out"
	}
	return "unknown"
}

// Event is the tagged result of a Wait call. ID is only meaningful for
// KindTriggered events.
type Event struct {
	Kind EventKind
	ID   int32
}

// Platform abstracts the OS facility for global hotkeys.
//
// RegisterHotkey, UnregisterHotkey and Wait share the thread affinity of the
// underlying OS facility: they must all be called from the same OS thread,
// which on a real platform also has to be locked for the goroutine calling
// them. The manager layer guarantees this by construction. Interrupt and
// Close are safe to call from any goroutine.
type Platform interface {
	// RegisterHotkey registers the combination with the OS under the given
	// id. The modifiers value is the combined MOD_* bitmask, possibly
	// including MOD_NOREPEAT.
	RegisterHotkey(id int32, vkey uint16, modifiers uint32) error

	// UnregisterHotkey removes a previously registered combination.
	UnregisterHotkey(id int32) error

	// Wait blocks until a hotkey event or an internal wake signal arrives.
	// A timeout greater than zero bounds the wait; otherwise Wait blocks
	// indefinitely.
	Wait(timeout time.Duration) (Event, error)

	// Interrupt wakes one blocked (or the next) Wait call, which then
	// reports KindInterrupted instead of a real event.
	Interrupt()

	// Close releases platform resources. Hotkeys still registered are
	// unregistered on a best-effort basis.
	Close() error
}

package hotkeys

import "errors"

var (
	// ErrAlreadyRegistered is returned when a key and modifier combination
	// is registered a second time.
	ErrAlreadyRegistered = errors.New("hotkey already registered")

	// ErrNotRegistered is returned when unregistering a combination that
	// is not in the registration table.
	ErrNotRegistered = errors.New("hotkey not registered")

	// ErrRegistrationFailed wraps an operating system failure to register
	// a hotkey. The wrapped error carries the OS detail.
	ErrRegistrationFailed = errors.New("os hotkey registration failed")

	// ErrUnregistrationFailed wraps an operating system failure to
	// unregister a hotkey. The local table entry is removed regardless so
	// the combination can be registered again.
	ErrUnregistrationFailed = errors.New("os hotkey unregistration failed")

	// ErrBackendPanicked means the backend goroutine of a
	// ThreadSafeManager died from a panic. The manager cannot serve any
	// further calls.
	ErrBackendPanicked = errors.New("hotkey backend goroutine panicked")

	// ErrBackendClosed means the ThreadSafeManager has been closed and
	// will not serve further calls.
	ErrBackendClosed = errors.New("hotkey backend closed")
)

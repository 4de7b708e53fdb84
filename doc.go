// Package hotkeys registers system-wide hotkeys and dispatches callbacks
// when they are pressed.
//
// OS hotkey facilities are bound to the thread that registered them, so
// the package comes in two layers. Manager is the thread-affine core: the
// goroutine that registers the first hotkey is pinned to its OS thread and
// must run every subsequent call, including the event loop, itself.
// ThreadSafeManager wraps a Manager running on a dedicated background
// goroutine and relays each call over a command channel, so any goroutine
// may register, unregister, and drive the loop. Callbacks registered
// through either layer run on the owning thread, never on the caller's.
package hotkeys

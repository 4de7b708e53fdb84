package hotkeys

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sort"
	"time"

	"github.com/TanaroSch/global-hotkeys/keys"
	"github.com/TanaroSch/global-hotkeys/platform"
)

// registration pairs a callback with the raw values needed to undo the OS
// registration later. Owned exclusively by one Manager.
type registration struct {
	vk        keys.VKey
	modifiers uint32
	callback  func()
}

// Manager is the thread-affine hotkey core. It owns the registration table
// and the blocking event loop. The goroutine that performs the first
// successful Register is locked to its OS thread and must make every
// further call on the same goroutine. Use ThreadSafeManager to drive a
// Manager from arbitrary goroutines.
type Manager struct {
	platform      platform.Platform
	registrations map[ID]*registration

	noRepeat bool
	bound    bool
}

// New creates a Manager on the platform selected for the current system.
func New() (*Manager, error) {
	p, err := platform.Select()
	if err != nil {
		return nil, err
	}
	return NewWithPlatform(p), nil
}

// NewWithPlatform creates a Manager on an explicit platform, such as a
// platform.Simulator.
func NewWithPlatform(p platform.Platform) *Manager {
	return &Manager{
		platform:      p,
		registrations: make(map[ID]*registration),
		noRepeat:      true,
	}
}

// SetNoRepeat controls whether holding a combination down fires repeated
// triggers. Repeat suppression is on by default.
func (m *Manager) SetNoRepeat(noRepeat bool) {
	m.noRepeat = noRepeat
}

// Register registers vk plus the given modifiers as a global hotkey and
// arranges for callback to run on each trigger. The returned ID is derived
// from the combination; registering the same combination again fails with
// ErrAlreadyRegistered.
func (m *Manager) Register(vk keys.VKey, modifiers []keys.ModKey, callback func()) (ID, error) {
	mods := keys.Combine(modifiers)
	id := idFor(vk, mods)
	if _, exists := m.registrations[id]; exists {
		return IDNone, fmt.Errorf("%s (id %s): %w", keys.FormatCombo(modifiers, vk), id, ErrAlreadyRegistered)
	}

	wireMods := mods
	if m.noRepeat {
		wireMods |= keys.ModNoRepeat
	}
	if err := m.platform.RegisterHotkey(int32(id), vk.Code(), wireMods); err != nil {
		return IDNone, fmt.Errorf("%s: %w: %v", keys.FormatCombo(modifiers, vk), ErrRegistrationFailed, err)
	}

	m.registrations[id] = &registration{vk: vk, modifiers: mods, callback: callback}
	m.bind()
	return id, nil
}

// bind pins the calling goroutine to its OS thread on the first successful
// registration. The OS hotkey set belongs to that thread from then on.
func (m *Manager) bind() {
	if m.bound {
		return
	}
	runtime.LockOSThread()
	m.bound = true
}

// Unregister removes the hotkey for the given combination.
func (m *Manager) Unregister(vk keys.VKey, modifiers []keys.ModKey) error {
	return m.UnregisterID(idFor(vk, keys.Combine(modifiers)))
}

// UnregisterID removes the hotkey with the given id. The table entry is
// dropped even when the OS refuses the unregistration, so the combination
// can always be registered again; the OS failure is still returned.
func (m *Manager) UnregisterID(id ID) error {
	if _, exists := m.registrations[id]; !exists {
		return fmt.Errorf("id %s: %w", id, ErrNotRegistered)
	}
	delete(m.registrations, id)
	if err := m.platform.UnregisterHotkey(int32(id)); err != nil {
		return fmt.Errorf("id %s: %w: %v", id, ErrUnregistrationFailed, err)
	}
	return nil
}

// UnregisterAll removes every registered hotkey. A failure on one entry
// does not stop the rest; the table is always emptied. Individual OS
// failures are joined into the returned error.
func (m *Manager) UnregisterAll() error {
	var errs []error
	for id := range m.registrations {
		delete(m.registrations, id)
		if err := m.platform.UnregisterHotkey(int32(id)); err != nil {
			errs = append(errs, fmt.Errorf("id %s: %w: %v", id, ErrUnregistrationFailed, err))
		}
	}
	return errors.Join(errs...)
}

// Registered returns the currently registered ids in ascending order.
func (m *Manager) Registered() []ID {
	ids := make([]ID, 0, len(m.registrations))
	for id := range m.registrations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PollOutcome reports how a single poll cycle ended. Exactly one of the
// three conditions holds: a hotkey fired (ID set), the wait was stopped
// (Stopped), or the timeout elapsed (TimedOut).
type PollOutcome struct {
	ID       ID
	Stopped  bool
	TimedOut bool
}

// Poll blocks until one registered hotkey fires or the wait is
// interrupted, runs the matching callback to completion, and reports what
// happened. Triggers for ids no longer in the table, such as an event
// racing an unregistration, are dropped silently and the wait resumes.
func (m *Manager) Poll() PollOutcome {
	return m.poll(0)
}

// PollTimeout is Poll with an upper bound on the wait.
func (m *Manager) PollTimeout(timeout time.Duration) PollOutcome {
	return m.poll(timeout)
}

func (m *Manager) poll(timeout time.Duration) PollOutcome {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		remaining := time.Duration(0)
		if !deadline.IsZero() {
			remaining = time.Until(deadline)
			if remaining <= 0 {
				return PollOutcome{ID: IDNone, TimedOut: true}
			}
		}

		ev, err := m.platform.Wait(remaining)
		if err != nil {
			log.Printf("Hotkey wait failed, stopping poll: %v", err)
			return PollOutcome{ID: IDNone, Stopped: true}
		}

		switch ev.Kind {
		case platform.KindInterrupted:
			return PollOutcome{ID: IDNone, Stopped: true}
		case platform.KindTimedOut:
			return PollOutcome{ID: IDNone, TimedOut: true}
		case platform.KindTriggered:
			reg, exists := m.registrations[ID(ev.ID)]
			if !exists {
				// Stale trigger for an id unregistered since the
				// event was queued.
				continue
			}
			reg.callback()
			return PollOutcome{ID: ID(ev.ID)}
		}
	}
}

// EventLoop polls and dispatches until the wait is interrupted, for
// example through an InterruptHandle. Callbacks run synchronously and
// sequentially on the owning thread.
func (m *Manager) EventLoop() {
	for {
		if outcome := m.Poll(); outcome.Stopped {
			return
		}
	}
}

// InterruptHandle wakes a Manager blocked in Poll or EventLoop. It is
// safe to use from any goroutine, which makes it the one way to stop a
// loop from outside the owning thread.
type InterruptHandle struct {
	platform platform.Platform
}

// InterruptHandle returns a handle bound to this Manager's platform.
func (m *Manager) InterruptHandle() InterruptHandle {
	return InterruptHandle{platform: m.platform}
}

// Interrupt wakes one blocked or future wait, which then reports Stopped.
func (h InterruptHandle) Interrupt() {
	h.platform.Interrupt()
}

// Close unregisters every hotkey, closes the platform, and releases the
// OS thread pin.
func (m *Manager) Close() error {
	err := m.UnregisterAll()
	if closeErr := m.platform.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if m.bound {
		runtime.UnlockOSThread()
		m.bound = false
	}
	return err
}

package hotkeys

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TanaroSch/global-hotkeys/keys"
	"github.com/TanaroSch/global-hotkeys/platform"
)

// opKind tags the operation a command carries.
type opKind int

const (
	opRegister opKind = iota
	opUnregister
	opUnregisterID
	opUnregisterAll
	opRegistered
	opSetNoRepeat
	opPoll
	opPollTimeout
	opEventLoop
	opClose
)

// command is one remote-invocable operation. Each command carries its own
// reply channel, so replies are correlated without sequence numbers.
type command struct {
	op opKind

	vk        keys.VKey
	modifiers []keys.ModKey
	callback  func()
	id        ID
	noRepeat  bool
	timeout   time.Duration

	reply chan result
}

type result struct {
	id      ID
	ids     []ID
	outcome PollOutcome
	err     error
}

// ThreadSafeManager drives a Manager from any goroutine. Construction
// spawns one backend goroutine that locks its OS thread, owns a private
// Manager, and serves commands one at a time from a channel, so all
// OS-facing operations are totally ordered no matter how many goroutines
// issue them.
//
// Callbacks always run on the backend goroutine, never on the goroutine
// that registered them. A callback that blocks stalls the event loop and
// every queued command until it returns.
type ThreadSafeManager struct {
	platform platform.Platform
	commands chan command
	done     chan struct{}

	// exitErr is written by the backend goroutine before done is closed.
	exitErr error

	// closing is set by Close before it interrupts the backend. Once set,
	// the backend latches a fresh interrupt ahead of every blocking command
	// so waits queued behind a running loop cannot stall the shutdown.
	closing atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

// NewThreadSafe creates a ThreadSafeManager on the platform selected for
// the current system.
func NewThreadSafe() (*ThreadSafeManager, error) {
	p, err := platform.Select()
	if err != nil {
		return nil, err
	}
	return NewThreadSafeWithPlatform(p), nil
}

// NewThreadSafeWithPlatform creates a ThreadSafeManager on an explicit
// platform and starts its backend goroutine.
func NewThreadSafeWithPlatform(p platform.Platform) *ThreadSafeManager {
	m := &ThreadSafeManager{
		platform: p,
		commands: make(chan command),
		done:     make(chan struct{}),
	}
	go m.run()
	return m
}

// run is the backend goroutine. It owns the only reference to the core
// Manager; nothing else ever touches it.
func (m *ThreadSafeManager) run() {
	runtime.LockOSThread()
	defer close(m.done)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("RECOVERED FROM PANIC IN HOTKEY BACKEND: %v", r)
			m.exitErr = fmt.Errorf("%w: %v", ErrBackendPanicked, r)
		}
	}()

	core := NewWithPlatform(m.platform)
	defer func() {
		if err := core.Close(); err != nil {
			log.Printf("Error closing hotkey core: %v", err)
		}
	}()

	for cmd := range m.commands {
		if m.closing.Load() {
			switch cmd.op {
			case opPoll, opPollTimeout, opEventLoop:
				m.platform.Interrupt()
			}
		}
		res := m.execute(core, cmd)
		cmd.reply <- res
		if cmd.op == opClose {
			return
		}
	}
}

func (m *ThreadSafeManager) execute(core *Manager, cmd command) result {
	switch cmd.op {
	case opRegister:
		id, err := core.Register(cmd.vk, cmd.modifiers, cmd.callback)
		return result{id: id, err: err}
	case opUnregister:
		return result{err: core.Unregister(cmd.vk, cmd.modifiers)}
	case opUnregisterID:
		return result{err: core.UnregisterID(cmd.id)}
	case opUnregisterAll:
		return result{err: core.UnregisterAll()}
	case opRegistered:
		return result{ids: core.Registered()}
	case opSetNoRepeat:
		core.SetNoRepeat(cmd.noRepeat)
		return result{}
	case opPoll:
		return result{outcome: core.Poll()}
	case opPollTimeout:
		return result{outcome: core.PollTimeout(cmd.timeout)}
	case opEventLoop:
		core.EventLoop()
		return result{}
	case opClose:
		return result{}
	default:
		return result{err: fmt.Errorf("unknown hotkey command %d", cmd.op)}
	}
}

// send relays one command to the backend and blocks until its reply. When
// the backend has exited, callers get ErrBackendClosed, or
// ErrBackendPanicked when it died from a panic, instead of hanging.
func (m *ThreadSafeManager) send(cmd command) (result, error) {
	cmd.reply = make(chan result, 1)
	select {
	case m.commands <- cmd:
	case <-m.done:
		return result{}, m.backendError()
	}
	select {
	case res := <-cmd.reply:
		return res, res.err
	case <-m.done:
		return result{}, m.backendError()
	}
}

func (m *ThreadSafeManager) backendError() error {
	if m.exitErr != nil {
		return m.exitErr
	}
	return ErrBackendClosed
}

// Register registers the combination on the backend thread. The callback
// will run on the backend goroutine.
func (m *ThreadSafeManager) Register(vk keys.VKey, modifiers []keys.ModKey, callback func()) (ID, error) {
	res, err := m.send(command{op: opRegister, vk: vk, modifiers: modifiers, callback: callback})
	if err != nil {
		return IDNone, err
	}
	return res.id, nil
}

// Unregister removes the hotkey for the given combination.
func (m *ThreadSafeManager) Unregister(vk keys.VKey, modifiers []keys.ModKey) error {
	_, err := m.send(command{op: opUnregister, vk: vk, modifiers: modifiers})
	return err
}

// UnregisterID removes the hotkey with the given id.
func (m *ThreadSafeManager) UnregisterID(id ID) error {
	_, err := m.send(command{op: opUnregisterID, id: id})
	return err
}

// UnregisterAll removes every registered hotkey.
func (m *ThreadSafeManager) UnregisterAll() error {
	_, err := m.send(command{op: opUnregisterAll})
	return err
}

// Registered returns the currently registered ids in ascending order.
func (m *ThreadSafeManager) Registered() ([]ID, error) {
	res, err := m.send(command{op: opRegistered})
	if err != nil {
		return nil, err
	}
	return res.ids, nil
}

// SetNoRepeat controls repeat suppression for subsequent registrations.
func (m *ThreadSafeManager) SetNoRepeat(noRepeat bool) error {
	_, err := m.send(command{op: opSetNoRepeat, noRepeat: noRepeat})
	return err
}

// Poll runs one wait and dispatch cycle on the backend thread. The caller
// blocks until a hotkey fires, Stop is called, or the backend dies.
func (m *ThreadSafeManager) Poll() (PollOutcome, error) {
	res, err := m.send(command{op: opPoll})
	if err != nil {
		return PollOutcome{ID: IDNone, Stopped: true}, err
	}
	return res.outcome, nil
}

// PollTimeout is Poll with an upper bound on the wait.
func (m *ThreadSafeManager) PollTimeout(timeout time.Duration) (PollOutcome, error) {
	res, err := m.send(command{op: opPollTimeout, timeout: timeout})
	if err != nil {
		return PollOutcome{ID: IDNone, Stopped: true}, err
	}
	return res.outcome, nil
}

// EventLoop runs the backend's dispatch loop until Stop is called. The
// calling goroutine blocks for the duration. Commands issued by other
// goroutines while the loop runs queue up behind it and are served after
// the loop returns.
func (m *ThreadSafeManager) EventLoop() error {
	_, err := m.send(command{op: opEventLoop})
	return err
}

// Stop wakes a running EventLoop or Poll. It goes through the platform
// interrupt rather than the command queue, because the queue is stalled
// behind the loop while it runs. Stopping an idle manager makes the next
// poll return immediately with Stopped.
func (m *ThreadSafeManager) Stop() {
	m.platform.Interrupt()
}

// Close stops any running loop, shuts the backend goroutine down, and
// waits for it to exit. Further calls on the manager return
// ErrBackendClosed. Close is idempotent.
func (m *ThreadSafeManager) Close() error {
	m.closeOnce.Do(func() {
		m.closing.Store(true)
		m.platform.Interrupt()
		_, err := m.send(command{op: opClose})
		<-m.done
		if err != nil && !errors.Is(err, ErrBackendClosed) {
			m.closeErr = err
		}
	})
	return m.closeErr
}

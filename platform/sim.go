package platform

import (
	"fmt"
	"sync"
	"time"
)

// Simulator is an in-memory Platform for tests and for exercising the
// manager layer without touching any OS hotkey facility. Trigger stands in
// for the user pressing a registered combination.
type Simulator struct {
	mu         sync.Mutex
	registered map[int32]uint32

	failNextRegister   error
	failNextUnregister error

	events     chan Event
	interrupts chan struct{}
}

// NewSimulator creates an in-memory platform with room for a burst of
// pending trigger events.
func NewSimulator() *Simulator {
	return &Simulator{
		registered: make(map[int32]uint32),
		events:     make(chan Event, 64),
		interrupts: make(chan struct{}, 1),
	}
}

// FailNextRegister makes the next RegisterHotkey call fail with err.
func (p *Simulator) FailNextRegister(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNextRegister = err
}

// FailNextUnregister makes the next UnregisterHotkey call fail with err.
// The hotkey is still removed, matching how a dangling OS registration is
// treated as gone.
func (p *Simulator) FailNextUnregister(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNextUnregister = err
}

// Registered reports whether id is currently held by the simulator.
func (p *Simulator) Registered(id int32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.registered[id]
	return ok
}

// Modifiers returns the modifier mask that was passed when id was
// registered, so tests can observe wire-level flags such as MOD_NOREPEAT.
func (p *Simulator) Modifiers(id int32) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registered[id]
}

// Trigger queues a trigger event for id, whether or not it is registered.
// Unknown ids let tests exercise the stale-event path.
func (p *Simulator) Trigger(id int32) {
	p.events <- Event{Kind: KindTriggered, ID: id}
}

func (p *Simulator) RegisterHotkey(id int32, vkey uint16, modifiers uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failNextRegister; err != nil {
		p.failNextRegister = nil
		return err
	}
	if _, exists := p.registered[id]; exists {
		return fmt.Errorf("hotkey id %d already registered", id)
	}
	p.registered[id] = modifiers
	return nil
}

func (p *Simulator) UnregisterHotkey(id int32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.registered, id)
	if err := p.failNextUnregister; err != nil {
		p.failNextUnregister = nil
		return err
	}
	return nil
}

func (p *Simulator) Wait(timeout time.Duration) (Event, error) {
	var timer *time.Timer
	var expired <-chan time.Time
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case ev := <-p.events:
		return ev, nil
	case <-p.interrupts:
		return Event{Kind: KindInterrupted}, nil
	case <-expired:
		return Event{Kind: KindTimedOut}, nil
	}
}

func (p *Simulator) Interrupt() {
	select {
	case p.interrupts <- struct{}{}:
	default:
	}
}

func (p *Simulator) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = make(map[int32]uint32)
	return nil
}

package platform

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.design/x/hotkey"
)

// Legacy wraps the golang.design/x/hotkey library as a Platform. It supports
// Windows, macOS, and X11 on Linux. It does NOT support Wayland.
//
// The library delivers keydown events on per-hotkey channels; Legacy funnels
// them into a single event queue so the manager layer sees the same Wait
// shape as on the native Win32 platform.
type Legacy struct {
	mu      sync.Mutex
	hotkeys map[int32]*legacyHotkey

	events     chan Event
	interrupts chan struct{}
}

// legacyHotkey pairs a registered hotkey with the stop signal for its event
// converter goroutine.
type legacyHotkey struct {
	hk   *hotkey.Hotkey
	stop chan struct{}
}

// NewLegacy creates a new platform backed by golang.design/x/hotkey.
func NewLegacy() *Legacy {
	return &Legacy{
		hotkeys:    make(map[int32]*legacyHotkey),
		events:     make(chan Event, 64),
		interrupts: make(chan struct{}, 1),
	}
}

func (p *Legacy) RegisterHotkey(id int32, vkey uint16, modifiers uint32) error {
	key, ok := legacyKeys[vkey]
	if !ok {
		return fmt.Errorf("key 0x%02X has no golang.design/x/hotkey equivalent", vkey)
	}
	mods, err := legacyModifiers(modifiers)
	if err != nil {
		return err
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register hotkey id %d: %w", id, err)
	}

	wrapped := &legacyHotkey{hk: hk, stop: make(chan struct{})}

	p.mu.Lock()
	if _, exists := p.hotkeys[id]; exists {
		p.mu.Unlock()
		if err := hk.Unregister(); err != nil {
			log.Printf("Legacy platform: rollback unregister for id %d failed: %v", id, err)
		}
		return fmt.Errorf("hotkey id %d already registered with legacy platform", id)
	}
	p.hotkeys[id] = wrapped
	p.mu.Unlock()

	go p.convertEvents(id, wrapped)
	return nil
}

// convertEvents forwards keydown events from the library channel into the
// shared event queue until the hotkey is unregistered.
func (p *Legacy) convertEvents(id int32, lh *legacyHotkey) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("RECOVERED FROM PANIC IN LEGACY HOTKEY CONVERTER (id %d): %v", id, r)
		}
	}()

	for {
		select {
		case <-lh.stop:
			return
		case <-lh.hk.Keydown():
			select {
			case p.events <- Event{Kind: KindTriggered, ID: id}:
			case <-lh.stop:
				return
			}
		}
	}
}

func (p *Legacy) UnregisterHotkey(id int32) error {
	p.mu.Lock()
	lh, exists := p.hotkeys[id]
	if !exists {
		p.mu.Unlock()
		return fmt.Errorf("hotkey id %d is not registered with legacy platform", id)
	}
	delete(p.hotkeys, id)
	p.mu.Unlock()

	close(lh.stop)
	if err := lh.hk.Unregister(); err != nil {
		return fmt.Errorf("unregister hotkey id %d: %w", id, err)
	}
	return nil
}

func (p *Legacy) Wait(timeout time.Duration) (Event, error) {
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

func (p *Legacy) Interrupt() {
	select {
	case p.interrupts <- struct{}{}:
	default:
		// A wake signal is already pending; one is enough.
	}
}

// Close unregisters everything still registered. Individual failures are
// logged and do not abort the rest.
func (p *Legacy) Close() error {
	p.mu.Lock()
	hotkeys := p.hotkeys
	p.hotkeys = make(map[int32]*legacyHotkey)
	p.mu.Unlock()

	for id, lh := range hotkeys {
		close(lh.stop)
		if err := lh.hk.Unregister(); err != nil {
			log.Printf("Legacy platform: error unregistering id %d on close: %v", id, err)
		}
	}
	return nil
}

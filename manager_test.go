package hotkeys

import (
	"errors"
	"testing"
	"time"

	"github.com/TanaroSch/global-hotkeys/keys"
	"github.com/TanaroSch/global-hotkeys/platform"
)

func TestRegisterDuplicate(t *testing.T) {
	tests := []struct {
		name  string
		first []keys.ModKey
		again []keys.ModKey
	}{
		{"same order", []keys.ModKey{keys.ModCtrl, keys.ModAlt}, []keys.ModKey{keys.ModCtrl, keys.ModAlt}},
		{"reordered modifiers", []keys.ModKey{keys.ModCtrl, keys.ModAlt}, []keys.ModKey{keys.ModAlt, keys.ModCtrl}},
		{"duplicated modifier", []keys.ModKey{keys.ModAlt}, []keys.ModKey{keys.ModAlt, keys.ModAlt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewWithPlatform(platform.NewSimulator())
			defer m.Close()

			if _, err := m.Register(keys.VKeyA, tt.first, func() {}); err != nil {
				t.Fatalf("first Register failed: %v", err)
			}
			_, err := m.Register(keys.VKeyA, tt.again, func() {})
			if !errors.Is(err, ErrAlreadyRegistered) {
				t.Errorf("second Register: got %v, want ErrAlreadyRegistered", err)
			}
		})
	}
}

func TestUnregisterNotRegistered(t *testing.T) {
	m := NewWithPlatform(platform.NewSimulator())
	defer m.Close()

	if err := m.Unregister(keys.VKeyA, []keys.ModKey{keys.ModAlt}); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Unregister on empty table: got %v, want ErrNotRegistered", err)
	}
}

func TestRegisterOSFailure(t *testing.T) {
	sim := platform.NewSimulator()
	m := NewWithPlatform(sim)
	defer m.Close()

	sim.FailNextRegister(errors.New("access denied"))
	_, err := m.Register(keys.VKeyA, []keys.ModKey{keys.ModAlt}, func() {})
	if !errors.Is(err, ErrRegistrationFailed) {
		t.Fatalf("Register: got %v, want ErrRegistrationFailed", err)
	}
	if got := m.Registered(); len(got) != 0 {
		t.Errorf("Registered after failed register = %v, want empty", got)
	}
}

func TestUnregisterDropsEntryOnOSFailure(t *testing.T) {
	sim := platform.NewSimulator()
	m := NewWithPlatform(sim)
	defer m.Close()

	if _, err := m.Register(keys.VKeyA, []keys.ModKey{keys.ModAlt}, func() {}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	sim.FailNextUnregister(errors.New("handle gone"))
	err := m.Unregister(keys.VKeyA, []keys.ModKey{keys.ModAlt})
	if !errors.Is(err, ErrUnregistrationFailed) {
		t.Fatalf("Unregister: got %v, want ErrUnregistrationFailed", err)
	}
	if got := m.Registered(); len(got) != 0 {
		t.Errorf("Registered after failed unregister = %v, want empty", got)
	}

	// The combination must be registrable again.
	if _, err := m.Register(keys.VKeyA, []keys.ModKey{keys.ModAlt}, func() {}); err != nil {
		t.Errorf("re-Register after failed unregister: %v", err)
	}
}

func TestPollDispatchesExactlyOne(t *testing.T) {
	sim := platform.NewSimulator()
	m := NewWithPlatform(sim)
	defer m.Close()

	var aCount, bCount int
	idA, err := m.Register(keys.VKeyA, []keys.ModKey{keys.ModAlt}, func() { aCount++ })
	if err != nil {
		t.Fatalf("Register A failed: %v", err)
	}
	if _, err := m.Register(keys.VKeyB, []keys.ModKey{keys.ModAlt}, func() { bCount++ }); err != nil {
		t.Fatalf("Register B failed: %v", err)
	}

	sim.Trigger(int32(idA))
	outcome := m.Poll()
	if outcome.ID != idA || outcome.Stopped || outcome.TimedOut {
		t.Fatalf("Poll outcome = %+v, want ID %s", outcome, idA)
	}
	if aCount != 1 || bCount != 0 {
		t.Errorf("callback counts = (%d, %d), want (1, 0)", aCount, bCount)
	}
}

func TestStaleTriggerDropped(t *testing.T) {
	sim := platform.NewSimulator()
	m := NewWithPlatform(sim)
	defer m.Close()

	var count int
	id, err := m.Register(keys.VKeyA, []keys.ModKey{keys.ModAlt}, func() { count++ })
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := m.UnregisterID(id); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}

	sim.Trigger(int32(id))
	outcome := m.PollTimeout(50 * time.Millisecond)
	if !outcome.TimedOut {
		t.Errorf("PollTimeout outcome = %+v, want TimedOut", outcome)
	}
	if count != 0 {
		t.Errorf("callback ran %d times after unregister, want 0", count)
	}
}

func TestTriggerCounterScenario(t *testing.T) {
	sim := platform.NewSimulator()
	m := NewWithPlatform(sim)
	defer m.Close()

	var count int
	id, err := m.Register(keys.VKeyA, []keys.ModKey{keys.ModAlt}, func() { count++ })
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		sim.Trigger(int32(id))
		if outcome := m.Poll(); outcome.ID != id {
			t.Fatalf("Poll %d outcome = %+v, want ID %s", i, outcome, id)
		}
	}
	if count != 3 {
		t.Fatalf("count = %d after three triggers, want 3", count)
	}

	if err := m.UnregisterAll(); err != nil {
		t.Fatalf("UnregisterAll failed: %v", err)
	}
	sim.Trigger(int32(id))
	if outcome := m.PollTimeout(50 * time.Millisecond); !outcome.TimedOut {
		t.Fatalf("PollTimeout after UnregisterAll = %+v, want TimedOut", outcome)
	}
	if count != 3 {
		t.Errorf("count = %d after unregistered trigger, want 3", count)
	}
}

func TestNoRepeatWireFlag(t *testing.T) {
	sim := platform.NewSimulator()
	m := NewWithPlatform(sim)
	defer m.Close()

	idA, err := m.Register(keys.VKeyA, []keys.ModKey{keys.ModAlt}, func() {})
	if err != nil {
		t.Fatalf("Register A failed: %v", err)
	}
	if mods := sim.Modifiers(int32(idA)); mods&keys.ModNoRepeat == 0 {
		t.Errorf("default registration sent modifiers 0x%04X, want MOD_NOREPEAT set", mods)
	}

	m.SetNoRepeat(false)
	idB, err := m.Register(keys.VKeyB, []keys.ModKey{keys.ModAlt}, func() {})
	if err != nil {
		t.Fatalf("Register B failed: %v", err)
	}
	if mods := sim.Modifiers(int32(idB)); mods&keys.ModNoRepeat != 0 {
		t.Errorf("registration after SetNoRepeat(false) sent modifiers 0x%04X, want MOD_NOREPEAT clear", mods)
	}

	// The flag shapes the wire call only, never the identity.
	if idA != idFor(keys.VKeyA, keys.Combine([]keys.ModKey{keys.ModAlt})) {
		t.Errorf("id %s does not match the derived id for its combination", idA)
	}
	if idB != idFor(keys.VKeyB, keys.Combine([]keys.ModKey{keys.ModAlt})) {
		t.Errorf("id %s does not match the derived id for its combination", idB)
	}
}

func TestRegisteredSorted(t *testing.T) {
	m := NewWithPlatform(platform.NewSimulator())
	defer m.Close()

	combos := []struct {
		vk   keys.VKey
		mods []keys.ModKey
	}{
		{keys.VKeyZ, []keys.ModKey{keys.ModWin}},
		{keys.VKeyA, []keys.ModKey{keys.ModAlt}},
		{keys.VKeyF5, nil},
	}
	want := make(map[ID]bool)
	for _, c := range combos {
		id, err := m.Register(c.vk, c.mods, func() {})
		if err != nil {
			t.Fatalf("Register %s failed: %v", keys.FormatCombo(c.mods, c.vk), err)
		}
		want[id] = true
	}

	got := m.Registered()
	if len(got) != len(want) {
		t.Fatalf("Registered returned %d ids, want %d", len(got), len(want))
	}
	for i, id := range got {
		if !want[id] {
			t.Errorf("unexpected id %s", id)
		}
		if i > 0 && got[i-1] >= id {
			t.Errorf("ids not ascending: %v", got)
		}
	}
}

func TestEventLoopStopsOnInterrupt(t *testing.T) {
	m := NewWithPlatform(platform.NewSimulator())
	handle := m.InterruptHandle()

	done := make(chan struct{})
	go func() {
		// The loop and any registrations must share one goroutine.
		m.EventLoop()
		close(done)
	}()

	handle.Interrupt()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("EventLoop did not return after Interrupt")
	}
}

func TestPollTimeoutElapses(t *testing.T) {
	m := NewWithPlatform(platform.NewSimulator())
	defer m.Close()

	start := time.Now()
	outcome := m.PollTimeout(30 * time.Millisecond)
	if !outcome.TimedOut || outcome.ID != IDNone {
		t.Fatalf("PollTimeout outcome = %+v, want TimedOut with IDNone", outcome)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("PollTimeout returned after %v, too early", elapsed)
	}
}

func TestIDDerivation(t *testing.T) {
	tests := []struct {
		name string
		vk   keys.VKey
		mods []keys.ModKey
		want ID
	}{
		{"alt+a", keys.VKeyA, []keys.ModKey{keys.ModAlt}, 0x141},
		{"ctrl+shift+a", keys.VKeyA, []keys.ModKey{keys.ModCtrl, keys.ModShift}, 0x641},
		{"bare f24", keys.VKeyF24, nil, 0x087},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idFor(tt.vk, keys.Combine(tt.mods)); got != tt.want {
				t.Errorf("idFor = %s, want %s", got, tt.want)
			}
		})
	}
}

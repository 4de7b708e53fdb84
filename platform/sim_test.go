package platform

import (
	"errors"
	"testing"
	"time"
)

func TestSimulatorWaitOrder(t *testing.T) {
	sim := NewSimulator()

	sim.Trigger(7)
	sim.Trigger(9)

	for _, want := range []int32{7, 9} {
		ev, err := sim.Wait(time.Second)
		if err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
		if ev.Kind != KindTriggered || ev.ID != want {
			t.Fatalf("Wait = %+v, want Triggered id %d", ev, want)
		}
	}
}

func TestSimulatorInterruptLatches(t *testing.T) {
	sim := NewSimulator()

	// Interrupts before and during a wait both wake exactly one Wait.
	sim.Interrupt()
	sim.Interrupt()

	ev, err := sim.Wait(time.Second)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if ev.Kind != KindInterrupted {
		t.Fatalf("Wait = %+v, want Interrupted", ev)
	}

	ev, err = sim.Wait(30 * time.Millisecond)
	if err != nil {
		t.Fatalf("second Wait failed: %v", err)
	}
	if ev.Kind != KindTimedOut {
		t.Errorf("second Wait = %+v, want TimedOut", ev)
	}
}

func TestSimulatorRecordsModifiers(t *testing.T) {
	sim := NewSimulator()

	if err := sim.RegisterHotkey(5, 'B', 0x4003); err != nil {
		t.Fatalf("RegisterHotkey failed: %v", err)
	}
	if got := sim.Modifiers(5); got != 0x4003 {
		t.Errorf("Modifiers(5) = 0x%04X, want 0x4003", got)
	}
	if got := sim.Modifiers(99); got != 0 {
		t.Errorf("Modifiers(99) = 0x%04X for unknown id, want 0", got)
	}
}

func TestSimulatorCloseDropsRegistrations(t *testing.T) {
	sim := NewSimulator()

	if err := sim.RegisterHotkey(3, 'C', 0); err != nil {
		t.Fatalf("RegisterHotkey failed: %v", err)
	}
	if err := sim.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if sim.Registered(3) {
		t.Error("id 3 still registered after Close")
	}
}

func TestSimulatorForcedFailures(t *testing.T) {
	sim := NewSimulator()

	wantReg := errors.New("no")
	sim.FailNextRegister(wantReg)
	if err := sim.RegisterHotkey(1, 'A', 0x0001); !errors.Is(err, wantReg) {
		t.Fatalf("RegisterHotkey: got %v, want forced error", err)
	}
	if sim.Registered(1) {
		t.Error("id 1 registered despite forced failure")
	}

	if err := sim.RegisterHotkey(1, 'A', 0x0001); err != nil {
		t.Fatalf("RegisterHotkey failed: %v", err)
	}
	wantUnreg := errors.New("gone")
	sim.FailNextUnregister(wantUnreg)
	if err := sim.UnregisterHotkey(1); !errors.Is(err, wantUnreg) {
		t.Fatalf("UnregisterHotkey: got %v, want forced error", err)
	}
	if sim.Registered(1) {
		t.Error("id 1 still registered after failed unregister")
	}
}

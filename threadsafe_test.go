package hotkeys

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/TanaroSch/global-hotkeys/keys"
	"github.com/TanaroSch/global-hotkeys/platform"
)

func TestThreadSafeCounterScenario(t *testing.T) {
	sim := platform.NewSimulator()
	m := NewThreadSafeWithPlatform(sim)
	defer m.Close()

	var mu sync.Mutex
	count := 0
	id, err := m.Register(keys.VKeyA, []keys.ModKey{keys.ModAlt}, func() {
		mu.Lock()
		count++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		sim.Trigger(int32(id))
		outcome, err := m.Poll()
		if err != nil {
			t.Fatalf("Poll %d failed: %v", i, err)
		}
		if outcome.ID != id {
			t.Fatalf("Poll %d outcome = %+v, want ID %s", i, outcome, id)
		}
	}
	mu.Lock()
	if count != 3 {
		t.Fatalf("count = %d after three triggers, want 3", count)
	}
	mu.Unlock()

	if err := m.UnregisterAll(); err != nil {
		t.Fatalf("UnregisterAll failed: %v", err)
	}
	sim.Trigger(int32(id))
	outcome, err := m.PollTimeout(50 * time.Millisecond)
	if err != nil {
		t.Fatalf("PollTimeout failed: %v", err)
	}
	if !outcome.TimedOut {
		t.Fatalf("PollTimeout after UnregisterAll = %+v, want TimedOut", outcome)
	}
	mu.Lock()
	if count != 3 {
		t.Errorf("count = %d after unregistered trigger, want 3", count)
	}
	mu.Unlock()
}

func TestThreadSafeConcurrentCallers(t *testing.T) {
	m := NewThreadSafeWithPlatform(platform.NewSimulator())
	defer m.Close()

	vkeys := []keys.VKey{
		keys.VKeyA, keys.VKeyB, keys.VKeyC, keys.VKeyD,
		keys.VKeyE, keys.VKeyF, keys.VKeyG, keys.VKeyH,
	}

	var wg sync.WaitGroup
	errs := make([]error, len(vkeys))
	for i, vk := range vkeys {
		wg.Add(1)
		go func(i int, vk keys.VKey) {
			defer wg.Done()
			_, errs[i] = m.Register(vk, []keys.ModKey{keys.ModCtrl, keys.ModAlt}, func() {})
		}(i, vk)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Register %s failed: %v", vkeys[i], err)
		}
	}

	ids, err := m.Registered()
	if err != nil {
		t.Fatalf("Registered failed: %v", err)
	}
	if len(ids) != len(vkeys) {
		t.Errorf("Registered returned %d ids, want %d", len(ids), len(vkeys))
	}
}

func TestThreadSafeStopUnblocksEventLoop(t *testing.T) {
	m := NewThreadSafeWithPlatform(platform.NewSimulator())
	defer m.Close()

	done := make(chan error, 1)
	go func() {
		done <- m.EventLoop()
	}()

	// Give the loop a moment to enter its wait before stopping it.
	time.Sleep(20 * time.Millisecond)
	m.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("EventLoop returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("EventLoop did not return after Stop")
	}
}

func TestThreadSafeCommandsQueueBehindEventLoop(t *testing.T) {
	sim := platform.NewSimulator()
	m := NewThreadSafeWithPlatform(sim)
	defer m.Close()

	id, err := m.Register(keys.VKeyA, []keys.ModKey{keys.ModAlt}, func() {})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- m.EventLoop()
	}()
	time.Sleep(20 * time.Millisecond)

	// Issued while the loop runs; served only after Stop.
	unregDone := make(chan error, 1)
	go func() {
		unregDone <- m.UnregisterID(id)
	}()

	select {
	case err := <-unregDone:
		t.Fatalf("Unregister completed while the loop was running (err %v)", err)
	case <-time.After(50 * time.Millisecond):
	}

	m.Stop()
	if err := <-loopDone; err != nil {
		t.Fatalf("EventLoop returned error: %v", err)
	}
	if err := <-unregDone; err != nil {
		t.Fatalf("queued Unregister failed: %v", err)
	}
}

func TestThreadSafeCloseIdempotent(t *testing.T) {
	m := NewThreadSafeWithPlatform(platform.NewSimulator())

	if err := m.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if _, err := m.Register(keys.VKeyA, []keys.ModKey{keys.ModAlt}, func() {}); !errors.Is(err, ErrBackendClosed) {
		t.Errorf("Register after Close: got %v, want ErrBackendClosed", err)
	}
}

func TestThreadSafeCloseUnblocksQueuedPoll(t *testing.T) {
	m := NewThreadSafeWithPlatform(platform.NewSimulator())

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- m.EventLoop()
	}()
	time.Sleep(20 * time.Millisecond)

	// A blocking wait queued behind the running loop must not be able to
	// stall the shutdown by swallowing its one wake signal.
	pollDone := make(chan struct{})
	var outcome PollOutcome
	var pollErr error
	go func() {
		outcome, pollErr = m.Poll()
		close(pollDone)
	}()
	time.Sleep(20 * time.Millisecond)

	closed := make(chan error, 1)
	go func() {
		closed <- m.Close()
	}()

	select {
	case err := <-closed:
		if err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return with a poll queued behind the loop")
	}

	if err := <-loopDone; err != nil {
		t.Fatalf("EventLoop returned error: %v", err)
	}
	<-pollDone
	if !outcome.Stopped {
		t.Errorf("queued Poll outcome = %+v, want Stopped", outcome)
	}
	if pollErr != nil && !errors.Is(pollErr, ErrBackendClosed) {
		t.Errorf("queued Poll error = %v, want nil or ErrBackendClosed", pollErr)
	}
}

func TestThreadSafeCallbackPanic(t *testing.T) {
	sim := platform.NewSimulator()
	m := NewThreadSafeWithPlatform(sim)

	id, err := m.Register(keys.VKeyA, []keys.ModKey{keys.ModAlt}, func() {
		panic("callback exploded")
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	sim.Trigger(int32(id))
	if _, err := m.Poll(); !errors.Is(err, ErrBackendPanicked) {
		t.Fatalf("Poll: got %v, want ErrBackendPanicked", err)
	}

	// The backend is gone for good; later calls must not hang.
	if _, err := m.Register(keys.VKeyB, nil, func() {}); !errors.Is(err, ErrBackendPanicked) {
		t.Errorf("Register after panic: got %v, want ErrBackendPanicked", err)
	}
}

//go:build windows

package platform

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32DLL = windows.NewLazySystemDLL("user32.dll")
	kernelDLL = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterHotKey            = user32DLL.NewProc("RegisterHotKey")
	procUnregisterHotKey          = user32DLL.NewProc("UnregisterHotKey")
	procGetMessageW               = user32DLL.NewProc("GetMessageW")
	procPeekMessageW              = user32DLL.NewProc("PeekMessageW")
	procPostThreadMessageW        = user32DLL.NewProc("PostThreadMessageW")
	procMsgWaitForMultipleObjects = user32DLL.NewProc("MsgWaitForMultipleObjects")
	procGetCurrentThreadID        = kernelDLL.NewProc("GetCurrentThreadId")
)

const (
	wmNull   = 0x0000
	wmHotkey = 0x0312

	pmNoRemove = 0x0000
	pmRemove   = 0x0001

	qsAllInput        = 0x04FF
	win32WaitTimedOut = 0x0102 // WAIT_TIMEOUT
	win32WaitFailed   = 0xFFFFFFFF
)

// point mirrors the Win32 POINT struct.
type point struct {
	x int32
	y int32
}

// winMsg mirrors the Win32 MSG struct (tagMSG from winuser.h).
// Field order and types must not be changed -- the layout must match
// the Win32 binary layout on both 32-bit and 64-bit Windows.
type winMsg struct {
	hWnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32 // reserved by Windows; required for correct struct size
}

// Win32 is the native Windows platform. Hotkeys are registered against the
// owner thread's message queue (hwnd 0), so RegisterHotkey, UnregisterHotkey
// and Wait must all run on one locked OS thread. The thread is identified
// lazily, on the first call that needs the message queue, and stays fixed
// afterwards.
type Win32 struct {
	mu sync.Mutex
	// threadID of the owner thread, 0 until the queue exists.
	threadID uint32
	// pendingInterrupt latches an Interrupt that arrived before the queue
	// was created; the next Wait consumes it.
	pendingInterrupt bool
	// registered ids still held with the OS, unregistered on Close.
	registered map[int32]struct{}
}

// NewWin32 creates the native Win32 platform.
func NewWin32() *Win32 {
	return &Win32{registered: make(map[int32]struct{})}
}

// ensureQueue binds the platform to the calling thread and forces Windows
// to create its message queue. Must be called with mu held, on the owner
// thread.
func (p *Win32) ensureQueue() error {
	if p.threadID != 0 {
		return nil
	}

	tid, _, callErr := procGetCurrentThreadID.Call()
	if tid == 0 {
		return fmt.Errorf("GetCurrentThreadId returned 0: %v", callErr)
	}

	// PeekMessageW forces Windows to create the thread message queue so
	// that PostThreadMessageW from other threads can deliver the wake
	// signal. The return value is irrelevant; queue creation is a
	// side-effect of the call itself.
	var msg winMsg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0, pmNoRemove)

	p.threadID = uint32(tid)
	return nil
}

func (p *Win32) RegisterHotkey(id int32, vkey uint16, modifiers uint32) error {
	p.mu.Lock()
	err := p.ensureQueue()
	p.mu.Unlock()
	if err != nil {
		return err
	}

	ret, _, callErr := procRegisterHotKey.Call(0, uintptr(id), uintptr(modifiers), uintptr(vkey))
	if ret == 0 {
		if callErr == syscall.Errno(0) {
			return errors.New("RegisterHotKey failed")
		}
		return fmt.Errorf("RegisterHotKey: %w", callErr)
	}

	p.mu.Lock()
	p.registered[id] = struct{}{}
	p.mu.Unlock()
	return nil
}

func (p *Win32) UnregisterHotkey(id int32) error {
	p.mu.Lock()
	delete(p.registered, id)
	p.mu.Unlock()

	ret, _, callErr := procUnregisterHotKey.Call(0, uintptr(id))
	if ret == 0 {
		if callErr == syscall.Errno(0) {
			return errors.New("UnregisterHotKey failed")
		}
		return fmt.Errorf("UnregisterHotKey: %w", callErr)
	}
	return nil
}

func (p *Win32) Wait(timeout time.Duration) (Event, error) {
	p.mu.Lock()
	err := p.ensureQueue()
	pending := p.pendingInterrupt
	p.pendingInterrupt = false
	p.mu.Unlock()
	if err != nil {
		return Event{}, err
	}
	if pending {
		return Event{Kind: KindInterrupted}, nil
	}

	if timeout > 0 {
		return p.waitBounded(timeout)
	}

	for {
		var msg winMsg
		// Block on the thread queue, filtered from WM_NULL to WM_HOTKEY so
		// both real triggers and wake signals are delivered.
		ret, _, callErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, wmNull, wmHotkey)
		switch int32(ret) {
		case -1:
			return Event{}, fmt.Errorf("GetMessageW: %v", callErr)
		case 0:
			// WM_QUIT; treat it like a wake signal so the loop unwinds.
			return Event{Kind: KindInterrupted}, nil
		}

		switch msg.message {
		case wmHotkey:
			return Event{Kind: KindTriggered, ID: int32(msg.wParam)}, nil
		case wmNull:
			return Event{Kind: KindInterrupted}, nil
		}
	}
}

// waitBounded drains any queued message and otherwise waits on the queue
// with a deadline.
func (p *Win32) waitBounded(timeout time.Duration) (Event, error) {
	deadline := time.Now().Add(timeout)
	for {
		var msg winMsg
		ret, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, wmNull, wmHotkey, pmRemove)
		if ret != 0 {
			switch msg.message {
			case wmHotkey:
				return Event{Kind: KindTriggered, ID: int32(msg.wParam)}, nil
			case wmNull:
				return Event{Kind: KindInterrupted}, nil
			}
			// Unrelated message in the filter range; keep draining.
			continue
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Event{Kind: KindTimedOut}, nil
		}
		ms := remaining.Milliseconds()
		if ms < 1 {
			ms = 1
		}

		ret, _, callErr := procMsgWaitForMultipleObjects.Call(0, 0, 0, uintptr(ms), qsAllInput)
		switch uint32(ret) {
		case win32WaitTimedOut:
			return Event{Kind: KindTimedOut}, nil
		case win32WaitFailed:
			return Event{}, fmt.Errorf("MsgWaitForMultipleObjects: %v", callErr)
		}
	}
}

func (p *Win32) Interrupt() {
	p.mu.Lock()
	tid := p.threadID
	if tid == 0 {
		p.pendingInterrupt = true
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	ret, _, callErr := procPostThreadMessageW.Call(uintptr(tid), wmNull, 0, 0)
	if ret == 0 {
		log.Printf("hotkey platform: PostThreadMessageW failed: %v", callErr)
	}
}

func (p *Win32) Close() error {
	p.mu.Lock()
	leftover := p.registered
	p.registered = make(map[int32]struct{})
	p.threadID = 0
	p.pendingInterrupt = false
	p.mu.Unlock()

	// Must run on the owner thread, like every other queue operation.
	for id := range leftover {
		ret, _, callErr := procUnregisterHotKey.Call(0, uintptr(id))
		if ret == 0 {
			log.Printf("hotkey platform: UnregisterHotKey(%d) on close failed: %v", id, callErr)
		}
	}
	return nil
}

//go:build windows

package platform

// Select chooses the appropriate platform for the current environment.
// On Windows the native Win32 implementation is always used; it registers
// against the owner thread's message queue and needs no display server
// detection.
func Select() (Platform, error) {
	return NewWin32(), nil
}

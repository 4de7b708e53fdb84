//go:build windows

package ui

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const swShowNormal = 1

var (
	shell32           = windows.NewLazySystemDLL("shell32.dll")
	procShellExecuteW = shell32.NewProc("ShellExecuteW")
)

// shellExecute calls the ShellExecuteW API. Return values greater than 32
// indicate success; anything else is an error code.
func shellExecute(hwnd uintptr, verb, file string, showCmd int32) error {
	lpVerb, err := windows.UTF16PtrFromString(verb)
	if err != nil {
		return fmt.Errorf("failed to convert verb to UTF-16: %w", err)
	}
	lpFile, err := windows.UTF16PtrFromString(file)
	if err != nil {
		return fmt.Errorf("failed to convert file path to UTF-16: %w", err)
	}

	ret, _, _ := procShellExecuteW.Call(
		hwnd,
		uintptr(unsafe.Pointer(lpVerb)),
		uintptr(unsafe.Pointer(lpFile)),
		0,
		0,
		uintptr(showCmd),
	)
	if ret <= 32 {
		return fmt.Errorf("ShellExecuteW failed with return code %d", ret)
	}
	return nil
}

// windowsOpenFileInDefaultApp opens a file with its associated application.
func windowsOpenFileInDefaultApp(filePath string) error {
	return shellExecute(0, "open", filePath, swShowNormal)
}

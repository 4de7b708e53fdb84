//go:build windows

package ui

import "log"

func OpenFileInDefaultApp(filePath string) error {
	err := windowsOpenFileInDefaultApp(filePath)
	if err != nil {
		log.Printf("ShellExecuteW failed for '%s': %v", filePath, err)
	}
	return err
}

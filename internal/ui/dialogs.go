package ui

import (
	"errors"
	"fmt"

	"github.com/ncruces/zenity"
)

// ErrDialogCanceled is returned when the user dismisses a prompt.
var ErrDialogCanceled = errors.New("dialog canceled")

// PromptSecretName asks for the logical name of a secret.
func PromptSecretName(appName string) (string, error) {
	name, err := zenity.Entry("Enter logical name for the secret\n(e.g. api_token, no spaces/special chars)",
		zenity.Title(appName+" - Add/Update Secret"),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrDialogCanceled
		}
		return "", fmt.Errorf("failed to get secret name input: %w", err)
	}
	return name, nil
}

// PromptSecretValue asks for the value of the named secret using a masked
// input field.
func PromptSecretValue(appName, name string) (string, error) {
	_, value, err := zenity.Password(
		zenity.Title(appName + " - Enter Secret Value for '" + name + "'"),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrDialogCanceled
		}
		return "", fmt.Errorf("failed to get secret value input: %w", err)
	}
	return value, nil
}

// SelectFromList shows a pick dialog and returns the chosen entry.
func SelectFromList(appName, prompt string, items []string) (string, error) {
	selected, err := zenity.List(prompt, items,
		zenity.Title(appName),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrDialogCanceled
		}
		return "", fmt.Errorf("failed to get list selection: %w", err)
	}
	if selected == "" {
		return "", ErrDialogCanceled
	}
	return selected, nil
}

// ConfirmRemoval asks the user to confirm deleting the named secret.
func ConfirmRemoval(appName, name string) (bool, error) {
	err := zenity.Question(
		fmt.Sprintf("Are you sure you want to remove the secret '%s'?\n\nThis will remove it from the OS keychain and the daemon's config. This cannot be undone.", name),
		zenity.Title(appName+" - Confirm Removal"),
		zenity.WarningIcon,
		zenity.OKLabel("Remove"),
		zenity.CancelLabel("Cancel"),
	)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, zenity.ErrCanceled) {
		return false, nil
	}
	return false, fmt.Errorf("failed to show confirmation dialog: %w", err)
}

// ShowInfoDialog displays a modal information dialog.
func ShowInfoDialog(appName, message string) {
	_ = zenity.Info(message, zenity.Title(appName), zenity.InfoIcon)
}

// ShowFatalError displays a modal error dialog for failures the daemon
// cannot recover from, such as an unparseable config at startup.
func ShowFatalError(appName, message string) {
	_ = zenity.Error(message, zenity.Title(appName), zenity.ErrorIcon)
}

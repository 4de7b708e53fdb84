package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fsnotify/fsnotify"

	hotkeys "github.com/TanaroSch/global-hotkeys"
	"github.com/TanaroSch/global-hotkeys/internal/config"
	"github.com/TanaroSch/global-hotkeys/internal/resources"
	"github.com/TanaroSch/global-hotkeys/internal/ui"
	"github.com/TanaroSch/global-hotkeys/keys"
)

// hotkeyManager is the slice of the thread-safe hotkey facade the
// application drives.
type hotkeyManager interface {
	Register(vk keys.VKey, modifiers []keys.ModKey, callback func()) (hotkeys.ID, error)
	UnregisterAll() error
	SetNoRepeat(noRepeat bool) error
	PollTimeout(timeout time.Duration) (hotkeys.PollOutcome, error)
	Close() error
}

// Application glues the hotkey manager, the tray and the config together.
// Hotkey callbacks run on the manager's backend goroutine; everything that
// touches shared application state takes the mutex.
type Application struct {
	mu       sync.Mutex
	config   *config.Config
	version  string
	manager  hotkeyManager
	systray  *ui.SystrayManager
	watcher  *fsnotify.Watcher
	iconData []byte
	lastRaw  string // raw config snapshot for reload diff summaries
	paused   bool
	closing  bool
}

// New creates the application around an already loaded config.
func New(cfg *config.Config, version string) (*Application, error) {
	manager, err := hotkeys.NewThreadSafe()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hotkey manager: %w", err)
	}
	return newWithManager(cfg, version, manager)
}

func newWithManager(cfg *config.Config, version string, manager hotkeyManager) (*Application, error) {
	if err := manager.SetNoRepeat(cfg.NoRepeat); err != nil {
		manager.Close()
		return nil, err
	}

	a := &Application{
		config:  cfg,
		version: version,
		manager: manager,
	}

	icon, err := resources.GetIcon()
	if err != nil {
		log.Printf("Warning: Failed to load embedded icon: %v", err)
	}
	a.iconData = icon

	if raw, err := os.ReadFile(cfg.GetConfigPath()); err == nil {
		a.lastRaw = string(raw)
	}

	a.systray = ui.NewSystrayManager(
		cfg,
		version,
		a.iconData,
		a.onReloadConfig,
		a.onTogglePause,
		a.onQuit,
		a.onOpenConfigFile,
		a.onAddSecret,
		a.onListSecrets,
		a.onRemoveSecret,
	)

	return a, nil
}

// Run registers the configured bindings, starts the event pump and config
// watcher, and enters the tray loop. Blocks until quit.
func (a *Application) Run() {
	if err := a.registerBindings(); err != nil {
		log.Printf("Warning: Failed to register some hotkeys: %v", err)
		ui.ShowAdminNotification(ui.LevelWarn, "Hotkey Registration Issue",
			fmt.Sprintf("Some hotkeys could not be registered: %v", err))
	}

	go a.pump()

	if err := a.watchConfig(); err != nil {
		log.Printf("Warning: Config watcher disabled: %v", err)
	}

	a.systray.Run()
}

// pump drives the manager in bounded poll cycles. The bound keeps the
// backend responsive to queued commands from the tray between waits;
// dispatch itself happens inside PollTimeout via the registered callbacks.
func (a *Application) pump() {
	for {
		_, err := a.manager.PollTimeout(250 * time.Millisecond)
		if err != nil {
			if !errors.Is(err, hotkeys.ErrBackendClosed) {
				log.Printf("Hotkey event pump stopped: %v", err)
			}
			return
		}
		a.mu.Lock()
		closing := a.closing
		a.mu.Unlock()
		if closing {
			return
		}
	}
}

// registerBindings registers every enabled binding. Failures are joined
// and returned so the caller can surface them without aborting the rest.
func (a *Application) registerBindings() error {
	a.mu.Lock()
	bindings := a.config.Bindings
	secrets := a.config.GetResolvedSecrets()
	a.mu.Unlock()

	var errs []error
	for _, binding := range bindings {
		if !binding.Enabled {
			continue
		}
		mods, vk, err := keys.ParseCombo(binding.Hotkey)
		if err != nil {
			errs = append(errs, fmt.Errorf("binding '%s': %w", binding.Name, err))
			continue
		}
		b := binding
		if _, err := a.manager.Register(vk, mods, func() { a.perform(b, secrets) }); err != nil {
			errs = append(errs, fmt.Errorf("binding '%s' (%s): %w", binding.Name, binding.Hotkey, err))
			continue
		}
		log.Printf("Registered binding '%s' on %s.", binding.Name, binding.Hotkey)
	}
	return errors.Join(errs...)
}

// perform executes a binding's action. Runs on the manager's backend
// goroutine, so it must not block for long.
func (a *Application) perform(b config.Binding, secrets map[string]string) {
	log.Printf("Hotkey '%s' triggered (%s).", b.Name, b.Hotkey)

	switch b.Action.Type {
	case "notify":
		message := b.Action.Message
		if message == "" {
			message = b.Name
		}
		ui.ShowNotification(b.Name, message)

	case "clipboard":
		if err := clipboard.WriteAll(b.Action.Text); err != nil {
			log.Printf("Error writing clipboard for binding '%s': %v", b.Name, err)
			return
		}
		ui.ShowNotification("Clipboard Updated", fmt.Sprintf("Text for '%s' copied to clipboard.", b.Name))

	case "clipboard_secret":
		value, ok := secrets[b.Action.Secret]
		if !ok {
			log.Printf("Binding '%s' references unknown secret '%s'.", b.Name, b.Action.Secret)
			ui.ShowAdminNotification(ui.LevelWarn, "Missing Secret",
				fmt.Sprintf("Binding '%s' references secret '%s', which is not available.", b.Name, b.Action.Secret))
			return
		}
		if err := clipboard.WriteAll(value); err != nil {
			log.Printf("Error writing secret clipboard for binding '%s': %v", b.Name, err)
			return
		}
		// Never echo the value itself.
		ui.ShowNotification("Clipboard Updated", fmt.Sprintf("Secret '%s' copied to clipboard.", b.Action.Secret))

	case "run":
		cmd := exec.Command(b.Action.Command, b.Action.Args...)
		if err := cmd.Start(); err != nil {
			log.Printf("Error starting command for binding '%s': %v", b.Name, err)
			ui.ShowAdminNotification(ui.LevelWarn, "Command Failed",
				fmt.Sprintf("Could not start '%s' for binding '%s': %v", b.Action.Command, b.Name, err))
			return
		}
		// Reap in the background so the callback returns immediately.
		go func() { _ = cmd.Wait() }()

	default:
		log.Printf("Binding '%s' has unknown action type '%s'.", b.Name, b.Action.Type)
	}
}

// onTogglePause unregisters everything or re-registers the config's
// bindings. Returns the new paused state for the menu title.
func (a *Application) onTogglePause() bool {
	a.mu.Lock()
	paused := a.paused
	a.mu.Unlock()

	if paused {
		if err := a.registerBindings(); err != nil {
			log.Printf("Warning: Failed to register some hotkeys on resume: %v", err)
			ui.ShowAdminNotification(ui.LevelWarn, "Hotkey Registration Issue",
				fmt.Sprintf("Some hotkeys could not be registered: %v", err))
		}
		a.mu.Lock()
		a.paused = false
		a.mu.Unlock()
		ui.ShowAdminNotification(ui.LevelInfo, "Hotkeys Resumed", "All enabled bindings are active again.")
		return false
	}

	if err := a.manager.UnregisterAll(); err != nil {
		log.Printf("Warning: Errors while pausing hotkeys: %v", err)
	}
	a.mu.Lock()
	a.paused = true
	a.mu.Unlock()
	ui.ShowAdminNotification(ui.LevelInfo, "Hotkeys Paused", "All bindings are unregistered until resumed.")
	return true
}

// onReloadConfig reloads the config file, re-registers bindings, and
// reports a short line diff of what changed.
func (a *Application) onReloadConfig() {
	log.Println("Reloading configuration and secrets...")

	a.mu.Lock()
	configPath := a.config.GetConfigPath()
	lastRaw := a.lastRaw
	a.mu.Unlock()
	if configPath == "" {
		configPath = "config.json"
	}

	newRaw := ""
	if raw, err := os.ReadFile(configPath); err == nil {
		newRaw = string(raw)
	}
	summary := config.ChangeSummary(lastRaw, newRaw)

	newConfig, err := config.Load(configPath)
	if err != nil {
		log.Printf("Error reloading configuration from '%s': %v", configPath, err)
		ui.ShowAdminNotification(ui.LevelError, "Configuration Error",
			fmt.Sprintf("Failed to reload configuration. Check %s and keychain access. Error: %v", configPath, err))
		return
	}

	a.mu.Lock()
	a.config = newConfig
	a.lastRaw = newRaw
	paused := a.paused
	a.mu.Unlock()

	if err := a.manager.SetNoRepeat(newConfig.NoRepeat); err != nil {
		log.Printf("Warning: Failed to apply no_repeat setting: %v", err)
	}

	if !paused {
		if err := a.manager.UnregisterAll(); err != nil {
			log.Printf("Warning: Errors while clearing old bindings: %v", err)
		}
		if err := a.registerBindings(); err != nil {
			log.Printf("Warning: Failed to register some hotkeys after reload: %v", err)
			ui.ShowAdminNotification(ui.LevelWarn, "Hotkey Registration Issue",
				fmt.Sprintf("Some hotkeys could not be registered after reload: %v", err))
		}
	}

	a.systray.UpdateConfig(newConfig)
	ui.ShowAdminNotification(ui.LevelInfo, "Configuration Reloaded",
		fmt.Sprintf("Configuration reloaded (%s). Hotkeys have been refreshed.", summary))
}

// watchConfig reloads automatically when the config file changes on disk.
// Events are debounced because editors typically emit several writes per
// save.
func (a *Application) watchConfig() error {
	a.mu.Lock()
	configPath := a.config.GetConfigPath()
	a.mu.Unlock()

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path '%s': %w", configPath, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	// Watch the directory; editors replace files on save, which would
	// drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}
	a.watcher = watcher
	log.Printf("Watching '%s' for changes.", absPath)

	go func() {
		var debounce *time.Timer
		base := filepath.Base(absPath)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(300*time.Millisecond, a.onReloadConfig)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Config watcher error: %v", err)
			}
		}
	}()
	return nil
}

// onQuit tears down the watcher and the hotkey backend.
func (a *Application) onQuit() {
	log.Println("Quit requested. Unregistering hotkeys.")
	a.mu.Lock()
	a.closing = true
	watcher := a.watcher
	a.mu.Unlock()

	if watcher != nil {
		if err := watcher.Close(); err != nil {
			log.Printf("Error closing config watcher: %v", err)
		}
	}
	if err := a.manager.Close(); err != nil {
		log.Printf("Error closing hotkey manager: %v", err)
	}
}

// onOpenConfigFile opens the config in the default editor.
func (a *Application) onOpenConfigFile() {
	a.mu.Lock()
	configPath := a.config.GetConfigPath()
	a.mu.Unlock()
	if configPath == "" {
		configPath = "config.json"
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		log.Printf("Warning: Failed to get absolute path for '%s': %v. Proceeding with original path.", configPath, err)
		absPath = configPath
	}

	if _, err := os.Stat(absPath); err != nil {
		log.Printf("Error checking config file '%s': %v", absPath, err)
		ui.ShowAdminNotification(ui.LevelWarn, "Error Opening File", fmt.Sprintf("Config file not accessible: %s", absPath))
		return
	}

	if err := ui.OpenFileInDefaultApp(absPath); err != nil {
		log.Printf("Error opening config file '%s': %v", absPath, err)
		ui.ShowAdminNotification(ui.LevelWarn, "Error Opening File",
			fmt.Sprintf("Could not open config file '%s': %v", absPath, err))
	}
}

// --- Secret Management Handlers ---

// onAddSecret walks the user through storing a secret in the OS keyring.
func (a *Application) onAddSecret() {
	log.Println("Add/Update Secret menu item clicked.")
	appName := config.DefaultKeyringService

	name, err := ui.PromptSecretName(appName)
	if err != nil {
		if errors.Is(err, ui.ErrDialogCanceled) {
			log.Println("Add/Update Secret canceled by user (name entry).")
		} else {
			log.Printf("Error getting logical name: %v", err)
			ui.ShowAdminNotification(ui.LevelWarn, "Input Error", "Failed to get logical name input.")
		}
		return
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " {}[]()<>|=+*?^$\\./") {
		log.Printf("Invalid logical name entered: '%s'", name)
		ui.ShowAdminNotification(ui.LevelWarn, "Invalid Input",
			fmt.Sprintf("Invalid logical name (empty or contains spaces/special chars): '%s'. Aborted.", name))
		return
	}

	value, err := ui.PromptSecretValue(appName, name)
	if err != nil {
		if errors.Is(err, ui.ErrDialogCanceled) {
			log.Printf("Add/Update Secret canceled by user (value entry for '%s').", name)
		} else {
			log.Printf("Error getting secret value for '%s': %v", name, err)
			ui.ShowAdminNotification(ui.LevelWarn, "Input Error", "Failed to get secret value input.")
		}
		return
	}
	if value == "" {
		ui.ShowAdminNotification(ui.LevelWarn, "Add Secret Aborted", "Secret value cannot be empty.")
		return
	}

	a.mu.Lock()
	cfg := a.config
	a.mu.Unlock()
	if err := cfg.AddSecretReference(name, value); err != nil {
		log.Printf("Error adding/updating secret '%s': %v", name, err)
		ui.ShowAdminNotification(ui.LevelError, "Error",
			fmt.Sprintf("Failed to store secret '%s'. See logs. Error: %v", name, err))
		return
	}
	log.Printf("Secret '%s' updated in keychain and config.", name)
	ui.ShowAdminNotification(ui.LevelInfo, "Secret Stored",
		fmt.Sprintf("Secret '%s' stored. Reload configuration to make it available to bindings.", name))
}

// onListSecrets shows the logical names of managed secrets, never values.
func (a *Application) onListSecrets() {
	log.Println("List Secrets menu item clicked.")
	a.mu.Lock()
	names := a.config.GetSecretNames()
	a.mu.Unlock()

	if len(names) == 0 {
		message := "No secrets are currently managed in config.json."
		ui.ShowAdminNotification(ui.LevelInfo, "Managed Secrets", message)
		ui.ShowInfoDialog(config.DefaultKeyringService+" - Managed Secrets", message)
		return
	}

	detail := fmt.Sprintf("Managed secrets (%d total):\n- %s", len(names), strings.Join(names, "\n- "))
	log.Printf("Listing managed secrets:\n%s", detail)
	ui.ShowAdminNotification(ui.LevelInfo, "Managed Secrets", fmt.Sprintf("Found %d managed secret(s).", len(names)))
	ui.ShowInfoDialog(config.DefaultKeyringService+" - Managed Secrets", detail)
}

// onRemoveSecret deletes a secret from the keyring after confirmation.
func (a *Application) onRemoveSecret() {
	log.Println("Remove Secret menu item clicked.")
	appName := config.DefaultKeyringService

	a.mu.Lock()
	cfg := a.config
	names := cfg.GetSecretNames()
	a.mu.Unlock()

	if len(names) == 0 {
		msg := "No secrets are currently managed."
		ui.ShowAdminNotification(ui.LevelInfo, "Remove Secret", msg)
		ui.ShowInfoDialog(appName+" - Remove Secret", msg)
		return
	}

	nameToRemove, err := ui.SelectFromList(appName+" - Remove Secret", "Select secret to remove:", names)
	if err != nil {
		if errors.Is(err, ui.ErrDialogCanceled) {
			log.Println("Remove secret canceled by user.")
		} else {
			log.Printf("Error getting secret selection: %v", err)
			ui.ShowAdminNotification(ui.LevelWarn, "Input Error", "Failed to get secret selection.")
		}
		return
	}

	confirmed, err := ui.ConfirmRemoval(appName, nameToRemove)
	if err != nil {
		log.Printf("Error displaying confirmation dialog: %v", err)
		ui.ShowAdminNotification(ui.LevelWarn, "Dialog Error", "Failed to show confirmation dialog.")
		return
	}
	if !confirmed {
		log.Printf("Removal of secret '%s' canceled by user.", nameToRemove)
		return
	}

	if err := cfg.RemoveSecretReference(nameToRemove); err != nil {
		log.Printf("Error removing secret '%s': %v", nameToRemove, err)
		ui.ShowAdminNotification(ui.LevelError, "Error",
			fmt.Sprintf("Failed to remove secret '%s'. See logs. Error: %v", nameToRemove, err))
		return
	}
	log.Printf("Secret '%s' removed from config and keyring.", nameToRemove)
	ui.ShowAdminNotification(ui.LevelInfo, "Secret Removed",
		fmt.Sprintf("Secret '%s' removed. Reload configuration to apply.", nameToRemove))
}

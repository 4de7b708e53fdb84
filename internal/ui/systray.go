package ui

import (
	"fmt"
	"log"
	"time"

	"github.com/getlantern/systray"

	"github.com/TanaroSch/global-hotkeys/internal/config"
)

// SystrayManager handles the system tray icon and menu
type SystrayManager struct {
	config           *config.Config
	version          string
	embeddedIcon     []byte
	onReloadConfig   func()
	onTogglePause    func() bool // returns the new paused state
	onQuit           func()
	onOpenConfig     func()
	onAddSecret      func()
	onListSecrets    func()
	onRemoveSecret   func()
	miPause          *systray.MenuItem
	bindingMenuItems map[int]*systray.MenuItem
}

// NewSystrayManager creates a new system tray manager
func NewSystrayManager(
	cfg *config.Config,
	version string,
	embeddedIcon []byte,
	onReloadConfig func(),
	onTogglePause func() bool,
	onQuit func(),
	onOpenConfig func(),
	onAddSecret func(),
	onListSecrets func(),
	onRemoveSecret func(),
) *SystrayManager {
	return &SystrayManager{
		config:           cfg,
		version:          version,
		embeddedIcon:     embeddedIcon,
		onReloadConfig:   onReloadConfig,
		onTogglePause:    onTogglePause,
		onQuit:           onQuit,
		onOpenConfig:     onOpenConfig,
		onAddSecret:      onAddSecret,
		onListSecrets:    onListSecrets,
		onRemoveSecret:   onRemoveSecret,
		bindingMenuItems: make(map[int]*systray.MenuItem),
	}
}

// Run initializes and starts the system tray (blocking).
func (s *SystrayManager) Run() {
	systray.Run(s.onReady, s.onExit)
}

// UpdateConfig swaps the configuration reference and refreshes the binding
// checkmarks.
func (s *SystrayManager) UpdateConfig(newCfg *config.Config) {
	log.Println("SystrayManager: Updating config reference.")
	s.config = newCfg

	if len(s.bindingMenuItems) == 0 || s.config == nil {
		return
	}
	for i, menuItem := range s.bindingMenuItems {
		if menuItem == nil {
			continue
		}
		if i < len(s.config.Bindings) {
			menuItem.SetTitle(bindingTitle(&s.config.Bindings[i]))
		} else {
			log.Printf("SystrayManager: Binding index %d is out of bounds after reload. Disabling its menu item.", i)
			menuItem.Disable()
		}
	}
}

func bindingTitle(b *config.Binding) string {
	if b.Enabled {
		return "✓ " + b.Name
	}
	return "  " + b.Name
}

// onReady is called by systray once the tray is ready.
func (s *SystrayManager) onReady() {
	title := fmt.Sprintf("Global Hotkeys %s", s.version)
	systray.SetTitle(title)
	systray.SetTooltip(title)
	if len(s.embeddedIcon) > 0 {
		systray.SetIcon(s.embeddedIcon)
	} else {
		log.Println("Warning: No embedded icon data to set for systray.")
	}

	miVersion := systray.AddMenuItem(fmt.Sprintf("Version: %s", s.version), "hotkeyd version")
	miVersion.Disable()
	systray.AddSeparator()

	s.addBindingMenuItems()
	systray.AddSeparator()

	s.miPause = systray.AddMenuItem("Pause Hotkeys", "Temporarily unregister all hotkeys")

	miManageSecrets := systray.AddMenuItem("Manage Secrets", "Add/Remove sensitive values")
	miAddSecret := miManageSecrets.AddSubMenuItem("Add/Update Secret...", "Store a new sensitive value")
	miListSecrets := miManageSecrets.AddSubMenuItem("List Secret Names", "Show names of stored secrets")
	miRemoveSecret := miManageSecrets.AddSubMenuItem("Remove Secret...", "Delete a stored secret")

	systray.AddSeparator()

	miReloadConfig := systray.AddMenuItem("Reload Configuration", "Reload config and re-register hotkeys")
	miOpenConfig := systray.AddMenuItem("Open Config File", "Open config.json in default editor")

	systray.AddSeparator()
	miQuit := systray.AddMenuItem("Quit", "Exit the daemon")

	go func() {
		for range s.miPause.ClickedCh {
			if s.onTogglePause == nil {
				continue
			}
			if paused := s.onTogglePause(); paused {
				s.miPause.SetTitle("Resume Hotkeys")
			} else {
				s.miPause.SetTitle("Pause Hotkeys")
			}
		}
	}()
	go func() {
		for range miReloadConfig.ClickedCh {
			log.Println("Reload Configuration menu item clicked.")
			if s.onReloadConfig != nil {
				s.onReloadConfig()
			}
		}
	}()
	go func() {
		for range miOpenConfig.ClickedCh {
			log.Println("Open Config File menu item clicked.")
			if s.onOpenConfig != nil {
				s.onOpenConfig()
			}
		}
	}()
	if s.onAddSecret != nil {
		go func() {
			for range miAddSecret.ClickedCh {
				s.onAddSecret()
			}
		}()
	}
	if s.onListSecrets != nil {
		go func() {
			for range miListSecrets.ClickedCh {
				s.onListSecrets()
			}
		}()
	}
	if s.onRemoveSecret != nil {
		go func() {
			for range miRemoveSecret.ClickedCh {
				s.onRemoveSecret()
			}
		}()
	}
	go func() {
		<-miQuit.ClickedCh
		log.Println("Quit menu item clicked.")
		if s.onQuit != nil {
			s.onQuit()
		}
		systray.Quit()
	}()

	log.Println("Systray ready and menu configured.")
}

// onExit is called when the systray is exiting
func (s *SystrayManager) onExit() {
	log.Println("Systray exiting.")
}

// addBindingMenuItems creates a submenu item per configured binding that
// toggles it on and off.
func (s *SystrayManager) addBindingMenuItems() {
	s.bindingMenuItems = make(map[int]*systray.MenuItem)
	miBindings := systray.AddMenuItem("Bindings", "Enable or disable individual hotkeys")
	if s.config == nil || len(s.config.Bindings) == 0 {
		noBindingsItem := miBindings.AddSubMenuItem("(No bindings defined)", "Add bindings in config.json")
		noBindingsItem.Disable()
		return
	}

	for i := range s.config.Bindings {
		bindingIndex := i
		binding := s.config.Bindings[bindingIndex]
		tooltip := fmt.Sprintf("Toggle binding: %s (Hotkey: %s)", binding.Name, binding.Hotkey)
		menuItem := miBindings.AddSubMenuItem(bindingTitle(&binding), tooltip)
		s.bindingMenuItems[bindingIndex] = menuItem

		go func(item *systray.MenuItem, idx int) {
			for range item.ClickedCh {
				if s.config == nil || idx >= len(s.config.Bindings) {
					log.Printf("Error: Binding index %d out of bounds after config change. Cannot toggle.", idx)
					ShowAdminNotification(LevelWarn, "Menu Inconsistency", "Binding list changed unexpectedly. Please reload.")
					continue
				}
				b := &s.config.Bindings[idx]

				b.Enabled = !b.Enabled
				log.Printf("Toggled binding '%s' to enabled=%t", b.Name, b.Enabled)
				item.SetTitle(bindingTitle(b))

				if err := s.config.Save(); err != nil {
					log.Printf("Failed to save config after toggling binding '%s': %v", b.Name, err)
					ShowAdminNotification(LevelError, "Save Error", fmt.Sprintf("Failed to save config after toggling '%s'. Error: %v", b.Name, err))
					b.Enabled = !b.Enabled
					item.SetTitle(bindingTitle(b))
					continue
				}

				status := map[bool]string{true: "enabled", false: "disabled"}[b.Enabled]
				ShowAdminNotification(LevelInfo, "Binding Updated", fmt.Sprintf("Binding '%s' has been %s. Reloading...", b.Name, status))
				if s.onReloadConfig != nil {
					// Slight delay so the notification can show first.
					time.Sleep(150 * time.Millisecond)
					s.onReloadConfig()
				}
			}
		}(menuItem, bindingIndex)
	}
}

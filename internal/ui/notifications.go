package ui

import "log"

// Level classifies admin notifications for logging.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// NotificationManager handles showing notifications across platforms
type NotificationManager struct {
	useNotifications bool
	appName          string
	embeddedIcon     []byte
}

// NewNotificationManager creates a new notification manager
func NewNotificationManager(useNotifications bool, appName string, embeddedIcon []byte) *NotificationManager {
	return &NotificationManager{
		useNotifications: useNotifications,
		appName:          appName,
		embeddedIcon:     embeddedIcon,
	}
}

// ShowNotification displays a desktop notification if enabled
func (n *NotificationManager) ShowNotification(title, message string) {
	if !n.useNotifications {
		return
	}
	if err := n.platformNotify(title, message); err != nil {
		log.Printf("Error showing notification: %v", err)
	}
}

// Global manager for call sites that don't carry a reference around
var globalNotificationManager *NotificationManager

// InitGlobalNotifications initializes the global notification manager
func InitGlobalNotifications(useNotifications bool, appName string, embeddedIcon []byte) {
	globalNotificationManager = NewNotificationManager(useNotifications, appName, embeddedIcon)
}

// ShowNotification is a convenience function for showing notifications
// without directly referencing the notification manager
func ShowNotification(title, message string) {
	if globalNotificationManager != nil {
		globalNotificationManager.ShowNotification(title, message)
	} else {
		log.Printf("Notification not shown (manager not initialized): %s - %s", title, message)
	}
}

// ShowAdminNotification logs the message at the given level and shows it as
// a desktop notification. Used for operational messages (reloads, errors)
// as opposed to hotkey-triggered ones.
func ShowAdminNotification(level Level, title, message string) {
	log.Printf("[%s] %s: %s", level, title, message)
	ShowNotification(title, message)
}

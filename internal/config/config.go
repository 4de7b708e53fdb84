package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/99designs/keyring"
)

// Action describes what a binding does when its hotkey fires.
type Action struct {
	Type    string   `json:"type"`              // notify, clipboard, clipboard_secret, run
	Message string   `json:"message,omitempty"` // notify: notification body
	Text    string   `json:"text,omitempty"`    // clipboard: literal text to place
	Secret  string   `json:"secret,omitempty"`  // clipboard_secret: logical secret name
	Command string   `json:"command,omitempty"` // run: executable
	Args    []string `json:"args,omitempty"`    // run: arguments
}

// Binding maps one hotkey combination to an action.
type Binding struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Hotkey  string `json:"hotkey"` // e.g. "ctrl+alt+n"
	Action  Action `json:"action"`
}

// Config holds the daemon configuration
type Config struct {
	UseNotifications bool              `json:"use_notifications"`
	NoRepeat         bool              `json:"no_repeat"`
	Bindings         []Binding         `json:"bindings"`
	Secrets          map[string]string `json:"secrets,omitempty"` // Maps logical name -> "managed"

	// Non-JSON fields (runtime state)
	configPath      string
	keyringService  string
	resolvedSecrets map[string]string // {"logicalName": "actualValue"}
}

const DefaultKeyringService = "GlobalHotkeysDaemon"

// GetConfigPath returns the path to the configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// GetResolvedSecrets returns the map of loaded secrets.
func (c *Config) GetResolvedSecrets() map[string]string {
	if c.resolvedSecrets == nil {
		return make(map[string]string)
	}
	return c.resolvedSecrets
}

// Load reads and parses the configuration file, creating a default one if
// none exists, and resolves managed secrets through the OS keyring.
func Load(configPath string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config file '%s' not found. Attempting to create default.", configPath)
			if createErr := CreateDefaultConfig(configPath); createErr != nil {
				return nil, fmt.Errorf("config file not found and failed to create default '%s': %w", configPath, createErr)
			}
			data, err = os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file '%s' even after creating default: %w", configPath, err)
			}
		} else {
			return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
		}
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", configPath, err)
	}

	config.configPath = configPath
	config.keyringService = DefaultKeyringService

	config.resolvedSecrets = make(map[string]string)
	if len(config.Secrets) > 0 {
		log.Printf("Loading secrets from keyring for service '%s'...", config.keyringService)
		allowedBackends := []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
		}
		kr, err := keyring.Open(keyring.Config{
			ServiceName:              config.keyringService,
			AllowedBackends:          allowedBackends,
			LibSecretCollectionName:  "login",
			PassPrefix:               config.keyringService,
			WinCredPrefix:            config.keyringService,
			KeychainTrustApplication: true,
		})
		if err != nil {
			log.Printf("Warning: Failed to open keyring for service '%s': %v. Secrets will not be loaded.", config.keyringService, err)
		} else {
			for name := range config.Secrets {
				item, err := kr.Get(name)
				if err == nil {
					config.resolvedSecrets[name] = string(item.Data)
					log.Printf("Successfully loaded secret '%s'.", name)
				} else if err == keyring.ErrKeyNotFound {
					log.Printf("Warning: Secret '%s' not found in keychain for service '%s'. Bindings using it will fail.", name, config.keyringService)
				} else {
					log.Printf("Error retrieving secret '%s' from keychain: %v", name, err)
				}
			}
		}
	} else {
		log.Println("No secrets defined in config.json, skipping keyring load.")
	}

	return &config, nil
}

// Save writes the current configuration back to the config file
func (c *Config) Save() error {
	// Ensure Secrets map exists even if empty for consistent JSON output
	if c.Secrets == nil {
		c.Secrets = make(map[string]string)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0600)
}

// AddSecretReference stores the value in the keyring and records the logical
// name in the config. The resolved value becomes available on the next
// reload.
func (c *Config) AddSecretReference(name, value string) error {
	kr, err := keyring.Open(keyring.Config{
		ServiceName:              c.keyringService,
		LibSecretCollectionName:  "login",
		PassPrefix:               c.keyringService,
		WinCredPrefix:            c.keyringService,
		KeychainTrustApplication: true,
	})
	if err != nil {
		return fmt.Errorf("failed to open keyring for service '%s': %w", c.keyringService, err)
	}

	err = kr.Set(keyring.Item{
		Key:         name,
		Data:        []byte(value),
		Label:       fmt.Sprintf("Secret for %s used by %s", name, c.keyringService),
		Description: "Managed by " + c.keyringService,
	})
	if err != nil {
		return fmt.Errorf("failed to store secret '%s' in keyring: %w", name, err)
	}

	if c.Secrets == nil {
		c.Secrets = make(map[string]string)
	}
	c.Secrets[name] = "managed"

	return c.Save()
}

// RemoveSecretReference deletes the secret from the keyring and drops its
// reference from the config.
func (c *Config) RemoveSecretReference(name string) error {
	kr, err := keyring.Open(keyring.Config{
		ServiceName:              c.keyringService,
		LibSecretCollectionName:  "login",
		PassPrefix:               c.keyringService,
		WinCredPrefix:            c.keyringService,
		KeychainTrustApplication: true,
	})
	if err != nil {
		return fmt.Errorf("failed to open keyring for service '%s': %w", c.keyringService, err)
	}

	err = kr.Remove(name)
	if err != nil && err != keyring.ErrKeyNotFound {
		log.Printf("Warning: Failed to delete secret '%s' from keyring (it might not exist or access denied): %v", name, err)
	} else if err == nil {
		log.Printf("Successfully deleted secret '%s' from keyring.", name)
	} else {
		log.Printf("Secret '%s' was not found in keyring (already deleted or never existed). Removing from config.", name)
	}

	if c.Secrets != nil {
		delete(c.Secrets, name)
	}

	return c.Save()
}

// GetSecretNames returns a slice of logical names of managed secrets.
func (c *Config) GetSecretNames() []string {
	names := make([]string, 0, len(c.Secrets))
	for name := range c.Secrets {
		names = append(names, name)
	}
	return names
}

// CreateDefaultConfig creates a default configuration file if none exists
func CreateDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil // File exists, don't overwrite
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking config path '%s': %w", configPath, err)
	}

	log.Printf("Creating default configuration file at: %s", configPath)

	defaultConfig := &Config{
		UseNotifications: true,
		NoRepeat:         true,
		Secrets:          make(map[string]string),
		Bindings: []Binding{
			{
				Name:    "Hello",
				Enabled: true,
				Hotkey:  "ctrl+alt+h",
				Action: Action{
					Type:    "notify",
					Message: "Hello from hotkeyd!",
				},
			},
			{
				Name:    "Paste Email",
				Enabled: false,
				Hotkey:  "ctrl+alt+e",
				Action: Action{
					Type: "clipboard",
					Text: "someone@example.com",
				},
			},
			// Requires a secret named 'api_token' added via Manage Secrets
			{
				Name:    "Paste API Token",
				Enabled: false,
				Hotkey:  "ctrl+alt+t",
				Action: Action{
					Type:   "clipboard_secret",
					Secret: "api_token",
				},
			},
		},
	}

	data, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default config to JSON: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write default config file '%s': %w", configPath, err)
	}

	log.Printf("Default configuration file created successfully.")
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GetConfigPath() != path {
		t.Errorf("config path = %q, want %q", cfg.GetConfigPath(), path)
	}
	if len(cfg.Bindings) == 0 {
		t.Fatal("default config has no bindings")
	}
	if !cfg.NoRepeat {
		t.Error("default config should enable no_repeat")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions = %o, want 0600", perm)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Bindings[0].Hotkey = "win+shift+z"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Bindings[0].Hotkey != "win+shift+z" {
		t.Errorf("reloaded hotkey = %q, want %q", reloaded.Bindings[0].Hotkey, "win+shift+z")
	}
}

func TestChangeSummary(t *testing.T) {
	tests := []struct {
		name     string
		original string
		modified string
		want     string
	}{
		{"identical", "a\nb\n", "a\nb\n", "no changes"},
		{"one line added", "a\nb\n", "a\nb\nc\n", "1 line added"},
		{"one line removed", "a\nb\n", "a\n", "1 line removed"},
		{"line replaced", "a\nb\n", "a\nB\n", "1 line added, 1 line removed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChangeSummary(tt.original, tt.modified); got != tt.want {
				t.Errorf("ChangeSummary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChangeSummaryLargeEdit(t *testing.T) {
	original := strings.Repeat("keep\n", 10)
	modified := original + "new one\nnew two\n"
	if got := ChangeSummary(original, modified); got != "2 lines added" {
		t.Errorf("ChangeSummary = %q, want %q", got, "2 lines added")
	}
}

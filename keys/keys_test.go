package keys

import (
	"errors"
	"testing"
)

func TestVKeyFromName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want VKey
	}{
		{name: "lowercase letter", in: "a", want: VKey('A')},
		{name: "uppercase letter", in: "Z", want: VKey('Z')},
		{name: "digit", in: "7", want: VKey('7')},
		{name: "canonical name", in: "RETURN", want: VKeyReturn},
		{name: "vk prefix", in: "VK_RETURN", want: VKeyReturn},
		{name: "mixed case", in: "Escape", want: VKeyEscape},
		{name: "alias enter", in: "enter", want: VKeyReturn},
		{name: "alias esc", in: "esc", want: VKeyEscape},
		{name: "alias pageup", in: "pageup", want: VKeyPrior},
		{name: "alias backspace", in: "backspace", want: VKeyBack},
		{name: "function key", in: "f12", want: VKeyF12},
		{name: "high function key", in: "F24", want: VKeyF24},
		{name: "numpad", in: "numpad3", want: VKeyNumpad3},
		{name: "oem name", in: "OEM_3", want: VKeyOem3},
		{name: "media key", in: "media_play_pause", want: VKeyMediaPlayPause},
		{name: "hex literal", in: "0xC0", want: VKeyOem3},
		{name: "hex with vk prefix", in: "VK_0x29", want: VKeySelect},
		{name: "surrounding space", in: "  space  ", want: VKeySpace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VKeyFromName(tt.in)
			if err != nil {
				t.Fatalf("VKeyFromName(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("VKeyFromName(%q) = 0x%02X, want 0x%02X", tt.in, got.Code(), tt.want.Code())
			}
		})
	}
}

func TestVKeyFromNameErrors(t *testing.T) {
	for _, in := range []string{"", "bogus", "F25", "0x0", "0xZZ", "0xFF", "0x123", "ctrl+a"} {
		if _, err := VKeyFromName(in); !errors.Is(err, ErrUnknownKey) {
			t.Errorf("VKeyFromName(%q) = %v, want ErrUnknownKey", in, err)
		}
	}
}

func TestVKeyString(t *testing.T) {
	tests := []struct {
		vk   VKey
		want string
	}{
		{VKey('A'), "A"},
		{VKey('0'), "0"},
		{VKeyReturn, "RETURN"},
		{VKeyOem3, "OEM_3"},
		{VKey(0x07), "0x07"},
	}
	for _, tt := range tests {
		if got := tt.vk.String(); got != tt.want {
			t.Errorf("VKey(0x%02X).String() = %q, want %q", tt.vk.Code(), got, tt.want)
		}
	}
}

func TestModKeyFromName(t *testing.T) {
	tests := []struct {
		in   string
		want ModKey
	}{
		{"alt", ModAlt},
		{"ALT", ModAlt},
		{"ctrl", ModCtrl},
		{"control", ModCtrl},
		{"shift", ModShift},
		{"win", ModWin},
		{"windows", ModWin},
		{"super", ModWin},
	}
	for _, tt := range tests {
		got, err := ModKeyFromName(tt.in)
		if err != nil {
			t.Fatalf("ModKeyFromName(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ModKeyFromName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ModKeyFromName("meta"); !errors.Is(err, ErrUnknownModifier) {
		t.Errorf("ModKeyFromName(\"meta\") = %v, want ErrUnknownModifier", err)
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name string
		mods []ModKey
		want uint32
	}{
		{name: "none", mods: nil, want: 0},
		{name: "single", mods: []ModKey{ModAlt}, want: 0x0001},
		{name: "pair", mods: []ModKey{ModCtrl, ModAlt}, want: 0x0003},
		{name: "order irrelevant", mods: []ModKey{ModAlt, ModCtrl}, want: 0x0003},
		{name: "duplicates collapse", mods: []ModKey{ModShift, ModShift}, want: 0x0004},
		{name: "all", mods: []ModKey{ModAlt, ModCtrl, ModShift, ModWin}, want: 0x000F},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Combine(tt.mods); got != tt.want {
				t.Errorf("Combine(%v) = 0x%04X, want 0x%04X", tt.mods, got, tt.want)
			}
		})
	}
}

func TestParseCombo(t *testing.T) {
	tests := []struct {
		name     string
		combo    string
		wantMods uint32
		wantKey  VKey
	}{
		{name: "plain key", combo: "f5", wantMods: 0, wantKey: VKeyF5},
		{name: "single modifier", combo: "ctrl+a", wantMods: 0x0002, wantKey: VKey('A')},
		{name: "two modifiers", combo: "ctrl+alt+v", wantMods: 0x0003, wantKey: VKey('V')},
		{name: "super alias", combo: "super+space", wantMods: 0x0008, wantKey: VKeySpace},
		{name: "spaces tolerated", combo: " ctrl + shift + f12 ", wantMods: 0x0006, wantKey: VKeyF12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods, key, err := ParseCombo(tt.combo)
			if err != nil {
				t.Fatalf("ParseCombo(%q) returned error: %v", tt.combo, err)
			}
			if got := Combine(mods); got != tt.wantMods {
				t.Errorf("ParseCombo(%q) modifiers = 0x%04X, want 0x%04X", tt.combo, got, tt.wantMods)
			}
			if key != tt.wantKey {
				t.Errorf("ParseCombo(%q) key = 0x%02X, want 0x%02X", tt.combo, key.Code(), tt.wantKey.Code())
			}
		})
	}

	for _, combo := range []string{"", "ctrl+", "bogus+a", "ctrl+bogus"} {
		if _, _, err := ParseCombo(combo); err == nil {
			t.Errorf("ParseCombo(%q) succeeded, want error", combo)
		}
	}
}

func TestFormatCombo(t *testing.T) {
	got := FormatCombo([]ModKey{ModCtrl, ModAlt}, VKey('V'))
	if got != "CONTROL+ALT+V" {
		t.Errorf("FormatCombo = %q, want %q", got, "CONTROL+ALT+V")
	}

	// Round trip through ParseCombo keeps the same identity.
	mods, key, err := ParseCombo(got)
	if err != nil {
		t.Fatalf("ParseCombo(%q) returned error: %v", got, err)
	}
	if Combine(mods) != 0x0003 || key != VKey('V') {
		t.Errorf("round trip of %q = (0x%04X, 0x%02X)", got, Combine(mods), key.Code())
	}
}

package keys

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned when a key name cannot be resolved to a virtual
// key code.
var ErrUnknownKey = errors.New("unknown key name")

// ErrUnknownModifier is returned when a modifier name cannot be resolved.
var ErrUnknownModifier = errors.New("unknown modifier name")

// VKey is a Windows virtual key code. Letters and digits map to their ASCII
// codes; everything else uses the VK_* values from winuser.h. Arbitrary codes
// can be produced with VKeyFromName using a hex literal such as "0xC0".
//
// See: https://learn.microsoft.com/en-us/windows/win32/inputdev/virtual-key-codes
type VKey uint16

const (
	VKeyBack     VKey = 0x08
	VKeyTab      VKey = 0x09
	VKeyClear    VKey = 0x0C
	VKeyReturn   VKey = 0x0D
	VKeyShift    VKey = 0x10
	VKeyControl  VKey = 0x11
	VKeyMenu     VKey = 0x12
	VKeyPause    VKey = 0x13
	VKeyCapital  VKey = 0x14
	VKeyEscape   VKey = 0x1B
	VKeySpace    VKey = 0x20
	VKeyPrior    VKey = 0x21
	VKeyNext     VKey = 0x22
	VKeyEnd      VKey = 0x23
	VKeyHome     VKey = 0x24
	VKeyLeft     VKey = 0x25
	VKeyUp       VKey = 0x26
	VKeyRight    VKey = 0x27
	VKeyDown     VKey = 0x28
	VKeySelect   VKey = 0x29
	VKeyPrint    VKey = 0x2A
	VKeyExecute  VKey = 0x2B
	VKeySnapshot VKey = 0x2C
	VKeyInsert   VKey = 0x2D
	VKeyDelete   VKey = 0x2E
	VKeyHelp     VKey = 0x2F

	// Letters and digits match their ASCII codes.
	VKey0 VKey = '0'
	VKey1 VKey = '1'
	VKey2 VKey = '2'
	VKey3 VKey = '3'
	VKey4 VKey = '4'
	VKey5 VKey = '5'
	VKey6 VKey = '6'
	VKey7 VKey = '7'
	VKey8 VKey = '8'
	VKey9 VKey = '9'
	VKeyA VKey = 'A'
	VKeyB VKey = 'B'
	VKeyC VKey = 'C'
	VKeyD VKey = 'D'
	VKeyE VKey = 'E'
	VKeyF VKey = 'F'
	VKeyG VKey = 'G'
	VKeyH VKey = 'H'
	VKeyI VKey = 'I'
	VKeyJ VKey = 'J'
	VKeyK VKey = 'K'
	VKeyL VKey = 'L'
	VKeyM VKey = 'M'
	VKeyN VKey = 'N'
	VKeyO VKey = 'O'
	VKeyP VKey = 'P'
	VKeyQ VKey = 'Q'
	VKeyR VKey = 'R'
	VKeyS VKey = 'S'
	VKeyT VKey = 'T'
	VKeyU VKey = 'U'
	VKeyV VKey = 'V'
	VKeyW VKey = 'W'
	VKeyX VKey = 'X'
	VKeyY VKey = 'Y'
	VKeyZ VKey = 'Z'

	VKeyLWin  VKey = 0x5B
	VKeyRWin  VKey = 0x5C
	VKeyApps  VKey = 0x5D
	VKeySleep VKey = 0x5F

	VKeyNumpad0   VKey = 0x60
	VKeyNumpad1   VKey = 0x61
	VKeyNumpad2   VKey = 0x62
	VKeyNumpad3   VKey = 0x63
	VKeyNumpad4   VKey = 0x64
	VKeyNumpad5   VKey = 0x65
	VKeyNumpad6   VKey = 0x66
	VKeyNumpad7   VKey = 0x67
	VKeyNumpad8   VKey = 0x68
	VKeyNumpad9   VKey = 0x69
	VKeyMultiply  VKey = 0x6A
	VKeyAdd       VKey = 0x6B
	VKeySeparator VKey = 0x6C
	VKeySubtract  VKey = 0x6D
	VKeyDecimal   VKey = 0x6E
	VKeyDivide    VKey = 0x6F

	VKeyF1  VKey = 0x70
	VKeyF2  VKey = 0x71
	VKeyF3  VKey = 0x72
	VKeyF4  VKey = 0x73
	VKeyF5  VKey = 0x74
	VKeyF6  VKey = 0x75
	VKeyF7  VKey = 0x76
	VKeyF8  VKey = 0x77
	VKeyF9  VKey = 0x78
	VKeyF10 VKey = 0x79
	VKeyF11 VKey = 0x7A
	VKeyF12 VKey = 0x7B
	VKeyF13 VKey = 0x7C
	VKeyF14 VKey = 0x7D
	VKeyF15 VKey = 0x7E
	VKeyF16 VKey = 0x7F
	VKeyF17 VKey = 0x80
	VKeyF18 VKey = 0x81
	VKeyF19 VKey = 0x82
	VKeyF20 VKey = 0x83
	VKeyF21 VKey = 0x84
	VKeyF22 VKey = 0x85
	VKeyF23 VKey = 0x86
	VKeyF24 VKey = 0x87

	VKeyNumlock VKey = 0x90
	VKeyScroll  VKey = 0x91

	VKeyBrowserBack      VKey = 0xA6
	VKeyBrowserForward   VKey = 0xA7
	VKeyBrowserRefresh   VKey = 0xA8
	VKeyBrowserStop      VKey = 0xA9
	VKeyBrowserSearch    VKey = 0xAA
	VKeyBrowserFavorites VKey = 0xAB
	VKeyBrowserHome      VKey = 0xAC
	VKeyVolumeMute       VKey = 0xAD
	VKeyVolumeDown       VKey = 0xAE
	VKeyVolumeUp         VKey = 0xAF
	VKeyMediaNextTrack   VKey = 0xB0
	VKeyMediaPrevTrack   VKey = 0xB1
	VKeyMediaStop        VKey = 0xB2
	VKeyMediaPlayPause   VKey = 0xB3

	VKeyOem1      VKey = 0xBA
	VKeyOemPlus   VKey = 0xBB
	VKeyOemComma  VKey = 0xBC
	VKeyOemMinus  VKey = 0xBD
	VKeyOemPeriod VKey = 0xBE
	VKeyOem2      VKey = 0xBF
	VKeyOem3      VKey = 0xC0
	VKeyOem4      VKey = 0xDB
	VKeyOem5      VKey = 0xDC
	VKeyOem6      VKey = 0xDD
	VKeyOem7      VKey = 0xDE
	VKeyOem8      VKey = 0xDF
	VKeyOem102    VKey = 0xE2
)

// vkeyByName holds the canonical VK_* names (without the prefix).
// Aliases like ENTER or ESC are handled separately in VKeyFromName so the
// reverse mapping stays unambiguous.
var vkeyByName = map[string]VKey{
	"BACK":      VKeyBack,
	"TAB":       VKeyTab,
	"CLEAR":     VKeyClear,
	"RETURN":    VKeyReturn,
	"SHIFT":     VKeyShift,
	"CONTROL":   VKeyControl,
	"MENU":      VKeyMenu,
	"PAUSE":     VKeyPause,
	"CAPITAL":   VKeyCapital,
	"ESCAPE":    VKeyEscape,
	"SPACE":     VKeySpace,
	"PRIOR":     VKeyPrior,
	"NEXT":      VKeyNext,
	"END":       VKeyEnd,
	"HOME":      VKeyHome,
	"LEFT":      VKeyLeft,
	"UP":        VKeyUp,
	"RIGHT":     VKeyRight,
	"DOWN":      VKeyDown,
	"SELECT":    VKeySelect,
	"PRINT":     VKeyPrint,
	"EXECUTE":   VKeyExecute,
	"SNAPSHOT":  VKeySnapshot,
	"INSERT":    VKeyInsert,
	"DELETE":    VKeyDelete,
	"HELP":      VKeyHelp,
	"LWIN":      VKeyLWin,
	"RWIN":      VKeyRWin,
	"APPS":      VKeyApps,
	"SLEEP":     VKeySleep,
	"NUMPAD0":   VKeyNumpad0,
	"NUMPAD1":   VKeyNumpad1,
	"NUMPAD2":   VKeyNumpad2,
	"NUMPAD3":   VKeyNumpad3,
	"NUMPAD4":   VKeyNumpad4,
	"NUMPAD5":   VKeyNumpad5,
	"NUMPAD6":   VKeyNumpad6,
	"NUMPAD7":   VKeyNumpad7,
	"NUMPAD8":   VKeyNumpad8,
	"NUMPAD9":   VKeyNumpad9,
	"MULTIPLY":  VKeyMultiply,
	"ADD":       VKeyAdd,
	"SEPARATOR": VKeySeparator,
	"SUBTRACT":  VKeySubtract,
	"DECIMAL":   VKeyDecimal,
	"DIVIDE":    VKeyDivide,
	"F1":        VKeyF1,
	"F2":        VKeyF2,
	"F3":        VKeyF3,
	"F4":        VKeyF4,
	"F5":        VKeyF5,
	"F6":        VKeyF6,
	"F7":        VKeyF7,
	"F8":        VKeyF8,
	"F9":        VKeyF9,
	"F10":       VKeyF10,
	"F11":       VKeyF11,
	"F12":       VKeyF12,
	"F13":       VKeyF13,
	"F14":       VKeyF14,
	"F15":       VKeyF15,
	"F16":       VKeyF16,
	"F17":       VKeyF17,
	"F18":       VKeyF18,
	"F19":       VKeyF19,
	"F20":       VKeyF20,
	"F21":       VKeyF21,
	"F22":       VKeyF22,
	"F23":       VKeyF23,
	"F24":       VKeyF24,
	"NUMLOCK":   VKeyNumlock,
	"SCROLL":    VKeyScroll,

	"BROWSER_BACK":      VKeyBrowserBack,
	"BROWSER_FORWARD":   VKeyBrowserForward,
	"BROWSER_REFRESH":   VKeyBrowserRefresh,
	"BROWSER_STOP":      VKeyBrowserStop,
	"BROWSER_SEARCH":    VKeyBrowserSearch,
	"BROWSER_FAVORITES": VKeyBrowserFavorites,
	"BROWSER_HOME":      VKeyBrowserHome,
	"VOLUME_MUTE":       VKeyVolumeMute,
	"VOLUME_DOWN":       VKeyVolumeDown,
	"VOLUME_UP":         VKeyVolumeUp,
	"MEDIA_NEXT_TRACK":  VKeyMediaNextTrack,
	"MEDIA_PREV_TRACK":  VKeyMediaPrevTrack,
	"MEDIA_STOP":        VKeyMediaStop,
	"MEDIA_PLAY_PAUSE":  VKeyMediaPlayPause,

	"OEM_1":      VKeyOem1,
	"OEM_PLUS":   VKeyOemPlus,
	"OEM_COMMA":  VKeyOemComma,
	"OEM_MINUS":  VKeyOemMinus,
	"OEM_PERIOD": VKeyOemPeriod,
	"OEM_2":      VKeyOem2,
	"OEM_3":      VKeyOem3,
	"OEM_4":      VKeyOem4,
	"OEM_5":      VKeyOem5,
	"OEM_6":      VKeyOem6,
	"OEM_7":      VKeyOem7,
	"OEM_8":      VKeyOem8,
	"OEM_102":    VKeyOem102,
}

var vkeyNames = make(map[VKey]string, len(vkeyByName))

func init() {
	for name, vk := range vkeyByName {
		vkeyNames[vk] = name
	}
}

// VKeyFromName resolves a key name to a virtual key code. Accepted forms
// (case insensitive, with an optional "VK_" prefix):
//
//   - single letters and digits ("a", "7")
//   - the canonical VK_* names ("RETURN", "OEM_3")
//   - common aliases (ENTER, ESC, WIN, PAGEUP, PAGEDOWN, INS, DEL, PRINTSCREEN)
//   - a hex keycode literal ("0xC0", range 0x01-0xFE) for keys without a
//     named constant
func VKeyFromName(name string) (VKey, error) {
	val := strings.ToUpper(strings.TrimSpace(name))
	val = strings.TrimPrefix(val, "VK_")

	if len(val) == 1 {
		if vk, err := VKeyFromChar(rune(val[0])); err == nil {
			return vk, nil
		}
	}
	if vk, ok := vkeyByName[val]; ok {
		return vk, nil
	}
	switch val {
	case "ENTER":
		return VKeyReturn, nil
	case "ESC":
		return VKeyEscape, nil
	case "WIN", "WINDOWS":
		return VKeyLWin, nil
	case "ALT":
		return VKeyMenu, nil
	case "CTRL":
		return VKeyControl, nil
	case "PAGEUP":
		return VKeyPrior, nil
	case "PAGEDOWN":
		return VKeyNext, nil
	case "INS":
		return VKeyInsert, nil
	case "DEL":
		return VKeyDelete, nil
	case "PRINTSCREEN":
		return VKeySnapshot, nil
	case "CAPSLOCK":
		return VKeyCapital, nil
	case "BACKSPACE":
		return VKeyBack, nil
	}
	if strings.HasPrefix(val, "0X") {
		code, err := strconv.ParseUint(val[2:], 16, 16)
		if err != nil || code == 0 || code > 0xFE {
			return 0, fmt.Errorf("%w: invalid keycode literal %q", ErrUnknownKey, name)
		}
		return VKey(code), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// VKeyFromChar resolves an ASCII letter or digit to its virtual key code.
func VKeyFromChar(ch rune) (VKey, error) {
	switch {
	case ch >= 'a' && ch <= 'z':
		return VKey(ch - 'a' + 'A'), nil
	case ch >= 'A' && ch <= 'Z':
		return VKey(ch), nil
	case ch >= '0' && ch <= '9':
		return VKey(ch), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, string(ch))
}

// String returns the canonical name for the key, the bare character for
// letters and digits, or a hex literal for codes without a named constant.
func (vk VKey) String() string {
	if (vk >= 'A' && vk <= 'Z') || (vk >= '0' && vk <= '9') {
		return string(rune(vk))
	}
	if name, ok := vkeyNames[vk]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint16(vk))
}

// Code returns the raw virtual key code for passing to the platform layer.
func (vk VKey) Code() uint16 {
	return uint16(vk)
}

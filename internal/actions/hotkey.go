//go:build windows

package actions

import (
	"strings"
	"time"
)

// HotkeyKind distinguishes the two hotkey binding kinds.
type HotkeyKind string

const (
	HotkeyKeyboard HotkeyKind = "keyboard"
	HotkeyNone     HotkeyKind = "none"
)

// Virtual-key codes for named, non-printable keys (winuser.h).
var namedKeys = map[string]uint16{
	"ctrl": 0x11, "alt": 0x12, "shift": 0x10, "win": 0x5B,
	"up": 0x26, "down": 0x28, "left": 0x25, "right": 0x27,
	"enter": 0x0D, "esc": 0x1B, "tab": 0x09, "space": 0x20,
	"backspace": 0x08, "delete": 0x2E, "insert": 0x2D,
	"home": 0x24, "end": 0x23, "pageup": 0x21, "pagedown": 0x22,
}

func init() {
	for i := 1; i <= 24; i++ {
		namedKeys[fKeyName(i)] = uint16(0x70 + i - 1)
	}
}

func fKeyName(n int) string {
	const digits = "0123456789"
	if n < 10 {
		return "f" + string(digits[n])
	}
	return "f" + string(digits[n/10]) + string(digits[n%10])
}

// modifierOrder is the required press order for combination hotkeys (spec
// §4.3 / rc_actions.c's RC_ActionHotkey).
var modifierOrder = []string{"ctrl", "alt", "shift", "win"}

// Hotkey parses value and injects it. A value containing "+" is treated as
// a modifier combination pressed in ctrl -> alt -> shift -> win order
// followed by the remaining (non-modifier) key; otherwise every character
// is pressed serially with charDelayMs between presses. Unknown kinds are
// logged and dropped.
func (e *Executors) Hotkey(kind HotkeyKind, value string, charDelayMs int) {
	if kind != HotkeyKeyboard {
		if kind != HotkeyNone {
			e.Log.WithField("kind", kind).Warn("hotkey: unknown kind")
		}
		return
	}
	if value == "" {
		return
	}

	if strings.Contains(value, "+") {
		e.pressCombination(value)
		return
	}
	e.pressSerially(value, charDelayMs)
}

func (e *Executors) pressCombination(value string) {
	parts := strings.Split(value, "+")
	mods := map[string]bool{}
	var rest string
	for _, p := range parts {
		token := strings.ToLower(strings.TrimSpace(p))
		if _, isMod := namedKeys[token]; isMod && contains(modifierOrder, token) {
			mods[token] = true
			continue
		}
		rest = token
	}

	var vks []uint16
	for _, m := range modifierOrder {
		if mods[m] {
			vks = append(vks, namedKeys[m])
		}
	}
	if vk, ok := resolveKey(rest); ok {
		vks = append(vks, vk)
	}
	if len(vks) == 0 {
		e.Log.WithField("value", value).Warn("hotkey: no resolvable keys in combination")
		return
	}
	pressChord(vks)
}

func (e *Executors) pressSerially(value string, charDelayMs int) {
	for i := 0; i < len(value); i++ {
		pressChar(value[i])
		if charDelayMs > 0 && i < len(value)-1 {
			sleepMillis(charDelayMs)
		}
	}
}

func resolveKey(token string) (uint16, bool) {
	if token == "" {
		return 0, false
	}
	if vk, ok := namedKeys[token]; ok {
		return vk, true
	}
	if len(token) == 1 {
		vk, _ := vkKeyScan(token[0])
		return vk, true
	}
	return 0, false
}

func sleepMillis(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// pressChord presses every vk down in order, then releases in reverse
// order, so modifiers remain held while the final key is pressed.
func pressChord(vks []uint16) {
	inputs := make([]rawInput, 0, len(vks)*2)
	for _, vk := range vks {
		inputs = append(inputs, rawInput{inputType: inputKeyboard, ki: keybdInput{wVk: vk}})
	}
	for i := len(vks) - 1; i >= 0; i-- {
		inputs = append(inputs, rawInput{inputType: inputKeyboard, ki: keybdInput{wVk: vks[i], dwFlags: keyeventfKeyup}})
	}
	sendInputs(inputs)
}

//go:build windows

package actions

import "unsafe"

// Media virtual-key codes (winuser.h).
const (
	vkMediaNextTrack = 0xB0
	vkMediaPrevTrack = 0xB1
	vkMediaPlayPause = 0xB3
)

// MediaCommand injects a media virtual key per the configured threshold
// mapping: off -> next, bare on -> prev, pause -> play-pause, on#N ->
// N<=33 next, N<=66 play-pause, N>66 prev.
func (e *Executors) MediaCommand(hasValue bool, value int, isOff bool) {
	switch {
	case isOff:
		sendVirtualKey(vkMediaNextTrack)
	case hasValue:
		switch {
		case value <= 33:
			sendVirtualKey(vkMediaNextTrack)
		case value <= 66:
			sendVirtualKey(vkMediaPlayPause)
		default:
			sendVirtualKey(vkMediaPrevTrack)
		}
	default:
		sendVirtualKey(vkMediaPrevTrack)
	}
}

// MediaPause handles the bare "pause" payload base.
func (e *Executors) MediaPause() {
	sendVirtualKey(vkMediaPlayPause)
}

const (
	inputKeyboard  = 1
	keyeventfKeyup = 0x0002
)

// keybdInput mirrors KEYBDINPUT.
type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// rawInput mirrors tagINPUT: a DWORD type tag followed by the largest union
// member. KEYBDINPUT (24 bytes) is smaller than MOUSEINPUT on amd64, so pad
// out to MOUSEINPUT's size (32 bytes) to get the union's true stride.
type rawInput struct {
	inputType uint32
	_         uint32 // alignment padding matching the C struct layout
	ki        keybdInput
	_         [8]byte // pad union to MOUSEINPUT's width
}

var procSendInput = user32.NewProc("SendInput")

func sendVirtualKey(vk uint16) {
	inputs := []rawInput{
		{inputType: inputKeyboard, ki: keybdInput{wVk: vk}},
		{inputType: inputKeyboard, ki: keybdInput{wVk: vk, dwFlags: keyeventfKeyup}},
	}
	sendInputs(inputs)
}

func sendInputs(inputs []rawInput) {
	if len(inputs) == 0 {
		return
	}
	procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
}

const vkShift = 0x10

// pressChar sends a single printable ASCII character as a virtual key,
// using VkKeyScanW to resolve the key code and shift state for it, and
// wrapping the keystroke in a shift down/up pair when the character
// needs it (e.g. capital letters, shifted symbols).
func pressChar(ch byte) {
	vk, needsShift := vkKeyScan(ch)
	if needsShift {
		sendVirtualKeyDown(vkShift)
	}
	sendVirtualKey(vk)
	if needsShift {
		sendVirtualKeyUp(vkShift)
	}
}

var procVkKeyScanW = user32.NewProc("VkKeyScanW")

// vkKeyScan resolves ch to a virtual key code and whether Shift must be
// held to produce it. VkKeyScanW packs the shift state into the high
// byte of its return value (bit 0: Shift, bit 1: Ctrl, bit 2: Alt) and
// the virtual key code into the low byte.
func vkKeyScan(ch byte) (vk uint16, needsShift bool) {
	ret, _, _ := procVkKeyScanW.Call(uintptr(ch))
	shiftState := (ret >> 8) & 0xFF
	return uint16(ret & 0xFF), shiftState&0x01 != 0
}

func sendVirtualKeyDown(vk uint16) {
	sendInputs([]rawInput{{inputType: inputKeyboard, ki: keybdInput{wVk: vk}}})
}

func sendVirtualKeyUp(vk uint16) {
	sendInputs([]rawInput{{inputType: inputKeyboard, ki: keybdInput{wVk: vk, dwFlags: keyeventfKeyup}}})
}

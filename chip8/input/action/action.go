package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Hex keypad, one action per key in key order
	Keypad0 Action = iota
	Keypad1
	Keypad2
	Keypad3
	Keypad4
	Keypad5
	Keypad6
	Keypad7
	Keypad8
	Keypad9
	KeypadA
	KeypadB
	KeypadC
	KeypadD
	KeypadE
	KeypadF

	// Emulator features
	EmulatorPauseToggle
	EmulatorSnapshot
	EmulatorQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by how backends and the input manager treat them.
type Category int

const (
	// CategoryKeypad actions track key state, they are never debounced.
	CategoryKeypad Category = iota
	CategoryEmulator
	CategoryDebug
)

// Info describes an action for logs and help screens.
type Info struct {
	Description string
	Category    Category
}

var infos = map[Action]Info{
	EmulatorPauseToggle:   {"Pause/Resume", CategoryEmulator},
	EmulatorSnapshot:      {"Save snapshot", CategoryEmulator},
	EmulatorQuit:          {"Quit", CategoryEmulator},
	DebugLogLevelIncrease: {"More verbose logs", CategoryDebug},
	DebugLogLevelDecrease: {"Less verbose logs", CategoryDebug},
}

// GetInfo returns the description and category of act.
func GetInfo(act Action) Info {
	if key, ok := KeyIndex(act); ok {
		return Info{Description: fmt.Sprintf("Key %X", key), Category: CategoryKeypad}
	}
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Description: fmt.Sprintf("Unknown action %d", int(act)), Category: CategoryEmulator}
}

// Keypad returns the action for a keypad key (low nibble of key).
func Keypad(key uint8) Action {
	return Keypad0 + Action(key&0x0F)
}

// KeyIndex returns the keypad key of act, false if act is not a keypad action.
func KeyIndex(act Action) (uint8, bool) {
	if act < Keypad0 || act > KeypadF {
		return 0, false
	}
	return uint8(act - Keypad0), true
}

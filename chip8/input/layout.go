package input

import (
	"errors"
	"slices"
	"strings"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/translate"
)

var f = translate.From

var ErrUnknownLayout = errors.New(f("unknown keyboard layout"))

// Layout is a physical keyboard arrangement the hex keypad is mapped onto.
type Layout string

const (
	QWERTY Layout = "qwerty"
	AZERTY Layout = "azerty"
)

// keypadKeys lists, for each layout, the key name of keypad keys 0 to F.
// The 4x4 block starting at "1" mirrors the original keypad:
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
var keypadKeys = map[Layout][16]string{
	QWERTY: {"x", "1", "2", "3", "q", "w", "e", "a", "s", "d", "z", "c", "4", "r", "f", "v"},
	AZERTY: {"x", "1", "2", "3", "a", "z", "e", "q", "s", "d", "w", "c", "4", "r", "f", "v"},
}

// controlKeys maps key names to emulator controls, shared by every layout.
var controlKeys = map[string]action.Action{
	"p":      action.EmulatorPauseToggle,
	"Space":  action.EmulatorPauseToggle,
	"F9":     action.EmulatorSnapshot,
	"Escape": action.EmulatorQuit,
	"+":      action.DebugLogLevelIncrease,
	"=":      action.DebugLogLevelIncrease, // Alternative without shift
	"-":      action.DebugLogLevelDecrease,
	"_":      action.DebugLogLevelDecrease, // Alternative with shift
}

// Layouts returns the supported layouts.
func Layouts() []Layout {
	layouts := make([]Layout, 0, len(keypadKeys))
	for l := range keypadKeys {
		layouts = append(layouts, l)
	}
	slices.Sort(layouts)
	return layouts
}

// ParseLayout returns the layout with the given name, case insensitive.
func ParseLayout(name string) (Layout, error) {
	l := Layout(strings.ToLower(name))
	if _, ok := keypadKeys[l]; !ok {
		return "", &LayoutError{Name: name}
	}
	return l, nil
}

// LayoutError reports an unsupported layout name.
type LayoutError struct {
	Name string
}

func (err *LayoutError) Error() string {
	return f("%v: %q", ErrUnknownLayout, err.Name)
}

func (err *LayoutError) Unwrap() error {
	return ErrUnknownLayout
}

// KeyMap maps key names to actions for layout. Single character names
// are lowercase, other keys use names such as "Escape" or "F9".
// Backends translate their native key codes to these names.
type KeyMap map[string]action.Action

// NewKeyMap builds the key map for layout. Unknown layouts fall back to QWERTY.
func NewKeyMap(layout Layout) KeyMap {
	keys, ok := keypadKeys[layout]
	if !ok {
		keys = keypadKeys[QWERTY]
	}

	m := make(KeyMap, len(keys)+len(controlKeys))
	for name, act := range controlKeys {
		m[name] = act
	}
	for key, name := range keys {
		m[name] = action.Keypad(uint8(key))
	}
	return m
}

// Lookup returns the action bound to a key name. Single letters match
// regardless of case.
func (m KeyMap) Lookup(name string) (action.Action, bool) {
	if act, ok := m[name]; ok {
		return act, true
	}
	if len(name) == 1 {
		act, ok := m[strings.ToLower(name)]
		return act, ok
	}
	return 0, false
}

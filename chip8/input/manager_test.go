package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

func TestManager_KeypadActions(t *testing.T) {
	keypad := NewKeypad()
	m := NewManager(keypad)

	m.Trigger(action.Keypad3, event.Press)
	m.Trigger(action.KeypadF, event.Hold)

	state := keypad.State()
	assert.True(t, state[0x3])
	assert.True(t, state[0xF])
	assert.False(t, state[0x0])

	m.Trigger(action.Keypad3, event.Release)
	assert.False(t, keypad.IsPressed(0x3))
	assert.True(t, keypad.IsPressed(0xF))
}

func TestManager_KeypadActionsSkipCallbacks(t *testing.T) {
	m := NewManager(NewKeypad())

	called := false
	m.On(action.Keypad1, event.Press, func() { called = true })
	m.Trigger(action.Keypad1, event.Press)

	assert.False(t, called)
	assert.True(t, m.Keypad().IsPressed(1))
}

func TestManager_Callbacks(t *testing.T) {
	m := NewManager(NewKeypad())

	var calls []string
	m.On(action.EmulatorQuit, event.Press, func() { calls = append(calls, "first") })
	m.On(action.EmulatorQuit, event.Press, func() { calls = append(calls, "second") })
	m.On(action.EmulatorQuit, event.Release, func() { calls = append(calls, "release") })

	m.Trigger(action.EmulatorQuit, event.Press)
	assert.Equal(t, []string{"first", "second"}, calls)

	m.Trigger(action.EmulatorSnapshot, event.Press)
	assert.Len(t, calls, 2, "actions without callbacks are ignored")
}

func TestKeypad_masksKeyIndex(t *testing.T) {
	k := NewKeypad()
	k.Press(0x1C)

	assert.True(t, k.IsPressed(0xC))
}

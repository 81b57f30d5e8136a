package input

import (
	"time"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

// DebounceDelay is the minimum time between two accepted presses (or
// releases) of the same emulator control.
const DebounceDelay = 300 * time.Millisecond

// Handler manages input processing with debouncing for UI actions
type Handler struct {
	lastActionTime map[action.Action]map[event.Type]time.Time
	debounceDelay  time.Duration
	now            func() time.Time
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]map[event.Type]time.Time),
		debounceDelay:  DebounceDelay,
		now:            time.Now,
	}
}

// ProcessEvent processes an input event, applying debouncing for Press/Release
// events of emulator controls. Keypad events always go through.
// Returns true if the event should be handled, false if it was debounced
func (h *Handler) ProcessEvent(evt backend.InputEvent) bool {
	if action.GetInfo(evt.Action).Category == action.CategoryKeypad {
		return true
	}
	if evt.Type != event.Press && evt.Type != event.Release {
		return true
	}

	now := h.now()
	times := h.lastActionTime[evt.Action]
	if times == nil {
		times = make(map[event.Type]time.Time)
		h.lastActionTime[evt.Action] = times
	}
	if lastTime, exists := times[evt.Type]; exists && now.Sub(lastTime) < h.debounceDelay {
		return false
	}
	times[evt.Type] = now

	return true
}

// Dispatch runs every event that survives debouncing through m.
func (h *Handler) Dispatch(m *Manager, events []backend.InputEvent) {
	for _, evt := range events {
		if h.ProcessEvent(evt) {
			m.Trigger(evt.Action, evt.Type)
		}
	}
}

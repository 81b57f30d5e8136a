package backend

import (
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend represents a complete emulator platform (rendering + input + audio)
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, etc.)
// - Translating platform-specific key events to Actions
// - Playing the tone while the interpreter asks for it
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the frame and polls platform events.
	// Returns the input events observed since the previous call, keypad
	// events carry Press, Hold and Release so the keypad state can follow.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// SetTone starts or stops the tone. Called once per frame.
	SetTone(on bool)

	// Cleanup resources when shutting down
	Cleanup() error
}

// InputEvent is an action observed by a backend.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title  string
	Scale  int
	KeyMap map[string]action.Action // key names to actions, see input.NewKeyMap
	// SampleRate of the tone generator, backends without audio ignore it
	SampleRate int
}

// ActionHandler is implemented by backends that react to emulator controls
// themselves, such as saving a snapshot of what is on screen.
type ActionHandler interface {
	HandleAction(act action.Action)
}

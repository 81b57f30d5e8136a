// Package chip8 ties the interpreter to a keypad and a frame based clock,
// and runs it against a backend.
package chip8

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/translate"
	"github.com/valerio/go-chip8/chip8/video"
)

var f = translate.From

var (
	ErrInvalidSpeed = errors.New(f("speed must be at least one instruction per frame"))
	ErrEmptyProgram = errors.New(f("program is empty"))
)

// Emulator is the interface the driver loop runs
type Emulator interface {
	// RunUntilFrame executes one frame worth of instructions, then ticks
	// the timers once.
	RunUntilFrame() error
	GetCurrentFrame() *video.FrameBuffer
	HandleAction(act action.Action, pressed bool)
	// ShouldBeep reports whether the tone should play during this frame.
	ShouldBeep() bool
	Keypad() *input.Keypad
}

var _ Emulator = (*Machine)(nil)

// Config holds the interpreter settings.
type Config struct {
	// Speed is the instruction rate, in instructions per second.
	// Zero selects timing.DefaultSpeed.
	Speed int
	// Seed makes RND reproducible. Zero picks a random seed.
	Seed uint64
}

// StepsPerFrame returns the number of instructions run between two
// timer ticks.
func (c Config) StepsPerFrame() int {
	return timing.StepsPerFrame(c.speed())
}

// EffectiveSpeed returns the instruction rate actually run, the requested
// speed rounded down to a whole number of steps per frame.
func (c Config) EffectiveSpeed() int {
	return c.StepsPerFrame() * timing.FramesPerSecond
}

func (c Config) speed() int {
	if c.Speed == 0 {
		return timing.DefaultSpeed
	}
	return c.Speed
}

// Validate checks the config for values the machine can't run with.
func (c Config) Validate() error {
	if c.speed() < timing.FramesPerSecond {
		return fmt.Errorf("%w: %d", ErrInvalidSpeed, c.Speed)
	}
	return nil
}

// Machine drives the interpreter at a fixed number of steps per frame,
// feeding it the keypad state and ticking its timers once per frame.
type Machine struct {
	cpu    *cpu.CPU
	keypad *input.Keypad

	stepsPerFrame int
	paused        bool
	frames        uint64

	// fault is sticky, a faulted machine refuses to run
	fault error
}

// New creates a machine with no program loaded.
func New(cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if effective := cfg.EffectiveSpeed(); effective != cfg.speed() {
		slog.Warn("Speed rounded down to whole steps per frame",
			"requested", cfg.speed(), "effective", effective)
	}

	m := &Machine{
		cpu:           cpu.New(),
		keypad:        input.NewKeypad(),
		stepsPerFrame: cfg.StepsPerFrame(),
	}
	if cfg.Seed != 0 {
		m.cpu.Seed(cfg.Seed)
	}

	return m, nil
}

// NewWithProgram creates a machine and loads program at the program start
// address. Bytes past the end of memory are dropped with a warning.
func NewWithProgram(program []byte, cfg Config) (*Machine, error) {
	if len(program) == 0 {
		return nil, ErrEmptyProgram
	}

	m, err := New(cfg)
	if err != nil {
		return nil, err
	}

	loaded := m.cpu.LoadProgram(program)
	if loaded < len(program) {
		slog.Warn("Program truncated to fit memory",
			"size", len(program), "loaded", loaded, "max", memory.MaxProgramSize)
	}
	slog.Info("Loaded program", "bytes", loaded)

	return m, nil
}

// NewWithFile creates a new machine and loads the ROM file specified into it.
func NewWithFile(path string, cfg Config) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}

	m, err := NewWithProgram(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load ROM %s: %w", path, err)
	}
	return m, nil
}

func (m *Machine) RunUntilFrame() error {
	if m.fault != nil {
		return m.fault
	}
	if m.paused {
		return nil
	}

	keys := m.keypad.State()
	for i := 0; i < m.stepsPerFrame; i++ {
		if _, err := m.cpu.Step(keys); err != nil {
			m.fault = err
			debug.LogFault(m.cpu, err)
			return err
		}
	}

	m.cpu.TickTimers()
	m.frames++
	return nil
}

func (m *Machine) GetCurrentFrame() *video.FrameBuffer {
	return m.cpu.FrameBuffer()
}

// HandleAction applies keypad and pause actions, others are ignored.
func (m *Machine) HandleAction(act action.Action, pressed bool) {
	if key, ok := action.KeyIndex(act); ok {
		if pressed {
			m.keypad.Press(key)
		} else {
			m.keypad.Release(key)
		}
		return
	}

	if act == action.EmulatorPauseToggle && pressed {
		m.TogglePause()
	}
}

func (m *Machine) ShouldBeep() bool {
	// a paused machine keeps its timers frozen but shouldn't keep beeping
	return !m.paused && m.cpu.ShouldBeep()
}

func (m *Machine) Keypad() *input.Keypad {
	return m.keypad
}

// TogglePause stops or resumes execution and timers.
func (m *Machine) TogglePause() {
	m.paused = !m.paused
	if m.paused {
		slog.Info("Emulation paused", "frame", m.frames)
	} else {
		slog.Info("Emulation resumed", "frame", m.frames)
	}
}

func (m *Machine) Paused() bool {
	return m.paused
}

// Frames returns the number of frames executed.
func (m *Machine) Frames() uint64 {
	return m.frames
}

// CPU exposes the interpreter, for inspection.
func (m *Machine) CPU() *cpu.CPU {
	return m.cpu
}

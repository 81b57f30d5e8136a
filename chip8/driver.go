package chip8

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
)

// Driver runs an emulator against a backend: one frame of emulation, one
// backend update, then the input events, the tone and the frame limiter.
type Driver struct {
	emu     Emulator
	backend backend.Backend
	limiter timing.Limiter

	handler *input.Handler
	manager *input.Manager

	running bool
}

// NewDriver wires the emulator controls of emu and b into a new driver.
// A nil limiter runs frames as fast as possible.
func NewDriver(emu Emulator, b backend.Backend, limiter timing.Limiter) *Driver {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}

	d := &Driver{
		emu:     emu,
		backend: b,
		limiter: limiter,
		handler: input.NewHandler(),
		manager: input.NewManager(emu.Keypad()),
	}

	d.manager.On(action.EmulatorQuit, event.Press, d.Stop)
	d.manager.On(action.EmulatorPauseToggle, event.Press, func() {
		emu.HandleAction(action.EmulatorPauseToggle, true)
		d.limiter.Reset()
		d.forward(action.EmulatorPauseToggle)
	})
	for _, act := range []action.Action{
		action.EmulatorSnapshot,
		action.DebugLogLevelIncrease,
		action.DebugLogLevelDecrease,
	} {
		d.manager.On(act, event.Press, func() { d.forward(act) })
	}

	return d
}

// Manager returns the input manager, to register extra callbacks.
func (d *Driver) Manager() *input.Manager {
	return d.manager
}

// Stop makes Run return after the current frame.
func (d *Driver) Stop() {
	d.running = false
}

// Run drives the loop until a quit action, a fault, a backend error or the
// cancellation of ctx. The backend is not initialized nor cleaned up here.
func (d *Driver) Run(ctx context.Context) error {
	d.running = true
	d.limiter.Reset()

	for d.running {
		if err := ctx.Err(); err != nil {
			slog.Debug("Driver stopped", "reason", err)
			return nil
		}

		if err := d.Frame(); err != nil {
			return err
		}

		d.limiter.WaitForNextFrame()
	}

	return nil
}

// Frame runs a single iteration of the loop, without frame limiting.
func (d *Driver) Frame() error {
	if err := d.emu.RunUntilFrame(); err != nil {
		return err
	}

	events, err := d.backend.Update(d.emu.GetCurrentFrame())
	if err != nil {
		return fmt.Errorf("backend update: %w", err)
	}

	d.handler.Dispatch(d.manager, events)
	d.backend.SetTone(d.emu.ShouldBeep())

	return nil
}

func (d *Driver) forward(act action.Action) {
	if h, ok := d.backend.(backend.ActionHandler); ok {
		h.HandleAction(act)
	}
}

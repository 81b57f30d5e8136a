package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 interpreter"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Backend to use: terminal, sdl2 or headless",
			Value: "terminal",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface (same as --backend headless)",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "speed",
			Usage: "Instructions executed per second",
			Value: timing.DefaultSpeed,
		},
		cli.StringFlag{
			Name:  "keyboard",
			Usage: fmt.Sprintf("Keyboard layout for the hex keypad: %s", layoutNames()),
			Value: string(input.QWERTY),
		},
		cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed for the random number generator (0 = random)",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the sdl2 backend",
			Value: display.DefaultPixelScale,
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame limiter: adaptive, ticker or none (headless defaults to none)",
		},
		cli.BoolFlag{
			Name:  "test-pattern",
			Usage: "Run a built-in program drawing the font glyphs instead of a ROM",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func layoutNames() string {
	var names []string
	for _, l := range input.Layouts() {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}

func runEmulator(c *cli.Context) error {
	backendName := c.String("backend")
	if c.Bool("headless") {
		backendName = "headless"
	}

	if backendName == "headless" {
		// Set up debug logging for headless mode
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		slog.SetDefault(slog.New(handler))
	}

	layout, err := input.ParseLayout(c.String("keyboard"))
	if err != nil {
		return err
	}

	cfg := chip8.Config{
		Speed: c.Int("speed"),
		Seed:  c.Uint64("seed"),
	}

	romPath := c.String("rom")
	if romPath == "" && c.NArg() > 0 {
		romPath = c.Args().Get(0)
	}

	var emu *chip8.Machine
	switch {
	case c.Bool("test-pattern"):
		slog.Info("Running in test pattern mode")
		romPath = ""
		emu, err = chip8.NewTestPattern(cfg)
	case romPath != "":
		emu, err = chip8.NewWithFile(romPath, cfg)
	default:
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}
	if err != nil {
		return err
	}

	b, err := createBackend(c, backendName, romPath)
	if err != nil {
		return err
	}

	title := "CHIP-8"
	if romPath != "" {
		title = fmt.Sprintf("CHIP-8 - %s", romPath)
	}

	err = b.Init(backend.BackendConfig{
		Title:      title,
		Scale:      display.ClampScale(c.Int("scale")),
		KeyMap:     input.NewKeyMap(layout),
		SampleRate: audio.DefaultSampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()

	limiterKind := c.String("limiter")
	if limiterKind == "" && backendName == "headless" {
		limiterKind = "none"
	}
	limiter := timing.New(limiterKind)
	if ticker, ok := limiter.(*timing.TickerLimiter); ok {
		defer ticker.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return chip8.NewDriver(emu, b, limiter).Run(ctx)
}

func createBackend(c *cli.Context, name, romPath string) (backend.Backend, error) {
	switch name {
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	case "headless":
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, errors.New("headless mode requires --frames option with a positive value")
		}

		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, err
		}
		return headless.New(frames, snapshots), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

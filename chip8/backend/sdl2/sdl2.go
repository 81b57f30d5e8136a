//go:build sdl2

package sdl2

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
	"github.com/veandco/go-sdl2/sdl"
)

// maxQueuedFrames bounds how much tone is buffered ahead, so the beep stops
// promptly when the sound timer runs out.
const maxQueuedFrames = 2

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   backend.BackendConfig
	pixels   []byte

	audioDevice sdl.AudioDeviceID
	tone        *audio.Tone

	eventQueue []backend.InputEvent

	// Snapshot state
	currentFrame *video.FrameBuffer
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		pixels: make([]byte, video.FramebufferWidth*video.FramebufferHeight*display.RGBABytesPerPixel),
	}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	windowWidth, windowHeight := display.WindowSize(config.Scale)
	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(windowWidth),
		int32(windowHeight),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	// Audio is optional, the emulator stays usable without a sound card
	if err := s.openAudio(config.SampleRate); err != nil {
		slog.Warn("Audio disabled", "error", err)
	}

	s.running = true
	slog.Info("SDL2 backend initialized", "width", windowWidth, "height", windowHeight)

	return nil
}

func (s *Backend) openAudio(sampleRate int) error {
	if sampleRate <= 0 {
		sampleRate = audio.DefaultSampleRate
	}

	desired := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  512,
	}
	var obtained sdl.AudioSpec

	device, err := sdl.OpenAudioDevice("", false, &desired, &obtained, 0)
	if err != nil {
		return err
	}

	s.audioDevice = device
	s.tone = audio.NewTone(int(obtained.Freq))
	sdl.PauseAudioDevice(device, false)
	return nil
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	events := s.eventQueue
	s.eventQueue = nil

	if !s.running {
		return events, nil
	}

	s.currentFrame = frame
	if err := s.renderFrame(frame); err != nil {
		return events, err
	}

	s.queueTone()

	return events, nil
}

// SetTone starts or stops the beep.
func (s *Backend) SetTone(on bool) {
	if s.tone == nil || s.tone.Enabled() == on {
		return
	}

	s.tone.SetEnabled(on)
	if !on {
		sdl.ClearQueuedAudio(s.audioDevice)
	}
}

// queueTone keeps a couple of frames worth of samples queued while the
// tone is on.
func (s *Backend) queueTone() {
	if s.tone == nil || !s.tone.Enabled() {
		return
	}

	samplesPerFrame := s.tone.SampleRate() / timing.FramesPerSecond
	queued := int(sdl.GetQueuedAudioSize(s.audioDevice)) / 2
	missing := samplesPerFrame*maxQueuedFrames - queued
	if missing <= 0 {
		return
	}

	if err := sdl.QueueAudio(s.audioDevice, samplesToBytes(s.tone.GetSamples(missing))); err != nil {
		slog.Debug("Failed to queue audio", "error", err)
	}
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

// HandleAction processes backend-specific actions
func (s *Backend) HandleAction(act action.Action) {
	if act == action.EmulatorSnapshot {
		debug.TakeSnapshot(s.currentFrame)
	}
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.eventQueue = append(s.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})

	case *sdl.KeyboardEvent:
		act, ok := input.KeyMap(s.config.KeyMap).Lookup(sdl.GetKeyName(e.Keysym.Sym))
		if !ok {
			return
		}
		keypad := action.GetInfo(act).Category == action.CategoryKeypad

		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat != 0:
			if keypad {
				s.eventQueue = append(s.eventQueue, backend.InputEvent{Action: act, Type: event.Hold})
			}
		case e.Type == sdl.KEYDOWN:
			if act == action.EmulatorQuit {
				s.running = false
			}
			s.eventQueue = append(s.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
		case e.Type == sdl.KEYUP && keypad:
			// Only keypad keys track releases, controls act on press
			s.eventQueue = append(s.eventQueue, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	fillPixels(s.pixels, frame)

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*display.RGBABytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}

	// Clear renderer and draw texture scaled up
	s.renderer.SetDrawColor(display.GrayscaleOff, display.GrayscaleOff, display.GrayscaleOff, display.FullAlpha)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}

// fillPixels converts the frame to little-endian RGBA8888, stored as ABGR bytes.
func fillPixels(dst []byte, frame *video.FrameBuffer) {
	for i, pixel := range frame.ToSlice() {
		level := display.Level(pixel)
		idx := i * display.RGBABytesPerPixel
		dst[idx] = display.FullAlpha
		dst[idx+1] = level
		dst[idx+2] = level
		dst[idx+3] = level
	}
}

func samplesToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(sample))
	}
	return data
}

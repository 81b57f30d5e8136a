package timing

import "time"

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

const (
	// FramesPerSecond is the display refresh and timer rate.
	FramesPerSecond = 60
	// DefaultSpeed is the default instruction rate, in instructions per second.
	DefaultSpeed = 600
)

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Second / FramesPerSecond
}

// StepsPerFrame returns how many instructions run between two timer ticks
// at speed instructions per second. Never less than one.
func StepsPerFrame(speed int) int {
	steps := speed / FramesPerSecond
	if steps < 1 {
		return 1
	}
	return steps
}

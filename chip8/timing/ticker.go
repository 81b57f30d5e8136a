package timing

import "time"

// TickerLimiter uses time.Ticker for simple, consistent frame timing.
// Less accurate than AdaptiveLimiter but doesn't spin, so it is easier on
// battery powered machines.
type TickerLimiter struct {
	ticker *time.Ticker
}

func NewTickerLimiter() *TickerLimiter {
	return &TickerLimiter{ticker: time.NewTicker(FrameDuration())}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(FrameDuration())
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}

// New returns the limiter named by kind: "adaptive", "ticker" or "none".
// Unknown kinds get the adaptive limiter.
func New(kind string) Limiter {
	switch kind {
	case "ticker":
		return NewTickerLimiter()
	case "none":
		return NewNoOpLimiter()
	default:
		return NewAdaptiveLimiter()
	}
}

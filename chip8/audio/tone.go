package audio

import "sync"

// Tone is a square wave generator for the single beep the interpreter can
// produce. The phase is kept across calls so consecutive buffers join
// without clicks.
type Tone struct {
	// mu protects the generator, samples are pulled by the audio thread
	// while the emulation loop toggles the tone
	mu sync.Mutex

	enabled    bool
	sampleRate int
	frequency  int
	volume     int16

	// phase counts samples into the current period
	phase int
}

// NewTone creates a disabled tone at the default pitch and volume.
func NewTone(sampleRate int) *Tone {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Tone{
		sampleRate: sampleRate,
		frequency:  DefaultFrequency,
		volume:     DefaultVolume,
	}
}

func (t *Tone) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !enabled {
		t.phase = 0
	}
	t.enabled = enabled
}

func (t *Tone) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.enabled
}

// SetFrequency changes the pitch, ignoring frequencies above Nyquist.
func (t *Tone) SetFrequency(hz int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if hz <= 0 || hz*2 > t.sampleRate {
		return
	}
	t.frequency = hz
}

// SampleRate returns the rate GetSamples generates at.
func (t *Tone) SampleRate() int {
	return t.sampleRate
}

func (t *Tone) GetSamples(count int) []int16 {
	t.mu.Lock()
	defer t.mu.Unlock()

	samples := make([]int16, count)
	if !t.enabled {
		return samples
	}

	period := t.sampleRate / t.frequency
	half := period / 2
	for i := range samples {
		if t.phase < half {
			samples[i] = t.volume
		} else {
			samples[i] = -t.volume
		}
		t.phase = (t.phase + 1) % period
	}

	return samples
}

package audio

type Provider interface {
	// GetSamples retrieves count mono audio samples for playback
	GetSamples(count int) []int16

	// SetEnabled turns the output on or off, disabled providers produce silence
	SetEnabled(enabled bool)
	Enabled() bool
}

var _ Provider = (*Tone)(nil)

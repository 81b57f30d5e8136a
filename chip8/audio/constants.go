package audio

const (
	// DefaultSampleRate is the playback rate requested from audio devices.
	DefaultSampleRate = 44100
	// DefaultFrequency is the pitch of the beep, in Hz.
	DefaultFrequency = 440
	// DefaultVolume is the square wave amplitude, a quarter of full scale.
	DefaultVolume = 8192
)

package video

const (
	FramebufferWidth  = 64
	FramebufferHeight = 32
)

// Pixel values. Every framebuffer cell holds exactly one of these.
const (
	PixelOff uint8 = 0
	PixelOn  uint8 = 1
)

// FrameBuffer is the monochrome 64x32 display.
type FrameBuffer struct {
	buffer [FramebufferWidth * FramebufferHeight]uint8
}

// NewFrameBuffer creates a cleared frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// GetPixel returns the pixel at x, y. Coordinates wrap around the display.
func (fb *FrameBuffer) GetPixel(x, y uint) uint8 {
	return fb.buffer[index(x, y)]
}

// SetPixel sets the pixel at x, y, any non zero value turns the pixel on.
func (fb *FrameBuffer) SetPixel(x, y uint, value uint8) {
	if value != PixelOff {
		value = PixelOn
	}
	fb.buffer[index(x, y)] = value
}

// XorPixel flips the pixel at x, y when value is set.
// Returns true if a lit pixel was turned off.
func (fb *FrameBuffer) XorPixel(x, y uint, value uint8) bool {
	if value == PixelOff {
		return false
	}

	i := index(x, y)
	erased := fb.buffer[i] == PixelOn
	fb.buffer[i] ^= PixelOn

	return erased
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = PixelOff
	}
}

// LitPixels returns the number of pixels turned on.
func (fb *FrameBuffer) LitPixels() int {
	count := 0
	for _, p := range fb.buffer {
		count += int(p)
	}
	return count
}

// ToSlice returns the row major pixel data.
func (fb *FrameBuffer) ToSlice() []uint8 {
	return fb.buffer[:]
}

func index(x, y uint) uint {
	return (y%FramebufferHeight)*FramebufferWidth + x%FramebufferWidth
}

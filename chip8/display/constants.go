package display

import "github.com/valerio/go-chip8/chip8/video"

// RGBA pixel format constants
const (
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
)

// Backend scaling and window constants
const (
	// DefaultPixelScale is the default scaling factor for display pixels
	DefaultPixelScale = 10
	// MaxPixelScale bounds the scale accepted from the command line
	MaxPixelScale = 40
)

// Monochrome palette, as 0-255 grayscale levels
const (
	// GrayscaleOn is the level of lit pixels
	GrayscaleOn = 255
	// GrayscaleOff is the level of unlit pixels
	GrayscaleOff = 0
	// FullAlpha is the alpha value for fully opaque pixels
	FullAlpha = 255
)

// WindowSize returns the window dimensions for a pixel scale, clamped
// to the supported range.
func WindowSize(scale int) (width, height int) {
	scale = ClampScale(scale)
	return video.FramebufferWidth * scale, video.FramebufferHeight * scale
}

// ClampScale bounds scale to [1, MaxPixelScale], zero or negative values
// select DefaultPixelScale.
func ClampScale(scale int) int {
	switch {
	case scale <= 0:
		return DefaultPixelScale
	case scale > MaxPixelScale:
		return MaxPixelScale
	default:
		return scale
	}
}

// Level returns the grayscale level of a framebuffer pixel.
func Level(pixel uint8) uint8 {
	if pixel == video.PixelOff {
		return GrayscaleOff
	}
	return GrayscaleOn
}

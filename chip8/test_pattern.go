package chip8

import (
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/memory"
)

// Test pattern layout: the 16 font glyphs on two rows of eight, each glyph
// in an 8x8 cell starting at the top left corner.
const (
	TestPatternColumns  = 8
	TestPatternCellSize = 8
)

// TestPatternProgram returns a program drawing the hex digits 0-F, then
// looping forever. It exercises LD, LD F, DRW and JP.
func TestPatternProgram() []byte {
	var words []uint16
	for d := uint16(0); d < 16; d++ {
		x := (d % TestPatternColumns) * TestPatternCellSize
		y := (d / TestPatternColumns) * TestPatternCellSize
		words = append(words,
			0x6000|x,             // LD V0, x
			0x6100|y,             // LD V1, y
			0x6200|d,             // LD V2, d
			0xF229,               // LD F, V2
			0xD010|cpu.GlyphSize, // DRW V0, V1, 5
		)
	}

	end := uint16(memory.ProgramStart + len(words)*cpu.InstructionSize)
	words = append(words, 0x1000|end) // JP end

	program := make([]byte, 0, len(words)*cpu.InstructionSize)
	for _, w := range words {
		program = append(program, bit.High(w), bit.Low(w))
	}
	return program
}

// NewTestPattern creates a machine running TestPatternProgram.
func NewTestPattern(cfg Config) (*Machine, error) {
	return NewWithProgram(TestPatternProgram(), cfg)
}

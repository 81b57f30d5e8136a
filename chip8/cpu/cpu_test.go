package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
)

var noKeys [KeyCount]bool

// program encodes opcode words as a big endian image.
func program(words ...uint16) []byte {
	image := make([]byte, 0, len(words)*2)
	for _, w := range words {
		image = append(image, bit.High(w), bit.Low(w))
	}
	return image
}

// newWithProgram returns a seeded CPU with words loaded at the program start.
func newWithProgram(t *testing.T, words ...uint16) *CPU {
	t.Helper()
	c := New()
	c.Seed(1)
	require.Equal(t, len(words)*2, c.LoadProgram(program(words...)))
	return c
}

// run executes n steps with no key pressed, failing on any fault.
func run(t *testing.T, c *CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := c.Step(noKeys)
		require.NoError(t, err)
	}
}

func TestCPU_New(t *testing.T) {
	c := New()

	assert.Equal(t, uint16(memory.ProgramStart), c.PC())
	assert.Equal(t, uint16(0), c.I())
	assert.Equal(t, [RegisterCount]uint8{}, c.Registers())
	assert.Equal(t, 0, c.StackDepth())
	assert.Equal(t, 0, c.FrameBuffer().LitPixels())
	assert.False(t, c.ShouldBeep())

	glyphs, err := c.Memory().ReadRange(FontStart, len(font))
	require.NoError(t, err)
	assert.Equal(t, font[:], glyphs)
}

func TestCPU_LoadProgram(t *testing.T) {
	c := New()

	n := c.LoadProgram(make([]byte, memory.MaxProgramSize+10))
	assert.Equal(t, memory.MaxProgramSize, n)
	assert.Equal(t, uint16(memory.ProgramStart), c.PC())
}

func TestCPU_Step_returnsFrameOnlyOnDraw(t *testing.T) {
	c := newWithProgram(t, 0x00E0, 0x6005, 0xD005)

	fb, err := c.Step(noKeys)
	require.NoError(t, err)
	assert.Nil(t, fb)

	fb, err = c.Step(noKeys)
	require.NoError(t, err)
	assert.Nil(t, fb)

	fb, err = c.Step(noKeys)
	require.NoError(t, err)
	assert.Same(t, c.FrameBuffer(), fb)
	assert.Equal(t, OpDRW, c.CurrentInstruction().Op)
	assert.Equal(t, uint64(3), c.Cycles())
}

func TestCPU_clsThenDraw(t *testing.T) {
	// CLS, V0=0, V1=0, I=glyph 0, DRW V0, V1, 5
	c := newWithProgram(t, 0x00E0, 0x6000, 0x6100, 0xA000+FontStart, 0xD015)
	c.FrameBuffer().SetPixel(40, 20, 1)

	run(t, c, 5)

	fb := c.FrameBuffer()
	glyph := Glyph(0)
	lit := 0
	for y := uint(0); y < 32; y++ {
		for x := uint(0); x < 64; x++ {
			want := uint8(0)
			if y < GlyphSize && x < 8 {
				want = bit.GetBitValue(uint8(7-x), glyph[y])
			}
			assert.Equal(t, want, fb.GetPixel(x, y), "pixel %d,%d", x, y)
			lit += int(want)
		}
	}
	assert.Equal(t, lit, fb.LitPixels())
	assert.Equal(t, uint8(0), c.V(0xF))
}

func TestCPU_drawWrapsAround(t *testing.T) {
	// V0=63, V1=31, I=0x300, DRW V0, V1, 2 with two full rows
	c := newWithProgram(t, 0x603F, 0x611F, 0xA300, 0xD012)
	require.NoError(t, c.Memory().WriteRange(0x300, []byte{0xFF, 0xFF}))

	run(t, c, 4)

	fb := c.FrameBuffer()
	assert.Equal(t, 16, fb.LitPixels())
	for _, y := range []uint{31, 0} {
		assert.Equal(t, uint8(1), fb.GetPixel(63, y))
		for x := uint(0); x < 7; x++ {
			assert.Equal(t, uint8(1), fb.GetPixel(x, y), "pixel %d,%d", x, y)
		}
		assert.Equal(t, uint8(0), fb.GetPixel(7, y))
	}
	assert.Equal(t, uint8(0), c.V(0xF))
}

func TestCPU_drawTwiceCollides(t *testing.T) {
	c := newWithProgram(t, 0x600A, 0x610C, 0xF029, 0xD015, 0xD015)

	run(t, c, 4)
	assert.Equal(t, uint8(0), c.V(0xF))
	assert.Equal(t, 14, c.FrameBuffer().LitPixels()) // glyph "A"

	run(t, c, 1)
	assert.Equal(t, uint8(1), c.V(0xF))
	assert.Equal(t, 0, c.FrameBuffer().LitPixels())
}

func TestCPU_drawResetsFlag(t *testing.T) {
	c := newWithProgram(t, 0x6F07, 0xD001)

	run(t, c, 2)
	assert.Equal(t, uint8(0), c.V(0xF))
}

func TestCPU_callReturn(t *testing.T) {
	c := newWithProgram(t,
		0x2204, // 0x200: CALL 0x204
		0x6142, // 0x202: V1 = 0x42
		0x6099, // 0x204: V0 = 0x99
		0x00EE, // 0x206: RET
	)

	run(t, c, 1)
	assert.Equal(t, uint16(0x204), c.PC())
	assert.Equal(t, 1, c.StackDepth())

	run(t, c, 2)
	assert.Equal(t, uint16(0x202), c.PC())
	assert.Equal(t, 0, c.StackDepth())
	assert.Equal(t, uint8(0x99), c.V(0))

	run(t, c, 1)
	assert.Equal(t, uint8(0x42), c.V(1))
}

func TestCPU_keyWait(t *testing.T) {
	c := newWithProgram(t, 0xF50A)

	before := c.Registers()
	for i := 0; i < 10; i++ {
		fb, err := c.Step(noKeys)
		require.NoError(t, err)
		assert.Nil(t, fb)
		assert.Equal(t, uint16(0x200), c.PC())
		assert.Equal(t, before, c.Registers())
	}

	var keys [KeyCount]bool
	keys[0x9] = true
	keys[0x7] = true
	_, err := c.Step(keys)
	require.NoError(t, err)

	assert.Equal(t, uint8(0x7), c.V(5))
	assert.Equal(t, uint16(0x202), c.PC())
}

func TestCPU_timers(t *testing.T) {
	c := newWithProgram(t, 0x6002, 0xF015, 0xF018)
	run(t, c, 3)

	assert.Equal(t, uint8(2), c.DelayTimer())
	assert.Equal(t, uint8(2), c.SoundTimer())
	assert.True(t, c.ShouldBeep())

	c.TickTimers()
	assert.True(t, c.ShouldBeep())
	c.TickTimers()
	assert.False(t, c.ShouldBeep())

	for i := 0; i < 5; i++ {
		c.TickTimers()
	}
	assert.Equal(t, uint8(0), c.DelayTimer())
	assert.Equal(t, uint8(0), c.SoundTimer())
}

func TestCPU_deterministic(t *testing.T) {
	words := []uint16{
		0xC0FF, // V0 = rnd
		0xC1FF, // V1 = rnd
		0xA000, // I = glyph 0
		0xD015,
		0x8014, // V0 += V1
		0xA300,
		0xF033,
		0x1200,
	}

	a := newWithProgram(t, words...)
	b := newWithProgram(t, words...)
	a.Seed(42)
	b.Seed(42)

	for i := 0; i < 200; i++ {
		_, errA := a.Step(noKeys)
		_, errB := b.Step(noKeys)
		if errA != nil || errB != nil {
			assert.Equal(t, errA, errB)
			break
		}
	}

	assert.Equal(t, a, b)
}

func TestCPU_faults(t *testing.T) {
	testCases := []struct {
		desc  string
		words []uint16
		steps int
		pc    uint16
		err   error
	}{
		{desc: "return with empty stack", words: []uint16{0x00EE}, steps: 1, pc: 0x200, err: ErrStackUnderflow},
		{desc: "call stack overflow", words: []uint16{0x2200}, steps: StackDepth + 1, pc: 0x200, err: ErrStackOverflow},
		{desc: "fetch past end of memory", words: []uint16{0x1FFF}, steps: 2, pc: 0xFFF, err: memory.ErrOutOfBounds},
		{desc: "store into reserved area", words: []uint16{0xA100, 0xF055}, steps: 2, pc: 0x202, err: memory.ErrReservedWrite},
		{desc: "load past end of memory", words: []uint16{0xAFFE, 0xF265}, steps: 2, pc: 0x202, err: memory.ErrOutOfBounds},
		{desc: "draw past end of memory", words: []uint16{0xAFFF, 0xD002}, steps: 2, pc: 0x202, err: memory.ErrOutOfBounds},
		{
			// 256 rounds of ADD I, 0xFF from 0xFFF would wrap a 16 bit index
			// back into the font
			desc: "load after repeated index adds",
			words: []uint16{
				0xAFFF, // LD I, 0xFFF
				0x60FF, // LD V0, 0xFF
				0xF01E, // ADD I, V0
				0x7101, // ADD V1, 1
				0x3100, // SE V1, 0
				0x1204, // JP 0x204
				0xF165, // LD V1, [I]
			},
			steps: 2000,
			pc:    0x20C,
			err:   memory.ErrOutOfBounds,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := newWithProgram(t, tC.words...)

			var err error
			for i := 0; i < tC.steps && err == nil; i++ {
				_, err = c.Step(noKeys)
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tC.err)

			var fault *Fault
			require.True(t, errors.As(err, &fault))
			assert.Equal(t, tC.pc, fault.PC)

			// deterministic: the same step fails again
			_, again := c.Step(noKeys)
			assert.ErrorIs(t, again, tC.err)
		})
	}
}

func TestCPU_unknownOpcodeIsNoop(t *testing.T) {
	for _, word := range []uint16{0x0123, 0x5121, 0x812F, 0xE1FF, 0xF1FF} {
		c := newWithProgram(t, 0x6033, word)
		run(t, c, 1)
		before := c.Registers()

		fb, err := c.Step(noKeys)
		require.NoError(t, err)
		assert.Nil(t, fb)
		assert.Equal(t, uint16(0x204), c.PC())
		assert.Equal(t, before, c.Registers())
		assert.Equal(t, uint16(0), c.I())
	}
}

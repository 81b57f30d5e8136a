package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPU_arithmetic(t *testing.T) {
	testCases := []struct {
		desc   string
		word   uint16
		vx, vy uint8
		want   uint8
		flag   uint8
	}{
		{desc: "add without carry", word: 0x8014, vx: 0x80, vy: 0x7F, want: 0xFF, flag: 0},
		{desc: "add with carry", word: 0x8014, vx: 0xFF, vy: 0x01, want: 0x00, flag: 1},
		{desc: "add with carry and result", word: 0x8014, vx: 0x80, vy: 0x81, want: 0x01, flag: 1},
		{desc: "sub without borrow", word: 0x8015, vx: 5, vy: 3, want: 2, flag: 1},
		{desc: "sub with borrow", word: 0x8015, vx: 3, vy: 5, want: 0xFE, flag: 0},
		{desc: "sub equal operands", word: 0x8015, vx: 5, vy: 5, want: 0, flag: 0},
		{desc: "subn without borrow", word: 0x8017, vx: 3, vy: 5, want: 2, flag: 1},
		{desc: "subn with borrow", word: 0x8017, vx: 5, vy: 3, want: 0xFE, flag: 0},
		{desc: "shr shifts out one", word: 0x8016, vx: 0x05, want: 0x02, flag: 1},
		{desc: "shr shifts out zero", word: 0x8016, vx: 0x04, want: 0x02, flag: 0},
		{desc: "shl shifts out one", word: 0x801E, vx: 0x81, want: 0x02, flag: 1},
		{desc: "shl shifts out zero", word: 0x801E, vx: 0x41, want: 0x82, flag: 0},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := newWithProgram(t, tC.word)
			c.v[0] = tC.vx
			c.v[1] = tC.vy
			c.v[0xF] = 0xAA

			run(t, c, 1)

			assert.Equal(t, tC.want, c.V(0))
			assert.Equal(t, tC.vy, c.V(1))
			assert.Equal(t, tC.flag, c.V(0xF))
		})
	}
}

func TestCPU_logicLeavesFlag(t *testing.T) {
	testCases := []struct {
		desc string
		word uint16
		want uint8
	}{
		{desc: "or", word: 0x8011, want: 0xFA},
		{desc: "and", word: 0x8012, want: 0x50},
		{desc: "xor", word: 0x8013, want: 0xAA},
		{desc: "ld", word: 0x8010, want: 0x5A},
		{desc: "add immediate wraps", word: 0x70F0, want: 0xE0},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := newWithProgram(t, tC.word)
			c.v[0] = 0xF0
			c.v[1] = 0x5A
			c.v[0xF] = 0x33

			run(t, c, 1)

			assert.Equal(t, tC.want, c.V(0))
			assert.Equal(t, uint8(0x33), c.V(0xF))
		})
	}
}

func TestCPU_flagRegisterAsTarget(t *testing.T) {
	c := newWithProgram(t, 0x8F14)
	c.v[0xF] = 0x10
	c.v[1] = 0x02

	run(t, c, 1)

	assert.Equal(t, uint8(0x12), c.V(0xF))
}

func TestCPU_skips(t *testing.T) {
	testCases := []struct {
		desc   string
		word   uint16
		vx, vy uint8
		skip   bool
	}{
		{desc: "se imm equal", word: 0x3012, vx: 0x12, skip: true},
		{desc: "se imm different", word: 0x3012, vx: 0x13},
		{desc: "sne imm equal", word: 0x4012, vx: 0x12},
		{desc: "sne imm different", word: 0x4012, vx: 0x13, skip: true},
		{desc: "se reg equal", word: 0x5010, vx: 7, vy: 7, skip: true},
		{desc: "se reg different", word: 0x5010, vx: 7, vy: 8},
		{desc: "sne reg equal", word: 0x9010, vx: 7, vy: 7},
		{desc: "sne reg different", word: 0x9010, vx: 7, vy: 8, skip: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := newWithProgram(t, tC.word)
			c.v[0] = tC.vx
			c.v[1] = tC.vy

			run(t, c, 1)

			want := uint16(0x202)
			if tC.skip {
				want = 0x204
			}
			assert.Equal(t, want, c.PC())
		})
	}
}

func TestCPU_keySkips(t *testing.T) {
	var keys [KeyCount]bool
	keys[0x3] = true

	testCases := []struct {
		desc string
		word uint16
		vx   uint8
		skip bool
	}{
		{desc: "skp pressed", word: 0xE09E, vx: 0x3, skip: true},
		{desc: "skp released", word: 0xE09E, vx: 0x4},
		{desc: "skp masks the key index", word: 0xE09E, vx: 0x13, skip: true},
		{desc: "sknp pressed", word: 0xE0A1, vx: 0x3},
		{desc: "sknp released", word: 0xE0A1, vx: 0x4, skip: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := newWithProgram(t, tC.word)
			c.v[0] = tC.vx

			_, err := c.Step(keys)
			require.NoError(t, err)

			want := uint16(0x202)
			if tC.skip {
				want = 0x204
			}
			assert.Equal(t, want, c.PC())
		})
	}
}

func TestCPU_jumps(t *testing.T) {
	c := newWithProgram(t, 0x1234)
	run(t, c, 1)
	assert.Equal(t, uint16(0x234), c.PC())

	c = newWithProgram(t, 0xB300)
	c.v[0] = 0x04
	run(t, c, 1)
	assert.Equal(t, uint16(0x304), c.PC())
}

func TestCPU_random(t *testing.T) {
	c := newWithProgram(t, 0xC00F, 0x1200)

	for i := 0; i < 100; i++ {
		run(t, c, 2)
		assert.LessOrEqual(t, c.V(0), uint8(0x0F))
	}

	c = newWithProgram(t, 0xC000)
	c.v[0] = 0xFF
	run(t, c, 1)
	assert.Equal(t, uint8(0), c.V(0))
}

func TestCPU_addIndex(t *testing.T) {
	testCases := []struct {
		desc string
		i    uint16
		vx   uint8
		want uint16
		flag uint8
	}{
		{desc: "below threshold", i: 0x0E00, vx: 0xFF, want: 0x0EFF, flag: 0},
		{desc: "at threshold", i: 0x0EFF, vx: 0x01, want: 0x0F00, flag: 0},
		{desc: "past threshold", i: 0x0F00, vx: 0x01, want: 0x0F01, flag: 1},
		{desc: "past addressable memory", i: 0x0FFF, vx: 0x10, want: 0x100F, flag: 1},
		{desc: "saturates instead of wrapping", i: 0xFFF0, vx: 0xFF, want: 0xFFFF, flag: 1},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := newWithProgram(t, 0xF01E)
			c.i = tC.i
			c.v[0] = tC.vx

			run(t, c, 1)

			assert.Equal(t, tC.want, c.I())
			assert.Equal(t, tC.flag, c.V(0xF))
		})
	}
}

func TestCPU_fontAddress(t *testing.T) {
	for d := uint8(0); d < 16; d++ {
		c := newWithProgram(t, 0xF029)
		c.v[0] = d
		run(t, c, 1)

		assert.Equal(t, uint16(d)*GlyphSize, c.I())
		rows, err := c.Memory().ReadRange(c.I(), GlyphSize)
		require.NoError(t, err)
		assert.Equal(t, Glyph(d), rows)
	}
}

func TestCPU_bcd(t *testing.T) {
	testCases := []struct {
		value uint8
		want  []byte
	}{
		{0, []byte{0, 0, 0}},
		{7, []byte{0, 0, 7}},
		{42, []byte{0, 4, 2}},
		{254, []byte{2, 5, 4}},
	}
	for _, tC := range testCases {
		c := newWithProgram(t, 0xA300, 0xF033)
		c.v[0] = tC.value
		run(t, c, 2)

		digits, err := c.Memory().ReadRange(0x300, 3)
		require.NoError(t, err)
		assert.Equal(t, tC.want, digits)
		assert.Equal(t, uint16(0x300), c.I())
	}
}

func TestCPU_storeLoadRegisters(t *testing.T) {
	c := newWithProgram(t, 0xA300, 0xF355, 0x6000, 0x6100, 0x6200, 0x6300, 0x6477, 0xF365)
	c.v = [RegisterCount]uint8{1, 2, 3, 4, 5}

	run(t, c, 2)
	stored, err := c.Memory().ReadRange(0x300, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 0}, stored)
	assert.Equal(t, uint16(0x300), c.I())

	run(t, c, 6)
	assert.Equal(t, [RegisterCount]uint8{1, 2, 3, 4, 0x77}, c.Registers())
	assert.Equal(t, uint16(0x300), c.I())
}

func TestCPU_timerTransfer(t *testing.T) {
	c := newWithProgram(t, 0x6030, 0xF015, 0xF107)
	run(t, c, 3)

	assert.Equal(t, uint8(0x30), c.V(1))
	assert.Equal(t, uint8(0), c.SoundTimer())
}

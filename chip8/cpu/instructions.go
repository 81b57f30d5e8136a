package cpu

import (
	"math"

	"github.com/valerio/go-chip8/chip8/bit"
)

// execute runs a decoded instruction. PC already points to the next one.
// Returns true after a draw, the only operation the caller redraws for.
func (c *CPU) execute(instr Instruction, keys [KeyCount]bool) (bool, error) {
	x, y := instr.X, instr.Y

	switch instr.Op {
	case OpCLS:
		c.fb.Clear()
	case OpRET:
		address, err := c.stack.Pop()
		if err != nil {
			return false, err
		}
		c.pc = address
	case OpJP:
		c.pc = instr.NNN
	case OpCALL:
		if err := c.stack.Push(c.pc); err != nil {
			return false, err
		}
		c.pc = instr.NNN
	case OpSEImm:
		c.skipIf(c.v[x] == instr.NN)
	case OpSNEImm:
		c.skipIf(c.v[x] != instr.NN)
	case OpSEReg:
		c.skipIf(c.v[x] == c.v[y])
	case OpLDImm:
		c.v[x] = instr.NN
	case OpADDImm:
		c.v[x] += instr.NN
	case OpLDReg:
		c.v[x] = c.v[y]
	case OpOR:
		c.v[x] |= c.v[y]
	case OpAND:
		c.v[x] &= c.v[y]
	case OpXOR:
		c.v[x] ^= c.v[y]
	case OpADDReg:
		result, carry := bit.CheckedAdd(c.v[x], c.v[y])
		c.setWithFlag(x, result, carry)
	case OpSUB:
		c.setWithFlag(x, c.v[x]-c.v[y], c.v[x] > c.v[y])
	case OpSUBN:
		c.setWithFlag(x, c.v[y]-c.v[x], c.v[y] > c.v[x])
	case OpSHR:
		c.setWithFlag(x, c.v[x]>>1, bit.IsSet(0, c.v[x]))
	case OpSHL:
		c.setWithFlag(x, c.v[x]<<1, bit.IsSet(7, c.v[x]))
	case OpSNEReg:
		c.skipIf(c.v[x] != c.v[y])
	case OpLDI:
		c.i = instr.NNN
	case OpJPV0:
		c.pc = instr.NNN + uint16(c.v[0])
	case OpRND:
		c.v[x] = uint8(c.rng.Uint32()) & instr.NN
	case OpDRW:
		return true, c.draw(c.v[x], c.v[y], instr.N)
	case OpSKP:
		c.skipIf(keys[c.v[x]&0x0F])
	case OpSKNP:
		c.skipIf(!keys[c.v[x]&0x0F])
	case OpLDVxDT:
		c.v[x] = c.delayTimer
	case OpLDVxK:
		c.waitKey(x, keys)
	case OpLDDTVx:
		c.delayTimer = c.v[x]
	case OpLDSTVx:
		c.soundTimer = c.v[x]
	case OpADDI:
		c.i = addIndex(c.i, c.v[x])
		c.setFlag(c.i > 0x0F00)
	case OpLDF:
		c.i = FontStart + uint16(c.v[x])*GlyphSize
	case OpLDB:
		value := c.v[x]
		digits := [3]byte{value / 100, (value / 10) % 10, value % 10}
		return false, c.mem.WriteRange(c.i, digits[:])
	case OpLDIVx:
		return false, c.mem.WriteRange(c.i, c.v[:x+1])
	case OpLDVxI:
		values, err := c.mem.ReadRange(c.i, int(x)+1)
		if err != nil {
			return false, err
		}
		copy(c.v[:], values)
	case OpSYS, OpUnknown:
		c.logUnknown(instr)
	}

	return false, nil
}

// draw XORs an n rows sprite read at I onto the display at vx, vy.
// VF is set when any lit pixel gets erased.
func (c *CPU) draw(vx, vy, n uint8) error {
	rows, err := c.mem.ReadRange(c.i, int(n))
	if err != nil {
		return err
	}

	collision := false
	for row, sprite := range rows {
		for col := uint8(0); col < 8; col++ {
			value := bit.GetBitValue(7-col, sprite)
			if c.fb.XorPixel(uint(vx)+uint(col), uint(vy)+uint(row), value) {
				collision = true
			}
		}
	}

	c.setFlag(collision)
	return nil
}

// waitKey stores the lowest pressed key in Vx, or rewinds PC so the
// instruction runs again on the next step.
func (c *CPU) waitKey(x uint8, keys [KeyCount]bool) {
	for key, pressed := range keys {
		if pressed {
			c.v[x] = uint8(key)
			return
		}
	}
	c.pc -= InstructionSize
}

func (c *CPU) skipIf(condition bool) {
	if condition {
		c.pc += InstructionSize
	}
}

// setWithFlag stores the flag in VF then result in Vx. Both were computed
// from the operands before either write, and VF as a target keeps the result.
func (c *CPU) setWithFlag(x uint8, result uint8, flag bool) {
	c.setFlag(flag)
	c.v[x] = result
}

func (c *CPU) setFlag(flag bool) {
	if flag {
		c.v[flagRegister] = 1
	} else {
		c.v[flagRegister] = 0
	}
}

// addIndex adds to I, saturating instead of wrapping so that an index run
// past the end of memory keeps faulting on access.
func addIndex(i uint16, value uint8) uint16 {
	sum := uint32(i) + uint32(value)
	if sum > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(sum)
}

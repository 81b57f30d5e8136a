package cpu

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	// RegisterCount is the number of general purpose registers, V0 to VF.
	RegisterCount = 16
	// KeyCount is the number of keys on the hex keypad.
	KeyCount = 16
	// InstructionSize is the size in bytes of every instruction.
	InstructionSize = 2

	flagRegister = 0xF
)

// CPU holds the full interpreter state: registers, memory, call stack,
// display and timers.
type CPU struct {
	// registers
	v  [RegisterCount]uint8
	i  uint16
	pc uint16

	delayTimer uint8
	soundTimer uint8

	stack Stack
	mem   *memory.RAM
	fb    *video.FrameBuffer
	rng   *rand.Rand

	// metadata
	currentInstruction Instruction
	cycles             uint64
}

// New returns a CPU with the font loaded, ready to load a program.
// The random source is seeded from the runtime, use Seed for reproducible runs.
func New() *CPU {
	c := &CPU{
		pc:  memory.ProgramStart,
		mem: memory.New(),
		fb:  video.NewFrameBuffer(),
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	if err := c.mem.Preload(FontStart, font[:]); err != nil {
		// font fits by construction
		panic(err)
	}

	return c
}

// Seed resets the random source used by RND.
func (c *CPU) Seed(seed uint64) {
	c.rng = rand.New(rand.NewPCG(seed, seed))
}

// LoadProgram copies a program image at the program start address.
// Returns the number of bytes loaded, anything past the end of memory is dropped.
func (c *CPU) LoadProgram(program []byte) int {
	return c.mem.LoadProgram(program)
}

// Step fetches, decodes and executes one instruction.
// keys holds the pressed state of each keypad key.
// The frame buffer is returned only when the instruction drew on it.
func (c *CPU) Step(keys [KeyCount]bool) (*video.FrameBuffer, error) {
	pc := c.pc

	word, err := c.fetch()
	if err != nil {
		return nil, &Fault{PC: pc, Err: err}
	}

	instr := Decode(word)
	c.currentInstruction = instr
	c.pc += InstructionSize

	redraw, err := c.execute(instr, keys)
	if err != nil {
		// faulting instructions leave no trace, stepping again fails the same way
		c.pc = pc
		return nil, &Fault{PC: pc, Word: word, Err: err}
	}
	c.cycles++

	if redraw {
		return c.fb, nil
	}
	return nil, nil
}

// TickTimers decrements both timers, stopping at zero.
// It is meant to be called at 60Hz.
func (c *CPU) TickTimers() {
	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}
}

// ShouldBeep reports whether the tone should be playing.
func (c *CPU) ShouldBeep() bool {
	return c.soundTimer > 0
}

func (c *CPU) fetch() (uint16, error) {
	bytes, err := c.mem.ReadRange(c.pc, InstructionSize)
	if err != nil {
		return 0, err
	}
	return bit.Combine(bytes[0], bytes[1]), nil
}

func (c *CPU) logUnknown(instr Instruction) {
	ctx := context.Background()
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.DebugContext(ctx, "Ignoring unknown opcode",
			"opcode", instr.Word, "pc", c.pc-InstructionSize)
	}
}

// V returns the value of register x (low nibble).
func (c *CPU) V(x uint8) uint8 {
	return c.v[x&0x0F]
}

// Registers returns a copy of V0 to VF.
func (c *CPU) Registers() [RegisterCount]uint8 {
	return c.v
}

// I returns the index register.
func (c *CPU) I() uint16 {
	return c.i
}

// PC returns the program counter.
func (c *CPU) PC() uint16 {
	return c.pc
}

func (c *CPU) DelayTimer() uint8 {
	return c.delayTimer
}

func (c *CPU) SoundTimer() uint8 {
	return c.soundTimer
}

// StackDepth returns the number of pending subroutine returns.
func (c *CPU) StackDepth() int {
	return c.stack.Len()
}

// Cycles returns the number of executed instructions.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// CurrentInstruction returns the last decoded instruction.
func (c *CPU) CurrentInstruction() Instruction {
	return c.currentInstruction
}

// FrameBuffer returns the display.
func (c *CPU) FrameBuffer() *video.FrameBuffer {
	return c.fb
}

// Memory returns the interpreter memory.
func (c *CPU) Memory() *memory.RAM {
	return c.mem
}

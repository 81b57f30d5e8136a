package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/memory"
)

func newRAM(t *testing.T, program ...byte) *memory.RAM {
	t.Helper()
	mem := memory.New()
	require.Equal(t, len(program), mem.LoadProgram(program))
	return mem
}

func TestDisassembleAt(t *testing.T) {
	mem := newRAM(t, 0x60, 0x12, 0xD0, 0x15, 0x00, 0xE0)

	tests := []struct {
		pc       uint16
		word     uint16
		expected string
	}{
		{0x200, 0x6012, "LD V0, 0x12"},
		{0x202, 0xD015, "DRW V0, V1, 5"},
		{0x204, 0x00E0, "CLS"},
		{0x206, 0x0000, "SYS 0x000"},
	}

	for _, tt := range tests {
		line := DisassembleAt(tt.pc, mem)
		assert.Equal(t, tt.pc, line.Address)
		assert.Equal(t, tt.word, line.Word)
		assert.Equal(t, tt.expected, line.Instruction)
	}
}

func TestDisassembleAt_EndOfMemory(t *testing.T) {
	line := DisassembleAt(memory.Size-1, memory.New())
	assert.Equal(t, "??", line.Instruction)
}

func TestDisassembleRange(t *testing.T) {
	mem := newRAM(t, 0x00, 0xE0, 0x12, 0x00)

	lines := DisassembleRange(0x200, 2, mem)
	require.Len(t, lines, 2)
	assert.Equal(t, "CLS", lines[0].Instruction)
	assert.Equal(t, "JP 0x200", lines[1].Instruction)

	// stops at the end of memory
	lines = DisassembleRange(memory.Size-4, 10, mem)
	assert.Len(t, lines, 2)

	// the last byte can't hold an instruction but still gets a line
	lines = DisassembleRange(memory.Size-3, 10, mem)
	require.Len(t, lines, 2)
	assert.Equal(t, uint16(memory.Size-1), lines[1].Address)
	assert.Equal(t, "??", lines[1].Instruction)
}

func TestDisassembleAround(t *testing.T) {
	mem := newRAM(t)

	tests := []struct {
		name          string
		pc            uint16
		before, after int
		first         uint16
		count         int
	}{
		{"middle", 0x300, 3, 2, 0x2FA, 6},
		{"near start of memory", 0x002, 3, 1, 0x000, 3},
		{"odd pc near start", 0x003, 3, 0, 0x001, 2},
		{"near end of memory", memory.Size - 2, 1, 5, memory.Size - 4, 2},
		{"last byte of memory", memory.Size - 1, 1, 1, memory.Size - 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := DisassembleAround(tt.pc, tt.before, tt.after, mem)
			require.Len(t, lines, tt.count)
			assert.Equal(t, tt.first, lines[0].Address)
		})
	}
}

func TestFormatDisassemblyLine(t *testing.T) {
	line := DisassemblyLine{Address: 0x200, Word: 0x6012, Instruction: "LD V0, 0x12"}

	assert.Equal(t, "→0x200: 6012  LD V0, 0x12", FormatDisassemblyLine(line, true))
	assert.Equal(t, " 0x200: 6012  LD V0, 0x12", FormatDisassemblyLine(line, false))
}

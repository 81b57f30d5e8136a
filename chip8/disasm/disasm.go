package disasm

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/memory"
)

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Word        uint16
	Instruction string
}

// DisassembleAt disassembles the instruction at the given program counter.
// Addresses without a full instruction before the end of memory give "??".
func DisassembleAt(pc uint16, mem *memory.RAM) DisassemblyLine {
	bytes, err := mem.ReadRange(pc, cpu.InstructionSize)
	if err != nil {
		return DisassemblyLine{Address: pc, Instruction: "??"}
	}

	word := bit.Combine(bytes[0], bytes[1])
	return DisassemblyLine{
		Address:     pc,
		Word:        word,
		Instruction: cpu.Decode(word).String(),
	}
}

// DisassembleRange disassembles up to count instructions starting from the
// given PC, stopping at the end of memory. A trailing odd byte gets a "??"
// line.
func DisassembleRange(startPC uint16, count int, mem *memory.RAM) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)

	for pc := int(startPC); len(lines) < count && pc < memory.Size; pc += cpu.InstructionSize {
		lines = append(lines, DisassembleAt(uint16(pc), mem))
	}

	return lines
}

// DisassembleAround disassembles instructions around the given PC:
// up to beforeCount before it, the one at PC and up to afterCount after.
// Instructions are fixed width, so going backwards is exact.
func DisassembleAround(currentPC uint16, beforeCount, afterCount int, mem *memory.RAM) []DisassemblyLine {
	back := beforeCount * cpu.InstructionSize
	if back > int(currentPC) {
		back = int(currentPC) - int(currentPC)%cpu.InstructionSize
	}

	startPC := currentPC - uint16(back)
	total := back/cpu.InstructionSize + 1 + afterCount // before + current + after

	return DisassembleRange(startPC, total, mem)
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = "→"
	}

	return fmt.Sprintf("%s0x%03X: %04X  %s", prefix, line.Address, line.Word, line.Instruction)
}

package debug

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/disasm"
)

// FaultContextLines is how many instructions are shown on each side of PC
// in a fault report.
const FaultContextLines = 4

// CPUState contains all CPU register information for debugging
type CPUState struct {
	V          [cpu.RegisterCount]uint8
	I          uint16
	PC         uint16
	DelayTimer uint8
	SoundTimer uint8
	StackDepth int
	Cycles     uint64
}

// CaptureCPUState copies the registers of c.
func CaptureCPUState(c *cpu.CPU) CPUState {
	return CPUState{
		V:          c.Registers(),
		I:          c.I(),
		PC:         c.PC(),
		DelayTimer: c.DelayTimer(),
		SoundTimer: c.SoundTimer(),
		StackDepth: c.StackDepth(),
		Cycles:     c.Cycles(),
	}
}

// Registers formats V0-VF on one line.
func (s CPUState) Registers() string {
	var b strings.Builder
	for i, v := range s.V {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "V%X=%02X", i, v)
	}
	return b.String()
}

// LogValue lets a CPUState be logged as a single slog group.
func (s CPUState) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("pc", fmt.Sprintf("0x%03X", s.PC)),
		slog.String("i", fmt.Sprintf("0x%03X", s.I)),
		slog.String("v", s.Registers()),
		slog.Int("dt", int(s.DelayTimer)),
		slog.Int("st", int(s.SoundTimer)),
		slog.Int("stack", s.StackDepth),
		slog.Uint64("cycles", s.Cycles),
	)
}

// DisassembleAroundPC returns the formatted listing around the PC of c,
// with the current instruction marked.
func DisassembleAroundPC(c *cpu.CPU, context int) []string {
	lines := disasm.DisassembleAround(c.PC(), context, context, c.Memory())

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, disasm.FormatDisassemblyLine(line, line.Address == c.PC()))
	}
	return out
}

// LogFault logs the state of c and the code around its PC at error level.
func LogFault(c *cpu.CPU, err error) {
	slog.Error("Interpreter fault", "error", err, "state", CaptureCPUState(c))
	for _, line := range DisassembleAroundPC(c, FaultContextLines) {
		slog.Error(line)
	}
}

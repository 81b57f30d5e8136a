package cpu

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
)

// Opcode identifies an instruction regardless of its operands.
type Opcode uint8

const (
	OpUnknown Opcode = iota
	OpSYS            // 0nnn
	OpCLS            // 00E0
	OpRET            // 00EE
	OpJP             // 1nnn
	OpCALL           // 2nnn
	OpSEImm          // 3xnn
	OpSNEImm         // 4xnn
	OpSEReg          // 5xy0
	OpLDImm          // 6xnn
	OpADDImm         // 7xnn
	OpLDReg          // 8xy0
	OpOR             // 8xy1
	OpAND            // 8xy2
	OpXOR            // 8xy3
	OpADDReg         // 8xy4
	OpSUB            // 8xy5
	OpSHR            // 8xy6
	OpSUBN           // 8xy7
	OpSHL            // 8xyE
	OpSNEReg         // 9xy0
	OpLDI            // Annn
	OpJPV0           // Bnnn
	OpRND            // Cxnn
	OpDRW            // Dxyn
	OpSKP            // Ex9E
	OpSKNP           // ExA1
	OpLDVxDT         // Fx07
	OpLDVxK          // Fx0A
	OpLDDTVx         // Fx15
	OpLDSTVx         // Fx18
	OpADDI           // Fx1E
	OpLDF            // Fx29
	OpLDB            // Fx33
	OpLDIVx          // Fx55
	OpLDVxI          // Fx65
	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	OpUnknown: "???",
	OpSYS:     "SYS",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEImm:   "SE",
	OpSNEImm:  "SNE",
	OpSEReg:   "SE",
	OpLDImm:   "LD",
	OpADDImm:  "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpLDIVx:   "LD",
	OpLDVxI:   "LD",
}

func (op Opcode) String() string {
	if op >= opcodeCount {
		return opcodeNames[OpUnknown]
	}
	return opcodeNames[op]
}

type pattern struct {
	mask  uint16
	value uint16
	op    Opcode
}

// patterns are matched in order, so exact encodings come before the
// catch-all ones sharing the same leading nibble.
var patterns = []pattern{
	{0xFFFF, 0x00E0, OpCLS},
	{0xFFFF, 0x00EE, OpRET},
	{0xF000, 0x0000, OpSYS},
	{0xF000, 0x1000, OpJP},
	{0xF000, 0x2000, OpCALL},
	{0xF000, 0x3000, OpSEImm},
	{0xF000, 0x4000, OpSNEImm},
	{0xF00F, 0x5000, OpSEReg},
	{0xF000, 0x6000, OpLDImm},
	{0xF000, 0x7000, OpADDImm},
	{0xF00F, 0x8000, OpLDReg},
	{0xF00F, 0x8001, OpOR},
	{0xF00F, 0x8002, OpAND},
	{0xF00F, 0x8003, OpXOR},
	{0xF00F, 0x8004, OpADDReg},
	{0xF00F, 0x8005, OpSUB},
	{0xF00F, 0x8006, OpSHR},
	{0xF00F, 0x8007, OpSUBN},
	{0xF00F, 0x800E, OpSHL},
	{0xF00F, 0x9000, OpSNEReg},
	{0xF000, 0xA000, OpLDI},
	{0xF000, 0xB000, OpJPV0},
	{0xF000, 0xC000, OpRND},
	{0xF000, 0xD000, OpDRW},
	{0xF0FF, 0xE09E, OpSKP},
	{0xF0FF, 0xE0A1, OpSKNP},
	{0xF0FF, 0xF007, OpLDVxDT},
	{0xF0FF, 0xF00A, OpLDVxK},
	{0xF0FF, 0xF015, OpLDDTVx},
	{0xF0FF, 0xF018, OpLDSTVx},
	{0xF0FF, 0xF01E, OpADDI},
	{0xF0FF, 0xF029, OpLDF},
	{0xF0FF, 0xF033, OpLDB},
	{0xF0FF, 0xF055, OpLDIVx},
	{0xF0FF, 0xF065, OpLDVxI},
}

// families groups patterns by leading nibble.
var families [16][]pattern

func init() {
	for _, p := range patterns {
		family := bit.Nibble(p.value, 3)
		families[family] = append(families[family], p)
	}
}

// Instruction is a decoded opcode word with its operand fields.
type Instruction struct {
	Word uint16
	Op   Opcode
	X    uint8  // second nibble
	Y    uint8  // third nibble
	N    uint8  // lowest nibble
	NN   uint8  // low byte
	NNN  uint16 // low 12 bits
}

// Decode splits word into its operand fields and identifies the opcode.
// Words that match no known encoding decode as OpUnknown.
func Decode(word uint16) Instruction {
	instr := Instruction{
		Word: word,
		Op:   OpUnknown,
		X:    bit.Nibble(word, 2),
		Y:    bit.Nibble(word, 1),
		N:    bit.Nibble(word, 0),
		NN:   bit.Low(word),
		NNN:  bit.Address(word),
	}

	for _, p := range families[bit.Nibble(word, 3)] {
		if word&p.mask == p.value {
			instr.Op = p.op
			break
		}
	}

	return instr
}

// String returns the assembly mnemonic of the instruction.
func (instr Instruction) String() string {
	name := instr.Op.String()

	switch instr.Op {
	case OpCLS, OpRET:
		return name
	case OpSYS, OpJP, OpCALL:
		return fmt.Sprintf("%s 0x%03X", name, instr.NNN)
	case OpSEImm, OpSNEImm, OpLDImm, OpADDImm, OpRND:
		return fmt.Sprintf("%s V%X, 0x%02X", name, instr.X, instr.NN)
	case OpSEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSUBN, OpSNEReg:
		return fmt.Sprintf("%s V%X, V%X", name, instr.X, instr.Y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("%s V%X", name, instr.X)
	case OpLDI:
		return fmt.Sprintf("%s I, 0x%03X", name, instr.NNN)
	case OpJPV0:
		return fmt.Sprintf("%s V0, 0x%03X", name, instr.NNN)
	case OpDRW:
		return fmt.Sprintf("%s V%X, V%X, %d", name, instr.X, instr.Y, instr.N)
	case OpLDVxDT:
		return fmt.Sprintf("%s V%X, DT", name, instr.X)
	case OpLDVxK:
		return fmt.Sprintf("%s V%X, K", name, instr.X)
	case OpLDDTVx:
		return fmt.Sprintf("%s DT, V%X", name, instr.X)
	case OpLDSTVx:
		return fmt.Sprintf("%s ST, V%X", name, instr.X)
	case OpADDI:
		return fmt.Sprintf("%s I, V%X", name, instr.X)
	case OpLDF:
		return fmt.Sprintf("%s F, V%X", name, instr.X)
	case OpLDB:
		return fmt.Sprintf("%s B, V%X", name, instr.X)
	case OpLDIVx:
		return fmt.Sprintf("%s [I], V%X", name, instr.X)
	case OpLDVxI:
		return fmt.Sprintf("%s V%X, [I]", name, instr.X)
	default:
		return fmt.Sprintf("DW 0x%04X", instr.Word)
	}
}

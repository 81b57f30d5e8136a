package memory

import (
	"errors"

	"github.com/valerio/go-chip8/chip8/translate"
)

var f = translate.From

const (
	// Size is the addressable memory, 4 KiB.
	Size = 0x1000
	// ProgramStart is where program images are loaded and execution begins.
	ProgramStart = 0x200
	// MaxProgramSize is the largest program image that fits in memory.
	MaxProgramSize = Size - ProgramStart
)

var (
	ErrOutOfBounds   = errors.New(f("address out of bounds"))
	ErrReservedWrite = errors.New(f("write to reserved interpreter area"))
)

// AccessError reports the address of a rejected memory access.
type AccessError struct {
	Address uint16
	Err     error
}

func (err *AccessError) Error() string {
	return f("%v at 0x%04X", err.Err, err.Address)
}

func (err *AccessError) Unwrap() error {
	return err.Err
}

// RAM is the interpreter memory. The area below ProgramStart holds interpreter
// data (the font) and cannot be written by programs.
type RAM struct {
	data [Size]byte
}

// New creates zeroed memory.
func New() *RAM {
	return &RAM{}
}

// Preload copies data at address regardless of the reserved area.
// It is meant for interpreter initialization, not for program access.
func (m *RAM) Preload(address uint16, data []byte) error {
	if err := checkRange(address, len(data)); err != nil {
		return err
	}
	copy(m.data[address:], data)
	return nil
}

// LoadProgram copies a program image at ProgramStart, silently dropping any
// byte that doesn't fit. Returns the number of bytes copied.
func (m *RAM) LoadProgram(program []byte) int {
	return copy(m.data[ProgramStart:], program)
}

// Read returns the byte at address.
func (m *RAM) Read(address uint16) (byte, error) {
	if err := checkRange(address, 1); err != nil {
		return 0, err
	}
	return m.data[address], nil
}

// ReadRange returns a view of n bytes starting at address.
// The returned slice aliases memory and must not be retained.
func (m *RAM) ReadRange(address uint16, n int) ([]byte, error) {
	if err := checkRange(address, n); err != nil {
		return nil, err
	}
	return m.data[address : int(address)+n], nil
}

// Write stores value at address.
func (m *RAM) Write(address uint16, value byte) error {
	return m.WriteRange(address, []byte{value})
}

// WriteRange stores values starting at address. Either the whole range is
// written or nothing is.
func (m *RAM) WriteRange(address uint16, values []byte) error {
	if err := checkRange(address, len(values)); err != nil {
		return err
	}
	if address < ProgramStart && len(values) > 0 {
		return &AccessError{Address: address, Err: ErrReservedWrite}
	}
	copy(m.data[address:], values)
	return nil
}

func checkRange(address uint16, n int) error {
	if n < 0 || int(address)+n > Size {
		return &AccessError{Address: address, Err: ErrOutOfBounds}
	}
	return nil
}

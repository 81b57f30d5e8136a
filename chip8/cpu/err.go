package cpu

import (
	"errors"

	"github.com/valerio/go-chip8/chip8/translate"
)

var f = translate.From

var (
	ErrStackUnderflow = errors.New(f("return with empty call stack"))
	ErrStackOverflow  = errors.New(f("call stack full"))
)

// Fault is a fatal execution error. PC is the address of the instruction
// that caused it and Word its raw encoding, zero if the fetch itself failed.
type Fault struct {
	PC   uint16
	Word uint16
	Err  error
}

func (err *Fault) Error() string {
	return f("fault at 0x%04X (opcode 0x%04X): %v", err.PC, err.Word, err.Err)
}

func (err *Fault) Unwrap() error {
	return err.Err
}

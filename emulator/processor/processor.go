/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package processor

import (
	"errors"
	"fmt"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
)

type Stats struct {
	NumInstructions uint64
	NumInvalid      uint64
	NumIgnored      uint64
	NumStalls       uint64
}

var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
)

// Fault is returned from Step when an instruction could not be executed.
// The machine state is left as it was before the instruction.
type Fault struct {
	Err    error
	PC     memory.Pointer
	Opcode uint16
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v at %v (opcode 0x%04X)", f.Err, f.PC, f.Opcode)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Debug receives diagnostics from the processor. Implementations must not
// modify processor state.
type Debug interface {
	InvalidOpcode(pc memory.Pointer, opcode uint16)

	// IgnoredOpcode is called for machine code calls (0nnn), which are not
	// executed. Zeroed memory decodes to one.
	IgnoredOpcode(pc memory.Pointer, opcode uint16)

	// Tracing reports if Trace should be called before every instruction.
	Tracing() bool
	Trace(pc memory.Pointer, instruction fmt.Stringer)
}

type Processor interface {
	Reset()
	LoadROM(data []byte) error
	Step() (int, error)
	GetRegisters() *Registers
	GetStats() Stats
	SetDebug(d Debug)
}

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
	"fmt"
	"strings"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
)

const (
	NumRegisters = 16
	StackSize    = 16
)

// VF is the register implicitly written by carry, borrow, shift and draw instructions.
const VF = 0xF

type Registers struct {
	V     [NumRegisters]byte
	I     uint16
	PC    memory.Pointer
	SP    byte
	Stack [StackSize]memory.Pointer
}

func (r *Registers) SetFlag(b bool) {
	if b {
		r.V[VF] = 1
		return
	}
	r.V[VF] = 0
}

// IP returns the address register as a memory pointer.
func (r *Registers) IP() memory.Pointer {
	return memory.Pointer(r.I).AddInt(0)
}

// Push stores a return address. The stack never wraps.
func (r *Registers) Push(addr memory.Pointer) error {
	if int(r.SP) >= StackSize {
		return ErrStackOverflow
	}
	r.Stack[r.SP] = addr
	r.SP++
	return nil
}

func (r *Registers) Pop() (memory.Pointer, error) {
	if r.SP == 0 {
		return 0, ErrStackUnderflow
	}
	r.SP--
	return r.Stack[r.SP], nil
}

func (r *Registers) String() string {
	var sb strings.Builder
	for i, v := range r.V {
		fmt.Fprintf(&sb, "V%X 0x%02X", i, v)
		if i%4 == 3 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte('\t')
		}
	}
	fmt.Fprintf(&sb, "PC %v\tI 0x%04X\tSP %d", r.PC, r.I, r.SP)
	return sb.String()
}

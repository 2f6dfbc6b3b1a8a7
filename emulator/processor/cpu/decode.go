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

package cpu

import (
	"fmt"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
)

// Op identifies one of the 35 recognized instructions.
type Op byte

const (
	OpInvalid Op = iota
	OpSYS        // 0nnn
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEImm      // 3xkk
	OpSNEImm     // 4xkk
	OpSEReg      // 5xy0
	OpLDImm      // 6xkk
	OpADDImm     // 7xkk
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADD        // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxkk
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDVxK      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDI       // Fx1E
	OpLDF        // Fx29
	OpLDB        // Fx33
	OpLDIVx      // Fx55
	OpLDVxI      // Fx65

	numOps
)

var mnemonics = [numOps]string{
	OpInvalid: "???",
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
	OpADD:     "ADD",
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

func (op Op) String() string {
	if op >= numOps {
		return mnemonics[OpInvalid]
	}
	return mnemonics[op]
}

// Instruction is a decoded opcode with all operand fields extracted.
type Instruction struct {
	Op     Op
	Opcode uint16

	X, Y, N byte
	KK      byte
	NNN     memory.Pointer
}

// Decode splits opcode into its nibbles and selects the operation. Opcodes
// that match none of the known patterns decode to OpInvalid.
func Decode(opcode uint16) Instruction {
	in := Instruction{
		Opcode: opcode,
		X:      byte(opcode>>8) & 0xF,
		Y:      byte(opcode>>4) & 0xF,
		N:      byte(opcode) & 0xF,
		KK:     byte(opcode),
		NNN:    memory.Pointer(opcode & 0xFFF),
	}
	in.Op = decodeOp(opcode>>12, in.X, in.Y, in.N)
	return in
}

func decodeOp(family uint16, x, y, n byte) Op {
	switch family {
	case 0x0:
		switch {
		case x == 0 && y == 0xE && n == 0x0:
			return OpCLS
		case x == 0 && y == 0xE && n == 0xE:
			return OpRET
		}
		return OpSYS
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEImm
	case 0x4:
		return OpSNEImm
	case 0x5:
		if n == 0 {
			return OpSEReg
		}
	case 0x6:
		return OpLDImm
	case 0x7:
		return OpADDImm
	case 0x8:
		switch n {
		case 0x0:
			return OpLDReg
		case 0x1:
			return OpOR
		case 0x2:
			return OpAND
		case 0x3:
			return OpXOR
		case 0x4:
			return OpADD
		case 0x5:
			return OpSUB
		case 0x6:
			return OpSHR
		case 0x7:
			return OpSUBN
		case 0xE:
			return OpSHL
		}
	case 0x9:
		if n == 0 {
			return OpSNEReg
		}
	case 0xA:
		return OpLDI
	case 0xB:
		return OpJPV0
	case 0xC:
		return OpRND
	case 0xD:
		return OpDRW
	case 0xE:
		switch {
		case y == 0x9 && n == 0xE:
			return OpSKP
		case y == 0xA && n == 0x1:
			return OpSKNP
		}
	case 0xF:
		switch byte(y<<4 | n) {
		case 0x07:
			return OpLDVxDT
		case 0x0A:
			return OpLDVxK
		case 0x15:
			return OpLDDTVx
		case 0x18:
			return OpLDSTVx
		case 0x1E:
			return OpADDI
		case 0x29:
			return OpLDF
		case 0x33:
			return OpLDB
		case 0x55:
			return OpLDIVx
		case 0x65:
			return OpLDVxI
		}
	}
	return OpInvalid
}

// String returns the instruction in assembler notation.
func (in Instruction) String() string {
	name := in.Op.String()
	switch in.Op {
	case OpCLS, OpRET:
		return name
	case OpSYS, OpJP, OpCALL:
		return fmt.Sprintf("%s $%03X", name, uint16(in.NNN))
	case OpSEImm, OpSNEImm, OpLDImm, OpADDImm, OpRND:
		return fmt.Sprintf("%s V%X, $%02X", name, in.X, in.KK)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADD, OpSUB, OpSUBN:
		return fmt.Sprintf("%s V%X, V%X", name, in.X, in.Y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("%s V%X", name, in.X)
	case OpLDI:
		return fmt.Sprintf("%s I, $%03X", name, uint16(in.NNN))
	case OpJPV0:
		return fmt.Sprintf("%s V0, $%03X", name, uint16(in.NNN))
	case OpDRW:
		return fmt.Sprintf("%s V%X, V%X, $%X", name, in.X, in.Y, in.N)
	case OpLDVxDT:
		return fmt.Sprintf("%s V%X, DT", name, in.X)
	case OpLDVxK:
		return fmt.Sprintf("%s V%X, K", name, in.X)
	case OpLDDTVx:
		return fmt.Sprintf("%s DT, V%X", name, in.X)
	case OpLDSTVx:
		return fmt.Sprintf("%s ST, V%X", name, in.X)
	case OpADDI:
		return fmt.Sprintf("%s I, V%X", name, in.X)
	case OpLDF:
		return fmt.Sprintf("%s F, V%X", name, in.X)
	case OpLDB:
		return fmt.Sprintf("%s B, V%X", name, in.X)
	case OpLDIVx:
		return fmt.Sprintf("%s [I], V%X", name, in.X)
	case OpLDVxI:
		return fmt.Sprintf("%s V%X, [I]", name, in.X)
	}
	return fmt.Sprintf("DW $%04X", in.Opcode)
}

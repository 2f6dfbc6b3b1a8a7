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

type handler func(*CPU, Instruction) error

var opcodeTable = [numOps]handler{
	OpSYS:    (*CPU).opSYS,
	OpCLS:    (*CPU).opCLS,
	OpRET:    (*CPU).opRET,
	OpJP:     (*CPU).opJP,
	OpCALL:   (*CPU).opCALL,
	OpSEImm:  (*CPU).opSEImm,
	OpSNEImm: (*CPU).opSNEImm,
	OpSEReg:  (*CPU).opSEReg,
	OpLDImm:  (*CPU).opLDImm,
	OpADDImm: (*CPU).opADDImm,
	OpLDReg:  (*CPU).opLDReg,
	OpOR:     (*CPU).opOR,
	OpAND:    (*CPU).opAND,
	OpXOR:    (*CPU).opXOR,
	OpADD:    (*CPU).opADD,
	OpSUB:    (*CPU).opSUB,
	OpSHR:    (*CPU).opSHR,
	OpSUBN:   (*CPU).opSUBN,
	OpSHL:    (*CPU).opSHL,
	OpSNEReg: (*CPU).opSNEReg,
	OpLDI:    (*CPU).opLDI,
	OpJPV0:   (*CPU).opJPV0,
	OpRND:    (*CPU).opRND,
	OpDRW:    (*CPU).opDRW,
	OpSKP:    (*CPU).opSKP,
	OpSKNP:   (*CPU).opSKNP,
	OpLDVxDT: (*CPU).opLDVxDT,
	OpLDVxK:  (*CPU).opLDVxK,
	OpLDDTVx: (*CPU).opLDDTVx,
	OpLDSTVx: (*CPU).opLDSTVx,
	OpADDI:   (*CPU).opADDI,
	OpLDF:    (*CPU).opLDF,
	OpLDB:    (*CPU).opLDB,
	OpLDIVx:  (*CPU).opLDIVx,
	OpLDVxI:  (*CPU).opLDVxI,
}

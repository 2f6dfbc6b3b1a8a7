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

package memory

import (
	"errors"
	"fmt"
)

const (
	Size       = 0x1000
	ROMStart   = 0x200
	MaxROMSize = Size - ROMStart
	FontBase   = 0x0
	GlyphSize  = 5

	addressMask = Size - 1
)

var ErrROMTooLarge = errors.New("ROM does not fit in memory")

// Font holds the 16 hexadecimal digit glyphs, five rows each.
var Font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Pointer is an address into the 4K address space. Arithmetic on pointers
// wraps at the end of memory.
type Pointer uint16

func (p Pointer) String() string {
	return fmt.Sprintf("0x%03X", uint16(p))
}

func (p Pointer) AddInt(i int) Pointer {
	return Pointer(int(p)+i) & addressMask
}

// GlyphPointer returns the address of the font glyph for the low nibble of digit.
func GlyphPointer(digit byte) Pointer {
	return FontBase + Pointer(digit&0xF)*GlyphSize
}

type Memory struct {
	mem [Size]byte
}

func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset clears memory and reinstalls the font table.
func (m *Memory) Reset() {
	m.mem = [Size]byte{}
	copy(m.mem[FontBase:], Font[:])
}

func (m *Memory) ReadByte(addr Pointer) byte {
	return m.mem[addr&addressMask]
}

func (m *Memory) WriteByte(addr Pointer, data byte) {
	m.mem[addr&addressMask] = data
}

// ReadWord reads a big-endian word, high byte first.
func (m *Memory) ReadWord(addr Pointer) uint16 {
	return uint16(m.ReadByte(addr))<<8 | uint16(m.ReadByte(addr.AddInt(1)))
}

// Load copies data into memory starting at addr. Nothing is written if the
// data would run past the end of memory.
func (m *Memory) Load(addr Pointer, data []byte) error {
	if int(addr)+len(data) > Size {
		return fmt.Errorf("%w: %d bytes at %v, %d available", ErrROMTooLarge, len(data), addr, Size-int(addr))
	}
	copy(m.mem[addr:], data)
	return nil
}

// Slice returns a copy of n bytes starting at addr.
func (m *Memory) Slice(addr Pointer, n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = m.ReadByte(addr.AddInt(i))
	}
	return buf
}

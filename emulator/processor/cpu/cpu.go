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
	"log"
	"math/rand"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/keyboard"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/pit"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/video"
	"github.com/andreas-jonsson/virtualc8/emulator/processor"
)

type instructionState struct {
	opcode   uint16
	decodeAt memory.Pointer

	jumped, stalled bool
}

// CPU is the interpreter. It is not safe for concurrent use; Step and any
// access to Video or Keyboard must happen on the same goroutine.
type CPU struct {
	processor.Registers
	instructionState

	Video    *video.Device
	Keyboard *keyboard.Device

	mem   *memory.Memory
	delay pit.Device
	sound byte

	rnd   *rand.Rand
	debug processor.Debug
	stats processor.Stats

	peripherals []peripheral.Peripheral
}

var _ processor.Processor = (*CPU)(nil)

func NewCPU() *CPU {
	p := &CPU{
		Video:    &video.Device{},
		Keyboard: keyboard.New(),
		mem:      memory.New(),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	p.peripherals = []peripheral.Peripheral{p.Video, p.Keyboard, &p.delay}
	p.Reset()
	return p
}

// SetDebug installs a diagnostics receiver. Passing nil reverts to the
// standard logger.
func (p *CPU) SetDebug(d processor.Debug) {
	p.debug = d
}

func (p *CPU) SetRand(r *rand.Rand) {
	p.rnd = r
}

// SetClock replaces the clock source of the delay timer.
func (p *CPU) SetClock(now func() time.Time) {
	p.delay.Now = now
	p.delay.Reset()
}

// Peripherals returns the devices owned by the processor.
func (p *CPU) Peripherals() []peripheral.Peripheral {
	return p.peripherals
}

// Reset clears registers, memory and peripherals. Any loaded ROM is lost.
func (p *CPU) Reset() {
	p.Registers = processor.Registers{PC: memory.ROMStart}
	p.instructionState = instructionState{}
	p.sound = 0
	p.mem.Reset()
	for _, d := range p.peripherals {
		d.Reset()
	}
}

// LoadROM copies data to the program entry point.
func (p *CPU) LoadROM(data []byte) error {
	return p.mem.Load(memory.ROMStart, data)
}

func (p *CPU) Memory() *memory.Memory {
	return p.mem
}

func (p *CPU) GetRegisters() *processor.Registers {
	return &p.Registers
}

func (p *CPU) GetStats() processor.Stats {
	s := p.stats
	p.stats = processor.Stats{}
	return s
}

func (p *CPU) DelayTimer() byte {
	return p.delay.Get()
}

func (p *CPU) SoundTimer() byte {
	return p.sound
}

// Step fetches, decodes and executes one instruction. It returns the number
// of instructions retired, which is zero while waiting for a key. Unknown
// opcodes are reported and skipped. A non-nil error is a *processor.Fault
// and leaves the machine as it was before the instruction.
func (p *CPU) Step() (int, error) {
	p.decodeAt = p.PC
	p.opcode = p.mem.ReadWord(p.PC)
	p.jumped, p.stalled = false, false

	in := Decode(p.opcode)
	if p.debug != nil && p.debug.Tracing() {
		p.debug.Trace(p.decodeAt, in)
	}

	if in.Op == OpInvalid {
		p.invalidOpcode()
		p.PC = p.PC.AddInt(2)
		p.stats.NumInstructions++
		return 1, nil
	}

	if err := opcodeTable[in.Op](p, in); err != nil {
		p.PC = p.decodeAt
		return 0, &processor.Fault{Err: err, PC: p.decodeAt, Opcode: p.opcode}
	}

	if p.stalled {
		p.stats.NumStalls++
		return 0, nil
	}
	if !p.jumped {
		p.PC = p.PC.AddInt(2)
	}
	p.stats.NumInstructions++
	return 1, nil
}

func (p *CPU) invalidOpcode() {
	p.stats.NumInvalid++
	if p.debug != nil {
		p.debug.InvalidOpcode(p.decodeAt, p.opcode)
		return
	}
	log.Printf("invalid opcode 0x%04X at %v", p.opcode, p.decodeAt)
}

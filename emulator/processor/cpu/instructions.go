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

import "github.com/andreas-jonsson/virtualc8/emulator/memory"

func (p *CPU) jump(addr memory.Pointer) {
	p.PC = addr
	p.jumped = true
}

func (p *CPU) skipIf(cond bool) {
	if cond {
		p.PC = p.PC.AddInt(2)
	}
}

// Machine code routines are not supported. The instruction is reported and
// otherwise ignored.
func (p *CPU) opSYS(in Instruction) error {
	p.stats.NumIgnored++
	if p.debug != nil {
		p.debug.IgnoredOpcode(p.decodeAt, in.Opcode)
	}
	return nil
}

func (p *CPU) opCLS(Instruction) error {
	p.Video.Clear()
	return nil
}

func (p *CPU) opRET(Instruction) error {
	addr, err := p.Pop()
	if err != nil {
		return err
	}
	p.jump(addr)
	return nil
}

func (p *CPU) opJP(in Instruction) error {
	p.jump(in.NNN)
	return nil
}

func (p *CPU) opCALL(in Instruction) error {
	if err := p.Push(p.PC.AddInt(2)); err != nil {
		return err
	}
	p.jump(in.NNN)
	return nil
}

func (p *CPU) opSEImm(in Instruction) error {
	p.skipIf(p.V[in.X] == in.KK)
	return nil
}

func (p *CPU) opSNEImm(in Instruction) error {
	p.skipIf(p.V[in.X] != in.KK)
	return nil
}

func (p *CPU) opSEReg(in Instruction) error {
	p.skipIf(p.V[in.X] == p.V[in.Y])
	return nil
}

func (p *CPU) opLDImm(in Instruction) error {
	p.V[in.X] = in.KK
	return nil
}

func (p *CPU) opADDImm(in Instruction) error {
	p.V[in.X] += in.KK
	return nil
}

func (p *CPU) opLDReg(in Instruction) error {
	p.V[in.X] = p.V[in.Y]
	return nil
}

func (p *CPU) opOR(in Instruction) error {
	p.V[in.X] |= p.V[in.Y]
	return nil
}

func (p *CPU) opAND(in Instruction) error {
	p.V[in.X] &= p.V[in.Y]
	return nil
}

func (p *CPU) opXOR(in Instruction) error {
	p.V[in.X] ^= p.V[in.Y]
	return nil
}

func (p *CPU) opADD(in Instruction) error {
	p.V[in.X] = p.add8(p.V[in.X], p.V[in.Y])
	return nil
}

func (p *CPU) opSUB(in Instruction) error {
	p.V[in.X] = p.sub8(p.V[in.X], p.V[in.Y])
	return nil
}

// Shifts operate on Vx in place; Vy is ignored.
func (p *CPU) opSHR(in Instruction) error {
	p.V[in.X] = p.shr8(p.V[in.X])
	return nil
}

func (p *CPU) opSUBN(in Instruction) error {
	p.V[in.X] = p.sub8(p.V[in.Y], p.V[in.X])
	return nil
}

func (p *CPU) opSHL(in Instruction) error {
	p.V[in.X] = p.shl8(p.V[in.X])
	return nil
}

func (p *CPU) opSNEReg(in Instruction) error {
	p.skipIf(p.V[in.X] != p.V[in.Y])
	return nil
}

func (p *CPU) opLDI(in Instruction) error {
	p.I = uint16(in.NNN)
	return nil
}

func (p *CPU) opJPV0(in Instruction) error {
	p.jump(in.NNN.AddInt(int(p.V[0])))
	return nil
}

func (p *CPU) opRND(in Instruction) error {
	p.V[in.X] = byte(p.rnd.Intn(0x100)) & in.KK
	return nil
}

func (p *CPU) opDRW(in Instruction) error {
	sprite := p.mem.Slice(p.IP(), int(in.N))
	p.SetFlag(p.Video.Blit(p.V[in.X], p.V[in.Y], sprite))
	return nil
}

func (p *CPU) opSKP(in Instruction) error {
	p.skipIf(p.Keyboard.Pressed(p.V[in.X]))
	return nil
}

func (p *CPU) opSKNP(in Instruction) error {
	p.skipIf(!p.Keyboard.Pressed(p.V[in.X]))
	return nil
}

func (p *CPU) opLDVxDT(in Instruction) error {
	p.V[in.X] = p.delay.Get()
	return nil
}

// Stores the first key slot that is up. While every key is held the
// instruction stalls and is fetched again on the next step.
func (p *CPU) opLDVxK(in Instruction) error {
	for k, v := range p.Keyboard.Keys {
		if v == 0 {
			p.V[in.X] = byte(k)
			return nil
		}
	}
	p.stalled = true
	return nil
}

func (p *CPU) opLDDTVx(in Instruction) error {
	p.delay.Set(p.V[in.X])
	return nil
}

func (p *CPU) opLDSTVx(in Instruction) error {
	p.sound = p.V[in.X]
	return nil
}

func (p *CPU) opADDI(in Instruction) error {
	p.I += uint16(p.V[in.X])
	return nil
}

func (p *CPU) opLDF(in Instruction) error {
	p.I = uint16(memory.GlyphPointer(p.V[in.X]))
	return nil
}

func (p *CPU) opLDB(in Instruction) error {
	v, i := p.V[in.X], p.IP()
	p.mem.WriteByte(i, v/100)
	p.mem.WriteByte(i.AddInt(1), (v%100)/10)
	p.mem.WriteByte(i.AddInt(2), v%10)
	return nil
}

func (p *CPU) opLDIVx(in Instruction) error {
	i := p.IP()
	for r := 0; r <= int(in.X); r++ {
		p.mem.WriteByte(i.AddInt(r), p.V[r])
	}
	return nil
}

func (p *CPU) opLDVxI(in Instruction) error {
	i := p.IP()
	for r := 0; r <= int(in.X); r++ {
		p.V[r] = p.mem.ReadByte(i.AddInt(r))
	}
	return nil
}

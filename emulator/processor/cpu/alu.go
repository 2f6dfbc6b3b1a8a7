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

import "github.com/andreas-jonsson/virtualc8/emulator/processor"

// The result is written after the flag, so a destination of VF keeps the result.

func (p *CPU) add8(a, b byte) byte {
	r := uint16(a) + uint16(b)
	p.SetFlag(r > 0xFF)
	return byte(r)
}

func (p *CPU) sub8(a, b byte) byte {
	p.SetFlag(a >= b)
	return a - b
}

func (p *CPU) shr8(v byte) byte {
	p.V[processor.VF] = v & 1
	return v >> 1
}

func (p *CPU) shl8(v byte) byte {
	p.V[processor.VF] = v >> 7
	return v << 1
}

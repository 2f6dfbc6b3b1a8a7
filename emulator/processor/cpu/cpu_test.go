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
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/pit"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/video"
	"github.com/andreas-jonsson/virtualc8/emulator/processor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	invalid []uint16
	ignored []string
	traces  []string
	noTrace bool
}

func (r *recorder) InvalidOpcode(_ memory.Pointer, opcode uint16) {
	r.invalid = append(r.invalid, opcode)
}

func (r *recorder) IgnoredOpcode(pc memory.Pointer, opcode uint16) {
	r.ignored = append(r.ignored, fmt.Sprintf("%v 0x%04X", pc, opcode))
}

func (r *recorder) Tracing() bool {
	return !r.noTrace
}

func (r *recorder) Trace(pc memory.Pointer, in fmt.Stringer) {
	r.traces = append(r.traces, fmt.Sprintf("%v %v", pc, in))
}

func assemble(program ...uint16) []byte {
	rom := make([]byte, 0, len(program)*2)
	for _, w := range program {
		rom = append(rom, byte(w>>8), byte(w))
	}
	return rom
}

func newTestCPU(t *testing.T, program ...uint16) *CPU {
	p := NewCPU()
	p.SetRand(rand.New(rand.NewSource(1)))
	p.SetDebug(&recorder{})
	require.NoError(t, p.LoadROM(assemble(program...)))
	return p
}

func run(t *testing.T, p *CPU, n int) {
	for i := 0; i < n; i++ {
		_, err := p.Step()
		require.NoError(t, err)
	}
}

// execute runs a single opcode placed at the entry point.
func execute(t *testing.T, p *CPU, opcode uint16) int {
	p.PC = memory.ROMStart
	require.NoError(t, p.LoadROM(assemble(opcode)))
	n, err := p.Step()
	require.NoError(t, err)
	return n
}

func TestNewCPU(t *testing.T) {
	p := NewCPU()
	assert.Equal(t, memory.Pointer(memory.ROMStart), p.PC)
	assert.True(t, p.Video.Dirty)
	assert.Equal(t, [processor.NumRegisters]byte{}, p.V)
	assert.Equal(t, byte(0), p.SP)
	assert.Equal(t, uint16(0), p.I)
	assert.Equal(t, memory.Font[:], p.Memory().Slice(memory.FontBase, len(memory.Font)))
}

func TestLoadROM(t *testing.T) {
	p := NewCPU()
	require.NoError(t, p.LoadROM(make([]byte, memory.MaxROMSize)))
	err := p.LoadROM(make([]byte, memory.MaxROMSize+1))
	assert.True(t, errors.Is(err, memory.ErrROMTooLarge))
}

func TestScenarios(t *testing.T) {
	t.Run("ClearAndSpin", func(t *testing.T) {
		p := newTestCPU(t, 0x00E0, 0x1202)
		p.Video.Blit(0, 0, []byte{0xFF})
		p.Video.Dirty = false

		run(t, p, 1)
		assert.Equal(t, [video.Height][video.Width]byte{}, p.Video.Pixels)
		assert.True(t, p.Video.Dirty)

		run(t, p, 1)
		regs := p.Registers
		for i := 0; i < 100; i++ {
			run(t, p, 1)
			assert.Equal(t, memory.Pointer(0x202), p.PC)
		}
		assert.Equal(t, regs, p.Registers)
	})

	t.Run("ClearAndLoop", func(t *testing.T) {
		p := newTestCPU(t, 0x00E0, 0x1200)
		p.Video.Blit(0, 0, []byte{0xFF})

		for i := 0; i < 50; i++ {
			p.Video.Dirty = false
			run(t, p, 1)
			assert.Equal(t, memory.Pointer(0x202), p.PC)
			assert.True(t, p.Video.Dirty)

			run(t, p, 1)
			assert.Equal(t, memory.Pointer(0x200), p.PC)
		}
		assert.Equal(t, [video.Height][video.Width]byte{}, p.Video.Pixels)
		assert.Equal(t, uint64(100), p.GetStats().NumInstructions)
	})

	t.Run("AddRegisters", func(t *testing.T) {
		p := newTestCPU(t, 0x6005, 0x6103, 0x8014)
		run(t, p, 3)
		assert.Equal(t, byte(8), p.V[0])
		assert.Equal(t, byte(3), p.V[1])
		assert.Equal(t, byte(0), p.V[0xF])
		assert.Equal(t, memory.Pointer(0x206), p.PC)
	})
}

func TestArithmetic(t *testing.T) {
	p := newTestCPU(t)

	t.Run("AddCarry", func(t *testing.T) {
		for a := 0; a < 256; a++ {
			for b := 0; b < 256; b++ {
				p.V[1], p.V[2] = byte(a), byte(b)
				execute(t, p, 0x8124)
				require.Equal(t, byte((a+b)%256), p.V[1])
				require.Equal(t, a+b > 255, p.V[0xF] == 1)
			}
		}
	})

	t.Run("SubBorrow", func(t *testing.T) {
		for a := 0; a < 256; a++ {
			for b := 0; b < 256; b++ {
				p.V[1], p.V[2] = byte(a), byte(b)
				execute(t, p, 0x8125)
				require.Equal(t, byte((a-b+256)%256), p.V[1])
				require.Equal(t, a >= b, p.V[0xF] == 1)
			}
		}
	})

	t.Run("SubN", func(t *testing.T) {
		p.V[1], p.V[2] = 3, 10
		execute(t, p, 0x8127)
		assert.Equal(t, byte(7), p.V[1])
		assert.Equal(t, byte(1), p.V[0xF])

		p.V[1], p.V[2] = 10, 3
		execute(t, p, 0x8127)
		assert.Equal(t, byte(249), p.V[1])
		assert.Equal(t, byte(0), p.V[0xF])
	})

	t.Run("Shift", func(t *testing.T) {
		for v := 0; v < 256; v++ {
			p.V[3], p.V[4] = byte(v), 0x55
			execute(t, p, 0x8346)
			require.Equal(t, byte(v>>1), p.V[3])
			require.Equal(t, byte(v&1), p.V[0xF])
			require.Equal(t, byte(0x55), p.V[4])

			p.V[3] = byte(v)
			execute(t, p, 0x834E)
			require.Equal(t, byte(v<<1), p.V[3])
			require.Equal(t, byte(v>>7), p.V[0xF])
		}
	})

	t.Run("FlagDestination", func(t *testing.T) {
		p.V[0xF], p.V[1] = 0xFF, 0x02
		execute(t, p, 0x8F14)
		assert.Equal(t, byte(0x01), p.V[0xF])

		p.V[0xF] = 0x81
		execute(t, p, 0x8F06)
		assert.Equal(t, byte(0x40), p.V[0xF])
	})

	t.Run("AddImmediate", func(t *testing.T) {
		p.V[0], p.V[0xF] = 0xFF, 0x55
		execute(t, p, 0x7002)
		assert.Equal(t, byte(0x01), p.V[0])
		assert.Equal(t, byte(0x55), p.V[0xF])
	})

	t.Run("Logic", func(t *testing.T) {
		p.V[0xF] = 0x77
		p.V[1], p.V[2] = 0xF0, 0x3C
		execute(t, p, 0x8121)
		assert.Equal(t, byte(0xFC), p.V[1])

		p.V[1] = 0xF0
		execute(t, p, 0x8122)
		assert.Equal(t, byte(0x30), p.V[1])

		p.V[1] = 0xF0
		execute(t, p, 0x8123)
		assert.Equal(t, byte(0xCC), p.V[1])

		execute(t, p, 0x8120)
		assert.Equal(t, byte(0x3C), p.V[1])
		assert.Equal(t, byte(0x77), p.V[0xF])

		execute(t, p, 0x6A42)
		assert.Equal(t, byte(0x42), p.V[0xA])
	})

	t.Run("Random", func(t *testing.T) {
		p.SetRand(rand.New(rand.NewSource(42)))
		want := byte(rand.New(rand.NewSource(42)).Intn(0x100)) & 0x0F
		execute(t, p, 0xC50F)
		assert.Equal(t, want, p.V[5])

		for i := 0; i < 100; i++ {
			execute(t, p, 0xC50F)
			require.LessOrEqual(t, p.V[5], byte(0x0F))
		}
		execute(t, p, 0xC500)
		assert.Equal(t, byte(0), p.V[5])
	})
}

func TestSkip(t *testing.T) {
	p := newTestCPU(t)
	p.V[1], p.V[2], p.V[3] = 0x10, 0x10, 0x20

	for _, tc := range []struct {
		name   string
		opcode uint16
		skip   bool
	}{
		{"SEImmTrue", 0x3110, true},
		{"SEImmFalse", 0x3111, false},
		{"SNEImmTrue", 0x4111, true},
		{"SNEImmFalse", 0x4110, false},
		{"SERegTrue", 0x5120, true},
		{"SERegFalse", 0x5130, false},
		{"SNERegTrue", 0x9130, true},
		{"SNERegFalse", 0x9120, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			execute(t, p, tc.opcode)
			if tc.skip {
				assert.Equal(t, memory.Pointer(0x204), p.PC)
			} else {
				assert.Equal(t, memory.Pointer(0x202), p.PC)
			}
		})
	}

	t.Run("Keys", func(t *testing.T) {
		p.V[4] = 0xB
		execute(t, p, 0xE49E)
		assert.Equal(t, memory.Pointer(0x202), p.PC)
		execute(t, p, 0xE4A1)
		assert.Equal(t, memory.Pointer(0x204), p.PC)

		p.Keyboard.Press(0xB)
		execute(t, p, 0xE49E)
		assert.Equal(t, memory.Pointer(0x204), p.PC)
		execute(t, p, 0xE4A1)
		assert.Equal(t, memory.Pointer(0x202), p.PC)
	})
}

func TestControlFlow(t *testing.T) {
	t.Run("Jump", func(t *testing.T) {
		p := newTestCPU(t)
		execute(t, p, 0x1ABC)
		assert.Equal(t, memory.Pointer(0xABC), p.PC)

		p.V[0] = 0x10
		execute(t, p, 0xB300)
		assert.Equal(t, memory.Pointer(0x310), p.PC)

		p.V[0] = 0xFF
		execute(t, p, 0xBFF0)
		assert.Equal(t, memory.Pointer(0x0EF), p.PC)

		execute(t, p, 0x1000)
		assert.Equal(t, memory.Pointer(0), p.PC)
	})

	t.Run("CallReturn", func(t *testing.T) {
		p := newTestCPU(t,
			0x2206, // 200: CALL 206
			0x6107, // 202: LD V1, 7
			0x1204, // 204: JP 204
			0x6005, // 206: LD V0, 5
			0x00EE, // 208: RET
		)
		p.V[2] = 0x99

		run(t, p, 1)
		assert.Equal(t, memory.Pointer(0x206), p.PC)
		assert.Equal(t, byte(1), p.SP)
		assert.Equal(t, memory.Pointer(0x202), p.Stack[0])

		run(t, p, 2)
		assert.Equal(t, memory.Pointer(0x202), p.PC)
		assert.Equal(t, byte(0), p.SP)
		assert.Equal(t, byte(5), p.V[0])
		assert.Equal(t, byte(0), p.V[1])
		assert.Equal(t, byte(0x99), p.V[2])

		run(t, p, 1)
		assert.Equal(t, byte(7), p.V[1])
	})

	t.Run("StackOverflow", func(t *testing.T) {
		p := newTestCPU(t, 0x2200)
		run(t, p, processor.StackSize)
		assert.Equal(t, byte(processor.StackSize), p.SP)

		n, err := p.Step()
		assert.Equal(t, 0, n)
		assert.True(t, errors.Is(err, processor.ErrStackOverflow))

		var fault *processor.Fault
		require.True(t, errors.As(err, &fault))
		assert.Equal(t, memory.Pointer(0x200), fault.PC)
		assert.Equal(t, uint16(0x2200), fault.Opcode)
		assert.Equal(t, memory.Pointer(0x200), p.PC)
		assert.Equal(t, byte(processor.StackSize), p.SP)
	})

	t.Run("StackUnderflow", func(t *testing.T) {
		p := newTestCPU(t, 0x00EE)
		_, err := p.Step()
		assert.True(t, errors.Is(err, processor.ErrStackUnderflow))
		assert.EqualError(t, err, "stack underflow at 0x200 (opcode 0x00EE)")
		assert.Equal(t, memory.Pointer(0x200), p.PC)
		assert.Equal(t, byte(0), p.SP)
	})
}

func TestMemoryInstructions(t *testing.T) {
	p := newTestCPU(t)

	t.Run("Address", func(t *testing.T) {
		execute(t, p, 0xA123)
		assert.Equal(t, uint16(0x123), p.I)

		p.V[2] = 0x20
		execute(t, p, 0xF21E)
		assert.Equal(t, uint16(0x143), p.I)
		assert.Equal(t, byte(0), p.V[0xF])

		p.I = 0xFFFF
		p.V[2] = 1
		execute(t, p, 0xF21E)
		assert.Equal(t, uint16(0), p.I)
	})

	t.Run("Glyph", func(t *testing.T) {
		p.V[3] = 0xA
		execute(t, p, 0xF329)
		assert.Equal(t, uint16(50), p.I)
		assert.Equal(t, memory.Font[50:55], p.Memory().Slice(memory.Pointer(p.I), 5))
	})

	t.Run("BCD", func(t *testing.T) {
		p.I = 0x300
		p.V[4] = 234
		execute(t, p, 0xF433)
		assert.Equal(t, []byte{2, 3, 4}, p.Memory().Slice(0x300, 3))

		p.V[4] = 7
		execute(t, p, 0xF433)
		assert.Equal(t, []byte{0, 0, 7}, p.Memory().Slice(0x300, 3))
		assert.Equal(t, uint16(0x300), p.I)
	})

	t.Run("StoreLoad", func(t *testing.T) {
		p.I = 0x400
		for i := range p.V {
			p.V[i] = byte(i + 1)
		}
		execute(t, p, 0xF355)
		assert.Equal(t, []byte{1, 2, 3, 4, 0}, p.Memory().Slice(0x400, 5))
		assert.Equal(t, uint16(0x400), p.I)

		p.V = [processor.NumRegisters]byte{}
		execute(t, p, 0xF265)
		assert.Equal(t, []byte{1, 2, 3, 0}, p.V[:4])

		execute(t, p, 0xF065)
		assert.Equal(t, byte(1), p.V[0])
	})

	t.Run("StoreAll", func(t *testing.T) {
		p.I = 0x500
		for i := range p.V {
			p.V[i] = byte(0xF0 + i)
		}
		want := p.V
		execute(t, p, 0xFF55)
		p.V = [processor.NumRegisters]byte{}
		execute(t, p, 0xFF65)
		assert.Equal(t, want, p.V)
	})
}

func TestDraw(t *testing.T) {
	t.Run("Glyph", func(t *testing.T) {
		p := newTestCPU(t, 0xD015, 0xD015)
		p.I = uint16(memory.GlyphPointer(0))
		p.Video.Dirty = false

		run(t, p, 1)
		assert.True(t, p.Video.Dirty)
		assert.Equal(t, byte(0), p.V[0xF])
		for row := 0; row < 5; row++ {
			for bit := 0; bit < 8; bit++ {
				want := (memory.Font[row] >> (7 - bit)) & 1
				require.Equal(t, want, p.Video.Pixel(bit, row))
			}
		}

		run(t, p, 1)
		assert.Equal(t, byte(1), p.V[0xF])
		assert.Equal(t, [video.Height][video.Width]byte{}, p.Video.Pixels)
	})

	t.Run("Collision", func(t *testing.T) {
		p := newTestCPU(t, 0xD201, 0xD121)
		p.I = 0x300
		p.Memory().WriteByte(0x300, 0x80)
		p.V[1] = 1

		run(t, p, 1)
		assert.Equal(t, byte(0), p.V[0xF])
		run(t, p, 1)
		assert.Equal(t, byte(0), p.V[0xF])
		assert.Equal(t, byte(1), p.Video.Pixel(0, 0))
		assert.Equal(t, byte(1), p.Video.Pixel(1, 0))
	})

	t.Run("Wrap", func(t *testing.T) {
		p := newTestCPU(t, 0xD011)
		p.I = 0x300
		p.Memory().WriteByte(0x300, 0xC0)
		p.V[0] = video.Width - 1
		p.V[1] = video.Height - 1

		run(t, p, 1)
		assert.Equal(t, byte(1), p.Video.Pixel(video.Width-1, video.Height-1))
		assert.Equal(t, byte(1), p.Video.Pixels[video.Height-1][0])
	})

	t.Run("Empty", func(t *testing.T) {
		p := newTestCPU(t, 0xD010)
		p.V[0xF] = 1
		p.Video.Dirty = false
		run(t, p, 1)
		assert.Equal(t, byte(0), p.V[0xF])
		assert.True(t, p.Video.Dirty)
	})
}

func TestTimers(t *testing.T) {
	now := time.Unix(0, 0)
	p := newTestCPU(t)
	p.SetClock(func() time.Time { return now })

	p.V[0] = 10
	execute(t, p, 0xF015)
	execute(t, p, 0xF107)
	assert.Equal(t, byte(10), p.V[1])

	now = now.Add(3 * pit.TickInterval)
	execute(t, p, 0xF107)
	assert.Equal(t, byte(7), p.V[1])
	assert.Equal(t, byte(7), p.DelayTimer())

	now = now.Add(10 * pit.TickInterval)
	execute(t, p, 0xF107)
	assert.Equal(t, byte(0), p.V[1])

	p.V[2] = 30
	execute(t, p, 0xF218)
	assert.Equal(t, byte(30), p.SoundTimer())
	now = now.Add(time.Second)
	assert.Equal(t, byte(30), p.SoundTimer())
}

func TestKeyWait(t *testing.T) {
	t.Run("Stall", func(t *testing.T) {
		p := newTestCPU(t, 0xF20A)
		for k := byte(0); k < 16; k++ {
			p.Keyboard.Press(k)
		}

		for i := 0; i < 3; i++ {
			n, err := p.Step()
			require.NoError(t, err)
			assert.Equal(t, 0, n)
			assert.Equal(t, memory.Pointer(0x200), p.PC)
		}
		assert.Equal(t, uint64(3), p.GetStats().NumStalls)

		p.Keyboard.Release(5)
		n, err := p.Step()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, byte(5), p.V[2])
		assert.Equal(t, memory.Pointer(0x202), p.PC)
	})

	t.Run("FirstReleased", func(t *testing.T) {
		p := newTestCPU(t, 0xF30A)
		p.Keyboard.Press(0)
		p.Keyboard.Press(1)
		run(t, p, 1)
		assert.Equal(t, byte(2), p.V[3])
	})
}

func TestInvalidOpcode(t *testing.T) {
	p := newTestCPU(t, 0xFFFF, 0x5121, 0x6042)
	rec := &recorder{}
	p.SetDebug(rec)

	for i := 0; i < 3; i++ {
		n, err := p.Step()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}
	assert.Equal(t, []uint16{0xFFFF, 0x5121}, rec.invalid)
	assert.Equal(t, byte(0x42), p.V[0])
	assert.Equal(t, memory.Pointer(0x206), p.PC)
	assert.Equal(t, []string{"0x200 DW $FFFF", "0x202 DW $5121", "0x204 LD V0, $42"}, rec.traces)

	s := p.GetStats()
	assert.Equal(t, uint64(2), s.NumInvalid)
	assert.Equal(t, uint64(3), s.NumInstructions)
	assert.Equal(t, processor.Stats{}, p.GetStats())
}

func TestIgnoredOpcode(t *testing.T) {
	p := newTestCPU(t, 0x0000, 0x0123, 0x6042)
	rec := &recorder{}
	p.SetDebug(rec)

	run(t, p, 3)
	assert.Equal(t, []string{"0x200 0x0000", "0x202 0x0123"}, rec.ignored)
	assert.Empty(t, rec.invalid)
	assert.Equal(t, byte(0x42), p.V[0])
	assert.Equal(t, memory.Pointer(0x206), p.PC)

	s := p.GetStats()
	assert.Equal(t, uint64(2), s.NumIgnored)
	assert.Equal(t, uint64(0), s.NumInvalid)
	assert.Equal(t, uint64(3), s.NumInstructions)

	t.Run("NoDebug", func(t *testing.T) {
		p := newTestCPU(t, 0x0000)
		p.SetDebug(nil)
		run(t, p, 1)
		assert.Equal(t, memory.Pointer(0x202), p.PC)
		assert.Equal(t, uint64(1), p.GetStats().NumIgnored)
	})
}

func TestTracing(t *testing.T) {
	p := newTestCPU(t, 0x6001, 0xFFFF, 0x0000)
	rec := &recorder{noTrace: true}
	p.SetDebug(rec)

	run(t, p, 3)
	assert.Empty(t, rec.traces)
	assert.Equal(t, []uint16{0xFFFF}, rec.invalid)
	assert.Len(t, rec.ignored, 1)

	rec.noTrace = false
	p.PC = memory.ROMStart
	run(t, p, 1)
	assert.Equal(t, []string{"0x200 LD V0, $01"}, rec.traces)
}

func TestReset(t *testing.T) {
	p := newTestCPU(t, 0x6005, 0x2300)
	run(t, p, 2)
	p.Keyboard.Press(3)
	p.Video.Blit(0, 0, []byte{0xFF})
	p.Video.Dirty = false

	p.Reset()
	assert.Equal(t, processor.Registers{PC: memory.ROMStart}, p.Registers)
	assert.True(t, p.Video.Dirty)
	assert.False(t, p.Keyboard.Pressed(3))
	assert.Equal(t, uint16(0), p.Memory().ReadWord(memory.ROMStart))
	assert.Equal(t, byte(0), p.DelayTimer())
}

func BenchmarkStep(b *testing.B) {
	p := NewCPU()
	p.SetRand(rand.New(rand.NewSource(1)))
	if err := p.LoadROM(assemble(0x6001, 0x7101, 0xA000, 0xD015, 0x8014, 0x1202)); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Step(); err != nil {
			b.Fatal(err)
		}
	}
}

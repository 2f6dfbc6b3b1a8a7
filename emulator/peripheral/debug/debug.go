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

package debug

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
	"github.com/andreas-jonsson/virtualc8/emulator/processor"
)

// HistorySize is the number of executed instructions kept for inspection.
const HistorySize = 128

var EnableDebug bool

var (
	internalLogger = &Logger{out: os.Stderr}
	Log            = log.New(internalLogger, "", log.LstdFlags)
)

type Logger struct {
	sync.RWMutex
	out   io.Writer
	muted bool
}

func (l *Logger) Write(p []byte) (int, error) {
	l.RLock()
	defer l.RUnlock()
	if l.muted {
		return len(p), nil
	}
	return l.out.Write(p)
}

func init() {
	flag.BoolVar(&EnableDebug, "debug", false, "Record instruction history and dump it on faults")
	log.SetOutput(internalLogger)
}

// MuteLogging discards all log output while set. Used by backends that own
// the terminal.
func MuteLogging(b bool) {
	internalLogger.Lock()
	internalLogger.muted = b
	internalLogger.Unlock()
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	internalLogger.Lock()
	internalLogger.out = w
	internalLogger.Unlock()
}

// Device receives diagnostics from the processor. It counts unknown and
// ignored opcodes and, with history enabled, keeps the most recent
// instructions in a ring.
type Device struct {
	historyChan         chan string
	numInstructionsLost uint64
	numInvalid          uint64
	numIgnored          uint64
	invalid             map[uint16]uint64
	ignored             map[uint16]uint64

	NoHistory bool

	r *processor.Registers
}

func (m *Device) Install(p processor.Processor) error {
	m.historyChan = make(chan string, HistorySize)
	m.invalid = make(map[uint16]uint64)
	m.ignored = make(map[uint16]uint64)
	m.r = p.GetRegisters()
	p.SetDebug(m)
	return nil
}

func (m *Device) Name() string {
	return "Debug Device"
}

func (m *Device) Reset() {
	m.numInstructionsLost = 0
	m.numInvalid = 0
	m.numIgnored = 0
	for k := range m.invalid {
		delete(m.invalid, k)
	}
	for k := range m.ignored {
		delete(m.ignored, k)
	}
drainHistory:
	select {
	case <-m.historyChan:
		goto drainHistory
	default:
	}
}

func (m *Device) InvalidOpcode(pc memory.Pointer, opcode uint16) {
	m.numInvalid++
	m.invalid[opcode]++
	if m.invalid[opcode] == 1 || EnableDebug {
		Log.Printf("Invalid opcode 0x%04X at %v", opcode, pc)
	}
}

func (m *Device) IgnoredOpcode(pc memory.Pointer, opcode uint16) {
	m.numIgnored++
	m.ignored[opcode]++
	if m.ignored[opcode] == 1 || EnableDebug {
		Log.Printf("Ignored machine code call 0x%04X at %v", opcode, pc)
	}
}

func (m *Device) Tracing() bool {
	return !m.NoHistory
}

func (m *Device) Trace(pc memory.Pointer, inst fmt.Stringer) {
	if !m.NoHistory {
		m.pushHistory(fmt.Sprintf("| [%v] %v", pc, inst))
	}
}

// NumInvalid returns how many unknown opcodes have been reported in total
// and how many of them were distinct.
func (m *Device) NumInvalid() (total uint64, distinct int) {
	return m.numInvalid, len(m.invalid)
}

// NumIgnored returns how many machine code calls have been skipped in total
// and how many of them were distinct.
func (m *Device) NumIgnored() (total uint64, distinct int) {
	return m.numIgnored, len(m.ignored)
}

// History returns the recorded instructions, oldest first.
func (m *Device) History() []string {
	n := len(m.historyChan)
	hist := make([]string, 0, n)
	for i := 0; i < n; i++ {
		inst := <-m.historyChan
		hist = append(hist, inst)
		m.historyChan <- inst
	}
	return hist
}

func (m *Device) showHistory(num int) {
	hist := m.History()
	if len(hist) > num {
		hist = hist[len(hist)-num:]
	}
	Log.Println("| Lost instructions:", m.numInstructionsLost)
	for _, inst := range hist {
		Log.Println(inst)
	}
}

func (m *Device) pushHistory(inst string) {
	select {
	case m.historyChan <- inst:
	default:
		<-m.historyChan
		m.numInstructionsLost++
		m.historyChan <- inst
	}
}

// DumpState logs the registers and the tail of the instruction history.
func (m *Device) DumpState() {
	if m.r != nil {
		Log.Print("\n" + m.r.String())
	}
	if !m.NoHistory {
		m.showHistory(16)
	}
}

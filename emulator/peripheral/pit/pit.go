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

package pit

import "time"

// TickInterval is the decay period of the delay timer.
const TickInterval = 15 * time.Millisecond

// Device is the delay timer. It holds the last value written and the time it
// was written; the current value is derived from elapsed wall-clock time on
// every read, so it does not depend on how often the processor is stepped.
type Device struct {
	value byte
	start time.Time

	// Now is used as the clock source if set.
	Now func() time.Time
}

func (m *Device) Name() string {
	return "Delay Timer"
}

func (m *Device) Reset() {
	m.Set(0)
}

func (m *Device) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Device) Set(v byte) {
	m.value = v
	m.start = m.now()
}

func (m *Device) Get() byte {
	ticks := m.now().Sub(m.start) / TickInterval
	if ticks < 0 {
		ticks = 0
	}
	if ticks >= time.Duration(m.value) {
		m.value = 0
		return 0
	}
	return m.value - byte(ticks)
}

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

package keyboard

import (
	"errors"
)

const (
	NumKeys   = 16
	MaxEvents = 64
)

var ErrQueueFull = errors.New("event queue is full")

type Event struct {
	Key byte
	Up  bool
}

// Device is the 16 key hexadecimal keypad. Keys holds 1 for every key that
// is currently held down. Events pushed from other goroutines are applied by
// Step, which must run on the goroutine that steps the processor.
type Device struct {
	Keys   [NumKeys]byte
	events chan Event
}

func New() *Device {
	return &Device{events: make(chan Event, MaxEvents)}
}

func (m *Device) Name() string {
	return "Hex Keypad"
}

func (m *Device) Reset() {
	m.Keys = [NumKeys]byte{}
	for {
		select {
		case <-m.events:
		default:
			return
		}
	}
}

func (m *Device) Press(key byte) {
	m.Keys[key&0xF] = 1
}

func (m *Device) Release(key byte) {
	m.Keys[key&0xF] = 0
}

func (m *Device) Pressed(key byte) bool {
	return m.Keys[key&0xF] == 1
}

func (m *Device) PushEvent(ev Event) error {
	select {
	case m.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Step applies all queued events and returns how many were applied.
func (m *Device) Step() int {
	for n := 0; ; n++ {
		select {
		case ev := <-m.events:
			if ev.Up {
				m.Release(ev.Key)
			} else {
				m.Press(ev.Key)
			}
		default:
			return n
		}
	}
}

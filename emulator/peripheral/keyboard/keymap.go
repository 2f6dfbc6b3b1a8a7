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
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// DefaultLayout maps keypad slots to the left hand side of a QWERTY keyboard.
var DefaultLayout = [NumKeys]string{
	"x", "1", "2", "3",
	"q", "w", "e", "a",
	"s", "d", "z", "c",
	"4", "r", "f", "v",
}

// Keymap translates key names, as reported by the platform, to keypad slots.
type Keymap map[string]byte

func DefaultKeymap() Keymap {
	km, _ := newKeymap(DefaultLayout[:])
	return km
}

// ParseKeymap reads a JSON array of 16 key names. The index of a name is the
// keypad slot it is bound to.
func ParseKeymap(data []byte) (Keymap, error) {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("invalid keymap: %w", err)
	}
	if len(names) != NumKeys {
		return nil, fmt.Errorf("invalid keymap: expected %d keys, got %d", NumKeys, len(names))
	}
	return newKeymap(names)
}

func LoadKeymap(fs afero.Fs, name string) (Keymap, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}
	return ParseKeymap(data)
}

func newKeymap(names []string) (Keymap, error) {
	km := make(Keymap, len(names))
	for i, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			return nil, errors.New("invalid keymap: empty key name")
		}
		if slot, ok := km[n]; ok {
			return nil, fmt.Errorf("invalid keymap: %q bound to both 0x%X and 0x%X", n, slot, i)
		}
		km[n] = byte(i)
	}
	return km, nil
}

func (k Keymap) Lookup(name string) (byte, bool) {
	slot, ok := k[strings.ToLower(name)]
	return slot, ok
}

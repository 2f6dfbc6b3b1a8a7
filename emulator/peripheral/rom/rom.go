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

package rom

import (
	"bytes"
	"fmt"
	"io"
	"path"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
	"github.com/andreas-jonsson/virtualc8/emulator/processor"
	"github.com/spf13/afero"
)

// Device holds a program image. The image is read from Reader on the first
// Install and kept, so it can be installed again after the processor is reset.
type Device struct {
	mem []byte

	RomName string
	Reader  io.Reader
}

// Open reads a program image from fs.
func Open(fs afero.Fs, name string) (*Device, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}
	return &Device{RomName: path.Base(name), Reader: bytes.NewReader(data)}, nil
}

func (m *Device) Install(p processor.Processor) error {
	if m.mem == nil {
		data, err := io.ReadAll(m.Reader)
		if err != nil {
			return err
		}
		if len(data) > memory.MaxROMSize {
			return fmt.Errorf("%w: %s is %d bytes, limit is %d", memory.ErrROMTooLarge, m.Name(), len(data), memory.MaxROMSize)
		}
		m.mem = data
	}
	return p.LoadROM(m.mem)
}

func (m *Device) Name() string {
	if m.RomName == "" {
		return "ROM"
	}
	return m.RomName
}

func (m *Device) Reset() {
}

func (m *Device) Size() int {
	return len(m.mem)
}

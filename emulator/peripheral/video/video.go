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

package video

const (
	Width  = 64
	Height = 32

	spriteWidth = 8
)

// Device is a monochrome framebuffer. Pixels are 0 or 1. Dirty is set by
// every operation that may change the picture and is cleared by the renderer.
type Device struct {
	Pixels [Height][Width]byte
	Dirty  bool
}

func (m *Device) Name() string {
	return "Monochrome Display (64x32)"
}

func (m *Device) Reset() {
	m.Clear()
}

func (m *Device) Clear() {
	m.Pixels = [Height][Width]byte{}
	m.Dirty = true
}

// Blit XORs an 8 pixel wide sprite onto the framebuffer with its top left
// corner at (x, y). Coordinates wrap around both edges. The return value
// reports if any lit pixel was turned off.
func (m *Device) Blit(x, y byte, sprite []byte) bool {
	var collision byte
	for row, data := range sprite {
		py := (int(y) + row) % Height
		for bit := 0; bit < spriteWidth; bit++ {
			px := (int(x) + bit) % Width
			v := (data >> (7 - bit)) & 1
			collision |= v & m.Pixels[py][px]
			m.Pixels[py][px] ^= v
		}
	}
	m.Dirty = true
	return collision != 0
}

func (m *Device) Pixel(x, y int) byte {
	return m.Pixels[y%Height][x%Width]
}

// CopyTo writes the framebuffer into buf in row-major order, one byte per pixel.
func (m *Device) CopyTo(buf []byte) {
	for y := range m.Pixels {
		copy(buf[y*Width:(y+1)*Width], m.Pixels[y][:])
	}
}

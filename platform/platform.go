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

package platform

import (
	"errors"
	"strings"

	"github.com/spf13/afero"
)

const DefaultScale = 20

type internalPlatform interface {
	opts() *options
}

type Config func(internalPlatform) error

type options struct {
	scale int
	fs    afero.Fs
}

func (o *options) opts() *options {
	return o
}

func defaultOptions() options {
	return options{scale: DefaultScale, fs: afero.NewOsFs()}
}

// ConfigWithScale sets the size of a framebuffer pixel in window pixels.
func ConfigWithScale(s int) Config {
	return func(p internalPlatform) error {
		if s <= 0 {
			return errors.New("window scale must be positive")
		}
		p.opts().scale = s
		return nil
	}
}

// ConfigWithFileSystem replaces the filesystem handed to the main loop.
func ConfigWithFileSystem(fs afero.Fs) Config {
	return func(p internalPlatform) error {
		p.opts().fs = fs
		return nil
	}
}

// KeyHandler receives key transitions. Keys are identified by lowercase
// names such as "1", "q" or "escape".
type KeyHandler func(key string, up bool)

type Platform interface {
	RenderGraphics(pixels []byte, w, h int)
	SetTitle(title string)
	SetKeyboardHandler(h KeyHandler)
	FileSystem() afero.Fs
}

var Instance Platform

var (
	pixelOn  = [4]byte{0x00, 0xFF, 0x00, 0xFF}
	pixelOff = [4]byte{0x00, 0x00, 0x00, 0xFF}
)

// expandPixels converts one byte per pixel into RGBA, lit pixels green.
func expandPixels(dst, pixels []byte) {
	for i, v := range pixels {
		c := pixelOff
		if v != 0 {
			c = pixelOn
		}
		copy(dst[i*4:], c[:])
	}
}

// halfBlock returns the glyph showing two vertically stacked pixels in one
// terminal cell.
func halfBlock(top, bottom byte) rune {
	switch {
	case top != 0 && bottom != 0:
		return '█'
	case top != 0:
		return '▀'
	case bottom != 0:
		return '▄'
	default:
		return ' '
	}
}

// normalizeKeyName maps backend key names to the names used in keymaps.
func normalizeKeyName(name string) string {
	if name == " " {
		return "space"
	}
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "digit")
	if name == "esc" {
		return "escape"
	}
	return name
}

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
	"log"
	"sync"

	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/debug"
	"github.com/gdamore/tcell"
	"github.com/spf13/afero"
)

type tcellPlatform struct {
	sync.Mutex
	options

	screen          tcell.Screen
	keyboardHandler KeyHandler

	rows int
}

var tcellPlatformInstance tcellPlatform

type frameEvent struct {
	pixels []byte
	w, h   int
}

type titleEvent string

func tcellStart(mainLoop func(Platform), configs ...Config) {
	p := &tcellPlatformInstance
	p.options = defaultOptions()

	for _, cfg := range configs {
		if err := cfg(p); err != nil {
			log.Fatal(err)
		}
	}

	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	var err error
	if p.screen, err = tcell.NewScreen(); err != nil {
		log.Fatal(err)
	}

	Instance = p
	s := p.screen

	if err = s.Init(); err != nil {
		log.Fatal(err)
	}
	defer s.Fini()

	debug.MuteLogging(true)
	defer debug.MuteLogging(false)

	s.HideCursor()
	s.DisableMouse()
	s.Clear()

	if err := p.initializeTcellEvents(); err != nil {
		log.Fatal(err)
	}
	mainLoop(Instance)
}

// RenderGraphics draws two framebuffer rows per terminal row.
func (p *tcellPlatform) RenderGraphics(pixels []byte, w, h int) {
	buf := make([]byte, len(pixels))
	copy(buf, pixels)
	p.screen.PostEvent(tcell.NewEventInterrupt(frameEvent{pixels: buf, w: w, h: h}))
}

func (p *tcellPlatform) SetTitle(title string) {
	p.screen.PostEvent(tcell.NewEventInterrupt(titleEvent(title)))
}

func (p *tcellPlatform) SetKeyboardHandler(h KeyHandler) {
	p.Lock()
	p.keyboardHandler = h
	p.Unlock()
}

func (p *tcellPlatform) FileSystem() afero.Fs {
	return p.fs
}

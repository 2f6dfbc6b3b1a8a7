//go:build ebiten
// +build ebiten

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
	"flag"
	"log"
	"sync"

	"github.com/andreas-jonsson/virtualc8/platform/dialog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/afero"
)

const (
	defaultFrameWidth  = 64
	defaultFrameHeight = 32
)

type ebitenPlatform struct {
	sync.Mutex
	options

	keyboardHandler KeyHandler
	keys            []ebiten.Key

	frame      *ebiten.Image
	backBuffer []byte
	w, h       int
	dirty      bool

	done chan struct{}
}

func Start(mainLoop func(Platform), configs ...Config) {
	if f := flag.Lookup("text"); f != nil && f.Value.(flag.Getter).Get().(bool) {
		tcellStart(mainLoop, configs...)
		return
	}

	p := &ebitenPlatform{
		options: defaultOptions(),
		w:       defaultFrameWidth,
		h:       defaultFrameHeight,
		done:    make(chan struct{}),
	}
	for _, cfg := range configs {
		if err := cfg(p); err != nil {
			log.Fatal(err)
		}
	}

	ebiten.SetWindowSize(p.w*p.scale, p.h*p.scale)
	ebiten.SetWindowTitle("VirtualC8")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowClosingHandled(true)

	Instance = p
	go func() {
		defer close(p.done)
		mainLoop(p)
	}()

	if err := ebiten.RunGame(p); err != nil {
		log.Print(err)
	}
	dialog.Quit()
}

func (p *ebitenPlatform) Update() error {
	select {
	case <-p.done:
		return ebiten.Termination
	default:
	}

	if ebiten.IsWindowBeingClosed() {
		dialog.Quit()
	}

	p.Lock()
	h := p.keyboardHandler
	p.Unlock()
	if h == nil {
		return nil
	}

	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		h(normalizeKeyName(k.String()), false)
	}
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		h(normalizeKeyName(k.String()), true)
	}
	return nil
}

func (p *ebitenPlatform) Draw(screen *ebiten.Image) {
	p.Lock()
	defer p.Unlock()

	if p.frame == nil || p.frame.Bounds().Dx() != p.w || p.frame.Bounds().Dy() != p.h {
		p.frame = ebiten.NewImage(p.w, p.h)
		p.dirty = p.backBuffer != nil
	}
	if p.dirty {
		p.frame.WritePixels(p.backBuffer)
		p.dirty = false
	}
	screen.DrawImage(p.frame, nil)
}

func (p *ebitenPlatform) Layout(_, _ int) (int, int) {
	p.Lock()
	defer p.Unlock()
	return p.w, p.h
}

func (p *ebitenPlatform) RenderGraphics(pixels []byte, w, h int) {
	p.Lock()
	if len(p.backBuffer) != w*h*4 {
		p.backBuffer = make([]byte, w*h*4)
	}
	expandPixels(p.backBuffer, pixels)
	p.w, p.h = w, h
	p.dirty = true
	p.Unlock()
}

func (p *ebitenPlatform) SetTitle(title string) {
	ebiten.SetWindowTitle(title)
}

func (p *ebitenPlatform) SetKeyboardHandler(h KeyHandler) {
	p.Lock()
	p.keyboardHandler = h
	p.Unlock()
}

func (p *ebitenPlatform) FileSystem() afero.Fs {
	return p.fs
}

//go:build sdl && !ebiten
// +build sdl,!ebiten

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
	"os"

	"github.com/andreas-jonsson/virtualc8/platform/dialog"
	"github.com/spf13/afero"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	defaultFrameWidth  = 64
	defaultFrameHeight = 32
)

type sdlPlatform struct {
	options

	cleanCallBacks []func(*sdlPlatform)

	quitChan        chan struct{}
	keyboardHandler KeyHandler

	sdlFlags, sdlWindowFlags uint32

	frameWidth, frameHeight int
	backBuffer              []byte

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
}

var sdlPlatformInstance sdlPlatform

func registerCleanup(p *sdlPlatform, cb func(p *sdlPlatform)) {
	p.cleanCallBacks = append(p.cleanCallBacks, cb)
}

func Start(mainLoop func(Platform), configs ...Config) {
	if f := flag.Lookup("text"); f != nil && f.Value.(flag.Getter).Get().(bool) {
		tcellStart(mainLoop, configs...)
		return
	}

	errHandle := func(err error) {
		dialog.ShowErrorMessage(err.Error())
		os.Exit(-1)
	}

	p := &sdlPlatformInstance
	p.options = defaultOptions()
	p.sdlWindowFlags = sdl.WINDOW_RESIZABLE

	sdl.Main(func() {
		for _, cfg := range configs {
			if err := cfg(p); err != nil {
				errHandle(err)
			}
		}

		if err := sdl.Init(p.sdlFlags); err != nil {
			errHandle(err)
		}
		defer sdl.Quit()

		defer func() {
			for _, cb := range p.cleanCallBacks {
				cb(p)
			}
		}()

		Instance = p

		if err := p.initializeVideo(); err != nil {
			errHandle(err)
		}
		if err := p.initializeSDLEvents(); err != nil {
			errHandle(err)
		}
		mainLoop(p)
	})
	os.Exit(0) // Calling Exit is required!
}

func (p *sdlPlatform) FileSystem() afero.Fs {
	return p.fs
}

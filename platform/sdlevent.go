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
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/debug"
	"github.com/andreas-jonsson/virtualc8/platform/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

func (p *sdlPlatform) initializeSDLEvents() error {
	var err error
	sdl.Do(func() {
		err = sdl.InitSubSystem(sdl.INIT_EVENTS)
	})
	if err != nil {
		return err
	}

	p.quitChan = make(chan struct{})
	registerCleanup(p, shutdownSDLEvents)

	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()

		for {
			select {
			case <-p.quitChan:
				close(p.quitChan)
				return
			case <-ticker.C:
				sdl.Do(func() {
					for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
						switch ev := event.(type) {
						case *sdl.QuitEvent:
							dialog.AskToQuit()
						case *sdl.KeyboardEvent:
							p.sdlProcessKey(ev)
						}
					}
				})
			}
		}
	}()
	return nil
}

func shutdownSDLEvents(p *sdlPlatform) {
	p.quitChan <- struct{}{}
	<-p.quitChan
	sdl.Do(func() {
		sdl.QuitSubSystem(sdl.INIT_EVENTS)
	})
}

func (p *sdlPlatform) sdlProcessKey(ev *sdl.KeyboardEvent) {
	if ev.Repeat != 0 {
		return
	}

	keyUp := ev.Type == sdl.KEYUP
	switch ev.Keysym.Scancode {
	case sdl.SCANCODE_F11:
		if keyUp {
			if (p.window.GetFlags() & sdl.WINDOW_FULLSCREEN_DESKTOP) != 0 {
				p.window.SetFullscreen(0)
			} else {
				p.window.SetFullscreen(sdl.WINDOW_FULLSCREEN_DESKTOP)
			}
		}
		return
	case sdl.SCANCODE_F12:
		if keyUp {
			p.window.SetFullscreen(0)
			dialog.AskToQuit()
		}
		return
	}

	name := normalizeKeyName(sdl.GetKeyName(ev.Keysym.Sym))
	if name == "" {
		debug.Log.Printf("Invalid key 0x%X", ev.Keysym.Scancode)
		return
	}
	if p.keyboardHandler != nil {
		p.keyboardHandler(name, keyUp)
	}
}

func (p *sdlPlatform) SetKeyboardHandler(h KeyHandler) {
	sdl.Do(func() {
		p.keyboardHandler = h
	})
}

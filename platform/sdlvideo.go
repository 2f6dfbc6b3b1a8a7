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
	"github.com/veandco/go-sdl2/sdl"
)

func (p *sdlPlatform) initializeVideo() error {
	var err error
	sdl.Do(func() {
		if err = sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
			return
		}

		sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")
		w, h := int32(defaultFrameWidth*p.scale), int32(defaultFrameHeight*p.scale)
		if p.window, p.renderer, err = sdl.CreateWindowAndRenderer(w, h, p.sdlWindowFlags); err != nil {
			return
		}
		p.window.SetTitle("VirtualC8")
		err = p.resizeFrame(defaultFrameWidth, defaultFrameHeight)
	})
	if err != nil {
		return err
	}

	registerCleanup(p, shutdownVideo)
	return nil
}

func shutdownVideo(p *sdlPlatform) {
	sdl.Do(func() {
		p.texture.Destroy()
		p.renderer.Destroy()
		p.window.Destroy()
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
	})
}

// resizeFrame must be called from the SDL thread.
func (p *sdlPlatform) resizeFrame(w, h int) error {
	if p.texture != nil {
		p.texture.Destroy()
	}

	var err error
	if p.texture, err = p.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h)); err != nil {
		return err
	}
	p.frameWidth, p.frameHeight = w, h
	p.backBuffer = make([]byte, w*h*4)
	p.window.SetSize(int32(w*p.scale), int32(h*p.scale))
	return p.renderer.SetLogicalSize(int32(w), int32(h))
}

func (p *sdlPlatform) RenderGraphics(pixels []byte, w, h int) {
	sdl.Do(func() {
		if w != p.frameWidth || h != p.frameHeight {
			if err := p.resizeFrame(w, h); err != nil {
				panic(err)
			}
		}
		expandPixels(p.backBuffer, pixels)

		p.renderer.SetDrawColor(0, 0, 0, 0xFF)
		p.renderer.Clear()

		p.texture.Update(nil, p.backBuffer, w*4)
		p.renderer.Copy(p.texture, nil, nil)

		p.renderer.Present()
	})
}

func (p *sdlPlatform) SetTitle(title string) {
	sdl.Do(func() {
		p.window.SetTitle(title)
	})
}

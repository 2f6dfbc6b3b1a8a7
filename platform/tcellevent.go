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

	"github.com/andreas-jonsson/virtualc8/platform/dialog"
	"github.com/gdamore/tcell"
)

// Terminals only report key presses, so releases are synthesized.
const keyReleaseDelay = 100 * time.Millisecond

var (
	pixelStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlack)
	titleStyle = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)
)

func (p *tcellPlatform) initializeTcellEvents() error {
	go func() {
		s := p.screen
		for {
			switch ev := s.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					dialog.Quit()
					continue
				}
				p.pushKeyEvent(ev)
			case *tcell.EventResize:
				s.Sync()
			case *tcell.EventInterrupt:
				switch data := ev.Data().(type) {
				case frameEvent:
					p.drawFrame(data)
				case titleEvent:
					p.drawTitle(string(data))
				}
				s.Show()
			}
		}
	}()
	return nil
}

func (p *tcellPlatform) drawFrame(f frameEvent) {
	for y := 0; y < f.h; y += 2 {
		for x := 0; x < f.w; x++ {
			var bottom byte
			if y+1 < f.h {
				bottom = f.pixels[(y+1)*f.w+x]
			}
			p.screen.SetContent(x, y/2, halfBlock(f.pixels[y*f.w+x], bottom), nil, pixelStyle)
		}
	}
	p.rows = (f.h + 1) / 2
}

func (p *tcellPlatform) drawTitle(title string) {
	w, _ := p.screen.Size()
	row := p.rows + 1
	for x := 0; x < w; x++ {
		p.screen.SetContent(x, row, ' ', nil, titleStyle)
	}
	for x, r := range []rune(title) {
		if x >= w {
			break
		}
		p.screen.SetContent(x, row, r, nil, titleStyle)
	}
}

func (p *tcellPlatform) pushKeyEvent(ev *tcell.EventKey) {
	name := tcellKeyName(ev)
	if name == "" {
		return
	}

	p.Lock()
	h := p.keyboardHandler
	p.Unlock()

	if h == nil {
		return
	}
	h(name, false)

	go func() {
		time.Sleep(keyReleaseDelay)
		h(name, true)
	}()
}

func tcellKeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		return normalizeKeyName(string(ev.Rune()))
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyEnter:
		return "enter"
	}
	if n, ok := tcell.KeyNames[ev.Key()]; ok {
		return normalizeKeyName(n)
	}
	return ""
}

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

package emulator

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/peripheral"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/debug"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/keyboard"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/rom"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/video"
	"github.com/andreas-jonsson/virtualc8/emulator/processor/cpu"
	"github.com/andreas-jonsson/virtualc8/platform"
	"github.com/andreas-jonsson/virtualc8/platform/dialog"
	"github.com/spf13/afero"
)

const (
	DefaultClockRate ClockRate = 400
	DefaultBundle              = 5
)

var (
	romImage    = ""
	keymapFile  = "keymap.json"
	clockRate   = DefaultClockRate
	bundleSize  = DefaultBundle
	titleUpdate = time.Second
)

func init() {
	if p, ok := os.LookupEnv("VC8_DEFAULT_ROM"); ok {
		romImage = p
	}
	if p, ok := os.LookupEnv("VC8_DEFAULT_KEYMAP"); ok {
		keymapFile = p
	}

	flag.Var(&clockRate, "rate", "Instructions per second (Hz, KHz or MHz)")
	flag.IntVar(&bundleSize, "bundle", bundleSize, "Instructions executed between each pause")
	flag.StringVar(&keymapFile, "keymap", keymapFile, "Path to keymap file")
}

type Config struct {
	ROM    string
	Keymap string
	Rate   ClockRate
	Bundle int
	Debug  bool
}

// FlagConfig returns the configuration given on the command line. The ROM
// is the first positional argument.
func FlagConfig() Config {
	cfg := Config{
		ROM:    romImage,
		Keymap: keymapFile,
		Rate:   clockRate,
		Bundle: bundleSize,
		Debug:  debug.EnableDebug,
	}
	if flag.NArg() > 0 {
		cfg.ROM = flag.Arg(0)
	}
	return cfg
}

func Start(p platform.Platform) {
	if err := Run(p, FlagConfig()); err != nil {
		debug.Log.Print(err)
		dialog.ShowErrorMessage(err.Error())
	}
}

// Run executes the ROM until a quit is requested or the processor faults.
func Run(p platform.Platform, cfg Config) error {
	if cfg.ROM == "" {
		return errors.New("no ROM image specified")
	}
	if cfg.Rate <= 0 {
		return errors.New("clock rate must be positive")
	}
	if cfg.Bundle <= 0 {
		return errors.New("bundle size must be positive")
	}

	fs := p.FileSystem()
	keymap, err := loadKeymap(fs, cfg.Keymap)
	if err != nil {
		return err
	}

	program, err := rom.Open(fs, cfg.ROM)
	if err != nil {
		return err
	}

	c := cpu.NewCPU()
	dbg := &debug.Device{NoHistory: !cfg.Debug}
	if err := dbg.Install(c); err != nil {
		return err
	}
	if err := program.Install(c); err != nil {
		return err
	}
	debug.Log.Printf("Loaded %s (%d bytes)", program.Name(), program.Size())
	defer logDiagnostics(dbg)

	// Devices outside the processor are reset by hand on restart.
	external := []peripheral.Peripheral{dbg, program}
	for _, d := range append(external, c.Peripherals()...) {
		debug.Log.Print("Peripheral: ", d.Name())
	}

	p.SetKeyboardHandler(keyHandler(keymap, c.Keyboard))
	defer p.SetKeyboardHandler(nil)

	var (
		frame     = make([]byte, video.Width*video.Height)
		slice     = time.Duration(cfg.Bundle) * cfg.Rate.ToDuration()
		lastTitle = time.Now()
	)

	for !dialog.ShutdownRequested() {
		t := time.Now()

		if dialog.RestartRequested() {
			c.Reset()
			for _, d := range external {
				d.Reset()
			}
			if err := program.Install(c); err != nil {
				return err
			}
		}

		c.Keyboard.Step()
		for i := 0; i < cfg.Bundle; i++ {
			if _, err := c.Step(); err != nil {
				dbg.DumpState()
				return err
			}
		}

		if c.Video.Dirty {
			c.Video.CopyTo(frame)
			p.RenderGraphics(frame, video.Width, video.Height)
			c.Video.Dirty = false
		}

		if d := time.Since(lastTitle); d >= titleUpdate {
			stats := c.GetStats()
			effective := ClockRate(float64(stats.NumInstructions) / d.Seconds())
			p.SetTitle(fmt.Sprintf("VirtualC8 - %s (%v)", program.Name(), effective))
			lastTitle = time.Now()
		}

		if d := slice - time.Since(t); d > 0 {
			time.Sleep(d)
		}
	}
	return nil
}

func logDiagnostics(dbg *debug.Device) {
	if n, distinct := dbg.NumInvalid(); n > 0 {
		debug.Log.Printf("Skipped %d invalid opcodes (%d distinct)", n, distinct)
	}
	if n, distinct := dbg.NumIgnored(); n > 0 {
		debug.Log.Printf("Ignored %d machine code calls (%d distinct)", n, distinct)
	}
}

func loadKeymap(fs afero.Fs, name string) (keyboard.Keymap, error) {
	if name == "" {
		return keyboard.DefaultKeymap(), nil
	}
	km, err := keyboard.LoadKeymap(fs, name)
	if errors.Is(err, os.ErrNotExist) {
		debug.Log.Printf("Keymap %s not found, using default layout", name)
		return keyboard.DefaultKeymap(), nil
	}
	return km, err
}

// keyHandler translates platform key events to keypad events. It runs on the
// platform's event goroutine; the keypad applies queued events on Step.
func keyHandler(km keyboard.Keymap, kb *keyboard.Device) platform.KeyHandler {
	return func(key string, up bool) {
		if key == "escape" {
			dialog.Quit()
			return
		}
		slot, ok := km.Lookup(key)
		if !ok {
			return
		}
		if err := kb.PushEvent(keyboard.Event{Key: slot, Up: up}); err != nil {
			debug.Log.Print(err)
		}
	}
}

// ClockRate is a frequency in Hz. As a flag it accepts Hz, KHz or MHz suffixes.
type ClockRate int64

func (c ClockRate) String() string {
	rate := int64(c)
	suffix := "Hz"
	if rate >= 1e6 && rate%1e6 == 0 {
		rate /= 1e6
		suffix = "MHz"
	} else if rate >= 1e3 && rate%1e3 == 0 {
		rate /= 1e3
		suffix = "KHz"
	}
	return fmt.Sprintf("%d%s", rate, suffix)
}

func (c *ClockRate) Set(str string) error {
	str = strings.TrimSpace(str)
	i := strings.IndexFunc(str, func(r rune) bool { return r < '0' || r > '9' })
	if i < 0 {
		i = len(str)
	}

	rate, err := strconv.ParseInt(str[:i], 10, 64)
	if err != nil {
		return err
	}
	if rate <= 0 {
		return errors.New("clock rate must be positive")
	}

	var mult int64 = 1
	switch suffix := strings.TrimSpace(str[i:]); strings.ToLower(suffix) {
	case "mhz":
		mult = 1e6
	case "khz":
		mult = 1e3
	case "hz", "":
	default:
		return fmt.Errorf("unknown suffix %q", suffix)
	}
	if rate > math.MaxInt64/mult {
		return fmt.Errorf("clock rate %q is out of range", str)
	}
	*c = ClockRate(rate * mult)
	return nil
}

// ToDuration returns the period of one clock cycle.
func (c ClockRate) ToDuration() time.Duration {
	return time.Second / time.Duration(c)
}

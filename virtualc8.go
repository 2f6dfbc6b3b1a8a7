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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/andreas-jonsson/virtualc8/emulator"
	"github.com/andreas-jonsson/virtualc8/platform"
	"github.com/andreas-jonsson/virtualc8/version"
)

var (
	ver   bool
	scale = platform.DefaultScale
)

func init() {
	flag.BoolVar(&ver, "v", false, "Print version information")
	flag.IntVar(&scale, "scale", scale, "Size of a display pixel in window pixels")

	flag.Bool("text", false, "Render in the terminal")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <rom>\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if ver {
		fmt.Printf("%s (%s)\n", version.Current.FullString(), version.Hash)
		return
	}

	configs := []platform.Config{
		platform.ConfigWithScale(scale),
	}

	printLogo()
	platform.Start(emulator.Start, configs...)
}

func printLogo() {
	fmt.Print(logo)
	fmt.Println("v" + version.Current.String())
	fmt.Print(" ───═══ " + version.Copyright + " ═══───\n\n")
}

var logo = `
██╗   ██╗ ██████╗ █████╗ 
██║   ██║██╔════╝██╔══██╗
██║   ██║██║     ╚█████╔╝
╚██╗ ██╔╝██║     ██╔══██╗
 ╚████╔╝ ╚██████╗╚█████╔╝
  ╚═══╝   ╚═════╝ ╚════╝ `

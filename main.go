package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"nespump/ines"
)

var version = "devel"

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case versionMode:
		fmt.Println("nespump", version)

	case romInfosMode:
		rom, err := ines.Open(cli.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		rom.PrintInfos(os.Stdout)

	case runMode:
		emuMain(cli.Run)
	}
}

func emuMain(args Run) {
	rom, err := ines.Open(args.RomPath)
	checkf(err, "failed to open rom")

	cfg := loadConfigOrDefault()
	if args.Scale > 0 {
		cfg.Video.Scale = args.Scale
	}

	nes := &NES{}
	checkf(nes.PowerUp(rom), "error during power up")
	nes.Reset()

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	go func() {
		if args.Trace != nil {
			defer args.Trace.Close()
			nes.RunDisasm(args.Trace, false)
		} else {
			nes.Run()
		}
	}()

	checkf(startScreen(nes, cfg), "video error")
}

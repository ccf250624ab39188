package main

import (
	"fmt"

	"nespump/emu/hwio"
	"nespump/ines"
	"nespump/ppu"
)

func loadMapper000(cart *ines.Rom, cpubus *hwio.Table, ppu *ppu.PPU) error {
	switch len(cart.PRG) {
	case 0x4000, 0x8000:
		// A 16KiB PRG gets mirrored at $8000 and $C000 by the mask.
		cpubus.MapMem(0x8000, &hwio.Mem{
			Name:  "prg",
			Data:  cart.PRG,
			VSize: 0x8000,
			Flags: hwio.MemFlag8ReadOnly | hwio.MemFlagNoROLog,
		})
	default:
		return fmt.Errorf("unexpected PRG ROM size: 0x%x", len(cart.PRG))
	}

	// 8KiB of PRG RAM at $6000, present on family basic and used by test
	// roms to report results.
	prgram := make([]byte, 0x2000)
	cpubus.MapMem(0x6000, &hwio.Mem{Name: "prgram", Data: prgram, VSize: 0x2000})

	chr := cart.CHR
	chrFlags := hwio.MemFlag8ReadOnly | hwio.MemFlagNoROLog
	if len(chr) == 0 {
		// No CHR ROM means the cartridge has 8KiB of CHR RAM.
		chr = make([]byte, 0x2000)
		chrFlags = 0
	}
	if len(chr) != 0x2000 {
		return fmt.Errorf("unexpected CHR ROM size: 0x%x", len(chr))
	}
	ppu.Bus.MapMem(0x0000, &hwio.Mem{
		Name:  "chr",
		Data:  chr,
		VSize: 0x2000,
		Flags: chrFlags,
	})
	return nil
}

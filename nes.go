package main

import (
	"fmt"
	"image"
	"io"
	"time"

	"nespump/cpu"
	"nespump/emu/hwio"
	"nespump/emu/log"
	"nespump/ines"
	"nespump/ppu"
)

// CyclesPerFrame is the number of CPU cycles in one video frame
// (262*341/3 PPU dots).
const CyclesPerFrame = 29781

type NES struct {
	CPU  *cpu.CPU
	PPU  *ppu.PPU
	Pads *StdControllerPair

	OAMDMA hwio.Reg8

	apuRegs [32]uint8
}

func (nes *NES) PowerUp(rom *ines.Rom) error {
	nes.PPU = ppu.New()
	nes.Pads = &StdControllerPair{Pad1Connected: true}
	cpubus := hwio.NewTable("cpu")

	// 2KiB of RAM, mirrored 4 times.
	ram := make([]byte, 0x0800)
	cpubus.MapMem(0x0000, &hwio.Mem{Name: "ram", Data: ram, VSize: 0x2000})

	// PPU registers, mirrored every 8 bytes up to $3FFF.
	for i := 0x2000; i < 0x4000; i += 8 {
		cpubus.MapReg8(uint16(i+0), &nes.PPU.PPUCTRL)
		cpubus.MapReg8(uint16(i+1), &nes.PPU.PPUMASK)
		cpubus.MapReg8(uint16(i+2), &nes.PPU.PPUSTATUS)
		cpubus.MapReg8(uint16(i+3), &nes.PPU.OAMADDR)
		cpubus.MapReg8(uint16(i+4), &nes.PPU.OAMDATA)
		cpubus.MapReg8(uint16(i+5), &nes.PPU.PPUSCROLL)
		cpubus.MapReg8(uint16(i+6), &nes.PPU.PPUADDR)
		cpubus.MapReg8(uint16(i+7), &nes.PPU.PPUDATA)
	}

	// APU registers are inert storage for now, sound is not emulated.
	cpubus.MapMem(0x4000, &hwio.Mem{Name: "apu", Data: nes.apuRegs[:], VSize: 0x14})
	cpubus.MapMem(0x4015, &hwio.Mem{Name: "apustatus", Data: nes.apuRegs[21:22], VSize: 1})

	nes.OAMDMA = hwio.Reg8{Name: "OAMDMA", Flags: hwio.RegFlagWriteOnly, WriteCb: nes.writeOAMDMA}
	cpubus.MapReg8(0x4014, &nes.OAMDMA)
	nes.Pads.MapInto(cpubus)

	nes.CPU = cpu.New(cpubus, nes.PPU)
	nes.PPU.NMI = nes.CPU.TriggerNMI

	if rom.Mapper() != 0 {
		// Only mapper 000 (NROM) is handled for now.
		return fmt.Errorf("unsupported mapper: %03d", rom.Mapper())
	}
	if err := loadMapper000(rom, cpubus, nes.PPU); err != nil {
		return fmt.Errorf("failed to load mapper %03d: %w", rom.Mapper(), err)
	}

	nes.PPU.MapNametables(rom.Mirroring())

	log.ModEmu.DebugZ("powered up").
		Hex16("resetvec", hwio.Read16(cpubus, cpu.ResetVector)).
		End()
	return nil
}

// Reset forwards the reset signal to all hardware.
func (nes *NES) Reset() {
	nes.CPU.Reset()
	nes.PPU.Reset()
}

// writeOAMDMA copies a 256-byte page into PPU OAM through OAMDATA,
// suspending the CPU for 513 or 514 cycles.
func (nes *NES) writeOAMDMA(_, page uint8) {
	log.ModEmu.DebugZ("OAM DMA transfer").Hex8("page", page).End()

	if nes.CPU.Clock&1 != 0 {
		nes.CPU.Idle() // align the transfer to an even cycle
	}
	nes.CPU.Idle() // halt cycle
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		val := nes.CPU.Read8(base + uint16(i))
		nes.CPU.Write8(0x2004, val)
	}
}

// RunOneFrame runs the emulation for the duration of one video frame.
func (nes *NES) RunOneFrame() {
	nes.CPU.Run(nes.CPU.Clock + CyclesPerFrame)
}

// Run emulates frames forever, paced at ~60Hz. Without audio output there
// is nothing else to clock the emulation against.
func (nes *NES) Run() {
	tick := time.NewTicker(time.Second / 60)
	defer tick.Stop()
	for range tick.C {
		nes.RunOneFrame()
	}
}

// RunDisasm is like Run but logs every executed instruction to out.
func (nes *NES) RunDisasm(out io.Writer, nestest bool) {
	d := cpu.NewDisasm(nes.CPU, out, nestest)
	tick := time.NewTicker(time.Second / 60)
	defer tick.Stop()
	for range tick.C {
		d.Run(nes.CPU.Clock + CyclesPerFrame)
	}
}

// FrameEnd registers f to be called every time a frame is complete.
func (nes *NES) FrameEnd(f func(*image.RGBA)) {
	nes.PPU.FrameEnd = f
}

package main

import (
	"bytes"
	"testing"

	"nespump/emu/hwio"
	"nespump/ines"
)

// testRom builds a minimal NROM image in memory: 16KiB PRG, 8KiB CHR,
// vertical mirroring plus the given extra flags 6 bits.
func testRom(tb testing.TB, flags6 uint8) *ines.Rom {
	tb.Helper()

	hdr := make([]byte, 16)
	copy(hdr, ines.Magic)
	hdr[4] = 1 // PRG banks
	hdr[5] = 1 // CHR banks
	hdr[6] = 0x01 | flags6

	img := append(hdr, make([]byte, 16384+8192)...)
	// Reset vector at $FFFC points to $8000 (offset 0x3FFC in PRG).
	img[16+0x3FFC] = 0x00
	img[16+0x3FFD] = 0x80
	// Endless loop at $8000: JMP $8000.
	copy(img[16:], []byte{0x4C, 0x00, 0x80})

	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
		tb.Fatal(err)
	}
	return rom
}

func TestRAMMirrors(t *testing.T) {
	var nes NES
	tcheck(t, nes.PowerUp(testRom(t, 0)))

	bus := nes.CPU.Bus
	bus.Write8(0x0123, 0xAB)
	for _, addr := range []uint16{0x0923, 0x1123, 0x1923} {
		if got := bus.Read8(addr); got != 0xAB {
			t.Errorf("read(%04X) = %02X, want AB", addr, got)
		}
	}

	// 16-bit accesses land in the same physical RAM through any mirror.
	hwio.Write16(bus, 0x0200, 0xBEEF)
	if got := hwio.Read16(bus, 0x0A00); got != 0xBEEF {
		t.Errorf("read16(0A00) = %04X, want BEEF", got)
	}
}

func TestPPURegMirrors(t *testing.T) {
	var nes NES
	tcheck(t, nes.PowerUp(testRom(t, 0)))

	bus := nes.CPU.Bus

	// $3FF2 mirrors PPUSTATUS at $2002.
	nes.PPU.PPUSTATUS.Value = 0x80
	if got := bus.Read8(0x3FF2); got != 0x80 {
		t.Errorf("read(3FF2) = %02X, want 80", got)
	}

	// Writes through a mirror of PPUADDR+PPUDATA land in VRAM.
	bus.Write8(0x2806, 0x20)
	bus.Write8(0x2806, 0x01)
	bus.Write8(0x3FFF, 0x42)
	if got := nes.PPU.Bus.Read8(0x2001); got != 0x42 {
		t.Errorf("vram[2001] = %02X, want 42", got)
	}
}

func TestOAMDMA(t *testing.T) {
	var nes NES
	tcheck(t, nes.PowerUp(testRom(t, 0)))
	nes.Reset()

	bus := nes.CPU.Bus
	for i := 0; i < 256; i++ {
		bus.Write8(0x0200+uint16(i), uint8(i))
	}

	nes.CPU.Clock = 0
	bus.Write8(0x4014, 0x02)

	for i := 0; i < 256; i++ {
		if nes.PPU.OAM[i] != uint8(i) {
			t.Fatalf("OAM[%d] = %02X, want %02X", i, nes.PPU.OAM[i], i)
		}
	}

	// 1 halt cycle + 256 read/write pairs. Clock was even when the
	// transfer started so there is no alignment cycle.
	if nes.CPU.Clock != 513 {
		t.Errorf("Clock = %d, want 513", nes.CPU.Clock)
	}
}

func TestUnsupportedMapper(t *testing.T) {
	rom := testRom(t, 0x10) // mapper 1

	var nes NES
	if err := nes.PowerUp(rom); err == nil {
		t.Fatal("PowerUp succeeded with unsupported mapper")
	}
}

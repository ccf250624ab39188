package ppu

import (
	"image"
	"testing"

	"nespump/emu/hwio"
	"nespump/ines"
)

func newTestPPU(tb testing.TB, m ines.Mirroring) *PPU {
	tb.Helper()
	p := New()
	chr := make([]uint8, 0x2000)
	for i := range chr {
		chr[i] = uint8(i)
	}
	p.Bus.MapMem(0x0000, &hwio.Mem{Name: "chr", Data: chr, VSize: 0x2000})
	p.MapNametables(m)
	p.Reset()
	return p
}

// setVRAMAddr performs the two PPUADDR writes a program would do.
func setVRAMAddr(p *PPU, addr uint16) {
	p.PPUADDR.Write8(0x2006, uint8(addr>>8))
	p.PPUADDR.Write8(0x2006, uint8(addr))
}

func TestPPUADDRLatch(t *testing.T) {
	p := newTestPPU(t, ines.VerticalMirroring)

	setVRAMAddr(p, 0x23AB)
	if p.vramAddr != 0x23AB {
		t.Errorf("vramAddr = %04X, want 23AB", p.vramAddr)
	}

	// A PPUSTATUS read resets the shared write latch, so the next
	// PPUADDR write is a high byte again.
	p.PPUADDR.Write8(0x2006, 0x21)
	p.PPUSTATUS.Read8(0x2002)
	setVRAMAddr(p, 0x2D05)
	if p.vramAddr != 0x2D05 {
		t.Errorf("vramAddr = %04X, want 2D05", p.vramAddr)
	}
}

func TestPPUSCROLL(t *testing.T) {
	p := newTestPPU(t, ines.VerticalMirroring)

	p.PPUSCROLL.Write8(0x2005, 0x7D) // X = 0b01111_101
	p.PPUSCROLL.Write8(0x2005, 0x5E) // Y = 0b01011_110

	if p.fineX != 0b101 {
		t.Errorf("fineX = %d, want 5", p.fineX)
	}
	want := uint16(0b110_00_01011_01111)
	if p.vramTmp != want {
		t.Errorf("vramTmp = %015b, want %015b", p.vramTmp, want)
	}
}

func TestPPUDATABuffered(t *testing.T) {
	p := newTestPPU(t, ines.VerticalMirroring)

	setVRAMAddr(p, 0x0010)
	if got := p.PPUDATA.Read8(0x2007); got != 0 {
		t.Errorf("first read = %02X, want stale buffer 00", got)
	}
	if got := p.PPUDATA.Read8(0x2007); got != 0x10 {
		t.Errorf("second read = %02X, want 10", got)
	}
	if got := p.PPUDATA.Read8(0x2007); got != 0x11 {
		t.Errorf("third read = %02X, want 11", got)
	}
}

func TestPPUDATAPaletteImmediate(t *testing.T) {
	p := newTestPPU(t, ines.VerticalMirroring)
	p.palette.Write8(0x3F01, 0x2A)

	setVRAMAddr(p, 0x3F01)
	if got := p.PPUDATA.Read8(0x2007); got != 0x2A {
		t.Errorf("palette read = %02X, want immediate 2A", got)
	}
}

func TestVRAMIncrement(t *testing.T) {
	p := newTestPPU(t, ines.VerticalMirroring)

	setVRAMAddr(p, 0x2000)
	p.PPUDATA.Write8(0x2007, 0xAA)
	if p.vramAddr != 0x2001 {
		t.Errorf("vramAddr = %04X, want 2001", p.vramAddr)
	}

	p.PPUCTRL.Write8(0x2000, 1<<vramIncr)
	p.PPUDATA.Write8(0x2007, 0xBB)
	if p.vramAddr != 0x2021 {
		t.Errorf("vramAddr = %04X, want 2021", p.vramAddr)
	}
}

func TestNametableMirroring(t *testing.T) {
	tests := []struct {
		name   string
		m      ines.Mirroring
		write  uint16
		mirror uint16
	}{
		{"vertical", ines.VerticalMirroring, 0x2001, 0x2801},
		{"horizontal", ines.HorizontalMirroring, 0x2001, 0x2401},
		{"horizontal hi", ines.HorizontalMirroring, 0x2801, 0x2C01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPPU(t, tt.m)
			p.Bus.Write8(tt.write, 0x55)
			if got := p.Bus.Read8(tt.mirror); got != 0x55 {
				t.Errorf("read(%04X) = %02X, want 55", tt.mirror, got)
			}
		})
	}

	t.Run("four-screen", func(t *testing.T) {
		p := newTestPPU(t, ines.FourScreenMirroring)
		p.Bus.Write8(0x2001, 0x55)
		if got := p.Bus.Read8(0x2801); got == 0x55 {
			t.Error("2801 unexpectedly mirrors 2001 in four-screen mode")
		}
	})
}

func TestPaletteMirrors(t *testing.T) {
	p := newTestPPU(t, ines.VerticalMirroring)

	p.Bus.Write8(0x3F10, 0x21)
	if got := p.Bus.Read8(0x3F00); got != 0x21 {
		t.Errorf("read(3F00) = %02X, want 21", got)
	}
	p.Bus.Write8(0x3F21, 0x0F)
	if got := p.Bus.Read8(0x3F01); got != 0x0F {
		t.Errorf("read(3F01) = %02X, want 0F", got)
	}
}

func TestOAMDATA(t *testing.T) {
	p := newTestPPU(t, ines.VerticalMirroring)

	p.OAMADDR.Write8(0x2003, 0x10)
	p.OAMDATA.Write8(0x2004, 0xAB)
	p.OAMDATA.Write8(0x2004, 0xCD)

	if p.OAM[0x10] != 0xAB || p.OAM[0x11] != 0xCD {
		t.Errorf("OAM[10:12] = %02X %02X, want AB CD", p.OAM[0x10], p.OAM[0x11])
	}

	p.OAMADDR.Write8(0x2003, 0x10)
	if got := p.OAMDATA.Read8(0x2004); got != 0xAB {
		t.Errorf("OAMDATA read = %02X, want AB", got)
	}
}

// tickTo runs the PPU up to the given beam position.
func tickTo(p *PPU, scanline, cycle int) {
	for !(p.Scanline == scanline && p.Cycle == cycle) {
		p.Tick()
	}
}

func TestVblank(t *testing.T) {
	p := newTestPPU(t, ines.VerticalMirroring)

	nmis := 0
	p.NMI = func() { nmis++ }
	p.PPUCTRL.Write8(0x2000, 1<<nmi)

	tickTo(p, 241, 2)
	if p.PPUSTATUS.Value&(1<<vblank) == 0 {
		t.Error("vblank flag not set at 241,1")
	}
	if nmis != 1 {
		t.Errorf("nmis = %d, want 1", nmis)
	}

	// Reading PPUSTATUS clears the flag.
	val := p.PPUSTATUS.Read8(0x2002)
	if val&(1<<vblank) == 0 {
		t.Error("PPUSTATUS read did not report vblank")
	}
	if p.PPUSTATUS.Value&(1<<vblank) != 0 {
		t.Error("vblank flag not cleared by PPUSTATUS read")
	}

	// Flags clear on the pre-render line regardless.
	p.PPUSTATUS.Value |= 1<<vblank | 1<<sprite0Hit
	tickTo(p, 261, 2)
	if p.PPUSTATUS.Value&(1<<vblank|1<<sprite0Hit) != 0 {
		t.Error("status flags not cleared at 261,1")
	}
}

func TestNMIRetrigger(t *testing.T) {
	p := newTestPPU(t, ines.VerticalMirroring)

	nmis := 0
	p.NMI = func() { nmis++ }

	p.PPUCTRL.Write8(0x2000, 1<<nmi)
	tickTo(p, 241, 2)

	// Toggling the NMI enable bit during vblank pulls /nmi again.
	p.PPUCTRL.Write8(0x2000, 0)
	p.PPUCTRL.Write8(0x2000, 1<<nmi)
	if nmis != 2 {
		t.Errorf("nmis = %d, want 2", nmis)
	}
}

func TestFrameCounting(t *testing.T) {
	p := newTestPPU(t, ines.VerticalMirroring)

	frames := 0
	p.FrameEnd = func(img *image.RGBA) {
		frames++
		if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 240 {
			t.Errorf("frame bounds = %v, want 256x240", b)
		}
	}

	for i := 0; i < 2*NumScanlines*NumCycles; i++ {
		p.Tick()
	}
	if p.Frames != 2 {
		t.Errorf("Frames = %d, want 2", p.Frames)
	}
	if frames != 2 {
		t.Errorf("FrameEnd calls = %d, want 2", frames)
	}
}

func TestFrameBufferRotation(t *testing.T) {
	p := newTestPPU(t, ines.VerticalMirroring)

	// A frame handed to FrameEnd must stay untouched while the next one
	// is being rendered, so consecutive frames come from different
	// buffers.
	var got []*image.RGBA
	p.FrameEnd = func(img *image.RGBA) {
		got = append(got, img)
	}

	for i := 0; i < 3*NumScanlines*NumCycles; i++ {
		p.Tick()
	}
	if len(got) != 3 {
		t.Fatalf("FrameEnd calls = %d, want 3", len(got))
	}
	if got[0] == got[1] || got[1] == got[2] {
		t.Errorf("consecutive frames share a buffer: %p %p %p", got[0], got[1], got[2])
	}
	if p.Output() != got[2] {
		t.Errorf("Output() is not the most recently completed frame")
	}
}

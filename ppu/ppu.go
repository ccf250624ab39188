// Package ppu emulates the NES picture processing unit at frame-level
// accuracy: registers, VRAM access and timing observables are tracked dot
// by dot, pixels are produced once per frame at the start of vblank.
package ppu

import (
	"image"

	"nespump/emu/hwio"
	"nespump/emu/log"
	"nespump/ines"
)

const (
	NumScanlines = 262 // Number of scanlines per frame.
	NumCycles    = 341 // Number of PPU cycles per scanline.
)

const (
	// PPUCTRL bits
	// $2000

	// Base nametable address
	// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
	ntselect = 0b11

	// VRAM address increment per CPU read/write of PPUDATA
	// (0: add 1, going across; 1: add 32, going down)
	vramIncr = 2

	// Sprite pattern table address for 8x8 sprites
	// (0: $0000; 1: $1000; ignored in 8x16 mode)
	spriteAddr = 3

	// Background pattern table address (0: $0000; 1: $1000)
	backgroundAddr = 4

	// Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
	spriteSize = 5

	// Generate an NMI at the start of the
	// vertical blanking interval (0: off; 1: on)
	nmi = 7
)

const (
	// PPUMASK bits
	// $2001

	greyscale       = 0
	leftmostBg      = 1
	leftmostSprites = 2
	showBg          = 3
	showSprites     = 4
)

const (
	// PPUSTATUS bits
	// $2002

	// Set during sprite evaluation when more than eight sprites appear
	// on a scanline, cleared at dot 1 of the pre-render line.
	spriteOverflow = 5

	// Sprite 0 Hit. Set when a nonzero pixel of sprite 0 overlaps a
	// nonzero background pixel, cleared at dot 1 of the pre-render line.
	sprite0Hit = 6

	// Vertical blank has started. Set at dot 1 of line 241, cleared
	// after reading $2002 and at dot 1 of the pre-render line.
	vblank = 7
)

type PPU struct {
	Bus *hwio.Table // PPU bus

	Cycle    int // Current cycle/pixel in scanline
	Scanline int // Current scanline being drawn
	Frames   uint64

	//	$0000-$0FFF	$1000	Pattern table 0
	//	$1000-$1FFF	$1000	Pattern table 1
	// mapped by the cartridge (CHR ROM or CHR RAM)

	// $2000-$2FFF nametables, mirrored up to $3EFF. 2KiB on board,
	// arrangement decided by the cartridge.
	nametables [0x1000]uint8

	// $3F00-$3F1F palette RAM, mirrored up to $3FFF.
	palette paletteRAM

	OAM [256]uint8

	// CPU-exposed memory-mapped PPU registers,
	// mapped from $2000 to $2007, mirrored up to $3FFF.
	PPUCTRL   hwio.Reg8
	PPUMASK   hwio.Reg8
	PPUSTATUS hwio.Reg8
	OAMADDR   hwio.Reg8
	OAMDATA   hwio.Reg8
	PPUSCROLL hwio.Reg8
	PPUADDR   hwio.Reg8
	PPUDATA   hwio.Reg8

	// NMI is pulled at the start of vblank when enabled in PPUCTRL.
	NMI func()

	// FrameEnd is called once the framebuffer for the current frame is
	// complete, right before vblank is raised.
	FrameEnd func(*image.RGBA)

	// Frames are rendered into a small ring of buffers so that the one
	// handed to FrameEnd is never written to while a consumer on another
	// goroutine still holds it.
	screens   [numVideoBuffers]*image.RGBA
	screenidx int

	// VRAM read/write
	vramAddr    uint16
	vramTmp     uint16
	fineX       uint8
	writeLatch  bool
	ppuDataRbuf uint8
}

const numVideoBuffers = 3

func New() *PPU {
	p := &PPU{
		Bus: hwio.NewTable("ppu"),
	}
	for i := range p.screens {
		p.screens[i] = image.NewRGBA(image.Rect(0, 0, 256, 240))
	}
	p.initRegs()
	return p
}

// Output returns the most recently completed frame.
func (p *PPU) Output() *image.RGBA {
	return p.screens[p.screenidx]
}

// Dot reports the current beam position.
func (p *PPU) Dot() (scanline, cycle int) {
	return p.Scanline, p.Cycle
}

func (p *PPU) initRegs() {
	p.PPUCTRL = hwio.Reg8{Name: "PPUCTRL", Flags: hwio.RegFlagWriteOnly, WriteCb: p.writePPUCTRL}
	p.PPUMASK = hwio.Reg8{Name: "PPUMASK", Flags: hwio.RegFlagWriteOnly}
	p.PPUSTATUS = hwio.Reg8{Name: "PPUSTATUS", Flags: hwio.RegFlagReadOnly, ReadCb: p.readPPUSTATUS}
	p.OAMADDR = hwio.Reg8{Name: "OAMADDR", Flags: hwio.RegFlagWriteOnly}
	p.OAMDATA = hwio.Reg8{Name: "OAMDATA", ReadCb: p.readOAMDATA, WriteCb: p.writeOAMDATA}
	p.PPUSCROLL = hwio.Reg8{Name: "PPUSCROLL", Flags: hwio.RegFlagWriteOnly, WriteCb: p.writePPUSCROLL}
	p.PPUADDR = hwio.Reg8{Name: "PPUADDR", Flags: hwio.RegFlagWriteOnly, WriteCb: p.writePPUADDR}
	p.PPUDATA = hwio.Reg8{Name: "PPUDATA", ReadCb: p.readPPUDATA, WriteCb: p.writePPUDATA}
}

// MapNametables maps the on-board nametable RAM into the PPU bus with the
// arrangement requested by the cartridge. Four-screen cartridges get the
// full 4KiB without mirroring.
func (p *PPU) MapNametables(m ines.Mirroring) {
	nt := p.nametables[:]
	switch m {
	case ines.VerticalMirroring:
		// $2000=$2800, $2400=$2C00
		p.Bus.MapMem(0x2000, &hwio.Mem{Name: "nt", Data: nt[:0x800], VSize: 0x1000})
		p.Bus.MapMem(0x3000, &hwio.Mem{Name: "nt", Data: nt[:0x800], VSize: 0xF00})
	case ines.HorizontalMirroring:
		// $2000=$2400, $2800=$2C00
		p.Bus.MapMem(0x2000, &hwio.Mem{Name: "nt0", Data: nt[:0x400], VSize: 0x800})
		p.Bus.MapMem(0x2800, &hwio.Mem{Name: "nt1", Data: nt[0x400:0x800], VSize: 0x800})
		p.Bus.MapMem(0x3000, &hwio.Mem{Name: "nt0", Data: nt[:0x400], VSize: 0x800})
		p.Bus.MapMem(0x3800, &hwio.Mem{Name: "nt1", Data: nt[0x400:0x800], VSize: 0x700})
	case ines.FourScreenMirroring:
		p.Bus.MapMem(0x2000, &hwio.Mem{Name: "nt", Data: nt, VSize: 0x1000})
		p.Bus.MapMem(0x3000, &hwio.Mem{Name: "nt", Data: nt, VSize: 0xF00})
	}

	if err := p.Bus.InsertRange(0x3F00, 0x3FFF, &p.palette); err != nil {
		panic(err)
	}
}

func (p *PPU) Reset() {
	p.Scanline = 0
	p.Cycle = 0
	p.writeLatch = false
	p.vramAddr = 0
	p.vramTmp = 0
	p.ppuDataRbuf = 0
	p.PPUCTRL.Value = 0
	p.PPUMASK.Value = 0
	p.PPUSTATUS.Value = 0
}

// Tick advances the PPU by one dot.
func (p *PPU) Tick() {
	switch {
	case p.Scanline == 241 && p.Cycle == 1:
		p.beginVblank()
	case p.Scanline == 261 && p.Cycle == 1:
		// Clear vblank, sprite0Hit and spriteOverflow
		const mask = 1<<vblank | 1<<sprite0Hit | 1<<spriteOverflow
		p.PPUSTATUS.Value &^= mask
	case p.Scanline < 240 && p.Cycle == 1:
		p.checkSprite0()
	}

	p.Cycle++
	if p.Cycle >= NumCycles {
		p.Cycle -= NumCycles
		p.Scanline++
		if p.Scanline >= NumScanlines {
			p.Scanline = 0
			p.Frames++
		}
	}
}

func (p *PPU) beginVblank() {
	p.renderFrame()
	if p.FrameEnd != nil {
		p.FrameEnd(p.screens[p.screenidx])
	}

	p.PPUSTATUS.Value |= 1 << vblank
	if p.PPUCTRL.Value&(1<<nmi) != 0 && p.NMI != nil {
		p.NMI()
	}
}

// checkSprite0 approximates the sprite 0 hit: the flag raises on the first
// scanline overlapping sprite 0 while rendering is on. Good enough for the
// split-screen polling loops that use it.
func (p *PPU) checkSprite0() {
	rendering := p.PPUMASK.Value&(1<<showBg|1<<showSprites) == 1<<showBg|1<<showSprites
	if !rendering {
		return
	}
	s0y := int(p.OAM[0]) + 1
	if p.Scanline >= s0y && p.Scanline < s0y+p.spriteHeight() {
		p.PPUSTATUS.Value |= 1 << sprite0Hit
	}
}

func (p *PPU) spriteHeight() int {
	if hwio.GetBit(p.PPUCTRL.Value, spriteSize) {
		return 16
	}
	return 8
}

/* register callbacks */

// PPUCTRL: $2000
func (p *PPU) writePPUCTRL(old, val uint8) {
	log.ModPPU.DebugZ("Write to PPUCTRL").Hex8("val", val).End()

	// By toggling the nmi bit during vblank without reading PPUSTATUS, a
	// program can cause /nmi to be pulled low multiple times, generating
	// multiple NMIs.
	risingEdge := old&(1<<nmi) == 0 && val&(1<<nmi) != 0
	if risingEdge && p.PPUSTATUS.Value&(1<<vblank) != 0 && p.NMI != nil {
		p.NMI()
	}

	// Transfer the nametable bits.
	p.vramTmp &^= ntselect << 10
	p.vramTmp |= (uint16(val) & ntselect) << 10
}

// PPUSTATUS: $2002
func (p *PPU) readPPUSTATUS(val uint8) uint8 {
	p.writeLatch = false
	p.PPUSTATUS.Value = hwio.ClearBit(p.PPUSTATUS.Value, vblank)
	return val
}

// OAMDATA: $2004
func (p *PPU) readOAMDATA(_ uint8) uint8 {
	return p.OAM[p.OAMADDR.Value]
}

func (p *PPU) writeOAMDATA(_, val uint8) {
	p.OAM[p.OAMADDR.Value] = val
	p.OAMADDR.Value++
}

// PPUSCROLL: $2005
func (p *PPU) writePPUSCROLL(old, val uint8) {
	if !p.writeLatch { // first write: X scroll
		p.fineX = val & 0b111
		p.vramTmp &^= 0b1_1111
		p.vramTmp |= uint16(val >> 3)
	} else { // second write: Y scroll
		p.vramTmp &^= 0b0111_0011_1110_0000
		p.vramTmp |= uint16(val&0b111) << 12
		p.vramTmp |= uint16(val&0b1111_1000) << 2
	}

	p.writeLatch = !p.writeLatch
}

// To read/write VRAM from the CPU, PPUADDR is set to the address of the
// operation. It's a 16-bit register so 2 writes are necessary.
// PPUADDR: $2006
func (p *PPU) writePPUADDR(old, val uint8) {
	if !p.writeLatch { // first write: high byte
		p.vramTmp &^= 0b11_1111_0000_0000
		p.vramTmp |= uint16(val&0b11_1111) << 8
		p.vramTmp &^= 1 << 14
	} else { // second write: low byte
		p.vramTmp &^= 0xff
		p.vramTmp |= uint16(val)
		p.vramAddr = p.vramTmp
	}

	p.writeLatch = !p.writeLatch
}

// PPUDATA: $2007
func (p *PPU) readPPUDATA(_ uint8) uint8 {
	addr := p.vramAddr & 0x3fff
	var val uint8
	switch {
	case addr < 0x3F00:
		// Reading VRAM is too slow so the actual data
		// will be returned at the next read.
		val = p.ppuDataRbuf
		p.ppuDataRbuf = p.Bus.Read8(addr)
	default: // $3F00-3FFF
		// Reading palette data is immediate, but it still overwrites
		// the read buffer with the nametable byte underneath.
		val = p.Bus.Read8(addr)
		p.ppuDataRbuf = p.Bus.Read8(addr - 0x1000)
	}

	p.incVRAMaddr()
	log.ModPPU.DebugZ("VRAM read").
		Hex16("addr", addr).
		Hex8("val", val).
		End()
	return val
}

func (p *PPU) writePPUDATA(old, val uint8) {
	// Mirror down address (only $0000-$3fff range is valid).
	addr := p.vramAddr & 0x3fff
	p.Bus.Write8(addr, val)
	p.incVRAMaddr()

	log.ModPPU.DebugZ("VRAM write").
		Hex16("addr", addr).
		Hex8("val", val).
		End()
}

// After each i/o on PPUDATA, the VRAM address is incremented, going across
// or down depending on PPUCTRL.
func (p *PPU) incVRAMaddr() {
	incr := uint16(1)
	if hwio.GetBit(p.PPUCTRL.Value, vramIncr) {
		incr = 32
	}
	p.vramAddr = (p.vramAddr + incr) & 0x7fff
}

// paletteRAM is the 32-byte palette area at $3F00-$3F1F, mirrored up to
// $3FFF. Entries $3F10/$3F14/$3F18/$3F1C are mirrors of $3F00/$3F04/
// $3F08/$3F0C.
type paletteRAM struct {
	mem [32]uint8
}

func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx&0x13 == 0x10 {
		idx &= 0x0F
	}
	return idx
}

func (pr *paletteRAM) Read8(addr uint16) uint8 {
	return pr.mem[paletteIndex(addr)]
}

func (pr *paletteRAM) Write8(addr uint16, val uint8) {
	pr.mem[paletteIndex(addr)] = val
}

func (pr *paletteRAM) Peek8(addr uint16) uint8 {
	return pr.Read8(addr)
}

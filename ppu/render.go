package ppu

import "image"

// Frame-level renderer. The whole picture is produced in one go at the
// start of vblank from the nametables, pattern tables and OAM as they are
// at that point. Mid-frame raster tricks are out of scope, scrolling and
// sprite priority behave as on hardware for games that set them up during
// vblank.

func (p *PPU) renderFrame() {
	// Rotate to the next video buffer, the previous one may still be on
	// its way to the display.
	p.screenidx++
	if p.screenidx == numVideoBuffers {
		p.screenidx = 0
	}
	fb := p.screens[p.screenidx]

	// Greyscale is applied by masking the palette index, as on hardware.
	var cmask uint8 = 0x3F
	if p.PPUMASK.Value&(1<<greyscale) != 0 {
		cmask = 0x30
	}

	backdrop := Palette[p.palette.Read8(0x3F00)&cmask]
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			fb.SetRGBA(x, y, backdrop)
		}
	}

	// bgpix keeps the 2-bit background pattern value per pixel, needed
	// for sprite priority.
	var bgpix [240][256]uint8

	if p.PPUMASK.Value&(1<<showBg) != 0 {
		p.renderBackground(fb, &bgpix, cmask)
	}
	if p.PPUMASK.Value&(1<<showSprites) != 0 {
		p.renderSprites(fb, &bgpix, cmask)
	}
}

func (p *PPU) renderBackground(fb *image.RGBA, bgpix *[240][256]uint8, cmask uint8) {
	// Reconstruct the scroll origin from the temporary VRAM address,
	// which holds the values last written to PPUSCROLL/PPUCTRL.
	coarseX := int(p.vramTmp & 0b1_1111)
	coarseY := int((p.vramTmp >> 5) & 0b1_1111)
	ntX := int((p.vramTmp >> 10) & 1)
	ntY := int((p.vramTmp >> 11) & 1)
	fineY := int((p.vramTmp >> 12) & 0b111)

	scrollX := ntX*256 + coarseX*8 + int(p.fineX)
	scrollY := ntY*240 + coarseY*8 + fineY

	var patBase uint16
	if p.PPUCTRL.Value&(1<<backgroundAddr) != 0 {
		patBase = 0x1000
	}

	x0 := 0
	if p.PPUMASK.Value&(1<<leftmostBg) == 0 {
		x0 = 8
	}

	for y := 0; y < 240; y++ {
		wy := (y + scrollY) % 480
		ntv := wy / 240 // 0 or 1, vertical nametable select
		ty := (wy % 240) / 8
		py := wy % 8

		for x := x0; x < 256; x++ {
			wx := (x + scrollX) % 512
			nth := wx / 256
			tx := (wx % 256) / 8
			px := wx % 8

			ntAddr := 0x2000 | uint16(ntv)<<11 | uint16(nth)<<10 |
				uint16(ty)<<5 | uint16(tx)
			tile := p.Bus.Read8(ntAddr)

			lo := p.Bus.Read8(patBase + uint16(tile)*16 + uint16(py))
			hi := p.Bus.Read8(patBase + uint16(tile)*16 + uint16(py) + 8)
			shift := uint(7 - px)
			pix := (lo>>shift)&1 | ((hi>>shift)&1)<<1
			if pix == 0 {
				continue
			}
			bgpix[y][x] = pix

			// Attribute table: one byte covers a 32x32 pixel area,
			// 2 bits per 16x16 quadrant.
			atAddr := 0x23C0 | uint16(ntv)<<11 | uint16(nth)<<10 |
				uint16(ty/4)<<3 | uint16(tx/4)
			at := p.Bus.Read8(atAddr)
			quad := uint((ty&2)<<1 | tx&2)
			pal := (at >> quad) & 0b11

			ci := p.palette.Read8(0x3F00 + uint16(pal)*4 + uint16(pix))
			fb.SetRGBA(x, y, Palette[ci&cmask])
		}
	}
}

func (p *PPU) renderSprites(fb *image.RGBA, bgpix *[240][256]uint8, cmask uint8) {
	h := p.spriteHeight()

	x0 := 0
	if p.PPUMASK.Value&(1<<leftmostSprites) == 0 {
		x0 = 8
	}

	// Draw back to front so that lower-indexed sprites win overlaps.
	for i := 63; i >= 0; i-- {
		sy := int(p.OAM[i*4]) + 1
		tile := p.OAM[i*4+1]
		attr := p.OAM[i*4+2]
		sx := int(p.OAM[i*4+3])

		if sy >= 240 {
			continue
		}

		pal := attr & 0b11
		behind := attr&0x20 != 0
		hflip := attr&0x40 != 0
		vflip := attr&0x80 != 0

		var patBase uint16
		tidx := uint16(tile)
		if h == 16 {
			// 8x16 sprites: bit 0 of the tile index selects the
			// pattern table, the tile pair is index&0xFE.
			patBase = uint16(tile&1) << 12
			tidx = uint16(tile &^ 1)
		} else if p.PPUCTRL.Value&(1<<spriteAddr) != 0 {
			patBase = 0x1000
		}

		for row := 0; row < h; row++ {
			y := sy + row
			if y < 0 || y >= 240 {
				continue
			}

			r := row
			if vflip {
				r = h - 1 - row
			}
			t := tidx
			if r >= 8 {
				t++
				r -= 8
			}
			lo := p.Bus.Read8(patBase + t*16 + uint16(r))
			hi := p.Bus.Read8(patBase + t*16 + uint16(r) + 8)

			for col := 0; col < 8; col++ {
				x := sx + col
				if x < x0 || x >= 256 {
					continue
				}

				shift := uint(7 - col)
				if hflip {
					shift = uint(col)
				}
				pix := (lo>>shift)&1 | ((hi>>shift)&1)<<1
				if pix == 0 {
					continue
				}
				if behind && bgpix[y][x] != 0 {
					continue
				}

				ci := p.palette.Read8(0x3F10 + uint16(pal)*4 + uint16(pix))
				fb.SetRGBA(x, y, Palette[ci&cmask])
			}
		}
	}
}

package ppu

// spriteUnit holds the sprite rendering state for one scanline: up to 8
// pattern shift bytes, X counters and attribute bytes copied out of
// secondaryOAM, plus which of the 8 (if any) is sprite 0 for hit detection.
type spriteUnit struct {
	count int

	patternsLo, patternsHi [8]uint8
	xCounters              [8]uint8
	attributes             [8]uint8
	indices                [8]int

	spriteZeroIncluded bool
}

// stepSpriteEvaluation runs the per-dot sprite pipeline. Real hardware
// evaluates and fetches a scanline's sprites *during the previous
// scanline* so they're ready the instant rendering reaches it; this keeps
// that same one-scanline pipeline via two buffers: p.spr is what the
// current scanline renders from, p.sprNext is what's being built (from
// secondaryOAM) for the scanline after this one. At cycle 1, p.sprNext
// from the previous scanline is promoted into p.spr before a fresh
// p.sprNext is started, so the buffer just fetched at cycle 257 of
// scanline N survives to be rendered on scanline N+1 instead of being
// wiped before ever being read.
func (p *PPU) stepSpriteEvaluation() {
	if !p.renderingEnabled() {
		return
	}
	switch p.Cycle {
	case 1:
		p.spr = p.sprNext
		for i := range p.secondaryOAM {
			p.secondaryOAM[i] = 0xFF
		}
		p.sprNext = spriteUnit{}
	case 65:
		p.evaluateSprites()
	case 257:
		p.fetchSpritePatterns()
	}
}

// targetScanline returns the scanline sprite evaluation run on this dot is
// preparing sprites for: always the next scanline, wrapping the
// pre-render line's "next" around to scanline 0.
func (p *PPU) targetScanline() int {
	if p.Scanline == 261 {
		return 0
	}
	return p.Scanline + 1
}

func (p *PPU) spriteHeight() int {
	if p.PPUCTRL&ctrlSpriteSize != 0 {
		return 16
	}
	return 8
}

// evaluateSprites scans all 64 OAM entries for ones intersecting
// targetScanline(), copying up to 8 into secondaryOAM (and p.sprNext) and
// setting the sprite overflow flag when a 9th is found.
func (p *PPU) evaluateSprites() {
	height := p.spriteHeight()
	count := 0
	target := p.targetScanline()

	for i := 0; i < 64; i++ {
		y := p.OAM[i*4]
		row := target - int(y)
		if row < 0 || row >= height {
			continue
		}
		if count < 8 {
			copy(p.secondaryOAM[count*4:count*4+4], p.OAM[i*4:i*4+4])
			p.sprNext.indices[count] = i
			if i == 0 {
				p.sprNext.spriteZeroIncluded = true
			}
			count++
			continue
		}
		p.PPUSTATUS |= statusOverflow
		break
	}

	p.sprNext.count = count
}

// fetchSpritePatterns loads the pattern shift bytes for every sprite found
// by evaluateSprites into p.sprNext, honoring 8x8/8x16 addressing and
// horizontal/vertical flip.
func (p *PPU) fetchSpritePatterns() {
	height := p.spriteHeight()
	target := p.targetScanline()

	for s := 0; s < p.sprNext.count; s++ {
		y := p.secondaryOAM[s*4]
		tileIndex := p.secondaryOAM[s*4+1]
		attr := p.secondaryOAM[s*4+2]
		x := p.secondaryOAM[s*4+3]

		row := target - int(y)
		if attr&0x80 != 0 {
			row = height - 1 - row
		}

		var base, tile uint16
		if height == 16 {
			base = uint16(tileIndex&0x01) * 0x1000
			tile = uint16(tileIndex &^ 0x01)
			if row >= 8 {
				tile++
				row -= 8
			}
		} else {
			if p.PPUCTRL&ctrlSpriteTable != 0 {
				base = 0x1000
			}
			tile = uint16(tileIndex)
		}

		addr := base + tile*16 + uint16(row)
		lo := p.readVRAM(addr)
		hi := p.readVRAM(addr + 8)
		if attr&0x40 != 0 {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		p.sprNext.patternsLo[s] = lo
		p.sprNext.patternsHi[s] = hi
		p.sprNext.attributes[s] = attr
		p.sprNext.xCounters[s] = x
	}
}

func reverseBits(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

// spritePixelAt returns the sprite pixel at screen column x, if any sprite
// in the current scanline's unit covers it. The first matching sprite in
// OAM priority order (lowest index among the 8 evaluated) wins.
func (p *PPU) spritePixelAt(x int) (palette uint8, colorIndex uint8, behindBackground bool, isSpriteZero bool) {
	if p.PPUMASK&maskSpriteShow == 0 {
		return 0, 0, false, false
	}

	for s := 0; s < p.spr.count; s++ {
		offset := x - int(p.spr.xCounters[s])
		if offset < 0 || offset > 7 {
			continue
		}
		lo := (p.spr.patternsLo[s] >> (7 - uint(offset))) & 1
		hi := (p.spr.patternsHi[s] >> (7 - uint(offset))) & 1
		ci := lo | hi<<1
		if ci == 0 {
			continue
		}
		pal := p.spr.attributes[s] & 0x03
		behind := p.spr.attributes[s]&0x20 != 0
		zero := s == 0 && p.spr.spriteZeroIncluded
		return pal, ci, behind, zero
	}
	return 0, 0, false, false
}

// renderPixel muxes the background and sprite pixels for screen position
// (x, y), applies left-edge clipping and sprite-0-hit detection, and writes
// the final color to the attached sink.
func (p *PPU) renderPixel(x, y int) {
	bgPalette, bgColor := p.backgroundPixel()
	if x < 8 && p.PPUMASK&maskBGLeft == 0 {
		bgColor = 0
	}

	sprPalette, sprColor, sprBehind, sprIsZero := p.spritePixelAt(x)
	if x < 8 && p.PPUMASK&maskSpriteLeft == 0 {
		sprColor = 0
	}

	if sprIsZero && bgColor != 0 && sprColor != 0 && x != 255 &&
		p.PPUMASK&maskBGShow != 0 && p.PPUMASK&maskSpriteShow != 0 {
		p.PPUSTATUS |= statusSprite0Hit
	}

	var color uint32
	switch {
	case bgColor == 0 && sprColor == 0:
		color = p.PaletteManager.GetBackgroundColor(0, 0)
	case bgColor == 0:
		color, _ = p.PaletteManager.GetSpriteColor(sprPalette, sprColor)
	case sprColor == 0:
		color = p.PaletteManager.GetBackgroundColor(bgPalette, bgColor)
	case sprBehind:
		color = p.PaletteManager.GetBackgroundColor(bgPalette, bgColor)
	default:
		color, _ = p.PaletteManager.GetSpriteColor(sprPalette, sprColor)
	}

	if p.Sink != nil {
		p.Sink.SetPixel(x, y, color)
	}
}

package ppu

// backgroundPipeline holds the latches and shift registers that drive the
// background tile fetch state machine (spec.md §4.2): two 16-bit pattern
// shift registers and two 8-bit-expanded attribute shift registers, reloaded
// every 8 dots from a nametable/attribute/pattern-low/pattern-high fetch.
type backgroundPipeline struct {
	ntByte, atByte       uint8
	patternLo, patternHi uint8

	shiftPatternLo, shiftPatternHi uint16
	shiftAttrLo, shiftAttrHi       uint16
}

// stepBackgroundFetch runs the per-dot background fetch/shift state machine
// for one dot of a visible or pre-render scanline.
func (p *PPU) stepBackgroundFetch(visible bool) {
	if !p.renderingEnabled() {
		return
	}

	fetchActive := (p.Cycle >= 1 && p.Cycle <= 256) || (p.Cycle >= 321 && p.Cycle <= 336)

	if fetchActive {
		p.shiftBackgroundRegisters()

		switch (p.Cycle - 1) % 8 {
		case 0:
			p.loadBackgroundShifters()
			p.fetchNameTableByte()
		case 2:
			p.fetchAttributeByte()
		case 4:
			p.fetchPatternLowByte()
		case 6:
			p.fetchPatternHighByte()
		case 7:
			p.incrementCoarseX()
		}
	}

	if visible && p.Cycle == 256 {
		p.incrementFineY()
	}
	if p.Cycle == 257 {
		p.loadBackgroundShifters()
		p.transferHorizontalScroll()
	}
}

func (p *PPU) shiftBackgroundRegisters() {
	p.bg.shiftPatternLo <<= 1
	p.bg.shiftPatternHi <<= 1
	p.bg.shiftAttrLo <<= 1
	p.bg.shiftAttrHi <<= 1
}

func (p *PPU) loadBackgroundShifters() {
	p.bg.shiftPatternLo = (p.bg.shiftPatternLo & 0xFF00) | uint16(p.bg.patternLo)
	p.bg.shiftPatternHi = (p.bg.shiftPatternHi & 0xFF00) | uint16(p.bg.patternHi)

	var attrLo, attrHi uint16
	if p.bg.atByte&0x01 != 0 {
		attrLo = 0xFF
	}
	if p.bg.atByte&0x02 != 0 {
		attrHi = 0xFF
	}
	p.bg.shiftAttrLo = (p.bg.shiftAttrLo & 0xFF00) | attrLo
	p.bg.shiftAttrHi = (p.bg.shiftAttrHi & 0xFF00) | attrHi
}

func (p *PPU) fetchNameTableByte() {
	addr := 0x2000 | (p.v & 0x0FFF)
	p.bg.ntByte = p.readVRAM(addr)
}

func (p *PPU) fetchAttributeByte() {
	addr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
	raw := p.readVRAM(addr)
	shift := ((p.v >> 4) & 4) | (p.v & 2)
	p.bg.atByte = (raw >> shift) & 0x03
}

func (p *PPU) backgroundPatternBase() uint16 {
	if p.PPUCTRL&ctrlBGTable != 0 {
		return 0x1000
	}
	return 0x0000
}

func (p *PPU) fetchPatternLowByte() {
	fineY := (p.v >> 12) & 0x07
	addr := p.backgroundPatternBase() + uint16(p.bg.ntByte)*16 + fineY
	p.bg.patternLo = p.readVRAM(addr)
}

func (p *PPU) fetchPatternHighByte() {
	fineY := (p.v >> 12) & 0x07
	addr := p.backgroundPatternBase() + uint16(p.bg.ntByte)*16 + fineY + 8
	p.bg.patternHi = p.readVRAM(addr)
}

func (p *PPU) incrementCoarseX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementFineY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) transferHorizontalScroll() {
	p.v = (p.v & 0xFBE0) | (p.t & 0x041F)
}

// backgroundPixel returns (palette index 0-3, color index 0-3) for the
// current dot using the fine-X-selected bit of each shift register. Color
// index 0 means transparent/backdrop.
func (p *PPU) backgroundPixel() (palette uint8, colorIndex uint8) {
	if p.PPUMASK&maskBGShow == 0 {
		return 0, 0
	}
	bit := uint16(0x8000) >> p.x
	lo := uint8(0)
	if p.bg.shiftPatternLo&bit != 0 {
		lo = 1
	}
	hi := uint8(0)
	if p.bg.shiftPatternHi&bit != 0 {
		hi = 1
	}
	colorIndex = lo | hi<<1

	palLo := uint8(0)
	if p.bg.shiftAttrLo&bit != 0 {
		palLo = 1
	}
	palHi := uint8(0)
	if p.bg.shiftAttrHi&bit != 0 {
		palHi = 1
	}
	palette = palLo | palHi<<1
	return
}

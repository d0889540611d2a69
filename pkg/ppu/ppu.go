// Package ppu implements the NES Picture Processing Unit: the per-dot
// background fetch pipeline, sprite evaluation, pixel muxing and the
// $2000-$2007 register ports.
package ppu

import (
	"github.com/yoshiomiyamae/gones2c02/pkg/cartridge/mapper"
)

// Sink receives rendered pixels. pkg/video implements it; tests can supply
// their own trivial implementation.
type Sink interface {
	SetPixel(x, y int, color uint32)
}

// Cartridge is the minimal interface the PPU needs from the inserted
// cartridge: CHR access and the live nametable mirroring mode.
type Cartridge interface {
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
	Mirroring() mapper.MirroringMode
}

// PPUCTRL flags
const (
	ctrlNameTable   = 0x03
	ctrlIncrement   = 0x04
	ctrlSpriteTable = 0x08
	ctrlBGTable     = 0x10
	ctrlSpriteSize  = 0x20
	ctrlNMIEnable   = 0x80
)

// PPUMASK flags
const (
	maskGreyscale  = 0x01
	maskBGLeft     = 0x02
	maskSpriteLeft = 0x04
	maskBGShow     = 0x08
	maskSpriteShow = 0x10
)

// PPUSTATUS flags
const (
	statusSprite0Hit = 0x40
	statusOverflow   = 0x20
	statusVBlank     = 0x80
)

// PPU is the NES Picture Processing Unit.
type PPU struct {
	PPUCTRL   uint8
	PPUMASK   uint8
	PPUSTATUS uint8
	OAMADDR   uint8

	// Loopy registers: v/t are 15-bit VRAM addresses, x is 3-bit fine X
	// scroll, w is the shared write-toggle for $2005/$2006.
	v, t uint16
	x    uint8
	w    uint8

	readBuffer uint8

	// Nametable RAM: two independent 1KiB banks. Which physical bank a
	// given nametable-address quadrant maps to is decided by the
	// cartridge's live mirroring mode (mirrorNameTableAddr).
	nameTableA [1024]uint8
	nameTableB [1024]uint8

	OAM          [256]uint8
	secondaryOAM [32]uint8 // 8 sprites x 4 bytes, reloaded every scanline

	PaletteManager *PaletteManager
	Cartridge      Cartridge
	Sink           Sink

	Cycle    int
	Scanline int
	Frame    uint64

	oddFrame bool

	NMIRequested bool

	bg      backgroundPipeline
	spr     spriteUnit // sprites the scanline currently being drawn renders from
	sprNext spriteUnit // sprites being evaluated/fetched for the scanline after this one
}

// New creates a PPU not yet attached to a cartridge.
func New() *PPU {
	return &PPU{PaletteManager: NewPaletteManager()}
}

// SetCartridge attaches the cartridge the PPU reads CHR data and mirroring
// mode from.
func (p *PPU) SetCartridge(cart Cartridge) { p.Cartridge = cart }

// SetSink attaches the video sink pixels are rendered into.
func (p *PPU) SetSink(sink Sink) { p.Sink = sink }

// Reset returns the PPU to its power-up state.
func (p *PPU) Reset() {
	p.PPUCTRL, p.PPUMASK, p.PPUSTATUS = 0, 0, 0
	p.OAMADDR = 0
	p.v, p.t, p.x, p.w = 0, 0, 0, 0
	p.Cycle, p.Scanline = 0, 0
	p.oddFrame = false
	p.bg = backgroundPipeline{}
	p.spr = spriteUnit{}
	p.sprNext = spriteUnit{}
}

func (p *PPU) renderingEnabled() bool {
	return p.PPUMASK&(maskBGShow|maskSpriteShow) != 0
}

// DotResult classifies what just happened on the dot the PPU stepped past,
// for the frame scheduler to react to.
type DotResult struct {
	NMI          bool // vblank just started and NMI is enabled
	FrameDone    bool // a full frame was just completed (pre-render wrap)
	VisiblePixel bool // a pixel was just written to the framebuffer
}

// Step advances the PPU by exactly one dot (1 PPU clock) and reports what
// happened on it.
func (p *PPU) Step() DotResult {
	var result DotResult

	p.PaletteManager.SetEmphasis(p.PPUMASK & 0xE0)

	visible := p.Scanline >= 0 && p.Scanline < 240
	preRender := p.Scanline == 261

	if visible || preRender {
		p.stepBackgroundFetch(visible)
		// Sprite evaluation also runs on the pre-render line: it's what
		// builds the sprite buffer scanline 0 renders from, the same way
		// every other scanline's sprites are built one line ahead.
		p.stepSpriteEvaluation()
	}

	if visible && p.Cycle >= 1 && p.Cycle <= 256 {
		p.renderPixel(p.Cycle - 1, p.Scanline)
		result.VisiblePixel = true
	}

	if p.Scanline == 241 && p.Cycle == 1 {
		p.PPUSTATUS |= statusVBlank
		if p.PPUCTRL&ctrlNMIEnable != 0 {
			p.NMIRequested = true
			result.NMI = true
		}
	}

	if preRender && p.Cycle >= 280 && p.Cycle <= 304 && p.renderingEnabled() {
		p.v = (p.v & 0x841F) | (p.t & 0x7BE0)
	}

	p.Cycle++

	// Odd-frame dot skip: on odd frames, the pre-render scanline's last
	// dot is skipped when rendering is enabled.
	if preRender && p.Cycle == 340 && p.oddFrame && p.renderingEnabled() {
		p.Cycle = 341
	}

	if p.Cycle >= 341 {
		p.Cycle = 0
		p.Scanline++

		if p.Scanline >= 262 {
			p.Scanline = 0
			p.Frame++
			p.oddFrame = !p.oddFrame
			p.PPUSTATUS &^= statusVBlank | statusSprite0Hit | statusOverflow
			result.FrameDone = true
		}
	}

	return result
}

// ReadRegister services a CPU read of $2002/$2004/$2007 (mirrored every 8
// bytes across $2000-$3FFF by the bus).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0x2002:
		value := p.PPUSTATUS
		p.PPUSTATUS &^= statusVBlank
		p.w = 0
		return value

	case 0x2004:
		return p.OAM[p.OAMADDR]

	case 0x2007:
		var value uint8
		if p.v >= 0x3F00 {
			value = p.readVRAM(p.v)
			p.readBuffer = p.readVRAM(p.v - 0x1000)
		} else {
			value = p.readBuffer
			p.readBuffer = p.readVRAM(p.v)
		}
		p.incrementVRAMAddr()
		return value
	}
	return 0
}

// WriteRegister services a CPU write to $2000-$2007.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr {
	case 0x2000:
		p.PPUCTRL = value
		p.t = (p.t & 0xF3FF) | ((uint16(value) & 0x03) << 10)

	case 0x2001:
		p.PPUMASK = value

	case 0x2003:
		p.OAMADDR = value

	case 0x2004:
		p.OAM[p.OAMADDR] = value
		p.OAMADDR++

	case 0x2005:
		if p.w == 0 {
			p.t = (p.t & 0xFFE0) | (uint16(value) >> 3)
			p.x = value & 0x07
			p.w = 1
		} else {
			p.t = (p.t & 0x8FFF) | ((uint16(value) & 0x07) << 12)
			p.t = (p.t & 0xFC1F) | ((uint16(value) & 0xF8) << 2)
			p.w = 0
		}

	case 0x2006:
		if p.w == 0 {
			p.t = (p.t & 0x80FF) | ((uint16(value) & 0x3F) << 8)
			p.w = 1
		} else {
			p.t = (p.t & 0xFF00) | uint16(value)
			p.v = p.t
			p.w = 0
		}

	case 0x2007:
		p.writeVRAM(p.v, value)
		p.incrementVRAMAddr()
	}
}

func (p *PPU) incrementVRAMAddr() {
	if p.PPUCTRL&ctrlIncrement != 0 {
		p.v += 32
	} else {
		p.v++
	}
}

// WriteOAMDMAByte is the callback the bus arbiter's $4014 handler uses to
// copy one byte into OAM, honoring OAMADDR's wraparound.
func (p *PPU) WriteOAMDMAByte(value uint8) {
	p.OAM[p.OAMADDR] = value
	p.OAMADDR++
}

func (p *PPU) readVRAM(addr uint16) uint8 {
	addr %= 0x4000
	switch {
	case addr < 0x2000:
		if p.Cartridge != nil {
			return p.Cartridge.ReadCHR(addr)
		}
		return 0
	case addr < 0x3F00:
		return p.readNameTable(addr)
	default:
		return p.PaletteManager.ReadPalette(uint8(addr & 0x1F))
	}
}

func (p *PPU) writeVRAM(addr uint16, value uint8) {
	addr %= 0x4000
	switch {
	case addr < 0x2000:
		if p.Cartridge != nil {
			p.Cartridge.WriteCHR(addr, value)
		}
	case addr < 0x3F00:
		p.writeNameTable(addr, value)
	default:
		p.PaletteManager.WritePalette(uint8(addr&0x1F), value)
	}
}

func (p *PPU) readNameTable(addr uint16) uint8 {
	bank, offset := p.mirrorNameTableAddr(addr)
	if bank {
		return p.nameTableB[offset]
	}
	return p.nameTableA[offset]
}

func (p *PPU) writeNameTable(addr uint16, value uint8) {
	bank, offset := p.mirrorNameTableAddr(addr)
	if bank {
		p.nameTableB[offset] = value
	} else {
		p.nameTableA[offset] = value
	}
}

// mirrorNameTableAddr maps a $2000-$2FFF address to one of the two
// physical 1KiB nametable banks per the cartridge's live mirroring mode.
// Returns (bank B selected, offset within the 1KiB bank).
func (p *PPU) mirrorNameTableAddr(addr uint16) (bool, uint16) {
	offset := (addr - 0x2000) % 0x1000
	quadrant := offset / 0x400   // which of the 4 logical nametables (0-3)
	within := offset % 0x400

	mode := mapper.MirroringHorizontal
	if p.Cartridge != nil {
		mode = p.Cartridge.Mirroring()
	}

	switch mode {
	case mapper.MirroringVertical:
		return quadrant == 1 || quadrant == 3, within
	case mapper.MirroringOneScreen0:
		return false, within
	case mapper.MirroringOneScreen1:
		return true, within
	default: // Horizontal
		return quadrant == 2 || quadrant == 3, within
	}
}


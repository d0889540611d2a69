package cartridge

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yoshiomiyamae/gones2c02/pkg/cartridge/mapper"
)

// MirroringMode is re-exported from the mapper package so callers never
// need to import both for a single concept.
type MirroringMode = mapper.MirroringMode

const (
	MirroringHorizontal = mapper.MirroringHorizontal
	MirroringVertical   = mapper.MirroringVertical
	MirroringOneScreen0 = mapper.MirroringOneScreen0
	MirroringOneScreen1 = mapper.MirroringOneScreen1
)

// Cartridge represents a NES cartridge
type Cartridge struct {
	// ROM data
	PRGROM []uint8 // Program ROM
	CHRROM []uint8 // Character ROM

	// RAM data
	PRGRAM []uint8 // Program RAM (SRAM)
	CHRRAM []uint8 // Character RAM

	// Header information
	Header iNESHeader

	// Mapper
	Mapper mapper.Mapper

	// Mirroring as read from the header; the live mirroring the PPU should
	// use is Mirroring(), which defers to the mapper for boards (MMC1) that
	// can change it at runtime.
	headerMirroring MirroringMode
}

// iNESHeader represents the iNES file header
type iNESHeader struct {
	Magic      [4]uint8 // "NES\x1A"
	PRGROMSize uint8    // Size of PRG ROM in 16KB units
	CHRROMSize uint8    // Size of CHR ROM in 8KB units
	Flags6     uint8    // Mapper, mirroring, battery, trainer
	Flags7     uint8    // Mapper, VS/Playchoice, NES 2.0
	Flags8     uint8    // PRG-RAM size (rarely used)
	Flags9     uint8    // TV system (rarely used)
	Flags10    uint8    // TV system, PRG-RAM presence (unofficial)
	Padding    [5]uint8 // Unused padding (should be zero)
}

// LoadFromReader loads a cartridge from an iNES file. romName is used to
// derive the battery-save path for boards with PRG RAM persistence; pass ""
// to disable save-file wiring (e.g. from test harnesses).
func LoadFromReader(reader io.Reader, romName string) (*Cartridge, error) {
	cart := &Cartridge{}

	// Read header
	err := cart.readHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Validate header
	if string(cart.Header.Magic[:]) != "NES\x1A" {
		return nil, fmt.Errorf("invalid iNES magic number")
	}

	// Skip trainer if present
	if cart.Header.Flags6&0x04 != 0 {
		trainer := make([]uint8, 512)
		_, err := io.ReadFull(reader, trainer)
		if err != nil {
			return nil, fmt.Errorf("failed to read trainer: %w", err)
		}
	}

	// Read PRG ROM
	prgSize := int(cart.Header.PRGROMSize) * 16384
	cart.PRGROM = make([]uint8, prgSize)
	_, err = io.ReadFull(reader, cart.PRGROM)
	if err != nil {
		return nil, fmt.Errorf("failed to read PRG ROM: %w", err)
	}

	// Read CHR ROM
	chrSize := int(cart.Header.CHRROMSize) * 8192
	if chrSize > 0 {
		cart.CHRROM = make([]uint8, chrSize)
		_, err = io.ReadFull(reader, cart.CHRROM)
		if err != nil {
			return nil, fmt.Errorf("failed to read CHR ROM: %w", err)
		}
	} else {
		// CHR RAM; 8KB covers every board this repo supports.
		cart.CHRRAM = make([]uint8, 8192)
	}

	// Initialize PRG RAM if battery backed
	batteryBacked := cart.Header.Flags6&0x02 != 0
	if batteryBacked {
		cart.PRGRAM = make([]uint8, 8192)
	}

	// Determine mirroring
	if cart.Header.Flags6&0x01 != 0 {
		cart.headerMirroring = MirroringVertical
	} else {
		cart.headerMirroring = MirroringHorizontal
	}

	// Create mapper
	mapperNumber := (cart.Header.Flags6 >> 4) | (cart.Header.Flags7 & 0xF0)

	mapperData := &mapper.CartridgeData{
		PRGROM:    cart.PRGROM,
		CHRROM:    cart.CHRROM,
		PRGRAM:    cart.PRGRAM,
		CHRRAM:    cart.CHRRAM,
		Mirroring: cart.headerMirroring,
	}
	if batteryBacked && romName != "" {
		mapperData.SavePath = savePathFor(romName)
	}

	cart.Mapper, err = mapper.NewMapper(mapperNumber, mapperData)
	if err != nil {
		return nil, fmt.Errorf("failed to create mapper: %w", err)
	}

	return cart, nil
}

// savePathFor derives $XDG_DATA_HOME/gones2c02/<romname>.sav, falling back
// to os.UserConfigDir() when XDG_DATA_HOME is unset (spec.md §6 persistence).
func savePathFor(romName string) string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			base = dir
		} else {
			base = "."
		}
	}
	name := strings.TrimSuffix(filepath.Base(romName), filepath.Ext(romName))
	dir := filepath.Join(base, "gones2c02")
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, name+".sav")
}

// readHeader reads the iNES header
func (c *Cartridge) readHeader(reader io.Reader) error {
	headerBytes := make([]uint8, 16)
	_, err := io.ReadFull(reader, headerBytes)
	if err != nil {
		return err
	}

	copy(c.Header.Magic[:], headerBytes[0:4])
	c.Header.PRGROMSize = headerBytes[4]
	c.Header.CHRROMSize = headerBytes[5]
	c.Header.Flags6 = headerBytes[6]
	c.Header.Flags7 = headerBytes[7]
	c.Header.Flags8 = headerBytes[8]
	c.Header.Flags9 = headerBytes[9]
	c.Header.Flags10 = headerBytes[10]
	copy(c.Header.Padding[:], headerBytes[11:16])

	return nil
}

// ReadPRG reads from PRG space
func (c *Cartridge) ReadPRG(addr uint16) uint8 {
	if c.Mapper != nil {
		return c.Mapper.ReadPRG(addr)
	}
	return 0
}

// WritePRG writes to PRG space
func (c *Cartridge) WritePRG(addr uint16, value uint8) {
	if c.Mapper != nil {
		c.Mapper.WritePRG(addr, value)
	}
}

// ReadCHR reads from CHR space
func (c *Cartridge) ReadCHR(addr uint16) uint8 {
	if c.Mapper != nil {
		return c.Mapper.ReadCHR(addr)
	}
	return 0
}

// WriteCHR writes to CHR space
func (c *Cartridge) WriteCHR(addr uint16, value uint8) {
	if c.Mapper != nil {
		c.Mapper.WriteCHR(addr, value)
	}
}

// Mirroring returns the live nametable mirroring mode, polling the mapper
// directly since MMC1 can change it at runtime.
func (c *Cartridge) Mirroring() MirroringMode {
	if c.Mapper != nil {
		return c.Mapper.Mirroring()
	}
	return c.headerMirroring
}

// Shutdown flushes battery-backed PRG RAM, if any. Errors are logged by the
// caller and otherwise ignored per the persistence error-handling policy.
func (c *Cartridge) Shutdown() error {
	if c.Mapper != nil {
		return c.Mapper.Shutdown()
	}
	return nil
}

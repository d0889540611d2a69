package mapper

import "fmt"

// MirroringMode is the nametable mirroring arrangement a mapper presents to
// the PPU. Four-screen mirroring and the MMC3's scanline-IRQ mapper are out
// of scope for the three boards this repo supports (NROM, MMC1, UNROM).
type MirroringMode int

const (
	MirroringHorizontal MirroringMode = iota
	MirroringVertical
	MirroringOneScreen0
	MirroringOneScreen1
)

// Mapper is the interface the bus and PPU use to reach cartridge-resident
// PRG/CHR storage without knowing which board is installed.
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)

	// Mirroring reports the board's current nametable arrangement. For
	// NROM/UNROM this is fixed at load time; MMC1 can change it at runtime
	// via its control register, so the PPU polls this live rather than
	// caching it.
	Mirroring() MirroringMode

	// Shutdown flushes any battery-backed PRG RAM to persistent storage.
	// Only MMC1 boards in this repo carry a battery.
	Shutdown() error
}

// CartridgeData contains cartridge data for mappers
type CartridgeData struct {
	PRGROM []uint8
	CHRROM []uint8
	PRGRAM []uint8
	CHRRAM []uint8

	// Mirroring is the mirroring arrangement wired into the cartridge by
	// its header (iNES flags 6/7). NROM and UNROM use this as their fixed
	// mirroring; MMC1 ignores it and takes its mirroring from its control
	// register, which powers on as one-screen (lower bank).
	Mirroring MirroringMode

	// SavePath is where battery-backed PRG RAM is persisted, or "" if the
	// board has no battery. Populated by the cartridge loader from
	// $XDG_DATA_HOME/gones2c02/<romname>.sav (or os.UserConfigDir()).
	SavePath string
}

// NewMapper constructs the mapper for the given iNES mapper number. Only
// mappers 0 (NROM), 1 (MMC1) and 2 (UNROM) are supported; anything else is a
// load-time cartridge format error per the error taxonomy. Mapper 71
// (Camerica/Codemasters UNROM-alike) is wired to the same implementation as
// mapper 2: its PRG-bank-switching behavior is identical for every game
// that matters here, and it has no CHR banking or IRQ of its own.
func NewMapper(mapperNumber uint8, data *CartridgeData) (Mapper, error) {
	switch mapperNumber {
	case 0:
		return NewMapper0(data), nil
	case 1:
		return NewMapper1(data), nil
	case 2, 71:
		return NewMapper2(data), nil
	default:
		return nil, fmt.Errorf("unsupported mapper: %d", mapperNumber)
	}
}

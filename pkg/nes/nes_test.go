package nes

import (
	"bytes"
	"testing"

	"github.com/yoshiomiyamae/gones2c02/pkg/cartridge"
)

// buildNROM assembles a minimal 32KB-PRG/8KB-CHR NROM iNES image whose
// reset vector points at resetProgram, copied to $8000, enough to drive
// the scheduler without needing a real game ROM.
func buildNROM(resetProgram []byte) []byte {
	header := []byte{'N', 'E', 'S', 0x1A, 2, 1, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}

	prg := make([]byte, 32768)
	copy(prg, resetProgram)
	prg[0x7FFC] = 0x00 // reset vector low -> $8000
	prg[0x7FFD] = 0x80 // reset vector high

	chr := make([]byte, 8192)

	var buf bytes.Buffer
	buf.Write(header)
	buf.Write(prg)
	buf.Write(chr)
	return buf.Bytes()
}

func newTestNES(t *testing.T, resetProgram []byte) *NES {
	t.Helper()
	data := buildNROM(resetProgram)

	cart, err := cartridge.LoadFromReader(bytes.NewReader(data), "")
	if err != nil {
		t.Fatalf("failed to load test cartridge: %v", err)
	}

	n := New()
	n.LoadCartridge(cart)
	n.Reset()
	return n
}

func TestNewNESResetsToCartridgeResetVector(t *testing.T) {
	n := newTestNES(t, []byte{0xEA}) // NOP

	if n.CPU.PC != 0x8000 {
		t.Errorf("expected PC=0x8000 after reset, got %04X", n.CPU.PC)
	}
}

func TestStepFrameAdvancesFrameCounter(t *testing.T) {
	// JMP $8000: a tight infinite loop so the scheduler has something to
	// chew on for an entire frame without ever crashing into unmapped code.
	n := newTestNES(t, []byte{0x4C, 0x00, 0x80})

	n.StepFrame()

	if n.Frame() != 1 {
		t.Errorf("expected Frame()=1 after one StepFrame, got %d", n.Frame())
	}
}

func TestShutdownWithoutBatteryIsNoOp(t *testing.T) {
	n := newTestNES(t, []byte{0xEA})

	if err := n.Shutdown(); err != nil {
		t.Errorf("expected nil error shutting down a non-battery cartridge, got %v", err)
	}
}

func TestCPUWritesReachPPURegistersThroughTheBus(t *testing.T) {
	n := newTestNES(t, []byte{0xEA})

	n.Bus.Write(0x2000, 0x80)
	if n.PPU.PPUCTRL != 0x80 {
		t.Errorf("expected PPUCTRL=0x80 after bus write, got %02X", n.PPU.PPUCTRL)
	}

	n.Bus.Write(0x2006, 0x20)
	n.Bus.Write(0x2006, 0x00)
	n.Bus.Write(0x2007, 0x42)

	n.Bus.Write(0x2006, 0x20)
	n.Bus.Write(0x2006, 0x00)
	n.PPU.ReadRegister(0x2007) // primes the read buffer
	if got := n.PPU.ReadRegister(0x2007); got != 0x42 {
		t.Errorf("expected VRAM round-trip to read back 0x42, got %02X", got)
	}
}

func TestControllerStrobeReadsBackButtonAThroughTheBus(t *testing.T) {
	n := newTestNES(t, []byte{0xEA})

	n.Input.Port1.SetButton(1<<0, true) // A button

	n.Bus.Write(0x4016, 0x01) // strobe high, continuously reloads
	if got := n.Bus.Read(0x4016) & 1; got != 1 {
		t.Errorf("expected bit 0 set for pressed A button, got %d", got)
	}

	n.Bus.Write(0x4016, 0x00) // strobe low, now shifts through the latch
	if got := n.Bus.Read(0x4016) & 1; got != 1 {
		t.Errorf("expected first shifted-out bit to still be A, got %d", got)
	}
}

// Package nes wires the CPU, PPU, bus, cartridge, controllers and the
// frame scheduler into one running console.
package nes

import (
	"github.com/yoshiomiyamae/gones2c02/pkg/bus"
	"github.com/yoshiomiyamae/gones2c02/pkg/cartridge"
	"github.com/yoshiomiyamae/gones2c02/pkg/cpu"
	"github.com/yoshiomiyamae/gones2c02/pkg/input"
	"github.com/yoshiomiyamae/gones2c02/pkg/ppu"
	"github.com/yoshiomiyamae/gones2c02/pkg/scheduler"
	"github.com/yoshiomiyamae/gones2c02/pkg/video"
)

// NES wires together one console: a 6502 CPU, a PPU, the shared bus, two
// controller ports, a video sink, and the scheduler that keeps the first
// two running at their fixed 1:3 clock ratio.
type NES struct {
	CPU       *cpu.CPU
	PPU       *ppu.PPU
	Bus       *bus.Bus
	Cartridge *cartridge.Cartridge
	Input     *input.Controllers
	Video     *video.FrameBuffer

	Scheduler *scheduler.Scheduler
}

// New creates a console with no cartridge inserted yet.
func New() *NES {
	n := &NES{
		Bus:   bus.New(),
		PPU:   ppu.New(),
		Input: input.New(),
		Video: video.New(),
	}

	n.CPU = cpu.New(n.Bus)
	n.Bus.SetPPU(n.PPU)
	n.Bus.SetControllers(n.Input)
	n.PPU.SetSink(n.Video)

	n.Scheduler = scheduler.New(n.CPU, n.PPU)

	return n
}

// LoadCartridge inserts a cartridge, wiring it into both the bus (PRG
// space) and the PPU (CHR space and mirroring).
func (n *NES) LoadCartridge(cart *cartridge.Cartridge) {
	n.Cartridge = cart
	n.Bus.SetCartridge(cart)
	n.PPU.SetCartridge(cart)
}

// Reset reproduces power-on/reset-button behavior on the CPU and PPU.
func (n *NES) Reset() {
	n.CPU.Reset()
	n.PPU.Reset()
	n.Scheduler.Frame = 0
}

// Step runs exactly one CPU instruction and its matching PPU dots.
func (n *NES) Step() int {
	return n.Scheduler.Step()
}

// StepFrame runs the console until one full frame has been rendered.
func (n *NES) StepFrame() {
	n.Scheduler.StepFrame()
}

// Frame returns the number of frames rendered since the last Reset.
func (n *NES) Frame() uint64 {
	return n.Scheduler.Frame
}

// Shutdown flushes battery-backed cartridge RAM, if any, to persistent
// storage.
func (n *NES) Shutdown() error {
	if n.Cartridge == nil {
		return nil
	}
	return n.Cartridge.Shutdown()
}

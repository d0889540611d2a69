// Package scheduler drives the CPU and PPU in lockstep at their fixed 1:3
// clock ratio and turns the PPU's per-dot DotResult into NMI dispatch and
// frame boundaries, the emulator's only notion of "run one frame."
package scheduler

import "github.com/yoshiomiyamae/gones2c02/pkg/ppu"

// CPU is the subset of pkg/cpu.CPU the scheduler drives.
type CPU interface {
	Step() int
	RequestNMI()
}

// PPU is the subset of pkg/ppu.PPU the scheduler drives.
type PPU interface {
	Step() ppu.DotResult
}

// Scheduler steps a CPU and PPU together, 3 PPU dots per CPU cycle, with
// no step-count watchdog: a frame ends when the PPU says it ended, however
// long that takes, rather than after some fixed number of steps.
type Scheduler struct {
	CPU CPU
	PPU PPU

	Frame uint64
}

// New creates a scheduler driving the given CPU and PPU.
func New(cpu CPU, p PPU) *Scheduler {
	return &Scheduler{CPU: cpu, PPU: p}
}

// Step runs exactly one CPU instruction and the matching 3x PPU dots,
// dispatching an NMI to the CPU the instant the PPU's vblank dot fires.
// Returns the number of CPU cycles the instruction consumed.
func (s *Scheduler) Step() int {
	cpuCycles := s.CPU.Step()

	for i := 0; i < cpuCycles*3; i++ {
		result := s.PPU.Step()
		if result.NMI {
			s.CPU.RequestNMI()
		}
		if result.FrameDone {
			s.Frame++
		}
	}

	return cpuCycles
}

// StepFrame runs CPU/PPU steps until a full frame completes. There is
// deliberately no iteration cap: a game that never finishes a frame is a
// bug to find with a debugger, not a condition to paper over by cutting
// the frame short.
func (s *Scheduler) StepFrame() {
	startFrame := s.Frame
	for s.Frame == startFrame {
		s.Step()
	}
}

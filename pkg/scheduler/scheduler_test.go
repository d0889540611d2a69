package scheduler

import (
	"testing"

	"github.com/yoshiomiyamae/gones2c02/pkg/ppu"
)

type fakeCPU struct {
	steps     int
	nmiCount  int
	cyclesPer int
}

func (c *fakeCPU) Step() int {
	c.steps++
	return c.cyclesPer
}
func (c *fakeCPU) RequestNMI() { c.nmiCount++ }

type fakePPU struct {
	dots        int
	frameOnDot  int
	nmiOnDot    int
}

func (p *fakePPU) Step() ppu.DotResult {
	p.dots++
	return ppu.DotResult{
		NMI:       p.nmiOnDot != 0 && p.dots == p.nmiOnDot,
		FrameDone: p.frameOnDot != 0 && p.dots == p.frameOnDot,
	}
}

func TestStepRunsThreePPUDotsPerCPUCycle(t *testing.T) {
	cpu := &fakeCPU{cyclesPer: 2}
	p := &fakePPU{}
	s := New(cpu, p)

	s.Step()

	if p.dots != 6 {
		t.Errorf("expected 6 PPU dots for a 2-cycle instruction, got %d", p.dots)
	}
}

func TestNMIDotDispatchesToCPU(t *testing.T) {
	cpu := &fakeCPU{cyclesPer: 1}
	p := &fakePPU{nmiOnDot: 2}
	s := New(cpu, p)

	s.Step()

	if cpu.nmiCount != 1 {
		t.Errorf("expected exactly 1 NMI dispatched, got %d", cpu.nmiCount)
	}
}

func TestStepFrameStopsAtFrameBoundary(t *testing.T) {
	cpu := &fakeCPU{cyclesPer: 1}
	p := &fakePPU{frameOnDot: 3}
	s := New(cpu, p)

	s.StepFrame()

	if s.Frame != 1 {
		t.Errorf("expected Frame=1 after one StepFrame, got %d", s.Frame)
	}
}

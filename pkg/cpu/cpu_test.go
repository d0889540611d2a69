package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBus is a flat 64KiB RAM-backed Bus used to exercise the CPU in
// isolation, independent of the real bus arbiter's address decoding.
type testBus struct {
	mem   [65536]uint8
	stall int
}

func newTestBus() *testBus { return &testBus{} }

func (b *testBus) Read(addr uint16) uint8         { return b.mem[addr] }
func (b *testBus) Write(addr uint16, v uint8)     { b.mem[addr] = v }
func (b *testBus) TakeStallCycles() int           { n := b.stall; b.stall = 0; return n }
func (b *testBus) setResetVector(addr uint16)     { b.mem[0xFFFC] = uint8(addr); b.mem[0xFFFD] = uint8(addr >> 8) }
func (b *testBus) load(addr uint16, bytes ...byte) {
	for i, v := range bytes {
		b.mem[int(addr)+i] = v
	}
}

func newTestCPU(t *testing.T, program ...byte) (*CPU, *testBus) {
	t.Helper()
	bus := newTestBus()
	bus.setResetVector(0x8000)
	bus.load(0x8000, program...)
	return New(bus), bus
}

func TestResetSequence(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0xC000)
	c := New(bus)

	assert.Equal(t, uint16(0xC000), c.PC)
	assert.Equal(t, uint8(0xFD), c.SP)
	assert.Equal(t, uint8(FlagUnused|FlagInterrupt), c.P)
	assert.Equal(t, uint64(7), c.Cycles)
}

func TestLDAImmediateSetsZN(t *testing.T) {
	c, _ := newTestCPU(t, 0xA9, 0x00, 0xA9, 0x80, 0xA9, 0x05)

	cycles := c.Step()
	assert.Equal(t, 2, cycles)
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.GetFlag(FlagZero))
	assert.False(t, c.GetFlag(FlagNegative))

	c.Step()
	assert.Equal(t, uint8(0x80), c.A)
	assert.False(t, c.GetFlag(FlagZero))
	assert.True(t, c.GetFlag(FlagNegative))

	c.Step()
	assert.Equal(t, uint8(0x05), c.A)
	assert.False(t, c.GetFlag(FlagZero))
	assert.False(t, c.GetFlag(FlagNegative))
}

func TestASLAccumulatorSetsCarry(t *testing.T) {
	c, _ := newTestCPU(t, 0x0A)
	c.A = 0x81

	c.Step()
	assert.Equal(t, uint8(0x02), c.A)
	assert.True(t, c.GetFlag(FlagCarry))
}

func TestJSRThenRTSRoundTrips(t *testing.T) {
	c, bus := newTestCPU(t, 0x20, 0x00, 0x90) // JSR $9000
	bus.load(0x9000, 0x60)                    // RTS

	cyclesJSR := c.Step()
	assert.Equal(t, 6, cyclesJSR)
	assert.Equal(t, uint16(0x9000), c.PC)

	cyclesRTS := c.Step()
	assert.Equal(t, 6, cyclesRTS)
	assert.Equal(t, uint16(0x8003), c.PC)
	assert.Equal(t, uint8(0xFD), c.SP)
}

func TestADCFlagMatrix(t *testing.T) {
	cases := []struct {
		a, m, carryIn        uint8
		wantA                uint8
		wantCarry, wantOverflow, wantZero, wantNegative bool
	}{
		{0x50, 0x10, 0, 0x60, false, false, false, false},
		{0x50, 0x50, 0, 0xA0, false, true, false, true},  // signed overflow
		{0xD0, 0x90, 0, 0x60, true, true, false, false},  // unsigned carry + signed overflow
		{0xFF, 0x01, 0, 0x00, true, false, true, false},  // wraps to zero with carry out
		{0x00, 0x00, 1, 0x01, false, false, false, false},
	}

	for _, tc := range cases {
		c, _ := newTestCPU(t, 0x69, tc.m) // ADC #imm
		c.A = tc.a
		c.setFlag(FlagCarry, tc.carryIn != 0)

		c.Step()

		assert.Equal(t, tc.wantA, c.A)
		assert.Equal(t, tc.wantCarry, c.GetFlag(FlagCarry))
		assert.Equal(t, tc.wantOverflow, c.GetFlag(FlagOverflow))
		assert.Equal(t, tc.wantZero, c.GetFlag(FlagZero))
		assert.Equal(t, tc.wantNegative, c.GetFlag(FlagNegative))
	}
}

func TestCMPSetsCarryWhenRegisterGreaterOrEqual(t *testing.T) {
	c, _ := newTestCPU(t, 0xC9, 0x10, 0xC9, 0x20, 0xC9, 0x05)
	c.A = 0x10

	c.Step()
	assert.True(t, c.GetFlag(FlagCarry))
	assert.True(t, c.GetFlag(FlagZero))

	c.A = 0x10
	c.Step()
	assert.False(t, c.GetFlag(FlagCarry))

	c.A = 0x10
	c.Step()
	assert.True(t, c.GetFlag(FlagCarry))
	assert.False(t, c.GetFlag(FlagZero))
}

func TestPHAPLARoundTrip(t *testing.T) {
	c, _ := newTestCPU(t, 0x48, 0xA9, 0x00, 0x68)
	c.A = 0x42
	startSP := c.SP

	c.Step() // PHA
	assert.Equal(t, startSP-1, c.SP)

	c.Step() // LDA #0 clobbers A
	require.Equal(t, uint8(0), c.A)

	c.Step() // PLA
	assert.Equal(t, uint8(0x42), c.A)
	assert.Equal(t, startSP, c.SP)
}

func TestPHPPLPIgnoresBits4And5OnPull(t *testing.T) {
	c, _ := newTestCPU(t, 0x08, 0x28) // PHP, PLP
	c.P = FlagCarry | FlagUnused

	c.Step() // PHP pushes with break+unused forced on
	pushedByte := c.read(0x100 | uint16(c.SP+1))
	assert.Equal(t, FlagCarry|FlagBreak|FlagUnused, int(pushedByte))

	c.P = 0
	c.Step() // PLP
	assert.True(t, c.GetFlag(FlagCarry))
	assert.True(t, c.GetFlag(FlagUnused))
	assert.False(t, c.GetFlag(FlagBreak))
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c, bus := newTestCPU(t, 0x6C, 0xFF, 0x90) // JMP ($90FF)
	bus.load(0x90FF, 0x34)
	bus.load(0x9000, 0x12) // high byte read wraps to $9000, not $9100

	c.Step()
	assert.Equal(t, uint16(0x1234), c.PC)
}

func TestIZXZeroPageWrap(t *testing.T) {
	c, bus := newTestCPU(t, 0xA1, 0xFE) // LDA ($FE,X)
	c.X = 0x03
	// zero-page pointer at $01 wraps within page zero and points at $9000,
	// clear of the program at $8000
	bus.load(0x0001, 0x00, 0x90)
	bus.load(0x9000, 0x99)

	c.Step()
	assert.Equal(t, uint8(0x99), c.A)
}

func TestStackPointerWrapsModulo256(t *testing.T) {
	c, _ := newTestCPU(t, 0x68) // PLA with an empty stack
	c.SP = 0xFF

	c.Step()
	assert.Equal(t, uint8(0x00), c.SP)
}

func TestBranchTakenAddsPageCrossPenalty(t *testing.T) {
	// BEQ that stays on the same page: +1 cycle.
	c, _ := newTestCPU(t, 0xF0, 0x02) // BEQ +2
	c.setFlag(FlagZero, true)
	cycles := c.Step()
	assert.Equal(t, 3, cycles)

	// BEQ whose target crosses a page boundary: +2 cycles.
	bus := newTestBus()
	bus.setResetVector(0x80F0)
	bus.load(0x80F0, 0xF0, 0x10) // BEQ +16 from $80F2, lands on $8102 (next page)
	c2 := New(bus)
	c2.setFlag(FlagZero, true)
	cycles2 := c2.Step()
	assert.Equal(t, 4, cycles2)
}

func TestLAXUndocumentedLoadsBothRegisters(t *testing.T) {
	c, _ := newTestCPU(t, 0xA7, 0x10) // LAX $10
	c.write(0x10, 0x77)

	c.Step()
	assert.Equal(t, uint8(0x77), c.A)
	assert.Equal(t, uint8(0x77), c.X)
}

func TestNMITakesPriorityOverNextOpcode(t *testing.T) {
	c, bus := newTestCPU(t, 0xEA) // NOP
	bus.load(0xFFFA, 0x00, 0x80)  // NMI vector -> $8000
	c.RequestNMI()

	cycles := c.Step()
	assert.Equal(t, 7, cycles)
	assert.Equal(t, uint16(0x8000), c.PC)
	assert.True(t, c.GetFlag(FlagInterrupt))
}

func TestOAMDMAStallFoldsIntoInstructionCycles(t *testing.T) {
	c, bus := newTestCPU(t, 0x85, 0x00) // STA $00, value irrelevant
	bus.stall = 513

	cycles := c.Step()
	assert.Equal(t, 3+513, cycles)
}

// Package cpu implements the NES's 6502-derived CPU core: register file,
// flag semantics, the 256-entry opcode table, addressing-mode decode and
// instruction execution.
package cpu

import "github.com/yoshiomiyamae/gones2c02/pkg/logger"

// Bus is the minimal interface the CPU needs from the shared bus arbiter.
// TakeStallCycles drains any CPU cycle penalty the bus accumulated on the
// last write (only $4014 OAM DMA produces one) so the CPU can fold it into
// the instruction's reported cycle count, per spec.md §3's OAM-DMA rule.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
	TakeStallCycles() int
}

// Status flag bits, laid out exactly as spec.md §3: C=b0, Z=b1, I=b2, D=b3,
// B=b4 (stack-copy only), unused=b5, V=b6, N=b7.
const (
	FlagCarry     = 1 << 0
	FlagZero      = 1 << 1
	FlagInterrupt = 1 << 2
	FlagDecimal   = 1 << 3
	FlagBreak     = 1 << 4
	FlagUnused    = 1 << 5
	FlagOverflow  = 1 << 6
	FlagNegative  = 1 << 7
)

// CPU holds the full 6502 register file plus the auxiliary decode state
// spec.md §3 names: current opcode, effective address, page-penalty flag,
// extra-cycle accumulator and the externally-set NMI-pending latch.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16
	P  uint8

	Bus Bus

	// Cycles is the monotonic CPU cycle counter. Starts at 7 to account
	// for the reset sequence (spec.md §3).
	Cycles uint64

	nmiPending bool
	irqPending bool

	// Decode scratch, reset at the top of every step().
	opcode      uint8
	operandAddr uint16
	operandVal  uint8
	accMode     bool // operand is the accumulator, not a memory location
	pagePenalty bool
	extraCycles int
}

// New constructs a CPU wired to bus and performs the power-on reset
// sequence (read the reset vector, initialize SP/P per spec.md §3).
func New(bus Bus) *CPU {
	c := &CPU{Bus: bus}
	c.Reset()
	return c
}

// Reset reproduces the NES reset sequence: A=X=Y=0, SP=0xFD, P=0x24,
// PC = word at $FFFC, cycle counter at 7.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = FlagUnused | FlagInterrupt
	c.PC = c.read16(0xFFFC)
	c.Cycles = 7
	c.nmiPending = false
	c.irqPending = false
}

// SetPC forces the program counter, bypassing the reset vector. Used by
// the --pc command-line flag to drop a test ROM straight into a known
// entry point instead of whatever its header's reset vector points at.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// RequestNMI sets the NMI-pending latch; serviced before the next opcode
// fetch, never mid-instruction (spec.md §5).
func (c *CPU) RequestNMI() { c.nmiPending = true }

// RequestIRQ sets the IRQ-pending latch. IRQ sources are out of scope for
// this emulator (spec.md §1 Non-goals lists no IRQ-driven mapper/APU), but
// the I flag must still gate it correctly per spec.md §4.1.
func (c *CPU) RequestIRQ() { c.irqPending = true }

// GetFlag reports whether the named status bit is set.
func (c *CPU) GetFlag(flag uint8) bool { return c.P&flag != 0 }

func (c *CPU) setFlag(flag uint8, on bool) {
	if on {
		c.P |= flag
	} else {
		c.P &^= flag
	}
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
}

// Step services a pending NMI (if any), else decodes and executes exactly
// one instruction, returning the number of CPU cycles consumed.
func (c *CPU) Step() int {
	if c.nmiPending {
		c.nmiPending = false
		c.enterInterrupt(0xFFFA, false)
		c.Cycles += 7
		return 7
	}

	if c.irqPending && !c.GetFlag(FlagInterrupt) {
		c.irqPending = false
		c.enterInterrupt(0xFFFE, false)
		c.Cycles += 7
		return 7
	}

	pcAtFetch := c.PC
	c.opcode = c.read(c.PC)
	c.PC++

	info := opcodeTable[c.opcode]
	c.pagePenalty = false
	c.accMode = false
	c.extraCycles = 0

	c.decodeOperand(info.Mode)

	if !info.Legal {
		logger.LogCPU("illegal/unimplemented opcode $%02X at PC=$%04X handled as %s", c.opcode, c.PC-1, info.Mnemonic)
	}

	logger.LogCPUTrace("PC=$%04X op=$%02X %-4s A=$%02X X=$%02X Y=$%02X SP=$%02X P=$%02X CYC=%d",
		pcAtFetch, c.opcode, info.Mnemonic, c.A, c.X, c.Y, c.SP, c.P, c.Cycles)

	info.Exec(c)

	cycles := info.Cycles + c.extraCycles
	c.Cycles += uint64(cycles)
	return cycles
}

// enterInterrupt is the shared push sequence for NMI/IRQ/BRK: push PC
// (high, low), push P with bit 4 forced to brk and bit 5 forced to 1, set
// I, load PC from vector. brk=true only for the BRK instruction itself.
func (c *CPU) enterInterrupt(vector uint16, brk bool) {
	c.push16(c.PC)
	p := c.P | FlagUnused
	if brk {
		p |= FlagBreak
	} else {
		p &^= FlagBreak
	}
	c.push(p)
	c.setFlag(FlagInterrupt, true)
	c.PC = c.read16(vector)
}

// Memory helpers.

func (c *CPU) read(addr uint16) uint8 { return c.Bus.Read(addr) }

func (c *CPU) write(addr uint16, v uint8) {
	c.Bus.Write(addr, v)
	if n := c.Bus.TakeStallCycles(); n != 0 {
		c.charge(n)
	}
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return hi<<8 | lo
}

// Stack operations: empty-ascending discipline, SP wraps mod 256, stack
// page fixed at $0100.

func (c *CPU) push(v uint8) {
	c.write(0x100|uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.read(0x100 | uint16(c.SP))
}

func (c *CPU) push16(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

// charge adds n cycles beyond the opcode's tabulated base cycles: page-cross
// and taken-branch penalties, and the OAM-DMA CPU stall (OAM DMA is driven
// by the bus arbiter on the write side, but the extra-cycle channel lives
// here so the scheduler sees one coherent cycle count per step).
func (c *CPU) charge(n int) { c.extraCycles += n }

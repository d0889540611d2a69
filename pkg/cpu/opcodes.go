package cpu

// opcodeInfo is one entry of the 256-entry dispatch table spec.md §4.1
// requires: mnemonic (for tracing), addressing mode, base cycle count and
// a legal/illegal flag, plus the executor this implementation dispatches
// to directly (a function-pointer realization of the "tagged variant"
// design spec.md §9 calls out as equally acceptable).
type opcodeInfo struct {
	Mnemonic string
	Mode     AddressingMode
	Cycles   int
	Legal    bool
	Exec     func(c *CPU)
}

var opcodeTable [256]opcodeInfo

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = opcodeInfo{Mnemonic: "???", Mode: ModeUNK, Cycles: 2, Legal: false, Exec: execJam}
	}

	set := func(op uint8, mnemonic string, mode AddressingMode, cycles int, legal bool, exec func(c *CPU)) {
		opcodeTable[op] = opcodeInfo{Mnemonic: mnemonic, Mode: mode, Cycles: cycles, Legal: legal, Exec: exec}
	}

	// Documented opcodes.
	set(0x69, "ADC", ModeIMM, 2, true, execADC)
	set(0x65, "ADC", ModeZP, 3, true, execADC)
	set(0x75, "ADC", ModeZPX, 4, true, execADC)
	set(0x6D, "ADC", ModeABS, 4, true, execADC)
	set(0x7D, "ADC", ModeABX, 4, true, execADC)
	set(0x79, "ADC", ModeABY, 4, true, execADC)
	set(0x61, "ADC", ModeIZX, 6, true, execADC)
	set(0x71, "ADC", ModeIZY, 5, true, execADC)

	set(0x29, "AND", ModeIMM, 2, true, execAND)
	set(0x25, "AND", ModeZP, 3, true, execAND)
	set(0x35, "AND", ModeZPX, 4, true, execAND)
	set(0x2D, "AND", ModeABS, 4, true, execAND)
	set(0x3D, "AND", ModeABX, 4, true, execAND)
	set(0x39, "AND", ModeABY, 4, true, execAND)
	set(0x21, "AND", ModeIZX, 6, true, execAND)
	set(0x31, "AND", ModeIZY, 5, true, execAND)

	set(0x0A, "ASL", ModeACC, 2, true, execASL)
	set(0x06, "ASL", ModeZP, 5, true, execASL)
	set(0x16, "ASL", ModeZPX, 6, true, execASL)
	set(0x0E, "ASL", ModeABS, 6, true, execASL)
	set(0x1E, "ASL", ModeABX, 7, true, execASL)

	set(0x90, "BCC", ModeREL, 2, true, execBranch(FlagCarry, false))
	set(0xB0, "BCS", ModeREL, 2, true, execBranch(FlagCarry, true))
	set(0xF0, "BEQ", ModeREL, 2, true, execBranch(FlagZero, true))
	set(0xD0, "BNE", ModeREL, 2, true, execBranch(FlagZero, false))
	set(0x30, "BMI", ModeREL, 2, true, execBranch(FlagNegative, true))
	set(0x10, "BPL", ModeREL, 2, true, execBranch(FlagNegative, false))
	set(0x50, "BVC", ModeREL, 2, true, execBranch(FlagOverflow, false))
	set(0x70, "BVS", ModeREL, 2, true, execBranch(FlagOverflow, true))

	set(0x24, "BIT", ModeZP, 3, true, execBIT)
	set(0x2C, "BIT", ModeABS, 4, true, execBIT)

	set(0x00, "BRK", ModeIMP, 7, true, execBRK)

	set(0x18, "CLC", ModeIMP, 2, true, func(c *CPU) { c.setFlag(FlagCarry, false) })
	set(0xD8, "CLD", ModeIMP, 2, true, func(c *CPU) { c.setFlag(FlagDecimal, false) })
	set(0x58, "CLI", ModeIMP, 2, true, func(c *CPU) { c.setFlag(FlagInterrupt, false) })
	set(0xB8, "CLV", ModeIMP, 2, true, func(c *CPU) { c.setFlag(FlagOverflow, false) })
	set(0x38, "SEC", ModeIMP, 2, true, func(c *CPU) { c.setFlag(FlagCarry, true) })
	set(0xF8, "SED", ModeIMP, 2, true, func(c *CPU) { c.setFlag(FlagDecimal, true) })
	set(0x78, "SEI", ModeIMP, 2, true, func(c *CPU) { c.setFlag(FlagInterrupt, true) })

	set(0xC9, "CMP", ModeIMM, 2, true, execCompare(cpuA))
	set(0xC5, "CMP", ModeZP, 3, true, execCompare(cpuA))
	set(0xD5, "CMP", ModeZPX, 4, true, execCompare(cpuA))
	set(0xCD, "CMP", ModeABS, 4, true, execCompare(cpuA))
	set(0xDD, "CMP", ModeABX, 4, true, execCompare(cpuA))
	set(0xD9, "CMP", ModeABY, 4, true, execCompare(cpuA))
	set(0xC1, "CMP", ModeIZX, 6, true, execCompare(cpuA))
	set(0xD1, "CMP", ModeIZY, 5, true, execCompare(cpuA))

	set(0xE0, "CPX", ModeIMM, 2, true, execCompare(cpuX))
	set(0xE4, "CPX", ModeZP, 3, true, execCompare(cpuX))
	set(0xEC, "CPX", ModeABS, 4, true, execCompare(cpuX))

	set(0xC0, "CPY", ModeIMM, 2, true, execCompare(cpuY))
	set(0xC4, "CPY", ModeZP, 3, true, execCompare(cpuY))
	set(0xCC, "CPY", ModeABS, 4, true, execCompare(cpuY))

	set(0xC6, "DEC", ModeZP, 5, true, execDEC)
	set(0xD6, "DEC", ModeZPX, 6, true, execDEC)
	set(0xCE, "DEC", ModeABS, 6, true, execDEC)
	set(0xDE, "DEC", ModeABX, 7, true, execDEC)

	set(0xCA, "DEX", ModeIMP, 2, true, func(c *CPU) { c.X--; c.setZN(c.X) })
	set(0x88, "DEY", ModeIMP, 2, true, func(c *CPU) { c.Y--; c.setZN(c.Y) })
	set(0xE8, "INX", ModeIMP, 2, true, func(c *CPU) { c.X++; c.setZN(c.X) })
	set(0xC8, "INY", ModeIMP, 2, true, func(c *CPU) { c.Y++; c.setZN(c.Y) })

	set(0x49, "EOR", ModeIMM, 2, true, execEOR)
	set(0x45, "EOR", ModeZP, 3, true, execEOR)
	set(0x55, "EOR", ModeZPX, 4, true, execEOR)
	set(0x4D, "EOR", ModeABS, 4, true, execEOR)
	set(0x5D, "EOR", ModeABX, 4, true, execEOR)
	set(0x59, "EOR", ModeABY, 4, true, execEOR)
	set(0x41, "EOR", ModeIZX, 6, true, execEOR)
	set(0x51, "EOR", ModeIZY, 5, true, execEOR)

	set(0xE6, "INC", ModeZP, 5, true, execINC)
	set(0xF6, "INC", ModeZPX, 6, true, execINC)
	set(0xEE, "INC", ModeABS, 6, true, execINC)
	set(0xFE, "INC", ModeABX, 7, true, execINC)

	set(0x4C, "JMP", ModeABS, 3, true, execJMP)
	set(0x6C, "JMP", ModeIND, 5, true, execJMP)
	set(0x20, "JSR", ModeABS, 6, true, execJSR)

	set(0xA9, "LDA", ModeIMM, 2, true, execLoad(cpuA))
	set(0xA5, "LDA", ModeZP, 3, true, execLoad(cpuA))
	set(0xB5, "LDA", ModeZPX, 4, true, execLoad(cpuA))
	set(0xAD, "LDA", ModeABS, 4, true, execLoad(cpuA))
	set(0xBD, "LDA", ModeABX, 4, true, execLoad(cpuA))
	set(0xB9, "LDA", ModeABY, 4, true, execLoad(cpuA))
	set(0xA1, "LDA", ModeIZX, 6, true, execLoad(cpuA))
	set(0xB1, "LDA", ModeIZY, 5, true, execLoad(cpuA))

	set(0xA2, "LDX", ModeIMM, 2, true, execLoad(cpuX))
	set(0xA6, "LDX", ModeZP, 3, true, execLoad(cpuX))
	set(0xB6, "LDX", ModeZPY, 4, true, execLoad(cpuX))
	set(0xAE, "LDX", ModeABS, 4, true, execLoad(cpuX))
	set(0xBE, "LDX", ModeABY, 4, true, execLoad(cpuX))

	set(0xA0, "LDY", ModeIMM, 2, true, execLoad(cpuY))
	set(0xA4, "LDY", ModeZP, 3, true, execLoad(cpuY))
	set(0xB4, "LDY", ModeZPX, 4, true, execLoad(cpuY))
	set(0xAC, "LDY", ModeABS, 4, true, execLoad(cpuY))
	set(0xBC, "LDY", ModeABX, 4, true, execLoad(cpuY))

	set(0x4A, "LSR", ModeACC, 2, true, execLSR)
	set(0x46, "LSR", ModeZP, 5, true, execLSR)
	set(0x56, "LSR", ModeZPX, 6, true, execLSR)
	set(0x4E, "LSR", ModeABS, 6, true, execLSR)
	set(0x5E, "LSR", ModeABX, 7, true, execLSR)

	set(0xEA, "NOP", ModeIMP, 2, true, func(c *CPU) {})

	set(0x09, "ORA", ModeIMM, 2, true, execORA)
	set(0x05, "ORA", ModeZP, 3, true, execORA)
	set(0x15, "ORA", ModeZPX, 4, true, execORA)
	set(0x0D, "ORA", ModeABS, 4, true, execORA)
	set(0x1D, "ORA", ModeABX, 4, true, execORA)
	set(0x19, "ORA", ModeABY, 4, true, execORA)
	set(0x01, "ORA", ModeIZX, 6, true, execORA)
	set(0x11, "ORA", ModeIZY, 5, true, execORA)

	set(0x48, "PHA", ModeIMP, 3, true, func(c *CPU) { c.push(c.A) })
	set(0x08, "PHP", ModeIMP, 3, true, execPHP)
	set(0x68, "PLA", ModeIMP, 4, true, func(c *CPU) { c.A = c.pop(); c.setZN(c.A) })
	set(0x28, "PLP", ModeIMP, 4, true, execPLP)

	set(0x2A, "ROL", ModeACC, 2, true, execROL)
	set(0x26, "ROL", ModeZP, 5, true, execROL)
	set(0x36, "ROL", ModeZPX, 6, true, execROL)
	set(0x2E, "ROL", ModeABS, 6, true, execROL)
	set(0x3E, "ROL", ModeABX, 7, true, execROL)

	set(0x6A, "ROR", ModeACC, 2, true, execROR)
	set(0x66, "ROR", ModeZP, 5, true, execROR)
	set(0x76, "ROR", ModeZPX, 6, true, execROR)
	set(0x6E, "ROR", ModeABS, 6, true, execROR)
	set(0x7E, "ROR", ModeABX, 7, true, execROR)

	set(0x40, "RTI", ModeIMP, 6, true, execRTI)
	set(0x60, "RTS", ModeIMP, 6, true, execRTS)

	set(0xE9, "SBC", ModeIMM, 2, true, execSBC)
	set(0xE5, "SBC", ModeZP, 3, true, execSBC)
	set(0xF5, "SBC", ModeZPX, 4, true, execSBC)
	set(0xED, "SBC", ModeABS, 4, true, execSBC)
	set(0xFD, "SBC", ModeABX, 4, true, execSBC)
	set(0xF9, "SBC", ModeABY, 4, true, execSBC)
	set(0xE1, "SBC", ModeIZX, 6, true, execSBC)
	set(0xF1, "SBC", ModeIZY, 5, true, execSBC)

	set(0x85, "STA", ModeZP, 3, true, execStore(cpuA))
	set(0x95, "STA", ModeZPX, 4, true, execStore(cpuA))
	set(0x8D, "STA", ModeABS, 4, true, execStore(cpuA))
	set(0x9D, "STA", ModeABX, 5, true, execStore(cpuA))
	set(0x99, "STA", ModeABY, 5, true, execStore(cpuA))
	set(0x81, "STA", ModeIZX, 6, true, execStore(cpuA))
	set(0x91, "STA", ModeIZY, 6, true, execStore(cpuA))

	set(0x86, "STX", ModeZP, 3, true, execStore(cpuX))
	set(0x96, "STX", ModeZPY, 4, true, execStore(cpuX))
	set(0x8E, "STX", ModeABS, 4, true, execStore(cpuX))

	set(0x84, "STY", ModeZP, 3, true, execStore(cpuY))
	set(0x94, "STY", ModeZPX, 4, true, execStore(cpuY))
	set(0x8C, "STY", ModeABS, 4, true, execStore(cpuY))

	set(0xAA, "TAX", ModeIMP, 2, true, func(c *CPU) { c.X = c.A; c.setZN(c.X) })
	set(0xA8, "TAY", ModeIMP, 2, true, func(c *CPU) { c.Y = c.A; c.setZN(c.Y) })
	set(0xBA, "TSX", ModeIMP, 2, true, func(c *CPU) { c.X = c.SP; c.setZN(c.X) })
	set(0x8A, "TXA", ModeIMP, 2, true, func(c *CPU) { c.A = c.X; c.setZN(c.A) })
	set(0x9A, "TXS", ModeIMP, 2, true, func(c *CPU) { c.SP = c.X })
	set(0x98, "TYA", ModeIMP, 2, true, func(c *CPU) { c.A = c.Y; c.setZN(c.A) })

	// Undocumented opcodes relied on by real software and test ROMs.
	set(0xEB, "SBC", ModeIMM, 2, false, execSBC) // duplicate of 0xE9

	set(0x07, "SLO", ModeZP, 5, false, execSLO)
	set(0x17, "SLO", ModeZPX, 6, false, execSLO)
	set(0x03, "SLO", ModeIZX, 8, false, execSLO)
	set(0x13, "SLO", ModeIZY, 8, false, execSLO)
	set(0x0F, "SLO", ModeABS, 6, false, execSLO)
	set(0x1F, "SLO", ModeABX, 7, false, execSLO)
	set(0x1B, "SLO", ModeABY, 7, false, execSLO)

	set(0x27, "RLA", ModeZP, 5, false, execRLA)
	set(0x37, "RLA", ModeZPX, 6, false, execRLA)
	set(0x23, "RLA", ModeIZX, 8, false, execRLA)
	set(0x33, "RLA", ModeIZY, 8, false, execRLA)
	set(0x2F, "RLA", ModeABS, 6, false, execRLA)
	set(0x3F, "RLA", ModeABX, 7, false, execRLA)
	set(0x3B, "RLA", ModeABY, 7, false, execRLA)

	set(0x47, "SRE", ModeZP, 5, false, execSRE)
	set(0x57, "SRE", ModeZPX, 6, false, execSRE)
	set(0x43, "SRE", ModeIZX, 8, false, execSRE)
	set(0x53, "SRE", ModeIZY, 8, false, execSRE)
	set(0x4F, "SRE", ModeABS, 6, false, execSRE)
	set(0x5F, "SRE", ModeABX, 7, false, execSRE)
	set(0x5B, "SRE", ModeABY, 7, false, execSRE)

	set(0x67, "RRA", ModeZP, 5, false, execRRA)
	set(0x77, "RRA", ModeZPX, 6, false, execRRA)
	set(0x63, "RRA", ModeIZX, 8, false, execRRA)
	set(0x73, "RRA", ModeIZY, 8, false, execRRA)
	set(0x6F, "RRA", ModeABS, 6, false, execRRA)
	set(0x7F, "RRA", ModeABX, 7, false, execRRA)
	set(0x7B, "RRA", ModeABY, 7, false, execRRA)

	set(0x87, "SAX", ModeZP, 3, false, execSAX)
	set(0x97, "SAX", ModeZPY, 4, false, execSAX)
	set(0x83, "SAX", ModeIZX, 6, false, execSAX)
	set(0x8F, "SAX", ModeABS, 4, false, execSAX)

	set(0xA7, "LAX", ModeZP, 3, false, execLAX)
	set(0xB7, "LAX", ModeZPY, 4, false, execLAX)
	set(0xA3, "LAX", ModeIZX, 6, false, execLAX)
	set(0xB3, "LAX", ModeIZY, 5, false, execLAX)
	set(0xAF, "LAX", ModeABS, 4, false, execLAX)
	set(0xBF, "LAX", ModeABY, 4, false, execLAX)

	set(0xC7, "DCP", ModeZP, 5, false, execDCP)
	set(0xD7, "DCP", ModeZPX, 6, false, execDCP)
	set(0xC3, "DCP", ModeIZX, 8, false, execDCP)
	set(0xD3, "DCP", ModeIZY, 8, false, execDCP)
	set(0xCF, "DCP", ModeABS, 6, false, execDCP)
	set(0xDF, "DCP", ModeABX, 7, false, execDCP)
	set(0xDB, "DCP", ModeABY, 7, false, execDCP)

	set(0xE7, "ISB", ModeZP, 5, false, execISB)
	set(0xF7, "ISB", ModeZPX, 6, false, execISB)
	set(0xE3, "ISB", ModeIZX, 8, false, execISB)
	set(0xF3, "ISB", ModeIZY, 8, false, execISB)
	set(0xEF, "ISB", ModeABS, 6, false, execISB)
	set(0xFF, "ISB", ModeABX, 7, false, execISB)
	set(0xFB, "ISB", ModeABY, 7, false, execISB)

	set(0x0B, "ANC", ModeIMM, 2, false, execANC)
	set(0x2B, "ANC", ModeIMM, 2, false, execANC)
	set(0x4B, "ALR", ModeIMM, 2, false, execALR)
	set(0x6B, "ARR", ModeIMM, 2, false, execARR)
	set(0xAB, "LXA", ModeIMM, 2, false, execLXA)
	set(0xCB, "AXS", ModeIMM, 2, false, execAXS)

	// Illegal NOPs: implied (single byte).
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, "NOP", ModeIMP, 2, false, func(c *CPU) {})
	}
	// Illegal NOPs: immediate (read & discard).
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		set(op, "NOP", ModeIMM, 2, false, func(c *CPU) {})
	}
	// Illegal NOPs: zero page.
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		set(op, "NOP", ModeZP, 3, false, func(c *CPU) {})
	}
	// Illegal NOPs: zero page,X.
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, "NOP", ModeZPX, 4, false, func(c *CPU) {})
	}
	// Illegal NOPs: absolute.
	set(0x0C, "NOP", ModeABS, 4, false, func(c *CPU) {})
	// Illegal NOPs: absolute,X (page penalty applies here, unusually for a NOP).
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, "NOP", ModeABX, 4, false, func(c *CPU) {
			if c.pagePenalty {
				c.charge(1)
			}
		})
	}

	// JAM/KIL opcodes lock the real CPU; treated as a harmless 2-cycle
	// no-op so a stray occurrence never desyncs the cycle counter
	// (spec.md §4.1: "must at minimum not desynchronize the cycle
	// counter").
	for _, op := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		set(op, "JAM", ModeIMP, 2, false, execJam)
	}
}

func execJam(c *CPU) {}

// cpuA/cpuX/cpuY identify which register a parameterized load/store/compare
// executor targets; see execLoad/execStore/execCompare in instructions.go.
type cpuRegister int

const (
	cpuA cpuRegister = iota
	cpuX
	cpuY
)

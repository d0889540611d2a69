package cpu

// Executor functions implementing spec.md §4.1's flag semantics exactly.
// Each executor assumes decodeOperand has already run for the current
// opcode's addressing mode and consumes c.operandAddr/loadOperand().

func (c *CPU) regValue(r cpuRegister) uint8 {
	switch r {
	case cpuX:
		return c.X
	case cpuY:
		return c.Y
	default:
		return c.A
	}
}

func (c *CPU) setReg(r cpuRegister, v uint8) {
	switch r {
	case cpuX:
		c.X = v
	case cpuY:
		c.Y = v
	default:
		c.A = v
	}
}

// maybePagePenalty charges +1 cycle for ABX/ABY/IZY addressing that crossed
// a page, restricted to the load/arithmetic class spec.md §4.1 names.
func (c *CPU) maybePagePenalty() {
	if c.pagePenalty {
		c.charge(1)
	}
}

func execLoad(r cpuRegister) func(c *CPU) {
	return func(c *CPU) {
		v := c.loadOperand()
		c.setReg(r, v)
		c.setZN(v)
		c.maybePagePenalty()
	}
}

func execStore(r cpuRegister) func(c *CPU) {
	return func(c *CPU) {
		c.storeOperand(c.regValue(r))
	}
}

func execCompare(r cpuRegister) func(c *CPU) {
	return func(c *CPU) {
		reg := c.regValue(r)
		m := c.loadOperand()
		result := reg - m
		c.setFlag(FlagCarry, reg >= m)
		c.setZN(result)
		c.maybePagePenalty()
	}
}

func adc(c *CPU, operand uint8) {
	a := c.A
	carryIn := uint16(0)
	if c.GetFlag(FlagCarry) {
		carryIn = 1
	}
	sum := uint16(a) + uint16(operand) + carryIn
	c.setFlag(FlagCarry, sum > 0xFF)
	result := uint8(sum)
	c.setFlag(FlagOverflow, (a^result)&(operand^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

func execADC(c *CPU) {
	adc(c, c.loadOperand())
	c.maybePagePenalty()
}

// SBC is ADC with the operand bitwise-inverted (spec.md §8).
func execSBC(c *CPU) {
	adc(c, ^c.loadOperand())
	c.maybePagePenalty()
}

func execAND(c *CPU) {
	c.A &= c.loadOperand()
	c.setZN(c.A)
	c.maybePagePenalty()
}

func execORA(c *CPU) {
	c.A |= c.loadOperand()
	c.setZN(c.A)
	c.maybePagePenalty()
}

func execEOR(c *CPU) {
	c.A ^= c.loadOperand()
	c.setZN(c.A)
	c.maybePagePenalty()
}

func execASL(c *CPU) {
	v := c.loadOperand()
	c.setFlag(FlagCarry, v&0x80 != 0)
	v <<= 1
	c.storeOperand(v)
	c.setZN(v)
}

func execLSR(c *CPU) {
	v := c.loadOperand()
	c.setFlag(FlagCarry, v&0x01 != 0)
	v >>= 1
	c.storeOperand(v)
	c.setZN(v)
}

func execROL(c *CPU) {
	v := c.loadOperand()
	carryIn := uint8(0)
	if c.GetFlag(FlagCarry) {
		carryIn = 1
	}
	c.setFlag(FlagCarry, v&0x80 != 0)
	v = v<<1 | carryIn
	c.storeOperand(v)
	c.setZN(v)
}

func execROR(c *CPU) {
	v := c.loadOperand()
	carryIn := uint8(0)
	if c.GetFlag(FlagCarry) {
		carryIn = 0x80
	}
	c.setFlag(FlagCarry, v&0x01 != 0)
	v = v>>1 | carryIn
	c.storeOperand(v)
	c.setZN(v)
}

func execINC(c *CPU) {
	v := c.loadOperand() + 1
	c.storeOperand(v)
	c.setZN(v)
}

func execDEC(c *CPU) {
	v := c.loadOperand() - 1
	c.storeOperand(v)
	c.setZN(v)
}

func execBIT(c *CPU) {
	v := c.loadOperand()
	c.setFlag(FlagZero, c.A&v == 0)
	c.setFlag(FlagOverflow, v&0x40 != 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
}

// execBranch returns an executor for the eight conditional branches: take
// the branch (and charge the +1/+2 penalties) iff the named flag's state
// equals `when`.
func execBranch(flag uint8, when bool) func(c *CPU) {
	return func(c *CPU) {
		if c.GetFlag(flag) != when {
			return
		}
		from := c.PC
		target := c.operandAddr
		c.charge(1)
		if pageCrossed(from, target) {
			c.charge(1)
		}
		c.PC = target
	}
}

func execJMP(c *CPU) { c.PC = c.operandAddr }

// JSR pushes PC-1 (the address of JSR's last operand byte), high then low.
func execJSR(c *CPU) {
	c.push16(c.PC - 1)
	c.PC = c.operandAddr
}

func execRTS(c *CPU) {
	c.PC = c.pop16() + 1
}

// BRK pushes PC+1, pushes P with bits 4 and 5 both set, sets I, loads PC
// from $FFFE (spec.md §4.1).
func execBRK(c *CPU) {
	c.PC++
	c.enterInterrupt(0xFFFE, true)
}

// PHP always pushes with bit 4 (break) and bit 5 (unused) set.
func execPHP(c *CPU) {
	c.push(c.P | FlagBreak | FlagUnused)
}

// PLP and RTI both pull P but the pulled byte's bits 4 and 5 never become
// real CPU state: bit 5 is forced on, bit 4 has no flip-flop at all and is
// simply discarded (spec.md §4.1/§8: "RTI pulls P ... ignoring bits 4 and
// 5: they take their pre-pull values from P" — since bit 4 has no
// pre-pull value either, this is equivalent to always clearing it here).
func execPLP(c *CPU) {
	p := c.pop()
	c.P = (p | FlagUnused) &^ FlagBreak
}

func execRTI(c *CPU) {
	execPLP(c)
	c.PC = c.pop16()
}

// Undocumented opcodes.

func execSLO(c *CPU) {
	v := c.loadOperand()
	c.setFlag(FlagCarry, v&0x80 != 0)
	v <<= 1
	c.storeOperand(v)
	c.A |= v
	c.setZN(c.A)
}

func execRLA(c *CPU) {
	v := c.loadOperand()
	carryIn := uint8(0)
	if c.GetFlag(FlagCarry) {
		carryIn = 1
	}
	c.setFlag(FlagCarry, v&0x80 != 0)
	v = v<<1 | carryIn
	c.storeOperand(v)
	c.A &= v
	c.setZN(c.A)
}

func execSRE(c *CPU) {
	v := c.loadOperand()
	c.setFlag(FlagCarry, v&0x01 != 0)
	v >>= 1
	c.storeOperand(v)
	c.A ^= v
	c.setZN(c.A)
}

func execRRA(c *CPU) {
	v := c.loadOperand()
	carryIn := uint8(0)
	if c.GetFlag(FlagCarry) {
		carryIn = 0x80
	}
	c.setFlag(FlagCarry, v&0x01 != 0)
	v = v>>1 | carryIn
	c.storeOperand(v)
	adc(c, v)
}

func execSAX(c *CPU) {
	c.storeOperand(c.A & c.X)
}

func execLAX(c *CPU) {
	v := c.loadOperand()
	c.A = v
	c.X = v
	c.setZN(v)
	c.maybePagePenalty()
}

func execDCP(c *CPU) {
	v := c.loadOperand() - 1
	c.storeOperand(v)
	c.setFlag(FlagCarry, c.A >= v)
	c.setZN(c.A - v)
}

func execISB(c *CPU) {
	v := c.loadOperand() + 1
	c.storeOperand(v)
	adc(c, ^v)
}

func execANC(c *CPU) {
	c.A &= c.loadOperand()
	c.setZN(c.A)
	c.setFlag(FlagCarry, c.A&0x80 != 0)
}

func execALR(c *CPU) {
	c.A &= c.loadOperand()
	c.setFlag(FlagCarry, c.A&0x01 != 0)
	c.A >>= 1
	c.setZN(c.A)
}

func execARR(c *CPU) {
	c.A &= c.loadOperand()
	carryIn := uint8(0)
	if c.GetFlag(FlagCarry) {
		carryIn = 0x80
	}
	c.A = c.A>>1 | carryIn
	c.setZN(c.A)
	c.setFlag(FlagCarry, c.A&0x40 != 0)
	c.setFlag(FlagOverflow, (c.A>>6)&1^(c.A>>5)&1 != 0)
}

func execLXA(c *CPU) {
	v := c.loadOperand()
	c.A = v
	c.X = v
	c.setZN(v)
}

func execAXS(c *CPU) {
	v := c.loadOperand()
	result := (c.A & c.X) - v
	c.setFlag(FlagCarry, (c.A&c.X) >= v)
	c.X = result
	c.setZN(c.X)
}

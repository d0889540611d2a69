package cpu

// AddressingMode tags how an opcode's operand bytes are interpreted,
// per spec.md §4.1.
type AddressingMode int

const (
	ModeIMP AddressingMode = iota // implied, no operand
	ModeACC                       // operand is the accumulator
	ModeIMM                       // operand value = next byte
	ModeZP                        // zero page
	ModeZPX                       // zero page, X-indexed
	ModeZPY                       // zero page, Y-indexed
	ModeABS                       // absolute
	ModeABX                       // absolute, X-indexed (page penalty)
	ModeABY                       // absolute, Y-indexed (page penalty)
	ModeIND                       // indirect (JMP only; page-wrap bug)
	ModeIZX                       // (zero page, X)
	ModeIZY                       // (zero page), Y (page penalty)
	ModeREL                       // relative (branches)
	ModeUNK                       // illegal opcode, no addressing
)

// decodeOperand runs the addressing-mode phase: it consumes 0, 1 or 2
// bytes from PC, leaves the effective address in c.operandAddr (where
// applicable) and sets c.pagePenalty when an indexed mode's effective
// address falls on a different page than its un-indexed base.
func (c *CPU) decodeOperand(mode AddressingMode) {
	switch mode {
	case ModeIMP, ModeUNK:
		// no operand

	case ModeACC:
		c.accMode = true

	case ModeIMM:
		c.operandAddr = c.PC
		c.PC++

	case ModeZP:
		c.operandAddr = uint16(c.read(c.PC))
		c.PC++

	case ModeZPX:
		c.operandAddr = uint16(c.read(c.PC) + c.X)
		c.PC++

	case ModeZPY:
		c.operandAddr = uint16(c.read(c.PC) + c.Y)
		c.PC++

	case ModeABS:
		c.operandAddr = c.fetch16()

	case ModeABX:
		base := c.fetch16()
		addr := base + uint16(c.X)
		c.pagePenalty = pageCrossed(base, addr)
		c.operandAddr = addr

	case ModeABY:
		base := c.fetch16()
		addr := base + uint16(c.Y)
		c.pagePenalty = pageCrossed(base, addr)
		c.operandAddr = addr

	case ModeIND:
		ptr := c.fetch16()
		c.operandAddr = c.readIndirectBug(ptr)

	case ModeIZX:
		zp := c.read(c.PC) + c.X
		c.PC++
		c.operandAddr = c.readZPWord(zp)

	case ModeIZY:
		zp := c.read(c.PC)
		c.PC++
		base := c.readZPWord(zp)
		addr := base + uint16(c.Y)
		c.pagePenalty = pageCrossed(base, addr)
		c.operandAddr = addr

	case ModeREL:
		offset := int8(c.read(c.PC))
		c.PC++
		c.operandAddr = uint16(int32(c.PC) + int32(offset))
	}
}

// fetch16 reads a little-endian word at PC and advances PC by 2.
func (c *CPU) fetch16() uint16 {
	lo := uint16(c.read(c.PC))
	hi := uint16(c.read(c.PC + 1))
	c.PC += 2
	return hi<<8 | lo
}

// readZPWord reads a little-endian word from the zero page, wrapping the
// high-byte fetch within page 0 (IZX's wrap rule, spec.md §8).
func (c *CPU) readZPWord(zp uint8) uint16 {
	lo := uint16(c.read(uint16(zp)))
	hi := uint16(c.read(uint16(zp + 1)))
	return hi<<8 | lo
}

// readIndirectBug reproduces the 6502 JMP ($xxFF) bug: the high byte is
// fetched from $xx00, not $(xx+1)00, when the pointer's low byte is $FF.
func (c *CPU) readIndirectBug(ptr uint16) uint16 {
	lo := uint16(c.read(ptr))
	var hiAddr uint16
	if ptr&0xFF == 0xFF {
		hiAddr = ptr &^ 0xFF
	} else {
		hiAddr = ptr + 1
	}
	hi := uint16(c.read(hiAddr))
	return hi<<8 | lo
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// loadOperand returns the operand's value: the accumulator for ModeACC,
// else the byte at the decoded effective address.
func (c *CPU) loadOperand() uint8 {
	if c.accMode {
		return c.A
	}
	return c.read(c.operandAddr)
}

// storeOperand writes back to the accumulator (ModeACC) or to the decoded
// effective address.
func (c *CPU) storeOperand(v uint8) {
	if c.accMode {
		c.A = v
		return
	}
	c.write(c.operandAddr, v)
}

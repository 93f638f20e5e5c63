package cpu

type addrMode uint8

const (
	addrModeIMM  addrMode = iota + 1 // Immediate
	addrModeZP                       // Zero Page
	addrModeZPX                      // Zero Page X
	addrModeZPY                      // Zero Page Y
	addrModeABS                      // Absolute
	addrModeABSX                     // Absolute X
	addrModeABSY                     // Absolute Y
	addrModeIND                      // Indirect
	addrModeINDX                     // Indirect X
	addrModeINDY                     // Indirect Y
	addrModeREL                      // Relative
	addrModeACC                      // Accumulator
	addrModeIMP                      // Implied
)

func (mode addrMode) String() string {
	switch mode {
	case addrModeIMM:
		return "IMM"
	case addrModeZP:
		return "ZP"
	case addrModeZPX:
		return "ZPX"
	case addrModeZPY:
		return "ZPY"
	case addrModeABS:
		return "ABS"
	case addrModeABSX:
		return "ABSX"
	case addrModeABSY:
		return "ABSY"
	case addrModeIND:
		return "IND"
	case addrModeINDX:
		return "INDX"
	case addrModeINDY:
		return "INDY"
	case addrModeREL:
		return "REL"
	case addrModeACC:
		return "ACC"
	case addrModeIMP:
		return "IMP"
	}
	return "???"
}

// operandSize is the number of bytes following the opcode.
func (mode addrMode) operandSize() uint16 {
	switch mode {
	case addrModeABS, addrModeABSX, addrModeABSY, addrModeIND:
		return 2
	case addrModeACC, addrModeIMP:
		return 0
	}
	return 1
}

// fetch resolves the operand of the instruction whose opcode sits at c.opPC.
// PC already points past the instruction.
func (c *CPU) fetch(in instr) {
	c.addrMode = in.mode
	c.operandAddr = 0
	c.operandValue = 0

	at := c.opPC + 1
	r := c.regs()

	switch in.mode {
	case addrModeIMM:
		c.operandAddr = at
	case addrModeZP:
		c.operandAddr = c.mem.ZeroPage(uint16(c.read8(at)))
	case addrModeZPX:
		c.operandAddr = c.mem.ZeroPageX(r, c.read8(at))
	case addrModeZPY:
		c.operandAddr = c.mem.ZeroPageY(r, c.read8(at))
	case addrModeABS:
		c.operandAddr = c.mem.Absolute(c.read16(at))
	case addrModeABSX:
		c.operandAddr = c.mem.AbsoluteX(r, c.read16(at), in.penalty)
	case addrModeABSY:
		c.operandAddr = c.mem.AbsoluteY(r, c.read16(at), in.penalty)
	case addrModeIND:
		c.operandAddr = c.mem.Indirect(c.read16(at))
	case addrModeINDX:
		c.operandAddr = c.mem.IndirectX(r, c.read8(at))
	case addrModeINDY:
		c.operandAddr = c.mem.IndirectY(r, c.read8(at), in.penalty)

	case addrModeREL:
		c.operandAddr = uint16(c.read8(at))
		if c.operandAddr&0x80 > 0 {
			c.operandAddr |= 0xff00 // add leading 1 s to save the sign
		}
		return

	case addrModeACC:
		c.operandValue = c.a
		return

	case addrModeIMP:
		return
	}

	c.operandValue = c.read8(c.operandAddr)
}

package cpu

import "github.com/nevisdale/mos6502/internal/mem"

// Add with Carry
// A = A + M + C
//
// Flags Affected: C, Z, N, V
func (c *CPU) adc() {
	if c.decimal && c.getFlag(flagD) {
		c.adcDecimal(c.operandValue)
		return
	}
	c.addBinary(c.operandValue)
}

func (c *CPU) addBinary(m uint8) {
	r16 := uint16(c.a) + uint16(m)
	if c.getFlag(flagC) {
		r16++
	}
	r8 := uint8(r16)
	c.setFlag(flagC, r16 > 0xff)
	c.setFlagsZN(r8)
	c.setFlag(flagV, isSameSign(c.a, m) && !isSameSign(c.a, r8))
	c.a = r8
}

// NMOS decimal add. Z comes from the binary sum, N and V from the
// intermediate high nibble before the final BCD adjust.
func (c *CPU) adcDecimal(m uint8) {
	carry := 0
	if c.getFlag(flagC) {
		carry = 1
	}
	a, v := int(c.a), int(m)

	lo := a&0x0f + v&0x0f + carry
	if lo > 0x09 {
		lo += 0x06
	}
	hi := a>>4 + v>>4
	if lo > 0x0f {
		hi++
	}

	zero := uint8(a+v+carry) == 0
	c.setFlag(flagZ, zero)
	c.setFlag(flagN, !zero && hi&0x08 != 0)
	c.setFlag(flagV, ^(a^v)&(a^(hi<<4))&0x80 != 0)
	if hi > 0x09 {
		hi += 0x06
	}
	c.setFlag(flagC, hi > 0x0f)
	c.a = uint8(hi<<4) | uint8(lo&0x0f)
}

// Subtract with Carry
// A = A - M - (1 - C)
//
// Flags affected: C, Z, N, V
func (c *CPU) sbc() {
	if c.decimal && c.getFlag(flagD) {
		c.sbcDecimal(c.operandValue)
		return
	}
	c.addBinary(^c.operandValue)
}

// NMOS decimal subtract. All flags follow the binary difference,
// only the accumulator is BCD adjusted.
func (c *CPU) sbcDecimal(m uint8) {
	borrow := 1
	if c.getFlag(flagC) {
		borrow = 0
	}
	a, v := int(c.a), int(m)

	diff := a - v - borrow
	lo := a&0x0f - v&0x0f - borrow
	if lo < 0 {
		lo -= 0x06
	}
	hi := a>>4 - v>>4
	if lo < 0 {
		hi--
	}
	if hi < 0 {
		hi -= 0x06
	}

	c.setFlag(flagC, diff >= 0)
	c.setFlagsZN(uint8(diff))
	c.setFlag(flagV, (a^v)&(a^diff)&0x80 != 0)
	c.a = uint8(hi<<4) | uint8(lo&0x0f)
}

// Logical AND
// A = A & M
//
// Flags affected: Z, N
func (c *CPU) and() {
	c.a &= c.operandValue
	c.setFlagsZN(c.a)
}

// Arithmetic Shift Left
// C <- (A or M)7, (A or M) << 1
//
// Flags affected: C, Z, N
func (c *CPU) asl() {
	c.setFlag(flagC, c.operandValue&0x80 > 0)
	r8 := c.operandValue << 1
	c.setFlagsZN(r8)
	c.writeBack(r8)
}

// writeBack stores the result of a shift or rotate
// into A or memory depending on the addressing mode.
func (c *CPU) writeBack(r uint8) {
	if c.addrMode == addrModeACC {
		c.a = r
		return
	}
	c.write8(c.operandAddr, r)
}

// branch takes one more cycle when taken,
// and one more when the target is on a different page.
func (c *CPU) jmpIf(condition bool) {
	if !condition {
		return
	}
	c.addCycles(1)
	addr := c.pc + c.operandAddr
	if mem.PageCrossed(c.pc, addr) {
		c.addCycles(1)
	}
	c.pc = addr
}

func (c *CPU) bcc() {
	c.jmpIf(!c.getFlag(flagC))
}

func (c *CPU) bcs() {
	c.jmpIf(c.getFlag(flagC))
}

func (c *CPU) beq() {
	c.jmpIf(c.getFlag(flagZ))
}

func (c *CPU) bmi() {
	c.jmpIf(c.getFlag(flagN))
}

func (c *CPU) bne() {
	c.jmpIf(!c.getFlag(flagZ))
}

func (c *CPU) bpl() {
	c.jmpIf(!c.getFlag(flagN))
}

func (c *CPU) bvc() {
	c.jmpIf(!c.getFlag(flagV))
}

func (c *CPU) bvs() {
	c.jmpIf(c.getFlag(flagV))
}

// Bit Test
// A & M, N <- M7, V <- M6
//
// Flags affected: Z, N, V
func (c *CPU) bit() {
	m := c.a & c.operandValue
	c.setFlag(flagZ, m == 0)
	c.setFlag(flagN, c.operandValue&flagN > 0)
	c.setFlag(flagV, c.operandValue&flagV > 0)
}

// Force Interrupt
//
// The byte after BRK is padding, so the pushed return address skips it.
func (c *CPU) brk() {
	c.stackPush16(c.pc + 1)
	c.stackPush8(c.p | flagB | flagU)
	c.setFlag(flagI, true)
	c.pc = c.read16(vectorIRQ)
}

func (c *CPU) clc() {
	c.setFlag(flagC, false)
}

func (c *CPU) cld() {
	c.setFlag(flagD, false)
}

func (c *CPU) cli() {
	c.setFlag(flagI, false)
}

func (c *CPU) clv() {
	c.setFlag(flagV, false)
}

func (c *CPU) compare(reg uint8) {
	c.setFlag(flagC, reg >= c.operandValue)
	c.setFlagsZN(reg - c.operandValue)
}

func (c *CPU) cmp() {
	c.compare(c.a)
}

func (c *CPU) cpx() {
	c.compare(c.x)
}

func (c *CPU) cpy() {
	c.compare(c.y)
}

func (c *CPU) dec() {
	r := c.operandValue - 1
	c.setFlagsZN(r)
	c.write8(c.operandAddr, r)
}

func (c *CPU) dex() {
	c.x--
	c.setFlagsZN(c.x)
}

func (c *CPU) dey() {
	c.y--
	c.setFlagsZN(c.y)
}

func (c *CPU) eor() {
	c.a ^= c.operandValue
	c.setFlagsZN(c.a)
}

func (c *CPU) inc() {
	r := c.operandValue + 1
	c.setFlagsZN(r)
	c.write8(c.operandAddr, r)
}

func (c *CPU) inx() {
	c.x++
	c.setFlagsZN(c.x)
}

func (c *CPU) iny() {
	c.y++
	c.setFlagsZN(c.y)
}

func (c *CPU) jmp() {
	c.pc = c.operandAddr
}

// Jump to Subroutine
//
// The pushed address is the last byte of the JSR instruction,
// RTS adds one when it pulls it back.
func (c *CPU) jsr() {
	c.stackPush16(c.pc - 1)
	c.pc = c.operandAddr
}

func (c *CPU) lda() {
	c.a = c.operandValue
	c.setFlagsZN(c.a)
}

func (c *CPU) ldx() {
	c.x = c.operandValue
	c.setFlagsZN(c.x)
}

func (c *CPU) ldy() {
	c.y = c.operandValue
	c.setFlagsZN(c.y)
}

// Logical Shift Right
// C <- (A or M)0, (A or M) >> 1
//
// Flags affected: C, Z, N
func (c *CPU) lsr() {
	c.setFlag(flagC, c.operandValue&0x1 > 0)
	r := c.operandValue >> 1
	c.setFlagsZN(r)
	c.writeBack(r)
}

func (c *CPU) nop() {
}

func (c *CPU) ora() {
	c.a |= c.operandValue
	c.setFlagsZN(c.a)
}

func (c *CPU) pha() {
	c.stackPush8(c.a)
}

func (c *CPU) php() {
	c.stackPush8(c.p | flagB | flagU)
}

func (c *CPU) pla() {
	c.a = c.stackPop8()
	c.setFlagsZN(c.a)
}

func (c *CPU) plp() {
	c.p = (c.stackPop8() | flagU) & ^flagB
}

func (c *CPU) rol() {
	r := c.operandValue << 1
	if c.getFlag(flagC) {
		r |= 0x1
	}
	c.setFlag(flagC, c.operandValue&0x80 > 0)
	c.setFlagsZN(r)
	c.writeBack(r)
}

func (c *CPU) ror() {
	r := c.operandValue >> 1
	if c.getFlag(flagC) {
		r |= 0x80
	}
	c.setFlag(flagC, c.operandValue&0x1 > 0)
	c.setFlagsZN(r)
	c.writeBack(r)
}

func (c *CPU) rti() {
	c.p = (c.stackPop8() | flagU) & ^flagB
	c.pc = c.stackPop16()
}

func (c *CPU) rts() {
	c.pc = c.stackPop16()
	c.pc++
}

func (c *CPU) sec() {
	c.setFlag(flagC, true)
}

func (c *CPU) sed() {
	c.setFlag(flagD, true)
}

func (c *CPU) sei() {
	c.setFlag(flagI, true)
}

func (c *CPU) sta() {
	c.write8(c.operandAddr, c.a)
}

func (c *CPU) stx() {
	c.write8(c.operandAddr, c.x)
}

func (c *CPU) sty() {
	c.write8(c.operandAddr, c.y)
}

func (c *CPU) tax() {
	c.x = c.a
	c.setFlagsZN(c.x)
}

func (c *CPU) tay() {
	c.y = c.a
	c.setFlagsZN(c.y)
}

func (c *CPU) tsx() {
	c.x = c.sp
	c.setFlagsZN(c.x)
}

func (c *CPU) txa() {
	c.a = c.x
	c.setFlagsZN(c.a)
}

func (c *CPU) txs() {
	c.sp = c.x
}

func (c *CPU) tya() {
	c.a = c.y
	c.setFlagsZN(c.a)
}

// undocumented opcodes

func (c *CPU) lax() {
	c.a = c.operandValue
	c.x = c.operandValue
	c.setFlagsZN(c.a)
}

func (c *CPU) sax() {
	c.write8(c.operandAddr, c.a&c.x)
}

func (c *CPU) dcp() {
	c.operandValue--
	c.write8(c.operandAddr, c.operandValue)
	c.cmp()
}

func (c *CPU) isc() {
	c.operandValue++
	c.write8(c.operandAddr, c.operandValue)
	c.sbc()
}

func (c *CPU) slo() {
	c.setFlag(flagC, c.operandValue&0x80 > 0)
	r := c.operandValue << 1
	c.write8(c.operandAddr, r)
	c.a |= r
	c.setFlagsZN(c.a)
}

func (c *CPU) rla() {
	carry := c.operandValue&0x80 > 0
	r := c.operandValue << 1
	if c.getFlag(flagC) {
		r |= 0x1
	}
	c.write8(c.operandAddr, r)
	c.a &= r
	c.setFlag(flagC, carry)
	c.setFlagsZN(c.a)
}

func (c *CPU) sre() {
	c.setFlag(flagC, c.operandValue&0x1 > 0)
	r := c.operandValue >> 1
	c.write8(c.operandAddr, r)
	c.a ^= r
	c.setFlagsZN(c.a)
}

func (c *CPU) rra() {
	r := c.operandValue >> 1
	if c.getFlag(flagC) {
		r |= 0x80
	}
	c.setFlag(flagC, c.operandValue&0x1 > 0)
	c.operandValue = r
	c.write8(c.operandAddr, c.operandValue)
	c.adc()
}

func (c *CPU) anc() {
	c.a &= c.operandValue
	c.setFlag(flagC, c.a&0x80 > 0)
	c.setFlagsZN(c.a)
}

func (c *CPU) alr() {
	c.a &= c.operandValue
	c.setFlag(flagC, c.a&0x1 > 0)
	c.a >>= 1
	c.setFlagsZN(c.a)
}

// X = (A & X) - M, flags as in CMP
func (c *CPU) axs() {
	ax := c.a & c.x
	c.setFlag(flagC, ax >= c.operandValue)
	c.x = ax - c.operandValue
	c.setFlagsZN(c.x)
}

func (c *CPU) las() {
	r := c.operandValue & c.sp
	c.a = r
	c.x = r
	c.sp = r
	c.setFlagsZN(r)
}

// JAM: the processor locks up until reset. PC stays on the opcode.
func (c *CPU) hlt() {
	c.halted = true
	c.pc = c.opPC
}

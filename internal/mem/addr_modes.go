package mem

// Addressing-mode resolvers. Each one takes the operand already fetched
// from the instruction stream and returns the effective address.
//
// Resolvers that index across a page (abs,X abs,Y (zp),Y) charge one
// extra cycle through r.AddCycles when track is set and the high byte
// of the address changes. Only the instruction table knows whether
// a given opcode pays that penalty, so the caller decides.

// Absolute: $nnnn
func (m *Memory) Absolute(operand uint16) uint16 {
	return operand
}

// AbsoluteX: $nnnn,X
func (m *Memory) AbsoluteX(r Registers, operand uint16, track bool) uint16 {
	return m.indexed(r, operand, r.X(), track)
}

// AbsoluteY: $nnnn,Y
func (m *Memory) AbsoluteY(r Registers, operand uint16, track bool) uint16 {
	return m.indexed(r, operand, r.Y(), track)
}

func (m *Memory) indexed(r Registers, base uint16, index uint8, track bool) uint16 {
	addr := base + uint16(index)
	if track && PageCrossed(base, addr) {
		r.AddCycles(1)
	}
	return addr
}

// ZeroPage: $nn
func (m *Memory) ZeroPage(operand uint16) uint16 {
	return operand & 0x00ff
}

// ZeroPageX: $nn,X. The sum wraps inside page zero.
func (m *Memory) ZeroPageX(r Registers, operand uint8) uint16 {
	return uint16(operand + r.X())
}

// ZeroPageY: $nn,Y. The sum wraps inside page zero.
func (m *Memory) ZeroPageY(r Registers, operand uint8) uint16 {
	return uint16(operand + r.Y())
}

// IndirectX: ($nn,X)
//
// The pointer lives at (operand + X) & $FF and its high byte is read
// from the next zero page cell, wrapping $FF to $00.
func (m *Memory) IndirectX(r Registers, operand uint8) uint16 {
	ptr := operand + r.X()
	return m.zeroPageWord(ptr)
}

// IndirectY: ($nn),Y
func (m *Memory) IndirectY(r Registers, operand uint8, track bool) uint16 {
	return m.indexed(r, m.zeroPageWord(operand), r.Y(), track)
}

func (m *Memory) zeroPageWord(ptr uint8) uint16 {
	lo := uint16(m.bytes[ptr])
	hi := uint16(m.bytes[ptr+1])
	return lo | hi<<8
}

// Indirect: ($nnnn), used by JMP only.
//
// Reproduces the 6502 page boundary bug: when the pointer sits at $xxFF
// the high byte of the target is read from $xx00, not from the next page.
func (m *Memory) Indirect(operand uint16) uint16 {
	hiAddr := operand + 1
	if operand&0x00ff == 0x00ff {
		hiAddr = operand & 0xff00
	}
	return uint16(m.bytes[operand]) | uint16(m.bytes[hiAddr])<<8
}

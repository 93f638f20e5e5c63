package mem

// The stack is located in the fixed memory page $0100 to $01FF.
// SP is 8 bit so it never leaves the page: overflow and underflow
// silently wrap, just like the real chip.
const StackBase = uint16(0x100)

func (m *Memory) PushByte(r Registers, data uint8) {
	sp := r.SP()
	m.bytes[StackBase|uint16(sp)] = data
	r.SetSP(sp - 1)
}

// PushWord pushes the high byte first so that the low byte ends up
// at the lower address, which is the order PopWord expects.
func (m *Memory) PushWord(r Registers, data uint16) {
	m.PushByte(r, uint8(data>>8))
	m.PushByte(r, uint8(data))
}

func (m *Memory) PopByte(r Registers) uint8 {
	sp := r.SP() + 1
	r.SetSP(sp)
	return m.bytes[StackBase|uint16(sp)]
}

func (m *Memory) PopWord(r Registers) uint16 {
	lo := uint16(m.PopByte(r))
	hi := uint16(m.PopByte(r))
	return lo | hi<<8
}

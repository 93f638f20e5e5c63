package cpu

import "fmt"

// DisassembleAt decodes the instruction at addr and returns its text
// and its size in bytes. Unknown opcodes decode as a one byte "???".
func (c *CPU) DisassembleAt(addr uint16) (string, int) {
	opcode := c.read8(addr)
	instr := c.instrs[opcode]
	if instr.fn == nil {
		return fmt.Sprintf("??? $%02X", opcode), 1
	}

	name := instr.name
	if instr.unofficial {
		name = "*" + name
	}

	pc := addr + 1
	size := 1 + int(instr.mode.operandSize())
	switch instr.mode {
	case addrModeIMM:
		return fmt.Sprintf("%s #$%02X", name, c.read8(pc)), size
	case addrModeZP:
		return fmt.Sprintf("%s $%02X", name, c.read8(pc)), size
	case addrModeZPX:
		return fmt.Sprintf("%s $%02X,X", name, c.read8(pc)), size
	case addrModeZPY:
		return fmt.Sprintf("%s $%02X,Y", name, c.read8(pc)), size
	case addrModeABS:
		return fmt.Sprintf("%s $%04X", name, c.read16(pc)), size
	case addrModeABSX:
		return fmt.Sprintf("%s $%04X,X", name, c.read16(pc)), size
	case addrModeABSY:
		return fmt.Sprintf("%s $%04X,Y", name, c.read16(pc)), size
	case addrModeIND:
		return fmt.Sprintf("%s ($%04X)", name, c.read16(pc)), size
	case addrModeINDX:
		return fmt.Sprintf("%s ($%02X,X)", name, c.read8(pc)), size
	case addrModeINDY:
		return fmt.Sprintf("%s ($%02X),Y", name, c.read8(pc)), size
	case addrModeREL:
		offset := uint16(c.read8(pc))
		if offset&0x80 > 0 {
			offset |= 0xff00 // add leading 1 s to save the sign
		}
		return fmt.Sprintf("%s $%04X", name, pc+1+offset), size
	case addrModeACC:
		return fmt.Sprintf("%s A", name), size
	}
	return name, size
}

// Disassemble returns a map of addresses and their corresponding instructions
// from 0x0000 to 0xffff
func (c *CPU) Disassemble() map[uint16]string {
	disasm := make(map[uint16]string, 0x10000)

	addr := uint32(0)
	for addr <= 0xFFFF {
		text, size := c.DisassembleAt(uint16(addr))
		disasm[uint16(addr)] = fmt.Sprintf("$%04X: %s", addr, text)
		addr += uint32(size)
	}

	return disasm
}

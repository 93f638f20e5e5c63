package cpu

import (
	"strings"

	"github.com/nevisdale/mos6502/internal/mem"
	"github.com/pkg/errors"
)

const (
	vectorNMI   = uint16(0xfffa)
	vectorReset = uint16(0xfffc)
	vectorIRQ   = uint16(0xfffe)

	resetSP     = uint8(0xfd)
	resetCycles = 7
)

const (
	flagC = uint8(1 << iota) // Carry
	flagZ                    // Zero
	flagI                    // Interrupt Disable
	flagD                    // Decimal Mode
	flagB                    // Break Command
	flagU                    // Unused
	flagV                    // Overflow
	flagN                    // Negative
)

type instr struct {
	name       string
	mode       addrMode
	fn         func()
	cycles     uint8
	penalty    bool // one more cycle when indexing crosses a page
	unofficial bool
}

type CPU struct {
	a      uint8
	x      uint8
	y      uint8
	p      uint8
	sp     uint8
	pc     uint16
	mem    *mem.Memory
	instrs [0x100]instr

	cycles      uint64 // cycles in the current timing window
	totalCycles uint64
	halted      bool

	unofficial bool
	decimal    bool

	// state of the instruction being executed
	opPC         uint16
	addrMode     addrMode
	operandAddr  uint16
	operandValue uint8
}

type Option func(*CPU)

// WithUnofficialOpcodes enables or disables the stable undocumented opcodes.
// When disabled they are reported as unimplemented.
func WithUnofficialOpcodes(on bool) Option {
	return func(c *CPU) {
		c.unofficial = on
	}
}

// WithDecimalMode enables or disables BCD arithmetic in ADC and SBC.
// The NES 2A03 is a 6502 with the decimal mode wired off.
func WithDecimalMode(on bool) Option {
	return func(c *CPU) {
		c.decimal = on
	}
}

func NewCPU(opts ...Option) *CPU {
	c := &CPU{
		mem:        mem.New(),
		unofficial: true,
		decimal:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.initInstructions()
	return c
}

// State is a snapshot of the registers for drivers and debuggers.
type State struct {
	PC          uint16
	SP          uint8
	A           uint8
	X           uint8
	Y           uint8
	P           uint8
	Cycles      uint64
	TotalCycles uint64
	Halted      bool
}

// StatusString returns the flags as NV-BDIZC, a dot for a cleared flag.
func (s State) StatusString() string {
	const names = "CZIDBUVN"
	var sb strings.Builder
	for i := 7; i >= 0; i-- {
		switch {
		case i == 5:
			sb.WriteByte('-')
		case s.P&(1<<i) != 0:
			sb.WriteByte(names[i])
		default:
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func (c *CPU) State() State {
	return State{
		PC:          c.pc,
		SP:          c.sp,
		A:           c.a,
		X:           c.x,
		Y:           c.y,
		P:           c.p,
		Cycles:      c.cycles,
		TotalCycles: c.totalCycles,
		Halted:      c.halted,
	}
}

func (c *CPU) Memory() *mem.Memory {
	return c.mem
}

func (c *CPU) SetPC(pc uint16) {
	c.pc = pc
}

// Cycles returns the cycles spent in the current timing window.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// ResetCycles starts a new timing window.
func (c *CPU) ResetCycles() {
	c.cycles = 0
}

func (c *CPU) TotalCycles() uint64 {
	return c.totalCycles
}

func (c *CPU) Halted() bool {
	return c.halted
}

func (c *CPU) addCycles(n uint64) {
	c.cycles += n
	c.totalCycles += n
}

// busRegs is the view of the CPU handed to the memory bus.
type busRegs CPU

func (r *busRegs) X() uint8           { return r.x }
func (r *busRegs) Y() uint8           { return r.y }
func (r *busRegs) SP() uint8          { return r.sp }
func (r *busRegs) SetSP(sp uint8)     { r.sp = sp }
func (r *busRegs) AddCycles(n uint64) { (*CPU)(r).addCycles(n) }

func (c *CPU) regs() mem.Registers {
	return (*busRegs)(c)
}

func (c *CPU) read8(addr uint16) uint8 {
	return c.mem.Read8(addr)
}

func (c *CPU) read16(addr uint16) uint16 {
	return c.mem.Read16(addr)
}

func (c *CPU) write8(addr uint16, data uint8) {
	c.mem.Write8(addr, data)
}

func (c *CPU) getFlag(flag uint8) bool {
	return c.p&flag > 0
}

func (c *CPU) setFlag(flag uint8, v bool) {
	if v {
		c.p |= flag
		return
	}
	c.p &= ^flag
}

func (c *CPU) setFlagsZN(value uint8) {
	c.setFlag(flagZ, value == 0)
	c.setFlag(flagN, value&flagN > 0)
}

func isSameSign(a, b uint8) bool {
	return (a^b)&0x80 == 0
}

func (c *CPU) stackPush8(data uint8) {
	c.mem.PushByte(c.regs(), data)
}

func (c *CPU) stackPush16(data uint16) {
	c.mem.PushWord(c.regs(), data)
}

func (c *CPU) stackPop8() uint8 {
	return c.mem.PopByte(c.regs())
}

func (c *CPU) stackPop16() uint16 {
	return c.mem.PopWord(c.regs())
}

// PowerUp zeroes memory and resets the CPU. Called once before stepping.
func (c *CPU) PowerUp() {
	c.mem.Zero()
	c.Reset()
}

// Reset the CPU to its initial state. PC is loaded from the reset vector.
func (c *CPU) Reset() {
	c.a = 0
	c.x = 0
	c.y = 0
	c.p = 0x00 | flagU | flagI
	c.sp = resetSP
	c.pc = c.read16(vectorReset)
	c.cycles = 0
	c.totalCycles = 0
	c.addCycles(resetCycles)
	c.halted = false
}

// Interrupt request signal
func (c *CPU) IRQ() {
	if c.getFlag(flagI) {
		return
	}
	c.interrupt(vectorIRQ)
}

// Non-maskable interrupt request signal
func (c *CPU) NMI() {
	c.interrupt(vectorNMI)
}

func (c *CPU) interrupt(vector uint16) {
	c.stackPush16(c.pc)
	c.stackPush8((c.p | flagU) & ^flagB)
	c.setFlag(flagI, true)
	c.pc = c.read16(vector)
	c.addCycles(7)
}

// Step executes exactly one instruction.
//
// An opcode the core does not emulate halts the CPU and is reported as
// *UnimplementedOpcodeError. A halted CPU keeps returning ErrHalted until
// it is reset.
func (c *CPU) Step() error {
	if c.halted {
		return errors.Wrapf(ErrHalted, "PC: %04X", c.pc)
	}

	c.opPC = c.pc
	opcode := c.read8(c.pc)
	instr := c.instrs[opcode]
	if instr.fn == nil || (instr.unofficial && !c.unofficial) {
		c.halted = true
		return &UnimplementedOpcodeError{Opcode: opcode, PC: c.pc}
	}

	c.pc += 1 + instr.mode.operandSize()
	c.fetch(instr)
	instr.fn()
	c.addCycles(uint64(instr.cycles))

	c.addrMode = 0
	c.operandAddr = 0
	c.operandValue = 0

	if c.halted {
		return errors.Wrapf(ErrHalted, "%s at PC: %04X", instr.name, c.pc)
	}
	return nil
}

func (c *CPU) supported(opcode uint8) bool {
	instr := c.instrs[opcode]
	return instr.fn != nil && (c.unofficial || !instr.unofficial)
}

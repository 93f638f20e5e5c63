package mem

import "github.com/pkg/errors"

// Size of the 6502 address space in bytes.
const Size = 0x10000

// ErrOutOfRange is returned by Load when the data would run past $FFFF.
var ErrOutOfRange = errors.New("data does not fit into the address space")

type ReadWriter interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, data uint8)
}

// Registers is the part of the processor state the bus needs
// for index arithmetic, stack discipline and page-cross accounting.
// It is passed in on every call and never stored by the bus.
type Registers interface {
	X() uint8
	Y() uint8
	SP() uint8
	SetSP(sp uint8)
	AddCycles(n uint64)
}

// $0000-$00FF: zero page
// $0100-$01FF: stack page
// $0200-$FFFF: general purpose, ROM images are loaded here by the driver
type Memory struct {
	bytes [Size]uint8
}

func New() *Memory {
	return &Memory{}
}

func (m *Memory) Read8(addr uint16) uint8 {
	return m.bytes[addr]
}

// Read16 reads a little-endian word. The high byte comes from addr+1
// and wraps to $0000 when addr is $FFFF.
func (m *Memory) Read16(addr uint16) uint16 {
	return uint16(m.bytes[addr]) | uint16(m.bytes[addr+1])<<8
}

func (m *Memory) Write8(addr uint16, data uint8) {
	m.bytes[addr] = data
}

func (m *Memory) Write16(addr uint16, data uint16) {
	m.bytes[addr] = uint8(data)
	m.bytes[addr+1] = uint8(data >> 8)
}

// Zero clears every cell.
func (m *Memory) Zero() {
	clear(m.bytes[:])
}

// Load copies data into memory starting at addr. Nothing is written
// if the data does not fit below $FFFF.
func (m *Memory) Load(addr uint16, data []uint8) (int, error) {
	if int(addr)+len(data) > Size {
		return 0, errors.Wrapf(ErrOutOfRange, "%d bytes at $%04X", len(data), addr)
	}
	return copy(m.bytes[addr:], data), nil
}

// Page returns a copy of the 256-byte page n.
func (m *Memory) Page(n uint8) []uint8 {
	start := int(n) << 8
	page := make([]uint8, 0x100)
	copy(page, m.bytes[start:start+0x100])
	return page
}

// PageCrossed reports whether a and b are on different pages.
// Page number is the high byte of the address.
func PageCrossed(a, b uint16) bool {
	return a&0xff00 != b&0xff00
}

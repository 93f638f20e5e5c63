package rom

import (
	"github.com/nevisdale/mos6502/internal/mem"
	"github.com/pkg/errors"
)

// Mapper translates CPU addresses in cartridge space to PRG ROM.
// Bank switching mappers are not supported.
type Mapper interface {
	mem.ReadWriter
}

func NewMapper(cart *Cart) (Mapper, error) {
	switch cart.mapperID {
	case 0:
		return &Mapper0{cart}, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedMapper, "mapper %d", cart.mapperID)
}

// Mapper0 is NROM: 16 KiB of PRG mirrored at $8000 and $C000,
// or 32 KiB at $8000.
type Mapper0 struct {
	cart *Cart
}

func (m Mapper0) mapAddr(addr uint16) uint16 {
	if m.cart.prgBanks > 1 {
		return addr & 0x7FFF
	}
	return addr & 0x3FFF
}

func (m Mapper0) Read8(addr uint16) uint8 {
	if addr < prgStart {
		return 0
	}
	return m.cart.prgMem[m.mapAddr(addr)]
}

// Write8 is a no-op, PRG is read only.
func (m *Mapper0) Write8(addr uint16, data uint8) {
}

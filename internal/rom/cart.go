package rom

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/nevisdale/mos6502/internal/mem"
	"github.com/pkg/errors"
)

const (
	inesMagic        = 0x1a53454e
	prgBankSizeBytes = 0x4000
	chrBankSizeBytes = 0x2000
	trainerSizeBytes = 512

	prgStart = 0x8000
)

var (
	ErrInvalidHeader     = errors.New("invalid iNES header")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)

type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
)

func (m Mirroring) String() string {
	if m == MirrorVertical {
		return "vertical"
	}
	return "horizontal"
}

type Cart struct {
	prgMem []uint8
	chrMem []uint8

	prgBanks uint8
	chrBanks uint8
	mapperID uint8
	mirror   Mirroring

	mapper Mapper
}

// NewCartFromFile reads a .nes file and returns a Cart struct.
// Supported NES format: iNES
func NewCartFromFile(path string) (*Cart, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't open the file")
	}
	defer file.Close()

	cart, err := NewCart(file)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cart, nil
}

// NewCart parses an iNES image.
func NewCart(r io.Reader) (*Cart, error) {
	var header struct {
		Magic      uint32
		PrgRomSize uint8
		ChrRomSize uint8
		Flags6     uint8
		Flags7     uint8
		Flags8     uint8
		Flags9     uint8
		Flags10    uint8
		_          [5]uint8 // unused
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(err, "couldn't read the header")
	}
	if header.Magic != inesMagic {
		return nil, errors.Wrapf(ErrInvalidHeader, "magic %08X", header.Magic)
	}
	if header.PrgRomSize == 0 {
		return nil, errors.Wrap(ErrInvalidHeader, "no PRG ROM banks")
	}
	// the second bit of flags6 is the trainer flag
	if header.Flags6&0x4 != 0 {
		if _, err := io.CopyN(io.Discard, r, trainerSizeBytes); err != nil {
			return nil, errors.Wrap(err, "couldn't skip the trainer")
		}
	}

	// flag6 and flag7 contain part of the mapper ID in 4 high bits
	// flag6: lower 4 bits of mapper ID
	// flag7: upper 4 bits of mapper ID
	mapperID := (header.Flags7 & 0xf0) | (header.Flags6 >> 4)

	cart := &Cart{
		prgMem:   make([]uint8, int(header.PrgRomSize)*prgBankSizeBytes),
		chrMem:   make([]uint8, int(header.ChrRomSize)*chrBankSizeBytes),
		prgBanks: header.PrgRomSize,
		chrBanks: header.ChrRomSize,
		mapperID: mapperID,
		mirror:   Mirroring(header.Flags6 & 0x1),
	}

	mapper, err := NewMapper(cart)
	if err != nil {
		return nil, err
	}
	cart.mapper = mapper

	if _, err := io.ReadFull(r, cart.prgMem); err != nil {
		return nil, errors.Wrapf(err, "couldn't read PRG ROM, expected %d bytes", len(cart.prgMem))
	}
	if _, err := io.ReadFull(r, cart.chrMem); err != nil {
		return nil, errors.Wrapf(err, "couldn't read CHR ROM, expected %d bytes", len(cart.chrMem))
	}

	return cart, nil
}

func (c *Cart) MapperID() uint8 {
	return c.mapperID
}

func (c *Cart) PRGBanks() uint8 {
	return c.prgBanks
}

func (c *Cart) CHRBanks() uint8 {
	return c.chrBanks
}

func (c *Cart) Mirroring() Mirroring {
	return c.mirror
}

func (c *Cart) Read8(addr uint16) uint8 {
	return c.mapper.Read8(addr)
}

func (c *Cart) Write8(addr uint16, data uint8) {
	c.mapper.Write8(addr, data)
}

// LoadROM copies the cartridge space $8000-$FFFF, as the mapper
// presents it, into memory.
func (c *Cart) LoadROM(m *mem.Memory) error {
	window := make([]uint8, mem.Size-prgStart)
	for i := range window {
		window[i] = c.Read8(uint16(prgStart + i))
	}
	if _, err := m.Load(prgStart, window); err != nil {
		return errors.Wrap(err, "couldn't load PRG ROM")
	}
	return nil
}

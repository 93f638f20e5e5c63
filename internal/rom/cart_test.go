package rom

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nevisdale/mos6502/internal/mem"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inesArgs struct {
	prgBanks uint8
	chrBanks uint8
	flags6   uint8
	flags7   uint8
	trainer  bool
}

// newINES builds an image whose PRG byte at offset i is the bank number
// in the high bits and the low bits of i.
func newINES(in inesArgs) []uint8 {
	var buf bytes.Buffer
	flags6 := in.flags6
	if in.trainer {
		flags6 |= 0x4
	}
	buf.Write([]uint8{'N', 'E', 'S', 0x1a, in.prgBanks, in.chrBanks, flags6, in.flags7})
	buf.Write(make([]uint8, 8))
	if in.trainer {
		buf.Write(bytes.Repeat([]uint8{0xee}, trainerSizeBytes))
	}
	for bank := 0; bank < int(in.prgBanks); bank++ {
		prg := make([]uint8, prgBankSizeBytes)
		for i := range prg {
			prg[i] = uint8(bank<<7) | uint8(i&0x7f)
		}
		buf.Write(prg)
	}
	buf.Write(make([]uint8, int(in.chrBanks)*chrBankSizeBytes))
	return buf.Bytes()
}

func Test_NewCart(t *testing.T) {
	t.Run("NROM-128", func(t *testing.T) {
		cart, err := NewCart(bytes.NewReader(newINES(inesArgs{prgBanks: 1, chrBanks: 1, flags6: 0x1})))
		require.NoError(t, err)

		assert.Equal(t, uint8(0), cart.MapperID())
		assert.Equal(t, uint8(1), cart.PRGBanks())
		assert.Equal(t, uint8(1), cart.CHRBanks())
		assert.Equal(t, MirrorVertical, cart.Mirroring())
	})

	t.Run("trainer is skipped", func(t *testing.T) {
		cart, err := NewCart(bytes.NewReader(newINES(inesArgs{prgBanks: 1, trainer: true})))
		require.NoError(t, err)

		assert.Equal(t, uint8(0x00), cart.Read8(0x8000))
		assert.Equal(t, uint8(0x01), cart.Read8(0x8001))
	})

	t.Run("invalid magic", func(t *testing.T) {
		data := newINES(inesArgs{prgBanks: 1})
		data[0] = 'X'

		_, err := NewCart(bytes.NewReader(data))
		assert.True(t, errors.Is(err, ErrInvalidHeader), "got %v", err)
	})

	t.Run("unsupported mapper", func(t *testing.T) {
		_, err := NewCart(bytes.NewReader(newINES(inesArgs{prgBanks: 1, flags6: 0x10})))
		assert.True(t, errors.Is(err, ErrUnsupportedMapper), "got %v", err)
	})

	t.Run("truncated PRG", func(t *testing.T) {
		data := newINES(inesArgs{prgBanks: 2})

		_, err := NewCart(bytes.NewReader(data[:len(data)-1]))
		assert.Error(t, err)
	})
}

func Test_CartLoadROM(t *testing.T) {
	t.Run("16K is mirrored", func(t *testing.T) {
		cart, err := NewCart(bytes.NewReader(newINES(inesArgs{prgBanks: 1})))
		require.NoError(t, err)

		m := mem.New()
		m.Write8(0x7fff, 0x42)
		require.NoError(t, cart.LoadROM(m))

		assert.Equal(t, uint8(0x05), m.Read8(0x8005))
		assert.Equal(t, uint8(0x05), m.Read8(0xc005))
		assert.Equal(t, uint8(0x42), m.Read8(0x7fff), "below cartridge space untouched")
	})

	t.Run("32K is flat", func(t *testing.T) {
		cart, err := NewCart(bytes.NewReader(newINES(inesArgs{prgBanks: 2})))
		require.NoError(t, err)

		m := mem.New()
		require.NoError(t, cart.LoadROM(m))

		assert.Equal(t, uint8(0x05), m.Read8(0x8005))
		assert.Equal(t, uint8(0x85), m.Read8(0xc005))
	})

	t.Run("writes do not reach PRG", func(t *testing.T) {
		cart, err := NewCart(bytes.NewReader(newINES(inesArgs{prgBanks: 1})))
		require.NoError(t, err)

		cart.Write8(0x8000, 0xff)
		assert.Equal(t, uint8(0x00), cart.Read8(0x8000))
	})
}

func Test_NewCartFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nes")
	require.NoError(t, os.WriteFile(path, newINES(inesArgs{prgBanks: 1}), 0o644))

	cart, err := NewCartFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), cart.PRGBanks())

	_, err = NewCartFromFile(filepath.Join(t.TempDir(), "missing.nes"))
	assert.Error(t, err)
}

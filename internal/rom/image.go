package rom

import (
	"os"

	"github.com/nevisdale/mos6502/internal/mem"
	"github.com/pkg/errors"
)

var ErrTooLarge = errors.New("image does not fit in memory")

// Image is a flat binary placed at Origin.
type Image struct {
	Origin uint16
	Data   []uint8
	// ResetVector points $FFFC at Origin after loading.
	ResetVector bool
}

func NewImageFromFile(path string, origin uint16) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read the image")
	}
	if int(origin)+len(data) > mem.Size {
		return nil, errors.Wrapf(ErrTooLarge, "%s: %d bytes at $%04X", path, len(data), origin)
	}
	return &Image{Origin: origin, Data: data}, nil
}

func (img *Image) LoadROM(m *mem.Memory) error {
	if _, err := m.Load(img.Origin, img.Data); err != nil {
		return errors.Wrapf(ErrTooLarge, "%d bytes at $%04X", len(img.Data), img.Origin)
	}
	if img.ResetVector {
		m.Write16(0xfffc, img.Origin)
	}
	return nil
}

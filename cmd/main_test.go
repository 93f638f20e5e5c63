package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nevisdale/mos6502/internal/rom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseAddr(t *testing.T) {
	for _, s := range []string{"C000", "$C000", "0xC000", "0Xc000"} {
		addr, err := parseAddr(s)
		require.NoError(t, err, s)
		assert.Equal(t, uint16(0xc000), addr, s)
	}

	_, err := parseAddr("10000")
	assert.Error(t, err)
}

func Test_newLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(path, []uint8{0xea}, 0o644))

	t.Run("raw sets the reset vector", func(t *testing.T) {
		l, err := newLoader(path, "", "0600")
		require.NoError(t, err)

		img, ok := l.(*rom.Image)
		require.True(t, ok)
		assert.Equal(t, uint16(0x0600), img.Origin)
		assert.True(t, img.ResetVector)
	})

	t.Run("raw covering the vectors keeps them", func(t *testing.T) {
		full := filepath.Join(dir, "full.bin")
		require.NoError(t, os.WriteFile(full, make([]uint8, 0x8000), 0o644))

		l, err := newLoader(full, "raw", "8000")
		require.NoError(t, err)
		assert.False(t, l.(*rom.Image).ResetVector)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := newLoader(path, "elf", "0")
		assert.Error(t, err)
	})
}

package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPU_DisassembleAt(t *testing.T) {
	type testArgs struct {
		program      []uint8
		expectedText string
		expectedSize int
	}

	testDo := func(t *testing.T, in testArgs) {
		cpu := NewCPU()
		_, err := cpu.mem.Load(0x8000, in.program)
		assert.NoError(t, err)

		text, size := cpu.DisassembleAt(0x8000)

		assert.Equal(t, in.expectedText, text)
		assert.Equal(t, in.expectedSize, size)
	}

	t.Run("immediate", func(t *testing.T) {
		testDo(t, testArgs{program: []uint8{0xa9, 0x42}, expectedText: "LDA #$42", expectedSize: 2})
	})

	t.Run("absolute", func(t *testing.T) {
		testDo(t, testArgs{program: []uint8{0x8d, 0x00, 0x02}, expectedText: "STA $0200", expectedSize: 3})
	})

	t.Run("absolute,X", func(t *testing.T) {
		testDo(t, testArgs{program: []uint8{0xbd, 0xff, 0x20}, expectedText: "LDA $20FF,X", expectedSize: 3})
	})

	t.Run("indirect", func(t *testing.T) {
		testDo(t, testArgs{program: []uint8{0x6c, 0xff, 0x30}, expectedText: "JMP ($30FF)", expectedSize: 3})
	})

	t.Run("indirect,Y", func(t *testing.T) {
		testDo(t, testArgs{program: []uint8{0xb1, 0x86}, expectedText: "LDA ($86),Y", expectedSize: 2})
	})

	t.Run("relative", func(t *testing.T) {
		testDo(t, testArgs{program: []uint8{0xd0, 0xfe}, expectedText: "BNE $8000", expectedSize: 2})
	})

	t.Run("accumulator", func(t *testing.T) {
		testDo(t, testArgs{program: []uint8{0x0a}, expectedText: "ASL A", expectedSize: 1})
	})

	t.Run("implied", func(t *testing.T) {
		testDo(t, testArgs{program: []uint8{0xea}, expectedText: "NOP", expectedSize: 1})
	})

	t.Run("undocumented", func(t *testing.T) {
		testDo(t, testArgs{program: []uint8{0xa7, 0x10}, expectedText: "*LAX $10", expectedSize: 2})
	})

	t.Run("unknown", func(t *testing.T) {
		testDo(t, testArgs{program: []uint8{0x8b}, expectedText: "??? $8B", expectedSize: 1})
	})
}

func TestCPU_Disassemble(t *testing.T) {
	cpu := NewCPU()
	_, err := cpu.mem.Load(0x0000, []uint8{0xa9, 0x42, 0x8d, 0x00, 0x02})
	assert.NoError(t, err)

	disasm := cpu.Disassemble()

	assert.Equal(t, "$0000: LDA #$42", disasm[0x0000])
	assert.Equal(t, "$0002: STA $0200", disasm[0x0002])
	_, ok := disasm[0x0001]
	assert.False(t, ok, "operand bytes are not decoded")
}

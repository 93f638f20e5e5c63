package trace

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/nevisdale/mos6502/internal/cpu"
)

// Writer prints one nestest-style line per instruction:
//
//	C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 SP:FD CYC:7
type Writer struct {
	mu sync.Mutex
	w  io.Writer

	addr  func(a ...any) string
	bytes func(a ...any) string
	instr func(a ...any) string
	regs  func(a ...any) string
}

// New returns a Writer. Colors follow color.NoColor, which is set
// when the output is not a terminal.
func New(w io.Writer) *Writer {
	return &Writer{
		w:     w,
		addr:  color.New(color.FgYellow).SprintFunc(),
		bytes: color.New(color.FgHiBlack).SprintFunc(),
		instr: color.New(color.FgCyan).SprintFunc(),
		regs:  color.New(color.FgGreen).SprintFunc(),
	}
}

func (t *Writer) Trace(s cpu.State, text string, raw []uint8) {
	hex := make([]string, len(raw))
	for i, b := range raw {
		hex[i] = fmt.Sprintf("%02X", b)
	}

	// pad before coloring so the columns line up
	line := fmt.Sprintf("%s  %s %s %s\n",
		t.addr(fmt.Sprintf("%04X", s.PC)),
		t.bytes(fmt.Sprintf("%-9s", strings.Join(hex, " "))),
		t.instr(fmt.Sprintf("%-32s", text)),
		t.regs(Registers(s)),
	)

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.w, line)
}

// Registers formats the register part of a trace line.
func Registers(s cpu.State) string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d", s.A, s.X, s.Y, s.P, s.SP, s.TotalCycles)
}

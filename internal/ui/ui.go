package ui

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/nevisdale/mos6502/internal/mos"
)

// P - pause
// R - one step and stop
// D - refresh disassembly
// I - IRQ, N - NMI
// PgUp/PgDn - memory page

type UI struct {
	machine *mos.Machine
	budget  uint64
	disasm  map[uint16]string

	page uint8
	err  error
}

func New(machine *mos.Machine) *UI {
	return &UI{
		machine: machine,
		budget:  machine.Config().CyclesPerFrame(),
		disasm:  machine.Disassemble(),
		page:    0x02,
	}
}

func (ui *UI) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		ui.machine.TogglePause()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		ui.machine.OneStep()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		ui.disasm = ui.machine.Disassemble()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		ui.machine.IRQ()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		ui.machine.NMI()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		ui.page++
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		ui.page--
	}

	if ui.err != nil {
		return nil
	}

	budget := ui.budget
	if budget == 0 {
		// unthrottled, one tick worth of the default clock
		budget = mos.DefaultClockHz / mos.DefaultFrameRate
	}
	if err := ui.machine.RunFrame(budget); err != nil {
		log.Printf("machine stopped: %s\n", err)
		ui.err = err
		if !ui.machine.Paused() {
			ui.machine.TogglePause()
		}
	}
	return nil
}

func (ui *UI) Draw(screen *ebiten.Image) {
	info := ui.machine.State()

	var infoStr strings.Builder
	fmt.Fprintf(&infoStr, " FPS: %0.0f\n", ebiten.ActualFPS())
	fmt.Fprintf(&infoStr, " STATUS: %s\n", info.StatusString())
	fmt.Fprintf(&infoStr, " PC: %04X\n", info.PC)
	fmt.Fprintf(&infoStr, " A: $%02X [%03d]", info.A, info.A)
	fmt.Fprintf(&infoStr, " X: $%02X [%03d]", info.X, info.X)
	fmt.Fprintf(&infoStr, " Y: $%02X [%03d]\n", info.Y, info.Y)
	fmt.Fprintf(&infoStr, " SP: $%02X\n", info.SP)
	fmt.Fprintf(&infoStr, " CYC: %d\n", info.TotalCycles)
	if ui.machine.Paused() {
		infoStr.WriteString(" PAUSED\n")
	}
	if ui.err != nil {
		fmt.Fprintf(&infoStr, " %s\n", ui.err)
	}
	infoStr.WriteString("\n")

	for _, line := range disasmAround(ui.disasm, info.PC, disasmLines) {
		infoStr.WriteString(line + "\n")
	}

	vector.DrawFilledRect(screen, 0, 0, debugScreenWidth, screenHeight, color.RGBA{50, 50, 50, 255}, false)
	ebitenutil.DebugPrintAt(screen, infoStr.String(), 0, 0)

	ebitenutil.DebugPrintAt(screen, hexDump(ui.page, ui.machine.MemoryPage(ui.page)), debugScreenWidth+10, 0)
}

const (
	disasmLines = 7

	debugScreenWidth = 286
	memScreenWidth   = 340
	screenHeight     = 480
)

func (ui *UI) Layout(_, _ int) (int, int) {
	return debugScreenWidth + memScreenWidth, screenHeight
}

// disasmAround returns up to n decoded instructions before pc, the one at
// pc marked with '*', and up to n after it.
func disasmAround(disasm map[uint16]string, pc uint16, n int) []string {
	var before []string
	for addr := int(pc) - 1; addr >= 0 && len(before) < n; addr-- {
		if line, ok := disasm[uint16(addr)]; ok {
			before = append(before, " "+line)
		}
	}

	lines := make([]string, 0, 2*n+1)
	for i := len(before) - 1; i >= 0; i-- {
		lines = append(lines, before[i])
	}

	current, ok := disasm[pc]
	if !ok {
		current = fmt.Sprintf("$%04X: ???", pc)
	}
	lines = append(lines, "*"+current)

	for addr, after := int(pc)+1, 0; addr <= 0xffff && after < n; addr++ {
		if line, ok := disasm[uint16(addr)]; ok {
			lines = append(lines, " "+line)
			after++
		}
	}
	return lines
}

// hexDump formats a 256-byte page as 16 rows of 16 bytes.
func hexDump(page uint8, data []uint8) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, " PAGE $%02X\n", page)
	for row := 0; row < len(data); row += 16 {
		fmt.Fprintf(&sb, " %04X:", int(page)<<8|row)
		for _, b := range data[row:min(row+16, len(data))] {
			fmt.Fprintf(&sb, " %02X", b)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func RunUI(ui *UI) error {
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	screenSizeX, screenSizeY := debugScreenWidth+memScreenWidth, screenHeight
	screenSizeX *= 2
	screenSizeY *= 2
	ebiten.SetWindowSize(screenSizeX, screenSizeY)
	ebiten.SetWindowTitle("mos6502")
	tps := int(ui.machine.Config().FrameRate)
	if tps == 0 {
		tps = mos.DefaultFrameRate
	}
	ebiten.SetTPS(tps)
	return ebiten.RunGame(ui)
}

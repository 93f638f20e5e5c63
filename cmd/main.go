package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/nevisdale/mos6502/internal/mos"
	"github.com/nevisdale/mos6502/internal/rom"
	"github.com/nevisdale/mos6502/internal/statsview"
	"github.com/nevisdale/mos6502/internal/trace"
	"github.com/nevisdale/mos6502/internal/ui"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%s\n", err)
	}
}

func run() error {
	var (
		romPath      = flag.String("rom", "", "path to the program (required)")
		format       = flag.String("format", "", "raw or ines, guessed from the extension when empty")
		origin       = flag.String("origin", "8000", "load address of a raw image, hex")
		reset        = flag.String("reset", "", "start address overriding the reset vector, hex")
		clock        = flag.Uint64("clock", mos.DefaultClockHz, "clock in Hz, 0 runs unthrottled")
		fps          = flag.Uint64("fps", mos.DefaultFrameRate, "timing windows per second")
		noUnofficial = flag.Bool("no-unofficial", false, "treat undocumented opcodes as unimplemented")
		noDecimal    = flag.Bool("no-decimal", false, "ignore the D flag in ADC and SBC (2A03)")
		traceOut     = flag.String("trace", "", "write an execution trace to a file, - for stdout")
		withUI       = flag.Bool("ui", false, "open the debug monitor")
		profileMode  = flag.String("profile", "", "cpu or mem")
		withStats    = flag.Bool("statsview", false, "serve runtime statistics on "+statsview.Address)
		maxCycles    = flag.Uint64("max-cycles", 0, "stop after this many cycles, 0 is no limit")
	)
	flag.Parse()

	if *romPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		return errors.Errorf("unknown profile mode: %s", *profileMode)
	}

	if *withStats {
		statsview.Launch(os.Stderr)
	}

	cfg := mos.DefaultConfig()
	cfg.ClockHz = *clock
	cfg.FrameRate = *fps
	cfg.MaxCycles = *maxCycles
	cfg.Unofficial = !*noUnofficial
	cfg.Decimal = !*noDecimal

	if *traceOut != "" {
		out := os.Stdout
		if *traceOut != "-" {
			f, err := os.Create(*traceOut)
			if err != nil {
				return errors.Wrap(err, "couldn't create trace file")
			}
			defer f.Close()
			out = f
		}
		color.NoColor = !term.IsTerminal(int(out.Fd()))
		cfg.Tracer = trace.New(out)
	}

	loader, err := newLoader(*romPath, *format, *origin)
	if err != nil {
		return errors.Wrap(err, "couldn't open ROM")
	}

	machine := mos.New(cfg)
	if err := machine.LoadROM(loader); err != nil {
		return err
	}
	if *reset != "" {
		pc, err := parseAddr(*reset)
		if err != nil {
			return errors.Wrap(err, "invalid -reset")
		}
		machine.SetPC(pc)
	}

	if *withUI {
		return errors.Wrap(ui.RunUI(ui.New(machine)), "ui")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = machine.Run(ctx)
	s := machine.State()
	log.Printf("PC:%04X %s %s\n", s.PC, s.StatusString(), trace.Registers(s))
	if errors.Is(err, mos.ErrMaxCycles) {
		return nil
	}
	return err
}

func newLoader(path, format, origin string) (mos.Loader, error) {
	if format == "" {
		format = "raw"
		if strings.EqualFold(filepath.Ext(path), ".nes") {
			format = "ines"
		}
	}

	switch format {
	case "ines":
		cart, err := rom.NewCartFromFile(path)
		if err != nil {
			return nil, err
		}
		log.Printf("iNES: mapper %d, PRG %dx16K, CHR %dx8K, %s mirroring\n",
			cart.MapperID(), cart.PRGBanks(), cart.CHRBanks(), cart.Mirroring())
		return cart, nil

	case "raw":
		addr, err := parseAddr(origin)
		if err != nil {
			return nil, errors.Wrap(err, "invalid -origin")
		}
		img, err := rom.NewImageFromFile(path, addr)
		if err != nil {
			return nil, err
		}
		// images that do not carry their own vectors start at the origin
		img.ResetVector = int(addr)+len(img.Data) <= 0xfffc
		return img, nil
	}
	return nil, errors.Errorf("unknown format %q", format)
}

// parseAddr accepts C000, $C000 and 0xC000.
func parseAddr(s string) (uint16, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

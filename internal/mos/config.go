package mos

import "github.com/nevisdale/mos6502/internal/cpu"

const (
	// NTSC 2A03 clock
	DefaultClockHz   = 1789773
	DefaultFrameRate = 60

	// steps between context checks when running unthrottled
	unthrottledBatch = 10000
)

type Config struct {
	// ClockHz is the emulated clock. Zero runs as fast as the host allows.
	ClockHz uint64
	// FrameRate is how many timing windows the pacer runs per second.
	FrameRate uint64
	// MaxCycles stops Run once the CPU has spent that many cycles. Zero is no limit.
	MaxCycles uint64

	Unofficial bool
	Decimal    bool

	// Tracer, if set, sees every instruction before it executes.
	Tracer Tracer
}

func DefaultConfig() Config {
	return Config{
		ClockHz:    DefaultClockHz,
		FrameRate:  DefaultFrameRate,
		Unofficial: true,
		Decimal:    true,
	}
}

// CyclesPerFrame is the cycle budget of one timing window.
func (c Config) CyclesPerFrame() uint64 {
	if c.ClockHz == 0 {
		return 0
	}
	rate := c.FrameRate
	if rate == 0 {
		rate = DefaultFrameRate
	}
	return max(1, c.ClockHz/rate)
}

func (c Config) cpuOptions() []cpu.Option {
	return []cpu.Option{
		cpu.WithUnofficialOpcodes(c.Unofficial),
		cpu.WithDecimalMode(c.Decimal),
	}
}

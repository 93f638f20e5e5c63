package mos

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nevisdale/mos6502/internal/cpu"
	"github.com/nevisdale/mos6502/internal/mem"
	"github.com/pkg/errors"
)

var (
	ErrMaxCycles = errors.New("maximum cycles reached")
	ErrRunning   = errors.New("machine is already running")
)

// Loader places a program into memory before the first step.
type Loader interface {
	LoadROM(m *mem.Memory) error
}

// Tracer receives the CPU state and the decoded instruction
// right before the instruction executes.
type Tracer interface {
	Trace(s cpu.State, text string, raw []uint8)
}

// Machine owns a CPU and its memory and drives it.
// All methods are safe for concurrent use.
type Machine struct {
	cfg Config

	// guards cpu, one whole instruction at a time
	mu  sync.Mutex
	cpu *cpu.CPU

	running atomic.Bool
	paused  atomic.Bool
	oneStep atomic.Bool

	// set while Run is in progress
	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// New creates a machine and powers it up.
func New(cfg Config) *Machine {
	c := cpu.NewCPU(cfg.cpuOptions()...)
	c.PowerUp()
	return &Machine{
		cfg: cfg,
		cpu: c,
	}
}

func (m *Machine) Config() Config {
	return m.cfg
}

// LoadROM runs the loader against memory and resets the CPU,
// so PC comes from the reset vector the ROM provides.
func (m *Machine) LoadROM(l Loader) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := l.LoadROM(m.cpu.Memory()); err != nil {
		return errors.Wrap(err, "couldn't load ROM")
	}
	m.cpu.Reset()
	return nil
}

func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cpu.Reset()
}

// SetPC starts execution somewhere other than the reset vector.
func (m *Machine) SetPC(pc uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cpu.SetPC(pc)
}

func (m *Machine) IRQ() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cpu.IRQ()
}

func (m *Machine) NMI() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cpu.NMI()
}

// Step executes one instruction.
func (m *Machine) Step() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step()
}

func (m *Machine) step() error {
	if m.cfg.Tracer != nil {
		m.trace()
	}

	wasHalted := m.cpu.Halted()
	if err := m.cpu.Step(); err != nil {
		if !wasHalted {
			log.Printf("cpu stopped: %s\n", err)
		}
		return err
	}

	if limit := m.cfg.MaxCycles; limit > 0 && m.cpu.TotalCycles() >= limit {
		return errors.Wrapf(ErrMaxCycles, "%d cycles", m.cpu.TotalCycles())
	}
	return nil
}

func (m *Machine) trace() {
	s := m.cpu.State()
	text, size := m.cpu.DisassembleAt(s.PC)
	raw := make([]uint8, size)
	for i := range raw {
		raw[i] = m.cpu.Memory().Read8(s.PC + uint16(i))
	}
	m.cfg.Tracer.Trace(s, text, raw)
}

// RunFrame steps until the current timing window holds budget cycles,
// then starts a new window. While paused it executes at most the single
// step requested by OneStep.
func (m *Machine) RunFrame(budget uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.paused.Load() {
		if !m.oneStep.CompareAndSwap(true, false) {
			return nil
		}
		return m.step()
	}

	for m.cpu.Cycles() < budget {
		if err := m.step(); err != nil {
			return err
		}
	}
	m.cpu.ResetCycles()
	return nil
}

// Run executes until ctx is done, Stop is called or the CPU reports an
// error. With a clock set, each tick of the pacer runs one window of
// ClockHz/FrameRate cycles.
func (m *Machine) Run(ctx context.Context) error {
	m.cancelMu.Lock()
	if m.cancel != nil {
		m.cancelMu.Unlock()
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running.Store(true)
	m.cancelMu.Unlock()

	defer func() {
		m.cancelMu.Lock()
		m.cancel = nil
		m.running.Store(false)
		m.cancelMu.Unlock()
		cancel()
	}()

	budget := m.cfg.CyclesPerFrame()
	if budget == 0 {
		return m.runUnthrottled(ctx)
	}

	rate := m.cfg.FrameRate
	if rate == 0 {
		rate = DefaultFrameRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		if err := m.RunFrame(budget); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Machine) runUnthrottled(ctx context.Context) error {
	for ctx.Err() == nil {
		if m.paused.Load() {
			// RunFrame handles the single step while paused
			if err := m.RunFrame(0); err != nil {
				return err
			}
			time.Sleep(time.Millisecond)
			continue
		}
		if err := m.steps(unthrottledBatch); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) steps(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		if err := m.step(); err != nil {
			return err
		}
	}
	return nil
}

// Stop ends a Run in progress.
func (m *Machine) Stop() {
	m.cancelMu.Lock()
	defer m.cancelMu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Machine) Running() bool {
	return m.running.Load()
}

func (m *Machine) TogglePause() {
	for {
		p := m.paused.Load()
		if m.paused.CompareAndSwap(p, !p) {
			return
		}
	}
}

func (m *Machine) Paused() bool {
	return m.paused.Load()
}

// OneStep pauses the machine and lets exactly one instruction run.
func (m *Machine) OneStep() {
	m.paused.Store(true)
	m.oneStep.Store(true)
}

func (m *Machine) State() cpu.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cpu.State()
}

func (m *Machine) Disassemble() map[uint16]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cpu.Disassemble()
}

func (m *Machine) MemoryPage(n uint8) []uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cpu.Memory().Page(n)
}

package mos

import (
	"context"
	"testing"
	"time"

	"github.com/nevisdale/mos6502/internal/cpu"
	"github.com/nevisdale/mos6502/internal/mem"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type loaderMock struct {
	mock.Mock
}

func (l *loaderMock) LoadROM(m *mem.Memory) error {
	args := l.Called(m)
	return args.Error(0)
}

type tracerMock struct {
	mock.Mock
}

func (t *tracerMock) Trace(s cpu.State, text string, raw []uint8) {
	t.Called(s, text, raw)
}

// programLoader writes program at origin and points the reset vector at it.
func programLoader(origin uint16, program ...uint8) *loaderMock {
	l := new(loaderMock)
	l.On("LoadROM", mock.AnythingOfType("*mem.Memory")).
		Run(func(args mock.Arguments) {
			m := args.Get(0).(*mem.Memory)
			_, _ = m.Load(origin, program)
			m.Write16(0xfffc, origin)
		}).
		Return(nil)
	return l
}

func Test_MachineLoadROM(t *testing.T) {
	t.Run("resets to the loaded vector", func(t *testing.T) {
		m := New(DefaultConfig())
		l := programLoader(0x8000, 0xea)

		require.NoError(t, m.LoadROM(l))

		s := m.State()
		assert.Equal(t, uint16(0x8000), s.PC)
		assert.Equal(t, uint64(7), s.TotalCycles)
		l.AssertExpectations(t)
	})

	t.Run("loader error is reported", func(t *testing.T) {
		loadErr := errors.New("bad image")
		l := new(loaderMock)
		l.On("LoadROM", mock.Anything).Return(loadErr)

		m := New(DefaultConfig())
		err := m.LoadROM(l)

		assert.True(t, errors.Is(err, loadErr), "got %v", err)
		assert.Equal(t, uint16(0), m.State().PC)
		l.AssertExpectations(t)
	})
}

func Test_MachineStep(t *testing.T) {
	m := New(DefaultConfig())
	require.NoError(t, m.LoadROM(programLoader(0x8000,
		0xa9, 0x42, // LDA #$42
		0x8d, 0x00, 0x02, // STA $0200
		0xf0, 0x05, // BEQ +5
	)))

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Step())
	}

	s := m.State()
	assert.Equal(t, uint8(0x42), s.A)
	assert.Equal(t, uint8(0x42), m.MemoryPage(0x02)[0x00])
	assert.Equal(t, uint16(0x8007), s.PC)
	assert.Equal(t, uint64(15), s.TotalCycles)
}

func Test_MachineTracer(t *testing.T) {
	tr := new(tracerMock)
	tr.On("Trace", mock.MatchedBy(func(s cpu.State) bool {
		return s.PC == 0x8000 && s.TotalCycles == 7
	}), "LDA #$42", []uint8{0xa9, 0x42}).Return().Once()

	cfg := DefaultConfig()
	cfg.Tracer = tr
	m := New(cfg)
	require.NoError(t, m.LoadROM(programLoader(0x8000, 0xa9, 0x42)))

	require.NoError(t, m.Step())
	tr.AssertExpectations(t)
}

func Test_MachineRunFrame(t *testing.T) {
	t.Run("stops at the budget", func(t *testing.T) {
		m := New(DefaultConfig())
		// JMP $8000
		require.NoError(t, m.LoadROM(programLoader(0x8000, 0x4c, 0x00, 0x80)))

		require.NoError(t, m.RunFrame(100))

		// 7 reset cycles and 3 per JMP, the window is restarted afterwards
		assert.Equal(t, uint64(7+31*3), m.State().TotalCycles)
		assert.Equal(t, uint64(0), m.State().Cycles)
	})

	t.Run("paused runs only the requested step", func(t *testing.T) {
		m := New(DefaultConfig())
		require.NoError(t, m.LoadROM(programLoader(0x8000, 0xea, 0xea, 0xea)))

		m.TogglePause()
		require.True(t, m.Paused())
		require.NoError(t, m.RunFrame(100))
		assert.Equal(t, uint16(0x8000), m.State().PC)

		m.OneStep()
		require.NoError(t, m.RunFrame(100))
		require.NoError(t, m.RunFrame(100))
		assert.Equal(t, uint16(0x8001), m.State().PC)

		m.TogglePause()
		assert.False(t, m.Paused())
	})

	t.Run("error stops the frame", func(t *testing.T) {
		m := New(DefaultConfig())
		require.NoError(t, m.LoadROM(programLoader(0x8000, 0xea, 0x02)))

		err := m.RunFrame(100)

		assert.True(t, errors.Is(err, cpu.ErrHalted), "got %v", err)
		assert.Equal(t, uint16(0x8001), m.State().PC)
		assert.True(t, m.State().Halted)
	})
}

func Test_MachineRun(t *testing.T) {
	t.Run("unimplemented opcode ends the run", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ClockHz = 0
		m := New(cfg)
		require.NoError(t, m.LoadROM(programLoader(0x8000, 0xea, 0xea, 0x8b)))

		err := m.Run(context.Background())

		var opErr *cpu.UnimplementedOpcodeError
		require.True(t, errors.As(err, &opErr), "got %v", err)
		assert.Equal(t, uint16(0x8002), opErr.PC)
		assert.False(t, m.Running())
	})

	t.Run("max cycles", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ClockHz = 0
		cfg.MaxCycles = 1000
		m := New(cfg)
		require.NoError(t, m.LoadROM(programLoader(0x8000, 0x4c, 0x00, 0x80)))

		err := m.Run(context.Background())

		assert.True(t, errors.Is(err, ErrMaxCycles), "got %v", err)
		assert.GreaterOrEqual(t, m.State().TotalCycles, uint64(1000))
	})

	t.Run("stop", func(t *testing.T) {
		m := New(DefaultConfig())
		require.NoError(t, m.LoadROM(programLoader(0x8000, 0x4c, 0x00, 0x80)))

		done := make(chan error)
		go func() {
			done <- m.Run(context.Background())
		}()

		assert.Eventually(t, m.Running, time.Second, time.Millisecond)
		m.Stop()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Run did not return after Stop")
		}
		assert.False(t, m.Running())
		assert.Greater(t, m.State().TotalCycles, uint64(7))
	})

	t.Run("context cancel", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ClockHz = 0
		m := New(cfg)
		require.NoError(t, m.LoadROM(programLoader(0x8000, 0x4c, 0x00, 0x80)))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		assert.NoError(t, m.Run(ctx))
	})
}

func Test_ConfigCyclesPerFrame(t *testing.T) {
	assert.Equal(t, uint64(29829), DefaultConfig().CyclesPerFrame())
	assert.Equal(t, uint64(0), Config{}.CyclesPerFrame())
	assert.Equal(t, uint64(1000/DefaultFrameRate), Config{ClockHz: 1000}.CyclesPerFrame())
}

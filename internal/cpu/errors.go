package cpu

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrHalted is returned by Step once the processor has stopped,
// either by executing a JAM opcode or by hitting an unimplemented one.
var ErrHalted = errors.New("cpu is halted")

// UnimplementedOpcodeError reports an opcode the core does not emulate.
// The CPU halts with PC left on the opcode.
type UnimplementedOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode %02X at PC %04X", e.Opcode, e.PC)
}

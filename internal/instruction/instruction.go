// Package instruction contains the closed set of CPU instructions that can be
// encoded into an image, their opcodes and their byte encodings.
package instruction

import (
	"errors"
	"fmt"
)

// Opcodes of the supported instructions.
const (
	OpcodeLoadAccumulator = 0x37
	OpcodeOutput          = 0xD3
	OpcodeJump            = 0xC3
	OpcodeHalt            = 0x76
)

// ErrOperandRange is returned when an operand does not fit the width of the
// instruction parameter.
var ErrOperandRange = errors.New("operand out of range")

// Compile-time checks to ensure all variants implement Instruction.
var (
	_ Instruction = LoadAccumulatorImmediate{}
	_ Instruction = OutputToPort{}
	_ Instruction = JumpAbsolute{}
	_ Instruction = Halt{}
)

// Instruction represents a CPU instruction with a fixed byte encoding.
type Instruction interface {
	// Encode returns the exact bytes of the instruction.
	Encode() []byte
	// Name returns the instruction mnemonic.
	Name() string
	// Size returns the encoded length in bytes.
	Size() int
	// String returns the instruction in assembly notation.
	String() string

	isInstruction()
}

// LoadAccumulatorImmediate loads an immediate byte into the accumulator.
type LoadAccumulatorImmediate struct {
	Value uint8
}

// OutputToPort writes the accumulator to the given port.
type OutputToPort struct {
	Port uint8
}

// JumpAbsolute continues execution at the given address.
type JumpAbsolute struct {
	Address uint16
}

// Halt stops the CPU.
type Halt struct{}

// NewLoadAccumulatorImmediate returns a load instruction for the given value,
// which has to fit into a byte.
func NewLoadAccumulatorImmediate(value int) (LoadAccumulatorImmediate, error) {
	b, err := byteOperand("value", value)
	if err != nil {
		return LoadAccumulatorImmediate{}, err
	}
	return LoadAccumulatorImmediate{Value: b}, nil
}

// NewOutputToPort returns an output instruction for the given port, which has
// to fit into a byte.
func NewOutputToPort(port int) (OutputToPort, error) {
	b, err := byteOperand("port", port)
	if err != nil {
		return OutputToPort{}, err
	}
	return OutputToPort{Port: b}, nil
}

// NewJumpAbsolute returns a jump instruction for the given address, which has
// to be in the range 0-65535.
func NewJumpAbsolute(address int) (JumpAbsolute, error) {
	if address < 0 || address > 0xFFFF {
		return JumpAbsolute{}, fmt.Errorf("address %d: %w", address, ErrOperandRange)
	}
	return JumpAbsolute{Address: uint16(address)}, nil
}

func byteOperand(name string, n int) (uint8, error) {
	if n < 0 || n > 0xFF {
		return 0, fmt.Errorf("%s %d: %w", name, n, ErrOperandRange)
	}
	return uint8(n), nil
}

// Encode returns the opcode followed by the value.
func (i LoadAccumulatorImmediate) Encode() []byte {
	return []byte{OpcodeLoadAccumulator, i.Value}
}

// Name returns the instruction mnemonic.
func (i LoadAccumulatorImmediate) Name() string { return "lda" }

// Size returns the encoded length in bytes.
func (i LoadAccumulatorImmediate) Size() int { return 2 }

func (i LoadAccumulatorImmediate) String() string {
	return fmt.Sprintf("lda #$%02X", i.Value)
}

func (LoadAccumulatorImmediate) isInstruction() {}

// Encode returns the opcode followed by the port.
func (i OutputToPort) Encode() []byte {
	return []byte{OpcodeOutput, i.Port}
}

// Name returns the instruction mnemonic.
func (i OutputToPort) Name() string { return "out" }

// Size returns the encoded length in bytes.
func (i OutputToPort) Size() int { return 2 }

func (i OutputToPort) String() string {
	return fmt.Sprintf("out ($%02X),a", i.Port)
}

func (OutputToPort) isInstruction() {}

// Encode returns the opcode followed by the address in little-endian order.
func (i JumpAbsolute) Encode() []byte {
	return []byte{OpcodeJump, uint8(i.Address & 0xFF), uint8(i.Address >> 8)}
}

// Name returns the instruction mnemonic.
func (i JumpAbsolute) Name() string { return "jp" }

// Size returns the encoded length in bytes.
func (i JumpAbsolute) Size() int { return 3 }

func (i JumpAbsolute) String() string {
	return fmt.Sprintf("jp $%04X", i.Address)
}

func (JumpAbsolute) isInstruction() {}

// Encode returns the single opcode byte.
func (Halt) Encode() []byte {
	return []byte{OpcodeHalt}
}

// Name returns the instruction mnemonic.
func (Halt) Name() string { return "hlt" }

// Size returns the encoded length in bytes.
func (Halt) Size() int { return 1 }

func (Halt) String() string { return "hlt" }

func (Halt) isInstruction() {}

// Package image implements the fixed capacity image buffer that instructions
// get encoded into.
//
// A Buffer is owned by a single writer at a time, it is not safe for
// concurrent use.
package image

import (
	"errors"
	"fmt"

	"github.com/retroenv/bootimg/internal/instruction"
)

// SectorSize is the size of a disk sector and of the boot ROM in bytes.
const SectorSize = 128

// MaxSectors limits an image to the 64 KiB address space of the CPU.
const MaxSectors = 0x10000 / SectorSize

var (
	// ErrCapacity is returned for a capacity that is not a positive multiple of
	// SectorSize or that exceeds MaxSectors.
	ErrCapacity = errors.New("capacity is not a positive multiple of the sector size")
	// ErrOverflow is returned when an instruction does not fit into the remaining buffer.
	ErrOverflow = errors.New("image buffer overflow")
)

// Entry records an instruction that was emitted at an offset of the buffer.
type Entry struct {
	Offset      int
	Instruction instruction.Instruction
}

// Buffer is an append only image of one or more sectors.
type Buffer struct {
	data    []byte
	cursor  int
	entries []Entry
	err     error // first overflow, sticky until Reset
}

// New returns a zero filled buffer of the given capacity.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 || capacity%SectorSize != 0 || capacity > MaxSectors*SectorSize {
		return nil, fmt.Errorf("capacity %d: %w", capacity, ErrCapacity)
	}
	return &Buffer{
		data: make([]byte, capacity),
	}, nil
}

// NewSectors returns a zero filled buffer of the given number of sectors.
func NewSectors(sectors int) (*Buffer, error) {
	if sectors <= 0 || sectors > MaxSectors {
		return nil, fmt.Errorf("%d sectors: %w", sectors, ErrCapacity)
	}
	return New(sectors * SectorSize)
}

// Reset zeroes the buffer, moves the cursor to the start and clears a
// previous overflow.
func (b *Buffer) Reset() {
	for i := range b.data {
		b.data[i] = 0
	}
	b.cursor = 0
	b.entries = nil
	b.err = nil
}

// Emit appends the encoding of the instruction at the cursor. If the
// instruction does not fit completely, nothing is written and ErrOverflow is
// returned. After an overflow every further call returns the same error
// until Reset is called.
func (b *Buffer) Emit(ins instruction.Instruction) error {
	if b.err != nil {
		return b.err
	}

	data := ins.Encode()
	// the last byte of the instruction has to fit, partial writes are never committed
	if b.cursor+len(data) > len(b.data) {
		b.err = fmt.Errorf("writing '%s' at offset %d into %d byte image: %w",
			ins, b.cursor, len(b.data), ErrOverflow)
		return b.err
	}

	b.entries = append(b.entries, Entry{Offset: b.cursor, Instruction: ins})
	b.cursor += copy(b.data[b.cursor:], data)
	return nil
}

// LoadAccumulatorImmediate appends a load of the value into the accumulator.
func (b *Buffer) LoadAccumulatorImmediate(value int) error {
	ins, err := instruction.NewLoadAccumulatorImmediate(value)
	if err != nil {
		return err
	}
	return b.Emit(ins)
}

// OutputToPort appends an output of the accumulator to the port.
func (b *Buffer) OutputToPort(port int) error {
	ins, err := instruction.NewOutputToPort(port)
	if err != nil {
		return err
	}
	return b.Emit(ins)
}

// JumpAbsolute appends a jump to the address.
func (b *Buffer) JumpAbsolute(address int) error {
	ins, err := instruction.NewJumpAbsolute(address)
	if err != nil {
		return err
	}
	return b.Emit(ins)
}

// Halt appends a halt instruction.
func (b *Buffer) Halt() error {
	return b.Emit(instruction.Halt{})
}

// Bytes returns the full image, its length always equals the capacity.
// The returned slice must not be modified.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Capacity returns the fixed size of the image in bytes.
func (b *Buffer) Capacity() int {
	return len(b.data)
}

// Cursor returns the offset the next instruction gets written to.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Remaining returns the number of bytes that can still be written.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.cursor
}

// Exhausted returns whether no further byte can be appended.
func (b *Buffer) Exhausted() bool {
	return b.cursor == len(b.data)
}

// Err returns the overflow error that terminated the current build, if any.
func (b *Buffer) Err() error {
	return b.err
}

// Entries returns the emitted instructions in program order.
func (b *Buffer) Entries() []Entry {
	return b.entries
}

package programs

import (
	"fmt"

	"github.com/retroenv/bootimg/internal/image"
	"github.com/retroenv/bootimg/internal/ports"
)

const (
	greeting = "Hello, world!\n"
	banner   = "Bleep firmware v0.1\n\n"
)

// step is a single port write of a disk controller sequence.
type step struct {
	value int
	port  int
}

func helloWorld(buf *image.Buffer) error {
	if err := Print(buf, greeting, ports.ConOut); err != nil {
		return err
	}
	return buf.Halt()
}

func diskBoot(buf *image.Buffer) error {
	if err := setupTransfer(buf, LoadAddress); err != nil {
		return err
	}
	steps := []step{
		{ports.ADiskOpSeek, ports.ADiskOp},
		{ports.ADiskOpRead, ports.ADiskOp},
	}
	if err := writeSteps(buf, steps); err != nil {
		return err
	}
	return buf.JumpAbsolute(LoadAddress)
}

func firmware(buf *image.Buffer) error {
	if err := Print(buf, banner, ports.ConOut); err != nil {
		return err
	}
	if err := setupTransfer(buf, LoadAddress); err != nil {
		return err
	}
	steps := []step{
		{ports.ADiskOpClear, ports.ADiskOp},
		{ports.ADiskOpSeek, ports.ADiskOp},
		{ports.ADiskOpClear, ports.ADiskOp},
		{ports.ADiskOpRead, ports.ADiskOp},
	}
	if err := writeSteps(buf, steps); err != nil {
		return err
	}
	return buf.JumpAbsolute(LoadAddress)
}

// setupTransfer selects head, track and sector 0 of drive A and sets the DMA
// address. The low byte of the address is written together with the zero
// geometry values, so it has to be 0.
func setupTransfer(buf *image.Buffer, address int) error {
	if address&0xFF != 0 {
		return fmt.Errorf("address $%04X: %w", address, ErrUnalignedDMA)
	}

	if err := buf.LoadAccumulatorImmediate(0); err != nil {
		return err
	}
	for _, port := range []int{ports.ASetHead, ports.ASetTrack, ports.ASetSector, ports.ASetDMALow} {
		if err := buf.OutputToPort(port); err != nil {
			return err
		}
	}
	return writeSteps(buf, []step{{address >> 8, ports.ASetDMAHigh}})
}

func writeSteps(buf *image.Buffer, steps []step) error {
	for _, s := range steps {
		if err := buf.LoadAccumulatorImmediate(s.value); err != nil {
			return err
		}
		if err := buf.OutputToPort(s.port); err != nil {
			return err
		}
	}
	return nil
}

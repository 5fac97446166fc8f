// Package ports contains the I/O port numbers and command codes of the
// emulated console and disk controller.
package ports

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Console output port.
const ConOut = 0x00

// Drive A output ports.
const (
	ASetHead    = 0x10
	ASetTrack   = 0x11
	ASetSector  = 0x12
	ASetDMALow  = 0x13
	ASetDMAHigh = 0x14
	ADiskOp     = 0x15
)

// Commands for the ADiskOp port.
const (
	ADiskOpSeek  = 0x00
	ADiskOpRead  = 0x01
	ADiskOpWrite = 0x02
	ADiskOpClear = 0x03
)

// Drive A input port.
const ADiskStatus = 0x10

// Drive A status codes, error codes are negative.
const (
	ADiskOK    = 0x00
	ADiskReady = 0x01
)

// ErrUnknownName is returned when a symbolic name is not defined.
var ErrUnknownName = errors.New("unknown symbolic name")

// symbols maps the names usable in image recipes to their values.
var symbols = map[string]uint8{
	"CON_OUT": ConOut,

	"A_SET_HEAD":     ASetHead,
	"A_SET_TRACK":    ASetTrack,
	"A_SET_SECTOR":   ASetSector,
	"A_SET_DMA_LOW":  ASetDMALow,
	"A_SET_DMA_HIGH": ASetDMAHigh,
	"A_DISK_OP":      ADiskOp,

	"A_DISK_OP_SEEK":  ADiskOpSeek,
	"A_DISK_OP_READ":  ADiskOpRead,
	"A_DISK_OP_WRITE": ADiskOpWrite,
	"A_DISK_OP_CLEAR": ADiskOpClear,

	"A_DISK_STATUS": ADiskStatus,
	"A_DISK_OK":     ADiskOK,
	"A_DISK_READY":  ADiskReady,
}

// Lookup returns the value of a symbolic name, names are case insensitive.
func Lookup(name string) (uint8, error) {
	value, ok := symbols[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("'%s': %w", name, ErrUnknownName)
	}
	return value, nil
}

// Names returns all symbolic names in sorted order.
func Names() []string {
	names := maps.Keys(symbols)
	slices.Sort(names)
	return names
}

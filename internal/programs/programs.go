// Package programs contains the built-in image programs. A program is a
// linear call sequence into an image buffer together with the name of the
// file that the image gets persisted to.
package programs

import (
	"errors"
	"fmt"

	"github.com/retroenv/bootimg/internal/image"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Output file names used by the emulated machine.
const (
	ROMFile  = "rom.bin"
	DiskFile = "a_drive.bin"
)

// LoadAddress is the address the boot ROM loads the first disk sector to.
const LoadAddress = 0x100

var (
	// ErrUnknownProgram is returned for a program name that is not registered.
	ErrUnknownProgram = errors.New("unknown program")
	// ErrUnalignedDMA is returned for a DMA address with a low byte other than 0.
	ErrUnalignedDMA = errors.New("DMA address is not page aligned")
)

// BuildFunc encodes the instructions of a program into the buffer.
type BuildFunc func(buf *image.Buffer) error

// Program describes an image and how to build it.
type Program struct {
	Name        string
	Description string
	Output      string // file name the image is written to
	Sectors     int
	Origin      uint16 // address the image is executed at
	Build       BuildFunc
}

// NewBuffer returns a buffer sized for the program.
func (p Program) NewBuffer() (*image.Buffer, error) {
	buf, err := image.NewSectors(p.Sectors)
	if err != nil {
		return nil, fmt.Errorf("creating buffer for '%s': %w", p.Name, err)
	}
	return buf, nil
}

// Run resets the buffer and builds the program into it.
func (p Program) Run(buf *image.Buffer) error {
	buf.Reset()
	if err := p.Build(buf); err != nil {
		return fmt.Errorf("building '%s': %w", p.Name, err)
	}
	return nil
}

var registry = map[string]Program{}

func register(p Program) {
	registry[p.Name] = p
}

func init() {
	register(Program{
		Name:        "hello-rom",
		Description: "boot ROM that prints a greeting and halts",
		Output:      ROMFile,
		Sectors:     1,
		Build:       helloWorld,
	})
	register(Program{
		Name:        "disk-boot-rom",
		Description: "boot ROM that loads the first disk sector to $0100 and jumps to it",
		Output:      ROMFile,
		Sectors:     1,
		Build:       diskBoot,
	})
	register(Program{
		Name:        "hello-disk",
		Description: "boot sector that prints a greeting and halts",
		Output:      DiskFile,
		Sectors:     1,
		Origin:      LoadAddress,
		Build:       helloWorld,
	})
	register(Program{
		Name:        "firmware-rom",
		Description: "firmware ROM that prints a banner and boots from drive A",
		Output:      ROMFile,
		Sectors:     1,
		Build:       firmware,
	})
}

// Get returns the registered program of the given name.
func Get(name string) (Program, error) {
	p, ok := registry[name]
	if !ok {
		return Program{}, fmt.Errorf("'%s': %w", name, ErrUnknownProgram)
	}
	return p, nil
}

// Names returns the names of all registered programs in sorted order.
func Names() []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}

// Print emits a load and output pair for every byte of the text.
func Print(buf *image.Buffer, text string, port int) error {
	for i := 0; i < len(text); i++ {
		if err := buf.LoadAccumulatorImmediate(int(text[i])); err != nil {
			return err
		}
		if err := buf.OutputToPort(port); err != nil {
			return err
		}
	}
	return nil
}

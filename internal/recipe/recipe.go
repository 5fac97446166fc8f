// Package recipe loads declarative image recipes from TOML files.
package recipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/retroenv/bootimg/internal/image"
	"github.com/retroenv/bootimg/internal/instruction"
	"github.com/retroenv/bootimg/internal/ports"
	"github.com/retroenv/bootimg/internal/programs"
)

var (
	// ErrUnknownOperation is returned for a step with an unsupported op.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrUnknownKey is returned for keys that are not part of the recipe format.
	ErrUnknownKey = errors.New("unknown recipe keys")
	// ErrNoSteps is returned for a recipe that does not contain any step.
	ErrNoSteps = errors.New("recipe has no steps")
)

// Recipe represents an image recipe file.
type Recipe struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Output      string `toml:"output"`
	Sectors     int    `toml:"sectors"`
	Origin      int    `toml:"origin"`
	Steps       []Step `toml:"step"`
}

// Step is a single entry of a recipe. Operands are either integers or
// symbolic port names.
type Step struct {
	Op      string `toml:"op"`
	Value   any    `toml:"value"`
	Port    any    `toml:"port"`
	Address any    `toml:"address"`
	Text    string `toml:"text"`
}

// Load parses a recipe file. The recipe name defaults to the file name
// without extension.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe %s: %w", path, err)
	}

	r, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing recipe %s: %w", path, err)
	}
	if r.Name == "" {
		base := filepath.Base(path)
		r.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if r.Output == "" {
		r.Output = r.Name + ".bin"
	}
	return r, nil
}

// Parse decodes a recipe document and applies defaults.
func Parse(data string) (*Recipe, error) {
	var r Recipe
	md, err := toml.Decode(data, &r)
	if err != nil {
		return nil, fmt.Errorf("decoding toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("%s: %w", strings.Join(keys, ", "), ErrUnknownKey)
	}

	if r.Sectors == 0 {
		r.Sectors = 1
	}
	if r.Sectors < 0 || r.Sectors > image.MaxSectors {
		return nil, fmt.Errorf("%d sectors: %w", r.Sectors, image.ErrCapacity)
	}
	// the whole image has to be addressable when loaded at the origin
	if r.Origin < 0 || r.Origin > 0xFFFF || r.Origin+r.Sectors*image.SectorSize > 0x10000 {
		return nil, fmt.Errorf("origin $%04X with %d sectors: %w", r.Origin, r.Sectors, instruction.ErrOperandRange)
	}
	if len(r.Steps) == 0 {
		return nil, ErrNoSteps
	}
	if r.Output == "" && r.Name != "" {
		r.Output = r.Name + ".bin"
	}
	return &r, nil
}

// Instructions resolves all steps into instructions. All operands are
// validated before anything gets emitted.
func (r *Recipe) Instructions() ([]instruction.Instruction, error) {
	var result []instruction.Instruction
	for i, step := range r.Steps {
		ins, err := step.instructions()
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		result = append(result, ins...)
	}
	return result, nil
}

// Program returns the recipe as a program that can be built like the
// built-in ones.
func (r *Recipe) Program() (programs.Program, error) {
	ins, err := r.Instructions()
	if err != nil {
		return programs.Program{}, err
	}

	return programs.Program{
		Name:        r.Name,
		Description: r.Description,
		Output:      r.Output,
		Sectors:     r.Sectors,
		Origin:      uint16(r.Origin),
		Build: func(buf *image.Buffer) error {
			for _, in := range ins {
				if err := buf.Emit(in); err != nil {
					return err
				}
			}
			return nil
		},
	}, nil
}

func (s Step) instructions() ([]instruction.Instruction, error) {
	switch strings.ToLower(s.Op) {
	case "lda":
		value, err := operand("value", s.Value)
		if err != nil {
			return nil, err
		}
		ins, err := instruction.NewLoadAccumulatorImmediate(value)
		if err != nil {
			return nil, err
		}
		return []instruction.Instruction{ins}, nil

	case "out":
		port, err := operand("port", s.Port)
		if err != nil {
			return nil, err
		}
		ins, err := instruction.NewOutputToPort(port)
		if err != nil {
			return nil, err
		}
		return []instruction.Instruction{ins}, nil

	case "jp":
		address, err := operand("address", s.Address)
		if err != nil {
			return nil, err
		}
		ins, err := instruction.NewJumpAbsolute(address)
		if err != nil {
			return nil, err
		}
		return []instruction.Instruction{ins}, nil

	case "hlt":
		return []instruction.Instruction{instruction.Halt{}}, nil

	case "print":
		return s.print()

	default:
		return nil, fmt.Errorf("'%s': %w", s.Op, ErrUnknownOperation)
	}
}

// print expands to a load and output pair per byte of the text.
func (s Step) print() ([]instruction.Instruction, error) {
	port := ports.ConOut
	if s.Port != nil {
		var err error
		if port, err = operand("port", s.Port); err != nil {
			return nil, err
		}
	}
	out, err := instruction.NewOutputToPort(port)
	if err != nil {
		return nil, err
	}

	result := make([]instruction.Instruction, 0, 2*len(s.Text))
	for i := 0; i < len(s.Text); i++ {
		result = append(result, instruction.LoadAccumulatorImmediate{Value: s.Text[i]}, out)
	}
	return result, nil
}

// operand converts a decoded TOML value to an integer, resolving symbolic names.
func operand(name string, value any) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("missing %s", name)
	case int64:
		return int(v), nil
	case string:
		b, err := ports.Lookup(v)
		if err != nil {
			return 0, err
		}
		return int(b), nil
	default:
		return 0, fmt.Errorf("unsupported %s type %T", name, value)
	}
}

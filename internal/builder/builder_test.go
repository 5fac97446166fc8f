package builder

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/bootimg/internal/image"
	"github.com/retroenv/bootimg/internal/options"
	"github.com/retroenv/bootimg/internal/programs"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestBuild_Program(t *testing.T) {
	logger := log.NewTestLogger(t)
	dir := t.TempDir()

	opts := options.Program{
		Parameters: options.Parameters{
			Program: "disk-boot-rom",
			Output:  filepath.Join(dir, programs.ROMFile),
			Listing: "-",
		},
		Flags: options.Flags{Verify: true},
	}

	var stdout bytes.Buffer
	result, err := Build(logger, opts, &stdout)
	assert.NoError(t, err)
	assert.Equal(t, opts.Output, result.Output)
	assert.Equal(t, 25, result.Buffer.Cursor())

	data, err := os.ReadFile(opts.Output)
	assert.NoError(t, err)
	assert.Equal(t, image.SectorSize, len(data))
	assert.Equal(t, []byte{0xC3, 0x00, 0x01}, data[22:25])

	assert.True(t, strings.Contains(stdout.String(), "; Program: disk-boot-rom"))
	assert.True(t, strings.Contains(stdout.String(), "jp $0100"))
}

func TestBuild_Recipe(t *testing.T) {
	logger := log.NewTestLogger(t)
	dir := t.TempDir()

	recipeFile := filepath.Join(dir, "hi.toml")
	recipe := "sectors = 2\n\n[[step]]\nop = \"print\"\ntext = \"Hi\\n\"\n\n[[step]]\nop = \"hlt\"\n"
	assert.NoError(t, os.WriteFile(recipeFile, []byte(recipe), 0o600))

	opts := options.Program{
		Parameters: options.Parameters{
			Recipe:  recipeFile,
			Output:  filepath.Join(dir, "hi.bin"),
			Listing: filepath.Join(dir, "hi.lst"),
		},
	}

	result, err := Build(logger, opts, nil)
	assert.NoError(t, err)
	assert.Equal(t, "hi", result.Program.Name)

	data, err := os.ReadFile(opts.Output)
	assert.NoError(t, err)
	assert.Equal(t, 256, len(data))
	expected := []byte{0x37, 0x48, 0xD3, 0x00, 0x37, 0x69, 0xD3, 0x00, 0x37, 0x0A, 0xD3, 0x00, 0x76}
	assert.Equal(t, expected, data[:13])

	listing, err := os.ReadFile(opts.Listing)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(listing), "; Used: 13 of 256 bytes"))
}

func TestBuild_Overflow(t *testing.T) {
	logger := log.NewTestLogger(t)
	dir := t.TempDir()

	recipeFile := filepath.Join(dir, "long.toml")
	recipe := "[[step]]\nop = \"print\"\ntext = \"" + strings.Repeat("A", 33) + "\"\n"
	assert.NoError(t, os.WriteFile(recipeFile, []byte(recipe), 0o600))

	opts := options.Program{
		Parameters: options.Parameters{
			Recipe: recipeFile,
			Output: filepath.Join(dir, "long.bin"),
		},
	}

	_, err := Build(logger, opts, nil)
	assert.True(t, errors.Is(err, image.ErrOverflow))

	// no image is written for a failed build
	_, err = os.Stat(opts.Output)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBuild_UnknownProgram(t *testing.T) {
	logger := log.NewTestLogger(t)

	opts := options.Program{
		Parameters: options.Parameters{Program: "missing"},
	}
	_, err := Build(logger, opts, nil)
	assert.Error(t, err, "selecting program: 'missing': unknown program")
	assert.True(t, errors.Is(err, programs.ErrUnknownProgram))
}

func TestListPrograms(t *testing.T) {
	var buf bytes.Buffer
	cfg := log.DefaultConfig()
	cfg.Output = &buf
	logger := log.NewWithConfig(cfg)

	assert.NoError(t, ListPrograms(logger))
	for _, name := range programs.Names() {
		assert.True(t, strings.Contains(buf.String(), name))
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	cfg := log.DefaultConfig()
	cfg.Output = &buf
	logger := log.NewWithConfig(cfg)

	PrintBanner(logger, true, "bootimg", "1.0.0", "", "")
	assert.Equal(t, 0, buf.Len())

	PrintBanner(logger, false, "bootimg", "1.0.0", "0123456789abcdef", "unknown")
	assert.True(t, strings.Contains(buf.String(), "1.0.0 commit: 0123456"))
	assert.False(t, strings.Contains(buf.String(), "built at"))
}

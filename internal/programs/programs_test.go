package programs

import (
	"errors"
	"testing"

	"github.com/retroenv/bootimg/internal/image"
	"github.com/retroenv/retrogolib/assert"
)

func build(t *testing.T, name string) *image.Buffer {
	t.Helper()

	p, err := Get(name)
	assert.NoError(t, err)
	buf, err := p.NewBuffer()
	assert.NoError(t, err)
	assert.NoError(t, p.Run(buf))
	return buf
}

func TestDiskBootROM(t *testing.T) {
	buf := build(t, "disk-boot-rom")

	expected := []byte{
		0x37, 0x00, // lda 0
		0xD3, 0x10, // out A_SET_HEAD
		0xD3, 0x11, // out A_SET_TRACK
		0xD3, 0x12, // out A_SET_SECTOR
		0xD3, 0x13, // out A_SET_DMA_LOW
		0x37, 0x01, // lda 1
		0xD3, 0x14, // out A_SET_DMA_HIGH
		0x37, 0x00, // lda A_DISK_OP_SEEK
		0xD3, 0x15, // out A_DISK_OP
		0x37, 0x01, // lda A_DISK_OP_READ
		0xD3, 0x15, // out A_DISK_OP
		0xC3, 0x00, 0x01, // jp $0100
	}
	assert.Equal(t, len(expected), buf.Cursor())
	assert.Equal(t, expected, buf.Bytes()[:len(expected)])
	assert.Equal(t, make([]byte, 128-len(expected)), buf.Bytes()[len(expected):])
}

func TestHelloPrograms(t *testing.T) {
	for _, name := range []string{"hello-rom", "hello-disk"} {
		t.Run(name, func(t *testing.T) {
			buf := build(t, name)

			assert.Equal(t, len(greeting)*4+1, buf.Cursor())
			data := buf.Bytes()
			assert.Equal(t, []byte{0x37, 'H', 0xD3, 0x00}, data[:4])
			assert.Equal(t, byte(0x76), data[buf.Cursor()-1])
		})
	}

	p, err := Get("hello-disk")
	assert.NoError(t, err)
	assert.Equal(t, DiskFile, p.Output)
	assert.Equal(t, uint16(LoadAddress), p.Origin)
}

func TestFirmwareROM(t *testing.T) {
	buf := build(t, "firmware-rom")

	var expected []byte
	for _, c := range []byte("Bleep firmware v0.1\n\n") {
		expected = append(expected, 0x37, c, 0xD3, 0x00) // lda c, out CON_OUT
	}
	expected = append(expected,
		0x37, 0x00, // lda 0
		0xD3, 0x10, // out A_SET_HEAD
		0xD3, 0x11, // out A_SET_TRACK
		0xD3, 0x12, // out A_SET_SECTOR
		0xD3, 0x13, // out A_SET_DMA_LOW
		0x37, 0x01, // lda 1
		0xD3, 0x14, // out A_SET_DMA_HIGH
		0x37, 0x03, 0xD3, 0x15, // clear
		0x37, 0x00, 0xD3, 0x15, // seek
		0x37, 0x03, 0xD3, 0x15, // clear
		0x37, 0x01, 0xD3, 0x15, // read
		0xC3, 0x00, 0x01, // jp $0100
	)
	assert.Equal(t, 117, len(expected))
	assert.Equal(t, len(expected), buf.Cursor())

	expected = append(expected, make([]byte, 128-len(expected))...)
	assert.Equal(t, expected, buf.Bytes())
}

func TestProgram_RunResetsBuffer(t *testing.T) {
	p, err := Get("hello-rom")
	assert.NoError(t, err)
	buf, err := image.NewSectors(1)
	assert.NoError(t, err)

	assert.NoError(t, buf.JumpAbsolute(0xFFFF))
	assert.NoError(t, p.Run(buf))
	assert.Equal(t, byte(0x37), buf.Bytes()[0])
}

func TestProgram_Overflow(t *testing.T) {
	p := Program{
		Name:    "too-long",
		Sectors: 1,
		Build: func(buf *image.Buffer) error {
			text := make([]byte, 33)
			for i := range text {
				text[i] = 'A'
			}
			return Print(buf, string(text), 0)
		},
	}
	buf, err := p.NewBuffer()
	assert.NoError(t, err)

	err = p.Run(buf)
	assert.True(t, errors.Is(err, image.ErrOverflow))
	assert.Equal(t, 128, buf.Cursor())
}

func TestSetupTransfer_Unaligned(t *testing.T) {
	buf, err := image.NewSectors(1)
	assert.NoError(t, err)

	err = setupTransfer(buf, 0x180)
	assert.Error(t, err, "address $0180: DMA address is not page aligned")
	assert.Equal(t, 0, buf.Cursor())
}

func TestGet(t *testing.T) {
	_, err := Get("missing")
	assert.True(t, errors.Is(err, ErrUnknownProgram))

	assert.Equal(t, []string{"disk-boot-rom", "firmware-rom", "hello-disk", "hello-rom"}, Names())
}

package ports

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		expected uint8
	}{
		{"CON_OUT", 0x00},
		{"A_SET_HEAD", 0x10},
		{"A_SET_TRACK", 0x11},
		{"A_SET_SECTOR", 0x12},
		{"A_SET_DMA_LOW", 0x13},
		{"A_SET_DMA_HIGH", 0x14},
		{"A_DISK_OP", 0x15},
		{"A_DISK_OP_SEEK", 0x00},
		{"A_DISK_OP_READ", 0x01},
		{"A_DISK_OP_WRITE", 0x02},
		{"a_disk_op_clear", 0x03},
		{"A_DISK_STATUS", 0x10},
		{"A_DISK_READY", 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := Lookup(tt.name)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("B_SET_HEAD")
	assert.Error(t, err, "'B_SET_HEAD': unknown symbolic name")
	assert.True(t, errors.Is(err, ErrUnknownName))
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Equal(t, 14, len(names))
	assert.Equal(t, "A_DISK_OK", names[0])
	assert.Equal(t, "CON_OUT", names[len(names)-1])
}

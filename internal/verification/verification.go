// Package verification verifies that a written image file matches the built image.
package verification

import (
	"fmt"
	"os"

	"github.com/retroenv/bootimg/internal/image"
	"github.com/retroenv/retrogolib/log"
)

// maxLoggedMismatches limits the number of logged differing offsets.
const maxLoggedMismatches = 10

// VerifyOutput reads the named image file back and compares it to the buffer.
func VerifyOutput(logger *log.Logger, name string, buf *image.Buffer) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading file '%s' for comparison: %w", name, err)
	}

	if err := checkBufferEqual(logger, buf.Bytes(), data); err != nil {
		return fmt.Errorf("comparing '%s': %w", name, err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, expected, actual []byte) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(expected), len(actual))
	}

	var diffs uint64
	firstDiff := -1
	for i := range expected {
		if expected[i] == actual[i] {
			continue
		}

		diffs++
		if firstDiff == -1 {
			firstDiff = i
		}
		if diffs <= maxLoggedMismatches {
			logger.Debug("Offset mismatch",
				log.Int("offset", i),
				log.Uint8("expected", expected[i]),
				log.Uint8("got", actual[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches, first at offset %d", diffs, firstDiff)
}

// Package writer persists built images and writes instruction listings.
package writer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/bootimg/internal/image"
	"github.com/retroenv/bootimg/internal/programs"
)

// Options of the listing writer.
type Options struct {
	HexComments    bool // output the encoded bytes of every instruction
	OffsetComments bool // output the address of every instruction
}

// Writer writes the listing of a built program.
type Writer struct {
	program programs.Program
	buf     *image.Buffer
	options Options
	writer  io.Writer
}

// WriteImage writes the full image to the named file. The file length
// always equals the capacity of the buffer.
func WriteImage(name string, buf *image.Buffer) error {
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing image file '%s': %w", name, err)
	}
	return nil
}

// New creates a new listing writer.
func New(program programs.Program, buf *image.Buffer, writer io.Writer, options Options) *Writer {
	return &Writer{
		program: program,
		buf:     buf,
		options: options,
		writer:  writer,
	}
}

// Write outputs the header and one line per emitted instruction.
func (w Writer) Write() error {
	if err := w.writeCommentHeader(); err != nil {
		return err
	}

	for _, entry := range w.buf.Entries() {
		if err := w.writeCodeLine(entry); err != nil {
			return err
		}
	}
	return nil
}

func (w Writer) writeCommentHeader() error {
	if _, err := fmt.Fprintf(w.writer, "; Program: %s\n", w.program.Name); err != nil {
		return fmt.Errorf("writing program name: %w", err)
	}
	if w.program.Description != "" {
		if _, err := fmt.Fprintf(w.writer, "; %s\n", w.program.Description); err != nil {
			return fmt.Errorf("writing program description: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w.writer, "; Origin: $%04X\n", w.program.Origin); err != nil {
		return fmt.Errorf("writing origin: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Used: %d of %d bytes\n\n", w.buf.Cursor(), w.buf.Capacity()); err != nil {
		return fmt.Errorf("writing image usage: %w", err)
	}
	return nil
}

func (w Writer) writeCodeLine(entry image.Entry) error {
	var comment []string
	if w.options.OffsetComments {
		address := int(w.program.Origin) + entry.Offset
		comment = append(comment, fmt.Sprintf("$%04X", address))
	}
	if w.options.HexComments {
		comment = append(comment, hexCodeComment(entry.Instruction.Encode()))
	}

	var err error
	if len(comment) == 0 {
		_, err = fmt.Fprintf(w.writer, "  %s\n", entry.Instruction)
	} else {
		_, err = fmt.Fprintf(w.writer, "  %-30s ; %s\n", entry.Instruction, strings.Join(comment, "  "))
	}
	if err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func hexCodeComment(data []byte) string {
	buf := &strings.Builder{}
	for i, b := range data {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%02X", b)
	}
	return buf.String()
}

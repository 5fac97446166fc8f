// Package builder handles resolving, building and persisting images
package builder

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/bootimg/internal/image"
	"github.com/retroenv/bootimg/internal/options"
	"github.com/retroenv/bootimg/internal/programs"
	"github.com/retroenv/bootimg/internal/recipe"
	"github.com/retroenv/bootimg/internal/verification"
	"github.com/retroenv/bootimg/internal/writer"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Result describes a built and persisted image.
type Result struct {
	Program programs.Program
	Buffer  *image.Buffer
	Output  string
}

// Build handles the complete image building workflow: resolve the program,
// encode it, write the image and optionally a listing and verify the file.
// The listing is written to stdout if the listing name is "-".
func Build(logger *log.Logger, opts options.Program, stdout io.Writer) (*Result, error) {
	p, err := resolveProgram(opts)
	if err != nil {
		return nil, err
	}

	output := opts.Output
	if output == "" {
		output = p.Output
	}

	buf, err := p.NewBuffer()
	if err != nil {
		return nil, err
	}
	logger.Debug("Building image",
		log.String("program", p.Name),
		log.Int("capacity", buf.Capacity()),
		log.Uint16("origin", p.Origin))

	if err := p.Run(buf); err != nil {
		return nil, err
	}

	if err := writer.WriteImage(output, buf); err != nil {
		return nil, err
	}
	logger.Info("Image written",
		log.String("file", output),
		log.Int("used", buf.Cursor()),
		log.Int("size", buf.Capacity()))

	if opts.Listing != "" {
		if err := writeListing(opts.Listing, p, buf, stdout); err != nil {
			return nil, err
		}
	}

	if opts.Verify {
		if err := verification.VerifyOutput(logger, output, buf); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful")
	}

	return &Result{
		Program: p,
		Buffer:  buf,
		Output:  output,
	}, nil
}

// ListPrograms logs all built-in programs.
func ListPrograms(logger *log.Logger) error {
	for _, name := range programs.Names() {
		p, err := programs.Get(name)
		if err != nil {
			return err
		}
		logger.Info(p.Name,
			log.String("output", p.Output),
			log.String("description", p.Description))
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, quiet bool, name, version, commit, date string) {
	if quiet {
		return
	}

	if len(commit) > 7 {
		commit = commit[:7]
	}
	if strings.Contains(date, "unknown") {
		date = ""
	}
	logger.Info(name, log.String("version", buildinfo.Version(version, commit, date)))
}

func resolveProgram(opts options.Program) (programs.Program, error) {
	if opts.Recipe == "" {
		p, err := programs.Get(opts.Program)
		if err != nil {
			return programs.Program{}, fmt.Errorf("selecting program: %w", err)
		}
		return p, nil
	}

	r, err := recipe.Load(opts.Recipe)
	if err != nil {
		return programs.Program{}, err
	}
	p, err := r.Program()
	if err != nil {
		return programs.Program{}, fmt.Errorf("resolving recipe %s: %w", opts.Recipe, err)
	}
	return p, nil
}

func writeListing(name string, p programs.Program, buf *image.Buffer, stdout io.Writer) (err error) {
	out := stdout
	if name != "-" {
		file, createErr := os.Create(name)
		if createErr != nil {
			return fmt.Errorf("creating listing file '%s': %w", name, createErr)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("closing listing file '%s': %w", name, closeErr)
			}
		}()
		out = file
	}

	w := writer.New(p, buf, out, writer.Options{
		HexComments:    true,
		OffsetComments: true,
	})
	if err := w.Write(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/retroenv/bootimg/internal/options"
)

// ParseFlags parses the command line arguments, without the program name,
// and returns the program options.
func ParseFlags(name string, args []string) (options.Program, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	if err := validateArgs(flags.Args()); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	if err := validateOptionCombinations(opts); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage and flag defaults to the writer.
func (e *UsageError) ShowUsage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "usage: %s [options]\n\n", e.flags.Name())
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	_, _ = fmt.Fprintln(w)
}

// validateArgs rejects positional arguments, all inputs are passed as flags.
func validateArgs(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %s, all options have to be passed as flags", args[0])
	}
	return nil
}

// validateOptionCombinations checks for conflicting or missing options.
func validateOptionCombinations(opts options.Program) error {
	if opts.List {
		return nil
	}
	if opts.Program == "" && opts.Recipe == "" {
		return errors.New("either a program (-p) or a recipe (-r) has to be given")
	}
	if opts.Program != "" && opts.Recipe != "" {
		return errors.New("-p and -r can not be combined")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Program, "p", "", "name of the built-in program to build, see -list")
	flags.StringVar(&opts.Recipe, "r", "", "name of the TOML image recipe file to build")
	flags.StringVar(&opts.Output, "o", "", "name of the output image file, the fixed file name of the program if not given")
	flags.StringVar(&opts.Listing, "listing", "", "write an instruction listing to the given file, - for stdout")
	flags.BoolVar(&opts.List, "list", false, "list the built-in programs")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the written image by reading it back and comparing it")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

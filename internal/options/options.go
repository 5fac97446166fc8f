// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Program string // built-in program to build
	Recipe  string // TOML image recipe to build
	Output  string // output image file, the fixed name of the program if empty
	Listing string // instruction listing file, - for stdout
}

// Flags contains behavior options.
type Flags struct {
	List   bool
	Verify bool
	Debug  bool
	Quiet  bool
}

// Program options of the image builder.
type Program struct {
	Parameters
	Flags
}

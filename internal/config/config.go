// Package config handles application configuration and setup
package config

import (
	"io"

	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger writing to the given output, stdout is used
// if output is nil.
func CreateLogger(output io.Writer, debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = output
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// Package main writes the boot ROM that prints a greeting.
package main

import (
	"os"

	"github.com/retroenv/bootimg/internal/builder"
	"github.com/retroenv/bootimg/internal/config"
	"github.com/retroenv/bootimg/internal/options"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	logger := config.CreateLogger(os.Stdout, false, true)

	opts := options.Program{
		Parameters: options.Parameters{Program: "hello-rom"},
	}
	if _, err := builder.Build(logger, opts, os.Stdout); err != nil {
		logger.Fatal("Building image failed", log.Err(err))
	}
}

// Package main implements the main entry point for a boot ROM and disk image builder
package main

import (
	"errors"
	"os"

	"github.com/retroenv/bootimg/internal/builder"
	"github.com/retroenv/bootimg/internal/cli"
	"github.com/retroenv/bootimg/internal/config"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	opts, err := cli.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(os.Stdout, opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			builder.PrintBanner(logger, opts.Quiet, "bootimg", version, commit, date)
			logger.Error("Invalid arguments", err)
			usageErr.ShowUsage(os.Stdout)
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(os.Stdout, opts.Debug, opts.Quiet)
	builder.PrintBanner(logger, opts.Quiet, "bootimg", version, commit, date)

	if opts.List {
		if err := builder.ListPrograms(logger); err != nil {
			logger.Fatal(err.Error())
		}
		return
	}

	if _, err := builder.Build(logger, opts, os.Stdout); err != nil {
		logger.Fatal("Building image failed", log.Err(err))
	}
}

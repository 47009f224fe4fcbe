// Package main is the entry point for the gomdparse CLI.
package main

import (
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/yaklabco/gomdparse/internal/cli"
	"github.com/yaklabco/gomdparse/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := logging.Default()

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debugf(format, args...)
	}))
	defer undo()
	if err != nil {
		logger.Warn("set GOMAXPROCS", logging.FieldError, err)
	}

	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// Signals only pick the exit code; the report already said why.
		if !cli.IsSignal(err) {
			logger.Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCode(err)
	}

	return cli.ExitSuccess
}

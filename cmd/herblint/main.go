// Package main is the entry point for the herblint CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/herblint/internal/cli"
	"github.com/yaklabco/herblint/internal/logging"
)

// Set by the release build via ldflags.
//
//nolint:gochecknoglobals // ldflags targets must be package-level
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrLintIssuesFound) && !errors.Is(err, cli.ErrLintWarningsFound) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}
	return cli.ExitCode(err)
}

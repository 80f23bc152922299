// Package cli provides the Cobra command structure for herblint.
package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/herblint/internal/configloader"
	"github.com/yaklabco/herblint/internal/logging"
	"github.com/yaklabco/herblint/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Persistent flag names shared by the subcommands.
const (
	flagConfig = "config"
	flagColor  = "color"
	flagDir    = "dir"
	flagDebug  = "debug"
)

const rootLongDescription = `herblint checks HTML+ERB templates for markup and ERB mistakes and
fixes many of them in place.

Configuration is read from .herb.yml in the project root, found by
searching upward from the working directory, and from the user config
under $XDG_CONFIG_HOME/herblint. Offenses recorded in the legacy-debt
file (.herb-todo.yml) are reported but do not fail a run.`

// NewRootCommand creates the root herblint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var color string

	rootCmd := &cobra.Command{
		Use:     "herblint",
		Short:   "Lint and autofix HTML+ERB templates",
		Long:    rootLongDescription + "\n\n" + envHelp(),
		Version: info.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if debug {
				level = "debug"
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, flagDebug, false, "enable debug logging")
	rootCmd.PersistentFlags().String(flagConfig, "", "path to config file")
	rootCmd.PersistentFlags().StringP(flagDir, "C", "", "run as if started in this directory")
	rootCmd.PersistentFlags().StringVar(&color, flagColor, pretty.ColorAuto,
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.AddCommand(newLintCommand(info))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newTodoCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRestoreCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}

// envHelp lists the supported environment variables.
func envHelp() string {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Environment:")
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %-*s  %s", width, name, vars[name])
	}
	return b.String()
}

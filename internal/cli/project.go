package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/herblint/internal/configloader"
	"github.com/yaklabco/herblint/internal/logging"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
	_ "github.com/yaklabco/herblint/pkg/lint/rules" // Register built-in rules
	"github.com/yaklabco/herblint/pkg/parser/erb"
)

// project is a loaded configuration with a linter ready to run.
type project struct {
	workDir string
	load    *configloader.LoadResult
	linter  *lint.Linter
}

func (p *project) config() *config.Config {
	return p.load.Config
}

// commandContext returns the command's context, which carries the logger
// set up by the root command.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// workingDir returns the --dir flag as an absolute path, or the current
// directory.
func workingDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString(flagDir)
	if err != nil {
		return "", fmt.Errorf("get %s flag: %w", flagDir, err)
	}
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	return abs, nil
}

// openProject loads the configuration with cliCfg on top and builds a
// linter with the legacy-debt budgets and custom rules of the project.
func openProject(cmd *cobra.Command, cliCfg *config.Config) (*project, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := workingDir(cmd)
	if err != nil {
		return nil, err
	}
	configPath, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", flagConfig, err)
	}
	if configPath != "" && !filepath.IsAbs(configPath) {
		configPath = filepath.Join(workDir, configPath)
	}

	load, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	for _, w := range load.Warnings {
		logger.Warn(w)
	}
	if len(load.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, load.LoadedFrom)
	}
	if load.DebtPath != "" {
		logger.Debug("loaded legacy-debt file", logging.FieldPath, load.DebtPath, logging.FieldCount, load.Debt.Len())
	}

	linter := lint.New(erb.New(), erb.NewPrinter(),
		lint.WithDebtStore(load.Debt),
		lint.WithLogger(logger),
	)
	if _, err := linter.LoadCustomRules(ctx, lint.LoadOptions{
		BaseDir:  load.Root,
		Patterns: load.Config.CustomRules,
	}); err != nil {
		return nil, fmt.Errorf("load custom rules: %w", err)
	}

	for _, name := range configloader.UnknownRules(load.Config, linter.Registry().Names()) {
		logger.Warn("unknown rule in configuration", logging.FieldRule, name)
	}

	return &project{workDir: workDir, load: load, linter: linter}, nil
}

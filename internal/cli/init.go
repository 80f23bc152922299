package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/herblint/internal/logging"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/fsutil"
)

const defaultConfigFile = ".herb.yml"

type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .herb.yml configuration file",
		Long: `Create a .herb.yml configuration file in the working directory.

Examples:
  herblint init                  Create a minimal .herb.yml
  herblint init --full           List every rule with its defaults
  herblint init -o config.yml    Write to another path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "include every rule with its documentation")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := workingDir(cmd)
	if err != nil {
		return err
	}
	path := flags.output
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	_, err = os.Stat(path)
	switch {
	case err == nil && !flags.force:
		return fmt.Errorf("%w: %s already exists; use --force to overwrite", ErrUsage, flags.output)
	case err == nil:
		logger.Warn("overwriting existing file", logging.FieldPath, path)
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("stat %s: %w", path, err)
	}

	content := config.GenerateTemplate(config.TemplateOptions{Full: flags.full})
	if err := fsutil.WriteAtomic(ctx, path, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, path)
	logger.Info("run 'herblint rules' to see all available rules")
	return nil
}

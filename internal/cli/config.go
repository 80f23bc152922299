package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/herblint/pkg/config"
)

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration herblint would use in this directory, after
merging the user config, the project .herb.yml, --config and HERBLINT_*
environment variables. Flag-only settings are not shown.`,
		Args: cobra.NoArgs,
		RunE: runConfig,
	}
}

func runConfig(cmd *cobra.Command, _ []string) error {
	proj, err := openProject(cmd, &config.Config{})
	if err != nil {
		return err
	}

	var header strings.Builder
	header.WriteString("Effective herblint configuration\n\n")
	if len(proj.load.LoadedFrom) == 0 {
		header.WriteString("No configuration files found; showing defaults.\n")
	}
	for _, path := range proj.load.LoadedFrom {
		fmt.Fprintf(&header, "from: %s\n", path)
	}
	fmt.Fprintf(&header, "root: %s\n", proj.load.Root)

	out, err := proj.config().ToYAMLWithHeader(header.String())
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/herblint/internal/logging"
	"github.com/yaklabco/herblint/pkg/analysis"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
	"github.com/yaklabco/herblint/pkg/reporter"
	"github.com/yaklabco/herblint/pkg/runner"
)

type lintFlags struct {
	format     string
	backupMode string
	sortBy     string
	strict     bool
	noContext  bool
	compact    bool
}

const lintLongDescription = `Lint HTML+ERB templates.

By default, lints every template under the current directory that is
detected as HTML+ERB (*.html.erb, *.erb, *.rhtml, ...). Specify paths to
lint specific files or directories.

Examples:
  herblint lint                         # Lint the current directory
  herblint lint app/views               # Lint a directory
  herblint lint app/views/show.html.erb # Lint a single file
  herblint lint --fix                   # Lint and autofix
  herblint lint --dry-run               # Show the fixes as a diff
  herblint lint --format sarif          # Output SARIF for code scanning
  herblint lint --no-todo               # Ignore the legacy-debt file`

func newLintCommand(info BuildInfo) *cobra.Command {
	cfg := &config.Config{}
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint HTML+ERB templates",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, cfg, flags, info)
		},
	}

	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "automatically fix offenses")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "compute fixes without writing them (implies --fix)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(reporter.FormatText),
		"output format: text, json, sarif, diff, summary")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = number of CPUs)")
	cmd.Flags().StringSliceVar(&cfg.Exclude, "exclude", nil, "glob patterns to skip")
	cmd.Flags().StringSliceVar(&cfg.EnableRules, "enable", nil, "rules to enable")
	cmd.Flags().StringSliceVar(&cfg.DisableRules, "disable", nil, "rules to disable")
	cmd.Flags().StringSliceVar(&cfg.FixRules, "fix-rules", nil, "limit autofix to these rules")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "do not back up files before fixing")
	cmd.Flags().StringVar(&flags.backupMode, "backup-mode", "", "where backups go: sidecar, xdg, none")
	cmd.Flags().BoolVar(&cfg.IgnoreDisableComments, "ignore-disable-comments", false,
		"report offenses suppressed by herb:disable comments")
	cmd.Flags().BoolVar(&cfg.NoTodo, "no-todo", false, "ignore the legacy-debt file")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail on warnings too")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source lines in text output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "compact JSON and SARIF output")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount),
		"summary table order: count, alpha, severity")

	return cmd
}

func runLint(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *lintFlags, info BuildInfo) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	if cmd.Flags().Changed("format") {
		if _, err := reporter.ParseFormat(flags.format); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cliCfg.Format = config.OutputFormat(flags.format)
	}
	sortBy := analysis.SortField(flags.sortBy)
	if !sortBy.IsValid() {
		return fmt.Errorf("%w: invalid sort %q", ErrUsage, flags.sortBy)
	}
	cliCfg.Backups.Mode = flags.backupMode
	if cliCfg.DryRun {
		cliCfg.Fix = true
		if !cmd.Flags().Changed("format") {
			cliCfg.Format = config.FormatDiff
		}
	}

	proj, err := openProject(cmd, cliCfg)
	if err != nil {
		return err
	}
	cfg := proj.config()

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	logger.Debug("starting lint run",
		logging.FieldPaths, args,
		logging.FieldWorkingDir, proj.workDir,
		logging.FieldFix, cfg.Fix,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
	)

	result, err := runner.New(lint.NewPipeline(proj.linter)).Run(ctx, runner.Options{
		Paths:      args,
		WorkingDir: proj.workDir,
		Root:       proj.load.Root,
		Include:    cfg.Include,
		Exclude:    cfg.Exclude,
		Jobs:       cfg.Jobs,
		Config:     cfg,
	})
	if err != nil {
		return fmt.Errorf("lint run failed: %w", err)
	}

	for _, file := range result.Files {
		if file.Error != nil {
			logger.Error("failed to process file", logging.FieldPath, file.Name, logging.FieldError, file.Error)
		} else if file.Result != nil && file.Result.Skipped {
			logger.Warn("fixes not written", logging.FieldPath, file.Name, "reason", file.Result.SkipReason)
		}
	}

	color, err := cmd.Flags().GetString(flagColor)
	if err != nil {
		return fmt.Errorf("get %s flag: %w", flagColor, err)
	}
	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       color,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		GroupByFile: true,
		Compact:     flags.compact,
		SortBy:      sortBy,
		Registry:    proj.linter.Registry(),
		ToolVersion: info.Version,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("lint complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldOffensesTotal, result.Stats.Offenses,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldTolerated, result.Stats.Tolerated,
	)

	return resultError(result, flags.strict)
}

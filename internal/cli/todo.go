package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/herblint/internal/configloader"
	"github.com/yaklabco/herblint/internal/logging"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
	"github.com/yaklabco/herblint/pkg/runner"
)

func newTodoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo [paths...]",
		Short: "Record current offenses in the legacy-debt file",
		Long: `Lint the project and write every offense count to the legacy-debt file
(.herb-todo.yml unless todo_file says otherwise). Later runs report those
offenses but only fail when a file exceeds its recorded counts.

Run it again after cleaning up to shrink the budget.`,
		Args: cobra.ArbitraryArgs,
		RunE: runTodo,
	}
	return cmd
}

func runTodo(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	// Budgets are recorded from scratch, so the current file is not applied.
	proj, err := openProject(cmd, &config.Config{NoTodo: true})
	if err != nil {
		return err
	}
	cfg := proj.config()
	cfg.Fix = false
	cfg.DryRun = false

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

	store := lint.NewDebtStore()
	for _, file := range result.Files {
		if file.Error != nil {
			logger.Error("failed to process file", logging.FieldPath, file.Name, logging.FieldError, file.Error)
			continue
		}
		for _, o := range file.Offenses() {
			store.Add(file.Name, o)
		}
	}

	path := proj.load.TodoPath()
	if err := configloader.SaveDebt(ctx, path, store); err != nil {
		return err
	}
	logger.Info("wrote legacy-debt file",
		logging.FieldPath, path,
		logging.FieldCount, store.Len(),
		logging.FieldOffensesTotal, result.Stats.Offenses,
	)

	if result.Stats.FilesErrored > 0 {
		return ErrFilesFailed
	}
	return nil
}

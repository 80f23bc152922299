package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/herblint/internal/logging"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/fsutil"
)

func newRestoreCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "restore <files...>",
		Short: "Restore files from the backups taken by --fix",
		Long: `Restore files from the backups written before autofix changed them.
The backup mode defaults to the project configuration.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args, mode)
		},
	}

	cmd.Flags().StringVar(&mode, "backup-mode", "", "where backups were written: sidecar, xdg")

	return cmd
}

func runRestore(cmd *cobra.Command, args []string, mode string) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	proj, err := openProject(cmd, &config.Config{Backups: config.BackupsConfig{Mode: mode}})
	if err != nil {
		return err
	}
	backupMode := fsutil.BackupMode(proj.config().Backups.Mode)

	var missing int
	for _, arg := range args {
		path := arg
		if !filepath.IsAbs(path) {
			path = filepath.Join(proj.workDir, path)
		}
		restored, err := fsutil.RestoreBackup(ctx, path, backupMode)
		if err != nil {
			return fmt.Errorf("restore %s: %w", arg, err)
		}
		if !restored {
			missing++
			logger.Warn("no backup found", logging.FieldPath, arg)
			continue
		}
		logger.Info("restored", logging.FieldPath, arg)
	}

	if missing > 0 {
		return fmt.Errorf("%w: %d of %d files had no backup", ErrFilesFailed, missing, len(args))
	}
	return nil
}

package fsutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// BackupMode specifies where backups are stored.
type BackupMode string

const (
	// BackupModeSidecar stores the backup next to the file, with BackupSuffix appended.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeXDG stores backups under $XDG_STATE_HOME/herblint/backups,
	// keeping the working tree clean.
	BackupModeXDG BackupMode = "xdg"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is the suffix used for sidecar backup files.
const BackupSuffix = ".herblint.bak"

// BackupConfig controls backup behavior.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig returns the backup defaults: disabled, sidecar.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Mode: BackupModeSidecar}
}

// BackupPath returns where the backup of path is stored, or "" for
// BackupModeNone. Unknown modes, and xdg mode without a resolvable state
// directory, fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	switch mode {
	case BackupModeNone:
		return ""
	case BackupModeXDG:
		if p, err := stateBackupPath(path); err == nil {
			return p
		}
	}
	return path + BackupSuffix
}

// stateBackupPath names the backup after a hash of the absolute path, so
// files with the same base name in different directories do not collide.
func stateBackupPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	name := hex.EncodeToString(sum[:8]) + "-" + filepath.Base(abs) + ".bak"
	return filepath.Join(dir, "herblint", "backups", name), nil
}

var errNoStateDir = errors.New("no state directory")

func stateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errNoStateDir
	}
	return filepath.Join(home, ".local", "state"), nil
}

// CreateBackup copies path to its backup location unless a backup already
// exists. It reports whether a backup was written.
//
// An existing backup is never overwritten, so it keeps the content from
// before the first fix.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	backupPath := BackupPath(path, cfg.Mode)
	if backupPath == "" {
		return false, nil
	}

	switch _, err := os.Stat(backupPath); {
	case err == nil:
		return false, nil
	case !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("stat backup path: %w", err)
	}

	content, info, err := ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read original for backup: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(backupPath), 0o750); err != nil {
		return false, fmt.Errorf("create backup dir: %w", err)
	}
	if err := WriteAtomic(ctx, backupPath, content, info.Mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// RestoreBackup writes the backup of path back over it and reports whether
// a backup existed.
func RestoreBackup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false, nil
	}

	content, info, err := ReadFile(ctx, backupPath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read backup: %w", err)
	}
	if err := WriteAtomic(ctx, path, content, info.Mode); err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}
	return true, nil
}

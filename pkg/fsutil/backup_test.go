package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/herblint/pkg/fsutil"
)

func TestBackupPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode fsutil.BackupMode
		want string
	}{
		{name: "sidecar", mode: fsutil.BackupModeSidecar, want: "app/views/show.html.erb.herblint.bak"},
		{name: "none", mode: fsutil.BackupModeNone, want: ""},
		{name: "unknown falls back to sidecar", mode: "elsewhere", want: "app/views/show.html.erb.herblint.bak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fsutil.BackupPath("app/views/show.html.erb", tt.mode))
		})
	}
}

func TestBackupPathXDG(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	a := fsutil.BackupPath("app/views/users/show.html.erb", fsutil.BackupModeXDG)
	b := fsutil.BackupPath("app/views/posts/show.html.erb", fsutil.BackupModeXDG)

	assert.True(t, strings.HasPrefix(a, filepath.Join(state, "herblint", "backups")+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(a, "-show.html.erb.bak"))
	assert.NotEqual(t, a, b)
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	t.Run("creates once and never overwrites", func(t *testing.T) {
		t.Parallel()
		path := writeTemplate(t, "<LI>one\n")

		created, err := fsutil.CreateBackup(ctx, path, cfg)
		require.NoError(t, err)
		assert.True(t, created)

		require.NoError(t, os.WriteFile(path, []byte("<li>one</li>\n"), 0o600))
		created, err = fsutil.CreateBackup(ctx, path, cfg)
		require.NoError(t, err)
		assert.False(t, created)

		backup, err := os.ReadFile(fsutil.BackupPath(path, cfg.Mode))
		require.NoError(t, err)
		assert.Equal(t, "<LI>one\n", string(backup))
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		path := writeTemplate(t, "x")

		created, err := fsutil.CreateBackup(ctx, path, fsutil.BackupConfig{Mode: fsutil.BackupModeSidecar})
		require.NoError(t, err)
		assert.False(t, created)
		assert.NoFileExists(t, fsutil.BackupPath(path, fsutil.BackupModeSidecar))
	})

	t.Run("mode none", func(t *testing.T) {
		t.Parallel()
		path := writeTemplate(t, "x")

		created, err := fsutil.CreateBackup(ctx, path, fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeNone})
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("missing original", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "gone.html.erb")

		created, err := fsutil.CreateBackup(ctx, path, cfg)
		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestCreateBackupXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	ctx := context.Background()
	path := writeTemplate(t, "<BR/>\n")

	created, err := fsutil.CreateBackup(ctx, path, fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeXDG})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoFileExists(t, path+fsutil.BackupSuffix)

	require.NoError(t, os.WriteFile(path, []byte("<br>\n"), 0o600))
	restored, err := fsutil.RestoreBackup(ctx, path, fsutil.BackupModeXDG)
	require.NoError(t, err)
	assert.True(t, restored)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<BR/>\n", string(got))
}

func TestRestoreBackupMissing(t *testing.T) {
	t.Parallel()

	restored, err := fsutil.RestoreBackup(context.Background(), writeTemplate(t, "x"), fsutil.BackupModeSidecar)
	require.NoError(t, err)
	assert.False(t, restored)
}

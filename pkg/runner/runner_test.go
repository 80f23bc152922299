package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
	_ "github.com/yaklabco/herblint/pkg/lint/rules"
	"github.com/yaklabco/herblint/pkg/parser/erb"
	"github.com/yaklabco/herblint/pkg/runner"
)

func newRunner() *runner.Runner {
	return runner.New(lint.NewPipeline(lint.New(erb.New(), erb.NewPrinter())))
}

func TestRunLint(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"app/views/a.html.erb": "<div>ok</div>\n",
		"app/views/b.html.erb": "<DIV>bad</DIV>\n",
		"app/views/c.html.erb": "<%# herb:linter ignore %>\n<DIV></DIV>\n",
	})

	for _, jobs := range []int{1, 4} {
		res, err := newRunner().Run(context.Background(), runner.Options{
			WorkingDir: dir,
			Jobs:       jobs,
			Config:     config.NewConfig(),
		})
		require.NoError(t, err)

		require.Len(t, res.Files, 3)
		assert.Equal(t, "app/views/a.html.erb", res.Files[0].Name)
		assert.Empty(t, res.Files[0].Offenses())
		assert.Len(t, res.Files[1].Offenses(), 2)
		assert.True(t, res.Files[2].Result.Result.Skipped)

		assert.Equal(t, 3, res.Stats.FilesDiscovered)
		assert.Equal(t, 3, res.Stats.FilesProcessed)
		assert.Equal(t, 1, res.Stats.FilesWithIssues)
		assert.Equal(t, 1, res.Stats.FilesIgnored)
		assert.Equal(t, 2, res.Stats.Errors)
		assert.Equal(t, 2, res.Stats.Fixable)
		assert.Equal(t, 2, res.Stats.Failing)
		assert.True(t, res.HasFailures())
	}
}

func TestRunFix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"show.html.erb": "<UL><LI>One<LI>Two</UL>\n"})

	cfg := config.NewConfig()
	cfg.Fix = true

	res, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.FilesModified)
	assert.Positive(t, res.Stats.Fixed)
	assert.False(t, res.HasIssues())

	got, err := os.ReadFile(filepath.Join(dir, "show.html.erb"))
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>One</li><li>Two</li></ul>\n", string(got))
}

func TestRunLegacyDebtUsesRelativeNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"app/views/b.html.erb": "<DIV>bad</DIV>\n"})

	debt := lint.NewDebtStore()
	debt.Set("html-tag-name-lowercase", "app/views/b.html.erb", lint.DebtCounts{Errors: 2})
	r := runner.New(lint.NewPipeline(lint.New(erb.New(), erb.NewPrinter(), lint.WithDebtStore(debt))))

	res, err := r.Run(context.Background(), runner.Options{
		WorkingDir: filepath.Join(dir, "app"),
		Root:       dir,
		Config:     config.NewConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.Errors)
	assert.Equal(t, 2, res.Stats.Tolerated)
	assert.Equal(t, 0, res.Stats.Failing)
	assert.False(t, res.HasFailures())
}

func TestRunNoFiles(t *testing.T) {
	t.Parallel()

	res, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.False(t, res.HasIssues())
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.html.erb": "<p></p>\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

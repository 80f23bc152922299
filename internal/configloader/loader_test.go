package configloader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/herblint/internal/configloader"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
)

// newProject creates a temp directory that stops the upward config search.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o750))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func isolated(dir string) configloader.LoadOptions {
	return configloader.LoadOptions{WorkingDir: dir, IgnoreUserConfig: true, IgnoreEnv: true}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	result, err := configloader.Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	assert.Equal(t, config.FormatText, result.Config.Format)
	assert.Equal(t, config.DefaultTodoFile, result.Config.TodoFile)
	assert.Empty(t, result.LoadedFrom)
	assert.Equal(t, dir, result.Root)
	assert.Equal(t, 0, result.Debt.Len())
	assert.Empty(t, result.DebtPath)
}

func TestLoadProjectConfigFromSubdirectory(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, filepath.Join(dir, ".herb.yml"), `
exclude:
  - "vendor/**"
rules:
  html-img-require-alt:
    severity: warning
  erb-strict-locals-required:
    enabled: true
backups:
  enabled: true
  mode: xdg
`)
	sub := filepath.Join(dir, "app", "views")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	result, err := configloader.Load(context.Background(), isolated(sub))
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, ".herb.yml")}, result.LoadedFrom)
	assert.Equal(t, dir, result.Root)
	assert.Equal(t, []string{"vendor/**"}, result.Config.Exclude)
	assert.Equal(t, "warning", *result.Config.Rules["html-img-require-alt"].Severity)
	assert.True(t, *result.Config.Rules["erb-strict-locals-required"].Enabled)
	assert.True(t, result.Config.Backups.Enabled)
	assert.Equal(t, "xdg", result.Config.Backups.Mode)
}

func TestLoadExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, filepath.Join(dir, ".herb.yml"), "rules:\n  html-no-self-closing:\n    severity: warning\n    include: [\"app/**\"]\n")
	explicit := filepath.Join(dir, "ci.yml")
	writeFile(t, explicit, "rules:\n  html-no-self-closing:\n    severity: error\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit
	result, err := configloader.Load(context.Background(), opts)
	require.NoError(t, err)

	rc := result.Config.Rules["html-no-self-closing"]
	assert.Equal(t, "error", *rc.Severity)
	assert.Equal(t, []string{"app/**"}, rc.Include)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoadCLIOverrides(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, filepath.Join(dir, ".herb.yml"), "exclude: [\"tmp/**\"]\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{
		Fix:          true,
		Format:       config.FormatJSON,
		Exclude:      []string{"log/**"},
		DisableRules: []string{"erb-no-empty-tags"},
	}
	result, err := configloader.Load(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, result.Config.Fix)
	assert.Equal(t, config.FormatJSON, result.Config.Format)
	assert.Equal(t, []string{"log/**"}, result.Config.Exclude)
	assert.Equal(t, []string{"erb-no-empty-tags"}, result.Config.DisableRules)
}

func TestLoadEnv(t *testing.T) {
	dir := newProject(t)
	t.Setenv("HERBLINT_FORMAT", "sarif")
	t.Setenv("HERBLINT_JOBS", "3")
	t.Setenv("HERBLINT_NO_TODO", "true")
	t.Setenv("HERBLINT_EXCLUDE", "a/**, b/** ,")

	result, err := configloader.Load(context.Background(), configloader.LoadOptions{
		WorkingDir:       dir,
		IgnoreUserConfig: true,
	})
	require.NoError(t, err)

	assert.Equal(t, config.FormatSARIF, result.Config.Format)
	assert.Equal(t, 3, result.Config.Jobs)
	assert.True(t, result.Config.NoTodo)
	assert.Equal(t, []string{"a/**", "b/**"}, result.Config.Exclude)
}

func TestLoadEnvInvalid(t *testing.T) {
	dir := newProject(t)
	t.Setenv("HERBLINT_FIX", "sometimes")

	_, err := configloader.Load(context.Background(), configloader.LoadOptions{
		WorkingDir:       dir,
		IgnoreUserConfig: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HERBLINT_FIX")
}

func TestLoadUserConfig(t *testing.T) {
	dir := newProject(t)
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	writeFile(t, filepath.Join(configHome, "herblint", "config.yml"), "todo_file: debt.yml\n")

	result, err := configloader.Load(context.Background(), configloader.LoadOptions{WorkingDir: dir, IgnoreEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "debt.yml", result.Config.TodoFile)
	assert.Equal(t, filepath.Join(dir, "debt.yml"), result.TodoPath())
}

func TestLoadInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bad yaml", content: "rules: [", want: "parse yaml"},
		{name: "bad severity", content: "rules:\n  html-no-self-closing:\n    severity: fatal\n", want: "rules.html-no-self-closing.severity"},
		{name: "bad backup mode", content: "backups:\n  mode: cloud\n", want: "backups.mode"},
		{name: "bad glob", content: "exclude: [\"app/[\"]\n", want: "exclude[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := newProject(t)
			writeFile(t, filepath.Join(dir, ".herb.yml"), tt.content)

			_, err := configloader.Load(context.Background(), isolated(dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDebt(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, filepath.Join(dir, config.DefaultTodoFile), `
html-tag-name-lowercase:
  app/views/show.html.erb:
    errors: 2
    warnings: 0
`)

	result, err := configloader.Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, config.DefaultTodoFile), result.DebtPath)
	budget, ok := result.Debt.Budget("html-tag-name-lowercase", "app/views/show.html.erb")
	require.True(t, ok)
	assert.Equal(t, 2, budget.Errors)

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{NoTodo: true}
	result, err = configloader.Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Debt.Len())
}

func TestLoadDebtInvalid(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, filepath.Join(dir, config.DefaultTodoFile), "rule:\n  file.html.erb:\n    errors: -1\n")

	_, err := configloader.Load(context.Background(), isolated(dir))
	require.Error(t, err)
}

func TestSaveDebt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultTodoFile)

	store := lint.NewDebtStore()
	store.Set("erb-no-empty-tags", "app/views/a.html.erb", lint.DebtCounts{Errors: 1})
	require.NoError(t, configloader.SaveDebt(context.Background(), path, store))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# herblint legacy-debt file.")

	parsed, err := lint.ParseDebt(data)
	require.NoError(t, err)
	budget, ok := parsed.Budget("erb-no-empty-tags", "app/views/a.html.erb")
	require.True(t, ok)
	assert.Equal(t, 1, budget.Errors)
}

func TestFindProjectConfigStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".herb.yml"), "")
	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o750))

	path, err := configloader.FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = configloader.FindProjectConfig(context.Background(), outer)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outer, ".herb.yml"), path)
}

func TestUnknownRules(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Rules["html-img-require-alt"] = config.RuleConfig{}
	cfg.Rules["no-such-rule"] = config.RuleConfig{}
	cfg.DisableRules = []string{"also-missing", "no-such-rule"}

	got := configloader.UnknownRules(cfg, []string{"html-img-require-alt"})
	assert.Equal(t, []string{"also-missing", "no-such-rule"}, got)
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := configloader.ListEnvVars()
	assert.Contains(t, vars, "HERBLINT_FIX")
	assert.Contains(t, vars, "HERBLINT_IGNORE_DISABLE_COMMENTS")
	for name, help := range vars {
		assert.NotEmpty(t, help, name)
	}
}

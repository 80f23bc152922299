package lint_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
	"github.com/yaklabco/herblint/pkg/parser/erb"
)

var errBadPlugin = errors.New("bad plugin")

// writeRuleFiles creates empty files under dir.
func writeRuleFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}
}

// fileRules filters out compiled-in rules registered by other tests.
func fileRules(res *lint.LoadResult) []lint.CustomRuleInfo {
	var out []lint.CustomRuleInfo
	for _, info := range res.RuleInfo {
		if info.Path != "" {
			out = append(out, info)
		}
	}
	return out
}

func customTodoRule() lint.Rule {
	return &todoRule{
		BaseRule: lint.NewBaseRule("custom-todo", "Custom rule", lint.KindSource,
			lint.EnabledWith(config.SeverityError)),
	}
}

func overridingUpperRule() lint.Rule {
	return &upperTagRule{
		BaseRule: lint.NewBaseRule("test-upper", "Overridden", lint.KindAST,
			lint.EnabledWith(config.SeverityWarning)),
	}
}

func TestLoadCustomRules_DiscoversMatchingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeRuleFiles(t, dir,
		".herb/rules/a.so",
		".herb/rules/nested/b.so",
		".herb/rules/readme.txt",
		"node_modules/.herb/rules/c.so",
	)

	var (
		mu     sync.Mutex
		opened []string
	)
	opener := lint.OpenerFunc(func(path string) ([]lint.Factory, error) {
		mu.Lock()
		defer mu.Unlock()
		rel, err := filepath.Rel(dir, path)
		require.NoError(t, err)
		opened = append(opened, filepath.ToSlash(rel))
		return []lint.Factory{customTodoRule}, nil
	})

	l := lint.New(erb.New(), erb.NewPrinter(), lint.WithRules(newUpperTagRule), lint.WithOpener(opener))
	res, err := l.LoadCustomRules(context.Background(), lint.LoadOptions{BaseDir: dir, Silent: true})
	require.NoError(t, err)

	assert.Equal(t, []string{".herb/rules/a.so", ".herb/rules/nested/b.so"}, opened)
	assert.True(t, l.Registry().Has("custom-todo"))
	assert.Len(t, fileRules(res), 2)
}

func TestLoadCustomRules_OverrideWarns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeRuleFiles(t, dir, ".herb/rules/upper.so")

	opener := lint.OpenerFunc(func(string) ([]lint.Factory, error) {
		return []lint.Factory{overridingUpperRule}, nil
	})
	l := lint.New(erb.New(), erb.NewPrinter(), lint.WithRules(newUpperTagRule), lint.WithOpener(opener))

	res, err := l.LoadCustomRules(context.Background(), lint.LoadOptions{BaseDir: dir, Silent: true})
	require.NoError(t, err)

	infos := fileRules(res)
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Replaced)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[len(res.Warnings)-1], `custom rule "test-upper"`)
	assert.Contains(t, res.Warnings[len(res.Warnings)-1], "overrides an existing rule")

	// Exactly one rule with that name runs, and it is the custom one.
	lintRes := l.Lint("<DIV></div>", &lint.Context{})
	offenses := 0
	for _, o := range lintRes.Offenses {
		if o.Rule == "test-upper" {
			offenses++
			assert.Equal(t, config.SeverityWarning, o.Severity)
		}
	}
	assert.Equal(t, 1, offenses)
}

func TestLoadCustomRules_FailuresBecomeWarnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeRuleFiles(t, dir, ".herb/rules/bad.so", ".herb/rules/good.so", ".herb/rules/invalid.so")

	opener := lint.OpenerFunc(func(path string) ([]lint.Factory, error) {
		switch filepath.Base(path) {
		case "bad.so":
			return nil, errBadPlugin
		case "invalid.so":
			return []lint.Factory{newMislabeledRule}, nil
		default:
			return []lint.Factory{customTodoRule}, nil
		}
	})
	l := lint.New(erb.New(), erb.NewPrinter(), lint.WithRules(), lint.WithOpener(opener))

	res, err := l.LoadCustomRules(context.Background(), lint.LoadOptions{BaseDir: dir, Silent: true})
	require.NoError(t, err)

	assert.Len(t, fileRules(res), 1)
	assert.True(t, l.Registry().Has("custom-todo"))
	assert.False(t, l.Registry().Has("test-mislabeled"))

	var sawBad, sawInvalid bool
	for _, w := range res.Warnings {
		sawBad = sawBad || containsAll(w, "bad.so", "bad plugin")
		sawInvalid = sawInvalid || containsAll(w, "invalid.so", "kind mismatch")
	}
	assert.True(t, sawBad)
	assert.True(t, sawInvalid)
}

func TestLoadCustomRules_RunsOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeRuleFiles(t, dir, ".herb/rules/a.so")

	calls := 0
	opener := lint.OpenerFunc(func(string) ([]lint.Factory, error) {
		calls++
		return []lint.Factory{customTodoRule}, nil
	})
	l := lint.New(erb.New(), erb.NewPrinter(), lint.WithRules(), lint.WithOpener(opener))

	_, err := l.LoadCustomRules(context.Background(), lint.LoadOptions{BaseDir: dir, Silent: true})
	require.NoError(t, err)

	again, err := l.LoadCustomRules(context.Background(), lint.LoadOptions{BaseDir: dir, Silent: true})
	require.NoError(t, err)
	assert.Zero(t, again.Count)
	assert.Equal(t, 1, calls)
}

func TestLoadCustomRules_CustomPatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeRuleFiles(t, dir, "linters/x.so", ".herb/rules/a.so")

	var opened []string
	opener := lint.OpenerFunc(func(path string) ([]lint.Factory, error) {
		opened = append(opened, filepath.Base(path))
		return nil, nil
	})
	l := lint.New(erb.New(), erb.NewPrinter(), lint.WithRules(), lint.WithOpener(opener))

	res, err := l.LoadCustomRules(context.Background(), lint.LoadOptions{
		BaseDir:  dir,
		Patterns: []string{"linters/*.so", "[broken"},
		Silent:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"x.so"}, opened)
	assert.NotEmpty(t, res.Warnings, "the invalid pattern is reported")
}

func TestLoadCustomRules_MissingBaseDir(t *testing.T) {
	t.Parallel()

	l := lint.New(erb.New(), erb.NewPrinter(), lint.WithRules(),
		lint.WithOpener(lint.OpenerFunc(func(string) ([]lint.Factory, error) { return nil, nil })))

	_, err := l.LoadCustomRules(context.Background(), lint.LoadOptions{
		BaseDir: filepath.Join(t.TempDir(), "missing"),
		Silent:  true,
	})
	require.Error(t, err)
}

func TestPluginOpener_InvalidFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeRuleFiles(t, dir, "empty.so")

	_, err := lint.PluginOpener{}.Open(filepath.Join(dir, "empty.so"))
	require.Error(t, err)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

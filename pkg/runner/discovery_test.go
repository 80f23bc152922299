package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/herblint/pkg/runner"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func names(files []runner.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"app/views/users/show.html.erb":       "<p></p>\n",
		"app/views/users/_form.html.erb":      "<form></form>\n",
		"app/views/layouts/legacy.rhtml":      "<html></html>\n",
		"app/views/users/index.json.jbuilder": "json.x 1\n",
		"app/assets/app.js":                   "x()\n",
		"node_modules/pkg/view.html.erb":      "<p></p>\n",
		".cache/tmp.html.erb":                 "<p></p>\n",
		"README.md":                           "# readme\n",
	})

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "templates only",
			opts: runner.Options{WorkingDir: dir},
			want: []string{
				"app/views/layouts/legacy.rhtml",
				"app/views/users/_form.html.erb",
				"app/views/users/show.html.erb",
			},
		},
		{
			name: "exclude glob",
			opts: runner.Options{WorkingDir: dir, Exclude: []string{"app/views/layouts/**"}},
			want: []string{"app/views/users/_form.html.erb", "app/views/users/show.html.erb"},
		},
		{
			name: "exclude file glob",
			opts: runner.Options{WorkingDir: dir, Exclude: []string{"**/_*.html.erb"}},
			want: []string{"app/views/layouts/legacy.rhtml", "app/views/users/show.html.erb"},
		},
		{
			name: "include adds files",
			opts: runner.Options{WorkingDir: dir, Paths: []string{"app"}, Include: []string{"**/*.js"}},
			want: []string{
				"app/assets/app.js",
				"app/views/layouts/legacy.rhtml",
				"app/views/users/_form.html.erb",
				"app/views/users/show.html.erb",
			},
		},
		{
			name: "subdirectory with root",
			opts: runner.Options{WorkingDir: filepath.Join(dir, "app", "views"), Root: dir, Paths: []string{"users"}},
			want: []string{"app/views/users/_form.html.erb", "app/views/users/show.html.erb"},
		},
		{
			name: "deduplicates overlapping paths",
			opts: runner.Options{WorkingDir: dir, Paths: []string{"app/views/users", "app/views/users/show.html.erb"}},
			want: []string{"app/views/users/_form.html.erb", "app/views/users/show.html.erb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			files, err := runner.Discover(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(files))
			for _, f := range files {
				assert.True(t, filepath.IsAbs(f.Path), f.Path)
			}
		})
	}
}

func TestDiscoverExplicitFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"page.html":     "<div>static</div>\n",
		"snippet":       "<div><%= x %></div>\n",
		"notes.txt":     "just text\n",
		"skip.html.erb": "<p></p>\n",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{"page.html", "snippet", "notes.txt", "skip.html.erb"},
		Exclude:    []string{"skip.html.erb"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"page.html", "snippet"}, names(files))
}

func TestDiscoverMissingPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"nope"},
	})
	require.Error(t, err)
}

func TestDiscoverInvalidGlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.html.erb": "<p></p>\n"})

	_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Exclude: []string{"a/["}})
	require.Error(t, err)
}

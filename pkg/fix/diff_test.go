package fix_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sourcegraph/go-diff/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/herblint/pkg/fix"
)

func TestGenerateDiff(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for empty inputs", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, fix.GenerateDiff("a.html.erb", nil, nil))
		assert.Nil(t, fix.GenerateDiff("a.html.erb", []byte{}, []byte{}))
	})

	t.Run("returns nil for identical content", func(t *testing.T) {
		t.Parallel()

		content := []byte("<div>\n</div>\n")
		assert.Nil(t, fix.GenerateDiff("a.html.erb", content, content))
	})

	t.Run("detects single line change", func(t *testing.T) {
		t.Parallel()

		d := fix.GenerateDiff("a.html.erb", []byte("<DIV>\n</DIV>\n"), []byte("<div>\n</DIV>\n"))
		require.NotNil(t, d)
		assert.True(t, d.HasChanges())
		require.Len(t, d.Hunks, 1)
		assert.Equal(t, 1, d.Additions)
		assert.Equal(t, 1, d.Deletions)

		h := d.Hunks[0]
		assert.Equal(t, 1, h.OriginalStart)
		assert.Equal(t, 2, h.OriginalCount)
		assert.Equal(t, 1, h.ModifiedStart)
		assert.Equal(t, 2, h.ModifiedCount)
		assert.Equal(t, []fix.DiffLine{
			{Kind: fix.DiffLineRemove, Content: "<DIV>"},
			{Kind: fix.DiffLineAdd, Content: "<div>"},
			{Kind: fix.DiffLineContext, Content: "</DIV>"},
		}, h.Lines)
	})

	t.Run("detects addition", func(t *testing.T) {
		t.Parallel()

		d := fix.GenerateDiff("a.html.erb", []byte("one\ntwo\n"), []byte("one\ntwo\nthree\n"))
		require.NotNil(t, d)
		assert.Contains(t, d.String(), "+three\n")
		assert.Equal(t, 1, d.Additions)
		assert.Equal(t, 0, d.Deletions)
	})

	t.Run("detects deletion", func(t *testing.T) {
		t.Parallel()

		d := fix.GenerateDiff("a.html.erb", []byte("one\ntwo\nthree\n"), []byte("one\nthree\n"))
		require.NotNil(t, d)
		assert.Contains(t, d.String(), "-two\n")
		assert.Equal(t, 1, d.Deletions)
	})

	t.Run("ignores a trailing newline only change", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, fix.GenerateDiff("a.html.erb", []byte("x"), []byte("x\n")))
	})

	t.Run("new file", func(t *testing.T) {
		t.Parallel()

		d := fix.GenerateDiff("a.html.erb", nil, []byte("a\nb\n"))
		require.NotNil(t, d)
		assert.Equal(t, 2, d.Additions)
		assert.Equal(t, 0, d.Hunks[0].OriginalCount)
	})
}

func TestGenerateDiff_Hunks(t *testing.T) {
	t.Parallel()

	lines := func(n int, change map[int]string) []byte {
		var sb strings.Builder
		for i := 1; i <= n; i++ {
			if s, ok := change[i]; ok {
				sb.WriteString(s)
			} else {
				fmt.Fprintf(&sb, "line %d", i)
			}
			sb.WriteByte('\n')
		}
		return []byte(sb.String())
	}

	t.Run("separate changes make separate hunks", func(t *testing.T) {
		t.Parallel()

		d := fix.GenerateDiff("a.html.erb", lines(30, nil), lines(30, map[int]string{2: "x", 25: "y"}))
		require.NotNil(t, d)
		require.Len(t, d.Hunks, 2)

		assert.Equal(t, 1, d.Hunks[0].OriginalStart)
		assert.Equal(t, 5, d.Hunks[0].OriginalCount)
		assert.Equal(t, 22, d.Hunks[1].OriginalStart)
		assert.Equal(t, 22, d.Hunks[1].ModifiedStart)
		assert.Equal(t, 7, d.Hunks[1].OriginalCount)
	})

	t.Run("close changes merge", func(t *testing.T) {
		t.Parallel()

		d := fix.GenerateDiff("a.html.erb", lines(20, nil), lines(20, map[int]string{5: "x", 11: "y"}))
		require.NotNil(t, d)
		require.Len(t, d.Hunks, 1)
		assert.Equal(t, 2, d.Hunks[0].OriginalStart)
		assert.Equal(t, 13, d.Hunks[0].OriginalCount)
	})

	t.Run("line numbers shift after insertions", func(t *testing.T) {
		t.Parallel()

		orig := lines(20, nil)
		mod := []byte("new\n" + string(lines(20, map[int]string{18: "x"})))
		d := fix.GenerateDiff("a.html.erb", orig, mod)
		require.NotNil(t, d)
		require.Len(t, d.Hunks, 2)
		assert.Equal(t, 15, d.Hunks[1].OriginalStart)
		assert.Equal(t, 16, d.Hunks[1].ModifiedStart)
	})
}

func TestDiff_String(t *testing.T) {
	t.Parallel()

	t.Run("nil diff", func(t *testing.T) {
		t.Parallel()

		var d *fix.Diff
		assert.Empty(t, d.String())
		assert.Empty(t, d.FullString())
		assert.Empty(t, d.GitHeader())
		assert.False(t, d.HasChanges())
	})

	t.Run("no hunks", func(t *testing.T) {
		t.Parallel()

		d := &fix.Diff{Path: "a.html.erb"}
		assert.Empty(t, d.String())
		assert.Nil(t, d.FileDiff())
	})

	t.Run("unified format", func(t *testing.T) {
		t.Parallel()

		d := fix.GenerateDiff("app/views/a.html.erb", []byte("<p>x   \n"), []byte("<p>x\n"))
		require.NotNil(t, d)

		out := d.String()
		assert.True(t, strings.HasPrefix(out, "--- a/app/views/a.html.erb\n+++ b/app/views/a.html.erb\n"), out)
		assert.Contains(t, out, "@@ -1,1 +1,1 @@")
		assert.Contains(t, out, "-<p>x   \n+<p>x\n")
	})

	t.Run("git header", func(t *testing.T) {
		t.Parallel()

		d := fix.GenerateDiff("/a.html.erb", []byte("a\n"), []byte("b\n"))
		require.NotNil(t, d)
		assert.Equal(t, "diff --git a/a.html.erb b/a.html.erb", d.GitHeader())
		assert.True(t, strings.HasPrefix(d.FullString(), d.GitHeader()+"\n--- a/a.html.erb\n"))
	})
}

func TestDiff_RoundTrip(t *testing.T) {
	t.Parallel()

	orig := []byte("<ul>\n  <li>Item 1\n  <li>Item 2\n</ul>\n")
	mod := []byte("<ul>\n  <li>Item 1</li>\n  <li>Item 2</li>\n</ul>\n")

	d := fix.GenerateDiff("list.html.erb", orig, mod)
	require.NotNil(t, d)

	parsed, err := diff.ParseFileDiff([]byte(d.FullString()))
	require.NoError(t, err)
	assert.Equal(t, "a/list.html.erb", parsed.OrigName)
	assert.Equal(t, "b/list.html.erb", parsed.NewName)
	require.Len(t, parsed.Hunks, 1)

	stat := parsed.Stat()
	assert.Equal(t, int32(d.Additions+d.Deletions), stat.Added+stat.Deleted+2*stat.Changed)
}

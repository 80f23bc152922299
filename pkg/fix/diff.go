// Package fix renders the changes autofix made to a file as a unified diff.
package fix

import (
	"bytes"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// Diff is a line diff between the original and fixed content of one file.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	Original []byte
	Modified []byte

	Hunks []DiffHunk

	// Additions and Deletions count added and removed lines.
	Additions int
	Deletions int
}

// DiffHunk is one block of changes with surrounding context.
type DiffHunk struct {
	// OriginalStart and ModifiedStart are 1-based line numbers.
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int

	Lines []DiffLine
}

// DiffLine is a single line of a hunk.
type DiffLine struct {
	Kind DiffLineKind

	// Content is the line without its diff prefix or newline.
	Content string
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove
)

func (k DiffLineKind) prefix() byte {
	switch k {
	case DiffLineAdd:
		return '+'
	case DiffLineRemove:
		return '-'
	default:
		return ' '
	}
}

// contextLines is the number of unchanged lines shown around changes.
const contextLines = 3

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if bytes.Equal(original, modified) {
		return nil
	}

	ops := diffLines(splitLines(original), splitLines(modified))
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		// Only a trailing newline differs.
		return nil
	}

	d := &Diff{Path: path, Original: original, Modified: modified, Hunks: hunks}
	for _, op := range ops {
		switch op.kind {
		case DiffLineAdd:
			d.Additions++
		case DiffLineRemove:
			d.Deletions++
		case DiffLineContext:
		}
	}
	return d
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// FileDiff converts the diff to its go-diff form.
func (d *Diff) FileDiff() *diff.FileDiff {
	if !d.HasChanges() {
		return nil
	}

	path := strings.TrimPrefix(d.Path, "/")
	fd := &diff.FileDiff{
		OrigName: "a/" + path,
		NewName:  "b/" + path,
	}
	for _, h := range d.Hunks {
		var body bytes.Buffer
		for _, line := range h.Lines {
			body.WriteByte(line.Kind.prefix())
			body.WriteString(line.Content)
			body.WriteByte('\n')
		}
		fd.Hunks = append(fd.Hunks, &diff.Hunk{
			OrigStartLine: int32(h.OriginalStart), //nolint:gosec // Line numbers fit in int32.
			OrigLines:     int32(h.OriginalCount), //nolint:gosec // Line numbers fit in int32.
			NewStartLine:  int32(h.ModifiedStart), //nolint:gosec // Line numbers fit in int32.
			NewLines:      int32(h.ModifiedCount), //nolint:gosec // Line numbers fit in int32.
			Body:          body.Bytes(),
		})
	}
	return fd
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return "diff --git a/" + path + " b/" + path
}

// String returns the diff in unified format, without the git header.
func (d *Diff) String() string {
	return d.print(false)
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	return d.print(true)
}

func (d *Diff) print(gitHeader bool) string {
	fd := d.FileDiff()
	if fd == nil {
		return ""
	}
	if gitHeader {
		fd.Extended = []string{d.GitHeader()}
	}
	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return ""
	}
	return string(out)
}

// splitLines splits content into lines without their newlines.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// diffOp is one line of the edit script.
type diffOp struct {
	kind    DiffLineKind
	content string
}

// diffLines computes a minimal line edit script from the longest common
// subsequence of orig and mod. Removals come before additions within a
// change.
func diffLines(orig, mod []string) []diffOp {
	// suffix[i][j] is the LCS length of orig[i:] and mod[j:].
	suffix := make([][]int, len(orig)+1)
	for i := range suffix {
		suffix[i] = make([]int, len(mod)+1)
	}
	for i := len(orig) - 1; i >= 0; i-- {
		for j := len(mod) - 1; j >= 0; j-- {
			if orig[i] == mod[j] {
				suffix[i][j] = suffix[i+1][j+1] + 1
			} else {
				suffix[i][j] = max(suffix[i+1][j], suffix[i][j+1])
			}
		}
	}

	ops := make([]diffOp, 0, max(len(orig), len(mod)))
	i, j := 0, 0
	for i < len(orig) || j < len(mod) {
		switch {
		case i < len(orig) && j < len(mod) && orig[i] == mod[j]:
			ops = append(ops, diffOp{kind: DiffLineContext, content: orig[i]})
			i++
			j++
		case j >= len(mod) || (i < len(orig) && suffix[i+1][j] >= suffix[i][j+1]):
			ops = append(ops, diffOp{kind: DiffLineRemove, content: orig[i]})
			i++
		default:
			ops = append(ops, diffOp{kind: DiffLineAdd, content: mod[j]})
			j++
		}
	}
	return ops
}

// groupHunks cuts the edit script into hunks, merging changes separated by
// no more than twice the context size.
func groupHunks(ops []diffOp) []DiffHunk {
	var hunks []DiffHunk

	origLine, modLine := 1, 1
	start := -1 // first op of the open hunk
	lastChange := -1
	var cur DiffHunk

	closeHunk := func(end int) {
		for k := start; k < end; k++ {
			cur.Lines = append(cur.Lines, DiffLine{Kind: ops[k].kind, Content: ops[k].content})
			switch ops[k].kind {
			case DiffLineContext:
				cur.OriginalCount++
				cur.ModifiedCount++
			case DiffLineRemove:
				cur.OriginalCount++
			case DiffLineAdd:
				cur.ModifiedCount++
			}
		}
		hunks = append(hunks, cur)
		start = -1
	}

	for k, op := range ops {
		if op.kind != DiffLineContext {
			if start >= 0 && k-lastChange-1 > 2*contextLines {
				closeHunk(lastChange + 1 + contextLines)
			}
			if start < 0 {
				first := max(0, k-contextLines)
				cur = DiffHunk{
					OriginalStart: origLine - countKind(ops[first:k], DiffLineAdd),
					ModifiedStart: modLine - countKind(ops[first:k], DiffLineRemove),
				}
				start = first
			}
			lastChange = k
		}
		if op.kind != DiffLineAdd {
			origLine++
		}
		if op.kind != DiffLineRemove {
			modLine++
		}
	}
	if start >= 0 {
		closeHunk(min(len(ops), lastChange+1+contextLines))
	}

	return hunks
}

// countKind counts the ops in window that are not of the skipped kind.
func countKind(window []diffOp, skip DiffLineKind) int {
	n := 0
	for _, op := range window {
		if op.kind != skip {
			n++
		}
	}
	return n
}

package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/herblint/internal/ui/pretty"
	"github.com/yaklabco/herblint/pkg/fix"
	"github.com/yaklabco/herblint/pkg/runner"
)

// DiffReporter writes the changes autofix made, or would make, as unified
// diffs. It reports the number of changed files.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var files, additions, deletions int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Name),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		d := fileDiff(&file)
		if !d.HasChanges() {
			continue
		}
		files++
		additions += d.Additions
		deletions += d.Deletions
		r.writeDiff(d)
	}

	if files > 0 && r.opts.ShowSummary {
		r.writeSummary(files, additions, deletions)
	}
	return files, nil
}

// fileDiff returns the diff of fixes that were written or, in dry-run mode,
// would be.
func fileDiff(file *runner.FileOutcome) *fix.Diff {
	if file.Result == nil || file.Result.Skipped {
		return nil
	}
	return file.Result.Diff
}

func (r *DiffReporter) writeDiff(d *fix.Diff) {
	for line := range strings.SplitSeq(strings.TrimSuffix(d.FullString(), "\n"), "\n") {
		var styled string
		switch {
		case strings.HasPrefix(line, "diff --git"):
			styled = r.styles.DiffHeader.Render(line)
		case strings.HasPrefix(line, "@@"):
			styled = r.styles.DiffHunk.Render(line)
		case strings.HasPrefix(line, "+"):
			styled = r.styles.DiffAdd.Render(line)
		case strings.HasPrefix(line, "-"):
			styled = r.styles.DiffRemove.Render(line)
		default:
			styled = r.styles.DiffContext.Render(line)
		}
		fmt.Fprintln(r.bw, styled)
	}
	fmt.Fprintln(r.bw)
}

func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, pluralize(files, "file"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", additions, pluralize(additions, "insertion"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, pluralize(deletions, "deletion"))))
	}
	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}

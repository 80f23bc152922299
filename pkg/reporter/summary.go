package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/herblint/internal/ui/pretty"
	"github.com/yaklabco/herblint/pkg/analysis"
)

const (
	tableWidth    = 90
	nameColWidth  = 50
	numColWidth   = 9
	maxNameLength = 48
)

// padRight pads s to width. Pad before styling: ANSI codes count as bytes.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer writes per-rule and per-file tables followed by totals.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	for _, fe := range report.Errors {
		fmt.Fprintf(r.out, "%s: %s\n", r.styles.FilePath.Render(fe.File), r.styles.Error.Render("error: "+fe.Message))
	}

	if !report.Totals.HasIssues() {
		fmt.Fprintln(r.out, r.styles.Success.Render("No offenses found"))
		return nil
	}

	r.renderRules(report.ByRule)
	fmt.Fprintln(r.out)
	r.renderFiles(report.ByFile)
	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)
	return nil
}

func (r *SummaryRenderer) header(title, first string) {
	sep := r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth))
	fmt.Fprintln(r.out, r.styles.Bold.Render(title))
	fmt.Fprintln(r.out, sep)
	fmt.Fprintln(r.out, strings.Join([]string{
		r.styles.TableHeader.Render(padRight(first, nameColWidth)),
		r.styles.TableHeader.Render(padLeft("Offenses", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Tolerated", numColWidth)),
	}, " "))
	fmt.Fprintln(r.out, sep)
}

func (r *SummaryRenderer) row(name string, offenses, errs, warnings, tolerated int, suffix string) {
	padded := padRight(name, nameColWidth)
	switch {
	case errs > 0:
		padded = r.styles.Error.Render(padded)
	case warnings > 0:
		padded = r.styles.Warning.Render(padded)
	}
	fmt.Fprintln(r.out, strings.Join([]string{
		padded,
		padLeft(strconv.Itoa(offenses), numColWidth),
		padLeft(strconv.Itoa(errs), numColWidth),
		padLeft(strconv.Itoa(warnings), numColWidth),
		padLeft(strconv.Itoa(tolerated), numColWidth),
	}, " ")+suffix)
}

func (r *SummaryRenderer) renderRules(rules []analysis.RuleAnalysis) {
	if len(rules) == 0 {
		return
	}
	r.header("Rules", "Rule")
	for _, rule := range rules {
		suffix := ""
		if rule.Fixable {
			suffix = " " + r.styles.Success.Render("fixable")
		}
		r.row(truncateName(rule.Rule), rule.Offenses, rule.Errors, rule.Warnings, rule.Tolerated, suffix)
	}
}

func (r *SummaryRenderer) renderFiles(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}
	r.header("Files", "File")
	for _, file := range files {
		r.row(truncatePath(file.Path), file.Offenses, file.Errors, file.Warnings, file.Tolerated, "")
	}
}

func (r *SummaryRenderer) renderTotals(t analysis.Totals) {
	line := fmt.Sprintf("%d %s", t.Offenses, pluralize(t.Offenses, "offense"))

	var severities []string
	if t.Errors > 0 {
		severities = append(severities, r.styles.Error.Render(fmt.Sprintf("%d %s", t.Errors, pluralize(t.Errors, "error"))))
	}
	if t.Warnings > 0 {
		severities = append(severities, r.styles.Warning.Render(fmt.Sprintf("%d %s", t.Warnings, pluralize(t.Warnings, "warning"))))
	}
	if len(severities) > 0 {
		line += " (" + strings.Join(severities, ", ") + ")"
	}
	line += fmt.Sprintf(" in %d %s", t.FilesWithIssues, pluralize(t.FilesWithIssues, "file"))
	if t.Tolerated > 0 {
		line += fmt.Sprintf(", %d tolerated", t.Tolerated)
	}
	if t.Fixable > 0 {
		line += ", " + r.styles.Success.Render(fmt.Sprintf("%d fixable", t.Fixable))
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+line)
}

func truncateName(name string) string {
	if len(name) <= maxNameLength {
		return name
	}
	return name[:maxNameLength-1] + "…"
}

// truncatePath keeps the tail of the path, which names the file.
func truncatePath(path string) string {
	if len(path) <= maxNameLength {
		return path
	}
	return "…" + path[len(path)-(maxNameLength-1):]
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

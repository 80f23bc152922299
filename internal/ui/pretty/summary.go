package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/herblint/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine renders run statistics on one line, for example
// "3 offenses (2 errors, 1 warning) in 2 files, 2 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.Offenses == 0 {
		msg := s.Success.Render("No offenses found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files")))
		if stats.Fixed > 0 {
			msg += ", " + s.fixedPart(stats)
		}
		if stats.Ignored > 0 {
			msg += s.Dim.Render(fmt.Sprintf(", %d ignored", stats.Ignored))
		}
		return msg + "\n"
	}

	var severities []string
	if stats.Errors > 0 {
		severities = append(severities, s.Error.Render(fmt.Sprintf("%d %s", stats.Errors, plural(stats.Errors, "error", "errors"))))
	}
	if stats.Warnings > 0 {
		severities = append(severities, s.Warning.Render(fmt.Sprintf("%d %s", stats.Warnings, plural(stats.Warnings, "warning", "warnings"))))
	}
	if other := stats.Offenses - stats.Errors - stats.Warnings; other > 0 {
		severities = append(severities, s.Info.Render(fmt.Sprintf("%d info", other)))
	}

	head := fmt.Sprintf("%d %s", stats.Offenses, plural(stats.Offenses, "offense", "offenses"))
	if len(severities) > 0 {
		head += " (" + strings.Join(severities, ", ") + ")"
	}
	head += fmt.Sprintf(" in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, "file", "files"))

	parts := []string{head}
	if stats.Fixable > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.Fixable)))
	}
	if stats.Fixed > 0 {
		parts = append(parts, s.fixedPart(stats))
	}
	if stats.Tolerated > 0 {
		parts = append(parts, s.Tolerated.Render(fmt.Sprintf("%d tolerated", stats.Tolerated)))
	}
	if stats.Ignored > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d ignored", stats.Ignored)))
	}
	return strings.Join(parts, ", ") + "\n"
}

func (s *Styles) fixedPart(stats runner.Stats) string {
	return s.Success.Render(fmt.Sprintf("%d fixed in %d %s",
		stats.Fixed, stats.FilesModified, plural(stats.FilesModified, "file", "files")))
}

// FormatSummary renders run statistics as a block with a verdict line.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	row := func(label string, style func(...string) string, value int) {
		fmt.Fprintf(&b, "  %-22s%s\n", label+":", style(strconv.Itoa(value)))
	}

	b.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row("Files checked", s.SummaryValue.Render, stats.FilesProcessed)
	if stats.FilesWithIssues > 0 {
		row("Files with offenses", s.Failure.Render, stats.FilesWithIssues)
	}
	if stats.FilesModified > 0 {
		row("Files modified", s.Success.Render, stats.FilesModified)
	}
	if stats.FilesErrored > 0 {
		row("Files errored", s.Failure.Render, stats.FilesErrored)
	}
	b.WriteString("\n")

	row("Offenses", s.SummaryValue.Render, stats.Offenses)
	if stats.Errors > 0 {
		row("  Errors", s.Error.Render, stats.Errors)
	}
	if stats.Warnings > 0 {
		row("  Warnings", s.Warning.Render, stats.Warnings)
	}
	if stats.Tolerated > 0 {
		row("  Tolerated", s.Tolerated.Render, stats.Tolerated)
	}
	if stats.Fixed > 0 {
		row("Fixed", s.Success.Render, stats.Fixed)
	}
	b.WriteString("\n")

	switch {
	case stats.Failing > 0:
		b.WriteString(s.Failure.Render("Lint failed with errors"))
	case stats.Errors > 0:
		b.WriteString(s.Warning.Render("Lint passed with tolerated errors"))
	case stats.Warnings > 0:
		b.WriteString(s.Warning.Render("Lint completed with warnings"))
	default:
		b.WriteString(s.Success.Render("Lint passed"))
	}
	b.WriteString("\n")

	return b.String()
}

package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
)

const (
	offenseIndent = "  "
	gutterWidth   = 6
	ellipsis      = "…"
)

// FormatOffense renders one offense as
//
//	path:line:col  severity  message  rule
//
// followed, when sourceLine is not empty, by the line and a marker under
// the offending range. width bounds the rendered source line.
func (s *Styles) FormatOffense(name string, o *lint.Offense, sourceLine string, width int) string {
	var b strings.Builder

	location := s.FilePath.Render(name) + s.Location.Render(
		fmt.Sprintf(":%d:%d", o.Location.Start.Line, o.Location.Start.Column))

	b.WriteString(offenseIndent)
	b.WriteString(location)
	b.WriteString("  ")
	b.WriteString(s.FormatSeverity(o.Severity))
	b.WriteString("  ")
	b.WriteString(s.Message.Render(o.Message))
	b.WriteString("  ")
	b.WriteString(s.Rule.Render(o.Rule))
	if o.Tolerated {
		b.WriteString(" " + s.Tolerated.Render("(tolerated)"))
	}
	if o.CanAutofix() {
		b.WriteString(" " + s.Dim.Render("[fixable]"))
	}
	b.WriteString("\n")

	if sourceLine != "" {
		b.WriteString(s.FormatSourceContext(o, sourceLine, width))
	}
	return b.String()
}

// FormatSourceContext renders the offense's first line with a gutter and
// a caret run under the reported columns.
func (s *Styles) FormatSourceContext(o *lint.Offense, line string, width int) string {
	start := max(o.Location.Start.Column, 1)
	span := 1
	if o.Location.End.Line == o.Location.Start.Line && o.Location.End.Column > start {
		span = o.Location.End.Column - start
	} else if o.Location.End.Line > o.Location.Start.Line && len(line) >= start {
		span = len(line) - start + 1
	}

	avail := width - len(offenseIndent) - gutterWidth - 3
	if avail > 0 && len(line) > avail {
		line = line[:avail] + ellipsis
		if start > avail {
			start, span = avail+1, 1
		} else {
			span = min(span, avail-start+1)
		}
	}
	span = max(span, 1)

	num := strconv.Itoa(o.Location.Start.Line)
	gutter := strings.Repeat(" ", max(gutterWidth-len(num), 0)) + num
	blank := strings.Repeat(" ", gutterWidth)

	var b strings.Builder
	b.WriteString(offenseIndent + s.LineNumber.Render(gutter+" | ") + s.SourceLine.Render(line) + "\n")
	b.WriteString(offenseIndent + s.LineNumber.Render(blank+" | ") +
		strings.Repeat(" ", start-1) + s.Caret.Render(strings.Repeat("^", span)) + "\n")
	return b.String()
}

// FormatSeverity returns the styled severity name.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	case config.SeverityHint:
		return s.Hint.Render("hint")
	default:
		return string(sev)
	}
}

// FormatFileHeader renders the heading of a file group.
func (s *Styles) FormatFileHeader(name string, count int) string {
	header := s.FilePath.Render(name)
	if count > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", count, plural(count, "offense", "offenses")))
	}
	return header
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

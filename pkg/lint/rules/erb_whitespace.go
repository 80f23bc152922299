package rules

import (
	"strings"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
	"github.com/yaklabco/herblint/pkg/langdetect"
	"github.com/yaklabco/herblint/pkg/lint"
)

// NoTrailingWhitespaceRule checks for spaces and tabs at the end of lines
// in template text.
type NoTrailingWhitespaceRule struct {
	lint.BaseRule
}

// NewNoTrailingWhitespaceRule creates a new no trailing whitespace rule.
func NewNoTrailingWhitespaceRule() *NoTrailingWhitespaceRule {
	return &NoTrailingWhitespaceRule{
		BaseRule: lint.NewBaseRule(
			"erb-no-trailing-whitespace",
			"Lines should not end with whitespace",
			lint.KindAST,
			lint.EnabledWith(config.SeverityError),
		),
	}
}

// Check flags one offense per line that ends in whitespace. A text node's
// last segment is a line end only when the node ends the file.
func (r *NoTrailingWhitespaceRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense

	for _, text := range res.Tree.FindByKind(erbast.NodeText) {
		if !checksTrailingWhitespace(res.Tree, text) {
			continue
		}

		atEOF := text.Range.End == len(res.Source)
		segments := strings.Split(text.Value, "\n")
		offset := text.Range.Start
		for i, seg := range segments {
			last := i == len(segments)-1
			line := strings.TrimSuffix(seg, "\r")
			if n := lint.TrailingWhitespaceLength(line); n > 0 && (!last || atEOF) {
				end := offset + len(line)
				loc := lint.LocationAt(res.Lines, end-n, end)
				offenses = append(offenses, r.NewOffenseAt(loc, "Extra whitespace detected at end of line.").
					FixableWith(text.ID, i).Build())
			}
			offset += len(seg) + 1
		}
	}

	return offenses, nil
}

// checksTrailingWhitespace reports whether a text node's whitespace is
// layout rather than content.
func checksTrailingWhitespace(tree *erbast.Tree, text *erbast.Node) bool {
	if parent := tree.Node(text.Parent); parent != nil && parent.Kind == erbast.NodeAttributeValue {
		return false
	}
	return !lint.InsideElement(tree, text.ID, "pre", "textarea")
}

// Autofix trims the line segment recorded in the offense.
func (r *NoTrailingWhitespaceRule) Autofix(o lint.Offense, tree *erbast.Tree, _ *lint.RuleContext) *erbast.Tree {
	text := tree.Node(o.AutofixContext.Node)
	idx, ok := o.AutofixContext.Data.(int)
	if text == nil || text.Kind != erbast.NodeText || !ok {
		return nil
	}

	segments := strings.Split(text.Value, "\n")
	if idx < 0 || idx >= len(segments) {
		return nil
	}
	seg := segments[idx]
	cr := strings.HasSuffix(seg, "\r")
	line := strings.TrimSuffix(seg, "\r")
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == line {
		return nil
	}
	if cr {
		trimmed += "\r"
	}
	segments[idx] = trimmed
	text.Value = strings.Join(segments, "\n")
	return tree
}

// RequiresTrailingNewlineRule checks that ERB files end with a newline.
type RequiresTrailingNewlineRule struct {
	lint.BaseRule
}

// NewRequiresTrailingNewlineRule creates a new trailing newline rule.
func NewRequiresTrailingNewlineRule() *RequiresTrailingNewlineRule {
	return &RequiresTrailingNewlineRule{
		BaseRule: lint.NewBaseRule(
			"erb-requires-trailing-newline",
			"Files should end with a newline",
			lint.KindSource,
			lint.EnabledWith(config.SeverityError),
		),
	}
}

// IsEnabled restricts the rule to files recognized as ERB templates.
func (r *RequiresTrailingNewlineRule) IsEnabled(_ string, ctx *lint.RuleContext) bool {
	return langdetect.IsERB(ctx.FileName)
}

// Check flags a non-empty source whose last byte is not a newline.
func (r *RequiresTrailingNewlineRule) Check(source string, _ *lint.RuleContext) ([]lint.Offense, error) {
	if source == "" || strings.HasSuffix(source, "\n") {
		return nil, nil
	}

	lines := erbast.NewLineIndex(source)
	loc := lint.LocationAt(lines, len(source), len(source))
	return []lint.Offense{
		r.NewOffenseAt(loc, "File must end with trailing newline.").Build(),
	}, nil
}

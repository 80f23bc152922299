package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
	"github.com/yaklabco/herblint/pkg/langdetect"
	"github.com/yaklabco/herblint/pkg/lint"
)

// NoConsecutiveCommentsRule flags runs of single-line ERB comments that
// could be one multi-line comment.
type NoConsecutiveCommentsRule struct {
	lint.BaseRule
}

// NewNoConsecutiveCommentsRule creates a new no consecutive comments rule.
func NewNoConsecutiveCommentsRule() *NoConsecutiveCommentsRule {
	return &NoConsecutiveCommentsRule{
		BaseRule: lint.NewBaseRule(
			"erb-no-consecutive-comments",
			"Consecutive single-line ERB comments should be one multi-line comment",
			lint.KindAST,
			lint.EnabledWith(config.SeverityWarning),
		),
	}
}

// Check reports each run of two or more comments on adjacent lines.
// herb: directive comments break a run.
func (r *NoConsecutiveCommentsRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense

	seen := make(map[erbast.NodeID]bool)
	for _, comment := range lint.ERBComments(res.Tree) {
		parent := comment.Parent
		if seen[parent] {
			continue
		}
		seen[parent] = true

		for _, run := range commentRuns(res.Tree, res.Tree.Node(parent)) {
			first, last := run[0], run[len(run)-1]
			loc := erbast.Location{Start: first.Location.Start, End: last.Location.End}
			msg := fmt.Sprintf("Found %d consecutive single-line ERB comments. "+
				"Combine them into one multi-line `<%%# ... %%>` comment.", len(run))
			offenses = append(offenses, r.NewOffenseAt(loc, msg).Build())
		}
	}

	return offenses, nil
}

// commentRuns groups the plain single-line comments among parent's
// children that follow each other on consecutive lines.
func commentRuns(tree *erbast.Tree, parent *erbast.Node) [][]*erbast.Node {
	var (
		runs    [][]*erbast.Node
		current []*erbast.Node
	)
	flush := func() {
		if len(current) > 1 {
			runs = append(runs, current)
		}
		current = nil
	}

	for _, id := range parent.Children {
		n := tree.Node(id)
		switch {
		case isPlainLineComment(n):
			current = append(current, n)
		case len(current) > 0 && isLineBreak(n):
			// Separator between two comments on adjacent lines.
		default:
			flush()
		}
	}
	flush()

	return runs
}

func isPlainLineComment(n *erbast.Node) bool {
	return n.IsERBComment() && !strings.Contains(n.Value, "\n") && !lint.IsDirectiveComment(n.Value)
}

// isLineBreak reports whether n is indentation around exactly one newline.
func isLineBreak(n *erbast.Node) bool {
	return n.Kind == erbast.NodeText &&
		strings.TrimSpace(n.Value) == "" &&
		strings.Count(n.Value, "\n") == 1
}

// localsPattern matches a strict locals declaration such as
// <%# locals: (user:, admin: false) %>.
//
//nolint:gochecknoglobals // Compiled once.
var localsPattern = regexp.MustCompile(`<%#\s*locals:\s*\(`)

// StrictLocalsRequiredRule checks that partials declare their locals.
type StrictLocalsRequiredRule struct {
	lint.BaseRule
}

// NewStrictLocalsRequiredRule creates a new strict locals rule.
func NewStrictLocalsRequiredRule() *StrictLocalsRequiredRule {
	return &StrictLocalsRequiredRule{
		BaseRule: lint.NewBaseRule(
			"erb-strict-locals-required",
			"Partials must declare strict locals",
			lint.KindSource,
			lint.DisabledWith(config.SeverityError),
		),
	}
}

// IsEnabled restricts the rule to ERB partials, whose names start with "_".
func (r *StrictLocalsRequiredRule) IsEnabled(_ string, ctx *lint.RuleContext) bool {
	return strings.HasPrefix(filepath.Base(ctx.FileName), "_") && langdetect.IsERB(ctx.FileName)
}

// Check flags a partial with no locals declaration, or with more than one.
func (r *StrictLocalsRequiredRule) Check(source string, _ *lint.RuleContext) ([]lint.Offense, error) {
	lines := erbast.NewLineIndex(source)

	matches := localsPattern.FindAllStringIndex(source, -1)
	if len(matches) == 0 {
		return []lint.Offense{
			r.NewOffenseAt(lint.LocationAt(lines, 0, 0),
				"Partial is missing a strict locals declaration. "+
					"Add `<%# locals: () %>` at the top of the file.").Build(),
		}, nil
	}

	var offenses []lint.Offense
	for _, m := range matches[1:] {
		offenses = append(offenses, r.NewOffenseAt(lint.LocationAt(lines, m[0], m[1]),
			"Duplicate strict locals declaration. A partial may only declare its locals once.").
			WithCode("erb-strict-locals-duplicate").Build())
	}
	return offenses, nil
}

package rules

import (
	"fmt"
	"slices"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
	"github.com/yaklabco/herblint/pkg/lint"
)

// maxSuggestionDistance bounds the edit distance of "did you mean" hints.
const maxSuggestionDistance = 3

// ValidRuleNameRule checks that herb:disable comments only name known rules.
type ValidRuleNameRule struct {
	lint.BaseRule
}

// NewValidRuleNameRule creates a new valid rule name rule.
func NewValidRuleNameRule() *ValidRuleNameRule {
	return &ValidRuleNameRule{
		BaseRule: lint.NewBaseRule(
			"herb-disable-comment-valid-rule-name",
			"herb:disable comments must name existing rules",
			lint.KindAST,
			lint.EnabledWith(config.SeverityWarning),
		),
	}
}

// Check flags unknown rule names, highlighting just the name.
func (r *ValidRuleNameRule) Check(res *erbast.ParseResult, ctx *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense

	for _, d := range lint.ScanTree(res.Tree) {
		for _, name := range d.Rules {
			if name.Name == lint.DisableAll || slices.Contains(ctx.ValidRuleNames, name.Name) {
				continue
			}
			msg := fmt.Sprintf("Unknown rule `%s` in herb:disable comment.", name.Name)
			if s := suggestRuleName(name.Name, ctx.ValidRuleNames); s != "" {
				msg += fmt.Sprintf(" Did you mean `%s`?", s)
			}
			offenses = append(offenses, r.NewOffenseAt(d.Location(res.Lines, name), msg).Build())
		}
	}

	return offenses, nil
}

// suggestRuleName returns the closest known name, or "" when nothing is close.
func suggestRuleName(name string, known []string) string {
	best, bestDist := "", maxSuggestionDistance+1
	for _, candidate := range known {
		if d := levenshtein(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// levenshtein returns the edit distance between a and b, in bytes.
func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// NoDuplicateRulesRule checks that a herb:disable comment lists each rule once.
type NoDuplicateRulesRule struct {
	lint.BaseRule
}

// NewNoDuplicateRulesRule creates a new no duplicate rules rule.
func NewNoDuplicateRulesRule() *NoDuplicateRulesRule {
	return &NoDuplicateRulesRule{
		BaseRule: lint.NewBaseRule(
			"herb-disable-comment-no-duplicate-rules",
			"herb:disable comments must not repeat rule names",
			lint.KindAST,
			lint.EnabledWith(config.SeverityWarning),
		),
	}
}

// Check flags every repeat after the first mention of a name.
func (r *NoDuplicateRulesRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense

	for _, d := range lint.ScanTree(res.Tree) {
		seen := make(map[string]bool, len(d.Rules))
		for _, name := range d.Rules {
			if !seen[name.Name] {
				seen[name.Name] = true
				continue
			}
			msg := fmt.Sprintf("Duplicate rule `%s` in herb:disable comment. Remove the duplicate.", name.Name)
			offenses = append(offenses, r.NewOffenseAt(d.Location(res.Lines, name), msg).Build())
		}
	}

	return offenses, nil
}

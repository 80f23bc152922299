package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
	"github.com/yaklabco/herblint/pkg/lint"
)

// NoEmptyTagsRule checks for ERB tags with no code in them.
type NoEmptyTagsRule struct {
	lint.BaseRule
}

// NewNoEmptyTagsRule creates a new no empty tags rule.
func NewNoEmptyTagsRule() *NoEmptyTagsRule {
	return &NoEmptyTagsRule{
		BaseRule: lint.NewBaseRule(
			"erb-no-empty-tags",
			"ERB tags should not be empty",
			lint.KindAST,
			lint.EnabledWith(config.SeverityError),
		),
	}
}

// Check flags <% %> and <%= %> tags holding only whitespace. Empty
// comments are left to the author.
func (r *NoEmptyTagsRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense

	for _, tag := range lint.ERBTags(res.Tree) {
		if tag.IsERBComment() || strings.TrimSpace(tag.Value) != "" {
			continue
		}
		if tag.Close == "" {
			// Unterminated; the parser reports it.
			continue
		}
		offenses = append(offenses, r.NewOffense(tag,
			fmt.Sprintf("ERB tag `%s%s%s` should not be empty. Remove empty ERB tags.", tag.Open, tag.Value, tag.Close)).
			Build())
	}

	return offenses, nil
}

// RequireWhitespaceInsideTagsRule checks that ERB delimiters are separated
// from the code by whitespace, as in <%= value %>.
type RequireWhitespaceInsideTagsRule struct {
	lint.BaseRule
}

// NewRequireWhitespaceInsideTagsRule creates a new whitespace inside tags rule.
func NewRequireWhitespaceInsideTagsRule() *RequireWhitespaceInsideTagsRule {
	return &RequireWhitespaceInsideTagsRule{
		BaseRule: lint.NewBaseRule(
			"erb-require-whitespace-inside-tags",
			"ERB tags should have whitespace after the opening and before the closing delimiter",
			lint.KindTokens,
			lint.EnabledWith(config.SeverityError),
		),
	}
}

// Check walks each ERB start, content, end token sequence.
func (r *RequireWhitespaceInsideTagsRule) Check(res *erbast.LexResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense

	tokens := res.Tokens
	for i := 0; i+1 < len(tokens); i++ {
		start := tokens[i]
		if start.Kind != erbast.TokERBStart || tokens[i+1].Kind != erbast.TokERBContent {
			continue
		}
		content := tokens[i+1]
		if content.Value == "" {
			continue
		}

		if !startsWithSpace(content.Value) {
			offenses = append(offenses, r.NewOffenseAt(start.Location,
				fmt.Sprintf("Add whitespace after `%s`.", start.Value)).Build())
		}
		if i+2 < len(tokens) && tokens[i+2].Kind == erbast.TokERBEnd && !endsWithSpace(content.Value) {
			end := tokens[i+2]
			offenses = append(offenses, r.NewOffenseAt(end.Location,
				fmt.Sprintf("Add whitespace before `%s`.", end.Value)).Build())
		}
	}

	return offenses, nil
}

func startsWithSpace(s string) bool {
	return s != "" && isERBSpace(s[0])
}

func endsWithSpace(s string) bool {
	return s != "" && isERBSpace(s[len(s)-1])
}

func isERBSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

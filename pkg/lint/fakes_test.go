package lint_test

import (
	"errors"
	"strings"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
	"github.com/yaklabco/herblint/pkg/lint"
	"github.com/yaklabco/herblint/pkg/parser/erb"
)

// upperTagRule flags open tags with uppercase names and lowercases them.
type upperTagRule struct {
	lint.BaseRule
}

func newUpperTagRule() lint.Rule {
	return &upperTagRule{
		BaseRule: lint.NewBaseRule("test-upper", "Tag names must be lowercase", lint.KindAST,
			lint.EnabledWith(config.SeverityError)),
	}
}

func (r *upperTagRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense
	for _, tag := range lint.OpenTags(res.Tree) {
		if tag.Name != tag.TagName() {
			offenses = append(offenses, r.NewOffense(tag, "tag name should be lowercase").Fixable(tag.ID).Build())
		}
	}
	return offenses, nil
}

func (r *upperTagRule) Autofix(o lint.Offense, tree *erbast.Tree, _ *lint.RuleContext) *erbast.Tree {
	tag := tree.Node(o.AutofixContext.Node)
	if tag == nil {
		return nil
	}
	tag.Name = strings.ToLower(tag.Name)
	return tree
}

// erbCountRule flags every ERB start token.
type erbCountRule struct {
	lint.BaseRule
}

func newERBCountRule() lint.Rule {
	return &erbCountRule{
		BaseRule: lint.NewBaseRule("test-erb", "Flags ERB tags", lint.KindTokens,
			lint.EnabledWith(config.SeverityWarning)),
	}
}

func (r *erbCountRule) Check(res *erbast.LexResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense
	for _, tok := range res.Tokens {
		if tok.Kind == erbast.TokERBStart {
			offenses = append(offenses, r.NewOffenseAt(tok.Location, "erb tag").Build())
		}
	}
	return offenses, nil
}

// todoRule flags every line containing TODO.
type todoRule struct {
	lint.BaseRule
}

func newTodoRule() lint.Rule {
	return &todoRule{
		BaseRule: lint.NewBaseRule("test-todo", "Flags TODO markers", lint.KindSource,
			lint.EnabledWith(config.SeverityWarning)),
	}
}

func (r *todoRule) Check(source string, _ *lint.RuleContext) ([]lint.Offense, error) {
	lines := erbast.NewLineIndex(source)
	var offenses []lint.Offense
	offset := 0
	for _, line := range strings.SplitAfter(source, "\n") {
		if i := strings.Index(line, "TODO"); i >= 0 {
			loc := lint.LocationAt(lines, offset+i, offset+i+4)
			offenses = append(offenses, r.NewOffenseAt(loc, "todo found").WithCode("todo-marker").Build())
		}
		offset += len(line)
	}
	return offenses, nil
}

// skipAllRule is a source rule that always opts out.
type skipAllRule struct {
	todoRule
}

func newSkipAllRule() lint.Rule {
	return &skipAllRule{todoRule: todoRule{
		BaseRule: lint.NewBaseRule("test-skip", "Never runs", lint.KindSource,
			lint.EnabledWith(config.SeverityError)),
	}}
}

func (r *skipAllRule) IsEnabled(string, *lint.RuleContext) bool {
	return false
}

// panicRule panics in Check.
type panicRule struct {
	lint.BaseRule
}

func newPanicRule() lint.Rule {
	return &panicRule{
		BaseRule: lint.NewBaseRule("test-panic", "Panics", lint.KindSource,
			lint.EnabledWith(config.SeverityError)),
	}
}

func (r *panicRule) Check(string, *lint.RuleContext) ([]lint.Offense, error) {
	panic("boom")
}

var errRuleFailed = errors.New("rule failed")

// failingRule returns an error from Check.
type failingRule struct {
	lint.BaseRule
}

func newFailingRule() lint.Rule {
	return &failingRule{
		BaseRule: lint.NewBaseRule("test-failing", "Fails", lint.KindSource,
			lint.EnabledWith(config.SeverityError)),
	}
}

func (r *failingRule) Check(string, *lint.RuleContext) ([]lint.Offense, error) {
	return nil, errRuleFailed
}

// decliningRule flags every open tag but declines every fix.
type decliningRule struct {
	lint.BaseRule
}

func newDecliningRule() lint.Rule {
	return &decliningRule{
		BaseRule: lint.NewBaseRule("test-declining", "Flags tags", lint.KindAST,
			lint.EnabledWith(config.SeverityError)),
	}
}

func (r *decliningRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense
	for _, tag := range lint.OpenTags(res.Tree) {
		offenses = append(offenses, r.NewOffense(tag, "tag").Fixable(tag.ID).Build())
	}
	return offenses, nil
}

func (r *decliningRule) Autofix(lint.Offense, *erbast.Tree, *lint.RuleContext) *erbast.Tree {
	return nil
}

// panickyFixRule flags every open tag and panics when fixing.
type panickyFixRule struct {
	decliningRule
}

func newPanickyFixRule() lint.Rule {
	return &panickyFixRule{decliningRule: decliningRule{
		BaseRule: lint.NewBaseRule("test-panicky-fix", "Panics when fixing", lint.KindAST,
			lint.EnabledWith(config.SeverityError)),
	}}
}

func (r *panickyFixRule) Autofix(lint.Offense, *erbast.Tree, *lint.RuleContext) *erbast.Tree {
	panic("fix boom")
}

// mislabeledRule declares the token kind but only checks source.
type mislabeledRule struct {
	todoRule
}

func newMislabeledRule() lint.Rule {
	return &mislabeledRule{todoRule: todoRule{
		BaseRule: lint.NewBaseRule("test-mislabeled", "Wrong kind", lint.KindTokens,
			lint.EnabledWith(config.SeverityError)),
	}}
}

// disabledRule is off unless configured.
func newDisabledRule() lint.Rule {
	return &todoRule{
		BaseRule: lint.NewBaseRule("test-disabled", "Off by default", lint.KindSource,
			lint.DisabledWith(config.SeverityWarning)),
	}
}

// newLinter builds a linter running exactly the given rules.
func newLinter(factories ...lint.Factory) *lint.Linter {
	return lint.New(erb.New(), erb.NewPrinter(), lint.WithRules(factories...))
}

func ruleNames(offenses []lint.Offense) []string {
	names := make([]string, len(offenses))
	for i, o := range offenses {
		names[i] = o.Rule
	}
	return names
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/herblint/pkg/lint"
	"github.com/yaklabco/herblint/pkg/parser/erb"
)

// ruleCase is one input for a single rule.
type ruleCase struct {
	name      string
	input     string
	fileName  string
	wantCount int
}

func factory[R lint.Rule](ctor func() R) lint.Factory {
	return func() lint.Rule { return ctor() }
}

func newTestLinter(factories ...lint.Factory) *lint.Linter {
	return lint.New(erb.New(), erb.NewPrinter(), lint.WithRules(factories...))
}

func lintWith(t *testing.T, f lint.Factory, fileName, src string) *lint.Result {
	t.Helper()
	res := newTestLinter(f).Lint(src, &lint.Context{FileName: fileName})
	require.Empty(t, res.RuleErrors)
	return res
}

func fixWith(t *testing.T, f lint.Factory, src string) *lint.AutofixResult {
	t.Helper()
	return newTestLinter(f).Autofix(src, &lint.Context{})
}

func runRuleCases(t *testing.T, f lint.Factory, tests []ruleCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := lintWith(t, f, tt.fileName, tt.input)
			require.Len(t, res.Offenses, tt.wantCount, "offenses: %v", messages(res.Offenses))
		})
	}
}

func messages(offenses []lint.Offense) []string {
	out := make([]string, len(offenses))
	for i, o := range offenses {
		out[i] = o.Location.String() + " " + o.Message
	}
	return out
}

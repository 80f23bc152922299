package lint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
)

func TestAutofix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		factories   []lint.Factory
		source      string
		want        string
		wantFixed   int
		wantUnfixed int
	}{
		{
			name:      "single fix",
			factories: []lint.Factory{newUpperTagRule},
			source:    "<DIV>x</div>\n",
			want:      "<div>x</div>\n",
			wantFixed: 1,
		},
		{
			name:      "fixes share one tree",
			factories: []lint.Factory{newUpperTagRule},
			source:    "<DIV class=\"a\"><SPAN>x</SPAN></DIV>\n",
			want:      "<div class=\"a\"><span>x</SPAN></DIV>\n",
			wantFixed: 2,
		},
		{
			name:        "rule without autofix",
			factories:   []lint.Factory{newTodoRule},
			source:      "TODO\n",
			want:        "TODO\n",
			wantUnfixed: 1,
		},
		{
			name:        "declined fix",
			factories:   []lint.Factory{newDecliningRule},
			source:      "<div></div>\n",
			want:        "<div></div>\n",
			wantUnfixed: 1,
		},
		{
			name:        "panicking fix counts as declined",
			factories:   []lint.Factory{newPanickyFixRule, newUpperTagRule},
			source:      "<DIV></DIV>\n",
			want:        "<div></DIV>\n",
			wantFixed:   1,
			wantUnfixed: 1,
		},
		{
			name:      "suppressed offense is not fixed",
			factories: []lint.Factory{newUpperTagRule},
			source:    "<DIV>x</div> <%# herb:disable test-upper %>\n",
			want:      "<DIV>x</div> <%# herb:disable test-upper %>\n",
		},
		{
			name:      "no offenses",
			factories: []lint.Factory{newUpperTagRule},
			source:    "<div>x</div>\n",
			want:      "<div>x</div>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := newLinter(tt.factories...).Autofix(tt.source, &lint.Context{})

			assert.Equal(t, tt.want, res.Source)
			assert.Len(t, res.Fixed, tt.wantFixed)
			assert.Len(t, res.Unfixed, tt.wantUnfixed)
			assert.Equal(t, tt.wantFixed > 0, res.Changed())
			require.NotNil(t, res.Lint)
		})
	}
}

func TestAutofix_DisabledByConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Rules["test-upper"] = config.RuleConfig{AutoFix: boolPtr(false)}

	res := newLinter(newUpperTagRule).Autofix("<DIV></div>", &lint.Context{Config: cfg})

	assert.Equal(t, "<DIV></div>", res.Source)
	assert.Empty(t, res.Fixed)
	assert.Len(t, res.Unfixed, 1)
}

func TestAutofix_FixRulesFilter(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.FixRules = []string{"test-other"}

	res := newLinter(newUpperTagRule).Autofix("<DIV></div>", &lint.Context{Config: cfg})
	assert.Empty(t, res.Fixed)
}

func TestAutofix_IsIdempotent(t *testing.T) {
	t.Parallel()

	l := newLinter(newUpperTagRule)
	first := l.Autofix("<DIV><P>x</P></div>\n", &lint.Context{})
	require.True(t, first.Changed())

	second := l.Autofix(first.Source, &lint.Context{})
	assert.False(t, second.Changed())
	assert.Equal(t, first.Source, second.Source)
	assert.Empty(t, second.Lint.Offenses)
}

func TestAutofixUntilStable(t *testing.T) {
	t.Parallel()

	l := newLinter(newUpperTagRule, newTodoRule)
	res, passes := l.AutofixUntilStable(context.Background(), "<DIV>TODO</div>\n", lint.Context{}, 5)

	assert.Equal(t, "<div>TODO</div>\n", res.Source)
	assert.Equal(t, 2, passes, "the second pass finds nothing to fix")
	assert.Len(t, res.Fixed, 1)
	assert.Equal(t, []string{"test-todo"}, ruleNames(res.Unfixed))
	assert.Len(t, res.Lint.Offenses, 1)
}

func TestAutofixUntilStable_MinimumOnePass(t *testing.T) {
	t.Parallel()

	l := newLinter(newUpperTagRule)
	res, passes := l.AutofixUntilStable(context.Background(), "<DIV></div>", lint.Context{}, 0)

	assert.Equal(t, 1, passes)
	assert.Equal(t, "<div></div>", res.Source)
}

func TestAutofixUntilStable_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := newLinter(newUpperTagRule)
	res, passes := l.AutofixUntilStable(ctx, "<DIV></div>", lint.Context{}, 3)

	assert.Zero(t, passes)
	assert.Equal(t, "<DIV></div>", res.Source)
}

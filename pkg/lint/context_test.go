package lint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
)

func TestNewRuleContext(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	//nolint:staticcheck // A nil context must fall back to Background.
	rc := lint.NewRuleContext(nil, "a.html.erb", cfg, nil)

	assert.NotNil(t, rc.Ctx)
	assert.Equal(t, "a.html.erb", rc.FileName)
	assert.Same(t, cfg, rc.Config)
	assert.False(t, rc.Cancelled())
}

func TestRuleContext_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	rc := lint.NewRuleContext(ctx, "", nil, nil)
	assert.False(t, rc.Cancelled())

	cancel()
	assert.True(t, rc.Cancelled())
}

func TestRuleContext_Options(t *testing.T) {
	t.Parallel()

	ruleCfg := &config.RuleConfig{Options: map[string]any{
		"max":      3,
		"ratio":    float64(7),
		"name":     "x",
		"strict":   true,
		"elements": []any{"svg", 1, "math"},
		"typed":    []string{"a"},
	}}
	rc := lint.NewRuleContext(context.Background(), "", nil, ruleCfg)

	assert.Equal(t, 3, rc.OptionInt("max", 1))
	assert.Equal(t, 7, rc.OptionInt("ratio", 1))
	assert.Equal(t, 1, rc.OptionInt("name", 1))
	assert.Equal(t, 9, rc.OptionInt("missing", 9))

	assert.Equal(t, "x", rc.OptionString("name", "d"))
	assert.Equal(t, "d", rc.OptionString("max", "d"))

	assert.True(t, rc.OptionBool("strict", false))
	assert.True(t, rc.OptionBool("missing", true))

	assert.Equal(t, []string{"svg", "math"}, rc.OptionStringSlice("elements", nil))
	assert.Equal(t, []string{"a"}, rc.OptionStringSlice("typed", nil))
	assert.Equal(t, []string{"d"}, rc.OptionStringSlice("missing", []string{"d"}))
}

func TestRuleContext_OptionsWithoutConfig(t *testing.T) {
	t.Parallel()

	rc := lint.NewRuleContext(context.Background(), "", nil, nil)
	assert.Equal(t, 5, rc.OptionInt("max", 5))
	assert.Equal(t, "v", rc.Option("key", "v"))
}

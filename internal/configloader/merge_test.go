package configloader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/herblint/pkg/config"
)

func ptr[T any](v T) *T {
	return &v
}

func TestMergeRules(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Rules["erb-no-trailing-whitespace"] = config.RuleConfig{
		Severity: ptr("warning"),
		Exclude:  []string{"vendor/**"},
		Options:  map[string]any{"a": 1},
	}

	override := &config.Config{Rules: map[string]config.RuleConfig{
		"erb-no-trailing-whitespace": {Enabled: ptr(false), Options: map[string]any{"b": 2}},
		"html-img-require-alt":       {Severity: ptr("error")},
	}}

	got := merge(base, override)

	rc := got.Rules["erb-no-trailing-whitespace"]
	assert.Equal(t, "warning", *rc.Severity)
	assert.False(t, *rc.Enabled)
	assert.Equal(t, []string{"vendor/**"}, rc.Exclude)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, rc.Options)
	assert.Equal(t, map[string]any{"a": 1}, base.Rules["erb-no-trailing-whitespace"].Options, "base mutated")
	assert.Equal(t, "error", *got.Rules["html-img-require-alt"].Severity)
}

func TestMergeScalars(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Exclude = []string{"tmp/**"}
	base.Backups.Enabled = true

	got := merge(base, &config.Config{Jobs: 4, DryRun: true})
	assert.Equal(t, 4, got.Jobs)
	assert.True(t, got.DryRun)
	assert.True(t, got.Backups.Enabled, "false in a higher layer must not switch backups off")
	assert.Equal(t, config.FormatText, got.Format)
	assert.Equal(t, []string{"tmp/**"}, got.Exclude)
	assert.Equal(t, "sidecar", got.Backups.Mode)

	assert.Same(t, base, merge(base, nil))
}

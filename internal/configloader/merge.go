package configloader

import (
	"maps"

	"github.com/yaklabco/herblint/pkg/config"
)

// merge layers override on top of base:
//   - scalars are taken from override when non-zero
//   - booleans can only be switched on by a higher layer
//   - slices in override replace those in base
//   - rule entries are merged field by field
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.TodoFile != "" {
		result.TodoFile = override.TodoFile
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}

	result.Fix = result.Fix || override.Fix
	result.DryRun = result.DryRun || override.DryRun
	result.NoBackups = result.NoBackups || override.NoBackups
	result.NoTodo = result.NoTodo || override.NoTodo
	result.IgnoreDisableComments = result.IgnoreDisableComments || override.IgnoreDisableComments
	result.Backups.Enabled = result.Backups.Enabled || override.Backups.Enabled

	replace(&result.Include, override.Include)
	replace(&result.Exclude, override.Exclude)
	replace(&result.CustomRules, override.CustomRules)
	replace(&result.EnableRules, override.EnableRules)
	replace(&result.DisableRules, override.DisableRules)
	replace(&result.FixRules, override.FixRules)

	result.Rules = mergeRules(result.Rules, override.Rules)
	return result
}

func replace(dst *[]string, src []string) {
	if src != nil {
		*dst = src
	}
}

func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	result := make(map[string]config.RuleConfig, len(base)+len(override))
	maps.Copy(result, base)
	for name, rc := range override {
		if existing, ok := result[name]; ok {
			result[name] = mergeRuleConfig(existing, rc)
		} else {
			result[name] = rc
		}
	}
	return result
}

func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	result := base

	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	if override.Severity != nil {
		result.Severity = override.Severity
	}
	if override.AutoFix != nil {
		result.AutoFix = override.AutoFix
	}
	replace(&result.Include, override.Include)
	replace(&result.Exclude, override.Exclude)

	if override.Options != nil {
		options := make(map[string]any, len(base.Options)+len(override.Options))
		maps.Copy(options, base.Options)
		maps.Copy(options, override.Options)
		result.Options = options
	}
	return result
}

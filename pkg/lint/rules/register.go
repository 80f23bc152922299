package rules

import (
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
)

// Defaults returns the factories of all built-in rules in registration order.
func Defaults() []lint.Factory {
	return []lint.Factory{
		// HTML rules
		func() lint.Rule { return NewTagNameLowercaseRule() },
		func() lint.Rule { return NewNoDuplicateAttributesRule() },
		func() lint.Rule { return NewRequireClosingTagsRule() },
		func() lint.Rule { return NewImgRequireAltRule() },
		func() lint.Rule { return NewAttributeDoubleQuotesRule() },
		func() lint.Rule { return NewNoSelfClosingRule() },

		// ERB rules
		func() lint.Rule { return NewNoEmptyTagsRule() },
		func() lint.Rule { return NewRequireWhitespaceInsideTagsRule() },
		func() lint.Rule { return NewNoTrailingWhitespaceRule() },
		func() lint.Rule { return NewNoConsecutiveCommentsRule() },
		func() lint.Rule { return NewRequiresTrailingNewlineRule() },
		func() lint.Rule { return NewStrictLocalsRequiredRule() },

		// Directive rules
		func() lint.Rule { return NewValidRuleNameRule() },
		func() lint.Rule { return NewNoDuplicateRulesRule() },
	}
}

// RegisterDefaults registers all built-in rules with the given registry.
func RegisterDefaults(registry *lint.Registry) {
	for _, factory := range Defaults() {
		registry.MustRegister(factory)
	}
}

// ruleInfo describes every rule in registry for config templates.
func ruleInfo(registry *lint.Registry) []config.RuleInfo {
	var infos []config.RuleInfo
	for _, rule := range registry.Instantiate() {
		defaults := rule.Defaults()
		_, canFix := rule.(lint.Fixer)
		infos = append(infos, config.RuleInfo{
			Name:        rule.Name(),
			Description: rule.Description(),
			Enabled:     defaults.Enabled,
			Severity:    defaults.Severity,
			CanFix:      canFix,
		})
	}
	return infos
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterDefaults(lint.DefaultRegistry)
	config.DefaultRuleInfoProvider = func() []config.RuleInfo {
		return ruleInfo(lint.DefaultRegistry)
	}
}

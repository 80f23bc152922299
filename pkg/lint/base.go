package lint

import (
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
)

// BaseRule provides the metadata half of the Rule interface.
// Embed it in rule implementations and add the Check method for the kind.
//
// Fields are unexported to avoid stutter and name collisions with interface methods.
type BaseRule struct {
	name     string
	desc     string
	kind     Kind
	defaults RuleDefaults
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(name, desc string, kind Kind, defaults RuleDefaults) BaseRule {
	return BaseRule{
		name:     name,
		desc:     desc,
		kind:     kind,
		defaults: defaults,
	}
}

// Name returns the unique rule name.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns a detailed description of what the rule checks.
func (r *BaseRule) Description() string {
	return r.desc
}

// Kind returns the input representation the rule checks.
func (r *BaseRule) Kind() Kind {
	return r.kind
}

// Defaults returns the rule's static default configuration.
func (r *BaseRule) Defaults() RuleDefaults {
	return r.defaults
}

// NewOffense starts an offense for this rule at node's location.
func (r *BaseRule) NewOffense(node *erbast.Node, message string) *OffenseBuilder {
	return NewOffense(r.name, node, message)
}

// NewOffenseAt starts an offense for this rule at loc.
func (r *BaseRule) NewOffenseAt(loc erbast.Location, message string) *OffenseBuilder {
	return NewOffenseAt(r.name, loc, message)
}

// EnabledWith returns defaults for a rule that is on by default.
func EnabledWith(severity config.Severity) RuleDefaults {
	return RuleDefaults{Enabled: true, Severity: severity}
}

// DisabledWith returns defaults for a rule that must be turned on explicitly.
func DisabledWith(severity config.Severity) RuleDefaults {
	return RuleDefaults{Enabled: false, Severity: severity}
}

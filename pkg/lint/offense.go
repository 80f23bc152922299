package lint

import (
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
)

// OffenseSource is the Source value of every offense produced by the linter.
const OffenseSource = "linter"

// AutofixContext tells a rule's Autofix which node an offense is about.
// The handle stays valid while other fixes mutate the tree.
type AutofixContext struct {
	// Node is the handle of the node to fix.
	Node erbast.NodeID

	// Data is rule-specific extra information.
	Data any
}

// Offense is one located, severity-tagged finding produced by a rule.
type Offense struct {
	// Rule is the name of the rule that produced this offense.
	Rule string

	// Message is the human-readable description of the issue.
	Message string

	// Location is the 1-based span of the offending source.
	Location erbast.Location

	// Severity indicates the importance of the offense.
	Severity config.Severity

	// Code identifies the kind of finding. It defaults to Rule.
	Code string

	// Source is always OffenseSource.
	Source string

	// AutofixContext is set when the offense can be handed to the rule's Autofix.
	AutofixContext *AutofixContext

	// Tolerated is set when the offense is covered by the legacy-debt budget.
	Tolerated bool
}

// Line returns the line the offense starts on.
func (o *Offense) Line() int {
	return o.Location.Start.Line
}

// CanAutofix reports whether the offense carries an autofix context.
func (o *Offense) CanAutofix() bool {
	return o.AutofixContext != nil
}

// OffenseBuilder helps construct Offense values.
type OffenseBuilder struct {
	offense Offense
}

// NewOffense starts building an offense for the given rule and node.
// The autofix context is not set; use Fixable for that.
func NewOffense(rule string, node *erbast.Node, message string) *OffenseBuilder {
	var loc erbast.Location
	if node != nil {
		loc = node.Location
	}
	return NewOffenseAt(rule, loc, message)
}

// NewOffenseAt starts building an offense at a specific location.
func NewOffenseAt(rule string, loc erbast.Location, message string) *OffenseBuilder {
	return &OffenseBuilder{
		offense: Offense{
			Rule:     rule,
			Message:  message,
			Location: loc,
			Code:     rule,
			Source:   OffenseSource,
		},
	}
}

// WithCode sets a code more specific than the rule name.
func (b *OffenseBuilder) WithCode(code string) *OffenseBuilder {
	b.offense.Code = code
	return b
}

// WithLocation overrides the location.
func (b *OffenseBuilder) WithLocation(loc erbast.Location) *OffenseBuilder {
	b.offense.Location = loc
	return b
}

// Fixable attaches an autofix context pointing at node.
func (b *OffenseBuilder) Fixable(node erbast.NodeID) *OffenseBuilder {
	b.offense.AutofixContext = &AutofixContext{Node: node}
	return b
}

// FixableWith attaches an autofix context with rule-specific data.
func (b *OffenseBuilder) FixableWith(node erbast.NodeID, data any) *OffenseBuilder {
	b.offense.AutofixContext = &AutofixContext{Node: node, Data: data}
	return b
}

// Build returns the constructed Offense.
func (b *OffenseBuilder) Build() Offense {
	return b.offense
}

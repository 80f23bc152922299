// Package lint provides the rule abstraction, registry, orchestrator and
// autofix engine for herblint.
package lint

import (
	"errors"
	"fmt"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
)

// Kind is the input representation a rule checks.
type Kind uint8

const (
	// KindAST rules check the parsed tree.
	KindAST Kind = iota + 1
	// KindTokens rules check the flat token stream.
	KindTokens
	// KindSource rules check the raw source text.
	KindSource
)

func (k Kind) String() string {
	switch k {
	case KindAST:
		return "ast"
	case KindTokens:
		return "tokens"
	case KindSource:
		return "source"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ErrKindMismatch is returned when a rule's declared kind does not match
// the check method it implements.
var ErrKindMismatch = errors.New("rule kind mismatch")

// RuleDefaults is a rule's static default configuration.
type RuleDefaults struct {
	Enabled  bool
	Severity config.Severity

	// Include and Exclude are file globs. An empty Include matches every file.
	Include []string
	Exclude []string

	// ParserOptions are the parser features the rule relies on.
	ParserOptions erbast.ParseOptions
}

// Rule defines the metadata every lint rule provides. A rule also implements
// exactly one of ASTRule, TokenRule or SourceRule, matching Kind.
type Rule interface {
	// Name returns the unique rule name (e.g., "html-tag-name-lowercase").
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// Kind returns the input representation the rule checks.
	Kind() Kind

	// Defaults returns the rule's static default configuration.
	Defaults() RuleDefaults
}

// Factory builds a fresh rule instance. Rules are instantiated per lint call
// and must not share mutable state between instances.
type Factory func() Rule

// ASTRule checks the parsed tree.
type ASTRule interface {
	Rule

	// Check returns offenses found in the tree.
	// Return an error only for internal failures, not violations.
	Check(result *erbast.ParseResult, ctx *RuleContext) ([]Offense, error)
}

// TokenRule checks the token stream.
type TokenRule interface {
	Rule
	Check(result *erbast.LexResult, ctx *RuleContext) ([]Offense, error)
}

// SourceRule checks the raw source text.
type SourceRule interface {
	Rule
	Check(source string, ctx *RuleContext) ([]Offense, error)
}

// ASTEnabler lets an AST rule skip a file before checking it.
type ASTEnabler interface {
	IsEnabled(result *erbast.ParseResult, ctx *RuleContext) bool
}

// TokenEnabler lets a token rule skip a file before checking it.
type TokenEnabler interface {
	IsEnabled(result *erbast.LexResult, ctx *RuleContext) bool
}

// SourceEnabler lets a source rule skip a file before checking it.
type SourceEnabler interface {
	IsEnabled(source string, ctx *RuleContext) bool
}

// Fixer is implemented by rules that can repair their offenses.
//
// Autofix mutates tree in place, addressing the node through the handle in
// offense.AutofixContext, and returns the tree. It returns nil to decline.
// Implementations must only touch the node the offense is about and nodes
// they create, so that fixes for other offenses compose.
type Fixer interface {
	Autofix(offense Offense, tree *erbast.Tree, ctx *RuleContext) *erbast.Tree
}

// input bundles the representations of one source for dispatch.
type input struct {
	source string
	parsed *erbast.ParseResult
	lexed  *erbast.LexResult
}

// checkFunc runs one rule against the representation its kind requires.
type checkFunc func(rule Rule, in *input, ctx *RuleContext) (enabled bool, offenses []Offense, err error)

// dispatch is the single table mapping kinds to their check adapters.
//
//nolint:gochecknoglobals // Read-only dispatch table.
var dispatch = map[Kind]checkFunc{
	KindAST: func(rule Rule, in *input, ctx *RuleContext) (bool, []Offense, error) {
		if e, ok := rule.(ASTEnabler); ok && !e.IsEnabled(in.parsed, ctx) {
			return false, nil, nil
		}
		offenses, err := rule.(ASTRule).Check(in.parsed, ctx)
		return true, offenses, err
	},
	KindTokens: func(rule Rule, in *input, ctx *RuleContext) (bool, []Offense, error) {
		if e, ok := rule.(TokenEnabler); ok && !e.IsEnabled(in.lexed, ctx) {
			return false, nil, nil
		}
		offenses, err := rule.(TokenRule).Check(in.lexed, ctx)
		return true, offenses, err
	},
	KindSource: func(rule Rule, in *input, ctx *RuleContext) (bool, []Offense, error) {
		if e, ok := rule.(SourceEnabler); ok && !e.IsEnabled(in.source, ctx) {
			return false, nil, nil
		}
		offenses, err := rule.(SourceRule).Check(in.source, ctx)
		return true, offenses, err
	},
}

// ValidateRule checks that a rule implements the check method its kind
// declares. The registry calls it once per registration, so dispatch never
// has to inspect rule types again.
func ValidateRule(rule Rule) error {
	if rule == nil {
		return fmt.Errorf("%w: nil rule", ErrKindMismatch)
	}
	if rule.Name() == "" {
		return fmt.Errorf("%w: rule has no name", ErrKindMismatch)
	}

	var ok bool
	switch rule.Kind() {
	case KindAST:
		_, ok = rule.(ASTRule)
	case KindTokens:
		_, ok = rule.(TokenRule)
	case KindSource:
		_, ok = rule.(SourceRule)
	}
	if !ok {
		return fmt.Errorf("%w: %s declares kind %s but does not implement its Check", ErrKindMismatch, rule.Name(), rule.Kind())
	}
	return nil
}

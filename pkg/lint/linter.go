package lint

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/herblint/internal/logging"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
)

// ErrRulePanic wraps a panic recovered from a rule.
var ErrRulePanic = errors.New("rule panicked")

// Result is the outcome of linting one source.
type Result struct {
	// Offenses are the reported offenses, ordered by rule registration order
	// and then by each rule's visitation order.
	Offenses []Offense

	// Errors and Warnings count Offenses by severity, tolerated ones included.
	Errors   int
	Warnings int

	// Ignored counts offenses removed by herb:disable comments.
	Ignored int

	// WouldBeIgnored counts offenses a herb:disable comment covers but that
	// were kept because Context.IgnoreDisableComments was set.
	WouldBeIgnored int

	// ToleratedErrors and ToleratedWarnings count offenses within their
	// legacy-debt budget.
	ToleratedErrors   int
	ToleratedWarnings int

	// RuleErrors holds the failure of every rule that errored or panicked.
	// Those rules contribute no offenses.
	RuleErrors map[string]error

	// ParseErrors are the problems reported by the parser.
	ParseErrors []erbast.ParseError

	// Skipped is set when the file opted out with herb:linter ignore.
	Skipped bool
}

// Failing returns the number of errors beyond the legacy-debt budget.
func (r *Result) Failing() int {
	return r.Errors - r.ToleratedErrors
}

// HasIssues returns true if any offenses were reported.
func (r *Result) HasIssues() bool {
	return len(r.Offenses) > 0
}

// Linter runs rules over HTML+ERB sources.
//
// A Linter is safe for concurrent use once custom rules are loaded. Every
// call builds fresh rule instances, and the registry and debt store are
// only read.
type Linter struct {
	parser   Parser
	printer  Printer
	registry *Registry
	debt     *DebtStore
	opener   Opener
	logger   *log.Logger

	loadMu sync.Mutex
	loaded bool
}

// Option configures a Linter.
type Option func(*Linter)

// WithRegistry makes the linter run the rules of r. The linter registers
// custom rules into r.
func WithRegistry(r *Registry) Option {
	return func(l *Linter) {
		l.registry = r
	}
}

// WithRules makes the linter run exactly the given rules, in order.
// It panics if a factory builds an invalid rule.
func WithRules(factories ...Factory) Option {
	return func(l *Linter) {
		l.registry = NewRegistry()
		for _, f := range factories {
			l.registry.MustRegister(f)
		}
	}
}

// WithDebtStore sets the legacy-debt budgets.
func WithDebtStore(s *DebtStore) Option {
	return func(l *Linter) {
		l.debt = s
	}
}

// WithOpener sets how custom rule files are opened.
func WithOpener(o Opener) Option {
	return func(l *Linter) {
		l.opener = o
	}
}

// WithLogger sets the logger. By default the logger is taken from the
// call's context.
func WithLogger(logger *log.Logger) Option {
	return func(l *Linter) {
		l.logger = logger
	}
}

// New creates a Linter. Without WithRegistry or WithRules it runs a copy
// of DefaultRegistry.
func New(parser Parser, printer Printer, opts ...Option) *Linter {
	l := &Linter{
		parser:  parser,
		printer: printer,
		opener:  PluginOpener{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = DefaultRegistry.Clone()
	}
	return l
}

// Registry returns the rules the linter runs.
func (l *Linter) Registry() *Registry {
	return l.registry
}

func (l *Linter) log(ctx context.Context) *log.Logger {
	if l.logger != nil {
		return l.logger
	}
	return logging.FromContext(ctx)
}

// Lint parses source once, runs every enabled rule in registration order
// and filters the offenses through herb:disable comments and the
// legacy-debt budgets. It never fails: rule failures are recorded in
// Result.RuleErrors and parse problems in Result.ParseErrors.
func (l *Linter) Lint(source string, lctx *Context) *Result {
	ctx, span := startSpan(lctx.context(), "herblint.Lint", lctx.fileName())
	defer span.End()

	start := time.Now()
	run := l.run(ctx, source, lctx)
	setLintSpanResult(span, run.result)
	recordLintMetrics(ctx, time.Since(start), run.result)

	return run.result
}

// activeRule is a rule that ran in one lint call.
type activeRule struct {
	rule     Rule
	resolved ResolvedRule
	ctx      *RuleContext
}

// lintRun is everything one lint call produced, kept for autofix.
type lintRun struct {
	result *Result
	parsed *erbast.ParseResult
	active map[string]*activeRule
}

func (l *Linter) run(ctx context.Context, source string, lctx *Context) *lintRun {
	fileName := lctx.fileName()
	cfg := lctx.config()

	parsed := l.parser.Parse(source, parseOptions())
	lexed := l.parser.Lex(source)

	run := &lintRun{
		result: &Result{
			RuleErrors:  make(map[string]error),
			ParseErrors: parsed.Errors,
		},
		parsed: parsed,
		active: make(map[string]*activeRule),
	}
	result := run.result

	if HasLinterIgnore(parsed.Tree) {
		result.Skipped = true
		return run
	}

	in := &input{source: source, parsed: parsed, lexed: lexed}
	validNames := l.registry.Names()

	for _, rule := range l.registry.Instantiate() {
		name := rule.Name()

		rr, err := ResolveRule(rule, cfg)
		if err != nil {
			result.RuleErrors[name] = err
			continue
		}
		if !rr.Enabled || !rr.AppliesTo(fileName) {
			continue
		}

		rc := NewRuleContext(ctx, fileName, cfg, rr.Config)
		rc.Severity = rr.Severity
		rc.ValidRuleNames = validNames

		enabled, offenses, err := check(rule, in, rc)
		if err != nil {
			result.RuleErrors[name] = err
			l.log(ctx).Debug("rule failed",
				logging.FieldRule, name,
				logging.FieldPath, fileName,
				logging.FieldError, err,
			)
			continue
		}
		if !enabled {
			continue
		}

		for i := range offenses {
			o := &offenses[i]
			o.Rule = name
			o.Severity = rr.Severity
			o.Source = OffenseSource
			if o.Code == "" {
				o.Code = name
			}
		}
		run.active[name] = &activeRule{rule: rule, resolved: rr, ctx: rc}
		result.Offenses = append(result.Offenses, offenses...)
	}

	l.suppress(result, source, parsed.Tree, lctx != nil && lctx.IgnoreDisableComments)
	result.ToleratedErrors, result.ToleratedWarnings = l.debt.tolerate(fileName, result.Offenses)

	for _, o := range result.Offenses {
		switch o.Severity {
		case config.SeverityError:
			result.Errors++
		case config.SeverityWarning:
			result.Warnings++
		}
	}

	return run
}

// parseOptions are the options every lint call parses with. Whitespace
// tracking keeps the tree printable for autofix.
func parseOptions() erbast.ParseOptions {
	return erbast.ParseOptions{TrackWhitespace: true}
}

// check runs one rule with its failures isolated. A panic becomes an error
// wrapping ErrRulePanic.
func check(rule Rule, in *input, rc *RuleContext) (enabled bool, offenses []Offense, err error) {
	defer func() {
		if r := recover(); r != nil {
			enabled, offenses, err = true, nil, fmt.Errorf("%w: %s: %v", ErrRulePanic, rule.Name(), r)
		}
	}()

	fn, ok := dispatch[rule.Kind()]
	if !ok {
		return false, nil, fmt.Errorf("%w: %s has unknown kind %s", ErrKindMismatch, rule.Name(), rule.Kind())
	}
	return fn(rule, in, rc)
}

// suppress removes offenses covered by herb:disable comments, or only
// counts them when keep is set.
func (l *Linter) suppress(result *Result, source string, tree *erbast.Tree, keep bool) {
	directives := scanDirectives(source, tree)
	if len(directives) == 0 || len(result.Offenses) == 0 {
		return
	}
	covered := newSuppressions(directives)

	kept := result.Offenses[:0]
	for _, o := range result.Offenses {
		if !covered.covers(&o) {
			kept = append(kept, o)
			continue
		}
		if keep {
			result.WouldBeIgnored++
			kept = append(kept, o)
		} else {
			result.Ignored++
		}
	}
	result.Offenses = kept
}

func (c *Context) fileName() string {
	if c == nil {
		return ""
	}
	return c.FileName
}

func (c *Context) config() *config.Config {
	if c == nil {
		return nil
	}
	return c.Config
}

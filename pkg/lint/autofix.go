package lint

import (
	"context"
	"fmt"

	"github.com/yaklabco/herblint/internal/logging"
	"github.com/yaklabco/herblint/pkg/erbast"
)

// AutofixResult is the outcome of one autofix pass.
type AutofixResult struct {
	// Source is the printed source after all fixes. It is the input source
	// unchanged when nothing was fixed.
	Source string

	// Fixed holds the offenses whose fix was applied.
	Fixed []Offense

	// Unfixed holds every other offense: declined fixes, rules without
	// Autofix, and rules with autofix turned off.
	Unfixed []Offense

	// Lint is the lint result the fixes were derived from.
	Lint *Result
}

// Changed reports whether the source was modified.
func (r *AutofixResult) Changed() bool {
	return len(r.Fixed) > 0
}

// Autofix lints source and applies every available fix to one shared tree,
// which is printed once at the end.
//
// This is a single pass. Fixes must not depend on each other; a caller that
// wants convergence re-runs Autofix on the returned source.
func (l *Linter) Autofix(source string, lctx *Context) *AutofixResult {
	ctx, span := startSpan(lctx.context(), "herblint.Autofix", lctx.fileName())
	defer span.End()

	run := l.run(ctx, source, lctx)
	out := &AutofixResult{Source: source, Lint: run.result}
	tree := run.parsed.Tree

	for _, o := range run.result.Offenses {
		active := run.active[o.Rule]
		if active == nil || !active.resolved.AutoFix || o.AutofixContext == nil {
			out.Unfixed = append(out.Unfixed, o)
			continue
		}
		fixer, ok := active.rule.(Fixer)
		if !ok || tree == nil {
			out.Unfixed = append(out.Unfixed, o)
			continue
		}

		fixed, err := applyFix(fixer, o, tree, active.ctx)
		if err != nil {
			l.log(ctx).Debug("autofix failed",
				logging.FieldRule, o.Rule,
				logging.FieldPath, lctx.fileName(),
				logging.FieldError, err,
			)
		}
		if fixed {
			out.Fixed = append(out.Fixed, o)
		} else {
			out.Unfixed = append(out.Unfixed, o)
		}
	}

	if len(out.Fixed) > 0 {
		out.Source = l.printer.Print(tree)
	}
	recordFixMetrics(ctx, len(out.Fixed), len(out.Unfixed))

	return out
}

// applyFix runs one rule's Autofix. A nil tree means the rule declined;
// a panic is reported as an error and also counts as declined.
func applyFix(fixer Fixer, o Offense, tree *erbast.Tree, rc *RuleContext) (fixed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			fixed, err = false, fmt.Errorf("%w: %s autofix: %v", ErrRulePanic, o.Rule, r)
		}
	}()
	return fixer.Autofix(o, tree, rc) != nil, nil
}

// AutofixUntilStable re-runs Autofix until a pass fixes nothing or
// maxPasses is reached. The returned result's Fixed accumulates all passes;
// Unfixed and Lint come from the last pass.
func (l *Linter) AutofixUntilStable(ctx context.Context, source string, lctx Context, maxPasses int) (*AutofixResult, int) {
	if lctx.Ctx == nil {
		lctx.Ctx = ctx
	}
	if maxPasses < 1 {
		maxPasses = 1
	}

	total := &AutofixResult{Source: source}
	passes := 0
	for passes < maxPasses {
		if ctx.Err() != nil {
			break
		}
		passes++
		res := l.Autofix(total.Source, &lctx)
		total.Fixed = append(total.Fixed, res.Fixed...)
		total.Unfixed = res.Unfixed
		total.Lint = res.Lint
		if !res.Changed() || res.Source == total.Source {
			break
		}
		total.Source = res.Source
	}
	return total, passes
}

package lint

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/yaklabco/herblint/pkg/config"
)

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for offenses from this rule.
	Severity config.Severity

	// AutoFix indicates whether the rule may fix its offenses.
	AutoFix bool

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig

	include []glob.Glob
	exclude []glob.Glob
}

// ResolveRule merges a rule's defaults with the project configuration.
// It fails only when an include or exclude glob does not compile.
func ResolveRule(rule Rule, cfg *config.Config) (ResolvedRule, error) {
	defaults := rule.Defaults()
	_, fixable := rule.(Fixer)

	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  defaults.Enabled,
		Severity: defaults.Severity,
		AutoFix:  fixable,
	}
	if rr.Severity == "" {
		rr.Severity = config.SeverityError
	}

	include := defaults.Include
	exclude := slices.Clone(defaults.Exclude)

	if cfg != nil {
		name := rule.Name()

		// Explicit enable/disable from the CLI.
		if slices.Contains(cfg.EnableRules, name) {
			rr.Enabled = true
		}
		if slices.Contains(cfg.DisableRules, name) {
			rr.Enabled = false
		}

		if ruleCfg, ok := cfg.Rules[name]; ok {
			rr.Config = &ruleCfg

			if ruleCfg.Enabled != nil {
				rr.Enabled = *ruleCfg.Enabled
			}
			if ruleCfg.Severity != nil && config.Severity(*ruleCfg.Severity).IsValid() {
				rr.Severity = config.Severity(*ruleCfg.Severity)
			}
			if ruleCfg.AutoFix != nil {
				rr.AutoFix = *ruleCfg.AutoFix && fixable
			}
			if len(ruleCfg.Include) > 0 {
				include = ruleCfg.Include
			}
			exclude = append(exclude, ruleCfg.Exclude...)
		}

		// Fix-rules filter from the CLI.
		if len(cfg.FixRules) > 0 {
			rr.AutoFix = fixable && slices.Contains(cfg.FixRules, name)
		}
	}

	var err error
	if rr.include, err = compileGlobs(include); err != nil {
		return rr, fmt.Errorf("rule %s: include: %w", rule.Name(), err)
	}
	if rr.exclude, err = compileGlobs(exclude); err != nil {
		return rr, fmt.Errorf("rule %s: exclude: %w", rule.Name(), err)
	}
	return rr, nil
}

// AppliesTo reports whether the rule's include/exclude globs select fileName.
// An empty fileName is selected unless the rule has include globs.
func (rr *ResolvedRule) AppliesTo(fileName string) bool {
	if fileName == "" {
		return len(rr.include) == 0
	}
	path := filepath.ToSlash(fileName)

	if len(rr.include) > 0 && !matchAny(rr.include, path) {
		return false
	}
	return !matchAny(rr.exclude, path)
}

// globCache holds compiled patterns; configs repeat the same few globs for
// every file of a run.
//
//nolint:gochecknoglobals // Process-wide cache of immutable compiled globs.
var globCache sync.Map

// compileGlob compiles a path glob where "*" stays within one path segment
// and "**" spans segments.
func compileGlob(pattern string) (glob.Glob, error) {
	if g, ok := globCache.Load(pattern); ok {
		return g.(glob.Glob), nil //nolint:forcetypeassert // Only glob.Glob values are stored.
	}
	g, err := glob.Compile(filepath.ToSlash(pattern), '/')
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	globCache.Store(pattern, g)
	return g, nil
}

// MatchPath reports whether path is selected by one of patterns, matching
// the way rule include and exclude globs do.
func MatchPath(patterns []string, path string) (bool, error) {
	globs, err := compileGlobs(patterns)
	if err != nil {
		return false, err
	}
	return matchAny(globs, filepath.ToSlash(path)), nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := compileGlob(p)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// matchAny reports whether path, or any suffix of it starting at a path
// segment, matches one of the globs. Relative patterns such as
// "app/views/**" then match absolute paths too.
func matchAny(globs []glob.Glob, path string) bool {
	for {
		for _, g := range globs {
			if g.Match(path) {
				return true
			}
		}
		i := strings.IndexByte(path, '/')
		if i < 0 {
			return false
		}
		path = path[i+1:]
	}
}

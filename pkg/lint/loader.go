package lint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"plugin"

	"github.com/gobwas/glob"

	"github.com/yaklabco/herblint/internal/logging"
)

// DefaultCustomRulePatterns are searched when LoadOptions.Patterns is empty.
//
//nolint:gochecknoglobals // Read-only default.
var DefaultCustomRulePatterns = []string{".herb/rules/**.so"}

// Plugin symbols looked up by PluginOpener.
const (
	// SymbolNewRule is a func() lint.Rule exported by a single-rule plugin.
	SymbolNewRule = "NewRule"
	// SymbolRules is a func() []lint.Factory exported by a multi-rule plugin.
	SymbolRules = "Rules"
)

// ErrPluginSymbol is returned when a plugin exports neither rule symbol,
// or exports one with the wrong type.
var ErrPluginSymbol = errors.New("plugin does not export a rule")

// Opener loads the rule factories of one custom rule file.
type Opener interface {
	Open(path string) ([]Factory, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string) ([]Factory, error)

// Open calls f(path).
func (f OpenerFunc) Open(path string) ([]Factory, error) {
	return f(path)
}

// PluginOpener opens Go plugins built with -buildmode=plugin.
type PluginOpener struct{}

// Open loads the plugin at path and returns its rules.
func (PluginOpener) Open(path string) ([]Factory, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plugin: %w", err)
	}

	if sym, err := p.Lookup(SymbolRules); err == nil {
		rules, ok := sym.(func() []Factory)
		if !ok {
			return nil, fmt.Errorf("%w: %s has type %T", ErrPluginSymbol, SymbolRules, sym)
		}
		return rules(), nil
	}
	if sym, err := p.Lookup(SymbolNewRule); err == nil {
		newRule, ok := sym.(func() Rule)
		if !ok {
			return nil, fmt.Errorf("%w: %s has type %T", ErrPluginSymbol, SymbolNewRule, sym)
		}
		return []Factory{newRule}, nil
	}
	return nil, fmt.Errorf("%w: expected %s or %s", ErrPluginSymbol, SymbolNewRule, SymbolRules)
}

// LoadOptions controls custom rule discovery.
type LoadOptions struct {
	// BaseDir is the directory patterns are relative to.
	BaseDir string

	// Patterns are globs of rule files. Empty means DefaultCustomRulePatterns.
	Patterns []string

	// Silent suppresses logging of warnings. They are still returned.
	Silent bool
}

// CustomRuleInfo describes one loaded custom rule.
type CustomRuleInfo struct {
	Name string

	// Path is the file the rule came from, empty for compiled-in rules.
	Path string

	// Replaced is set when the rule replaced an existing rule of the same name.
	Replaced bool
}

// LoadResult summarizes a LoadCustomRules call.
type LoadResult struct {
	// Count is the number of rules registered by this call.
	Count int

	RuleInfo []CustomRuleInfo

	// Warnings describe overrides and files that failed to load.
	Warnings []string
}

// customRegistry holds rules compiled into the binary with RegisterCustom.
//
//nolint:gochecknoglobals // Global registry is intentional for rule registration
var customRegistry = NewRegistry()

// RegisterCustom adds a compiled-in custom rule. Custom rules are merged
// into a Linter by LoadCustomRules, after the built-in rules, so a custom
// rule named like a built-in one replaces it.
func RegisterCustom(factory Factory) {
	customRegistry.MustRegister(factory)
}

// LoadCustomRules merges compiled-in custom rules and the rule files
// matching opts.Patterns under opts.BaseDir into the linter's registry.
//
// Loading happens once per Linter; later calls return an empty result.
// Files that fail to load and rules that replace existing ones produce
// warnings, never errors. The error result is reserved for an unreadable
// BaseDir or a cancelled context.
//
// Call it before linting concurrently.
func (l *Linter) LoadCustomRules(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	result := &LoadResult{}
	if l.loaded {
		return result, nil
	}

	for _, name := range customRegistry.Names() {
		factory := func() Rule {
			rule, _ := customRegistry.Get(name)
			return rule
		}
		l.register(result, factory, "")
	}

	paths, warnings, err := discoverRuleFiles(ctx, opts)
	result.Warnings = append(result.Warnings, warnings...)
	if err != nil {
		return result, err
	}

	for _, path := range paths {
		factories, err := l.opener.Open(path)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to load custom rule %s: %v", path, err))
			continue
		}
		for _, f := range factories {
			l.register(result, f, path)
		}
	}

	l.loaded = true

	if !opts.Silent {
		logger := l.log(ctx)
		for _, w := range result.Warnings {
			logger.Warn(w)
		}
		if result.Count > 0 {
			logger.Debug("loaded custom rules", logging.FieldCount, result.Count)
		}
	}
	return result, nil
}

// register adds one custom factory, turning every failure into a warning.
func (l *Linter) register(result *LoadResult, factory Factory, path string) {
	origin := path
	if origin == "" {
		origin = "compiled-in rules"
	}

	var (
		replaced bool
		err      error
		name     string
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrRulePanic, r)
			}
		}()
		if rule := factory(); rule != nil {
			name = rule.Name()
		}
		replaced, err = l.registry.Register(factory)
	}()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("failed to register custom rule from %s: %v", origin, err))
		return
	}

	if replaced {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("custom rule %q from %s overrides an existing rule with the same name", name, origin))
	}
	result.Count++
	result.RuleInfo = append(result.RuleInfo, CustomRuleInfo{Name: name, Path: path, Replaced: replaced})
}

// skipDirs are never searched for rule files.
//
//nolint:gochecknoglobals // Read-only lookup table.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// discoverRuleFiles walks opts.BaseDir and returns the files matching any
// pattern, in lexical order. Invalid patterns become warnings.
func discoverRuleFiles(ctx context.Context, opts LoadOptions) ([]string, []string, error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = DefaultCustomRulePatterns
	}

	var (
		globs    []glob.Glob
		warnings []string
	)
	for _, p := range patterns {
		g, err := compileGlob(p)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ignoring custom rule pattern: %v", err))
			continue
		}
		globs = append(globs, g)
	}
	if len(globs) == 0 {
		return nil, warnings, nil
	}

	base := opts.BaseDir
	if base == "" {
		base = "."
	}

	var paths []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == base {
				return err
			}
			warnings = append(warnings, fmt.Sprintf("skipping %s: %v", path, err))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != base && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return nil //nolint:nilerr // Unreachable for paths below base.
		}
		rel = filepath.ToSlash(rel)
		for _, g := range globs {
			if g.Match(rel) {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, warnings, fmt.Errorf("discover custom rules in %s: %w", base, err)
	}
	return paths, warnings, nil
}

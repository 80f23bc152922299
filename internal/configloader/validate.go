package configloader

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/herblint/pkg/config"
)

// ValidationError is one problem found in a configuration.
type ValidationError struct {
	// Field is the path of the offending key, e.g. "rules.html-img-require-alt.severity".
	Field string

	Value   any
	Message string

	// FilePath is the config file the value came from, when known.
	FilePath string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 3)
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult collects errors, which stop loading, and warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	knownFormats = []config.OutputFormat{
		config.FormatText, config.FormatJSON, config.FormatSARIF, config.FormatDiff, config.FormatSummary,
	}
	knownBackupModes = []string{"sidecar", "xdg", "none"}
)

// Validate checks severities, formats, backup modes and globs.
// Unknown rule names are reported separately by UnknownRules, once the
// custom rules are loaded.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !slices.Contains(knownFormats, cfg.Format) {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, json, sarif, diff, summary", cfg.Format)
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.Backups.Mode != "" && !slices.Contains(knownBackupModes, cfg.Backups.Mode) {
		result.fail("backups.mode", cfg.Backups.Mode,
			"invalid backup mode %q; must be one of: %s", cfg.Backups.Mode, strings.Join(knownBackupModes, ", "))
	}

	validateGlobs(result, "include", cfg.Include)
	validateGlobs(result, "exclude", cfg.Exclude)
	validateGlobs(result, "custom_rules", cfg.CustomRules)

	names := make([]string, 0, len(cfg.Rules))
	for name := range cfg.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rc := cfg.Rules[name]
		field := "rules." + name
		if rc.Severity != nil && !config.Severity(*rc.Severity).IsValid() {
			result.fail(field+".severity", *rc.Severity,
				"invalid severity %q; must be one of: error, warning, info, hint", *rc.Severity)
		}
		validateGlobs(result, field+".include", rc.Include)
		validateGlobs(result, field+".exclude", rc.Exclude)
	}

	return result
}

func validateGlobs(result *ValidationResult, field string, patterns []string) {
	for i, pattern := range patterns {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.fail(fmt.Sprintf("%s[%d]", field, i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// UnknownRules returns the configured rule names that are not in known,
// sorted. The CLI reports them as warnings.
func UnknownRules(cfg *config.Config, known []string) []string {
	if cfg == nil {
		return nil
	}

	var unknown []string
	for name := range cfg.Rules {
		if !slices.Contains(known, name) {
			unknown = append(unknown, name)
		}
	}
	for _, name := range slices.Concat(cfg.EnableRules, cfg.DisableRules, cfg.FixRules) {
		if !slices.Contains(known, name) && !slices.Contains(unknown, name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

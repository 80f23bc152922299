package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes all rules with their documentation.
	// If false, generates a minimal template.
	Full bool

	// IncludeRules is a list of rule names to include.
	// If empty, all rules are included.
	IncludeRules []string
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	CanFix      bool
}

// RuleInfoProvider is a function that returns rule information.
// This allows decoupling from the lint package to avoid circular imports.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the rules package during init.
//
//nolint:gochecknoglobals // Intentional extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) []byte {
	if opts.Full {
		return generateFullTemplate(opts)
	}
	return generateMinimalTemplate()
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Additional file patterns to lint (glob patterns)
# include:
#   - "app/views/**/*.html.erb"

# File patterns to skip (glob patterns)
# exclude:
#   - "vendor/**"
#   - "node_modules/**"

# Custom rule plugins (glob patterns, relative to this file)
# custom_rules:
#   - "lint/rules/*.so"

# Legacy-debt file generated by "herblint todo"
# todo_file: .herb-todo.yml

# Rule-specific configuration
# rules:
#   html-tag-name-lowercase:
#     severity: warning
#   erb-strict-locals-required:
#     enabled: true
#     include:
#       - "app/views/**/_*.html.erb"
`)

	return buf.Bytes()
}

func generateFullTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`
#
# This template includes all available rules with their default settings.
# Uncomment and modify settings as needed.

# Additional file patterns to lint (glob patterns)
include: []

# File patterns to skip (glob patterns)
exclude:
  - "vendor/**"
  - "node_modules/**"
  - ".git/**"

# Custom rule plugins (glob patterns, relative to this file)
custom_rules: []

# Legacy-debt file generated by "herblint todo"
todo_file: .herb-todo.yml

# Backup configuration for auto-fix
backups:
  enabled: false
  mode: sidecar

# Rule-specific configuration
rules:
`)

	rules := getRuleInfos()

	if len(opts.IncludeRules) > 0 {
		includeSet := make(map[string]bool)
		for _, name := range opts.IncludeRules {
			includeSet[name] = true
		}
		filtered := make([]RuleInfo, 0)
		for _, r := range rules {
			if includeSet[r.Name] {
				filtered = append(filtered, r)
			}
		}
		rules = filtered
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Name < rules[j].Name
	})

	for _, rule := range rules {
		fmt.Fprintf(&buf, "\n  # %s\n", wrapComment(rule.Description, commentWrapWidth))
		if rule.CanFix {
			buf.WriteString("  # Auto-fix: yes\n")
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.Name)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n", rule.Severity)
		buf.WriteString("    # exclude:\n")
		buf.WriteString("    #   - \"app/views/legacy/**\"\n")
	}

	return buf.Bytes()
}

func getRuleInfos() []RuleInfo {
	if DefaultRuleInfoProvider != nil {
		return DefaultRuleInfoProvider()
	}
	return nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# herblint configuration
# See: https://github.com/yaklabco/herblint`
}

package lint

import (
	"regexp"
	"strings"

	"github.com/yaklabco/herblint/pkg/erbast"
)

// Directive keywords recognized in ERB comments.
const (
	DisableDirective      = "herb:disable"
	EnableDirective       = "herb:enable"
	LinterIgnoreDirective = "herb:linter ignore"

	// DisableAll suppresses every rule on the directive's line.
	DisableAll = "all"
)

// directiveRulePrefix names the rules that validate directives themselves.
// Their offenses are never suppressed by the directive they report on.
const directiveRulePrefix = "herb-disable-comment-"

// sourceDirectivePattern finds a disable directive in raw source text,
// including the comment delimiters.
//
//nolint:gochecknoglobals // Compiled once.
var sourceDirectivePattern = regexp.MustCompile(`<%#(\s*herb:disable\b[^%]*)%>`)

// DirectiveRule is one rule name listed in a disable directive.
type DirectiveRule struct {
	Name string

	// Offset and Length locate Name within the directive content.
	Offset int
	Length int
}

// Directive is a parsed herb:disable comment.
type Directive struct {
	// Line is the 1-based line the directive applies to.
	Line int

	// Rules lists the named rules in directive order, duplicates included.
	Rules []DirectiveRule

	// Node is the comment node, or NoNode when scanned from raw text.
	Node erbast.NodeID

	// ContentStart is the byte offset of the directive content in the source.
	ContentStart int
}

// Location returns the source span of one of the directive's rule names.
func (d *Directive) Location(lines *erbast.LineIndex, r DirectiveRule) erbast.Location {
	start := d.ContentStart + r.Offset
	return lines.Location(erbast.Range{Start: start, End: start + r.Length})
}

// ParseDisableDirective parses the content of a comment. It returns the
// listed rule names and true when content is a disable directive naming at
// least one rule.
func ParseDisableDirective(content string) ([]DirectiveRule, bool) {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, DisableDirective) {
		return nil, false
	}
	offset := len(content) - len(trimmed) + len(DisableDirective)
	rest := content[offset:]
	if rest != "" && !isDirectiveSpace(rest[0]) {
		// "herb:disabled" and the like.
		return nil, false
	}

	var rules []DirectiveRule
	for _, part := range strings.Split(rest, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			lead := len(part) - len(strings.TrimLeft(part, " \t\r\n"))
			rules = append(rules, DirectiveRule{
				Name:   name,
				Offset: offset + lead,
				Length: len(name),
			})
		}
		offset += len(part) + 1
	}
	return rules, len(rules) > 0
}

func isDirectiveSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// IsDirectiveComment reports whether comment content is one of the herb
// directives (disable, enable, linter ignore) rather than a plain comment.
func IsDirectiveComment(content string) bool {
	for _, keyword := range []string{DisableDirective, EnableDirective, LinterIgnoreDirective} {
		if startsWithDirective(content, keyword) {
			return true
		}
	}
	return false
}

// startsWithDirective reports whether trimmed content is keyword alone or
// keyword followed by whitespace.
func startsWithDirective(content, keyword string) bool {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, keyword) {
		return false
	}
	rest := trimmed[len(keyword):]
	return rest == "" || isDirectiveSpace(rest[0])
}

// ScanTree collects the disable directives of every ERB comment in tree,
// in document order.
func ScanTree(tree *erbast.Tree) []Directive {
	var directives []Directive
	for _, node := range tree.FindAll((*erbast.Node).IsERBComment) {
		rules, ok := ParseDisableDirective(node.Value)
		if !ok {
			continue
		}
		directives = append(directives, Directive{
			Line:         node.Location.Start.Line,
			Rules:        rules,
			Node:         node.ID,
			ContentStart: node.Range.Start + len(node.Open),
		})
	}
	return directives
}

// ScanSource collects disable directives from raw text, line by line.
// It serves rules and callers that have no tree, and the linter when a
// parser returns none.
func ScanSource(source string) []Directive {
	var directives []Directive
	lineStart := 0
	for lineNo, line := range strings.SplitAfter(source, "\n") {
		for _, m := range sourceDirectivePattern.FindAllStringSubmatchIndex(line, -1) {
			content := line[m[2]:m[3]]
			rules, ok := ParseDisableDirective(content)
			if !ok {
				continue
			}
			directives = append(directives, Directive{
				Line:         lineNo + 1,
				Rules:        rules,
				Node:         erbast.NoNode,
				ContentStart: lineStart + m[2],
			})
		}
		lineStart += len(line)
	}
	return directives
}

// HasLinterIgnore reports whether the tree contains a
// <%# herb:linter ignore %> comment, which excludes the whole file.
func HasLinterIgnore(tree *erbast.Tree) bool {
	if tree == nil {
		return false
	}
	for _, node := range tree.FindAll((*erbast.Node).IsERBComment) {
		if startsWithDirective(node.Value, LinterIgnoreDirective) {
			return true
		}
	}
	return false
}

// scanDirectives collects the disable directives of source. Without a
// tree the raw text is scanned instead.
func scanDirectives(source string, tree *erbast.Tree) []Directive {
	if tree == nil {
		return ScanSource(source)
	}
	return ScanTree(tree)
}

// suppressions maps a line to the rule names disabled on it.
type suppressions map[int]map[string]bool

func newSuppressions(directives []Directive) suppressions {
	s := make(suppressions)
	for _, d := range directives {
		names := s[d.Line]
		if names == nil {
			names = make(map[string]bool)
			s[d.Line] = names
		}
		for _, r := range d.Rules {
			names[r.Name] = true
		}
	}
	return s
}

// covers reports whether an offense is disabled by a directive on its line.
func (s suppressions) covers(o *Offense) bool {
	if strings.HasPrefix(o.Rule, directiveRulePrefix) {
		return false
	}
	names := s[o.Line()]
	return names[o.Rule] || names[DisableAll]
}

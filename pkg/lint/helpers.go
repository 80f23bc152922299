package lint

import (
	"strings"

	"github.com/yaklabco/herblint/pkg/erbast"
)

// Node query helpers.

// Elements returns all element nodes in the document.
func Elements(tree *erbast.Tree) []*erbast.Node {
	return tree.FindByKind(erbast.NodeElement)
}

// OpenTags returns all open tag nodes in the document.
func OpenTags(tree *erbast.Tree) []*erbast.Node {
	return tree.FindByKind(erbast.NodeOpenTag)
}

// ERBComments returns all ERB comment tags (<%# %>) in the document.
func ERBComments(tree *erbast.Tree) []*erbast.Node {
	return tree.FindAll((*erbast.Node).IsERBComment)
}

// ERBTags returns every ERB tag in the document, including control-flow
// openers, branches and end tags.
func ERBTags(tree *erbast.Tree) []*erbast.Node {
	return tree.FindAll(func(n *erbast.Node) bool {
		switch n.Kind {
		case erbast.NodeERBContent, erbast.NodeERBBranch, erbast.NodeERBEnd:
			return true
		default:
			return false
		}
	})
}

// Node accessor helpers.

// ElementTags returns the open and close tags of an element. Either may be
// nil: a close tag is absent when it was omitted in the source.
func ElementTags(tree *erbast.Tree, element *erbast.Node) (open, closeTag *erbast.Node) {
	if element == nil || element.Kind != erbast.NodeElement {
		return nil, nil
	}
	return tree.Node(element.OpenTag), tree.Node(element.CloseTag)
}

// AttributeValue returns the literal text of an attribute's value, with
// ERB tags included verbatim, and whether the value is static (has no ERB).
func AttributeValue(tree *erbast.Tree, attr *erbast.Node) (value string, static bool) {
	if attr == nil || attr.Kind != erbast.NodeAttribute || !attr.AttrValue.Valid() {
		return "", true
	}

	var sb strings.Builder
	static = true
	for _, id := range tree.Node(attr.AttrValue).Children {
		child := tree.Node(id)
		if child.Kind.IsERBTag() || child.Kind.IsControlFlow() {
			static = false
			sb.WriteString(child.Open + child.Value + child.Close)
			continue
		}
		sb.WriteString(child.Value)
	}
	return sb.String(), static
}

// InsideElement reports whether any ancestor of id is an element named one
// of names (lowercase).
func InsideElement(tree *erbast.Tree, id erbast.NodeID, names ...string) bool {
	for _, ancestor := range tree.Ancestors(id) {
		n := tree.Node(ancestor)
		if n.Kind != erbast.NodeElement {
			continue
		}
		open := tree.Node(n.OpenTag)
		if open == nil {
			continue
		}
		for _, name := range names {
			if open.TagName() == name {
				return true
			}
		}
	}
	return false
}

// Line-based helpers.

// LineContent returns the content of the 1-based line, without its newline.
// Returns "" if the line number is out of range.
func LineContent(source string, lines *erbast.LineIndex, lineNum int) string {
	start, ok := lines.LineStart(lineNum)
	if !ok {
		return ""
	}
	end := len(source)
	if next, ok := lines.LineStart(lineNum + 1); ok {
		end = next
	}
	return strings.TrimRight(source[start:end], "\r\n")
}

// TrailingWhitespaceLength returns the number of trailing spaces and tabs in s.
func TrailingWhitespaceLength(s string) int {
	return len(s) - len(strings.TrimRight(s, " \t"))
}

// LocationAt returns the location of the byte range [start, end).
func LocationAt(lines *erbast.LineIndex, start, end int) erbast.Location {
	return lines.Location(erbast.Range{Start: start, End: end})
}

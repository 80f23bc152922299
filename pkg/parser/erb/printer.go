package erb

import (
	"strings"

	"github.com/yaklabco/herblint/pkg/erbast"
)

// Printer implements lint.Printer by writing every literal field back out.
// Printing a tree parsed with TrackWhitespace reproduces its source.
type Printer struct{}

// NewPrinter creates a new printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// Print serializes the tree to source text.
func (*Printer) Print(tree *erbast.Tree) string {
	var sb strings.Builder
	printNode(&sb, tree, tree.Root)
	return sb.String()
}

func printNode(sb *strings.Builder, tree *erbast.Tree, id erbast.NodeID) {
	n := tree.Node(id)
	if n == nil {
		return
	}

	switch n.Kind {
	case erbast.NodeText, erbast.NodeWhitespace, erbast.NodeDoctype,
		erbast.NodeXMLDeclaration, erbast.NodeCDATA:
		sb.WriteString(n.Value)
		return
	case erbast.NodeHTMLComment, erbast.NodeERBContent, erbast.NodeERBEnd:
		sb.WriteString(n.Open)
		sb.WriteString(n.Value)
		sb.WriteString(n.Close)
		return
	case erbast.NodeCloseTag:
		sb.WriteString(n.Open)
		sb.WriteString(n.Name)
		sb.WriteString(n.Value)
		sb.WriteString(n.Close)
		return
	case erbast.NodeOpenTag:
		sb.WriteString(n.Open)
		sb.WriteString(n.Name)
		printContents(sb, tree, id)
		sb.WriteString(n.Close)
		return
	case erbast.NodeAttribute:
		sb.WriteString(n.Name)
		sb.WriteString(n.Equals)
		printContents(sb, tree, id)
		return
	case erbast.NodeAttributeValue:
		sb.WriteString(n.Open)
		printContents(sb, tree, id)
		sb.WriteString(n.Close)
		return
	case erbast.NodeERBBranch:
		sb.WriteString(n.Open)
		sb.WriteString(n.Value)
		sb.WriteString(n.Close)
		printContents(sb, tree, id)
		return
	case erbast.NodeDocument, erbast.NodeElement, erbast.NodeERBIf,
		erbast.NodeERBCase, erbast.NodeERBLoop, erbast.NodeERBBegin:
		printContents(sb, tree, id)
	}
}

func printContents(sb *strings.Builder, tree *erbast.Tree, id erbast.NodeID) {
	for _, child := range tree.Contents(id) {
		printNode(sb, tree, child)
	}
}

package erbast

// NodeKind classifies the type of an AST node.
type NodeKind uint16

// Node kinds for HTML structure and embedded Ruby.
const (
	NodeDocument NodeKind = iota

	// HTML nodes.
	NodeText
	NodeWhitespace
	NodeElement
	NodeOpenTag
	NodeCloseTag
	NodeAttribute
	NodeAttributeValue
	NodeHTMLComment
	NodeDoctype
	NodeXMLDeclaration
	NodeCDATA

	// ERB nodes.
	NodeERBContent
	NodeERBIf
	NodeERBCase
	NodeERBLoop
	NodeERBBegin
	NodeERBBranch
	NodeERBEnd
)

//nolint:gochecknoglobals // Read-only lookup table.
var nodeKindNames = [...]string{
	NodeDocument:       "Document",
	NodeText:           "Text",
	NodeWhitespace:     "Whitespace",
	NodeElement:        "Element",
	NodeOpenTag:        "OpenTag",
	NodeCloseTag:       "CloseTag",
	NodeAttribute:      "Attribute",
	NodeAttributeValue: "AttributeValue",
	NodeHTMLComment:    "HTMLComment",
	NodeDoctype:        "Doctype",
	NodeXMLDeclaration: "XMLDeclaration",
	NodeCDATA:          "CDATA",
	NodeERBContent:     "ERBContent",
	NodeERBIf:          "ERBIf",
	NodeERBCase:        "ERBCase",
	NodeERBLoop:        "ERBLoop",
	NodeERBBegin:       "ERBBegin",
	NodeERBBranch:      "ERBBranch",
	NodeERBEnd:         "ERBEnd",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "NodeKind(?)"
}

// IsControlFlow reports whether nodes of this kind hold ERB branches.
func (k NodeKind) IsControlFlow() bool {
	switch k {
	case NodeERBIf, NodeERBCase, NodeERBLoop, NodeERBBegin:
		return true
	default:
		return false
	}
}

// IsERBTag reports whether nodes of this kind print an ERB tag of their own.
func (k NodeKind) IsERBTag() bool {
	switch k {
	case NodeERBContent, NodeERBBranch, NodeERBEnd:
		return true
	default:
		return false
	}
}

// BranchKind names the keyword that opened an ERB branch.
type BranchKind uint8

// Branch keywords.
const (
	BranchNone BranchKind = iota
	BranchIf
	BranchUnless
	BranchElsif
	BranchElse
	BranchCase
	BranchWhen
	BranchIn
	BranchWhile
	BranchUntil
	BranchFor
	BranchBlock
	BranchBegin
	BranchRescue
	BranchEnsure
)

//nolint:gochecknoglobals // Read-only lookup table.
var branchKindNames = [...]string{
	BranchNone:   "",
	BranchIf:     "if",
	BranchUnless: "unless",
	BranchElsif:  "elsif",
	BranchElse:   "else",
	BranchCase:   "case",
	BranchWhen:   "when",
	BranchIn:     "in",
	BranchWhile:  "while",
	BranchUntil:  "until",
	BranchFor:    "for",
	BranchBlock:  "do",
	BranchBegin:  "begin",
	BranchRescue: "rescue",
	BranchEnsure: "ensure",
}

func (b BranchKind) String() string {
	if int(b) < len(branchKindNames) {
		return branchKindNames[b]
	}
	return "BranchKind(?)"
}

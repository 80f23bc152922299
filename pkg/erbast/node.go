package erbast

import "strings"

// NodeID is a stable handle to a node in a Tree.
// Handles stay valid while the tree is mutated.
type NodeID int32

// NoNode is the zero handle for absent references.
const NoNode NodeID = -1

// Valid reports whether the handle refers to a node.
func (id NodeID) Valid() bool {
	return id >= 0
}

// Node represents a single node in the HTML+ERB AST.
//
// Literal fields hold the exact source text of the node so that a printer
// can reproduce the input byte for byte:
//
//	Text, Whitespace         Value
//	OpenTag                  Open Name <children> Close        ("<" "div" ... ">")
//	CloseTag                 Open Name Value Close             ("</" "div" "  " ">")
//	Attribute                Name Equals <AttrValue>
//	AttributeValue           Open <children> Close             (quote characters)
//	HTMLComment              Open Value Close
//	Doctype, XML, CDATA      Value
//	ERBContent/Branch/End    Open Value Close                  ("<%=" " x " "%>")
type Node struct {
	// ID is this node's handle within its tree.
	ID NodeID

	// Kind identifies what type of node this is.
	Kind NodeKind

	// Parent is the containing node, NoNode for the document.
	Parent NodeID

	// Children are the ordered content nodes.
	// For elements this is the body; for control flow, the branches.
	Children []NodeID

	// Range is the byte span at parse time. It is not updated by mutations.
	Range Range

	// Location is the line/column span at parse time.
	Location Location

	// NameLocation is the span of Name for tags and attributes.
	NameLocation Location

	// Name is the tag name or attribute name.
	Name string

	// Value is the literal text, raw content, or ERB code.
	Value string

	// Open and Close are literal delimiters.
	Open  string
	Close string

	// Equals is the literal separator of an attribute, including whitespace.
	Equals string

	// OpenTag and CloseTag link an element to its tags.
	OpenTag  NodeID
	CloseTag NodeID

	// AttrValue links an attribute to its value node.
	AttrValue NodeID

	// End links a control-flow node to its closing ERBEnd.
	End NodeID

	// Branch is the keyword of an ERBBranch.
	Branch BranchKind

	// Void is true for elements that never have content.
	Void bool
}

// IsERBComment reports whether the node is an ERB comment tag (<%# %>).
func (n *Node) IsERBComment() bool {
	return n.Kind == NodeERBContent && strings.HasPrefix(n.Open, "<%#")
}

// IsERBOutput reports whether the node outputs a value (<%= %>).
func (n *Node) IsERBOutput() bool {
	return n.Kind.IsERBTag() && strings.HasPrefix(n.Open, "<%=")
}

// IsSelfClosing reports whether an open tag ends in "/>".
func (n *Node) IsSelfClosing() bool {
	return n.Kind == NodeOpenTag && n.Close == "/>"
}

// TagName returns the lowercase tag name.
func (n *Node) TagName() string {
	return strings.ToLower(n.Name)
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

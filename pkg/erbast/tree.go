// Package erbast provides the HTML+ERB AST representation for herblint.
//
// Nodes live in an arena owned by a Tree and are addressed by NodeID handles.
// Handles are stable across in-place mutation, so a lint offense can carry the
// handle of the node it is about and an autofix can reach that node directly
// after other fixes have already rewritten its siblings.
package erbast

import (
	"slices"
	"strings"
)

// Tree is an arena of nodes rooted at a Document node.
type Tree struct {
	nodes []*Node

	// Root is the document node.
	Root NodeID
}

// NewTree creates a tree holding only an empty document node.
func NewTree() *Tree {
	t := &Tree{}
	t.Root = t.New(NodeDocument).ID
	return t
}

// New allocates a detached node of the given kind.
func (t *Tree) New(kind NodeKind) *Node {
	node := &Node{
		ID:        NodeID(len(t.nodes)),
		Kind:      kind,
		Parent:    NoNode,
		OpenTag:   NoNode,
		CloseTag:  NoNode,
		AttrValue: NoNode,
		End:       NoNode,
	}
	t.nodes = append(t.nodes, node)
	return node
}

// Node returns the node for id, or nil for an invalid handle.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Len returns the number of allocated nodes, attached or not.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// RootNode returns the document node.
func (t *Tree) RootNode() *Node {
	return t.Node(t.Root)
}

// AppendChild attaches child as the last child of parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	p := t.Node(parent)
	c := t.Node(child)
	if p == nil || c == nil {
		return
	}
	p.Children = append(p.Children, child)
	c.Parent = parent
}

// Attach links a node held by reference (tag, attribute value, end) to its owner.
func (t *Tree) Attach(owner, child NodeID) {
	if c := t.Node(child); c != nil {
		c.Parent = owner
	}
}

// IndexOf returns the position of child in parent's children, or -1.
func (t *Tree) IndexOf(parent, child NodeID) int {
	p := t.Node(parent)
	if p == nil {
		return -1
	}
	return slices.Index(p.Children, child)
}

// InsertAfter places node directly after ref among ref's siblings.
// It returns false if ref is not a child of its recorded parent.
func (t *Tree) InsertAfter(ref, node NodeID) bool {
	r := t.Node(ref)
	if r == nil {
		return false
	}
	return t.insertAt(r.Parent, t.IndexOf(r.Parent, ref)+1, node)
}

// InsertBefore places node directly before ref among ref's siblings.
func (t *Tree) InsertBefore(ref, node NodeID) bool {
	r := t.Node(ref)
	if r == nil {
		return false
	}
	idx := t.IndexOf(r.Parent, ref)
	if idx < 0 {
		return false
	}
	return t.insertAt(r.Parent, idx, node)
}

func (t *Tree) insertAt(parent NodeID, idx int, node NodeID) bool {
	p := t.Node(parent)
	n := t.Node(node)
	if p == nil || n == nil || idx < 0 || idx > len(p.Children) {
		return false
	}
	p.Children = slices.Insert(p.Children, idx, node)
	n.Parent = parent
	return true
}

// Remove detaches node from its parent's children.
func (t *Tree) Remove(node NodeID) bool {
	n := t.Node(node)
	if n == nil {
		return false
	}
	p := t.Node(n.Parent)
	if p == nil {
		return false
	}
	idx := slices.Index(p.Children, node)
	if idx < 0 {
		return false
	}
	p.Children = slices.Delete(p.Children, idx, idx+1)
	n.Parent = NoNode
	return true
}

// Contents returns every node printed inside n, in document order.
// Unlike Children it includes tags, attribute values and ERB end tags.
func (t *Tree) Contents(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}

	switch n.Kind {
	case NodeElement:
		out := make([]NodeID, 0, len(n.Children)+2)
		if n.OpenTag.Valid() {
			out = append(out, n.OpenTag)
		}
		out = append(out, n.Children...)
		if n.CloseTag.Valid() {
			out = append(out, n.CloseTag)
		}
		return out
	case NodeAttribute:
		if n.AttrValue.Valid() {
			return []NodeID{n.AttrValue}
		}
		return nil
	case NodeERBIf, NodeERBCase, NodeERBLoop, NodeERBBegin:
		if n.End.Valid() {
			return append(slices.Clone(n.Children), n.End)
		}
		return n.Children
	default:
		return n.Children
	}
}

// Attributes returns the attributes of an open tag, including those nested
// inside ERB control flow, in document order.
func (t *Tree) Attributes(openTag NodeID) []NodeID {
	var out []NodeID
	for _, child := range t.Contents(openTag) {
		n := t.Node(child)
		switch {
		case n.Kind == NodeAttribute:
			out = append(out, child)
		case n.Kind.IsControlFlow() || n.Kind == NodeERBBranch:
			out = append(out, t.Attributes(child)...)
		}
	}
	return out
}

// FindAttribute returns the first attribute of an open tag named name
// (case-insensitive), or NoNode.
func (t *Tree) FindAttribute(openTag NodeID, name string) NodeID {
	for _, id := range t.Attributes(openTag) {
		if t.Node(id).TagName() == strings.ToLower(name) {
			return id
		}
	}
	return NoNode
}

// Ancestors returns the chain of parents of id, nearest first.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	n := t.Node(id)
	for n != nil && n.Parent.Valid() {
		out = append(out, n.Parent)
		n = t.Node(n.Parent)
	}
	return out
}

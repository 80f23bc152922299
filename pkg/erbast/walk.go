package erbast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at id,
// visiting nodes in document order (see Tree.Contents).
func (t *Tree) Walk(id NodeID, walkFunc WalkFunc) error {
	return t.WalkWithContext(id, walkFunc, nil)
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Enter is called before visiting contents, leave after. Either may be nil.
func (t *Tree) WalkWithContext(id NodeID, enter, leave WalkFunc) error {
	n := t.Node(id)
	if n == nil {
		return nil
	}

	if enter != nil {
		if err := enter(n); err != nil {
			return err
		}
	}

	for _, child := range t.Contents(id) {
		if err := t.WalkWithContext(child, enter, leave); err != nil {
			return err
		}
	}

	if leave != nil {
		if err := leave(n); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes matching the predicate in document order.
func (t *Tree) FindAll(predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	t.Walk(t.Root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindByKind returns all nodes of the specified kind in document order.
func (t *Tree) FindByKind(kind NodeKind) []*Node {
	return t.FindAll(func(n *Node) bool {
		return n.Kind == kind
	})
}

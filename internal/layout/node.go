package layout

import "encoding/json"

// Node is one item of the layout tree. Containers (row, column, stack) own
// children; components are leaves whose content is owned by the host.
type Node struct {
	typ      ItemType
	id       string
	parent   *Node
	children []*Node
	size     float64

	title    string
	closable bool
	header   Header
	active   int

	componentType  string
	componentState json.RawMessage
}

func (n *Node) Type() ItemType   { return n.typ }
func (n *Node) ID() string       { return n.id }
func (n *Node) Parent() *Node    { return n.parent }
func (n *Node) Title() string    { return n.title }
func (n *Node) IsClosable() bool { return n.closable }
func (n *Node) Header() Header   { return n.header }

// Size is the node's weight, in percent, along its parent's main axis.
func (n *Node) Size() float64 { return n.size }

func (n *Node) ComponentType() string { return n.componentType }

// ComponentState is the state the item was created or loaded with. Live
// state is pulled from the content at save time.
func (n *Node) ComponentState() json.RawMessage { return cloneRaw(n.componentState) }

func (n *Node) IsLeaf() bool { return n.typ == TypeComponent }

// Children returns a copy of the child slice.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) ChildCount() int { return len(n.children) }

// ActiveIndex is the visible child of a stack.
func (n *Node) ActiveIndex() int { return n.active }

func (n *Node) ActiveChild() *Node {
	if n.typ != TypeStack || n.active < 0 || n.active >= len(n.children) {
		return nil
	}
	return n.children[n.active]
}

// IndexOf returns the position of child within n, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Walk visits n and its descendants depth-first, pre-order. Returning false
// from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// Leaves returns the component nodes below n in document order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if node.IsLeaf() {
			out = append(out, node)
		}
		return true
	})
	return out
}

// PostOrder returns the subtree's leaves bottom-up: the deepest, last
// children first.
func (n *Node) PostOrder() []*Node {
	var out []*Node
	var visit func(*Node)
	visit = func(node *Node) {
		for i := len(node.children) - 1; i >= 0; i-- {
			visit(node.children[i])
		}
		if node.IsLeaf() {
			out = append(out, node)
		}
	}
	if n != nil {
		visit(n)
	}
	return out
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Resolved snapshots this node alone, without children, as the binding layer
// hands it to the host.
func (n *Node) Resolved() ResolvedItem {
	return n.resolve(nil)
}

func (n *Node) resolve(stateOf func(*Node) json.RawMessage) ResolvedItem {
	width, height := 100.0, 100.0
	if n.parent != nil {
		if n.parent.typ == TypeColumn {
			height = n.size
		} else {
			width = n.size
		}
	}
	ri := ResolvedItem{
		Type:          n.typ,
		Content:       []ResolvedItem{},
		Width:         width,
		Height:        height,
		ID:            n.id,
		Title:         n.title,
		IsClosable:    n.closable,
		Header:        n.header,
		ComponentType: n.componentType,
	}
	if n.typ == TypeStack {
		ri.ActiveItemIndex = n.active
	}
	if n.IsLeaf() {
		state := n.componentState
		if stateOf != nil {
			state = stateOf(n)
		}
		ri.ComponentState = cloneRaw(state)
	}
	return ri
}

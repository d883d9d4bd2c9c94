package layout

import (
	"encoding/json"
	"fmt"
	"math"
)

// Tree owns the root node plus the global settings that travel with a saved
// layout. A nil root is an empty layout.
type Tree struct {
	root       *Node
	settings   Settings
	dimensions Dimensions
}

func NewTree(d Defaults) *Tree {
	return &Tree{settings: d.Settings, dimensions: d.Dimensions}
}

func (t *Tree) Root() *Node            { return t.root }
func (t *Tree) Settings() Settings     { return t.settings }
func (t *Tree) Dimensions() Dimensions { return t.dimensions }
func (t *Tree) Empty() bool            { return t.root == nil }

// Contains reports whether n is currently attached to this tree.
func (t *Tree) Contains(n *Node) bool {
	if n == nil || t.root == nil {
		return false
	}
	return t.root.Contains(n)
}

func (t *Tree) Leaves() []*Node {
	if t.root == nil {
		return nil
	}
	return t.root.Leaves()
}

// FirstStack returns the first stack in document order.
func (t *Tree) FirstStack() *Node {
	var found *Node
	t.root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.typ == TypeStack {
			found = n
			return false
		}
		return true
	})
	return found
}

// Save snapshots the tree. stateOf supplies live component state; nil means
// the state each item was created with.
func (t *Tree) Save(stateOf func(*Node) json.RawMessage) ResolvedConfig {
	rc := ResolvedConfig{Settings: t.settings, Dimensions: t.dimensions}
	if t.root != nil {
		root := saveItem(t.root, stateOf)
		rc.Root = &root
	}
	return rc
}

func saveItem(n *Node, stateOf func(*Node) json.RawMessage) ResolvedItem {
	ri := n.resolve(stateOf)
	for _, c := range n.children {
		ri.Content = append(ri.Content, saveItem(c, stateOf))
	}
	return ri
}

// AddComponent places a detached leaf. With a nil target it goes to the
// first stack, else next to the root component, else into the root
// container, else it becomes the only tab of a new root stack.
func (t *Tree) AddComponent(leaf *Node, target *Node) error {
	if err := t.checkDetachedLeaf(leaf); err != nil {
		return err
	}
	if target != nil {
		if !t.Contains(target) {
			return ErrNotInTree
		}
		return t.InsertAt(leaf, target, EdgeCenter)
	}
	switch {
	case t.root == nil:
		t.setRoot(newStack(leaf))
	case t.FirstStack() != nil:
		t.appendTab(t.FirstStack(), leaf)
	case t.root.IsLeaf():
		t.wrapInStack(t.root, leaf)
	default:
		t.appendChild(t.root, leaf)
	}
	return nil
}

// InsertAt drops a detached leaf relative to target. EdgeCenter adds it as a
// tab (wrapping a bare component into a stack); the other edges split. A nil
// target means the root.
func (t *Tree) InsertAt(leaf *Node, target *Node, edge Edge) error {
	if err := t.checkDetachedLeaf(leaf); err != nil {
		return err
	}
	if target == nil {
		target = t.root
	}
	if target == nil {
		t.setRoot(newStack(leaf))
		return nil
	}
	if !t.Contains(target) {
		return ErrNotInTree
	}

	if edge == EdgeCenter {
		switch target.typ {
		case TypeStack:
			t.appendTab(target, leaf)
		case TypeComponent:
			if p := target.parent; p != nil && p.typ == TypeStack {
				t.insertTab(p, p.IndexOf(target)+1, leaf)
			} else {
				t.wrapInStack(target, leaf)
			}
		default:
			t.appendChild(target, leaf)
		}
		return nil
	}

	// Splitting around a tab splits around its whole stack.
	if target.IsLeaf() && target.parent != nil && target.parent.typ == TypeStack {
		target = target.parent
	}
	axis := TypeRow
	if edge == EdgeTop || edge == EdgeBottom {
		axis = TypeColumn
	}
	before := edge == EdgeLeft || edge == EdgeTop

	switch {
	case target.typ == axis:
		idx := len(target.children)
		if before {
			idx = 0
		}
		t.insertChild(target, idx, leaf, 100/float64(len(target.children)+1))
	case target.parent != nil && target.parent.typ == axis:
		p := target.parent
		idx := p.IndexOf(target)
		if !before {
			idx++
		}
		half := target.size / 2
		target.size = half
		t.insertChild(p, idx, leaf, half)
	default:
		wrapper := &Node{typ: axis, closable: true, header: Header{Show: SideTop, Popout: true}}
		t.replace(target, wrapper)
		target.parent = wrapper
		leaf.parent = wrapper
		if before {
			wrapper.children = []*Node{leaf, target}
		} else {
			wrapper.children = []*Node{target, leaf}
		}
		leaf.size, target.size = 50, 50
	}
	return nil
}

// Remove detaches n and its subtree, then simplifies: empty containers go
// away and a non-root container left with one child is replaced by it.
func (t *Tree) Remove(n *Node) error {
	if !t.Contains(n) {
		return ErrNotInTree
	}
	t.detach(n)
	return nil
}

// Move detaches n and re-inserts it relative to target. Dropping an item
// onto itself, or onto the stack it already is the only tab of, is a no-op.
func (t *Tree) Move(n, target *Node, edge Edge) error {
	if !t.Contains(n) || (target != nil && !t.Contains(target)) {
		return ErrNotInTree
	}
	if !n.IsLeaf() {
		return fmt.Errorf("move %s: only components can be moved", n.typ)
	}
	if target == n {
		return nil
	}
	if p := n.parent; p != nil && target == p {
		switch {
		case len(p.children) == 1:
			return nil
		case edge == EdgeCenter && p.typ == TypeStack:
			return nil
		case len(p.children) == 2:
			// Detaching n collapses p into the sibling.
			target = p.children[1-p.IndexOf(n)]
		}
	}
	t.detach(n)
	n.size = 100
	if target != nil && !t.Contains(target) {
		target = nil
	}
	return t.InsertAt(n, target, edge)
}

// Clear visits every leaf bottom-up and then drops the whole tree.
func (t *Tree) Clear(visit func(*Node)) {
	if t.root == nil {
		return
	}
	if visit != nil {
		for _, leaf := range t.root.PostOrder() {
			visit(leaf)
		}
	}
	t.root = nil
}

// SetActive selects the visible tab of a stack.
func (t *Tree) SetActive(stack *Node, index int) error {
	if !t.Contains(stack) {
		return ErrNotInTree
	}
	if stack.typ != TypeStack {
		return ErrNotStack
	}
	if index < 0 || index >= len(stack.children) {
		return fmt.Errorf("set active: index %d out of range [0,%d)", index, len(stack.children))
	}
	stack.active = index
	return nil
}

// Reorder moves the tab at from to index to within stack. The active tab
// stays the same node.
func (t *Tree) Reorder(stack *Node, from, to int) error {
	if !t.Contains(stack) {
		return ErrNotInTree
	}
	if stack.typ != TypeStack {
		return ErrNotStack
	}
	n := len(stack.children)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("reorder: indexes %d, %d out of range [0,%d)", from, to, n)
	}
	if from == to {
		return nil
	}
	active := stack.ActiveChild()
	moved := stack.children[from]
	children := append(stack.children[:from:from], stack.children[from+1:]...)
	children = append(children[:to], append([]*Node{moved}, children[to:]...)...)
	stack.children = children
	if active != nil {
		stack.active = stack.IndexOf(active)
	}
	return nil
}

// SetWeights overwrites the child weights of a row or column. It only checks
// shape; minimum sizes are the resizer's concern.
func (t *Tree) SetWeights(container *Node, weights []float64) error {
	if !t.Contains(container) {
		return ErrNotInTree
	}
	if len(weights) != len(container.children) {
		return fmt.Errorf("set weights: got %d weights for %d children", len(weights), len(container.children))
	}
	sum := 0.0
	for _, w := range weights {
		if w < 0 || w > 100 || math.IsNaN(w) {
			return fmt.Errorf("set weights: weight %v outside [0,100]", w)
		}
		sum += w
	}
	if math.Abs(sum-100) > 1e-3 {
		return fmt.Errorf("set weights: weights sum to %v, want 100", sum)
	}
	for i, c := range container.children {
		c.size = weights[i]
	}
	return nil
}

// Fold replaces a row or column with a single stack holding all of its
// leaves in document order. The leaves themselves are reused, so bound
// content survives the fold.
func (t *Tree) Fold(container *Node) (*Node, error) {
	if !t.Contains(container) {
		return nil, ErrNotInTree
	}
	if container.typ != TypeRow && container.typ != TypeColumn {
		return nil, fmt.Errorf("fold %s: only rows and columns fold", container.typ)
	}
	leaves := container.Leaves()
	stack := &Node{typ: TypeStack, closable: true, header: Header{Show: SideTop, Popout: true}}
	t.replace(container, stack)
	for _, leaf := range leaves {
		leaf.parent = stack
		stack.children = append(stack.children, leaf)
	}
	renormaliseEqual(stack.children)
	return stack, nil
}

func (t *Tree) checkDetachedLeaf(leaf *Node) error {
	if leaf == nil || !leaf.IsLeaf() {
		return fmt.Errorf("insert: only component items can be inserted")
	}
	if leaf.parent != nil || t.Contains(leaf) {
		return fmt.Errorf("insert: item is already attached")
	}
	return nil
}

func newStack(leaf *Node) *Node {
	stack := &Node{typ: TypeStack, closable: true, header: Header{Show: SideTop, Popout: true}, size: 100}
	leaf.parent = stack
	leaf.size = 100
	stack.children = []*Node{leaf}
	return stack
}

func (t *Tree) setRoot(n *Node) {
	n.parent = nil
	n.size = 100
	t.root = n
}

func (t *Tree) appendTab(stack, leaf *Node) {
	t.insertTab(stack, len(stack.children), leaf)
}

func (t *Tree) insertTab(stack *Node, idx int, leaf *Node) {
	t.insertChild(stack, idx, leaf, 100/float64(len(stack.children)+1))
	stack.active = idx
}

func (t *Tree) appendChild(p, child *Node) {
	t.insertChild(p, len(p.children), child, 100/float64(len(p.children)+1))
}

func (t *Tree) insertChild(p *Node, idx int, child *Node, size float64) {
	child.parent = p
	child.size = size
	p.children = append(p.children, nil)
	copy(p.children[idx+1:], p.children[idx:])
	p.children[idx] = child
	if p.typ == TypeStack && idx <= p.active && len(p.children) > 1 {
		p.active++
	}
	renormalise(p.children)
}

func (t *Tree) wrapInStack(target, leaf *Node) {
	stack := &Node{typ: TypeStack, closable: true, header: Header{Show: SideTop, Popout: true}}
	t.replace(target, stack)
	target.parent = stack
	leaf.parent = stack
	stack.children = []*Node{target, leaf}
	renormaliseEqual(stack.children)
	stack.active = 1
}

// replace puts repl where old was, inheriting its weight. old is left
// detached.
func (t *Tree) replace(old, repl *Node) {
	repl.size = old.size
	p := old.parent
	repl.parent = p
	if p == nil {
		t.root = repl
		repl.size = 100
	} else {
		p.children[p.IndexOf(old)] = repl
	}
	old.parent = nil
}

func (t *Tree) detach(n *Node) {
	p := n.parent
	if p == nil {
		t.root = nil
		return
	}
	idx := p.IndexOf(n)
	p.children = append(p.children[:idx], p.children[idx+1:]...)
	n.parent = nil
	if p.typ == TypeStack {
		if idx < p.active || p.active >= len(p.children) {
			p.active--
		}
		p.active = clampIndex(p.active, len(p.children))
	}
	t.simplify(p)
}

func (t *Tree) simplify(p *Node) {
	switch {
	case len(p.children) == 0:
		t.detach(p)
	case len(p.children) == 1 && p.parent != nil:
		t.replace(p, p.children[0])
	default:
		renormalise(p.children)
	}
}

func renormaliseEqual(children []*Node) {
	for _, c := range children {
		c.size = 100 / float64(len(children))
	}
}

package layout

import (
	"bytes"
	"math"
)

// Equal reports whether two subtrees are structurally identical: same shape,
// types, ids, titles, flags, headers, active tabs, component types and
// states, and weights equal within WeightEpsilon.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.typ != b.typ || a.id != b.id || a.title != b.title ||
		a.closable != b.closable || a.header != b.header ||
		a.componentType != b.componentType {
		return false
	}
	if a.typ == TypeStack && a.active != b.active {
		return false
	}
	if math.Abs(a.size-b.size) > WeightEpsilon {
		return false
	}
	sa, errA := normaliseState(a.componentState)
	sb, errB := normaliseState(b.componentState)
	if errA != nil || errB != nil || !bytes.Equal(sa, sb) {
		return false
	}
	if len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// EqualTrees compares roots and the global settings.
func EqualTrees(a, b *Tree) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.settings == b.settings && a.dimensions == b.dimensions && Equal(a.root, b.root)
}

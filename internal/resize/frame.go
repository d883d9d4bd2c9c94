package resize

import "github.com/jask/dockyard/internal/layout"

// Placement is the computed geometry of one node.
type Placement struct {
	Rect Rect
	// Content is Rect minus any header strip.
	Content Rect
	Header  Rect
	Visible bool
	ZIndex  LogicalZIndex
}

// Splitter is the gap between children Index and Index+1 of a row or column.
type Splitter struct {
	Container *layout.Node
	Index     int
	Rect      Rect
}

// Frame is the result of one Compute pass.
type Frame struct {
	Viewport   Rect
	Splitters  []Splitter
	Folded     []*layout.Node
	placements map[*layout.Node]Placement
	leaves     []*layout.Node
}

func newFrame(vp Rect) *Frame {
	return &Frame{Viewport: vp, placements: make(map[*layout.Node]Placement)}
}

func (f *Frame) Placement(n *layout.Node) (Placement, bool) {
	p, ok := f.placements[n]
	return p, ok
}

// Leaves returns every placed component in document order.
func (f *Frame) Leaves() []*layout.Node {
	out := make([]*layout.Node, len(f.leaves))
	copy(out, f.leaves)
	return out
}

// SplitterAt returns the splitter under the given cell.
func (f *Frame) SplitterAt(x, y int) (Splitter, bool) {
	for _, s := range f.Splitters {
		if s.Rect.Contains(x, y) {
			return s, true
		}
	}
	return Splitter{}, false
}

// LeafAt returns the visible component whose rect holds the cell.
func (f *Frame) LeafAt(x, y int) (*layout.Node, bool) {
	var found *layout.Node
	for _, leaf := range f.leaves {
		p := f.placements[leaf]
		if !p.Visible || !p.Rect.Contains(x, y) {
			continue
		}
		// A maximised stack sits above everything else.
		if found == nil || p.ZIndex == ZStackMaximised {
			found = leaf
		}
	}
	return found, found != nil
}

// DropLocation resolves a pointer position to an insertion point. Headers
// and the middle of a panel mean "add as tab"; elsewhere the nearest edge
// splits. On an empty layout any point inside the viewport resolves to the
// root. ok is false outside the viewport or over a splitter.
func (f *Frame) DropLocation(x, y int) (target *layout.Node, edge layout.Edge, ok bool) {
	if !f.Viewport.Contains(x, y) {
		return nil, layout.EdgeCenter, false
	}
	if len(f.leaves) == 0 {
		return nil, layout.EdgeCenter, true
	}
	leaf, found := f.LeafAt(x, y)
	if !found {
		return nil, layout.EdgeCenter, false
	}
	p := f.placements[leaf]
	if p.Header.Contains(x, y) {
		if parent := leaf.Parent(); parent != nil && parent.Type() == layout.TypeStack {
			return parent, layout.EdgeCenter, true
		}
		return leaf, layout.EdgeCenter, true
	}
	r := p.Content
	if r.Empty() {
		r = p.Rect
	}
	fx := float64(x-r.Left) / float64(max(r.Width, 1))
	fy := float64(y-r.Top) / float64(max(r.Height, 1))
	if fx >= 0.25 && fx <= 0.75 && fy >= 0.25 && fy <= 0.75 {
		return leaf, layout.EdgeCenter, true
	}
	edge, best := layout.EdgeLeft, fx
	for _, c := range []struct {
		edge layout.Edge
		d    float64
	}{{layout.EdgeRight, 1 - fx}, {layout.EdgeTop, fy}, {layout.EdgeBottom, 1 - fy}} {
		if c.d < best {
			edge, best = c.edge, c.d
		}
	}
	return leaf, edge, true
}

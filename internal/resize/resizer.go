// Package resize computes cell geometry for a layout tree, folds it when
// responsive mode runs out of room, and owns the splitter clamp.
package resize

import (
	"log/slog"

	"github.com/jask/dockyard/internal/layout"
)

// Resizer turns a layout tree into cell geometry. It keeps the little state
// that outlives a single pass: the pending on-load fold, the maximised
// stack and the item being dragged.
type Resizer struct {
	log       *slog.Logger
	onLoad    bool
	maximised *layout.Node
	dragging  *layout.Node
}

func New(log *slog.Logger) *Resizer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Resizer{log: log}
}

// Reset forgets per-layout state. Call it after a new layout is loaded.
func (r *Resizer) Reset() {
	r.onLoad = true
	r.maximised = nil
	r.dragging = nil
}

// SetMaximised makes stack fill the viewport above everything else. nil
// restores the normal layout.
func (r *Resizer) SetMaximised(stack *layout.Node) { r.maximised = stack }
func (r *Resizer) Maximised() *layout.Node         { return r.maximised }

// SetDragging marks the item currently held by a tab drag.
func (r *Resizer) SetDragging(n *layout.Node) { r.dragging = n }

// Compute folds the tree when responsive mode asks for it, then places
// every node inside vp.
func (r *Resizer) Compute(tree *layout.Tree, vp Rect) *Frame {
	frame := newFrame(vp)
	if tree == nil || tree.Empty() {
		return frame
	}
	if r.shouldFold(tree, vp) {
		frame.Folded = r.fold(tree, vp)
	}
	if r.maximised != nil && !tree.Contains(r.maximised) {
		r.maximised = nil
	}
	if r.dragging != nil && !tree.Contains(r.dragging) {
		r.dragging = nil
	}

	r.place(frame, tree, tree.Root(), vp, true, ZBase)
	if m := r.maximised; m != nil {
		frame.Splitters = nil
		for _, leaf := range frame.leaves {
			if !m.Contains(leaf) {
				p := frame.placements[leaf]
				p.Visible = false
				frame.placements[leaf] = p
			}
		}
		r.place(frame, tree, m, vp, true, ZStackMaximised)
	}
	return frame
}

// shouldFold never folds for an unsized viewport; a layout loaded before
// the first SetSize would otherwise collapse immediately.
func (r *Resizer) shouldFold(tree *layout.Tree, vp Rect) bool {
	if vp.Empty() {
		return false
	}
	switch tree.Settings().ResponsiveMode {
	case layout.ResponsiveAlways:
		return true
	case layout.ResponsiveOnLoad:
		if r.onLoad {
			r.onLoad = false
			return true
		}
	}
	return false
}

// fold runs two top-down passes, rows first and then columns, each on the
// geometry left by the one before. A folded container's subtree is not
// visited again, so an outer fold swallows any inner one.
func (r *Resizer) fold(tree *layout.Tree, vp Rect) []*layout.Node {
	var folded []*layout.Node
	for _, axis := range []layout.ItemType{layout.TypeRow, layout.TypeColumn} {
		folded = append(folded, r.foldPass(tree, tree.Root(), vp, axis)...)
	}
	return folded
}

func (r *Resizer) foldPass(tree *layout.Tree, n *layout.Node, rect Rect, axis layout.ItemType) []*layout.Node {
	if n == nil || !n.Type().IsContainer() || n.Type() == layout.TypeStack {
		return nil
	}
	d := tree.Dimensions()
	count := n.ChildCount()
	if n.Type() == axis && count > 1 {
		span, minItem := rect.Width, d.MinItemWidth
		if axis == layout.TypeColumn {
			span, minItem = rect.Height, d.MinItemHeight
		}
		if span < count*minItem+(count-1)*d.BorderWidth {
			stack, err := tree.Fold(n)
			if err != nil {
				r.log.Warn("fold failed", "type", n.Type(), "err", err)
				return nil
			}
			r.log.Debug("folded container", "type", axis, "leaves", stack.ChildCount(), "span", span)
			return []*layout.Node{stack}
		}
	}
	var folded []*layout.Node
	rects, _ := childRects(n, rect, d.BorderWidth)
	for i, child := range n.Children() {
		folded = append(folded, r.foldPass(tree, child, rects[i], axis)...)
	}
	return folded
}

func (r *Resizer) place(f *Frame, tree *layout.Tree, n *layout.Node, rect Rect, visible bool, z LogicalZIndex) {
	d := tree.Dimensions()
	switch n.Type() {
	case layout.TypeRow, layout.TypeColumn:
		f.placements[n] = Placement{Rect: rect, Content: rect, Visible: visible, ZIndex: z}
		rects, gaps := childRects(n, rect, d.BorderWidth)
		if z == ZBase {
			for i, gap := range gaps {
				f.Splitters = append(f.Splitters, Splitter{Container: n, Index: i, Rect: gap})
			}
		}
		for i, child := range n.Children() {
			r.place(f, tree, child, rects[i], visible, z)
		}
	case layout.TypeStack:
		side := layout.SideTop
		if active := n.ActiveChild(); active != nil {
			side = active.Header().Show
		}
		header, content := splitHeader(rect, side, d.HeaderHeight)
		f.placements[n] = Placement{Rect: rect, Content: content, Header: header, Visible: visible, ZIndex: z}
		for i, child := range n.Children() {
			r.placeLeaf(f, child, Placement{
				Rect:    rect,
				Content: content,
				Header:  header,
				Visible: visible && i == n.ActiveIndex(),
				ZIndex:  z,
			})
		}
	case layout.TypeComponent:
		header, content := splitHeader(rect, n.Header().Show, d.HeaderHeight)
		r.placeLeaf(f, n, Placement{Rect: rect, Content: content, Header: header, Visible: visible, ZIndex: z})
	}
}

func (r *Resizer) placeLeaf(f *Frame, leaf *layout.Node, p Placement) {
	if leaf == r.dragging {
		p.ZIndex = ZDrag
	}
	if _, seen := f.placements[leaf]; !seen {
		f.leaves = append(f.leaves, leaf)
	}
	f.placements[leaf] = p
}

// childRects splits a row or column rect among its children, leaving a
// border-wide gap between neighbours.
func childRects(n *layout.Node, rect Rect, border int) (rects, gaps []Rect) {
	children := n.Children()
	if len(children) == 0 {
		return nil, nil
	}
	weights := make([]float64, len(children))
	for i, c := range children {
		weights[i] = c.Size()
	}
	vertical := n.Type() == layout.TypeColumn
	span := rect.Width
	if vertical {
		span = rect.Height
	}
	gap := max(0, min(border, span/max(1, len(children)-1)))
	if len(children) == 1 {
		gap = 0
	}
	sizes := splitSizes(max(0, span-gap*(len(children)-1)), weights)

	rects = make([]Rect, len(children))
	offset := 0
	for i, size := range sizes {
		if vertical {
			rects[i] = Rect{rect.Left, rect.Top + offset, rect.Width, size}
		} else {
			rects[i] = Rect{rect.Left + offset, rect.Top, size, rect.Height}
		}
		offset += size
		if i < len(sizes)-1 {
			if vertical {
				gaps = append(gaps, Rect{rect.Left, rect.Top + offset, rect.Width, gap})
			} else {
				gaps = append(gaps, Rect{rect.Left + offset, rect.Top, gap, rect.Height})
			}
			offset += gap
		}
	}
	return rects, gaps
}

package engine

import (
	"fmt"

	"github.com/jask/dockyard/internal/dragsource"
	"github.com/jask/dockyard/internal/layout"
	"github.com/jask/dockyard/internal/resize"
)

// dropSink lets the drag source manager resolve and commit drops against
// the engine.
type dropSink struct{ e *Engine }

func (s dropSink) Locate(x, y int) (dragsource.Location, bool) {
	if s.e.destroyed {
		return dragsource.Location{}, false
	}
	target, edge, ok := s.e.frame.DropLocation(x, y)
	return dragsource.Location{Target: target, Edge: edge}, ok
}

func (s dropSink) Commit(item layout.ItemConfig, at dragsource.Location) error {
	done, err := s.e.enter("drop")
	if err != nil {
		return err
	}
	defer done()
	s.e.resizer.SetMaximised(nil)
	_, err = s.e.insert(item, at.Target, at.Edge)
	return err
}

// RegisterDragSource makes element a source of new items. factory runs when
// a drag starts.
func (e *Engine) RegisterDragSource(element any, factory dragsource.ItemFactory) (*dragsource.Source, error) {
	if e.destroyed {
		return nil, ErrDestroyed
	}
	return e.drags.Register(element, factory)
}

func (e *Engine) UnregisterDragSource(src *dragsource.Source) error {
	if e.destroyed {
		return ErrDestroyed
	}
	return e.drags.Unregister(src)
}

// StartDrag begins dragging a new item out of src. The layout changes only
// when the returned gesture is dropped on a valid target.
func (e *Engine) StartDrag(src *dragsource.Source, x, y int) (*dragsource.Gesture, error) {
	done, err := e.enter("startDrag")
	if err != nil {
		return nil, err
	}
	defer done()
	return e.drags.Start(src, x, y)
}

// SplitterGesture is a splitter drag that keeps geometry current as it
// moves.
type SplitterGesture struct {
	e    *Engine
	drag *resize.SplitterDrag
}

// BeginSplitterDrag starts dragging the splitter after child index of a row
// or column.
func (e *Engine) BeginSplitterDrag(container *layout.Node, index int) (*SplitterGesture, error) {
	done, err := e.enter("beginSplitterDrag")
	if err != nil {
		return nil, err
	}
	defer done()

	drag, err := resize.BeginSplitterDrag(e.tree, e.frame, container, index)
	if err != nil {
		return nil, err
	}
	return &SplitterGesture{e: e, drag: drag}, nil
}

// Move applies the total pointer delta since the drag began and returns the
// delta that survived clamping.
func (g *SplitterGesture) Move(delta int) (int, error) {
	done, err := g.e.enter("splitterMove")
	if err != nil {
		return 0, err
	}
	defer done()

	applied, err := g.drag.Move(delta)
	if err != nil {
		return 0, err
	}
	g.e.relayout()
	return applied, nil
}

func (g *SplitterGesture) End() error { return g.drag.End() }

// Cancel puts the weights back where the drag started.
func (g *SplitterGesture) Cancel() error {
	done, err := g.e.enter("splitterCancel")
	if err != nil {
		return err
	}
	defer done()

	if err := g.drag.Cancel(); err != nil {
		return err
	}
	g.e.relayout()
	return nil
}

// ItemDrag moves an existing item, typically by its tab. The item keeps its
// container; only its place in the tree changes.
type ItemDrag struct {
	e    *Engine
	item *layout.Node
	x, y int
	done bool
}

func (e *Engine) BeginItemDrag(item *layout.Node, x, y int) (*ItemDrag, error) {
	done, err := e.enter("beginItemDrag")
	if err != nil {
		return nil, err
	}
	defer done()

	if !e.tree.Contains(item) {
		return nil, layout.ErrNotInTree
	}
	if !item.IsLeaf() {
		return nil, fmt.Errorf("begin item drag: only components can be dragged")
	}
	e.resizer.SetDragging(item)
	e.relayout()
	return &ItemDrag{e: e, item: item, x: x, y: y}, nil
}

func (d *ItemDrag) Item() *layout.Node { return d.item }

func (d *ItemDrag) Move(x, y int) error {
	if d.done {
		return dragsource.ErrGestureDone
	}
	d.x, d.y = x, y
	return nil
}

// Location is where the item would land if dropped now.
func (d *ItemDrag) Location() (dragsource.Location, bool) {
	if d.done {
		return dragsource.Location{}, false
	}
	return dropSink{d.e}.Locate(d.x, d.y)
}

// Drop moves the item to the location under x, y. An unresolvable point
// cancels the drag and returns *dragsource.DragTargetError.
func (d *ItemDrag) Drop(x, y int) error {
	if d.done {
		return dragsource.ErrGestureDone
	}
	done, err := d.e.enter("itemDrop")
	if err != nil {
		return err
	}
	defer done()

	d.done = true
	d.e.resizer.SetDragging(nil)
	target, edge, ok := d.e.frame.DropLocation(x, y)
	if !ok {
		d.e.relayout()
		return &dragsource.DragTargetError{X: x, Y: y}
	}
	d.e.resizer.SetMaximised(nil)
	if err := d.e.tree.Move(d.item, target, edge); err != nil {
		d.e.relayout()
		return fmt.Errorf("item drop: %w", err)
	}
	d.e.relayout()
	return nil
}

func (d *ItemDrag) Cancel() error {
	if d.done {
		return dragsource.ErrGestureDone
	}
	done, err := d.e.enter("itemCancel")
	if err != nil {
		return err
	}
	defer done()

	d.done = true
	d.e.resizer.SetDragging(nil)
	d.e.relayout()
	return nil
}

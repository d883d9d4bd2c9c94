package dragsource

import (
	"fmt"

	"github.com/jask/dockyard/internal/layout"
)

// DragTargetError means the drop point resolved to nothing. The gesture is
// treated as cancelled.
type DragTargetError struct {
	X, Y int
}

func (e *DragTargetError) Error() string {
	return fmt.Sprintf("no drop target at (%d,%d)", e.X, e.Y)
}

// Gesture is one drag in progress. Nothing touches the layout until Drop.
type Gesture struct {
	m    *Manager
	item layout.ItemConfig
	x, y int
	done bool
}

func (g *Gesture) Item() layout.ItemConfig { return g.item }

func (g *Gesture) Move(x, y int) error {
	if g.done {
		return ErrGestureDone
	}
	g.x, g.y = x, y
	return nil
}

// Location is where the item would land if dropped now.
func (g *Gesture) Location() (Location, bool) {
	if g.done {
		return Location{}, false
	}
	return g.m.target.Locate(g.x, g.y)
}

// Drop ends the gesture at x, y and commits the item there.
func (g *Gesture) Drop(x, y int) error {
	if g.done {
		return ErrGestureDone
	}
	g.done = true
	g.x, g.y = x, y
	loc, ok := g.m.target.Locate(x, y)
	if !ok {
		g.m.log.Debug("drop outside layout", "x", x, "y", y)
		return &DragTargetError{X: x, Y: y}
	}
	if err := g.m.commit.Commit(g.item, loc); err != nil {
		return fmt.Errorf("commit drop: %w", err)
	}
	return nil
}

func (g *Gesture) Cancel() error {
	if g.done {
		return ErrGestureDone
	}
	g.done = true
	return nil
}

package resize

import (
	"fmt"
	"math"

	"github.com/jask/dockyard/internal/layout"
)

// MinWeight is the smallest weight any child of a row or column may have.
const MinWeight = 1.0

// SplitterDrag moves the border between two neighbouring children. Moves
// are measured from where the drag began, so the pointer can travel past a
// clamp and come back.
type SplitterDrag struct {
	tree      *layout.Tree
	container *layout.Node
	index     int
	start     []float64
	span      int
	minWeight float64
	done      bool
}

// BeginSplitterDrag starts dragging the splitter after child index of
// container. frame supplies the pixel span; without one, deltas are read as
// percentages.
func BeginSplitterDrag(tree *layout.Tree, frame *Frame, container *layout.Node, index int) (*SplitterDrag, error) {
	if !tree.Contains(container) {
		return nil, layout.ErrNotInTree
	}
	if t := container.Type(); t != layout.TypeRow && t != layout.TypeColumn {
		return nil, fmt.Errorf("begin splitter drag on %s: %w", t, ErrNotSplittable)
	}
	if index < 0 || index >= container.ChildCount()-1 {
		return nil, fmt.Errorf("begin splitter drag: splitter %d out of range [0,%d)", index, container.ChildCount()-1)
	}
	return &SplitterDrag{
		tree:      tree,
		container: container,
		index:     index,
		start:     weightsOf(container),
		span:      usableSpan(tree, frame, container),
		minWeight: minWeight(tree, frame, container),
	}, nil
}

func (s *SplitterDrag) Container() *layout.Node { return s.container }
func (s *SplitterDrag) Index() int              { return s.index }

// Move applies a total pointer delta, in cells along the container's axis,
// relative to the start of the drag. It returns the delta actually applied
// after clamping.
func (s *SplitterDrag) Move(delta int) (int, error) {
	if s.done {
		return 0, ErrGestureDone
	}
	if !s.tree.Contains(s.container) {
		return 0, layout.ErrNotInTree
	}
	a, b := s.start[s.index], s.start[s.index+1]
	pair := a + b
	floor := math.Min(s.minWeight, pair/2)

	dw := float64(delta) / float64(s.span) * 100
	na := math.Max(floor, math.Min(pair-floor, a+dw))
	weights := append([]float64(nil), s.start...)
	weights[s.index] = na
	weights[s.index+1] = pair - na
	if err := s.tree.SetWeights(s.container, weights); err != nil {
		return 0, err
	}
	return int(math.Round((na - a) / 100 * float64(s.span))), nil
}

// End keeps the current weights.
func (s *SplitterDrag) End() error {
	if s.done {
		return ErrGestureDone
	}
	s.done = true
	return nil
}

// Cancel restores the weights the drag started from.
func (s *SplitterDrag) Cancel() error {
	if s.done {
		return ErrGestureDone
	}
	s.done = true
	if !s.tree.Contains(s.container) {
		return nil
	}
	return s.tree.SetWeights(s.container, s.start)
}

// SetWeights is the checked way to set a container's weights directly. It
// rejects any vector a splitter drag could not have produced.
func SetWeights(tree *layout.Tree, frame *Frame, container *layout.Node, weights []float64) error {
	if !tree.Contains(container) {
		return layout.ErrNotInTree
	}
	if t := container.Type(); t != layout.TypeRow && t != layout.TypeColumn {
		return fmt.Errorf("set weights on %s: %w", t, ErrNotSplittable)
	}
	if len(weights) != container.ChildCount() {
		return fmt.Errorf("set weights: got %d weights for %d children", len(weights), container.ChildCount())
	}
	floor := math.Min(minWeight(tree, frame, container), 100/float64(len(weights)))
	sum := 0.0
	for i, w := range weights {
		if w < floor-layout.WeightEpsilon || math.IsNaN(w) {
			return fmt.Errorf("set weights: child %d weight %.2f below %.2f: %w", i, w, floor, ErrWeightBelowMinimum)
		}
		sum += w
	}
	if math.Abs(sum-100) > 1e-3 {
		return fmt.Errorf("set weights: sum %.4f: %w", sum, ErrWeightsSum)
	}
	return tree.SetWeights(container, weights)
}

func weightsOf(n *layout.Node) []float64 {
	children := n.Children()
	out := make([]float64, len(children))
	for i, c := range children {
		out[i] = c.Size()
	}
	return out
}

// usableSpan is the container's extent along its axis minus splitters. It
// is 100 without a frame so deltas read as percent.
func usableSpan(tree *layout.Tree, frame *Frame, container *layout.Node) int {
	if frame == nil {
		return 100
	}
	p, ok := frame.Placement(container)
	if !ok {
		return 100
	}
	span := p.Rect.Width
	if container.Type() == layout.TypeColumn {
		span = p.Rect.Height
	}
	span -= tree.Dimensions().BorderWidth * (container.ChildCount() - 1)
	return max(span, 1)
}

// minWeight converts the configured minimum item size to a weight for this
// container, never going below MinWeight.
func minWeight(tree *layout.Tree, frame *Frame, container *layout.Node) float64 {
	span := usableSpan(tree, frame, container)
	if frame == nil {
		return MinWeight
	}
	d := tree.Dimensions()
	minItem := d.MinItemWidth
	if container.Type() == layout.TypeColumn {
		minItem = d.MinItemHeight
	}
	return math.Max(MinWeight, float64(minItem)/float64(span)*100)
}

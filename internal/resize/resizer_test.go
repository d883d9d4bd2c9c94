package resize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/dockyard/internal/layout"
)

func f64(v float64) *float64 { return &v }

func resolve(t *testing.T, cfg layout.Config) *layout.Tree {
	t.Helper()
	tree, err := layout.Resolve(cfg, layout.DefaultDefaults(), nil)
	require.NoError(t, err)
	return tree
}

func comp(name string, width *float64) layout.ItemConfig {
	return layout.ItemConfig{Type: layout.TypeComponent, ComponentType: name, Width: width}
}

func noHeader(name string) layout.ItemConfig {
	none := layout.SideNone
	return layout.ItemConfig{Type: layout.TypeComponent, ComponentType: name, Header: &layout.HeaderConfig{Show: &none}}
}

func TestSplitSizesTilesExactly(t *testing.T) {
	t.Parallel()

	require.Equal(t, []int{34, 33, 33}, splitSizes(100, []float64{1, 1, 1}))
	require.Equal(t, []int{30, 70}, splitSizes(100, []float64{30, 70}))
	require.Equal(t, []int{0, 0}, splitSizes(-4, []float64{50, 50}))
	for total := 0; total < 50; total++ {
		sum := 0
		for _, s := range splitSizes(total, []float64{13, 29, 58}) {
			sum += s
		}
		require.Equal(t, total, sum)
	}
}

func TestComputeRowReservesSplitters(t *testing.T) {
	t.Parallel()

	tree := resolve(t, layout.Config{Root: &layout.ItemConfig{Type: layout.TypeRow, Content: []layout.ItemConfig{
		noHeader("A"), noHeader("B"),
	}}})
	a, b := tree.Leaves()[0], tree.Leaves()[1]
	require.NoError(t, tree.SetWeights(tree.Root(), []float64{30, 70}))

	frame := New(nil).Compute(tree, Rect{Width: 105, Height: 20})
	pa, ok := frame.Placement(a)
	require.True(t, ok)
	pb, _ := frame.Placement(b)
	require.Equal(t, Rect{0, 0, 30, 20}, pa.Rect)
	require.Equal(t, Rect{35, 0, 70, 20}, pb.Rect)
	require.Equal(t, pa.Rect, pa.Content, "no header reserved")
	require.Len(t, frame.Splitters, 1)
	require.Equal(t, Rect{30, 0, 5, 20}, frame.Splitters[0].Rect)
	require.True(t, pa.Visible)
	require.Equal(t, ZBase, pa.ZIndex)
}

func TestComputeStackShowsOnlyActiveTab(t *testing.T) {
	t.Parallel()

	tree := resolve(t, layout.Config{Root: &layout.ItemConfig{Type: layout.TypeStack, Content: []layout.ItemConfig{
		comp("A", nil), comp("B", nil),
	}}})
	require.NoError(t, tree.SetActive(tree.Root(), 1))

	frame := New(nil).Compute(tree, Rect{Width: 80, Height: 24})
	leaves := frame.Leaves()
	require.Len(t, leaves, 2)
	pa, _ := frame.Placement(leaves[0])
	pb, _ := frame.Placement(leaves[1])
	require.False(t, pa.Visible)
	require.True(t, pb.Visible)
	require.Equal(t, Rect{0, 0, 80, 20}, pb.Header)
	require.Equal(t, Rect{0, 20, 80, 4}, pb.Content)
}

func TestComputeFoldsNarrowRow(t *testing.T) {
	t.Parallel()

	always := layout.ResponsiveAlways
	tree := resolve(t, layout.Config{
		Settings: &layout.SettingsConfig{ResponsiveMode: &always},
		Root: &layout.ItemConfig{Type: layout.TypeRow, Content: []layout.ItemConfig{
			{Type: layout.TypeColumn, Content: []layout.ItemConfig{comp("A", nil), comp("B", nil)}},
			{Type: layout.TypeColumn, Content: []layout.ItemConfig{comp("C", nil)}},
		}},
	})
	before := tree.Leaves()

	frame := New(nil).Compute(tree, Rect{Width: 8, Height: 200})
	root := tree.Root()
	require.Equal(t, layout.TypeStack, root.Type())
	require.Equal(t, before, root.Children(), "leaves kept in document order")
	require.Len(t, frame.Folded, 1)

	// Folding is lossy: widening again keeps the stack.
	New(nil).Compute(tree, Rect{Width: 800, Height: 200})
	require.Equal(t, layout.TypeStack, tree.Root().Type())
}

func TestComputeFoldModes(t *testing.T) {
	t.Parallel()

	build := func(mode layout.ResponsiveMode) *layout.Tree {
		return resolve(t, layout.Config{
			Settings: &layout.SettingsConfig{ResponsiveMode: &mode},
			Root: &layout.ItemConfig{Type: layout.TypeRow, Content: []layout.ItemConfig{
				comp("A", nil), comp("B", nil),
			}},
		})
	}

	tree := build(layout.ResponsiveNone)
	New(nil).Compute(tree, Rect{Width: 5, Height: 50})
	require.Equal(t, layout.TypeRow, tree.Root().Type())

	tree = build(layout.ResponsiveOnLoad)
	r := New(nil)
	r.Reset()
	r.Compute(tree, Rect{Width: 500, Height: 50})
	r.Compute(tree, Rect{Width: 5, Height: 50})
	require.Equal(t, layout.TypeRow, tree.Root().Type(), "onload only looks at the first sizing")

	tree = build(layout.ResponsiveOnLoad)
	r.Reset()
	r.Compute(tree, Rect{Width: 5, Height: 50})
	require.Equal(t, layout.TypeStack, tree.Root().Type())
}

func TestComputeFoldsColumnsAfterRows(t *testing.T) {
	t.Parallel()

	always := layout.ResponsiveAlways
	tree := resolve(t, layout.Config{
		Settings: &layout.SettingsConfig{ResponsiveMode: &always},
		Root: &layout.ItemConfig{Type: layout.TypeRow, Content: []layout.ItemConfig{
			comp("A", nil),
			{Type: layout.TypeColumn, Content: []layout.ItemConfig{comp("B", nil), comp("C", nil)}},
		}},
	})
	col := tree.Root().Children()[1]

	frame := New(nil).Compute(tree, Rect{Width: 400, Height: 12})
	require.Len(t, frame.Folded, 1)
	require.False(t, tree.Contains(col))
	require.Equal(t, layout.TypeRow, tree.Root().Type())
	require.Equal(t, layout.TypeStack, tree.Root().Children()[1].Type())
}

func TestMaximiseAndDragZIndex(t *testing.T) {
	t.Parallel()

	tree := resolve(t, layout.Config{Root: &layout.ItemConfig{Type: layout.TypeRow, Content: []layout.ItemConfig{
		{Type: layout.TypeStack, Content: []layout.ItemConfig{comp("A", nil)}},
		{Type: layout.TypeStack, Content: []layout.ItemConfig{comp("B", nil)}},
	}}})
	leaves := tree.Leaves()
	stack := leaves[1].Parent()

	r := New(nil)
	r.SetMaximised(stack)
	r.SetDragging(leaves[1])
	vp := Rect{Width: 60, Height: 30}
	frame := r.Compute(tree, vp)

	pa, _ := frame.Placement(leaves[0])
	pb, _ := frame.Placement(leaves[1])
	require.False(t, pa.Visible)
	require.True(t, pb.Visible)
	require.Equal(t, vp, pb.Rect)
	require.Equal(t, ZDrag, pb.ZIndex)
	require.Empty(t, frame.Splitters)

	r.SetDragging(nil)
	frame = r.Compute(tree, vp)
	pb, _ = frame.Placement(leaves[1])
	require.Equal(t, ZStackMaximised, pb.ZIndex)
	require.Equal(t, "41", pb.ZIndex.Default())
	require.Equal(t, "auto", ZBase.Default())
	require.Equal(t, "32", ZDrag.Default())
}

func TestDropLocation(t *testing.T) {
	t.Parallel()

	tree := resolve(t, layout.Config{Root: &layout.ItemConfig{Type: layout.TypeStack, Content: []layout.ItemConfig{
		comp("A", nil),
	}}})
	frame := New(nil).Compute(tree, Rect{Width: 100, Height: 100})
	a := tree.Leaves()[0]

	target, edge, ok := frame.DropLocation(5, 5)
	require.True(t, ok)
	require.Equal(t, tree.Root(), target, "header drop adds a tab")
	require.Equal(t, layout.EdgeCenter, edge)

	target, edge, ok = frame.DropLocation(50, 60)
	require.True(t, ok)
	require.Equal(t, a, target)
	require.Equal(t, layout.EdgeCenter, edge)

	_, edge, ok = frame.DropLocation(97, 60)
	require.True(t, ok)
	require.Equal(t, layout.EdgeRight, edge)

	_, edge, ok = frame.DropLocation(50, 98)
	require.True(t, ok)
	require.Equal(t, layout.EdgeBottom, edge)

	_, _, ok = frame.DropLocation(150, 50)
	require.False(t, ok)

	empty := New(nil).Compute(layout.NewTree(layout.DefaultDefaults()), Rect{Width: 10, Height: 10})
	target, _, ok = empty.DropLocation(1, 1)
	require.True(t, ok)
	require.Nil(t, target)
}

func TestSplitterDragClamps(t *testing.T) {
	t.Parallel()

	tree := resolve(t, layout.Config{Root: &layout.ItemConfig{Type: layout.TypeRow, Content: []layout.ItemConfig{
		comp("A", f64(30)), comp("B", f64(40)), comp("C", f64(30)),
	}}})
	leaves := tree.Leaves()
	frame := New(nil).Compute(tree, Rect{Width: 110, Height: 20})

	drag, err := BeginSplitterDrag(tree, frame, tree.Root(), 0)
	require.NoError(t, err)

	// Usable span is 100 cells, min item width 10 cells.
	applied, err := drag.Move(1000)
	require.NoError(t, err)
	require.Equal(t, 30, applied)
	require.InDelta(t, 60, leaves[0].Size(), 1e-9)
	require.InDelta(t, 10, leaves[1].Size(), 1e-9)
	require.InDelta(t, 30, leaves[2].Size(), 1e-9, "other siblings untouched")

	_, err = drag.Move(-1000)
	require.NoError(t, err)
	require.InDelta(t, 10, leaves[0].Size(), 1e-9)
	require.InDelta(t, 60, leaves[1].Size(), 1e-9)

	require.NoError(t, drag.Cancel())
	require.InDelta(t, 30, leaves[0].Size(), 1e-9)
	require.InDelta(t, 40, leaves[1].Size(), 1e-9)
	_, err = drag.Move(1)
	require.ErrorIs(t, err, ErrGestureDone)

	_, err = BeginSplitterDrag(tree, frame, tree.Root(), 2)
	require.Error(t, err)
	_, err = BeginSplitterDrag(tree, frame, leaves[0], 0)
	require.ErrorIs(t, err, ErrNotSplittable)
}

func TestSetWeightsRejectsClampViolations(t *testing.T) {
	t.Parallel()

	tree := resolve(t, layout.Config{Root: &layout.ItemConfig{Type: layout.TypeRow, Content: []layout.ItemConfig{
		comp("A", nil), comp("B", nil),
	}}})
	frame := New(nil).Compute(tree, Rect{Width: 105, Height: 20})

	require.ErrorIs(t, SetWeights(tree, frame, tree.Root(), []float64{95, 5}), ErrWeightBelowMinimum)
	require.ErrorIs(t, SetWeights(tree, nil, tree.Root(), []float64{100, 0}), ErrWeightBelowMinimum)
	require.ErrorIs(t, SetWeights(tree, nil, tree.Root(), []float64{60, 60}), ErrWeightsSum)
	require.NoError(t, SetWeights(tree, frame, tree.Root(), []float64{75, 25}))
	require.InDelta(t, 75, tree.Leaves()[0].Size(), 1e-9)
}

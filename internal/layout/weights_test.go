package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenormaliseStaysInRange(t *testing.T) {
	t.Parallel()

	for i := 1; i < 113; i++ {
		w := 100 * float64(i) / 113
		a, b := &Node{size: w}, &Node{size: 0}
		renormalise([]*Node{a, b})
		require.LessOrEqual(t, a.size, 100.0, "weight %v", w)
		require.GreaterOrEqual(t, b.size, 0.0)

		lone := &Node{size: w}
		renormalise([]*Node{lone})
		require.Equal(t, 100.0, lone.size)
	}
}

func TestLoneChildAfterResizeRoundTrips(t *testing.T) {
	t.Parallel()

	for _, span := range []int{113, 118, 97} {
		for i := 1; i < span; i++ {
			w := 100 * float64(i) / float64(span)
			tree := mustResolve(t, twoLeafRow(nil, nil))
			root := tree.Root()
			require.NoError(t, tree.SetWeights(root, []float64{w, 100 - w}))
			require.NoError(t, tree.Remove(root.Children()[1]))

			require.Equal(t, 100.0, root.Children()[0].Size(), "span %d step %d", span, i)
			again := roundTrip(t, tree)
			require.True(t, EqualTrees(tree, again))
		}
	}
}

func TestResolveAcceptsWeightsWithinEpsilon(t *testing.T) {
	t.Parallel()

	tree := mustResolve(t, twoLeafRow(f64(100+WeightEpsilon/2), f64(0)))
	require.InDelta(t, 100, tree.Leaves()[0].Size(), WeightEpsilon)

	_, err := Resolve(twoLeafRow(f64(100.1), nil), DefaultDefaults(), nil)
	require.Error(t, err)
}

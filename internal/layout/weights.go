package layout

import "math"

// WeightEpsilon is the tolerance used when comparing weight sums.
const WeightEpsilon = 1e-6

// distributeWeights assigns weights from the configured values. Unspecified
// children share what the specified ones leave of 100; if nothing is left
// they get an equal share of the whole before the final rescale.
func distributeWeights(children []*Node, specified []*float64) {
	if len(children) == 0 {
		return
	}
	total := 0.0
	missing := 0
	for _, s := range specified {
		if s == nil {
			missing++
			continue
		}
		total += *s
	}
	share := 0.0
	if missing > 0 {
		share = (100 - total) / float64(missing)
		if share <= 0 {
			share = 100 / float64(len(children))
		}
	}
	for i, c := range children {
		if specified[i] == nil {
			c.size = share
		} else {
			c.size = *specified[i]
		}
	}
	renormalise(children)
}

// renormalise scales child weights so they sum to 100. All-zero weights
// become equal shares. Results stay inside [0,100] and a lone child holds
// exactly 100, so saved weights always pass validation.
func renormalise(children []*Node) {
	if len(children) == 0 {
		return
	}
	if len(children) == 1 {
		children[0].size = 100
		return
	}
	sum := 0.0
	for _, c := range children {
		sum += c.size
	}
	if sum <= 0 {
		for _, c := range children {
			c.size = 100 / float64(len(children))
		}
		return
	}
	if math.Abs(sum-100) >= WeightEpsilon {
		for _, c := range children {
			c.size = c.size * 100 / sum
		}
	}
	for _, c := range children {
		c.size = clampWeight(c.size)
	}
}

func clampWeight(w float64) float64 {
	return math.Min(100, math.Max(0, w))
}

// WeightSum is exposed for tests and invariant checks.
func WeightSum(n *Node) float64 {
	sum := 0.0
	for _, c := range n.children {
		sum += c.size
	}
	return sum
}

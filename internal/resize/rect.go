package resize

import (
	"math"

	"github.com/jask/dockyard/internal/layout"
)

// Rect is an integer cell rectangle. Width and Height are never negative.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

func (r Rect) Right() int  { return r.Left + r.Width }
func (r Rect) Bottom() int { return r.Top + r.Height }
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// splitHeader carves a header strip off the given side. The header never
// exceeds the rect.
func splitHeader(r Rect, side layout.HeaderSide, size int) (header, content Rect) {
	switch side {
	case layout.SideTop:
		h := min(size, r.Height)
		return Rect{r.Left, r.Top, r.Width, h}, Rect{r.Left, r.Top + h, r.Width, r.Height - h}
	case layout.SideBottom:
		h := min(size, r.Height)
		return Rect{r.Left, r.Bottom() - h, r.Width, h}, Rect{r.Left, r.Top, r.Width, r.Height - h}
	case layout.SideLeft:
		w := min(size, r.Width)
		return Rect{r.Left, r.Top, w, r.Height}, Rect{r.Left + w, r.Top, r.Width - w, r.Height}
	case layout.SideRight:
		w := min(size, r.Width)
		return Rect{r.Right() - w, r.Top, w, r.Height}, Rect{r.Left, r.Top, r.Width - w, r.Height}
	default:
		return Rect{}, r
	}
}

// splitSizes divides total cells by weight: each part gets the floor of its
// share and the remainder goes one cell at a time from the front, so the
// parts always add up to total.
func splitSizes(total int, weights []float64) []int {
	n := len(weights)
	if n == 0 {
		return nil
	}
	out := make([]int, n)
	if total <= 0 {
		return out
	}
	sum := 0.0
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}
	used := 0
	for i, w := range weights {
		if sum <= 0 {
			out[i] = total / n
		} else if w > 0 {
			out[i] = int(math.Floor(w / sum * float64(total)))
		}
		used += out[i]
	}
	for i := 0; used < total; i = (i + 1) % n {
		out[i]++
		used++
	}
	return out
}

// Package tour computes a suggested viewing order over tile positions: a
// quadtree-accelerated greedy nearest-neighbor path with a bounded 2-opt
// refinement pass.
package tour

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

const (
	// xStretch/yStretch flatten horizontal spacing before distances are
	// compared, so side-by-side tiles read as closer than stacked rows.
	xStretch = 2.5
	yStretch = 1.0

	// initialSearchRadius is the first quadtree query box half-width, in
	// normalized units; it doubles until neighbors are found.
	initialSearchRadius = 2.0

	// maxRefinePasses bounds the 2-opt local search. The refinement is a
	// time-limited improvement, not an exact solver.
	maxRefinePasses = 32

	// outlierFactor times the median edge length marks an edge as an
	// outlier; reversals never touch outlier edges.
	outlierFactor = 2.0
)

// Sequence is a snapshot of tile positions with a visiting order over them.
// Positions are copies, never aliases of live tiles.
type Sequence struct {
	Positions []r3.Vec
	Order     []int
	Visible   bool
}

// NewSequence copies the given positions and builds a refined tour over them.
func NewSequence(positions []r3.Vec) *Sequence {
	snapshot := make([]r3.Vec, len(positions))
	copy(snapshot, positions)
	return &Sequence{
		Positions: snapshot,
		Order:     Build(snapshot),
		Visible:   true,
	}
}

// Valid reports whether the order still indexes into the position snapshot.
// A stale sequence (positions shrank after the tour was built) must be
// skipped by the renderer rather than indexed out of range.
func (s *Sequence) Valid() bool {
	if s == nil || len(s.Order) != len(s.Positions) {
		return false
	}
	for _, idx := range s.Order {
		if idx < 0 || idx >= len(s.Positions) {
			return false
		}
	}
	return true
}

// Build returns a visiting order over the given positions: greedy
// nearest-neighbor construction followed by bounded 2-opt refinement.
// The result is a permutation of 0..n-1 and is deterministic for identical
// input (equal distances break ties toward the lower index).
func Build(positions []r3.Vec) []int {
	pts := normalize(positions)
	order := buildGreedy(pts)
	return refine(pts, order)
}

// Length returns the total path length of the order in normalized space.
func Length(positions []r3.Vec, order []int) float64 {
	pts := normalize(positions)
	return pathLength(pts, order)
}

func normalize(positions []r3.Vec) []point {
	pts := make([]point, len(positions))
	for i, p := range positions {
		pts[i] = point{id: i, x: p.X / xStretch, y: p.Y / yStretch}
	}
	return pts
}

func dist(a, b point) float64 {
	dx := a.x - b.x
	dy := a.y - b.y
	return math.Sqrt(dx*dx + dy*dy)
}

// buildGreedy produces a Hamiltonian path starting at index 0, repeatedly
// stepping to the nearest unvisited point. Neighbor lookups use an expanding
// quadtree box; when the local box finds nothing the scan falls back to all
// unvisited points.
func buildGreedy(pts []point) []int {
	n := len(pts)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []int{0}
	}

	b := pointBounds(pts)
	qt := newQuadtree(b, 8)
	for _, p := range pts {
		qt.insert(p)
	}
	maxRadius := math.Max(b.maxX-b.minX, b.maxY-b.minY)

	visited := make([]bool, n)
	order := make([]int, 0, n)
	cur := pts[0]
	visited[0] = true
	order = append(order, 0)

	var scratch []point
	for len(order) < n {
		next := -1
		bestDist := math.Inf(1)

		for radius := initialSearchRadius; ; radius *= 2 {
			scratch = qt.query(box{cur.x - radius, cur.y - radius, cur.x + radius, cur.y + radius}, scratch[:0])
			for _, cand := range scratch {
				if visited[cand.id] {
					continue
				}
				if d := dist(cur, cand); d < bestDist || (d == bestDist && cand.id < next) {
					bestDist = d
					next = cand.id
				}
			}
			if next >= 0 || radius > maxRadius {
				break
			}
		}

		if next < 0 {
			// Local search exhausted; scan everything unvisited.
			for id := range pts {
				if visited[id] {
					continue
				}
				if d := dist(cur, pts[id]); d < bestDist || (d == bestDist && id < next) {
					bestDist = d
					next = id
				}
			}
		}

		visited[next] = true
		order = append(order, next)
		cur = pts[next]
	}
	return order
}

func pointBounds(pts []point) box {
	b := box{pts[0].x, pts[0].y, pts[0].x, pts[0].y}
	for _, p := range pts[1:] {
		b.minX = math.Min(b.minX, p.x)
		b.minY = math.Min(b.minY, p.y)
		b.maxX = math.Max(b.maxX, p.x)
		b.maxY = math.Max(b.maxY, p.y)
	}
	return b
}

func pathLength(pts []point, order []int) float64 {
	total := 0.0
	for k := 0; k+1 < len(order); k++ {
		total += dist(pts[order[k]], pts[order[k+1]])
	}
	return total
}

// outlierEdges flags path edges longer than outlierFactor times the median
// edge length. Outliers are jumps between distant clusters; reversing across
// them cannot help and wastes the pass budget.
func outlierEdges(pts []point, order []int) []bool {
	m := len(order) - 1
	lens := make([]float64, m)
	for k := 0; k < m; k++ {
		lens[k] = dist(pts[order[k]], pts[order[k+1]])
	}
	sorted := append([]float64(nil), lens...)
	sort.Float64s(sorted)
	threshold := outlierFactor * stat.Quantile(0.5, stat.Empirical, sorted, nil)

	flags := make([]bool, m)
	for k, l := range lens {
		flags[k] = l > threshold
	}
	return flags
}

// refine improves the path with 2-opt segment reversals, at most
// maxRefinePasses passes, never touching outlier edges. The order slice is
// modified in place and returned.
func refine(pts []point, order []int) []int {
	n := len(order)
	if n < 4 {
		return order
	}

	const improveEps = 1e-12
	for pass := 0; pass < maxRefinePasses; pass++ {
		outlier := outlierEdges(pts, order)
		improved := false

		for i := 1; i < n-1; i++ {
			if outlier[i-1] {
				continue
			}
			a := pts[order[i-1]]
			for j := i + 1; j < n; j++ {
				if j < n-1 && outlier[j] {
					continue
				}

				// Reversing order[i..j] replaces edges (i-1,i) and (j,j+1)
				// with (i-1,j) and (i,j+1); a suffix reversal only replaces
				// the first.
				var delta float64
				if j < n-1 {
					delta = dist(a, pts[order[j]]) + dist(pts[order[i]], pts[order[j+1]]) -
						dist(a, pts[order[i]]) - dist(pts[order[j]], pts[order[j+1]])
				} else {
					delta = dist(a, pts[order[j]]) - dist(a, pts[order[i]])
				}
				if delta < -improveEps {
					reverse(order[i : j+1])
					improved = true
				}
			}
		}

		if !improved {
			break
		}
	}
	return order
}

func reverse(s []int) {
	for l, r := 0, len(s)-1; l < r; l, r = l+1, r-1 {
		s[l], s[r] = s[r], s[l]
	}
}

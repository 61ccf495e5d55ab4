package tour

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func vecs(coords ...[2]float64) []r3.Vec {
	out := make([]r3.Vec, len(coords))
	for i, c := range coords {
		out[i] = r3.Vec{X: c[0], Y: c[1]}
	}
	return out
}

func assertPermutation(t *testing.T, order []int, n int) {
	t.Helper()
	require.Len(t, order, n)
	seen := make([]bool, n)
	for _, idx := range order {
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, n)
		require.False(t, seen[idx], "index %d repeated", idx)
		seen[idx] = true
	}
}

func TestBuildEmpty(t *testing.T) {
	assert.Empty(t, Build(nil))
}

func TestBuildSinglePoint(t *testing.T) {
	assert.Equal(t, []int{0}, Build(vecs([2]float64{3, 4})))
}

func TestBuildIsPermutation(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 50, 200} {
		rng := rand.New(rand.NewSource(int64(n)))
		positions := make([]r3.Vec, n)
		for i := range positions {
			positions[i] = r3.Vec{X: rng.Float64() * 100, Y: rng.Float64() * 100}
		}
		assertPermutation(t, Build(positions), n)
	}
}

func TestGreedyPrefersNearestUnvisited(t *testing.T) {
	// Collinear points with a far outlier: the near cluster is exhausted
	// before the jump to 100.
	positions := vecs([2]float64{0, 0}, [2]float64{1, 0}, [2]float64{2, 0}, [2]float64{3, 0}, [2]float64{100, 0})
	order := buildGreedy(normalize(positions))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestBuildCoincidentPositions(t *testing.T) {
	// A pile puts many tiles on the same x,y; more of them than the
	// quadtree node capacity must not break insertion.
	positions := make([]r3.Vec, 9)
	for i := range positions {
		positions[i] = r3.Vec{X: 1, Y: 1}
	}
	assertPermutation(t, Build(positions), len(positions))

	// Duplicates mixed with distinct points.
	positions = append(positions, vecs([2]float64{5, 5}, [2]float64{9, 2})...)
	assertPermutation(t, Build(positions), len(positions))
}

func TestQuadtreeOverflowOnOnePoint(t *testing.T) {
	qt := newQuadtree(box{0, 0, 1, 1}, 2)
	for i := 0; i < 40; i++ {
		require.True(t, qt.insert(point{id: i, x: 0.5, y: 0.5}))
	}
	got := qt.query(box{0, 0, 1, 1}, nil)
	assert.Len(t, got, 40, "every coincident point must be stored and found")
}

func TestBuildDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	positions := make([]r3.Vec, 60)
	for i := range positions {
		positions[i] = r3.Vec{X: rng.Float64() * 50, Y: rng.Float64() * 20}
	}
	first := Build(positions)
	second := Build(positions)
	assert.Equal(t, first, second)
}

func TestRefineNeverLengthens(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	positions := make([]r3.Vec, 80)
	for i := range positions {
		positions[i] = r3.Vec{X: rng.Float64() * 100, Y: rng.Float64() * 100}
	}
	pts := normalize(positions)

	greedy := buildGreedy(pts)
	before := pathLength(pts, greedy)

	refined := refine(pts, append([]int(nil), greedy...))
	after := pathLength(pts, refined)

	assert.LessOrEqual(t, after, before+1e-9)
	assertPermutation(t, refined, len(positions))
}

func TestRefineUncrossesPath(t *testing.T) {
	// A square visited in crossing order; 2-opt must find the perimeter.
	positions := vecs([2]float64{0, 0}, [2]float64{10, 10}, [2]float64{10, 0}, [2]float64{0, 10})
	pts := normalize(positions)

	crossed := []int{0, 1, 2, 3}
	before := pathLength(pts, crossed)
	after := pathLength(pts, refine(pts, crossed))
	assert.Less(t, after, before)
}

func TestNormalizeStretchesXAxis(t *testing.T) {
	pts := normalize(vecs([2]float64{5, 0}, [2]float64{0, 3}))
	assert.Equal(t, 2.0, pts[0].x)
	assert.Equal(t, 3.0, pts[1].y)
}

func TestSequenceValid(t *testing.T) {
	seq := NewSequence(vecs([2]float64{0, 0}, [2]float64{1, 1}, [2]float64{2, 0}))
	assert.True(t, seq.Valid())
	assertPermutation(t, seq.Order, 3)

	// Simulate the position snapshot shrinking after the tour was built.
	seq.Positions = seq.Positions[:2]
	assert.False(t, seq.Valid(), "stale order must be rejected before rendering")

	var nilSeq *Sequence
	assert.False(t, nilSeq.Valid())
}

func TestSequenceSnapshotsPositions(t *testing.T) {
	src := vecs([2]float64{1, 2})
	seq := NewSequence(src)
	src[0].X = 99
	assert.Equal(t, 1.0, seq.Positions[0].X, "sequence must copy, not alias")
}

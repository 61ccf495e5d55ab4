package tour

// point is an indexed 2D position in normalized tour space.
type point struct {
	id   int
	x, y float64
}

// box is a rectangular query region.
type box struct {
	minX, minY, maxX, maxY float64
}

func (b box) contains(x, y float64) bool {
	return x >= b.minX && x <= b.maxX && y >= b.minY && y <= b.maxY
}

func (b box) intersects(other box) bool {
	return !(other.maxX < b.minX || other.minX > b.maxX ||
		other.minY > b.maxY || other.maxY < b.minY)
}

// maxTreeDepth stops subdivision once cells get this deep. Coincident
// points can never be separated by splitting, so past this depth a leaf
// simply holds them all.
const maxTreeDepth = 16

// quadtree is a fixed-capacity region quadtree over indexed points. It only
// needs insert and box queries; the planner never removes points. Leaves at
// the depth bound grow past capacity instead of subdividing further.
type quadtree struct {
	capacity int
	depth    int
	bounds   box
	points   []point
	divided  bool

	nw, ne, sw, se *quadtree
}

func newQuadtree(bounds box, capacity int) *quadtree {
	return &quadtree{
		bounds:   bounds,
		capacity: capacity,
		points:   make([]point, 0, capacity),
	}
}

func (qt *quadtree) insert(p point) bool {
	if !qt.bounds.contains(p.x, p.y) {
		return false
	}
	if !qt.divided && (len(qt.points) < qt.capacity || qt.depth >= maxTreeDepth) {
		qt.points = append(qt.points, p)
		return true
	}
	if !qt.divided {
		qt.subdivide()
	}
	return qt.insertIntoChild(p)
}

func (qt *quadtree) insertIntoChild(p point) bool {
	midX := (qt.bounds.minX + qt.bounds.maxX) / 2
	midY := (qt.bounds.minY + qt.bounds.maxY) / 2

	if p.x <= midX {
		if p.y <= midY {
			return qt.sw.insert(p)
		}
		return qt.nw.insert(p)
	}
	if p.y <= midY {
		return qt.se.insert(p)
	}
	return qt.ne.insert(p)
}

func (qt *quadtree) subdivide() {
	midX := (qt.bounds.minX + qt.bounds.maxX) / 2
	midY := (qt.bounds.minY + qt.bounds.maxY) / 2

	qt.nw = newQuadtree(box{qt.bounds.minX, midY, midX, qt.bounds.maxY}, qt.capacity)
	qt.ne = newQuadtree(box{midX, midY, qt.bounds.maxX, qt.bounds.maxY}, qt.capacity)
	qt.sw = newQuadtree(box{qt.bounds.minX, qt.bounds.minY, midX, midY}, qt.capacity)
	qt.se = newQuadtree(box{midX, qt.bounds.minY, qt.bounds.maxX, midY}, qt.capacity)
	qt.nw.depth = qt.depth + 1
	qt.ne.depth = qt.depth + 1
	qt.sw.depth = qt.depth + 1
	qt.se.depth = qt.depth + 1
	qt.divided = true

	for _, p := range qt.points {
		qt.insertIntoChild(p)
	}
	qt.points = nil
}

// query appends all points within b to out and returns the extended slice.
func (qt *quadtree) query(b box, out []point) []point {
	if !qt.bounds.intersects(b) {
		return out
	}
	for _, p := range qt.points {
		if b.contains(p.x, p.y) {
			out = append(out, p)
		}
	}
	if qt.divided {
		out = qt.nw.query(b, out)
		out = qt.ne.query(b, out)
		out = qt.sw.query(b, out)
		out = qt.se.query(b, out)
	}
	return out
}

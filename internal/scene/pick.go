package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"picpyles/pkg/geometry"
)

// rayZEpsilon guards the plane projection against rays that run (almost)
// parallel to the tile plane, where the intersection is undefined.
const rayZEpsilon = 1e-9

// projectToPlane intersects the ray from the camera through target with the
// z=0 tile plane, using the original pinhole model: the target is a point on
// the image plane in camera space, the camera sits at camPos.
func projectToPlane(camPos, target r3.Vec) (geometry.Point2D, bool) {
	norm := r3.Norm(target)
	if norm == 0 {
		return geometry.Point2D{}, false
	}
	dir := r3.Scale(1/norm, target)
	if math.Abs(dir.Z) < rayZEpsilon {
		return geometry.Point2D{}, false
	}
	planeDist := -camPos.Z
	hit := r3.Sub(r3.Scale(planeDist/dir.Z, dir), camPos)
	return geometry.Point2D{X: hit.X, Y: hit.Y}, true
}

// PickPoint returns the tile under the ray from camPos through target, or nil.
// When several tiles overlap the hit point the one with the largest Z wins,
// matching how piles are drawn: the top sheet is what the user sees and means.
func (s *Scene) PickPoint(camPos, target r3.Vec) *Tile {
	p, ok := projectToPlane(camPos, target)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var best *Tile
	for _, t := range s.objects {
		if !t.Footprint().Contains(p) {
			continue
		}
		if best == nil || t.Position.Z > best.Position.Z {
			best = t
		}
	}
	return best
}

// PickRect returns all tiles touched by the screen-space rectangle spanned by
// cornerA and cornerB (in either order), projected onto the tile plane. A
// tile matches if its footprint overlaps the rectangle, if any rectangle edge
// crosses any footprint edge, or if the rectangle lies entirely inside the
// footprint. A degenerate (zero-area) rectangle or camera pose selects
// nothing. The result contains no duplicates.
func (s *Scene) PickRect(camPos, cornerA, cornerB r3.Vec) []*Tile {
	a, okA := projectToPlane(camPos, cornerA)
	b, okB := projectToPlane(camPos, cornerB)
	if !okA || !okB {
		return nil
	}
	rect := geometry.RectFromCorners(a, b)
	if rect.Width == 0 || rect.Height == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var hits []*Tile
	for _, t := range s.objects {
		if tileInRect(t, rect, a, b) {
			hits = append(hits, t)
		}
	}
	return hits
}

// tileInRect runs the three-stage rectangle test against one tile.
func tileInRect(t *Tile, rect geometry.Rect, a, b geometry.Point2D) bool {
	fp := t.Footprint()
	if fp.Intersects(rect) {
		return true
	}

	rc := rect.Corners()
	fc := fp.Corners()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if geometry.SegmentsIntersect(rc[i], rc[(i+1)%4], fc[j], fc[(j+1)%4]) {
				return true
			}
		}
	}

	// Selection drawn entirely within one tile.
	return fp.ContainsStrict(a) && fp.ContainsStrict(b)
}

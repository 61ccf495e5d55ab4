package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectFromCorners(t *testing.T) {
	a := NewPoint2D(3, -1)
	b := NewPoint2D(-2, 4)

	r1 := RectFromCorners(a, b)
	r2 := RectFromCorners(b, a)

	assert.Equal(t, r1, r2, "corner order must not matter")
	assert.Equal(t, -2.0, r1.X)
	assert.Equal(t, -1.0, r1.Y)
	assert.Equal(t, 5.0, r1.Width)
	assert.Equal(t, 5.0, r1.Height)
}

func TestRectFromCenter(t *testing.T) {
	r := RectFromCenter(NewPoint2D(1, 2), NewSize(4, 6))
	assert.Equal(t, NewRect(-1, -1, 4, 6), r)
	assert.Equal(t, NewPoint2D(1, 2), r.Center())
}

func TestRectIntersects(t *testing.T) {
	base := NewRect(0, 0, 2, 2)

	assert.True(t, base.Intersects(NewRect(1, 1, 2, 2)))
	assert.False(t, base.Intersects(NewRect(3, 3, 1, 1)))
	// Touching edges do not count as overlap.
	assert.False(t, base.Intersects(NewRect(2, 0, 1, 1)))
}

func TestRectContainsStrict(t *testing.T) {
	r := NewRect(0, 0, 2, 2)
	assert.True(t, r.ContainsStrict(NewPoint2D(1, 1)))
	assert.False(t, r.ContainsStrict(NewPoint2D(0, 1)), "edge is not strictly inside")
	assert.True(t, r.Contains(NewPoint2D(0, 1)))
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, q1, q2 Point2D
		want           bool
	}{
		{"crossing", Point2D{0, 0}, Point2D{2, 2}, Point2D{0, 2}, Point2D{2, 0}, true},
		{"parallel", Point2D{0, 0}, Point2D{2, 0}, Point2D{0, 1}, Point2D{2, 1}, false},
		{"disjoint", Point2D{0, 0}, Point2D{1, 0}, Point2D{2, 1}, Point2D{3, 2}, false},
		{"touching endpoint", Point2D{0, 0}, Point2D{1, 1}, Point2D{1, 1}, Point2D{2, 0}, true},
		{"collinear overlap", Point2D{0, 0}, Point2D{2, 0}, Point2D{1, 0}, Point2D{3, 0}, true},
		{"collinear disjoint", Point2D{0, 0}, Point2D{1, 0}, Point2D{2, 0}, Point2D{3, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentsIntersect(tt.p1, tt.p2, tt.q1, tt.q2))
			assert.Equal(t, tt.want, SegmentsIntersect(tt.q1, tt.q2, tt.p1, tt.p2), "must be symmetric")
		})
	}
}

func TestBoundingBox(t *testing.T) {
	assert.Equal(t, Rect{}, BoundingBox(nil))

	pts := []Point2D{{1, 5}, {-2, 3}, {4, -1}}
	bb := BoundingBox(pts)
	assert.Equal(t, NewRect(-2, -1, 6, 6), bb)
}

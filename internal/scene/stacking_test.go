package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRestingHeightNoNeighbors(t *testing.T) {
	s := New()
	a := tileAt(0, 0, 0.7)
	addTiles(s, a, tileAt(10, 10, 2))

	assert.Equal(t, 0.0, s.RestingHeight(a), "no overlap means ground level, exactly")
}

func TestRestingHeightOnPile(t *testing.T) {
	s := New()
	a := tileAt(0, 0, 0)
	b := tileAt(0.3, 0, 0.5)
	c := tileAt(0.1, 0.1, 0.2)
	addTiles(s, a, b, c)

	assert.InDelta(t, 0.5+StackEpsilon, s.RestingHeight(a), 1e-12)
}

func TestLiftThenDropLandsOnTop(t *testing.T) {
	s := New()
	under := tileAt(0, 0, 0.4)
	moved := tileAt(5, 5, 0.1)
	addTiles(s, under, moved)

	s.Lift([]*Tile{moved})
	assert.Equal(t, 0.0, moved.Position.Z, "nothing under it at its own spot")

	// Drag over the other tile and drop: it lands on the pile's top, not back
	// at its original depth.
	moved.Position.X, moved.Position.Y = 0.2, 0.2
	s.Drop([]*Tile{moved})
	assert.InDelta(t, 0.4+StackEpsilon, moved.Position.Z, 1e-12)
}

func TestSettleIgnoresSelf(t *testing.T) {
	s := New()
	a := tileAt(0, 0, 3)
	addTiles(s, a)

	s.Drop([]*Tile{a})
	assert.Equal(t, 0.0, a.Position.Z, "a tile never stacks on itself")
}

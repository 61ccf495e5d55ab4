package scene

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"picpyles/pkg/geometry"
)

func tileAt(x, y, z float64) *Tile {
	return NewTile("t", "", KindImage, r3.Vec{X: x, Y: y, Z: z}, geometry.NewSize(1, 1))
}

func TestFlushAppliesInEnqueueOrder(t *testing.T) {
	s := New()
	a, b, c := tileAt(0, 0, 0), tileAt(1, 0, 0), tileAt(2, 0, 0)

	s.EnqueueAdd(a)
	s.EnqueueAdd(b)
	s.EnqueueAdd(c)
	assert.Equal(t, 0, s.Len(), "nothing visible before flush")

	want := []*Tile{a, b, c}
	for i := 1; i <= 3; i++ {
		assert.True(t, s.Flush(1))
		require.Equal(t, i, s.Len(), "each bounded flush applies exactly one add")
		assert.Equal(t, want[:i], s.Snapshot())
	}
	assert.False(t, s.Flush(1), "queue drained")
}

func TestEnqueueAddIsIdempotent(t *testing.T) {
	s := New()
	a := tileAt(0, 0, 0)

	s.EnqueueAdd(a)
	s.EnqueueAdd(a)
	assert.Equal(t, 1, s.Pending(), "duplicate add not queued")

	s.Flush(-1)
	assert.Equal(t, 1, s.Len())

	s.EnqueueAdd(a)
	assert.Equal(t, 0, s.Pending(), "adding a present tile is a no-op")
}

func TestEnqueueRemoveAbsentIsNoOp(t *testing.T) {
	s := New()
	s.EnqueueRemove(tileAt(0, 0, 0))
	assert.Equal(t, 0, s.Pending())
	assert.False(t, s.Flush(-1))
}

func TestAddThenRemoveBeforeFlush(t *testing.T) {
	s := New()
	a := tileAt(0, 0, 0)

	s.EnqueueAdd(a)
	s.EnqueueRemove(a)
	assert.Equal(t, 2, s.Pending())

	s.Flush(-1)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(a))
	assert.Nil(t, s.PickPoint(r3.Vec{Z: -1}, r3.Vec{Z: 1}), "removed tile never picked")
}

func TestRemoveAllSnapshotsAtCallTime(t *testing.T) {
	s := New()
	a, b := tileAt(0, 0, 0), tileAt(1, 0, 0)
	s.EnqueueAdd(a)
	s.EnqueueAdd(b)
	s.Flush(-1)

	s.RemoveAll()
	late := tileAt(2, 0, 0)
	s.EnqueueAdd(late)
	s.Flush(-1)

	assert.False(t, s.Contains(a))
	assert.False(t, s.Contains(b))
	assert.True(t, s.Contains(late), "tile added after the snapshot survives")
}

func TestPartialFlushPreservesRemainderOrder(t *testing.T) {
	s := New()
	a, b := tileAt(0, 0, 0), tileAt(1, 0, 0)
	s.EnqueueAdd(a)
	s.EnqueueAdd(b)
	s.EnqueueRemove(a) // queued behind the adds

	s.Flush(2)
	assert.Equal(t, []*Tile{a, b}, s.Snapshot())

	s.Flush(2)
	assert.Equal(t, []*Tile{b}, s.Snapshot())
}

func TestConcurrentProducersSingleConsumer(t *testing.T) {
	s := New()
	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				s.EnqueueAdd(tileAt(float64(p), float64(i), 0))
			}
		}(p)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()

	// Single consumer ticking while producers run.
	for {
		s.Flush(16)
		select {
		case <-done:
			for s.Flush(64) {
			}
			assert.Equal(t, producers*perProducer, s.Len())
			return
		default:
		}
	}
}

func TestPositionsIsACopy(t *testing.T) {
	s := New()
	a := tileAt(3, 4, 0)
	s.EnqueueAdd(a)
	s.Flush(-1)

	pos := s.Positions()
	require.Len(t, pos, 1)
	pos[0].X = 99
	assert.Equal(t, 3.0, s.Snapshot()[0].Position.X, "mutating the copy must not alias the tile")
}

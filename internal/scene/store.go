package scene

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"picpyles/pkg/geometry"
)

type mutationKind int

const (
	mutationAdd mutationKind = iota
	mutationRemove
)

type mutation struct {
	kind mutationKind
	tile *Tile
}

// Scene owns the canonical list of placed tiles. Mutations are enqueued from
// any goroutine and applied in FIFO order by a single consumer calling Flush
// once per render tick, so the object list never changes mid-frame. Reads
// take the same lock and therefore always observe a consistent state.
type Scene struct {
	mu      sync.Mutex
	objects []*Tile
	present map[*Tile]bool

	pending []mutation
	// queuedKind holds the kind of the latest queued mutation per tile,
	// queuedOps the number of still-pending mutations. Together with present
	// they answer "will this tile exist once the queue drains", which is what
	// enqueue idempotence is checked against.
	queuedKind map[*Tile]mutationKind
	queuedOps  map[*Tile]int
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		present:    make(map[*Tile]bool),
		queuedKind: make(map[*Tile]mutationKind),
		queuedOps:  make(map[*Tile]int),
	}
}

// willExist reports the tile's membership once all pending mutations have
// been applied. Caller must hold s.mu.
func (s *Scene) willExist(t *Tile) bool {
	if k, ok := s.queuedKind[t]; ok {
		return k == mutationAdd
	}
	return s.present[t]
}

// enqueue records a mutation unless it would be a no-op. Caller must hold s.mu.
func (s *Scene) enqueue(kind mutationKind, t *Tile) {
	if s.willExist(t) == (kind == mutationAdd) {
		return
	}
	s.pending = append(s.pending, mutation{kind: kind, tile: t})
	s.queuedKind[t] = kind
	s.queuedOps[t]++
}

// EnqueueAdd schedules the tile for insertion. Adding a tile that is already
// in the scene, or already queued for insertion, is a no-op. Safe to call
// from any goroutine.
func (s *Scene) EnqueueAdd(t *Tile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueue(mutationAdd, t)
}

// EnqueueRemove schedules the tile for removal. Removing an absent tile is a
// no-op. Safe to call from any goroutine.
func (s *Scene) EnqueueRemove(t *Tile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueue(mutationRemove, t)
}

// RemoveAll enqueues a remove for every tile currently in the scene. Tiles
// added after the call are unaffected.
func (s *Scene) RemoveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.objects {
		s.enqueue(mutationRemove, t)
	}
}

// Flush applies up to maxOps pending mutations in FIFO order and reports
// whether anything was applied. It must only ever be called from a single
// consumer goroutine (the render tick); partial drains leave the remainder
// queued, still in order, for the next tick.
func (s *Scene) Flush(maxOps int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.pending)
	if maxOps >= 0 && n > maxOps {
		n = maxOps
	}
	for _, m := range s.pending[:n] {
		switch m.kind {
		case mutationAdd:
			if !s.present[m.tile] {
				s.objects = append(s.objects, m.tile)
				s.present[m.tile] = true
			}
		case mutationRemove:
			if s.present[m.tile] {
				for i, t := range s.objects {
					if t == m.tile {
						s.objects = append(s.objects[:i], s.objects[i+1:]...)
						break
					}
				}
				delete(s.present, m.tile)
			}
		}
		if s.queuedOps[m.tile]--; s.queuedOps[m.tile] == 0 {
			delete(s.queuedOps, m.tile)
			delete(s.queuedKind, m.tile)
		}
	}
	s.pending = s.pending[n:]
	return n > 0
}

// Pending returns the number of queued, not yet applied mutations.
func (s *Scene) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Len returns the number of tiles currently in the scene.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Contains reports whether the tile is currently in the scene.
func (s *Scene) Contains(t *Tile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.present[t]
}

// Snapshot returns a copy of the current object list.
func (s *Scene) Snapshot() []*Tile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Tile, len(s.objects))
	copy(out, s.objects)
	return out
}

// Positions returns a copy of all tile center positions, in object order.
// The copy lets long computations (tour building) run without the lock.
func (s *Scene) Positions() []r3.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]r3.Vec, len(s.objects))
	for i, t := range s.objects {
		out[i] = t.Position
	}
	return out
}

// Each calls fn for every tile in order while holding the scene lock.
// fn must not call back into the scene.
func (s *Scene) Each(fn func(*Tile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.objects {
		fn(t)
	}
}

// SetSelected updates the selection flag of the given tiles under the lock.
func (s *Scene) SetSelected(tiles []*Tile, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tiles {
		t.Selected = selected
	}
}

// ClearSelection resets the selection flag on every tile in the scene.
func (s *Scene) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.objects {
		t.Selected = false
	}
}

// SetSize replaces a tile's footprint under the lock.
func (s *Scene) SetSize(t *Tile, size geometry.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Size = size
}

// TranslateTiles moves the given tiles by the given delta under the lock.
func (s *Scene) TranslateTiles(tiles []*Tile, delta r3.Vec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tiles {
		t.Position = r3.Add(t.Position, delta)
	}
}

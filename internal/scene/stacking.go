package scene

// StackEpsilon is the depth gap between a tile and the pile it rests on.
const StackEpsilon = 0.001

// restingHeight computes the Z a tile should occupy given the tiles whose
// footprints currently overlap its own: the top of the local pile plus a
// small gap, or 0 on empty ground. Caller must hold s.mu.
func (s *Scene) restingHeight(tile *Tile) float64 {
	fp := tile.Footprint()
	top := 0.0
	found := false
	for _, other := range s.objects {
		if other == tile {
			continue
		}
		if !other.Footprint().Intersects(fp) {
			continue
		}
		if !found || other.Position.Z > top {
			top = other.Position.Z
			found = true
		}
	}
	if !found {
		return 0.0
	}
	return top + StackEpsilon
}

// RestingHeight returns the Z the tile would settle at over its current
// footprint without moving it.
func (s *Scene) RestingHeight(tile *Tile) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restingHeight(tile)
}

// Lift raises the tiles above whatever their footprints touch, as when the
// user picks up a sheet of paper from a pile.
func (s *Scene) Lift(tiles []*Tile) {
	s.settle(tiles)
}

// Drop settles the tiles onto the current top of the piles beneath them.
// Like a sheet of paper put back down, a tile does not return to its old
// depth; it always lands on top of the local stack.
func (s *Scene) Drop(tiles []*Tile) {
	s.settle(tiles)
}

func (s *Scene) settle(tiles []*Tile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tiles {
		t.Position.Z = s.restingHeight(t)
	}
}

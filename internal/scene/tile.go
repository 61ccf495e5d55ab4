// Package scene provides the spatial scene store: placed tiles, deferred
// add/remove mutations, ray picking, rectangle selection, and pile stacking.
package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"picpyles/pkg/geometry"
)

// Kind identifies what a tile represents on the plane.
type Kind int

const (
	KindImage Kind = iota
	KindFolder
)

// String returns the persisted name of the kind.
func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "image"
}

// KindFromString parses a persisted kind name. Unknown names map to KindImage.
func KindFromString(s string) Kind {
	if s == "folder" {
		return KindFolder
	}
	return KindImage
}

// Tile is a placed visual object. Tiles are compared by identity: two tiles
// with equal fields are still distinct scene objects. Position and the
// Selected flag must only be mutated through Scene methods, which hold the
// scene lock.
type Tile struct {
	Name     string
	Path     string // source file or directory
	Kind     Kind
	Position r3.Vec        // center; Z is the stacking depth
	Size     geometry.Size // footprint extent at z=0
	Selected bool

	// Enlarged marks a transient large-view tile wrapping an image tile.
	// It is never persisted.
	Enlarged bool
}

// NewTile creates a tile at the given center position.
func NewTile(name, path string, kind Kind, pos r3.Vec, size geometry.Size) *Tile {
	return &Tile{Name: name, Path: path, Kind: kind, Position: pos, Size: size}
}

// Footprint returns the tile's axis-aligned bounds at z=0.
func (t *Tile) Footprint() geometry.Rect {
	return geometry.RectFromCenter(geometry.Point2D{X: t.Position.X, Y: t.Position.Y}, t.Size)
}

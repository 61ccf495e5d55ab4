// Package layout assigns grid positions to newly discovered items so they
// appear as a compact square block beside the tiles already on the plane.
package layout

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"picpyles/internal/scene"
	"picpyles/pkg/geometry"
)

// DefaultTileSize is the footprint new tiles start with before a thumbnail
// adjusts their aspect ratio.
var DefaultTileSize = geometry.NewSize(2.0, 1.5)

// MarginFactor scales the tile size into the grid cell pitch, leaving a gap
// between neighboring new tiles.
const MarginFactor = 1.25

// Placement is one assigned grid position for a new item.
type Placement struct {
	Name     string
	Kind     scene.Kind
	Position r3.Vec
}

// PlaceNewItems lays new images and folders out on a ceil(sqrt(n)) square
// grid in raster order, folders first, each group sorted case-insensitively.
// The grid starts one cell pitch to the right of the existing bounding box at
// its minimum Y, so new items can never overlap tiles already placed.
func PlaceNewItems(existing geometry.Rect, imageNames, folderNames []string, tileSize geometry.Size) []Placement {
	n := len(imageNames) + len(folderNames)
	if n == 0 {
		return nil
	}

	images := sortedCopy(imageNames)
	folders := sortedCopy(folderNames)

	dim := int(math.Ceil(math.Sqrt(float64(n))))
	pitchX := tileSize.Width * MarginFactor
	pitchY := tileSize.Height * MarginFactor
	originX := existing.MaxX() + pitchX
	originY := existing.Y

	placements := make([]Placement, 0, n)
	cell := 0
	place := func(name string, kind scene.Kind) {
		row := cell / dim
		col := cell % dim
		placements = append(placements, Placement{
			Name: name,
			Kind: kind,
			Position: r3.Vec{
				X: originX + float64(col)*pitchX,
				Y: originY + float64(row)*pitchY,
			},
		})
		cell++
	}

	for _, name := range folders {
		place(name, scene.KindFolder)
	}
	for _, name := range images {
		place(name, scene.KindImage)
	}
	return placements
}

func sortedCopy(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

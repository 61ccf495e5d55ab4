package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picpyles/internal/scene"
	"picpyles/pkg/geometry"
)

func TestPlaceNewItemsEmpty(t *testing.T) {
	assert.Nil(t, PlaceNewItems(geometry.Rect{}, nil, nil, DefaultTileSize))
}

func TestPlaceNewItemsNoSharedCells(t *testing.T) {
	images := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"}
	folders := []string{"one", "two"}
	got := PlaceNewItems(geometry.NewRect(-5, -5, 10, 10), images, folders, DefaultTileSize)
	require.Len(t, got, 7)

	seen := make(map[[2]float64]bool)
	for _, p := range got {
		key := [2]float64{p.Position.X, p.Position.Y}
		assert.False(t, seen[key], "cell %v assigned twice", key)
		seen[key] = true
	}
}

func TestPlaceNewItemsRightOfExistingBounds(t *testing.T) {
	existing := geometry.NewRect(-3, 2, 8, 4) // MaxX = 5, MinY = 2
	got := PlaceNewItems(existing, []string{"x.png", "y.png"}, nil, DefaultTileSize)

	pitchX := DefaultTileSize.Width * MarginFactor
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Position.X, existing.MaxX()+pitchX)
		assert.GreaterOrEqual(t, p.Position.Y, existing.Y)
	}
}

func TestPlaceNewItemsFoldersFirstSortedCaseInsensitive(t *testing.T) {
	images := []string{"Zebra.jpg", "apple.jpg"}
	folders := []string{"beta", "Alpha"}
	got := PlaceNewItems(geometry.Rect{}, images, folders, DefaultTileSize)
	require.Len(t, got, 4)

	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, scene.KindFolder, got[0].Kind)
	assert.Equal(t, "beta", got[1].Name)
	assert.Equal(t, "apple.jpg", got[2].Name)
	assert.Equal(t, scene.KindImage, got[2].Kind)
	assert.Equal(t, "Zebra.jpg", got[3].Name)
}

func TestPlaceNewItemsRasterOrder(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"} // dim = 3
	got := PlaceNewItems(geometry.Rect{}, names, nil, DefaultTileSize)
	require.Len(t, got, 5)

	pitchX := DefaultTileSize.Width * MarginFactor
	pitchY := DefaultTileSize.Height * MarginFactor

	// First row fills three columns, second row starts back at column 0.
	assert.Equal(t, got[0].Position.X+pitchX, got[1].Position.X)
	assert.Equal(t, got[0].Position.Y, got[2].Position.Y)
	assert.Equal(t, got[0].Position.X, got[3].Position.X)
	assert.Equal(t, got[0].Position.Y+pitchY, got[3].Position.Y)
}

func TestPlaceNewItemsInputNotMutated(t *testing.T) {
	images := []string{"b.jpg", "a.jpg"}
	PlaceNewItems(geometry.Rect{}, images, nil, DefaultTileSize)
	assert.Equal(t, []string{"b.jpg", "a.jpg"}, images)
}

package canvas

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"picpyles/internal/app"
	"picpyles/internal/scene"
	"picpyles/internal/thumbs"
	"picpyles/pkg/geometry"
)

func newTestView() *SceneView {
	test.NewApp()
	sv := NewSceneView(app.NewState(thumbs.SyncExecutor{}))
	sv.viewW, sv.viewH = 800, 600
	return sv
}

func addTile(sv *SceneView, x, y float64) *scene.Tile {
	t := scene.NewTile("t.jpg", "/tmp/t.jpg", scene.KindImage,
		r3.Vec{X: x, Y: y}, geometry.NewSize(2.0, 1.5))
	sv.state.Scene.EnqueueAdd(t)
	sv.state.Scene.Flush(-1)
	return t
}

func TestPickThroughProjectedPoint(t *testing.T) {
	sv := newTestView()
	sv.cam = camera{x: 1.5, y: -2.0, z: -10}
	tile := addTile(sv, 3, 4)

	// The screen position a tile projects to must pick that tile back.
	sx, sy := sv.worldToScreen(tile.Position)
	pos := fyne.NewPos(float32(sx), float32(sy))
	picked := sv.state.Scene.PickPoint(sv.camPos(), sv.rayTarget(pos))
	require.NotNil(t, picked)
	assert.Same(t, tile, picked)
}

func TestPickMissesEmptyGround(t *testing.T) {
	sv := newTestView()
	sv.cam = camera{z: -10}
	addTile(sv, 0, 0)

	// Far away from the only tile.
	sx, sy := sv.worldToScreen(r3.Vec{X: 30, Y: 30})
	pos := fyne.NewPos(float32(sx), float32(sy))
	assert.Nil(t, sv.state.Scene.PickPoint(sv.camPos(), sv.rayTarget(pos)))
}

func TestUnitsPerPixelMatchesProjection(t *testing.T) {
	sv := newTestView()
	sv.cam = camera{z: -10}

	// Moving one world unit moves focalLength/-camZ pixels; the drag factor
	// must be its exact inverse.
	x1, _ := sv.worldToScreen(r3.Vec{})
	x2, _ := sv.worldToScreen(r3.Vec{X: 1})
	assert.InDelta(t, 1.0, (x2-x1)*sv.unitsPerPixel(), 1e-9)
}

func TestZoomClamped(t *testing.T) {
	sv := newTestView()
	sv.cam = camera{z: maxCamZ}
	sv.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 1)})
	assert.Equal(t, maxCamZ, sv.cam.z, "cannot zoom past the near limit")

	sv.cam = camera{z: minCamZ}
	sv.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, -1)})
	assert.Equal(t, minCamZ, sv.cam.z, "cannot zoom past the far limit")
}

func TestTapSelectsAndLifts(t *testing.T) {
	sv := newTestView()
	sv.cam = camera{z: -10}
	bottom := addTile(sv, 0, 0)
	top := addTile(sv, 0.5, 0)
	sv.state.Scene.Drop([]*scene.Tile{top})
	require.Greater(t, top.Position.Z, bottom.Position.Z)

	sx, sy := sv.worldToScreen(r3.Vec{X: 0.25, Y: 0})
	sv.Tapped(&fyne.PointEvent{Position: fyne.NewPos(float32(sx), float32(sy))})

	assert.True(t, top.Selected, "topmost overlapping tile is picked")
	assert.False(t, bottom.Selected)
}

func TestTapEmptyClearsSelection(t *testing.T) {
	sv := newTestView()
	sv.cam = camera{z: -10}
	tile := addTile(sv, 0, 0)
	sv.state.Scene.SetSelected([]*scene.Tile{tile}, true)

	sx, sy := sv.worldToScreen(r3.Vec{X: 50, Y: 50})
	sv.Tapped(&fyne.PointEvent{Position: fyne.NewPos(float32(sx), float32(sy))})
	assert.False(t, tile.Selected)
}

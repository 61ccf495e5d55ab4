// Package canvas renders the tile plane and translates mouse input into
// scene operations: picking, rubber-band selection, dragging, and zoom.
package canvas

import (
	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/spatial/r3"

	"picpyles/internal/app"
	"picpyles/internal/scene"
)

const (
	// focalLength matches the pinhole model used for picking: a tile one
	// world unit wide covers focalLength/-camZ pixels on screen.
	focalLength = 1000.0

	zoomStep = 1.25
	minCamZ  = -90.0
	maxCamZ  = -0.5

	// flushBudget bounds scene mutations applied per frame so a huge folder
	// streams in over a few frames instead of stalling the first one.
	flushBudget = 64

	// enlargedZ keeps the large view above any pile on the plane.
	enlargedZ = 0.1
)

// camera is the viewer pose: a translation over the plane plus height.
// z stays negative; closer to zero means zoomed in.
type camera struct {
	x, y, z float64
}

// SceneView is the widget showing the tile plane.
type SceneView struct {
	widget.BaseWidget

	state  *app.State
	raster *fynecanvas.Raster

	cam      camera
	textures *textureCache

	viewW, viewH int

	// Interaction state. All of it is touched only on the event goroutine.
	button    desktop.MouseButton
	dragTiles []*scene.Tile
	selecting bool
	selStart  fyne.Position
	selEnd    fyne.Position

	enlarged *scene.Tile
}

// NewSceneView creates the viewer over the given application state.
func NewSceneView(state *app.State) *SceneView {
	sv := &SceneView{
		state:    state,
		cam:      camera{z: -10},
		textures: newTextureCache(),
	}
	sv.raster = fynecanvas.NewRaster(sv.draw)
	sv.ExtendBaseWidget(sv)

	state.On(app.EventTilesChanged, func(interface{}) { sv.Refresh() })
	state.On(app.EventFolderOpened, func(interface{}) {
		sv.textures.clear()
		sv.enlarged = nil
		sv.cam = camera{z: -10}
		sv.Refresh()
	})
	state.On(app.EventTourChanged, func(interface{}) { sv.Refresh() })
	return sv
}

// CreateRenderer implements fyne.Widget.
func (sv *SceneView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(sv.raster)
}

// Refresh redraws the plane.
func (sv *SceneView) Refresh() {
	sv.raster.Refresh()
}

func (sv *SceneView) camPos() r3.Vec {
	return r3.Vec{X: sv.cam.x, Y: sv.cam.y, Z: sv.cam.z}
}

// rayTarget maps a widget pixel onto the camera's image plane, the point the
// pick ray passes through.
func (sv *SceneView) rayTarget(pos fyne.Position) r3.Vec {
	return r3.Vec{
		X: float64(pos.X) - float64(sv.viewW)/2,
		Y: float64(sv.viewH)/2 - float64(pos.Y),
		Z: focalLength,
	}
}

// worldToScreen projects a plane point to widget pixels.
func (sv *SceneView) worldToScreen(p r3.Vec) (float64, float64) {
	s := focalLength / -sv.cam.z
	return float64(sv.viewW)/2 + (p.X+sv.cam.x)*s,
		float64(sv.viewH)/2 - (p.Y+sv.cam.y)*s
}

// unitsPerPixel converts a pixel delta into plane units at the current zoom.
func (sv *SceneView) unitsPerPixel() float64 {
	return -sv.cam.z / focalLength
}

// Scrolled zooms by moving the camera toward or away from the plane.
func (sv *SceneView) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		sv.cam.z /= zoomStep
	} else if ev.Scrolled.DY < 0 {
		sv.cam.z *= zoomStep
	}
	if sv.cam.z < minCamZ {
		sv.cam.z = minCamZ
	}
	if sv.cam.z > maxCamZ {
		sv.cam.z = maxCamZ
	}
	sv.Refresh()
}

// MouseDown records which button starts a gesture and, for the primary
// button, grabs the tile under the cursor so a following drag moves it.
func (sv *SceneView) MouseDown(ev *desktop.MouseEvent) {
	sv.button = ev.Button
	sv.dragTiles = nil
	if ev.Button != desktop.MouseButtonPrimary || sv.enlarged != nil {
		return
	}

	picked := sv.state.Scene.PickPoint(sv.camPos(), sv.rayTarget(ev.Position))
	if picked == nil {
		return
	}
	if picked.Selected {
		sv.dragTiles = sv.selectedTiles()
		return
	}
	sv.deselectAll()
	sv.state.Scene.SetSelected([]*scene.Tile{picked}, true)
	sv.state.Scene.Lift([]*scene.Tile{picked})
	sv.state.Emit(app.EventSelectionChanged, 1)
	sv.dragTiles = []*scene.Tile{picked}
	sv.Refresh()
}

// MouseUp ends the gesture started in MouseDown.
func (sv *SceneView) MouseUp(*desktop.MouseEvent) {
	sv.button = 0
}

// Dragged pans on the secondary button, moves grabbed tiles on the primary
// button, and otherwise stretches the rubber-band selection rectangle.
func (sv *SceneView) Dragged(ev *fyne.DragEvent) {
	u := sv.unitsPerPixel()

	if sv.button == desktop.MouseButtonSecondary {
		sv.cam.x += float64(ev.Dragged.DX) * u
		sv.cam.y -= float64(ev.Dragged.DY) * u
		sv.Refresh()
		return
	}

	if len(sv.dragTiles) > 0 {
		delta := r3.Vec{
			X: float64(ev.Dragged.DX) * u,
			Y: -float64(ev.Dragged.DY) * u,
		}
		sv.state.Scene.TranslateTiles(sv.dragTiles, delta)
		sv.Refresh()
		return
	}

	if !sv.selecting {
		sv.selecting = true
		sv.selStart = fyne.Position{
			X: ev.Position.X - ev.Dragged.DX,
			Y: ev.Position.Y - ev.Dragged.DY,
		}
	}
	sv.selEnd = ev.Position
	sv.Refresh()
}

// DragEnd settles moved tiles or resolves the selection rectangle.
func (sv *SceneView) DragEnd() {
	if len(sv.dragTiles) > 0 {
		sv.state.Scene.Drop(sv.dragTiles)
		sv.dragTiles = nil
		sv.state.RefreshTour()
		sv.Refresh()
		return
	}

	if sv.selecting {
		sv.selecting = false
		hits := sv.state.Scene.PickRect(sv.camPos(),
			sv.rayTarget(sv.selStart), sv.rayTarget(sv.selEnd))
		sv.deselectAll()
		if len(hits) > 0 {
			sv.state.Scene.SetSelected(hits, true)
			sv.state.Scene.Lift(hits)
		}
		sv.state.Emit(app.EventSelectionChanged, len(hits))
		sv.Refresh()
	}
}

// Tapped selects the tile under the cursor, or clears the selection on
// empty ground. A tap anywhere closes the enlarged view first.
func (sv *SceneView) Tapped(ev *fyne.PointEvent) {
	if sv.enlarged != nil {
		sv.state.CloseEnlarged(sv.enlarged)
		sv.enlarged = nil
		sv.Refresh()
		return
	}

	picked := sv.state.Scene.PickPoint(sv.camPos(), sv.rayTarget(ev.Position))
	if picked == nil {
		sv.deselectAll()
		sv.state.Emit(app.EventSelectionChanged, 0)
		sv.Refresh()
		return
	}
	if !picked.Selected {
		sv.deselectAll()
		sv.state.Scene.SetSelected([]*scene.Tile{picked}, true)
		sv.state.Scene.Lift([]*scene.Tile{picked})
		sv.state.Emit(app.EventSelectionChanged, 1)
	}
	sv.Refresh()
}

// DoubleTapped opens folder tiles and enlarges image tiles.
func (sv *SceneView) DoubleTapped(ev *fyne.PointEvent) {
	if sv.enlarged != nil {
		return
	}
	picked := sv.state.Scene.PickPoint(sv.camPos(), sv.rayTarget(ev.Position))
	if picked == nil {
		return
	}

	switch picked.Kind {
	case scene.KindFolder:
		if err := sv.state.OpenSubfolder(picked); err != nil {
			fyne.LogError("open folder", err)
		}
	case scene.KindImage:
		// Center the large view on whatever the camera currently looks at.
		at := r3.Vec{X: -sv.cam.x, Y: -sv.cam.y, Z: enlargedZ}
		sv.enlarged = sv.state.Enlarge(picked, at)
		sv.Refresh()
	}
}

func (sv *SceneView) selectedTiles() []*scene.Tile {
	var sel []*scene.Tile
	sv.state.Scene.Each(func(t *scene.Tile) {
		if t.Selected {
			sel = append(sel, t)
		}
	})
	return sel
}

// deselectAll drops and deselects every selected tile, like letting go of a
// handful of photos.
func (sv *SceneView) deselectAll() {
	sel := sv.selectedTiles()
	if len(sel) == 0 {
		return
	}
	sv.state.Scene.Drop(sel)
	sv.state.Scene.SetSelected(sel, false)
}

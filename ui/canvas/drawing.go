package canvas

import (
	"image"
	"image/color"
	"sort"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r3"

	"picpyles/internal/scene"
)

var (
	backgroundColor = color.RGBA{R: 230, G: 230, B: 255, A: 255}
	folderColor     = color.RGBA{R: 222, G: 196, B: 132, A: 255}
	placeholderGray = color.RGBA{R: 190, G: 190, B: 190, A: 255}
	borderColor     = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	selectionBlue   = color.RGBA{R: 51, G: 102, B: 204, A: 255}
	rubberBandColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	tourColor       = color.RGBA{R: 204, G: 51, B: 51, A: 255}
	labelColor      = color.RGBA{R: 32, G: 32, B: 32, A: 255}
)

// labelMinScale hides image captions when the view shows fewer than this
// many pixels per world unit.
const labelMinScale = 40.0

// draw is the raster callback rendering one frame of the plane.
func (sv *SceneView) draw(w, h int) image.Image {
	sv.viewW, sv.viewH = w, h

	// Apply a slice of the mutation backlog each frame. If anything is
	// still queued, ask for another frame.
	sv.state.Scene.Flush(flushBudget)
	if sv.state.Scene.Pending() > 0 {
		go sv.Refresh()
	}

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(output, 0, 0, w, h, backgroundColor)

	// Low piles first, so the top of a pile is what ends up visible.
	tiles := sv.state.Scene.Snapshot()
	sort.SliceStable(tiles, func(i, j int) bool {
		return tiles[i].Position.Z < tiles[j].Position.Z
	})
	for _, t := range tiles {
		sv.drawTile(output, t)
	}

	sv.drawTour(output)

	if sv.selecting {
		x1, y1 := int(sv.selStart.X), int(sv.selStart.Y)
		x2, y2 := int(sv.selEnd.X), int(sv.selEnd.Y)
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		drawDashedRect(output, x1, y1, x2, y2, rubberBandColor)
	}

	return output
}

// drawTile renders one tile: thumbnail or folder face, border, caption.
func (sv *SceneView) drawTile(output *image.RGBA, t *scene.Tile) {
	scale := focalLength / -sv.cam.z
	cx, cy := sv.worldToScreen(t.Position)
	halfW := t.Size.Width / 2 * scale
	halfH := t.Size.Height / 2 * scale

	x1, y1 := int(cx-halfW), int(cy-halfH)
	x2, y2 := int(cx+halfW), int(cy+halfH)
	if x2 < 0 || y2 < 0 || x1 >= sv.viewW || y1 >= sv.viewH {
		return
	}
	if x2-x1 < 1 || y2-y1 < 1 {
		return
	}

	switch t.Kind {
	case scene.KindFolder:
		fillRect(output, x1, y1, x2, y2, folderColor)
	case scene.KindImage:
		img := sv.textures.get(sv.texturePath(t), sv.Refresh)
		if img == nil {
			fillRect(output, x1, y1, x2, y2, placeholderGray)
		} else {
			xdraw.ApproxBiLinear.Scale(output, image.Rect(x1, y1, x2, y2), img, img.Bounds(), xdraw.Over, nil)
		}
	}

	border := borderColor
	thickness := 1
	if t.Selected {
		border = selectionBlue
		thickness = 3
	}
	drawRectOutline(output, x1, y1, x2, y2, border, thickness)

	if scale >= labelMinScale || t.Kind == scene.KindFolder {
		drawLabel(output, t.Name, (x1+x2)/2, y2+4, labelScale(scale), labelColor)
	}
}

// texturePath prefers the generated thumbnail; the enlarged view decodes the
// full-resolution source.
func (sv *SceneView) texturePath(t *scene.Tile) string {
	if t.Enlarged {
		return t.Path
	}
	if p := sv.state.ThumbnailPath(t); p != "" {
		return p
	}
	return t.Path
}

// drawTour renders the suggested viewing order as a polyline over the tiles.
// A stale sequence is skipped rather than indexed out of range.
func (sv *SceneView) drawTour(output *image.RGBA) {
	seq := sv.state.Sequence()
	if seq == nil || !seq.Visible || !seq.Valid() {
		return
	}
	for k := 0; k+1 < len(seq.Order); k++ {
		a := seq.Positions[seq.Order[k]]
		b := seq.Positions[seq.Order[k+1]]
		x1, y1 := sv.worldToScreen(r3.Vec{X: a.X, Y: a.Y})
		x2, y2 := sv.worldToScreen(r3.Vec{X: b.X, Y: b.Y})
		drawLine(output, int(x1), int(y1), int(x2), int(y2), tourColor, 2)
	}
}

func labelScale(scale float64) int {
	s := int(scale / 40)
	if s < 1 {
		s = 1
	}
	if s > 3 {
		s = 3
	}
	return s
}

func fillRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := output.Bounds()
	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}
	if y2 > bounds.Max.Y {
		y2 = bounds.Max.Y
	}
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			output.SetRGBA(x, y, col)
		}
	}
}

func drawRectOutline(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()
	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X {
				if y1+t >= bounds.Min.Y && y1+t < bounds.Max.Y {
					output.SetRGBA(x, y1+t, col)
				}
				if y2-t >= bounds.Min.Y && y2-t < bounds.Max.Y {
					output.SetRGBA(x, y2-t, col)
				}
			}
		}
		for y := y1; y <= y2; y++ {
			if y >= bounds.Min.Y && y < bounds.Max.Y {
				if x1+t >= bounds.Min.X && x1+t < bounds.Max.X {
					output.SetRGBA(x1+t, y, col)
				}
				if x2-t >= bounds.Min.X && x2-t < bounds.Max.X {
					output.SetRGBA(x2-t, y, col)
				}
			}
		}
	}
}

// drawDashedRect draws the rubber-band rectangle with alternating pixels.
func drawDashedRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := output.Bounds()
	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			output.SetRGBA(x, y1, col)
		}
		if (x+y2)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y2 >= bounds.Min.Y && y2 < bounds.Max.Y {
			output.SetRGBA(x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 && x1 >= bounds.Min.X && x1 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.SetRGBA(x1, y, col)
		}
		if (x2+y)%4 < 2 && x2 >= bounds.Min.X && x2 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.SetRGBA(x2, y, col)
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.SetRGBA(px, py, col)
				}
			}
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

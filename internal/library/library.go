// Package library tracks the tiles belonging to one folder on disk: it scans
// the folder for images and subfolders, persists tile placement to
// .ppyles/state.json, and feeds adds/removes into the scene store.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"picpyles/internal/layout"
	"picpyles/internal/scene"
	"picpyles/pkg/geometry"
)

const (
	// StateDirName is the per-folder metadata directory.
	StateDirName = ".ppyles"
	stateFile    = "state.json"
)

var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".gif":  true,
	".webp": true,
}

// IsSupportedImage reports whether the file name has a viewable extension.
func IsSupportedImage(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Record is the persisted form of one tile.
type Record struct {
	ImagePath  string     `json:"image_path"`
	Position   [3]float64 `json:"position"`
	Size       [2]float64 `json:"size"`
	Name       string     `json:"name"`
	ObjectType string     `json:"object_type"`
}

type stateData struct {
	Images  []Record `json:"images"`
	Folders []Record `json:"folders"`
}

// Library manages the tiles of a single folder. It owns persistence and the
// name-to-tile mapping; the scene store remains the only authority on what is
// currently placed.
type Library struct {
	path      string
	statePath string

	tiles map[string]*scene.Tile // keyed by item name within the folder
}

// Open prepares the library for a folder, creating the .ppyles state
// directory if needed and loading any previously saved placement.
func Open(path string) (*Library, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open library: %s is not a directory", path)
	}

	stateDir := filepath.Join(path, StateDirName)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}

	lib := &Library{
		path:      path,
		statePath: filepath.Join(stateDir, stateFile),
		tiles:     make(map[string]*scene.Tile),
	}
	if err := lib.loadState(); err != nil {
		return nil, err
	}
	return lib, nil
}

// Path returns the folder this library manages.
func (l *Library) Path() string { return l.path }

// Tiles returns the tracked tiles in no particular order.
func (l *Library) Tiles() []*scene.Tile {
	out := make([]*scene.Tile, 0, len(l.tiles))
	for _, t := range l.tiles {
		out = append(out, t)
	}
	return out
}

func (l *Library) loadState() error {
	data, err := os.ReadFile(l.statePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	var state stateData
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	for _, rec := range append(state.Folders, state.Images...) {
		l.tiles[rec.Name] = l.tileFromRecord(rec)
	}
	return nil
}

func (l *Library) tileFromRecord(rec Record) *scene.Tile {
	return scene.NewTile(
		rec.Name,
		filepath.Join(l.path, rec.ImagePath),
		scene.KindFromString(rec.ObjectType),
		r3.Vec{X: rec.Position[0], Y: rec.Position[1], Z: rec.Position[2]},
		geometry.NewSize(rec.Size[0], rec.Size[1]),
	)
}

func recordFromTile(t *scene.Tile) Record {
	return Record{
		ImagePath:  filepath.Base(t.Path),
		Position:   [3]float64{t.Position.X, t.Position.Y, t.Position.Z},
		Size:       [2]float64{t.Size.Width, t.Size.Height},
		Name:       t.Name,
		ObjectType: t.Kind.String(),
	}
}

// SaveState writes the current placement of all tracked tiles.
func (l *Library) SaveState() error {
	var state stateData
	for _, t := range l.tiles {
		rec := recordFromTile(t)
		if t.Kind == scene.KindFolder {
			state.Folders = append(state.Folders, rec)
		} else {
			state.Images = append(state.Images, rec)
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := os.WriteFile(l.statePath, data, 0o644); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// scan lists the folder's current images and subfolders by name.
func (l *Library) scan() (images, folders []string, err error) {
	entries, err := os.ReadDir(l.path)
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", l.path, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if name != StateDirName {
				folders = append(folders, name)
			}
			continue
		}
		if IsSupportedImage(name) {
			images = append(images, name)
		}
	}
	return images, folders, nil
}

// Sync rescans the folder and reconciles the scene: newly discovered items
// are laid out in a grid beside the existing bounding box and enqueued as
// adds, items that disappeared from disk are enqueued as removes. onNew, if
// non-nil, is called for each freshly created tile (thumbnail scheduling).
// Mutations become visible only after the scene's next Flush.
func (l *Library) Sync(sc *scene.Scene, onNew func(*scene.Tile)) error {
	images, folders, err := l.scan()
	if err != nil {
		return err
	}

	onDisk := make(map[string]bool, len(images)+len(folders))
	var newImages, newFolders []string
	for _, name := range images {
		onDisk[name] = true
		if _, ok := l.tiles[name]; !ok {
			newImages = append(newImages, name)
		}
	}
	for _, name := range folders {
		onDisk[name] = true
		if _, ok := l.tiles[name]; !ok {
			newFolders = append(newFolders, name)
		}
	}

	// Drop tiles whose files are gone.
	for name, t := range l.tiles {
		if !onDisk[name] {
			sc.EnqueueRemove(t)
			delete(l.tiles, name)
		}
	}

	placements := layout.PlaceNewItems(l.existingBounds(), newImages, newFolders, layout.DefaultTileSize)
	for _, p := range placements {
		t := scene.NewTile(p.Name, filepath.Join(l.path, p.Name), p.Kind, p.Position, layout.DefaultTileSize)
		l.tiles[p.Name] = t
		if onNew != nil {
			onNew(t)
		}
	}

	// Enqueue every tracked tile; adds of already-present tiles are no-ops.
	for _, t := range l.tiles {
		sc.EnqueueAdd(t)
	}
	return l.SaveState()
}

// existingBounds returns the union of all tracked tile footprints.
func (l *Library) existingBounds() geometry.Rect {
	first := true
	var bounds geometry.Rect
	for _, t := range l.tiles {
		if first {
			bounds = t.Footprint()
			first = false
			continue
		}
		bounds = bounds.Union(t.Footprint())
	}
	return bounds
}

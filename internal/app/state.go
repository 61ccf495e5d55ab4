// Package app provides application state, folder navigation, and events.
package app

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"picpyles/internal/library"
	"picpyles/internal/scene"
	"picpyles/internal/thumbs"
	"picpyles/internal/tour"
	"picpyles/pkg/geometry"
)

// EnlargedSize is the footprint of the transient large-view tile.
var EnlargedSize = geometry.NewSize(10.0, 10.0*9.0/16.0)

// EventType identifies different application events.
type EventType int

const (
	EventFolderOpened EventType = iota
	EventTilesChanged
	EventSelectionChanged
	EventTourChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the scene store, the library of the
// currently open folder, thumbnail generation, and the tour overlay.
type State struct {
	mu sync.RWMutex

	Scene *scene.Scene

	lib        *library.Library
	thumbCache *thumbs.Cache
	executor   thumbs.Executor

	sequence *tour.Sequence

	listeners map[EventType][]EventListener
}

// NewState creates application state with the given background executor for
// thumbnail work.
func NewState(executor thumbs.Executor) *State {
	return &State{
		Scene:     scene.New(),
		executor:  executor,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// FolderPath returns the currently open folder, or "".
func (s *State) FolderPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lib == nil {
		return ""
	}
	return s.lib.Path()
}

// OpenFolder saves the current folder's placement, clears the scene, and
// loads the given folder: tracked tiles reappear where they were left,
// new files get grid positions, and thumbnail jobs are scheduled.
func (s *State) OpenFolder(path string) error {
	if err := s.SavePlacement(); err != nil {
		log.Printf("Saving previous folder state failed: %v", err)
	}

	lib, err := library.Open(path)
	if err != nil {
		return err
	}

	s.Scene.RemoveAll()

	cache := thumbs.NewCache(filepath.Join(path, library.StateDirName))
	s.mu.Lock()
	s.lib = lib
	s.thumbCache = cache
	s.sequence = nil
	s.mu.Unlock()

	if err := s.rescan(); err != nil {
		return err
	}
	s.Emit(EventFolderOpened, path)
	return nil
}

// OpenSubfolder navigates into a folder tile of the current folder.
func (s *State) OpenSubfolder(t *scene.Tile) error {
	if t.Kind != scene.KindFolder {
		return fmt.Errorf("tile %q is not a folder", t.Name)
	}
	return s.OpenFolder(t.Path)
}

// Rescan re-reads the current folder, picking up added or deleted files.
func (s *State) Rescan() error {
	if err := s.rescan(); err != nil {
		return err
	}
	s.Emit(EventTilesChanged, nil)
	return nil
}

func (s *State) rescan() error {
	s.mu.RLock()
	lib := s.lib
	s.mu.RUnlock()
	if lib == nil {
		return nil
	}
	return lib.Sync(s.Scene, s.scheduleThumbnail)
}

// scheduleThumbnail queues thumbnail generation for an image tile and adapts
// the tile's footprint to the image aspect once the thumbnail exists.
func (s *State) scheduleThumbnail(t *scene.Tile) {
	if t.Kind != scene.KindImage {
		return
	}
	s.mu.RLock()
	cache := s.thumbCache
	s.mu.RUnlock()
	if cache == nil || s.executor == nil {
		return
	}

	s.executor.Submit(func() {
		thumbPath, err := cache.Ensure(t.Path)
		if err != nil {
			log.Printf("Thumbnail for %s failed: %v", t.Name, err)
			return
		}
		if img, err := thumbs.Decode(thumbPath); err == nil {
			b := img.Bounds()
			size := thumbs.AspectSize(t.Size, b.Dx(), b.Dy())
			s.Scene.SetSize(t, size)
		}
		s.Emit(EventTilesChanged, t)
	})
}

// ThumbnailPath returns where the tile's thumbnail lives, or "" when no
// folder is open.
func (s *State) ThumbnailPath(t *scene.Tile) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.thumbCache == nil {
		return ""
	}
	return s.thumbCache.PathFor(t.Path)
}

// SavePlacement persists tile positions of the current folder.
func (s *State) SavePlacement() error {
	s.mu.RLock()
	lib := s.lib
	s.mu.RUnlock()
	if lib == nil {
		return nil
	}
	return lib.SaveState()
}

// Enlarge creates the transient large view of an image tile at the given
// plane position, slightly above everything on the ground, and enqueues it.
// The returned tile is closed with CloseEnlarged.
func (s *State) Enlarge(t *scene.Tile, at r3.Vec) *scene.Tile {
	big := scene.NewTile(t.Name, t.Path, scene.KindImage, at, EnlargedSize)
	big.Enlarged = true
	s.Scene.EnqueueAdd(big)
	return big
}

// CloseEnlarged removes a large-view tile from the scene.
func (s *State) CloseEnlarged(t *scene.Tile) {
	s.Scene.EnqueueRemove(t)
}

// ToggleTour shows the suggested viewing-order path, rebuilding it from the
// current tile positions, or hides it if currently shown.
func (s *State) ToggleTour() {
	s.mu.Lock()
	if s.sequence != nil && s.sequence.Visible {
		s.sequence.Visible = false
		s.mu.Unlock()
		s.Emit(EventTourChanged, nil)
		return
	}
	s.mu.Unlock()

	// Build outside the state lock; Positions copies under the scene lock.
	seq := tour.NewSequence(s.Scene.Positions())

	s.mu.Lock()
	s.sequence = seq
	s.mu.Unlock()
	s.Emit(EventTourChanged, seq)
}

// RefreshTour rebuilds the path after tiles moved, if it is visible.
func (s *State) RefreshTour() {
	s.mu.RLock()
	visible := s.sequence != nil && s.sequence.Visible
	s.mu.RUnlock()
	if !visible {
		return
	}

	seq := tour.NewSequence(s.Scene.Positions())
	s.mu.Lock()
	s.sequence = seq
	s.mu.Unlock()
	s.Emit(EventTourChanged, seq)
}

// Sequence returns the current tour overlay, which may be nil or hidden.
func (s *State) Sequence() *tour.Sequence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sequence
}

package canvas

import (
	"sync"

	"image"

	"picpyles/internal/thumbs"
)

// textureCache holds decoded tile images keyed by file path. Misses start a
// background decode; the frame drawing a placeholder is refreshed once the
// decode lands.
type textureCache struct {
	mu      sync.Mutex
	images  map[string]image.Image
	loading map[string]bool
	failed  map[string]bool
}

func newTextureCache() *textureCache {
	return &textureCache{
		images:  make(map[string]image.Image),
		loading: make(map[string]bool),
		failed:  make(map[string]bool),
	}
}

// get returns the cached image, or nil while it is still loading. onReady is
// called once after a background decode finishes.
func (tc *textureCache) get(path string, onReady func()) image.Image {
	tc.mu.Lock()
	if img, ok := tc.images[path]; ok {
		tc.mu.Unlock()
		return img
	}
	if tc.loading[path] || tc.failed[path] {
		tc.mu.Unlock()
		return nil
	}
	tc.loading[path] = true
	tc.mu.Unlock()

	go func() {
		img, err := thumbs.Decode(path)

		tc.mu.Lock()
		delete(tc.loading, path)
		if err != nil {
			tc.failed[path] = true
		} else {
			tc.images[path] = img
		}
		tc.mu.Unlock()

		if err == nil && onReady != nil {
			onReady()
		}
	}()
	return nil
}

// clear drops every cached texture, as when another folder is opened.
func (tc *textureCache) clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.images = make(map[string]image.Image)
	tc.loading = make(map[string]bool)
	tc.failed = make(map[string]bool)
}

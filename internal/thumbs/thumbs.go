// Package thumbs provides disk-cached thumbnail generation for image tiles.
package thumbs

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"picpyles/pkg/geometry"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxDimension is the bounding box thumbnails are scaled into.
const MaxDimension = 512

// thumbDirName lives inside the folder's .ppyles state directory.
const thumbDirName = "thumbnails"

// Cache generates and stores thumbnails for one folder's images under
// <folder>/.ppyles/thumbnails/.
type Cache struct {
	dir string
}

// NewCache creates a thumbnail cache for the given folder's state directory.
func NewCache(stateDir string) *Cache {
	return &Cache{dir: filepath.Join(stateDir, thumbDirName)}
}

// PathFor returns where the thumbnail for the given image lives, whether or
// not it exists yet.
func (c *Cache) PathFor(imagePath string) string {
	return filepath.Join(c.dir, filepath.Base(imagePath))
}

// Ensure returns the thumbnail path for the image, generating it if missing.
func (c *Cache) Ensure(imagePath string) (string, error) {
	thumbPath := c.PathFor(imagePath)
	if _, err := os.Stat(thumbPath); err == nil {
		return thumbPath, nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("thumbnail dir: %w", err)
	}

	img, err := Decode(imagePath)
	if err != nil {
		return "", err
	}
	small := scaleToFit(img, MaxDimension)

	out, err := os.Create(thumbPath)
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, small, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return thumbPath, nil
}

// Decode loads an image in any supported format.
func Decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// scaleToFit downscales the image to fit within maxDim on both axes,
// preserving aspect ratio. Images already small enough are converted but not
// resized.
func scaleToFit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// AspectSize scales a base footprint so the tile matches the image's aspect
// ratio while keeping the smaller footprint dimension fixed, the way the
// viewer sizes tiles once a thumbnail is known.
func AspectSize(base geometry.Size, imgW, imgH int) geometry.Size {
	if imgW <= 0 || imgH <= 0 {
		return base
	}
	minBase := base.Width
	if base.Height < minBase {
		minBase = base.Height
	}
	minImg := imgW
	if imgH < minImg {
		minImg = imgH
	}
	scale := minBase / float64(minImg)
	return geometry.NewSize(float64(imgW)*scale, float64(imgH)*scale)
}

package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// FrameCache provides thread-safe caching of decoded images so repeated
// tool calls against the same file avoid redundant disk reads.
//
// Decoded images are keyed by the exact path string passed to Load;
// different spellings of the same path get separate entries. Cached
// images stay in memory until Evict or Clear is called, so long-running
// processes should clean up after batch work.
type FrameCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewFrameCache creates an empty cache, ready for concurrent use.
func NewFrameCache() *FrameCache {
	return &FrameCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache, decoding it from disk on a
// miss. PNG, JPEG, GIF, TIFF, and BMP files are supported; JPEG frames
// are auto-rotated according to their EXIF orientation so the border-ring
// analysis sees the frame the way a viewer would.
func (c *FrameCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all cached images, freeing the associated memory.
func (c *FrameCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes one cached image by the exact path it was loaded with.
// Unknown paths are ignored.
func (c *FrameCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// FrameInfo contains metadata about a loaded image file.
type FrameInfo struct {
	// Width is the image width in pixels (after EXIF orientation).
	Width int `json:"width"`

	// Height is the image height in pixels (after EXIF orientation).
	Height int `json:"height"`

	// Format is the file format guessed from the extension: "png",
	// "jpeg", "gif", or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadFrameInfo loads an image through the cache and returns its
// dimensions, extension-derived format, and file size.
func LoadFrameInfo(cache *FrameCache, path string) (*FrameInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	bounds := img.Bounds()
	return &FrameInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}

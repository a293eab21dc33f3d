package paint

import (
	"fmt"
	"image"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// TextureStore caches rasterized tiles by content hash: a tile whose
// source paint commands haven't changed is never re-rasterized (§4.8
// "A texture store caches textures by tile id").
type TextureStore struct {
	mu       sync.RWMutex
	textures map[uint64]*image.RGBA
}

// NewTextureStore builds an empty store.
func NewTextureStore() *TextureStore {
	return &TextureStore{textures: make(map[uint64]*image.RGBA)}
}

// Get returns the cached texture for hash, if any.
func (s *TextureStore) Get(hash uint64) (*image.RGBA, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tex, ok := s.textures[hash]
	return tex, ok
}

// Put records tex under hash.
func (s *TextureStore) Put(hash uint64, tex *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textures[hash] = tex
}

// ContentHash derives a cache key from a tile's id and the geometry/paint
// of its commands, so the same tile with identical commands across two
// layout passes hits the same cache entry; a different tile id or shifted
// absolute coordinates yield a different key.
func ContentHash(tile Tile, cmds []Command) uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%d,%d|", tile.ID.Col, tile.ID.Row)
	for _, c := range cmds {
		fmt.Fprintf(h, "%d;%d;%.2f,%.2f,%.2f,%.2f;%v;%v;%d\n",
			c.Kind, c.ElementID, c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H, c.Background, c.Borders, c.Debug)
		for _, r := range c.TextRuns {
			fmt.Fprintf(h, "run:%q@%.2f,%.2f+%.2f\n", r.Text, r.X, r.Y, r.Advance)
		}
	}
	return h.Sum64()
}

// RasterizeCached rasterizes tile through r only if its content hash is
// not already present in store, otherwise returns the cached texture.
func RasterizeCached(r *Rasterizer, store *TextureStore, tile Tile, cmds []Command) *image.RGBA {
	hash := ContentHash(tile, cmds)
	if tex, ok := store.Get(hash); ok {
		tracer().Debugf("tile %v cache hit", tile.ID)
		return tex
	}
	tex := r.RasterizeTile(tile, cmds)
	store.Put(hash, tex)
	return tex
}

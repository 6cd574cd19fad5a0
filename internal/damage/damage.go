// Package damage tracks invalidated screen areas as a tile bitmap.
//
// Drivers report every rectangle they modify; presenters take the damaged
// tiles and copy only those to the output. Marking and taking are lock-free
// so a presenter goroutine may drain the tracker while the driver draws.
package damage

import (
	"image"
	"math/bits"
	"sync/atomic"
)

// DefaultTileSize is the tile edge in pixels used when none is given.
const DefaultTileSize = 32

// Tracker records damaged tiles over a width x height pixel area. Bit index
// of tile (tx, ty) is ty*tilesX + tx, packed 64 per word.
type Tracker struct {
	words  []atomic.Uint64
	tile   int
	width  int
	height int
	tilesX int
	tilesY int
}

// New returns a clean tracker. It returns nil for non-positive sizes.
func New(width, height, tile int) *Tracker {
	if width <= 0 || height <= 0 {
		return nil
	}
	if tile <= 0 {
		tile = DefaultTileSize
	}
	tx := (width + tile - 1) / tile
	ty := (height + tile - 1) / tile
	return &Tracker{
		words:  make([]atomic.Uint64, (tx*ty+63)/64),
		tile:   tile,
		width:  width,
		height: height,
		tilesX: tx,
		tilesY: ty,
	}
}

// Bounds returns the tracked pixel area.
func (t *Tracker) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.width, t.height)
}

// TileSize returns the tile edge in pixels.
func (t *Tracker) TileSize() int { return t.tile }

func (t *Tracker) mark(tx, ty int) {
	idx := ty*t.tilesX + tx
	t.words[idx/64].Or(1 << (idx & 63))
}

// Invalidate marks every tile touched by r. Parts outside the tracked area
// are ignored.
func (t *Tracker) Invalidate(r image.Rectangle) {
	r = r.Intersect(t.Bounds())
	if r.Empty() {
		return
	}
	tx1, ty1 := r.Min.X/t.tile, r.Min.Y/t.tile
	tx2, ty2 := (r.Max.X-1)/t.tile, (r.Max.Y-1)/t.tile
	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			t.mark(tx, ty)
		}
	}
}

// InvalidateAll marks every tile.
func (t *Tracker) InvalidateAll() {
	total := t.tilesX * t.tilesY
	full := total / 64
	for i := 0; i < full; i++ {
		t.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		t.words[full].Store(uint64(1)<<rem - 1)
	}
}

// IsDamaged reports whether the tile holding pixel (x, y) is marked.
func (t *Tracker) IsDamaged(x, y int) bool {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return false
	}
	idx := (y/t.tile)*t.tilesX + x/t.tile
	return t.words[idx/64].Load()&(1<<(idx&63)) != 0
}

// Empty reports whether no tile is marked.
func (t *Tracker) Empty() bool {
	for i := range t.words {
		if t.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of marked tiles.
func (t *Tracker) Count() int {
	n := 0
	for i := range t.words {
		n += bits.OnesCount64(t.words[i].Load())
	}
	return n
}

// Take clears the tracker and returns the damaged area as rectangles,
// merging horizontally adjacent tiles of a tile row into one rectangle.
// Rectangles are clipped to the tracked area and ordered top to bottom.
func (t *Tracker) Take() []image.Rectangle {
	total := t.tilesX * t.tilesY
	marked := make([]bool, total)
	found := false
	for w := range t.words {
		word := t.words[w].Swap(0)
		for word != 0 {
			b := bits.TrailingZeros64(word)
			if idx := w*64 + b; idx < total {
				marked[idx] = true
				found = true
			}
			word &^= 1 << b
		}
	}
	if !found {
		return nil
	}

	var out []image.Rectangle
	for ty := 0; ty < t.tilesY; ty++ {
		for tx := 0; tx < t.tilesX; tx++ {
			if !marked[ty*t.tilesX+tx] {
				continue
			}
			start := tx
			for tx+1 < t.tilesX && marked[ty*t.tilesX+tx+1] {
				tx++
			}
			r := image.Rect(start*t.tile, ty*t.tile, (tx+1)*t.tile, (ty+1)*t.tile)
			out = append(out, r.Intersect(t.Bounds()))
		}
	}
	return out
}

// Resize returns a tracker for a new area with every tile marked. The
// receiver is left untouched; callers swap the pointer.
func (t *Tracker) Resize(width, height int) *Tracker {
	n := New(width, height, t.tile)
	if n != nil {
		n.InvalidateAll()
	}
	return n
}

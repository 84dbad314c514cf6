// Package dirty tracks which tiles of a board's composite grid changed since
// the renderer last consumed them.
//
// Marks happen on the render goroutine while a renderer may drain tiles from
// another goroutine, so the bitmap is a slice of atomic words: one bit per
// tile, 64 tiles per word.
//
// Alongside the bitmap every tile records the epoch of its last mark.
// Consumers that share one Tiles (a board and its aliases) each keep their
// own cursor and read damage with Since, which never clears anything.
package dirty

import (
	"image"
	"math/bits"
	"sync/atomic"
)

// DefaultTileSize is the edge length, in pixels, of a tracked tile.
const DefaultTileSize = 32

// Tiles is a lock-free dirty bitmap over a width x height pixel grid.
type Tiles struct {
	words  []atomic.Uint64
	gens   []atomic.Uint64
	epoch  atomic.Uint64
	size   int
	tilesX int
	tilesY int
	width  int
	height int
}

// New creates a tracker for a width x height grid divided into square tiles
// of the given size. All tiles start dirty so the first upload is complete.
// Returns nil for non-positive arguments.
func New(width, height, size int) *Tiles {
	if width <= 0 || height <= 0 || size <= 0 {
		return nil
	}
	tilesX := (width + size - 1) / size
	tilesY := (height + size - 1) / size
	t := &Tiles{
		words:  make([]atomic.Uint64, (tilesX*tilesY+63)/64),
		gens:   make([]atomic.Uint64, tilesX*tilesY),
		size:   size,
		tilesX: tilesX,
		tilesY: tilesY,
		width:  width,
		height: height,
	}
	t.epoch.Store(1)
	t.MarkAll()
	return t
}

func (t *Tiles) markTile(tx, ty int) {
	idx := ty*t.tilesX + tx
	t.words[idx>>6].Or(1 << (idx & 63))
	t.gens[idx].Store(t.epoch.Load())
}

// Mark flags the tile containing pixel (x, y). Out-of-range pixels are ignored.
func (t *Tiles) Mark(x, y int) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return
	}
	t.markTile(x/t.size, y/t.size)
}

// MarkRect flags every tile intersecting r.
func (t *Tiles) MarkRect(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, t.width, t.height))
	if r.Empty() {
		return
	}
	for ty := r.Min.Y / t.size; ty <= (r.Max.Y-1)/t.size; ty++ {
		for tx := r.Min.X / t.size; tx <= (r.Max.X-1)/t.size; tx++ {
			t.markTile(tx, ty)
		}
	}
}

// MarkAll flags every tile.
func (t *Tiles) MarkAll() {
	total := t.tilesX * t.tilesY
	full := total / 64
	for i := 0; i < full; i++ {
		t.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		t.words[full].Store(uint64(1)<<rem - 1)
	}
	e := t.epoch.Load()
	for i := range t.gens {
		t.gens[i].Store(e)
	}
}

// Clear drops every flag of the Drain bitmap. Cursors read by Since are
// unaffected.
func (t *Tiles) Clear() {
	for i := range t.words {
		t.words[i].Store(0)
	}
}

// IsEmpty reports whether no tile is flagged.
func (t *Tiles) IsEmpty() bool {
	for i := range t.words {
		if t.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of flagged tiles.
func (t *Tiles) Count() int {
	n := 0
	for i := range t.words {
		n += bits.OnesCount64(t.words[i].Load())
	}
	return n
}

// TileBounds returns the pixel rectangle of tile (tx, ty), clipped to the grid.
func (t *Tiles) TileBounds(tx, ty int) image.Rectangle {
	r := image.Rect(tx*t.size, ty*t.size, (tx+1)*t.size, (ty+1)*t.size)
	return r.Intersect(image.Rect(0, 0, t.width, t.height))
}

// Drain atomically clears the bitmap and returns the pixel rectangles of
// the tiles that were flagged, in row-major order.
func (t *Tiles) Drain() []image.Rectangle {
	var out []image.Rectangle
	total := t.tilesX * t.tilesY
	for wi := range t.words {
		word := t.words[wi].Swap(0)
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			idx := wi*64 + bit
			if idx >= total {
				break
			}
			out = append(out, t.TileBounds(idx%t.tilesX, idx/t.tilesX))
			word &^= 1 << bit
		}
	}
	return out
}

// Since returns the tiles marked at or after cursor, in row-major order,
// together with the cursor to pass next time. Cursor 0 returns every tile
// marked since New.
//
// Since leaves the Drain bitmap and other consumers' cursors alone. It must
// run on the goroutine that marks, so no mark falls between the scan and
// the epoch advance.
func (t *Tiles) Since(cursor uint64) ([]image.Rectangle, uint64) {
	var out []image.Rectangle
	for idx := range t.gens {
		if t.gens[idx].Load() >= cursor {
			out = append(out, t.TileBounds(idx%t.tilesX, idx/t.tilesX))
		}
	}
	return out, t.epoch.Add(1)
}

// TileSize returns the tile edge length in pixels.
func (t *Tiles) TileSize() int { return t.size }

// Len returns the number of tiles.
func (t *Tiles) Len() int { return t.tilesX * t.tilesY }

package artboard

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/artboard/store"
)

// Default palette geometry.
const (
	DefaultPaletteWidth  = 256
	DefaultPaletteHeight = 256
)

// reservedCells is the number of cells at the start of every palette that
// hold the checker background: (0, 0) darker and (1, 0) lighter.
const reservedCells = 2

// overflowResetCol is the column the cursor restarts at after the palette's
// last row fills up.
const overflowResetCol = 3

// Checker background channel values.
const (
	checkerDarker  = 77
	checkerLighter = 115
)

// Lookups of the reserved checker cells.
var (
	DarkerChecker  = store.Lookup{Col: 0, Row: 0}
	LighterChecker = store.Lookup{Col: 1, Row: 0}
)

// Palette is an append-only grid of colors addressed by (column, row).
//
// Colors are written at a cursor that advances column-first and wraps to the
// next row at Width. PutOrGetColor deduplicates with a linear scan over the
// written cells; there is no hash index, so lookups stay consistent with the
// texel buffer the renderer uploads.
//
// A Palette is not safe for concurrent mutation. Mutate it on the render
// loop only; Version and Overflows may be read from any goroutine.
type Palette struct {
	texels   []uint8
	channels int
	width    int
	height   int
	col, row int

	version    atomic.Uint64
	overflows  atomic.Int64
	onOverflow func(*Palette)
}

// NewPalette creates a palette with the given channel count (1 to 4) and
// geometry. Width must be in [4, 256] and height in [1, 256].
// The checker colors are written to the reserved cells and shown.
func NewPalette(channels, width, height int) (*Palette, error) {
	if channels < 1 || channels > 4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChannels, channels)
	}
	if width < overflowResetCol+1 || width > 256 || height < 1 || height > 256 {
		return nil, fmt.Errorf("%w: palette %dx%d", ErrInvalidSize, width, height)
	}
	p := &Palette{
		texels:   make([]uint8, width*height*channels),
		channels: channels,
		width:    width,
		height:   height,
		col:      reservedCells,
	}
	p.writeChecker(255)
	return p, nil
}

// MustNewPalette is like NewPalette but panics on error.
func MustNewPalette(channels, width, height int) *Palette {
	p, err := NewPalette(channels, width, height)
	if err != nil {
		panic(err)
	}
	return p
}

// OnOverflow installs fn, called on every cursor reset after the reset
// happened. Pass nil to remove it.
func (p *Palette) OnOverflow(fn func(*Palette)) {
	p.onOverflow = fn
}

func (p *Palette) offset(col, row int) int {
	return (row*p.width + col) * p.channels
}

func (p *Palette) write(col, row int, c Color) {
	copy(p.texels[p.offset(col, row):], c[:p.channels])
	p.version.Add(1)
}

func (p *Palette) color(col, row int) Color {
	var c Color
	copy(c[:], p.texels[p.offset(col, row):p.offset(col, row)+p.channels])
	return c
}

// writeChecker rewrites both reserved cells. alpha only applies to palettes
// whose last channel is alpha (2 and 4 channels).
func (p *Palette) writeChecker(alpha uint8) {
	dark := Color{checkerDarker, checkerDarker, checkerDarker, checkerDarker}
	light := Color{checkerLighter, checkerLighter, checkerLighter, checkerLighter}
	if p.channels == 2 || p.channels == 4 {
		dark[p.channels-1] = alpha
		light[p.channels-1] = alpha
	}
	p.write(int(DarkerChecker.Col), int(DarkerChecker.Row), dark)
	p.write(int(LighterChecker.Col), int(LighterChecker.Row), light)
}

// ShowChecker makes the checker colors opaque. No-op without an alpha channel.
func (p *Palette) ShowChecker() {
	if p.channels == 1 || p.channels == 3 {
		return
	}
	p.writeChecker(255)
}

// HideChecker makes the checker colors fully transparent. No-op without an
// alpha channel.
func (p *Palette) HideChecker() {
	if p.channels == 1 || p.channels == 3 {
		return
	}
	p.writeChecker(0)
}

// PutOrGetColor returns the coordinates of c, appending it at the cursor if
// no written cell holds an equal color. The reserved checker cells never
// match.
//
// When the cursor runs past the last row it is reset to column 3 of row 0.
// The call that triggered the reset still stores c and returns its lookup,
// together with ErrPaletteOverflow. Later calls overwrite old colors and
// duplicates among them are no longer detected.
func (p *Palette) PutOrGetColor(c Color) (store.Lookup, error) {
	end := p.Len()
	for i := reservedCells; i < end; i++ {
		col, row := i%p.width, i/p.width
		if p.color(col, row).equal(c, p.channels) {
			return store.Lookup{Col: uint8(col), Row: uint8(row)}, nil
		}
	}

	l := store.Lookup{Col: uint8(p.col), Row: uint8(p.row)}
	p.write(p.col, p.row, c)
	p.col++
	if p.col == p.width {
		p.col = 0
		p.row++
	}
	if p.row < p.height {
		return l, nil
	}

	p.col, p.row = overflowResetCol, 0
	n := p.overflows.Add(1)
	Logger().Warn("artboard: palette overflow, cursor reset",
		"width", p.width, "height", p.height, "overflows", n)
	if p.onOverflow != nil {
		p.onOverflow(p)
	}
	return l, ErrPaletteOverflow
}

// Get returns the color at (col, row).
func (p *Palette) Get(col, row int) (Color, error) {
	if col < 0 || row < 0 || col >= p.width || row >= p.height {
		return Color{}, fmt.Errorf("%w: palette cell (%d, %d)", ErrOutOfBounds, col, row)
	}
	return p.color(col, row), nil
}

// Lookup returns the color a lookup points to. Lookups produced by this
// palette are always in range.
func (p *Palette) Lookup(l store.Lookup) Color {
	return p.color(int(l.Col), int(l.Row))
}

// Put overwrites the color at (col, row). The cursor does not move, so
// existing lookups to the cell now resolve to c.
func (p *Palette) Put(col, row int, c Color) error {
	if col < 0 || row < 0 || col >= p.width || row >= p.height {
		return fmt.Errorf("%w: palette cell (%d, %d)", ErrOutOfBounds, col, row)
	}
	p.write(col, row, c)
	return nil
}

// Pop rewinds the cursor by n cells and clears them. The cursor never moves
// below the reserved checker cells. It returns the number of cells removed.
func (p *Palette) Pop(n int) int {
	removed := 0
	for removed < n && p.Len() > reservedCells {
		if p.col == 0 {
			p.col = p.width
			p.row--
		}
		p.col--
		p.write(p.col, p.row, Color{})
		removed++
	}
	return removed
}

// Texels returns the raw texel buffer, Width*Height*Channels bytes, row
// major. The slice aliases palette memory and must be treated as read-only.
func (p *Palette) Texels() []uint8 { return p.texels }

// Channels returns the number of channels per color.
func (p *Palette) Channels() int { return p.channels }

// Width returns the number of columns.
func (p *Palette) Width() int { return p.width }

// Height returns the number of rows.
func (p *Palette) Height() int { return p.height }

// Cursor returns the coordinates the next new color is written to.
func (p *Palette) Cursor() (col, row int) { return p.col, p.row }

// Len returns the number of cells before the cursor, reserved cells included.
func (p *Palette) Len() int { return p.row*p.width + p.col }

// Version is incremented on every texel change.
func (p *Palette) Version() uint64 { return p.version.Load() }

// Overflows returns how many times the cursor was reset.
func (p *Palette) Overflows() int64 { return p.overflows.Load() }

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/artboard"
	"github.com/gogpu/artboard/internal/parallel"
	"github.com/gogpu/artboard/store"
)

// Sentinel errors for the render package.
var (
	// ErrNilTarget is returned when Render is given no target.
	ErrNilTarget = errors.New("render: nil target")

	// ErrNoPixels is returned for targets without CPU pixel access.
	ErrNoPixels = errors.New("render: target has no pixel access")

	// ErrSizeMismatch is returned when target and board sizes differ.
	ErrSizeMismatch = errors.New("render: target size does not match board")
)

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander)

// WithWorkers expands tiles on n goroutines. n <= 1 keeps expansion on the
// calling goroutine.
func WithWorkers(n int) ExpanderOption {
	return func(e *Expander) {
		if n > 1 {
			e.pool = parallel.NewPool(n)
		}
	}
}

// Stats counts the work an Expander has done.
type Stats struct {
	Frames     uint64
	FullFrames uint64
	Tiles      uint64
}

// Expander resolves composite lookups through the active palette into a
// Target, re-expanding only dirty tiles between frames.
//
// Each Expander follows the board's dirty tiles with its own cursor, so a
// board and its aliases, which share one set of dirty tiles, can each be
// rendered by their own Expander.
//
// Thread safety: an Expander is not safe for concurrent use, and Render
// must run where the board is mutated.
type Expander struct {
	pool *parallel.Pool

	board   *artboard.Board
	target  Target
	palette *artboard.Palette

	// Copy of the palette texels and cursor position from the last frame.
	snapshot []uint8
	snapLen  int
	version  uint64

	// Dirty tile cursor into board's tiles.
	cursor uint64

	damage []image.Rectangle
	stats  Stats
}

// NewExpander creates an Expander.
func NewExpander(opts ...ExpanderOption) *Expander {
	e := &Expander{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close stops the worker goroutines, if any.
func (e *Expander) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

// Render brings target up to date with b.
func (e *Expander) Render(target Target, b *artboard.Board) error {
	if target == nil {
		return ErrNilTarget
	}
	comp := b.Composite()
	if comp == nil {
		return fmt.Errorf("%w: board %q", artboard.ErrClosed, b.Name())
	}
	if target.Width() != b.Width() || target.Height() != b.Height() {
		return fmt.Errorf("%w: target %dx%d, board %dx%d",
			ErrSizeMismatch, target.Width(), target.Height(), b.Width(), b.Height())
	}
	pix := target.Pixels()
	if pix == nil {
		return ErrNoPixels
	}

	pal := b.ActivePalette()
	full := b != e.board || target != e.target || pal != e.palette || e.rewritten(pal)

	tiles := b.DirtyTiles()
	rects, cursor := tiles.Since(e.cursor)
	e.cursor = cursor
	if full {
		rects = bands(b.Bounds(), tiles.TileSize())
	}

	e.expand(newFrame(target, comp, b.Width(), pal), rects)

	e.board, e.target, e.palette = b, target, pal
	e.remember(pal)
	e.damage = rects
	e.stats.Frames++
	e.stats.Tiles += uint64(len(rects))
	if full {
		e.stats.FullFrames++
	}
	artboard.Logger().Debug("render: expanded", "board", b.Name(), "full", full, "rects", len(rects))
	return nil
}

// Damage returns the rectangles rewritten by the last Render.
func (e *Expander) Damage() []image.Rectangle { return e.damage }

// Stats returns the work counters.
func (e *Expander) Stats() Stats { return e.stats }

// Invalidate forces the next Render to redo the whole target.
func (e *Expander) Invalidate() { e.board = nil }

// rewritten reports whether a palette cell that existed at the last frame
// changed since. Cells appended after it can only be referenced by pixels
// painted since, and those are dirty already.
func (e *Expander) rewritten(p *artboard.Palette) bool {
	if p.Version() == e.version {
		return false
	}
	if p.Len() < e.snapLen {
		return true
	}
	n := e.snapLen * p.Channels()
	return !bytes.Equal(p.Texels()[:n], e.snapshot[:n])
}

func (e *Expander) remember(p *artboard.Palette) {
	e.snapshot = append(e.snapshot[:0], p.Texels()...)
	e.snapLen = p.Len()
	e.version = p.Version()
}

func (e *Expander) expand(f frame, rects []image.Rectangle) {
	if e.pool == nil || len(rects) < 2 {
		for _, r := range rects {
			f.rect(r)
		}
		return
	}
	jobs := make([]func(), len(rects))
	for i, r := range rects {
		jobs[i] = func() { f.rect(r) }
	}
	e.pool.Run(jobs)
}

// bands splits r into horizontal strips of the given height.
func bands(r image.Rectangle, h int) []image.Rectangle {
	out := make([]image.Rectangle, 0, (r.Dy()+h-1)/h)
	for y := r.Min.Y; y < r.Max.Y; y += h {
		out = append(out, image.Rect(r.Min.X, y, r.Max.X, min(y+h, r.Max.Y)))
	}
	return out
}

func newFrame(t Target, comp []store.Lookup, width int, pal *artboard.Palette) frame {
	return frame{
		pix:      t.Pixels(),
		stride:   t.Stride(),
		comp:     comp,
		width:    width,
		texels:   pal.Texels(),
		pwidth:   pal.Width(),
		channels: pal.Channels(),
	}
}

type frame struct {
	pix      []byte
	stride   int
	comp     []store.Lookup
	width    int
	texels   []uint8
	pwidth   int
	channels int
}

func (f frame) rect(r image.Rectangle) {
	ch := f.channels
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := f.comp[y*f.width : (y+1)*f.width]
		dst := f.pix[y*f.stride:]
		for x := r.Min.X; x < r.Max.X; x++ {
			l := row[x]
			off := (int(l.Row)*f.pwidth + int(l.Col)) * ch
			texel(dst[x*4:x*4+4], f.texels[off:off+ch], ch)
		}
	}
}

// Expand renders b into a new image in one pass. Unlike Render it leaves
// the board's dirty tiles untouched.
func Expand(b *artboard.Board) (*image.RGBA, error) {
	comp := b.Composite()
	if comp == nil {
		return nil, fmt.Errorf("%w: board %q", artboard.ErrClosed, b.Name())
	}
	t := NewPixmapTarget(b.Width(), b.Height())
	newFrame(t, comp, b.Width(), b.ActivePalette()).rect(b.Bounds())
	return t.Image(), nil
}

var _ Renderer = (*Expander)(nil)

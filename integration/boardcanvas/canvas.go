// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package boardcanvas

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/artboard"
	"github.com/gogpu/artboard/render"
	"github.com/gogpu/gpucontext"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("boardcanvas: canvas is closed")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("boardcanvas: nil DeviceProvider")

	// ErrNilBoard is returned when a nil board is passed.
	ErrNilBoard = errors.New("boardcanvas: nil board")

	// ErrInvalidRenderer is returned when the drawer has no texture creator.
	ErrInvalidRenderer = errors.New("boardcanvas: drawer has no TextureCreator")
)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// Option configures a Canvas.
type Option func(*config)

type config struct {
	workers int
}

// WithWorkers expands dirty tiles on n goroutines.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// UploadStats counts texture uploads.
type UploadStats struct {
	Creates uint64
	Full    uint64
	Regions uint64
}

// Canvas keeps a GPU texture in sync with a board.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	board    *artboard.Board
	provider gpucontext.DeviceProvider
	expander *render.Expander
	target   *render.PixmapTarget

	texture gpucontext.Texture
	full    bool // last Flush redrew the whole board
	scratch []byte
	stats   UploadStats
	closed  bool
}

// New creates a Canvas for b. The provider should come from
// gogpu.App.GPUContextProvider(). The canvas does not own the board.
func New(provider gpucontext.DeviceProvider, b *artboard.Board, opts ...Option) (*Canvas, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if b == nil {
		return nil, ErrNilBoard
	}
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Canvas{
		board:    b,
		provider: provider,
		expander: render.NewExpander(render.WithWorkers(cfg.workers)),
		target:   render.NewPixmapTarget(b.Width(), b.Height()),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(provider gpucontext.DeviceProvider, b *artboard.Board, opts ...Option) *Canvas {
	c, err := New(provider, b, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Board returns the displayed board.
func (c *Canvas) Board() *artboard.Board { return c.board }

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (width, height int) {
	return c.target.Width(), c.target.Height()
}

// Provider returns the DeviceProvider, or nil once closed.
func (c *Canvas) Provider() gpucontext.DeviceProvider {
	if c.closed {
		return nil
	}
	return c.provider
}

// Texture returns the current GPU texture, nil before the first RenderTo.
func (c *Canvas) Texture() gpucontext.Texture { return c.texture }

// Image returns the CPU copy of the board as of the last Flush.
func (c *Canvas) Image() *image.RGBA { return c.target.Image() }

// Stats returns upload counters.
func (c *Canvas) Stats() UploadStats { return c.stats }

// Flush expands the board changes into the CPU image and returns the
// rectangles that changed.
func (c *Canvas) Flush() ([]image.Rectangle, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}
	before := c.expander.Stats().FullFrames
	if err := c.expander.Render(c.target, c.board); err != nil {
		return nil, fmt.Errorf("boardcanvas: %w", err)
	}
	c.full = c.expander.Stats().FullFrames != before
	return c.expander.Damage(), nil
}

// upload pushes damage to the existing texture.
func (c *Canvas) upload(damage []image.Rectangle) error {
	if len(damage) == 0 {
		return nil
	}
	if ru, ok := c.texture.(gpucontext.TextureRegionUpdater); ok && !c.full {
		for _, r := range damage {
			if err := ru.UpdateRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), c.pack(r)); err != nil {
				return fmt.Errorf("boardcanvas: region update failed: %w", err)
			}
			c.stats.Regions++
		}
		return nil
	}
	if u, ok := c.texture.(gpucontext.TextureUpdater); ok {
		if err := u.UpdateData(c.target.Pixels()); err != nil {
			return fmt.Errorf("boardcanvas: texture update failed: %w", err)
		}
		c.stats.Full++
	}
	return nil
}

// pack copies the rows of r into a dense buffer.
func (c *Canvas) pack(r image.Rectangle) []byte {
	img := c.target.Image()
	row := r.Dx() * 4
	n := row * r.Dy()
	if cap(c.scratch) < n {
		c.scratch = make([]byte, n)
	}
	buf := c.scratch[:n]
	for y := range r.Dy() {
		src := img.PixOffset(r.Min.X, r.Min.Y+y)
		copy(buf[y*row:(y+1)*row], img.Pix[src:src+row])
	}
	return buf
}

// Close releases the texture and the expander workers. The board stays
// open. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if d, ok := c.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	c.texture = nil
	c.expander.Close()
	c.provider = nil
	return nil
}

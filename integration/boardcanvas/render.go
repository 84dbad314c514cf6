// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package boardcanvas

import (
	"fmt"

	"github.com/gogpu/artboard"
	"github.com/gogpu/gpucontext"
)

// RenderOptions controls where the board is drawn.
type RenderOptions struct {
	// X, Y offset the board position.
	X, Y float32

	// IgnorePosition draws at (X, Y) instead of the board position plus
	// (X, Y).
	IgnorePosition bool
}

// RenderTo flushes the board and draws it at its position.
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToEx(dc, RenderOptions{})
}

// RenderToPosition draws the board at (x, y), ignoring its position.
func (c *Canvas) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	return c.RenderToEx(dc, RenderOptions{X: x, Y: y, IgnorePosition: true})
}

// RenderToEx flushes the board and draws it with opts.
func (c *Canvas) RenderToEx(dc gpucontext.TextureDrawer, opts RenderOptions) error {
	if c.closed {
		return ErrCanvasClosed
	}
	damage, err := c.Flush()
	if err != nil {
		return err
	}

	if c.texture == nil {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}
		w, h := c.Size()
		tex, err := creator.NewTextureFromRGBA(w, h, c.target.Pixels())
		if err != nil {
			return fmt.Errorf("boardcanvas: NewTextureFromRGBA failed: %w", err)
		}
		// Expanded pixels are premultiplied.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		c.texture = tex
		c.stats.Creates++
		artboard.Logger().Debug("boardcanvas: texture created", "board", c.board.Name(), "width", w, "height", h)
	} else if err := c.upload(damage); err != nil {
		return err
	}

	x, y := opts.X, opts.Y
	if !opts.IgnorePosition {
		p := c.board.Position()
		x += float32(p.X)
		y += float32(p.Y)
	}
	return dc.DrawTexture(c.texture, x, y)
}

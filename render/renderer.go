// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "github.com/gogpu/artboard"

// Renderer draws a board into a target.
//
// Implementations read the composite grid and the active palette, so
// Render runs on the goroutine that mutates the board.
//
// Example:
//
//	var r render.Renderer = render.NewExpander()
//	target := render.NewPixmapTarget(b.Width(), b.Height())
//	if err := r.Render(target, b); err != nil {
//	    log.Printf("render failed: %v", err)
//	}
type Renderer interface {
	// Render brings target up to date with b. It returns an error when
	// the target cannot hold the board or the board is closed.
	Render(target Target, b *artboard.Board) error
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/artboard"
)

// Compose expands boards into one image covering their union at their
// positions. Later boards are drawn over earlier ones. The image origin is
// the top-left corner of the union, so a board at the minimum position
// lands at (0, 0).
func Compose(boards ...*artboard.Board) (*image.RGBA, error) {
	var union image.Rectangle
	for _, b := range boards {
		if b.Composite() == nil {
			return nil, fmt.Errorf("%w: board %q", artboard.ErrClosed, b.Name())
		}
		union = union.Union(b.Bounds().Add(b.Position()))
	}
	out := image.NewRGBA(image.Rect(0, 0, union.Dx(), union.Dy()))
	for _, b := range boards {
		img, err := Expand(b)
		if err != nil {
			return nil, err
		}
		at := b.Position().Sub(union.Min)
		draw.Draw(out, img.Bounds().Add(at), img, image.Point{}, draw.Over)
	}
	return out, nil
}

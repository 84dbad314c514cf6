// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"

	"github.com/gogpu/gputypes"
)

// Target is a CPU-addressable destination for expanded pixels.
//
// Pixels holds Height rows of Stride bytes in RGBA order with
// alpha-premultiplied values, the layout of image.RGBA. Implementations
// must be pointer types: an Expander compares targets to detect that it
// was handed a new one.
type Target interface {
	Width() int
	Height() int

	// Format returns the pixel format of Pixels.
	Format() gputypes.TextureFormat

	Pixels() []byte
	Stride() int
}

// PixmapTarget is a Target backed by an *image.RGBA.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a width x height target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// NewPixmapTargetFromImage wraps img without copying it.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int { return t.img.Bounds().Dx() }

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int { return t.img.Bounds().Dy() }

// Format returns TextureFormatRGBA8Unorm.
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns the pixel buffer of the underlying image.
func (t *PixmapTarget) Pixels() []byte { return t.img.Pix }

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int { return t.img.Stride }

// Image returns the underlying image. It shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA { return t.img }

// Resize replaces the image with a blank width x height one.
func (t *PixmapTarget) Resize(width, height int) {
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ Target = (*PixmapTarget)(nil)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// PreviewOption configures Preview.
type PreviewOption func(*previewOptions)

type previewOptions struct {
	scale  float64
	interp xdraw.Interpolator
}

// WithScale sets the zoom factor. Values <= 0 are ignored.
func WithScale(s float64) PreviewOption {
	return func(o *previewOptions) {
		if s > 0 {
			o.scale = s
		}
	}
}

// WithInterpolator replaces the default nearest-neighbor sampling, which
// keeps pixel art edges hard.
func WithInterpolator(i xdraw.Interpolator) PreviewOption {
	return func(o *previewOptions) {
		if i != nil {
			o.interp = i
		}
	}
}

// Preview returns a scaled copy of src, at least 1x1 pixels. The default
// scale is 1.
func Preview(src image.Image, opts ...PreviewOption) *image.RGBA {
	o := previewOptions{scale: 1, interp: xdraw.NearestNeighbor}
	for _, opt := range opts {
		opt(&o)
	}
	sb := src.Bounds()
	w := max(int(float64(sb.Dx())*o.scale+0.5), 1)
	h := max(int(float64(sb.Dy())*o.scale+0.5), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	o.interp.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst
}

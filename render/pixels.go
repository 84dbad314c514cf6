// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image/color"

	"github.com/gogpu/artboard"
)

// Display returns how a palette color with the given channel count is
// shown: 1 channel is opaque gray, 2 is gray with alpha, 3 is opaque RGB
// and 4 is RGBA.
func Display(c artboard.Color, channels int) color.NRGBA {
	switch channels {
	case 1:
		return color.NRGBA{R: c[0], G: c[0], B: c[0], A: 0xff}
	case 2:
		return color.NRGBA{R: c[0], G: c[0], B: c[0], A: c[1]}
	case 3:
		return color.NRGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
	default:
		return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
	}
}

// premul matches color.RGBAModel rounding.
func premul(v, a uint8) uint8 {
	x := uint32(v) * 0x101 * (uint32(a) * 0x101) / 0xffff
	return uint8(x >> 8) //nolint:gosec // x <= 0xffff
}

// texel writes the premultiplied display color of a raw palette texel.
func texel(dst, src []uint8, channels int) {
	var r, g, b, a uint8
	switch channels {
	case 1:
		r, g, b, a = src[0], src[0], src[0], 0xff
	case 2:
		r, g, b, a = src[0], src[0], src[0], src[1]
	case 3:
		r, g, b, a = src[0], src[1], src[2], 0xff
	default:
		r, g, b, a = src[0], src[1], src[2], src[3]
	}
	if a != 0xff {
		r, g, b = premul(r, a), premul(g, a), premul(b, a)
	}
	dst[0], dst[1], dst[2], dst[3] = r, g, b, a
}

// PaletteBytes returns the texel data for the texture described by
// PaletteDescriptor. Colors are straight, not premultiplied.
func PaletteBytes(p *artboard.Palette) []byte {
	src := p.Texels()
	ch := p.Channels()
	if ch == 1 {
		return append([]byte(nil), src...)
	}
	n := p.Width() * p.Height()
	out := make([]byte, n*4)
	var c artboard.Color
	for i := range n {
		copy(c[:], src[i*ch:i*ch+ch])
		d := Display(c, ch)
		out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = d.R, d.G, d.B, d.A
	}
	return out
}

// CompositeBytes fills dst with the texel data for the texture described
// by CompositeDescriptor and returns it. dst is reallocated when too small.
// It returns nil for a closed board.
func CompositeBytes(dst []byte, b *artboard.Board) []byte {
	comp := b.Composite()
	if comp == nil {
		return nil
	}
	n := len(comp) * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, l := range comp {
		dst[i*4], dst[i*4+1], dst[i*4+2], dst[i*4+3] = l.Col, l.Row, 0, 0xff
	}
	return dst
}

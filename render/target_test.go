// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNewPixmapTarget(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"square", 64, 64},
		{"wide", 300, 20},
		{"tall", 20, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := NewPixmapTarget(tt.width, tt.height)
			if target.Width() != tt.width || target.Height() != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", target.Width(), target.Height(), tt.width, tt.height)
			}
			if target.Format() != gputypes.TextureFormatRGBA8Unorm {
				t.Errorf("Format() = %v, want RGBA8Unorm", target.Format())
			}
			if target.Stride() != tt.width*4 {
				t.Errorf("Stride() = %d, want %d", target.Stride(), tt.width*4)
			}
			if len(target.Pixels()) != tt.width*tt.height*4 {
				t.Errorf("len(Pixels()) = %d", len(target.Pixels()))
			}
		})
	}
}

func TestPixmapTarget_SharesImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	target := NewPixmapTargetFromImage(img)
	target.Pixels()[0] = 0xab
	if img.Pix[0] != 0xab || target.Image() != img {
		t.Error("target does not share the image memory")
	}

	target.Resize(2, 2)
	if target.Width() != 2 || target.Image() == img {
		t.Error("Resize did not replace the image")
	}
}

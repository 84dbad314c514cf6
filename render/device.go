// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/artboard"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// It is an alias for gpucontext.DeviceProvider: the host (a gogpu.App or
// any other framework) owns the device and lends it to the renderer.
type DeviceHandle = gpucontext.DeviceProvider

// TextureDescriptor describes a texture to create on the host device.
// It mirrors the WebGPU GPUTextureDescriptor.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	Width  uint32
	Height uint32

	// Depth is the array layer count; 1 for 2D textures.
	Depth uint32

	MipLevelCount uint32
	SampleCount   uint32

	Format gputypes.TextureFormat
	Usage  TextureUsage
}

// TextureUsage specifies how a texture can be used. Flags combine with OR.
type TextureUsage uint32

const (
	// TextureUsageCopySrc allows the texture to be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << iota

	// TextureUsageCopyDst allows the texture to be written by uploads.
	TextureUsageCopyDst

	// TextureUsageTextureBinding allows the texture to be sampled.
	TextureUsageTextureBinding

	// TextureUsageStorageBinding allows the texture to be bound as storage.
	TextureUsageStorageBinding

	// TextureUsageRenderAttachment allows the texture to be rendered into.
	TextureUsageRenderAttachment
)

// DefaultTextureDescriptor returns a single-sample, single-mip 2D texture
// descriptor that can be sampled and uploaded to.
func DefaultTextureDescriptor(width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Width:         width,
		Height:        height,
		Depth:         1,
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        format,
		Usage:         TextureUsageTextureBinding | TextureUsageCopyDst,
	}
}

// PaletteFormat returns the texture format a palette with the given
// channel count is uploaded as. Single channel palettes stay R8; every
// other palette is widened to RGBA8 by PaletteBytes.
func PaletteFormat(channels int) gputypes.TextureFormat {
	if channels == 1 {
		return gputypes.TextureFormatR8Unorm
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// PaletteDescriptor describes the texture holding p.
func PaletteDescriptor(p *artboard.Palette) TextureDescriptor {
	desc := DefaultTextureDescriptor(uint32(p.Width()), uint32(p.Height()), PaletteFormat(p.Channels())) //nolint:gosec // palette dimensions are at most 256
	desc.Label = "artboard palette"
	return desc
}

// CompositeDescriptor describes the lookup texture of b. Each texel stores
// the palette column in R and the row in G.
func CompositeDescriptor(b *artboard.Board) TextureDescriptor {
	desc := DefaultTextureDescriptor(uint32(b.Width()), uint32(b.Height()), gputypes.TextureFormatRGBA8Unorm) //nolint:gosec // board dimensions are positive
	desc.Label = "artboard composite " + b.Name()
	return desc
}

// NullDeviceHandle is a DeviceHandle without a device, for CPU-only use.
type NullDeviceHandle struct{}

// Device returns nil.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo reports an unknown adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns TextureFormatUndefined.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ DeviceHandle = NullDeviceHandle{}

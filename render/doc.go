// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render turns the indexed composite of an artboard.Board into
// pixels and GPU upload data.
//
// A board never stores colors per pixel: its composite grid holds palette
// coordinates, and the palette holds the colors. This package resolves the
// two either on the CPU (Expander, into any Target with pixel access) or by
// preparing the textures a GPU shader samples (CompositeDescriptor,
// PaletteDescriptor, CompositeBytes, PaletteBytes).
//
// # Incremental refresh
//
// Expander remembers the board, target and palette it last rendered. On the
// next Render it only re-expands the tiles the board marked dirty, unless
// the active palette was swapped or one of its already used cells was
// rewritten (checker toggling, Palette.Put, Palette.Pop), in which case the
// whole grid is redone. Each Expander tracks dirty tiles with its own
// cursor, so a source board and its aliases can have one Expander each.
//
//	e := render.NewExpander(render.WithWorkers(4))
//	defer e.Close()
//	target := render.NewPixmapTarget(b.Width(), b.Height())
//	if err := e.Render(target, b); err != nil {
//	    return err
//	}
//	render.SaveImage("board.png", target.Image())
//
// Compose expands a source board and its aliases into one image, each at
// its position.
//
// # GPU integration
//
// The host application owns the GPU device. DeviceHandle is the
// gpucontext.DeviceProvider it hands over; nothing here creates a device.
//
// # Thread Safety
//
// Render reads the composite and the palette, so it must run on the
// goroutine that mutates the board (see package renderloop), and so must
// Expand and Compose. Preview, Encode and SaveImage only touch the images
// they are given.
package render

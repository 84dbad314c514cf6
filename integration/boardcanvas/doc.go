// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package boardcanvas shows an artboard.Board in a gogpu window.
//
// The data flow is:
//
//	Board composite (lookups) -> render.Expander (RGBA, dirty tiles) -> GPU texture -> Window
//
// # Usage
//
//	canvas, err := boardcanvas.New(app.GPUContextProvider(), board)
//	if err != nil {
//	    return err
//	}
//	defer canvas.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
//
// The texture is created lazily on the first RenderTo. Later frames upload
// only the tiles the board changed when the texture implements
// gpucontext.TextureRegionUpdater, and the whole image otherwise.
//
// # Thread Safety
//
// A Canvas reads the board, so RenderTo must run on the goroutine that
// mutates it, typically as a task on a renderloop.Loop.
//
// # Integration Without Circular Imports
//
// Only gpucontext interfaces are used: DeviceProvider for the device,
// TextureDrawer and TextureCreator for drawing and texture creation.
package boardcanvas

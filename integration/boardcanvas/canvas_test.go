// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package boardcanvas

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/artboard"
	"github.com/gogpu/artboard/render"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct{}

func (mockProvider) Device() gpucontext.Device   { return struct{}{} }
func (mockProvider) Queue() gpucontext.Queue     { return struct{}{} }
func (mockProvider) Adapter() gpucontext.Adapter { return nil }
func (mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "mock", Type: gpucontext.AdapterTypeSoftware}
}
func (mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

// mockTexture implements gpucontext.Texture and TextureUpdater.
type mockTexture struct {
	width, height int
	data          []byte
	updated       int
	destroyed     bool
	premultiplied bool
}

func (m *mockTexture) Width() int  { return m.width }
func (m *mockTexture) Height() int { return m.height }
func (m *mockTexture) Destroy()    { m.destroyed = true }

func (m *mockTexture) SetPremultiplied(p bool) { m.premultiplied = p }

func (m *mockTexture) UpdateData(data []byte) error {
	m.data = append(m.data[:0], data...)
	m.updated++
	return nil
}

// mockRegionTexture also accepts sub-rectangle uploads.
type mockRegionTexture struct {
	mockTexture
	regions []image.Rectangle
}

func (m *mockRegionTexture) UpdateRegion(x, y, w, h int, data []byte) error {
	if len(data) != w*h*4 {
		return errors.New("bad region size")
	}
	for row := range h {
		off := ((y+row)*m.width + x) * 4
		copy(m.data[off:off+w*4], data[row*w*4:(row+1)*w*4])
	}
	m.regions = append(m.regions, image.Rect(x, y, x+w, y+h))
	return nil
}

// mockCreator implements gpucontext.TextureCreator.
type mockCreator struct {
	regions  bool
	failNext bool
	created  []gpucontext.Texture
}

func (m *mockCreator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock texture creation failed")
	}
	base := mockTexture{width: width, height: height, data: append([]byte(nil), data...)}
	var tex gpucontext.Texture
	if m.regions {
		tex = &mockRegionTexture{mockTexture: base}
	} else {
		tex = &base
	}
	m.created = append(m.created, tex)
	return tex, nil
}

// mockDrawer implements gpucontext.TextureDrawer.
type mockDrawer struct {
	creator   gpucontext.TextureCreator
	drawn     gpucontext.Texture
	x, y      float32
	drawCount int
}

func (m *mockDrawer) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	m.drawn, m.x, m.y = tex, x, y
	m.drawCount++
	return nil
}

func (m *mockDrawer) TextureCreator() gpucontext.TextureCreator { return m.creator }

func newBoard(t *testing.T) *artboard.Board {
	t.Helper()
	b := artboard.MustNewBoard(64, 48)
	t.Cleanup(b.Close)
	if _, err := b.AddVisualLayer("Ink"); err != nil {
		t.Fatal(err)
	}
	return b
}

func expanded(t *testing.T, b *artboard.Board) []byte {
	t.Helper()
	img, err := render.Expand(b)
	if err != nil {
		t.Fatal(err)
	}
	return img.Pix
}

func TestNew(t *testing.T) {
	b := newBoard(t)
	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		board    *artboard.Board
		wantErr  error
	}{
		{"valid", mockProvider{}, b, nil},
		{"nil provider", nil, b, ErrNilProvider},
		{"nil board", mockProvider{}, nil, ErrNilBoard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.provider, tt.board)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer c.Close()
			if w, h := c.Size(); w != 64 || h != 48 {
				t.Errorf("Size() = %dx%d, want 64x48", w, h)
			}
			if c.Board() != b || c.Provider() == nil || c.Texture() != nil {
				t.Error("fresh canvas state wrong")
			}
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew(nil, ...) did not panic")
		}
	}()
	MustNew(nil, nil)
}

func TestRenderTo_CreatesTextureAtBoardPosition(t *testing.T) {
	b := newBoard(t)
	b.MoveTo(10, 20)
	_ = b.Paint(image.Rect(0, 0, 8, 8), artboard.Red)

	c := MustNew(mockProvider{}, b)
	defer c.Close()
	dc := &mockDrawer{creator: &mockCreator{}}

	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	tex, ok := c.Texture().(*mockTexture)
	if !ok || dc.drawn != c.Texture() {
		t.Fatal("texture not created or not drawn")
	}
	if !tex.premultiplied {
		t.Error("texture not marked premultiplied")
	}
	if !bytes.Equal(tex.data, expanded(t, b)) {
		t.Error("texture data differs from the expanded board")
	}
	if dc.x != 10 || dc.y != 20 {
		t.Errorf("drawn at (%v, %v), want (10, 20)", dc.x, dc.y)
	}

	if err := c.RenderToPosition(dc, 3, 4); err != nil {
		t.Fatal(err)
	}
	if dc.x != 3 || dc.y != 4 {
		t.Errorf("RenderToPosition drew at (%v, %v)", dc.x, dc.y)
	}
	if err := c.RenderToEx(dc, RenderOptions{X: 1, Y: 1}); err != nil {
		t.Fatal(err)
	}
	if dc.x != 11 || dc.y != 21 {
		t.Errorf("offset draw at (%v, %v), want (11, 21)", dc.x, dc.y)
	}
	if s := c.Stats(); s.Creates != 1 || s.Full != 0 || s.Regions != 0 {
		t.Errorf("Stats() = %+v, idle frames uploaded", s)
	}
}

func TestRenderTo_FullUpdateWithoutRegionSupport(t *testing.T) {
	b := newBoard(t)
	c := MustNew(mockProvider{}, b)
	defer c.Close()
	dc := &mockDrawer{creator: &mockCreator{}}

	_ = c.RenderTo(dc)
	_ = b.Paint(image.Rect(40, 40, 42, 42), artboard.Blue)
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	tex := c.Texture().(*mockTexture)
	if tex.updated != 1 {
		t.Errorf("UpdateData called %d times, want 1", tex.updated)
	}
	if !bytes.Equal(tex.data, expanded(t, b)) {
		t.Error("texture out of date")
	}
}

func TestRenderTo_RegionUpdates(t *testing.T) {
	b := newBoard(t)
	c := MustNew(mockProvider{}, b, WithWorkers(2))
	defer c.Close()
	dc := &mockDrawer{creator: &mockCreator{regions: true}}

	_ = c.RenderTo(dc)
	_ = b.Paint(image.Rect(40, 40, 42, 42), artboard.Blue)
	_ = b.Paint(image.Rect(1, 1, 2, 2), artboard.Green)
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}

	tex := c.Texture().(*mockRegionTexture)
	want := []image.Rectangle{image.Rect(0, 0, 32, 32), image.Rect(32, 32, 64, 48)}
	if len(tex.regions) != 2 || tex.regions[0] != want[0] || tex.regions[1] != want[1] {
		t.Errorf("regions = %v, want %v", tex.regions, want)
	}
	if tex.updated != 0 {
		t.Error("full upload used despite region support")
	}
	if !bytes.Equal(tex.data, expanded(t, b)) {
		t.Error("texture out of date after region updates")
	}

	// A palette rewrite redraws everything: one full upload.
	b.Palette().HideChecker()
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	if tex.updated != 1 {
		t.Errorf("full frame used %d UpdateData calls, want 1", tex.updated)
	}
	if !bytes.Equal(tex.data, expanded(t, b)) {
		t.Error("texture out of date after full frame")
	}
}

func TestRenderTo_SourceAndAliasCanvases(t *testing.T) {
	src := newBoard(t)
	alias, err := artboard.NewCopier().Alias(src, "alias")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(alias.Close)
	alias.MoveTo(80, 0)

	srcCanvas := MustNew(mockProvider{}, src)
	defer srcCanvas.Close()
	aliasCanvas := MustNew(mockProvider{}, alias)
	defer aliasCanvas.Close()
	dc := &mockDrawer{creator: &mockCreator{regions: true}}

	for _, c := range []*Canvas{srcCanvas, aliasCanvas} {
		if err := c.RenderTo(dc); err != nil {
			t.Fatal(err)
		}
	}
	_ = src.Paint(image.Rect(0, 0, 1, 1), artboard.Red)
	for _, c := range []*Canvas{srcCanvas, aliasCanvas} {
		if err := c.RenderTo(dc); err != nil {
			t.Fatal(err)
		}
	}

	want := expanded(t, src)
	for name, c := range map[string]*Canvas{"source": srcCanvas, "alias": aliasCanvas} {
		tex := c.Texture().(*mockRegionTexture)
		if len(tex.regions) != 1 || tex.regions[0] != image.Rect(0, 0, 32, 32) {
			t.Errorf("%s regions = %v", name, tex.regions)
		}
		if !bytes.Equal(tex.data, want) {
			t.Errorf("%s texture out of date", name)
		}
	}
}

func TestRenderTo_Errors(t *testing.T) {
	b := newBoard(t)
	c := MustNew(mockProvider{}, b)
	defer c.Close()

	if err := c.RenderTo(&mockDrawer{}); !errors.Is(err, ErrInvalidRenderer) {
		t.Errorf("nil creator error = %v, want ErrInvalidRenderer", err)
	}

	creator := &mockCreator{failNext: true}
	if err := c.RenderTo(&mockDrawer{creator: creator}); err == nil {
		t.Error("creation failure not reported")
	}
	if err := c.RenderTo(&mockDrawer{creator: creator}); err != nil {
		t.Errorf("retry after failure: %v", err)
	}

	b.Close()
	if err := c.RenderTo(&mockDrawer{creator: creator}); !errors.Is(err, artboard.ErrClosed) {
		t.Errorf("closed board error = %v, want artboard.ErrClosed", err)
	}
}

func TestClose(t *testing.T) {
	b := newBoard(t)
	c := MustNew(mockProvider{}, b)
	dc := &mockDrawer{creator: &mockCreator{}}
	_ = c.RenderTo(dc)
	tex := c.Texture().(*mockTexture)

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if !tex.destroyed {
		t.Error("texture not destroyed")
	}
	if c.Provider() != nil {
		t.Error("Provider() after Close should be nil")
	}
	if err := c.RenderTo(dc); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("RenderTo after Close = %v", err)
	}
	if _, err := c.Flush(); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("Flush after Close = %v", err)
	}
	if err := b.Paint(image.Rect(0, 0, 1, 1), artboard.Red); err != nil {
		t.Errorf("board unusable after canvas Close: %v", err)
	}
}

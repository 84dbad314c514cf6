package artboard

import "github.com/gogpu/artboard/store"

// BoardOption configures a Board during creation.
//
// Example:
//
//	// Default 4 channel palette, dense stores, 8px checker
//	b, err := artboard.NewBoard(64, 64)
//
//	// Grayscale board with sparse layers and a strict error policy
//	b, err := artboard.NewBoard(64, 64,
//	    artboard.WithChannels(1),
//	    artboard.WithStoreKind(store.KindList),
//	    artboard.WithStrict(true),
//	)
type BoardOption func(*boardOptions)

type boardOptions struct {
	name          string
	kind          store.Kind
	channels      int
	paletteWidth  int
	paletteHeight int
	palette       *Palette
	checkerSize   int
	strict        bool
	onOverflow    func(*Palette)
}

func defaultBoardOptions() boardOptions {
	return boardOptions{
		name:          "board",
		kind:          store.KindDense,
		channels:      4,
		paletteWidth:  DefaultPaletteWidth,
		paletteHeight: DefaultPaletteHeight,
		checkerSize:   DefaultCheckerSize,
	}
}

// WithName sets the board name used in log records.
func WithName(name string) BoardOption {
	return func(o *boardOptions) {
		o.name = name
	}
}

// WithStoreKind selects the storage backend of every layer created on the
// board. The default is store.KindDense.
func WithStoreKind(k store.Kind) BoardOption {
	return func(o *boardOptions) {
		o.kind = k
	}
}

// WithChannels sets the channel count of the board palette. Ignored when
// WithPalette is given.
func WithChannels(n int) BoardOption {
	return func(o *boardOptions) {
		o.channels = n
	}
}

// WithPaletteSize sets the palette geometry of the board palette and of
// every non-visual layer palette. Ignored for the board palette when
// WithPalette is given.
func WithPaletteSize(width, height int) BoardOption {
	return func(o *boardOptions) {
		o.paletteWidth = width
		o.paletteHeight = height
	}
}

// WithPalette makes the board use an existing palette, shared with whoever
// else holds it.
func WithPalette(p *Palette) BoardOption {
	return func(o *boardOptions) {
		o.palette = p
	}
}

// WithCheckerSize sets the checker block edge length in pixels.
func WithCheckerSize(n int) BoardOption {
	return func(o *boardOptions) {
		o.checkerSize = n
	}
}

// WithStrict makes the board return palette overflow errors from Paint.
// In the default production mode the overflow is logged and Paint succeeds.
func WithStrict(strict bool) BoardOption {
	return func(o *boardOptions) {
		o.strict = strict
	}
}

// WithOverflowFunc installs a callback run whenever a palette owned by the
// board resets its cursor.
func WithOverflowFunc(fn func(*Palette)) BoardOption {
	return func(o *boardOptions) {
		o.onOverflow = fn
	}
}

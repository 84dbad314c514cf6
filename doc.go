// Package artboard provides indexed-color compositing for pixel art editors.
//
// # Overview
//
// A Board holds a dense composite grid of palette lookups and a stack of
// sparse layers. Every write (paint, erase, hide, show, reorder) updates
// only the composite positions it can affect, so the grid always equals
// what a full recomputation from layer contents would produce, without
// ever recomputing it.
//
// Colors are never stored directly. A Palette deduplicates them and hands
// out (column, row) lookups; layers and the composite store lookups, and
// the renderer expands them through the palette texture.
//
// # Quick Start
//
//	b := artboard.MustNewBoard(64, 64)
//	top, _ := b.AddVisualLayer("Top")
//	bottom, _ := b.AddVisualLayer("Bottom")
//
//	b.SetActiveLayer(bottom)
//	b.Paint(image.Rect(0, 0, 8, 8), artboard.Blue)
//
//	b.SetActiveLayer(top)
//	b.Paint(image.Rect(4, 4, 12, 12), artboard.Red)
//
//	b.Hide(top) // (4..7, 4..7) shows blue again
//
// # Ranks
//
// Visual layers are ordered by rank; rank 0 is drawn on top. A position
// shows the lookup of the highest ranked visible layer painting it, or the
// checker background when none does. Non-visual layers carry data of 1 to 4
// bytes per position in their own palette; while one is active the
// composite shows it alone.
//
// # Aliases
//
// A Copier creates alias boards sharing a source's layers and composite.
// Aliases may be placed elsewhere and painted through, but only the source
// accepts structural edits.
//
// # Threading
//
// Boards, layers and palettes are not synchronized. Run every mutation on a
// single goroutine, typically through renderloop.Loop. Layers created with
// store.KindDense or store.KindSynced may be read from other goroutines.
package artboard

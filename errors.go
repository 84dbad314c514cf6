package artboard

import (
	"errors"
	"fmt"

	"github.com/gogpu/artboard/store"
)

// Sentinel errors for the artboard package.
var (
	// ErrOutOfBounds is returned when a position or rectangle lies outside the board.
	ErrOutOfBounds = errors.New("artboard: out of bounds")

	// ErrLayerNotFound is returned when a layer does not belong to the board.
	ErrLayerNotFound = errors.New("artboard: layer not found")

	// ErrInvalidRank is returned by MoveRank for ranks outside [0, len).
	ErrInvalidRank = errors.New("artboard: invalid rank")

	// ErrInvalidName is returned for empty, reserved, malformed or duplicate layer names.
	ErrInvalidName = errors.New("artboard: invalid layer name")

	// ErrInvalidChannels is returned for palettes or non-visual layers
	// with a channel count outside [1, 4].
	ErrInvalidChannels = errors.New("artboard: channel count must be in [1, 4]")

	// ErrInvalidSize is returned for non-positive board, palette or checker sizes.
	ErrInvalidSize = errors.New("artboard: invalid size")

	// ErrLastVisualLayer is returned when removing the only visual layer.
	ErrLastVisualLayer = errors.New("artboard: cannot remove the last visual layer")

	// ErrNotOwner is returned for structural edits issued on an alias board.
	ErrNotOwner = errors.New("artboard: board is an alias, edit its source")

	// ErrNotAlias is returned when an alias operation is given a board the
	// copier does not know.
	ErrNotAlias = errors.New("artboard: board is not registered with the copier")

	// ErrPaletteOverflow is returned when the palette cursor wrapped past its
	// last row and was reset. The color was still stored; duplicates among
	// overwritten cells are no longer detected.
	ErrPaletteOverflow = errors.New("artboard: palette overflow, cursor reset")

	// ErrClosed is returned by operations on a board whose sheet was released.
	ErrClosed = errors.New("artboard: board closed")
)

// ErrNotModified is store.ErrNotModified, re-exported for callers that only
// import artboard.
var ErrNotModified = store.ErrNotModified

// MismatchError is returned by Board.Verify for the first position whose
// composite lookup differs from the one recomputed from layer contents.
type MismatchError struct {
	X, Y int
	Got  store.Lookup
	Want store.Lookup
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("artboard: composite at (%d, %d) is %v, want %v", e.X, e.Y, e.Got, e.Want)
}

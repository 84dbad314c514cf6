// Package store holds the sparse per-position layer storage used by artboard
// layers.
//
// A Store maps board positions inside a fixed width x height domain to a
// palette Lookup. A position is present if and only if the owning layer
// modifies it. Three backends implement the same contract:
//
//   - Dense: one atomic cell per position, safe for concurrent readers and
//     writers, O(1) everything
//   - List: a sorted linked list of edits, proportional to the number of
//     modified positions, not safe for concurrent use
//   - Synced: a dense grid behind a sync.RWMutex
//
// The choice between them is a space/concurrency tradeoff only; they are
// behaviorally identical.
package store

import (
	"errors"
	"fmt"
)

// ErrNotModified is returned by Remove when the position holds no edit.
var ErrNotModified = errors.New("store: position is not modified")

// Lookup is a palette coordinate: the column and row of a color in a palette.
type Lookup struct {
	Col, Row uint8
}

// String returns the lookup as "(col, row)".
func (l Lookup) String() string {
	return fmt.Sprintf("(%d, %d)", l.Col, l.Row)
}

// Edit records that a layer paints Lookup at (X, Y).
type Edit struct {
	X, Y   int
	Lookup Lookup
}

// Cell is one entry of a Region. OK is false where the layer does not
// modify the position.
type Cell struct {
	Lookup Lookup
	OK     bool
}

// Region is a row-major matrix of cells, indexed [row][col].
type Region [][]Cell

// NewRegion allocates an empty w x h region.
func NewRegion(w, h int) Region {
	if w <= 0 || h <= 0 {
		return nil
	}
	backing := make([]Cell, w*h)
	r := make(Region, h)
	for row := range r {
		r[row] = backing[row*w : (row+1)*w : (row+1)*w]
	}
	return r
}

// Width returns the number of columns.
func (r Region) Width() int {
	if len(r) == 0 {
		return 0
	}
	return len(r[0])
}

// Height returns the number of rows.
func (r Region) Height() int {
	return len(r)
}

// Present counts the cells holding an edit.
func (r Region) Present() int {
	n := 0
	for _, row := range r {
		for _, c := range row {
			if c.OK {
				n++
			}
		}
	}
	return n
}

// Store is the shared contract of all layer storage backends.
//
// Coordinates passed to a Store must lie inside its domain; violating this
// is a programming error and panics.
type Store interface {
	// Width and Height describe the domain.
	Width() int
	Height() int

	// Mods returns how many positions are modified. O(1).
	Mods() int

	// Contains reports whether (x, y) holds an edit.
	Contains(x, y int) bool

	// Get returns the lookup stored at (x, y).
	Get(x, y int) (Lookup, bool)

	// Put inserts or overwrites the edit at (e.X, e.Y).
	// Mods grows only when the position was absent.
	Put(e Edit)

	// Remove deletes the edit at (x, y) and returns it.
	// Returns ErrNotModified if the position holds nothing.
	Remove(x, y int) (Edit, error)

	// Region materializes the w x h rectangle whose top-left is (x, y).
	Region(x, y, w, h int) Region

	// ForEach visits every edit until fn returns false. Iteration stops
	// once Mods() edits were visited.
	ForEach(fn func(Edit) bool)

	// CopyInto puts every edit of this store into dst.
	CopyInto(dst Store)
}

// Kind selects a Store backend.
type Kind uint8

const (
	// KindDense selects the atomic dense backend.
	KindDense Kind = iota
	// KindList selects the sorted list backend.
	KindList
	// KindSynced selects the mutex guarded dense backend.
	KindSynced
)

// String returns the backend name.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindList:
		return "list"
	case KindSynced:
		return "synced"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// New creates an empty store of the given kind. It panics if the
// dimensions are not positive or kind is unknown.
func New(kind Kind, width, height int) Store {
	switch kind {
	case KindDense:
		return NewDense(width, height)
	case KindList:
		return NewList(width, height)
	case KindSynced:
		return NewSynced(width, height)
	default:
		panic(fmt.Sprintf("store: unknown kind %d", uint8(kind)))
	}
}

// Clone returns a new store of the given kind holding the same edits as src.
func Clone(kind Kind, src Store) Store {
	dst := New(kind, src.Width(), src.Height())
	src.CopyInto(dst)
	return dst
}

func checkSize(width, height int) {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("store: invalid size %dx%d", width, height))
	}
}

func checkPoint(x, y, width, height int) {
	if x < 0 || y < 0 || x >= width || y >= height {
		panic(fmt.Sprintf("store: (%d, %d) outside %dx%d domain", x, y, width, height))
	}
}

// region is the shared Region implementation on top of Get.
func region(s Store, x, y, w, h int) Region {
	r := NewRegion(w, h)
	if r == nil {
		return nil
	}
	for row := range h {
		for col := range w {
			if l, ok := s.Get(x+col, y+row); ok {
				r[row][col] = Cell{Lookup: l, OK: true}
			}
		}
	}
	return r
}

func copyInto(src, dst Store) {
	src.ForEach(func(e Edit) bool {
		dst.Put(e)
		return true
	})
}

// packed encodes a present lookup in a uint32 cell; zero means absent.
const presentBit = 1 << 16

func pack(l Lookup) uint32 {
	return presentBit | uint32(l.Col)<<8 | uint32(l.Row)
}

func unpack(v uint32) Lookup {
	return Lookup{Col: uint8(v >> 8), Row: uint8(v)}
}

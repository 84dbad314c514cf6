package artboard

import (
	"image"

	"github.com/gogpu/artboard/store"
)

// Layer is a named, lockable, hideable set of sparse edits.
//
// Two kinds exist: *VisualLayer, which competes for visibility by rank, and
// *NonVisualLayer, which is shown alone while it is the active layer.
// The interface is sealed; only this package implements it.
type Layer interface {
	Name() string
	Palette() *Palette

	IsHidden() bool
	IsLocked() bool
	Lock()
	Unlock()
	ToggleLock()

	// IsModifying reports whether the layer is visible and paints (x, y).
	IsModifying(x, y int) bool

	// Get returns the layer's own lookup at (x, y), hidden or not.
	Get(x, y int) (store.Lookup, bool)
	Mods() int

	// Put records e without touching any board composite. It is a no-op
	// while the layer is locked. Use it to rehydrate a layer before
	// calling Board.Rebuild.
	Put(e store.Edit)

	// ForEachModification visits every edit until fn returns false.
	ForEachModification(fn func(store.Edit) bool)

	// Region returns the layer's edits inside r.
	Region(r image.Rectangle) store.Region

	// Show and Hide change visibility, keeping b's composite consistent.
	Show(b *Board) error
	Hide(b *Board) error

	base() *layer
}

type layer struct {
	name    string
	key     string
	data    store.Store
	palette *Palette
	locked  bool
	hidden  bool
}

func newLayer(name string, kind store.Kind, width, height int, p *Palette) layer {
	return layer{
		name:    name,
		key:     nameKey(name),
		data:    store.New(kind, width, height),
		palette: p,
	}
}

func (l *layer) base() *layer { return l }

// Name returns the layer name in NFC form.
func (l *layer) Name() string { return l.name }

// Palette returns the palette the layer's lookups point into.
func (l *layer) Palette() *Palette { return l.palette }

func (l *layer) IsHidden() bool { return l.hidden }
func (l *layer) IsLocked() bool { return l.locked }
func (l *layer) Lock()          { l.locked = true }
func (l *layer) Unlock()        { l.locked = false }
func (l *layer) ToggleLock()    { l.locked = !l.locked }

func (l *layer) IsModifying(x, y int) bool {
	return !l.hidden && l.data.Contains(x, y)
}

func (l *layer) Get(x, y int) (store.Lookup, bool) { return l.data.Get(x, y) }

func (l *layer) Mods() int { return l.data.Mods() }

func (l *layer) Put(e store.Edit) {
	if l.locked {
		return
	}
	l.data.Put(e)
}

func (l *layer) ForEachModification(fn func(store.Edit) bool) {
	l.data.ForEach(fn)
}

func (l *layer) Region(r image.Rectangle) store.Region {
	return l.data.Region(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

// StoreKind returns the kind of the backing store, or false for a store
// created outside this package.
func (l *layer) StoreKind() (store.Kind, bool) {
	switch l.data.(type) {
	case *store.Dense:
		return store.KindDense, true
	case *store.List:
		return store.KindList, true
	case *store.Synced:
		return store.KindSynced, true
	}
	return 0, false
}

// clone copies the layer's flags and edits into a fresh store of kind.
func (l *layer) clone(kind store.Kind, p *Palette) layer {
	return layer{
		name:    l.name,
		key:     l.key,
		data:    store.Clone(kind, l.data),
		palette: p,
		locked:  l.locked,
		hidden:  l.hidden,
	}
}

// VisualLayer is a layer ranked on a board; lower ranks draw on top.
type VisualLayer struct {
	layer
}

// Show makes the layer visible on b. See Board.Show.
func (v *VisualLayer) Show(b *Board) error { return b.Show(v) }

// Hide hides the layer on b. See Board.Hide.
func (v *VisualLayer) Hide(b *Board) error { return b.Hide(v) }

// NonVisualLayer is a layer with its own palette whose channel count is the
// layer's byte size. It never competes for rank: while it is the active
// layer, the composite shows it alone over the checker background.
type NonVisualLayer struct {
	layer
}

// Size returns the number of bytes per value, which is the channel count of
// the layer's palette.
func (n *NonVisualLayer) Size() int { return n.palette.Channels() }

// Show makes the layer visible on b. See Board.Show.
func (n *NonVisualLayer) Show(b *Board) error { return b.Show(n) }

// Hide hides the layer on b. See Board.Hide.
func (n *NonVisualLayer) Hide(b *Board) error { return b.Hide(n) }

var (
	_ Layer = (*VisualLayer)(nil)
	_ Layer = (*NonVisualLayer)(nil)
)

package store

import "sync/atomic"

// Dense is a store with one atomic cell per position.
//
// Every method is safe for concurrent use. Mods is exact once concurrent
// writers have finished; ForEach observes a consistent per-cell snapshot.
type Dense struct {
	cells  []atomic.Uint32
	mods   atomic.Int64
	width  int
	height int
}

// NewDense creates an empty dense store.
func NewDense(width, height int) *Dense {
	checkSize(width, height)
	return &Dense{
		cells:  make([]atomic.Uint32, width*height),
		width:  width,
		height: height,
	}
}

// Width returns the domain width.
func (d *Dense) Width() int { return d.width }

// Height returns the domain height.
func (d *Dense) Height() int { return d.height }

// Mods returns the number of modified positions.
func (d *Dense) Mods() int { return int(d.mods.Load()) }

// Contains reports whether (x, y) is modified.
func (d *Dense) Contains(x, y int) bool {
	checkPoint(x, y, d.width, d.height)
	return d.cells[y*d.width+x].Load() != 0
}

// Get returns the lookup at (x, y).
func (d *Dense) Get(x, y int) (Lookup, bool) {
	checkPoint(x, y, d.width, d.height)
	v := d.cells[y*d.width+x].Load()
	if v == 0 {
		return Lookup{}, false
	}
	return unpack(v), true
}

// Put stores e.
func (d *Dense) Put(e Edit) {
	checkPoint(e.X, e.Y, d.width, d.height)
	if d.cells[e.Y*d.width+e.X].Swap(pack(e.Lookup)) == 0 {
		d.mods.Add(1)
	}
}

// Remove deletes the edit at (x, y).
func (d *Dense) Remove(x, y int) (Edit, error) {
	checkPoint(x, y, d.width, d.height)
	old := d.cells[y*d.width+x].Swap(0)
	if old == 0 {
		return Edit{}, ErrNotModified
	}
	d.mods.Add(-1)
	return Edit{X: x, Y: y, Lookup: unpack(old)}, nil
}

// Region materializes a rectangle of cells.
func (d *Dense) Region(x, y, w, h int) Region {
	return region(d, x, y, w, h)
}

// ForEach visits edits in row-major order.
func (d *Dense) ForEach(fn func(Edit) bool) {
	want := d.Mods()
	if want == 0 {
		return
	}
	found := 0
	for i := range d.cells {
		v := d.cells[i].Load()
		if v == 0 {
			continue
		}
		if !fn(Edit{X: i % d.width, Y: i / d.width, Lookup: unpack(v)}) {
			return
		}
		found++
		if found == want {
			return
		}
	}
}

// CopyInto puts every edit into dst.
func (d *Dense) CopyInto(dst Store) { copyInto(d, dst) }

var _ Store = (*Dense)(nil)

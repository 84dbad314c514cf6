package store

import "sync"

// Synced is a dense store guarded by a sync.RWMutex.
//
// Unlike Dense, Region and ForEach hold the read lock for their whole
// duration, so readers on other goroutines (undo snapshots, exporters) see
// a consistent rectangle.
type Synced struct {
	mu     sync.RWMutex
	cells  []uint32
	mods   int
	width  int
	height int
}

// NewSynced creates an empty synchronized store.
func NewSynced(width, height int) *Synced {
	checkSize(width, height)
	return &Synced{
		cells:  make([]uint32, width*height),
		width:  width,
		height: height,
	}
}

// Width returns the domain width.
func (s *Synced) Width() int { return s.width }

// Height returns the domain height.
func (s *Synced) Height() int { return s.height }

// Mods returns the number of modified positions.
func (s *Synced) Mods() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mods
}

// Contains reports whether (x, y) is modified.
func (s *Synced) Contains(x, y int) bool {
	checkPoint(x, y, s.width, s.height)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cells[y*s.width+x] != 0
}

// Get returns the lookup at (x, y).
func (s *Synced) Get(x, y int) (Lookup, bool) {
	checkPoint(x, y, s.width, s.height)
	s.mu.RLock()
	v := s.cells[y*s.width+x]
	s.mu.RUnlock()
	if v == 0 {
		return Lookup{}, false
	}
	return unpack(v), true
}

// Put stores e.
func (s *Synced) Put(e Edit) {
	checkPoint(e.X, e.Y, s.width, s.height)
	i := e.Y*s.width + e.X
	s.mu.Lock()
	if s.cells[i] == 0 {
		s.mods++
	}
	s.cells[i] = pack(e.Lookup)
	s.mu.Unlock()
}

// Remove deletes the edit at (x, y).
func (s *Synced) Remove(x, y int) (Edit, error) {
	checkPoint(x, y, s.width, s.height)
	i := y*s.width + x
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.cells[i]
	if old == 0 {
		return Edit{}, ErrNotModified
	}
	s.cells[i] = 0
	s.mods--
	return Edit{X: x, Y: y, Lookup: unpack(old)}, nil
}

// Region materializes a rectangle of cells under one read lock.
func (s *Synced) Region(x, y, w, h int) Region {
	r := NewRegion(w, h)
	if r == nil {
		return nil
	}
	checkPoint(x, y, s.width, s.height)
	checkPoint(x+w-1, y+h-1, s.width, s.height)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for row := range h {
		base := (y+row)*s.width + x
		for col := range w {
			if v := s.cells[base+col]; v != 0 {
				r[row][col] = Cell{Lookup: unpack(v), OK: true}
			}
		}
	}
	return r
}

// ForEach visits edits in row-major order under the read lock.
// fn must not write to this store.
func (s *Synced) ForEach(fn func(Edit) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := 0
	for i, v := range s.cells {
		if found == s.mods {
			return
		}
		if v == 0 {
			continue
		}
		if !fn(Edit{X: i % s.width, Y: i / s.width, Lookup: unpack(v)}) {
			return
		}
		found++
	}
}

// CopyInto puts every edit into dst.
func (s *Synced) CopyInto(dst Store) { copyInto(s, dst) }

var _ Store = (*Synced)(nil)

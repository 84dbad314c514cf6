package store

// List keeps edits in a singly linked list sorted by row-major position.
//
// Memory is proportional to the number of modified positions, which suits
// layers that touch very few pixels of a large board. Point operations are
// linear in Mods. List is not safe for concurrent use.
type List struct {
	head   *node
	mods   int
	width  int
	height int
}

type node struct {
	index  int
	lookup Lookup
	next   *node
}

// NewList creates an empty list store.
func NewList(width, height int) *List {
	checkSize(width, height)
	return &List{width: width, height: height}
}

// Width returns the domain width.
func (l *List) Width() int { return l.width }

// Height returns the domain height.
func (l *List) Height() int { return l.height }

// Mods returns the number of modified positions.
func (l *List) Mods() int { return l.mods }

// find returns the node at index, or nil.
func (l *List) find(index int) *node {
	for n := l.head; n != nil && n.index <= index; n = n.next {
		if n.index == index {
			return n
		}
	}
	return nil
}

// Contains reports whether (x, y) is modified.
func (l *List) Contains(x, y int) bool {
	checkPoint(x, y, l.width, l.height)
	return l.find(y*l.width+x) != nil
}

// Get returns the lookup at (x, y).
func (l *List) Get(x, y int) (Lookup, bool) {
	checkPoint(x, y, l.width, l.height)
	if n := l.find(y*l.width + x); n != nil {
		return n.lookup, true
	}
	return Lookup{}, false
}

// Put stores e, keeping the list ordered.
func (l *List) Put(e Edit) {
	checkPoint(e.X, e.Y, l.width, l.height)
	index := e.Y*l.width + e.X

	link := &l.head
	for *link != nil && (*link).index < index {
		link = &(*link).next
	}
	if *link != nil && (*link).index == index {
		(*link).lookup = e.Lookup
		return
	}
	*link = &node{index: index, lookup: e.Lookup, next: *link}
	l.mods++
}

// Remove deletes the edit at (x, y).
func (l *List) Remove(x, y int) (Edit, error) {
	checkPoint(x, y, l.width, l.height)
	index := y*l.width + x

	link := &l.head
	for *link != nil && (*link).index < index {
		link = &(*link).next
	}
	if *link == nil || (*link).index != index {
		return Edit{}, ErrNotModified
	}
	removed := *link
	*link = removed.next
	l.mods--
	return Edit{X: x, Y: y, Lookup: removed.lookup}, nil
}

// Region materializes a rectangle of cells with a single pass over the list.
func (l *List) Region(x, y, w, h int) Region {
	r := NewRegion(w, h)
	if r == nil {
		return nil
	}
	checkPoint(x, y, l.width, l.height)
	checkPoint(x+w-1, y+h-1, l.width, l.height)
	first := y*l.width + x
	last := (y+h-1)*l.width + x + w - 1
	for n := l.head; n != nil && n.index <= last; n = n.next {
		if n.index < first {
			continue
		}
		px, py := n.index%l.width, n.index/l.width
		if px < x || px >= x+w || py < y || py >= y+h {
			continue
		}
		r[py-y][px-x] = Cell{Lookup: n.lookup, OK: true}
	}
	return r
}

// ForEach visits edits in row-major order.
func (l *List) ForEach(fn func(Edit) bool) {
	for n := l.head; n != nil; n = n.next {
		if !fn(Edit{X: n.index % l.width, Y: n.index / l.width, Lookup: n.lookup}) {
			return
		}
	}
}

// CopyInto puts every edit into dst.
func (l *List) CopyInto(dst Store) { copyInto(l, dst) }

var _ Store = (*List)(nil)

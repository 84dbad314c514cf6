package artboard

import (
	"fmt"
	"image"

	"github.com/gogpu/artboard/store"
)

// rank returns l's index in the visual list, or -1 for non-visual and
// foreign layers.
func (s *sheet) rank(l Layer) int {
	v, ok := l.(*VisualLayer)
	if !ok {
		return -1
	}
	for i, vl := range s.visual {
		if vl == v {
			return i
		}
	}
	return -1
}

// upperModifies reports whether a visual layer ranked above rank paints (x, y).
func (s *sheet) upperModifies(rank, x, y int) bool {
	for _, v := range s.visual[:rank] {
		if v.IsModifying(x, y) {
			return true
		}
	}
	return false
}

// upperIntersects reports whether any visible layer ranked above rank paints
// a position inside r. Empty layers are skipped without looking at r, and
// sparse layers are checked by walking their edits instead of r.
func (s *sheet) upperIntersects(rank int, r image.Rectangle) bool {
	area := r.Dx() * r.Dy()
	for _, v := range s.visual[:rank] {
		mods := v.Mods()
		if v.hidden || mods == 0 {
			continue
		}
		if mods <= area {
			hit := false
			v.data.ForEach(func(e store.Edit) bool {
				hit = image.Pt(e.X, e.Y).In(r)
				return !hit
			})
			if hit {
				return true
			}
			continue
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if v.data.Contains(x, y) {
					return true
				}
			}
		}
	}
	return false
}

// below returns the lookup of the first visible layer under rank that
// paints (x, y), or the background.
func (s *sheet) below(rank, x, y int) store.Lookup {
	for _, v := range s.visual[rank+1:] {
		if v.IsModifying(x, y) {
			l, _ := v.data.Get(x, y)
			return l
		}
	}
	return s.background(x, y)
}

// highest returns the highest ranked visible layer painting (x, y).
func (s *sheet) highest(x, y int) (*VisualLayer, int) {
	for i, v := range s.visual {
		if v.IsModifying(x, y) {
			return v, i
		}
	}
	return nil, -1
}

// resolve computes from scratch what the composite should show at (x, y).
func (s *sheet) resolve(x, y int) store.Lookup {
	if !s.visualMode() {
		if s.active.IsModifying(x, y) {
			l, _ := s.active.Get(x, y)
			return l
		}
		return s.background(x, y)
	}
	if v, _ := s.highest(x, y); v != nil {
		l, _ := v.data.Get(x, y)
		return l
	}
	return s.background(x, y)
}

// modified reports whether any layer shown in the current mode paints (x, y).
func (s *sheet) modified(x, y int) bool {
	if !s.visualMode() {
		return s.active.IsModifying(x, y)
	}
	_, rank := s.highest(x, y)
	return rank >= 0
}

// owns reports whether l belongs to the sheet.
func (s *sheet) owns(l Layer) bool {
	switch l := l.(type) {
	case *VisualLayer:
		return s.rank(l) >= 0
	case *NonVisualLayer:
		for _, nv := range s.nonVisual {
			if nv == l {
				return true
			}
		}
	}
	return false
}

func (s *sheet) member(l Layer) error {
	if l == nil || !s.owns(l) {
		return fmt.Errorf("%w: %v", ErrLayerNotFound, layerName(l))
	}
	return nil
}

func layerName(l Layer) string {
	if l == nil {
		return "<nil>"
	}
	return l.Name()
}

// Hide hides l and reveals, at every position it paints, the next visible
// layer beneath it or the background. The hidden flag is set after the
// composite is updated.
//
// Hiding a visual layer while a non-visual layer is active only sets the
// flag, since the composite does not show visual layers.
func (b *Board) Hide(l Layer) error {
	s, err := b.live()
	if err != nil {
		return err
	}
	if err := s.member(l); err != nil {
		return err
	}
	base := l.base()
	if base.hidden {
		return nil
	}
	switch l := l.(type) {
	case *VisualLayer:
		if s.visualMode() {
			rank := s.rank(l)
			l.data.ForEach(func(e store.Edit) bool {
				if !s.upperModifies(rank, e.X, e.Y) {
					s.set(e.X, e.Y, s.below(rank, e.X, e.Y))
				}
				return true
			})
		}
	case *NonVisualLayer:
		if s.active == Layer(l) {
			l.data.ForEach(func(e store.Edit) bool {
				s.set(e.X, e.Y, s.background(e.X, e.Y))
				return true
			})
		}
	}
	base.hidden = true
	return nil
}

// Show clears l's hidden flag and writes its lookups wherever no visible
// higher ranked layer paints the same position.
func (b *Board) Show(l Layer) error {
	s, err := b.live()
	if err != nil {
		return err
	}
	if err := s.member(l); err != nil {
		return err
	}
	base := l.base()
	if !base.hidden {
		return nil
	}
	base.hidden = false
	switch l := l.(type) {
	case *VisualLayer:
		if s.visualMode() {
			rank := s.rank(l)
			l.data.ForEach(func(e store.Edit) bool {
				if !s.upperModifies(rank, e.X, e.Y) {
					s.set(e.X, e.Y, e.Lookup)
				}
				return true
			})
		}
	case *NonVisualLayer:
		if s.active == Layer(l) {
			l.data.ForEach(func(e store.Edit) bool {
				s.set(e.X, e.Y, e.Lookup)
				return true
			})
		}
	}
	return nil
}

// ToggleHide shows l if it is hidden and hides it otherwise.
func (b *Board) ToggleHide(l Layer) error {
	if l != nil && l.IsHidden() {
		return b.Show(l)
	}
	return b.Hide(l)
}

// MoveRank moves l to newRank, shifting the layers in between by one.
// Only positions l paints can change owner, so only those are re-resolved.
func (b *Board) MoveRank(l *VisualLayer, newRank int) error {
	s, err := b.owned()
	if err != nil {
		return err
	}
	old := s.rank(l)
	if old < 0 {
		return fmt.Errorf("%w: %v", ErrLayerNotFound, layerName(l))
	}
	if newRank < 0 || newRank >= len(s.visual) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidRank, newRank, len(s.visual))
	}
	if newRank == old {
		return nil
	}

	if newRank < old {
		copy(s.visual[newRank+1:old+1], s.visual[newRank:old])
	} else {
		copy(s.visual[old:newRank], s.visual[old+1:newRank+1])
	}
	s.visual[newRank] = l
	Logger().Debug("artboard: rank moved", "board", b.name, "layer", l.name, "from", old, "to", newRank)

	if l.hidden || !s.visualMode() {
		return nil
	}
	// Collect first: resolving reads l's own store.
	edits := make([]store.Edit, 0, l.Mods())
	l.data.ForEach(func(e store.Edit) bool {
		edits = append(edits, e)
		return true
	})
	for _, e := range edits {
		s.set(e.X, e.Y, s.resolve(e.X, e.Y))
	}
	return nil
}

// Rank returns l's rank, or -1 if l is not a visual layer of the board.
func (b *Board) Rank(l Layer) int {
	if b.sheet == nil {
		return -1
	}
	return b.sheet.rank(l)
}

// HighestLookup resolves (x, y) from layer contents, without reading the
// composite.
func (b *Board) HighestLookup(x, y int) (store.Lookup, error) {
	s, err := b.live()
	if err != nil {
		return store.Lookup{}, err
	}
	if err := s.checkPoint(x, y); err != nil {
		return store.Lookup{}, err
	}
	return s.resolve(x, y), nil
}

// IsAnyLayerModifying reports whether any visible visual layer paints (x, y).
func (b *Board) IsAnyLayerModifying(x, y int) bool {
	return b.HighestRankModifying(x, y) >= 0
}

// HighestRankModifying returns the rank of the highest visible visual layer
// painting (x, y), or -1.
func (b *Board) HighestRankModifying(x, y int) int {
	if b.sheet == nil {
		return -1
	}
	_, rank := b.sheet.highest(x, y)
	return rank
}

// HideAllVisualLayers hides every visual layer.
func (b *Board) HideAllVisualLayers() error {
	s, err := b.live()
	if err != nil {
		return err
	}
	for _, v := range s.visual {
		v.hidden = true
	}
	if s.visualMode() {
		s.fillBackground()
	}
	return nil
}

// ShowAllVisualLayers clears every visual layer's hidden flag and rebuilds
// the composite.
func (b *Board) ShowAllVisualLayers() error {
	s, err := b.live()
	if err != nil {
		return err
	}
	for _, v := range s.visual {
		v.hidden = false
	}
	if s.visualMode() {
		s.rebuild()
	}
	return nil
}

// ShowAllNonHiddenVisualLayers redraws the visual layers that are not hidden
// over a fresh background, leaving hidden flags alone.
func (b *Board) ShowAllNonHiddenVisualLayers() error {
	s, err := b.live()
	if err != nil {
		return err
	}
	if s.visualMode() {
		s.rebuild()
	}
	return nil
}

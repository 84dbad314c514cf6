package artboard

import (
	"fmt"
	"slices"

	"github.com/gogpu/artboard/internal/dirty"
	"github.com/gogpu/artboard/store"
)

// checkNewName validates name and rejects names already used on the sheet,
// ignoring case. skip is excluded from the duplicate check.
func (s *sheet) checkNewName(name string, skip Layer) (string, error) {
	name, err := canonicalName(name)
	if err != nil {
		return "", err
	}
	if l := s.layerByKey(nameKey(name)); l != nil && l != skip {
		return "", fmt.Errorf("%w: %q already used by %q", ErrInvalidName, name, l.Name())
	}
	return name, nil
}

func (s *sheet) layerByKey(key string) Layer {
	for _, v := range s.visual {
		if v.key == key {
			return v
		}
	}
	for _, nv := range s.nonVisual {
		if nv.key == key {
			return nv
		}
	}
	return nil
}

// AddVisualLayer appends an empty visual layer at the lowest rank. The first
// visual layer of a board becomes the active layer.
func (b *Board) AddVisualLayer(name string) (*VisualLayer, error) {
	s, err := b.owned()
	if err != nil {
		return nil, err
	}
	name, err = s.checkNewName(name, nil)
	if err != nil {
		return nil, err
	}
	v := &VisualLayer{layer: newLayer(name, s.kind, s.width, s.height, s.palette)}
	s.visual = append(s.visual, v)
	if s.active == nil {
		s.active = v
	}
	Logger().Debug("artboard: layer added", "board", b.name, "layer", name, "rank", len(s.visual)-1)
	return v, nil
}

// AddNonVisualLayer adds an empty non-visual layer storing size bytes per
// position, with its own palette of size channels.
func (b *Board) AddNonVisualLayer(name string, size int) (*NonVisualLayer, error) {
	s, err := b.owned()
	if err != nil {
		return nil, err
	}
	name, err = s.checkNewName(name, nil)
	if err != nil {
		return nil, err
	}
	p, err := NewPalette(size, s.paletteWidth, s.paletteHeight)
	if err != nil {
		return nil, fmt.Errorf("non-visual layer %q: %w", name, err)
	}
	if s.onOverflow != nil {
		p.OnOverflow(s.onOverflow)
	}
	nv := &NonVisualLayer{layer: newLayer(name, s.kind, s.width, s.height, p)}
	s.nonVisual = append(s.nonVisual, nv)
	Logger().Debug("artboard: layer added", "board", b.name, "layer", name, "size", size)
	return nv, nil
}

// RemoveLayer detaches l from the board. A visible visual layer is hidden
// first so the composite stays consistent. Removing the active layer makes
// the top visual layer active. The last visual layer cannot be removed.
func (b *Board) RemoveLayer(l Layer) error {
	s, err := b.owned()
	if err != nil {
		return err
	}
	if err := s.member(l); err != nil {
		return err
	}
	switch l := l.(type) {
	case *VisualLayer:
		if len(s.visual) == 1 {
			return ErrLastVisualLayer
		}
		wasHidden := l.hidden
		if err := b.Hide(l); err != nil {
			return err
		}
		l.hidden = wasHidden
		s.visual = slices.DeleteFunc(s.visual, func(v *VisualLayer) bool { return v == l })
		if s.active == Layer(l) {
			s.active = s.visual[0]
		}
	case *NonVisualLayer:
		s.nonVisual = slices.DeleteFunc(s.nonVisual, func(nv *NonVisualLayer) bool { return nv == l })
		if s.active == Layer(l) {
			s.active = nil
			if len(s.visual) > 0 {
				s.active = s.visual[0]
			}
			s.rebuild()
		}
	}
	Logger().Debug("artboard: layer removed", "board", b.name, "layer", l.Name())
	return nil
}

// SetActiveLayer makes l the target of paint and erase operations.
// Switching between visual and non-visual layers, or between two non-visual
// layers, rebuilds the composite for the new mode.
func (b *Board) SetActiveLayer(l Layer) error {
	s, err := b.live()
	if err != nil {
		return err
	}
	if err := s.member(l); err != nil {
		return err
	}
	if s.active == l {
		return nil
	}
	wasVisual := s.visualMode()
	s.active = l
	if _, ok := l.(*VisualLayer); ok && wasVisual {
		return nil
	}
	s.rebuild()
	return nil
}

// SwitchToVisualLayers makes the top visual layer active.
func (b *Board) SwitchToVisualLayers() error {
	s, err := b.live()
	if err != nil {
		return err
	}
	if len(s.visual) == 0 {
		return fmt.Errorf("%w: board has no visual layers", ErrLayerNotFound)
	}
	return b.SetActiveLayer(s.visual[0])
}

// IsActive reports whether l is the active layer.
func (b *Board) IsActive(l Layer) bool { return b.sheet != nil && b.sheet.active == l }

// layer finds a layer by name, or returns nil.
func (b *Board) layer(name string) Layer {
	if b.sheet == nil {
		return nil
	}
	return b.sheet.layerByKey(nameKey(name))
}

// Layer finds a layer by name, ignoring case.
func (b *Board) Layer(name string) (Layer, bool) {
	l := b.layer(name)
	return l, l != nil
}

// VisualLayer finds a visual layer by name, ignoring case.
func (b *Board) VisualLayer(name string) (*VisualLayer, bool) {
	v, ok := b.layer(name).(*VisualLayer)
	return v, ok
}

// NonVisualLayer finds a non-visual layer by name, ignoring case.
func (b *Board) NonVisualLayer(name string) (*NonVisualLayer, bool) {
	nv, ok := b.layer(name).(*NonVisualLayer)
	return nv, ok
}

// VisualLayerAt returns the visual layer at rank.
func (b *Board) VisualLayerAt(rank int) (*VisualLayer, error) {
	s, err := b.live()
	if err != nil {
		return nil, err
	}
	if rank < 0 || rank >= len(s.visual) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidRank, rank, len(s.visual))
	}
	return s.visual[rank], nil
}

// VisualLayers returns the visual layers, top rank first.
func (b *Board) VisualLayers() []*VisualLayer {
	if b.sheet == nil {
		return nil
	}
	return slices.Clone(b.sheet.visual)
}

// NonVisualLayers returns the non-visual layers in creation order.
func (b *Board) NonVisualLayers() []*NonVisualLayer {
	if b.sheet == nil {
		return nil
	}
	return slices.Clone(b.sheet.nonVisual)
}

// RenameLayer renames l, applying the same rules as layer creation.
func (b *Board) RenameLayer(l Layer, name string) error {
	s, err := b.owned()
	if err != nil {
		return err
	}
	if err := s.member(l); err != nil {
		return err
	}
	name, err = s.checkNewName(name, l)
	if err != nil {
		return err
	}
	base := l.base()
	base.name, base.key = name, nameKey(name)
	return nil
}

// DeepCopy returns an independent board with copies of every layer, their
// ranks and flags, and the same active layer. The palettes are shared with b.
// The copy is not an alias: it owns its sheet.
func (b *Board) DeepCopy(name string) (*Board, error) {
	s, err := b.live()
	if err != nil {
		return nil, err
	}
	c := &sheet{
		width:         s.width,
		height:        s.height,
		composite:     make([]store.Lookup, len(s.composite)),
		palette:       s.palette,
		checker:       s.checker,
		kind:          s.kind,
		strict:        s.strict,
		paletteWidth:  s.paletteWidth,
		paletteHeight: s.paletteHeight,
		onOverflow:    s.onOverflow,
		dirty:         dirty.New(s.width, s.height, s.dirty.TileSize()),
		refs:          1,
	}
	kindOf := func(l *layer) store.Kind {
		if k, ok := l.StoreKind(); ok {
			return k
		}
		return s.kind
	}
	for _, v := range s.visual {
		cv := &VisualLayer{layer: v.clone(kindOf(&v.layer), c.palette)}
		c.visual = append(c.visual, cv)
		if s.active == Layer(v) {
			c.active = cv
		}
	}
	for _, nv := range s.nonVisual {
		cnv := &NonVisualLayer{layer: nv.clone(kindOf(&nv.layer), nv.palette)}
		c.nonVisual = append(c.nonVisual, cnv)
		if s.active == Layer(nv) {
			c.active = cnv
		}
	}
	c.rebuild()
	Logger().Debug("artboard: board copied", "board", b.name, "copy", name)
	return &Board{name: name, pos: b.pos, sheet: c}, nil
}

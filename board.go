package artboard

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/artboard/internal/dirty"
	"github.com/gogpu/artboard/store"
)

// Board is a composite surface: a dense grid of palette lookups kept equal,
// position by position, to what its layers say should be visible.
//
// The grid and layers live in a sheet shared with every alias of the board
// (see Copier); a Board itself only adds a name and a position. All methods
// must run on the render loop.
type Board struct {
	name  string
	pos   image.Point
	sheet *sheet

	// owner is the source board when this board is an alias.
	owner *Board
}

// sheet is the reference-counted state shared by a board and its aliases.
type sheet struct {
	width, height int
	composite     []store.Lookup
	palette       *Palette
	visual        []*VisualLayer
	nonVisual     []*NonVisualLayer
	active        Layer
	checker       int
	kind          store.Kind
	strict        bool
	paletteWidth  int
	paletteHeight int
	onOverflow    func(*Palette)
	dirty         *dirty.Tiles
	refs          int
}

// NewBoard creates a width x height board with no layers. The composite
// starts as the checker background. The first visual layer added becomes
// the active layer.
func NewBoard(width, height int, opts ...BoardOption) (*Board, error) {
	o := defaultBoardOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: board %dx%d", ErrInvalidSize, width, height)
	}
	if o.checkerSize <= 0 {
		return nil, fmt.Errorf("%w: checker size %d", ErrInvalidSize, o.checkerSize)
	}
	if o.kind > store.KindSynced {
		return nil, fmt.Errorf("artboard: unknown store kind %v", o.kind)
	}

	p := o.palette
	if p == nil {
		var err error
		p, err = NewPalette(o.channels, o.paletteWidth, o.paletteHeight)
		if err != nil {
			return nil, err
		}
	}
	if o.onOverflow != nil {
		p.OnOverflow(o.onOverflow)
	}

	s := &sheet{
		width:         width,
		height:        height,
		composite:     make([]store.Lookup, width*height),
		palette:       p,
		checker:       o.checkerSize,
		kind:          o.kind,
		strict:        o.strict,
		paletteWidth:  o.paletteWidth,
		paletteHeight: o.paletteHeight,
		onOverflow:    o.onOverflow,
		dirty:         dirty.New(width, height, dirty.DefaultTileSize),
		refs:          1,
	}
	s.fillBackground()
	return &Board{name: o.name, sheet: s}, nil
}

// MustNewBoard is like NewBoard but panics on error.
func MustNewBoard(width, height int, opts ...BoardOption) *Board {
	b, err := NewBoard(width, height, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// live returns the sheet or ErrClosed.
func (b *Board) live() (*sheet, error) {
	if b.sheet == nil {
		return nil, fmt.Errorf("%w: %s", ErrClosed, b.name)
	}
	return b.sheet, nil
}

// owned returns the sheet if b may edit the layer lists.
func (b *Board) owned() (*sheet, error) {
	s, err := b.live()
	if err != nil {
		return nil, err
	}
	if b.owner != nil {
		return nil, fmt.Errorf("%w: %s (source %s)", ErrNotOwner, b.name, b.owner.name)
	}
	return s, nil
}

// Close releases b's reference to its sheet. The sheet is freed once the
// source and all its aliases are closed. Close is idempotent.
//
// After Close, error-returning methods report ErrClosed and the accessors
// without an error result return zero values: 0 sizes, an empty Bounds,
// nil palettes, layers and tiles, false flags and rank -1.
func (b *Board) Close() {
	s := b.sheet
	if s == nil {
		return
	}
	b.sheet = nil
	s.refs--
	if s.refs > 0 {
		return
	}
	s.composite = nil
	s.visual = nil
	s.nonVisual = nil
	s.active = nil
	Logger().Debug("artboard: sheet released", "board", b.name)
}

// Name returns the board name.
func (b *Board) Name() string { return b.name }

// Position returns where the board is placed. Aliases share pixels with
// their source but each keeps its own position.
func (b *Board) Position() image.Point { return b.pos }

// MoveTo places the board at (x, y).
func (b *Board) MoveTo(x, y int) { b.pos = image.Pt(x, y) }

// Translate moves the board by (dx, dy).
func (b *Board) Translate(dx, dy int) { b.pos = b.pos.Add(image.Pt(dx, dy)) }

// Width returns the board width in pixels.
func (b *Board) Width() int {
	if b.sheet == nil {
		return 0
	}
	return b.sheet.width
}

// Height returns the board height in pixels.
func (b *Board) Height() int {
	if b.sheet == nil {
		return 0
	}
	return b.sheet.height
}

// Bounds returns the board rectangle in board coordinates.
func (b *Board) Bounds() image.Rectangle {
	if b.sheet == nil {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, b.sheet.width, b.sheet.height)
}

// Palette returns the palette shared by the visual layers.
func (b *Board) Palette() *Palette {
	if b.sheet == nil {
		return nil
	}
	return b.sheet.palette
}

// ActivePalette returns the palette the composite currently points into:
// the active non-visual layer's palette, or the board palette.
func (b *Board) ActivePalette() *Palette {
	if b.sheet == nil {
		return nil
	}
	return b.sheet.activePalette()
}

// ActiveLayer returns the active layer, or nil for a board without layers.
func (b *Board) ActiveLayer() Layer {
	if b.sheet == nil {
		return nil
	}
	return b.sheet.active
}

// CheckerSize returns the checker block edge length.
func (b *Board) CheckerSize() int {
	if b.sheet == nil {
		return 0
	}
	return b.sheet.checker
}

// Strict reports whether palette overflow is returned to Paint callers.
func (b *Board) Strict() bool { return b.sheet != nil && b.sheet.strict }

// Composite returns the row-major composite grid, or nil once b is closed.
// The slice aliases board memory and must be treated as read-only.
func (b *Board) Composite() []store.Lookup {
	if b.sheet == nil {
		return nil
	}
	return b.sheet.composite
}

// DirtyTiles returns the dirty tile tracker of the composite, shared by the
// source and its aliases, or nil once b is closed.
func (b *Board) DirtyTiles() *dirty.Tiles {
	if b.sheet == nil {
		return nil
	}
	return b.sheet.dirty
}

// LookupAt returns the composite lookup at (x, y).
func (b *Board) LookupAt(x, y int) (store.Lookup, error) {
	s, err := b.live()
	if err != nil {
		return store.Lookup{}, err
	}
	if err := s.checkPoint(x, y); err != nil {
		return store.Lookup{}, err
	}
	return s.composite[y*s.width+x], nil
}

// ColorAt returns the color visible at (x, y).
func (b *Board) ColorAt(x, y int) (Color, error) {
	l, err := b.LookupAt(x, y)
	if err != nil {
		return Color{}, err
	}
	return b.sheet.activePalette().Lookup(l), nil
}

// MatchesColor reports whether the color visible at (x, y) equals c on the
// active palette's channels.
func (b *Board) MatchesColor(x, y int, c Color) (bool, error) {
	got, err := b.ColorAt(x, y)
	if err != nil {
		return false, err
	}
	return got.equal(c, b.sheet.activePalette().Channels()), nil
}

func (s *sheet) activePalette() *Palette {
	if nv, ok := s.active.(*NonVisualLayer); ok {
		return nv.palette
	}
	return s.palette
}

func (s *sheet) checkPoint(x, y int) error {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, s.width, s.height)
	}
	return nil
}

func (s *sheet) checkRect(r image.Rectangle) error {
	if r.Empty() || !r.In(image.Rect(0, 0, s.width, s.height)) {
		return fmt.Errorf("%w: %v outside %dx%d", ErrOutOfBounds, r, s.width, s.height)
	}
	return nil
}

func (s *sheet) set(x, y int, l store.Lookup) {
	s.composite[y*s.width+x] = l
	s.dirty.Mark(x, y)
}

func (s *sheet) background(x, y int) store.Lookup {
	return BackgroundLookup(x, y, s.checker)
}

func (s *sheet) fillBackground() {
	for y := range s.height {
		row := s.composite[y*s.width : (y+1)*s.width]
		for x := range row {
			row[x] = s.background(x, y)
		}
	}
	s.dirty.MarkAll()
}

// visualMode reports whether the composite shows the visual layers.
func (s *sheet) visualMode() bool {
	_, nonVisual := s.active.(*NonVisualLayer)
	return !nonVisual
}

// activeLayer returns the active layer or an error for a board with none.
func (s *sheet) activeLayer() (Layer, error) {
	if s.active == nil {
		return nil, fmt.Errorf("%w: board has no active layer", ErrLayerNotFound)
	}
	return s.active, nil
}

// Paint records c at every position of r in the active layer and updates
// the composite where the active layer is the highest visible modifier.
//
// Painting a locked or hidden layer is a no-op. When the color overflows the
// palette, Paint returns ErrPaletteOverflow in strict mode and succeeds
// otherwise; the pixels are painted either way.
func (b *Board) Paint(r image.Rectangle, c Color) error {
	s, err := b.live()
	if err != nil {
		return err
	}
	if err := s.checkRect(r); err != nil {
		return err
	}
	a, err := s.activeLayer()
	if err != nil {
		return err
	}
	if a.IsLocked() || a.IsHidden() {
		return nil
	}
	l, perr := a.Palette().PutOrGetColor(c)
	if perr != nil && !errors.Is(perr, ErrPaletteOverflow) {
		return perr
	}
	s.paint(a, r, l)
	if perr != nil && s.strict {
		return fmt.Errorf("painting %v on %s: %w", c, b.name, perr)
	}
	return nil
}

// PaintLookup is Paint with a lookup already resolved against the active
// layer's palette.
func (b *Board) PaintLookup(r image.Rectangle, l store.Lookup) error {
	s, err := b.live()
	if err != nil {
		return err
	}
	if err := s.checkRect(r); err != nil {
		return err
	}
	a, err := s.activeLayer()
	if err != nil {
		return err
	}
	if a.IsLocked() || a.IsHidden() {
		return nil
	}
	p := a.Palette()
	if int(l.Col) >= p.Width() || int(l.Row) >= p.Height() {
		return fmt.Errorf("%w: lookup %v outside %dx%d palette", ErrOutOfBounds, l, p.Width(), p.Height())
	}
	s.paint(a, r, l)
	return nil
}

func (s *sheet) paint(a Layer, r image.Rectangle, l store.Lookup) {
	data := a.base().data
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			data.Put(store.Edit{X: x, Y: y, Lookup: l})
		}
	}

	rank := s.rank(a)
	if rank <= 0 || !s.upperIntersects(rank, r) {
		s.blit(r, l)
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !s.upperModifies(rank, x, y) {
				s.set(x, y, l)
			}
		}
	}
}

func (s *sheet) blit(r image.Rectangle, l store.Lookup) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := s.composite[y*s.width+r.Min.X : y*s.width+r.Max.X]
		for i := range row {
			row[i] = l
		}
	}
	s.dirty.MarkRect(r)
}

// RemovePixel erases the active layer's edit at (x, y) and reveals what lies
// beneath. It is a no-op when the active layer is locked or does not modify
// the position.
func (b *Board) RemovePixel(x, y int) error {
	s, err := b.live()
	if err != nil {
		return err
	}
	if err := s.checkPoint(x, y); err != nil {
		return err
	}
	a, err := s.activeLayer()
	if err != nil {
		return err
	}
	s.removePixel(a, x, y)
	return nil
}

func (s *sheet) removePixel(a Layer, x, y int) {
	if a.IsLocked() || !a.IsModifying(x, y) {
		return
	}
	if _, err := a.base().data.Remove(x, y); err != nil {
		return
	}
	rank := s.rank(a)
	if rank < 0 {
		s.set(x, y, s.background(x, y))
		return
	}
	if s.upperModifies(rank, x, y) {
		return
	}
	s.set(x, y, s.below(rank, x, y))
}

// RemoveRegion calls RemovePixel for every position of r.
func (b *Board) RemoveRegion(r image.Rectangle) error {
	s, err := b.live()
	if err != nil {
		return err
	}
	if err := s.checkRect(r); err != nil {
		return err
	}
	a, err := s.activeLayer()
	if err != nil {
		return err
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.removePixel(a, x, y)
		}
	}
	return nil
}

// Region snapshots the active layer's edits inside r.
func (b *Board) Region(r image.Rectangle) (store.Region, error) {
	s, err := b.live()
	if err != nil {
		return nil, err
	}
	if err := s.checkRect(r); err != nil {
		return nil, err
	}
	a, err := s.activeLayer()
	if err != nil {
		return nil, err
	}
	return a.Region(r), nil
}

// PutRegion is the inverse of Region: present cells are put into the active
// layer and absent cells removed, then each position of r is re-resolved.
// It is a no-op on a locked or hidden active layer.
func (b *Board) PutRegion(r image.Rectangle, region store.Region) error {
	s, err := b.live()
	if err != nil {
		return err
	}
	if err := s.checkRect(r); err != nil {
		return err
	}
	if region.Width() != r.Dx() || region.Height() != r.Dy() {
		return fmt.Errorf("%w: region is %dx%d, rectangle %v", ErrOutOfBounds, region.Width(), region.Height(), r)
	}
	a, err := s.activeLayer()
	if err != nil {
		return err
	}
	if a.IsLocked() || a.IsHidden() {
		return nil
	}
	data := a.base().data
	for row := range region {
		for col, c := range region[row] {
			x, y := r.Min.X+col, r.Min.Y+row
			if c.OK {
				data.Put(store.Edit{X: x, Y: y, Lookup: c.Lookup})
			} else if data.Contains(x, y) {
				_, _ = data.Remove(x, y)
			}
			s.set(x, y, s.resolve(x, y))
		}
	}
	return nil
}

// Verify recomputes every position from layer contents and returns a
// *MismatchError for the first one the composite disagrees with.
func (b *Board) Verify() error {
	s, err := b.live()
	if err != nil {
		return err
	}
	for y := range s.height {
		for x := range s.width {
			want := s.resolve(x, y)
			if got := s.composite[y*s.width+x]; got != want {
				return &MismatchError{X: x, Y: y, Got: got, Want: want}
			}
		}
	}
	return nil
}

// Rebuild recomputes the whole composite: checker fill, then every visible
// layer of the current mode, lowest rank first.
func (b *Board) Rebuild() error {
	s, err := b.live()
	if err != nil {
		return err
	}
	s.rebuild()
	return nil
}

func (s *sheet) rebuild() {
	s.fillBackground()
	if !s.visualMode() {
		s.showEdits(s.active)
		return
	}
	for i := len(s.visual) - 1; i >= 0; i-- {
		s.showEdits(s.visual[i])
	}
}

// showEdits writes every edit of a visible layer, ignoring ranks.
func (s *sheet) showEdits(l Layer) {
	if l.IsHidden() {
		return
	}
	l.ForEachModification(func(e store.Edit) bool {
		s.composite[e.Y*s.width+e.X] = e.Lookup
		return true
	})
}

// SetCheckerSize changes the checker block size and rewrites every position
// showing the background.
func (b *Board) SetCheckerSize(n int) error {
	s, err := b.live()
	if err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("%w: checker size %d", ErrInvalidSize, n)
	}
	if n == s.checker {
		return nil
	}
	s.checker = n
	for y := range s.height {
		for x := range s.width {
			if !s.modified(x, y) {
				s.set(x, y, s.background(x, y))
			}
		}
	}
	return nil
}

// Package script loads YAML board scripts and plays them on a render loop.
//
// A script declares one board, its layers, and a list of operations:
//
//	board:
//	  name: sprite
//	  width: 64
//	  height: 64
//	  channels: 4
//	  store: dense
//	layers:
//	  - name: Outline
//	  - name: Mask
//	    size: 1
//	ops:
//	  - paint: {layer: Outline, rect: [0, 0, 16, 16], color: "#ff0000"}
//	  - hide: Outline
//	  - alias: {name: copy, at: [80, 0]}
//
// Layers with a size are non-visual layers with that many channels.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/artboard"
	"github.com/gogpu/artboard/store"
)

// ErrInvalidScript is returned for scripts that parse but cannot be played.
var ErrInvalidScript = errors.New("script: invalid script")

// Script is a parsed board script.
type Script struct {
	Board  BoardSpec   `yaml:"board"`
	Layers []LayerSpec `yaml:"layers"`
	Ops    []Op        `yaml:"ops"`
	Output OutputSpec  `yaml:"output"`
}

// BoardSpec holds the board geometry and options.
type BoardSpec struct {
	Name     string    `yaml:"name"`
	Width    int       `yaml:"width"`
	Height   int       `yaml:"height"`
	Channels int       `yaml:"channels"`
	Store    StoreKind `yaml:"store"`
	Checker  int       `yaml:"checker"`
	Strict   bool      `yaml:"strict"`
	At       Point     `yaml:"at"`
	Palette  struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"palette"`
}

// LayerSpec declares a layer. A zero Size declares a visual layer.
type LayerSpec struct {
	Name   string `yaml:"name"`
	Size   int    `yaml:"size"`
	Hidden bool   `yaml:"hidden"`
	Locked bool   `yaml:"locked"`
}

// OutputSpec is where artdemo saves the result.
type OutputSpec struct {
	File  string `yaml:"file"`
	Scale int    `yaml:"scale"`
}

// Op is one script step. Exactly one field is set.
type Op struct {
	Paint    *PaintOp  `yaml:"paint"`
	Erase    *EraseOp  `yaml:"erase"`
	Hide     string    `yaml:"hide"`
	Show     string    `yaml:"show"`
	Lock     string    `yaml:"lock"`
	Unlock   string    `yaml:"unlock"`
	Activate string    `yaml:"activate"`
	Move     *MoveOp   `yaml:"move"`
	Rename   *RenameOp `yaml:"rename"`
	Remove   string    `yaml:"remove"`
	Alias    *AliasOp  `yaml:"alias"`
	Checker  string    `yaml:"checker"`
}

// PaintOp paints Rect on Layer through the board named Board, the source
// board when empty.
type PaintOp struct {
	Board string `yaml:"board"`
	Layer string `yaml:"layer"`
	Rect  Rect   `yaml:"rect"`
	Color Color  `yaml:"color"`
}

// EraseOp removes the edits of Layer inside Rect.
type EraseOp struct {
	Board string `yaml:"board"`
	Layer string `yaml:"layer"`
	Rect  Rect   `yaml:"rect"`
}

// MoveOp moves a visual layer to Rank.
type MoveOp struct {
	Layer string `yaml:"layer"`
	Rank  int    `yaml:"rank"`
}

// RenameOp renames Layer to To.
type RenameOp struct {
	Layer string `yaml:"layer"`
	To    string `yaml:"to"`
}

// AliasOp creates an alias board sharing the source board's layers.
type AliasOp struct {
	Name string `yaml:"name"`
	At   Point  `yaml:"at"`
}

// kind names the field set on op, or "" when none or several are.
func (op *Op) kind() string {
	set := make([]string, 0, 1)
	add := func(ok bool, name string) {
		if ok {
			set = append(set, name)
		}
	}
	add(op.Paint != nil, "paint")
	add(op.Erase != nil, "erase")
	add(op.Hide != "", "hide")
	add(op.Show != "", "show")
	add(op.Lock != "", "lock")
	add(op.Unlock != "", "unlock")
	add(op.Activate != "", "activate")
	add(op.Move != nil, "move")
	add(op.Rename != nil, "rename")
	add(op.Remove != "", "remove")
	add(op.Alias != nil, "alias")
	add(op.Checker != "", "checker")
	if len(set) != 1 {
		return ""
	}
	return set[0]
}

// Color is an artboard.Color written as "#rrggbb", "#rrggbbaa" or an SVG
// color name.
type Color artboard.Color

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color must be a string", value.Line)
	}
	parsed, err := artboard.ParseColor(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = Color(parsed)
	return nil
}

// Rect is an image.Rectangle written as [x, y, width, height].
type Rect image.Rectangle

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Rect) UnmarshalYAML(value *yaml.Node) error {
	var v []int
	if err := value.Decode(&v); err != nil || len(v) != 4 {
		return fmt.Errorf("line %d: rect must be [x, y, width, height]", value.Line)
	}
	if v[2] <= 0 || v[3] <= 0 {
		return fmt.Errorf("line %d: rect size must be positive", value.Line)
	}
	*r = Rect(image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]))
	return nil
}

// Point is an image.Point written as [x, y].
type Point image.Point

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var v []int
	if err := value.Decode(&v); err != nil || len(v) != 2 {
		return fmt.Errorf("line %d: point must be [x, y]", value.Line)
	}
	*p = Point(image.Pt(v[0], v[1]))
	return nil
}

// StoreKind is a store.Kind written by name.
type StoreKind store.Kind

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *StoreKind) UnmarshalYAML(value *yaml.Node) error {
	for _, kind := range []store.Kind{store.KindDense, store.KindList, store.KindSynced} {
		if value.Value == kind.String() {
			*k = StoreKind(kind)
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown store %q", value.Line, value.Value)
}

// Parse decodes a script. Unknown keys are errors.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate reports structural problems that do not depend on board state.
func (s *Script) Validate() error {
	if s.Board.Width <= 0 || s.Board.Height <= 0 {
		return fmt.Errorf("%w: board size %dx%d", ErrInvalidScript, s.Board.Width, s.Board.Height)
	}
	for i, l := range s.Layers {
		if !artboard.ValidLayerName(l.Name) {
			return fmt.Errorf("%w: layer %d: invalid name %q", ErrInvalidScript, i, l.Name)
		}
		if l.Size < 0 || l.Size > 4 {
			return fmt.Errorf("%w: layer %q: size %d", ErrInvalidScript, l.Name, l.Size)
		}
	}
	for i := range s.Ops {
		if s.Ops[i].kind() == "" {
			return fmt.Errorf("%w: op %d: want exactly one action", ErrInvalidScript, i)
		}
		if c := s.Ops[i].Checker; c != "" && c != "hide" && c != "show" {
			return fmt.Errorf("%w: op %d: checker must be hide or show", ErrInvalidScript, i)
		}
	}
	return nil
}

// options converts the BoardSpec to board options.
func (s *Script) options() []artboard.BoardOption {
	b := s.Board
	opts := []artboard.BoardOption{artboard.WithStoreKind(store.Kind(b.Store)), artboard.WithStrict(b.Strict)}
	if b.Name != "" {
		opts = append(opts, artboard.WithName(b.Name))
	}
	if b.Channels != 0 {
		opts = append(opts, artboard.WithChannels(b.Channels))
	}
	if b.Checker != 0 {
		opts = append(opts, artboard.WithCheckerSize(b.Checker))
	}
	if b.Palette.Width != 0 || b.Palette.Height != 0 {
		w, h := b.Palette.Width, b.Palette.Height
		if w == 0 {
			w = artboard.DefaultPaletteWidth
		}
		if h == 0 {
			h = artboard.DefaultPaletteHeight
		}
		opts = append(opts, artboard.WithPaletteSize(w, h))
	}
	return opts
}

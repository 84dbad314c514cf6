package script

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/artboard"
	"github.com/gogpu/artboard/renderloop"
)

// ErrUnknownName is returned when an op names a board or layer that does
// not exist.
var ErrUnknownName = errors.New("script: unknown name")

// Result holds the boards a script produced. Its boards belong to the loop
// the script was played on.
type Result struct {
	Source  *artboard.Board
	Aliases []*artboard.Board
	Copier  *artboard.Copier
	Output  OutputSpec

	loop *renderloop.Loop
}

// Boards returns the source board followed by its aliases in creation order.
func (r *Result) Boards() []*artboard.Board {
	return append([]*artboard.Board{r.Source}, r.Aliases...)
}

// Bounds returns the union of all board rectangles placed at their
// positions.
func (r *Result) Bounds() image.Rectangle {
	var u image.Rectangle
	for _, b := range r.Boards() {
		u = u.Union(b.Bounds().Add(b.Position()))
	}
	return u
}

// Close closes the aliases and then the source on the loop.
func (r *Result) Close(ctx context.Context) error {
	return r.loop.Do(ctx, func(context.Context) error {
		for _, a := range r.Aliases {
			a.Close()
		}
		r.Source.Close()
		return nil
	})
}

// Play builds the script's board on loop and applies its ops in order, one
// loop task per op. Play stops between ops once ctx is done. On error
// every board created so far is closed.
func Play(ctx context.Context, loop *renderloop.Loop, s *Script) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := renderloop.Call(ctx, loop, func(context.Context) (*Result, error) {
		return s.build()
	})
	if err != nil {
		return nil, err
	}
	res.loop = loop

	for i := range s.Ops {
		op := &s.Ops[i]
		err := ctx.Err()
		if err == nil {
			err = loop.Do(ctx, func(context.Context) error { return res.apply(op) })
		}
		if err != nil {
			_ = res.Close(context.WithoutCancel(ctx))
			return nil, fmt.Errorf("script: op %d (%s): %w", i, op.kind(), err)
		}
	}
	artboard.Logger().Debug("script: played", "board", res.Source.Name(), "ops", len(s.Ops), "aliases", len(res.Aliases))
	return res, nil
}

// build creates the board and its layers.
func (s *Script) build() (*Result, error) {
	b, err := artboard.NewBoard(s.Board.Width, s.Board.Height, s.options()...)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	b.MoveTo(s.Board.At.X, s.Board.At.Y)
	for _, spec := range s.Layers {
		var l artboard.Layer
		if spec.Size > 0 {
			l, err = b.AddNonVisualLayer(spec.Name, spec.Size)
		} else {
			l, err = b.AddVisualLayer(spec.Name)
		}
		if err == nil && spec.Hidden {
			err = b.Hide(l)
		}
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("script: layer %q: %w", spec.Name, err)
		}
		if spec.Locked {
			l.Lock()
		}
	}
	return &Result{Source: b, Copier: artboard.NewCopier(), Output: s.Output}, nil
}

func (r *Result) board(name string) (*artboard.Board, error) {
	if name == "" || name == r.Source.Name() {
		return r.Source, nil
	}
	for _, a := range r.Aliases {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: board %q", ErrUnknownName, name)
}

// layer resolves name on b; an empty name is the active layer.
func layer(b *artboard.Board, name string) (artboard.Layer, error) {
	if name == "" {
		if l := b.ActiveLayer(); l != nil {
			return l, nil
		}
		return nil, fmt.Errorf("%w: no active layer", ErrUnknownName)
	}
	l, ok := b.Layer(name)
	if !ok {
		return nil, fmt.Errorf("%w: layer %q", ErrUnknownName, name)
	}
	return l, nil
}

// target resolves a board and layer and makes the layer active.
func (r *Result) target(boardName, layerName string) (*artboard.Board, error) {
	b, err := r.board(boardName)
	if err != nil {
		return nil, err
	}
	l, err := layer(b, layerName)
	if err != nil {
		return nil, err
	}
	return b, b.SetActiveLayer(l)
}

func (r *Result) apply(op *Op) error {
	src := r.Source
	switch op.kind() {
	case "paint":
		b, err := r.target(op.Paint.Board, op.Paint.Layer)
		if err != nil {
			return err
		}
		return b.Paint(image.Rectangle(op.Paint.Rect), artboard.Color(op.Paint.Color))
	case "erase":
		b, err := r.target(op.Erase.Board, op.Erase.Layer)
		if err != nil {
			return err
		}
		return b.RemoveRegion(image.Rectangle(op.Erase.Rect))
	case "hide", "show", "lock", "unlock", "activate", "remove":
		return r.layerOp(op)
	case "move":
		v, ok := src.VisualLayer(op.Move.Layer)
		if !ok {
			return fmt.Errorf("%w: visual layer %q", ErrUnknownName, op.Move.Layer)
		}
		return src.MoveRank(v, op.Move.Rank)
	case "rename":
		l, err := layer(src, op.Rename.Layer)
		if err != nil {
			return err
		}
		return src.RenameLayer(l, op.Rename.To)
	case "alias":
		if _, err := r.board(op.Alias.Name); err == nil {
			return fmt.Errorf("%w: board %q exists", ErrInvalidScript, op.Alias.Name)
		}
		a, err := r.Copier.Alias(src, op.Alias.Name)
		if err != nil {
			return err
		}
		a.MoveTo(op.Alias.At.X, op.Alias.At.Y)
		r.Aliases = append(r.Aliases, a)
		return nil
	case "checker":
		if op.Checker == "hide" {
			src.Palette().HideChecker()
		} else {
			src.Palette().ShowChecker()
		}
		return nil
	}
	return fmt.Errorf("%w: empty op", ErrInvalidScript)
}

func (r *Result) layerOp(op *Op) error {
	src := r.Source
	name := op.Hide + op.Show + op.Lock + op.Unlock + op.Activate + op.Remove
	l, err := layer(src, name)
	if err != nil {
		return err
	}
	switch {
	case op.Hide != "":
		return src.Hide(l)
	case op.Show != "":
		return src.Show(l)
	case op.Lock != "":
		l.Lock()
	case op.Unlock != "":
		l.Unlock()
	case op.Activate != "":
		return src.SetActiveLayer(l)
	case op.Remove != "":
		return src.RemoveLayer(l)
	}
	return nil
}

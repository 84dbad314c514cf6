package artboard

import (
	"fmt"
	"slices"
)

// Copier tracks alias boards: boards sharing the sheet of a source board
// and differing only in position.
//
// The registry maps each source to its aliases in creation order and never
// records an alias of an alias. Structural edits (adding, removing or
// reordering layers) are only accepted on the source; pixel edits through
// any alias land on the shared sheet.
//
// A Copier is not safe for concurrent use; keep it on the render loop with
// the boards it tracks.
type Copier struct {
	aliases map[*Board][]*Board
	source  map[*Board]*Board
}

// NewCopier creates an empty registry.
func NewCopier() *Copier {
	return &Copier{
		aliases: make(map[*Board][]*Board),
		source:  make(map[*Board]*Board),
	}
}

// Owner returns the source of an alias and b itself otherwise.
func (c *Copier) Owner(b *Board) *Board {
	if src, ok := c.source[b]; ok {
		return src
	}
	return b
}

// Alias creates a board named name that shares source's sheet. If source is
// itself an alias, the new alias is attached to its source.
func (c *Copier) Alias(source *Board, name string) (*Board, error) {
	source = c.Owner(source)
	s, err := source.live()
	if err != nil {
		return nil, err
	}
	s.refs++
	a := &Board{name: name, pos: source.pos, sheet: s, owner: source}
	c.aliases[source] = append(c.aliases[source], a)
	c.source[a] = source
	Logger().Debug("artboard: alias created", "source", source.name, "alias", name)
	return a, nil
}

// Register records boards loaded from elsewhere as aliases of source. Each
// alias drops its own sheet and adopts source's.
func (c *Copier) Register(source *Board, aliases ...*Board) error {
	source = c.Owner(source)
	s, err := source.live()
	if err != nil {
		return err
	}
	for _, a := range aliases {
		if a == source || c.source[a] == source {
			continue
		}
		if c.IsSource(a) || c.IsAlias(a) {
			return fmt.Errorf("artboard: %s is already tracked by the copier", a.name)
		}
		if a.sheet != s {
			a.Close()
			s.refs++
			a.sheet = s
		}
		a.owner = source
		c.aliases[source] = append(c.aliases[source], a)
		c.source[a] = source
	}
	return nil
}

// IsAlias reports whether b is a registered alias.
func (c *Copier) IsAlias(b *Board) bool {
	_, ok := c.source[b]
	return ok
}

// IsSource reports whether b has at least one alias.
func (c *Copier) IsSource(b *Board) bool {
	return len(c.aliases[b]) > 0
}

// SourceOf returns the source of alias.
func (c *Copier) SourceOf(alias *Board) (*Board, error) {
	src, ok := c.source[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAlias, alias.name)
	}
	return src, nil
}

// ForEachAliasOf visits source's aliases in creation order until fn
// returns false.
func (c *Copier) ForEachAliasOf(source *Board, fn func(alias *Board) bool) {
	for _, a := range c.aliases[source] {
		if !fn(a) {
			return
		}
	}
}

// ForEachAlias visits every (source, alias) pair until fn returns false.
// Sources are visited in no particular order.
func (c *Copier) ForEachAlias(fn func(source, alias *Board) bool) {
	for src, list := range c.aliases {
		for _, a := range list {
			if !fn(src, a) {
				return
			}
		}
	}
}

// Remove takes b out of the registry and closes it.
//
// Removing an alias returns nil. Removing a source with aliases promotes the
// oldest alias to source of the others and returns it; the shared sheet
// stays alive. A board without aliases, including a source whose aliases
// were all removed, is just closed and Remove returns nil.
func (c *Copier) Remove(b *Board) (*Board, error) {
	if src, ok := c.source[b]; ok {
		delete(c.source, b)
		rest := slices.DeleteFunc(c.aliases[src], func(a *Board) bool { return a == b })
		if len(rest) == 0 {
			delete(c.aliases, src)
		} else {
			c.aliases[src] = rest
		}
		b.owner = nil
		b.Close()
		Logger().Debug("artboard: alias removed", "source", src.name, "alias", b.name)
		return nil, nil
	}

	list, ok := c.aliases[b]
	if !ok {
		b.Close()
		Logger().Debug("artboard: board removed", "board", b.name)
		return nil, nil
	}
	delete(c.aliases, b)
	promoted := list[0]
	delete(c.source, promoted)
	promoted.owner = nil
	if rest := list[1:]; len(rest) > 0 {
		c.aliases[promoted] = slices.Clone(rest)
		for _, a := range rest {
			c.source[a] = promoted
			a.owner = promoted
		}
	}
	b.Close()
	Logger().Debug("artboard: source removed", "source", b.name, "promoted", promoted.name)
	return promoted, nil
}

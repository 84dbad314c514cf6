package artboard

import "github.com/gogpu/artboard/store"

// DefaultCheckerSize is the edge length, in pixels, of a checker block.
const DefaultCheckerSize = 8

// BackgroundLookup returns the reserved palette cell shown at (x, y) when no
// layer paints there. Blocks are size x size pixels; block (0, 0) is darker
// and neighbors alternate along both axes, so the result is periodic with
// period 2*size.
func BackgroundLookup(x, y, size int) store.Lookup {
	darker := (x/size)%2 == 1
	if (y/size)%2 == 0 {
		darker = !darker
	}
	if darker {
		return DarkerChecker
	}
	return LighterChecker
}

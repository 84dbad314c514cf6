package artboard

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned by ParseColor for strings that are neither a
// hex color nor a known color name.
var ErrInvalidColor = errors.New("artboard: invalid color")

// Color is a palette entry: up to four 8-bit channels, non-premultiplied.
// A palette with N channels only reads and compares the first N.
type Color [4]uint8

// Common colors.
var (
	Transparent = Color{0, 0, 0, 0}
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Red         = Color{255, 0, 0, 255}
	Green       = Color{0, 255, 0, 255}
	Blue        = Color{0, 0, 255, 255}
)

// RGBA creates a four channel color.
func RGBA(r, g, b, a uint8) Color {
	return Color{r, g, b, a}
}

// Gray creates a single channel color, suited to 1 channel palettes.
func Gray(v uint8) Color {
	return Color{v}
}

// FromColor converts any color.Color to a non-premultiplied Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B, n.A}
}

// RGBA implements color.Color, returning alpha-premultiplied values.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}.RGBA()
}

// equal compares the first n channels.
func (c Color) equal(o Color, n int) bool {
	for i := range n {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// String formats the color as #rrggbbaa.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c[0], c[1], c[2], c[3])
}

// ParseColor parses "#rgb", "#rgba", "#rrggbb", "#rrggbbaa" (the leading '#'
// is optional) or an SVG 1.1 color name such as "cornflowerblue".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return FromColor(c), nil
	}
	hex := strings.TrimPrefix(s, "#")
	var v [4]uint32
	v[3] = 255
	switch len(hex) {
	case 3, 4:
		for i := range len(hex) {
			d, ok := hexDigit(hex[i])
			if !ok {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
			}
			v[i] = d * 17
		}
	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			hi, ok1 := hexDigit(hex[i])
			lo, ok2 := hexDigit(hex[i+1])
			if !ok1 || !ok2 {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
			}
			v[i/2] = hi<<4 | lo
		}
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{uint8(v[0]), uint8(v[1]), uint8(v[2]), uint8(v[3])}, nil
}

func hexDigit(c byte) (uint32, bool) {
	switch {
	case '0' <= c && c <= '9':
		return uint32(c - '0'), true
	case 'a' <= c && c <= 'f':
		return uint32(c - 'a' + 10), true
	case 'A' <= c && c <= 'F':
		return uint32(c - 'A' + 10), true
	default:
		return 0, false
	}
}

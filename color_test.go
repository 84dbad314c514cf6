package artboard

import (
	"errors"
	"image/color"
	"testing"
)

// Verify at compile time that Color implements color.Color.
var _ color.Color = Color{}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#f00", Color{255, 0, 0, 255}},
		{"0f08", Color{0, 255, 0, 136}},
		{"#336699", Color{0x33, 0x66, 0x99, 255}},
		{"#33669980", Color{0x33, 0x66, 0x99, 0x80}},
		{"red", Color{255, 0, 0, 255}},
		{"CornflowerBlue", Color{100, 149, 237, 255}},
		{"  #000  ", Black},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzz", "notacolor", "#1234567"} {
		if _, err := ParseColor(in); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q) error = %v, want ErrInvalidColor", in, err)
		}
	}
}

func TestColor_RGBA(t *testing.T) {
	r, g, b, a := Color{255, 0, 0, 128}.RGBA()
	if a != 0x8080 || r != 0x8080 || g != 0 || b != 0 {
		t.Errorf("RGBA() = %#x %#x %#x %#x, want premultiplied half red", r, g, b, a)
	}
	if FromColor(color.NRGBA{R: 10, G: 20, B: 30, A: 255}) != (Color{10, 20, 30, 255}) {
		t.Error("FromColor lost channels")
	}
}

func TestColor_EqualRespectsChannelCount(t *testing.T) {
	a := Color{1, 2, 3, 4}
	b := Color{1, 2, 9, 9}
	if !a.equal(b, 2) {
		t.Error("colors should match on two channels")
	}
	if a.equal(b, 3) {
		t.Error("colors should differ on three channels")
	}
}

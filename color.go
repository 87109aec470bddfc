package xform

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1] and is not premultiplied.
type RGBA struct {
	R, G, B, A float64
}

// Transparent is fully transparent black, the default frame background.
var Transparent = RGBA{}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// Float32 returns the components as float32, the layout vertex buffers use.
func (c RGBA) Float32() [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// Premultiply returns the color with RGB scaled by alpha.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// ParseHex parses a hex color. Supported formats: "RGB", "RGBA", "RRGGBB",
// "RRGGBBAA", each with an optional leading '#'.
func ParseHex(hex string) (RGBA, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var digits []string
	switch len(s) {
	case 3, 4:
		for i := range len(s) {
			digits = append(digits, s[i:i+1]+s[i:i+1])
		}
	case 6, 8:
		for i := 0; i < len(s); i += 2 {
			digits = append(digits, s[i:i+2])
		}
	default:
		return RGBA{}, fmt.Errorf("xform: invalid hex color %q", hex)
	}

	v := [4]float64{0, 0, 0, 1}
	for i, d := range digits {
		n, err := strconv.ParseUint(d, 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("xform: invalid hex color %q", hex)
		}
		v[i] = float64(n) / 255
	}
	return RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

// Hex formats the color as "#RRGGBBAA".
func (c RGBA) Hex() string {
	n := c.Color().(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

func clamp255(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return math.Round(x)
}

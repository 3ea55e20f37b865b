package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidHex is returned when a color string is not of the form #RRGGBB or #RGB.
var ErrInvalidHex = errors.New("invalid hex color")

// Color is a linear RGB triple with channels in [0, 1].
type Color struct {
	R, G, B float32
}

// White is the default color for lights and materials.
var White = Color{1, 1, 1}

// ParseHex parses a CSS style color string ("#ff0000", "#F00" or "ff0000").
//
// Parameters:
//   - s: the color string
//
// Returns:
//   - Color: the parsed color
//   - error: ErrInvalidHex wrapped with the offending input
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
	}, nil
}

// MustParseHex is ParseHex for compile-time constants. It panics on malformed input.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as a lowercase #rrggbb string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channelByte(c.R), channelByte(c.G), channelByte(c.B))
}

// RGBA returns the color with the given alpha as a four-element array, the layout GPU uniforms expect.
func (c Color) RGBA(alpha float32) [4]float32 {
	return [4]float32{c.R, c.G, c.B, alpha}
}

// Scale multiplies every channel by f.
func (c Color) Scale(f float32) Color {
	return Color{c.R * f, c.G * f, c.B * f}
}

func channelByte(v float32) uint8 {
	return uint8(Clamp(v, 0, 1)*255 + 0.5)
}

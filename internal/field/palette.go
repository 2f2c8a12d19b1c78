package field

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a palette entry. It keeps the text it was parsed from so
// callers can compare against their own configuration.
type Color struct {
	raw   string
	rgb   colorful.Color
	alpha float64
}

// ParseColor accepts CSS hex colours in #rgb, #rrggbb or #rrggbbaa form.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}

	hex, alpha := s, 1.0
	switch len(s) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(s[7:9], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		hex, alpha = s[:7], float64(a)/255
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}

	rgb, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return Color{raw: s, rgb: rgb, alpha: alpha}, nil
}

// MustColor is ParseColor for literals; it panics on malformed input.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) String() string         { return c.raw }
func (c Color) RGB() colorful.Color    { return c.rgb }
func (c Color) Alpha() float64         { return c.alpha }
func (c Color) IsZero() bool           { return c.raw == "" }
func (c Color) Hex() string            { return c.rgb.Hex() }
func (c Color) Equal(other Color) bool { return c.raw == other.raw }

// Over composites the colour at the given opacity onto bg.
func (c Color) Over(bg colorful.Color, opacity float64) colorful.Color {
	a := clamp01(opacity * c.alpha)
	return bg.BlendRgb(c.rgb, a).Clamped()
}

// Palette is the ordered set of colours particles sample from.
type Palette []Color

// ParsePalette parses every entry. An empty input yields ErrEmptyPalette.
func ParsePalette(colors ...string) (Palette, error) {
	if len(colors) == 0 {
		return nil, ErrEmptyPalette
	}
	p := make(Palette, 0, len(colors))
	for _, s := range colors {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	return p, nil
}

// MustPalette is ParsePalette for literals.
func MustPalette(colors ...string) Palette {
	p, err := ParsePalette(colors...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Palette) Strings() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.raw
	}
	return out
}

func (p Palette) Contains(c Color) bool {
	for _, pc := range p {
		if pc.Equal(c) {
			return true
		}
	}
	return false
}

// pick samples one colour uniformly. It reports false for an empty palette.
func (p Palette) pick(r *rand.Rand) (Color, bool) {
	if len(p) == 0 {
		return Color{}, false
	}
	return p[r.Intn(len(p))], true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Package pietcolor implements the Piet color model: the 18
// hue-bearing colors plus white and black, and the hue/lightness
// delta arithmetic that drives instruction dispatch.
package pietcolor

import (
	"fmt"
	"image/color"
)

// Color is one of the 20 canonical Piet codel colors.
type Color uint8

const (
	LightRed Color = iota
	Red
	DarkRed
	LightYellow
	Yellow
	DarkYellow
	LightGreen
	Green
	DarkGreen
	LightCyan
	Cyan
	DarkCyan
	LightBlue
	Blue
	DarkBlue
	LightMagenta
	Magenta
	DarkMagenta
	White
	Black
)

var colorNames = map[Color]string{
	LightRed: "LightRed", Red: "Red", DarkRed: "DarkRed",
	LightYellow: "LightYellow", Yellow: "Yellow", DarkYellow: "DarkYellow",
	LightGreen: "LightGreen", Green: "Green", DarkGreen: "DarkGreen",
	LightCyan: "LightCyan", Cyan: "Cyan", DarkCyan: "DarkCyan",
	LightBlue: "LightBlue", Blue: "Blue", DarkBlue: "DarkBlue",
	LightMagenta: "LightMagenta", Magenta: "Magenta", DarkMagenta: "DarkMagenta",
	White: "White", Black: "Black",
}

func (c Color) String() string {
	if n, ok := colorNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// Hue is the cyclic hue index (red=0 .. magenta=5). Only meaningful
// for hue-bearing colors.
type Hue int

const (
	HueRed Hue = iota
	HueYellow
	HueGreen
	HueCyan
	HueBlue
	HueMagenta
)

// Lightness is the shade index (0=light, 1=normal, 2=dark). Only
// meaningful for hue-bearing colors.
type Lightness int

const (
	Light Lightness = iota
	Normal
	Dark
)

// hueBearing indexes every hue-bearing color by (hue, lightness).
var hueBearing = [6][3]Color{
	HueRed:     {LightRed, Red, DarkRed},
	HueYellow:  {LightYellow, Yellow, DarkYellow},
	HueGreen:   {LightGreen, Green, DarkGreen},
	HueCyan:    {LightCyan, Cyan, DarkCyan},
	HueBlue:    {LightBlue, Blue, DarkBlue},
	HueMagenta: {LightMagenta, Magenta, DarkMagenta},
}

// HueBearing returns the color at the given hue/lightness.
func HueBearing(h Hue, l Lightness) Color {
	return hueBearing[h][l]
}

type hueLightness struct {
	hue       Hue
	lightness Lightness
}

var indexOf = func() map[Color]hueLightness {
	m := make(map[Color]hueLightness, 18)
	for h := HueRed; h <= HueMagenta; h++ {
		for l := Light; l <= Dark; l++ {
			m[hueBearing[h][l]] = hueLightness{hue: h, lightness: l}
		}
	}
	return m
}()

// HueNumber returns the hue index of c and true, or (0, false) if c
// is not hue-bearing (White or Black).
func (c Color) HueNumber() (Hue, bool) {
	hl, ok := indexOf[c]
	return hl.hue, ok
}

// LightnessNumber returns the lightness index of c and true, or
// (0, false) if c is not hue-bearing.
func (c Color) LightnessNumber() (Lightness, bool) {
	hl, ok := indexOf[c]
	return hl.lightness, ok
}

// IsHueBearing reports whether c carries a hue/lightness pair.
func (c Color) IsHueBearing() bool {
	_, ok := indexOf[c]
	return ok
}

// HueShift returns (hue_number(to) - hue_number(from)) mod 6. ok is
// false if either color is White or Black.
func HueShift(from, to Color) (shift int, ok bool) {
	fh, fok := from.HueNumber()
	th, tok := to.HueNumber()
	if !fok || !tok {
		return 0, false
	}
	return int((int(th)-int(fh))%6+6) % 6, true
}

// LightnessShift returns (lightness_number(to) - lightness_number(from)) mod 3.
// ok is false if either color is White or Black.
func LightnessShift(from, to Color) (shift int, ok bool) {
	fl, fok := from.LightnessNumber()
	tl, tok := to.LightnessNumber()
	if !fok || !tok {
		return 0, false
	}
	return int((int(tl)-int(fl))%3+3) % 3, true
}

// canonicalPalette is the table from spec §6: the only RGB triples
// that map to a non-default color.
var canonicalPalette = map[color.RGBA]Color{
	{R: 0xFF, G: 0xC0, B: 0xC0, A: 0xFF}: LightRed,
	{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}: Red,
	{R: 0xC0, G: 0x00, B: 0x00, A: 0xFF}: DarkRed,
	{R: 0xFF, G: 0xFF, B: 0xC0, A: 0xFF}: LightYellow,
	{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}: Yellow,
	{R: 0xC0, G: 0xC0, B: 0x00, A: 0xFF}: DarkYellow,
	{R: 0xC0, G: 0xFF, B: 0xC0, A: 0xFF}: LightGreen,
	{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}: Green,
	{R: 0x00, G: 0xC0, B: 0x00, A: 0xFF}: DarkGreen,
	{R: 0xC0, G: 0xFF, B: 0xFF, A: 0xFF}: LightCyan,
	{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF}: Cyan,
	{R: 0x00, G: 0xC0, B: 0xC0, A: 0xFF}: DarkCyan,
	{R: 0xC0, G: 0xC0, B: 0xFF, A: 0xFF}: LightBlue,
	{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF}: Blue,
	{R: 0x00, G: 0x00, B: 0xC0, A: 0xFF}: DarkBlue,
	{R: 0xFF, G: 0xC0, B: 0xFF, A: 0xFF}: LightMagenta,
	{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF}: Magenta,
	{R: 0xC0, G: 0x00, B: 0xC0, A: 0xFF}: DarkMagenta,
	{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}: White,
	{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}: Black,
}

// RGBA returns the canonical RGB triple for a recognized color. It
// panics if called on a Color value outside the 20 canonical
// constants, which callers never construct directly.
func (c Color) RGBA() color.RGBA {
	for rgba, cc := range canonicalPalette {
		if cc == c {
			return rgba
		}
	}
	panic(fmt.Sprintf("pietcolor: no canonical RGB for %s", c))
}

// Classify maps an RGB triple to a Color per §4.1/§6. Unrecognized
// values map to White, or to Black when missingBlack is set. The
// recognized return value is false when the input wasn't an exact
// palette match, so callers can warn appropriately.
func Classify(rgba color.RGBA, missingBlack bool) (c Color, recognized bool) {
	if cc, ok := canonicalPalette[rgba]; ok {
		return cc, true
	}
	if missingBlack {
		return Black, false
	}
	return White, false
}

// Package color implements the driver's color model: 8-bit RGBA values with
// cached packed encodings, the 8x8 stipple Pattern, and the Space
// descriptors naming every pixel layout a frame buffer or bitmap may use.
//
// Packed encodings are computed lazily and cached inside the Color value.
// Any change to the RGBA components invalidates the cache. Two colors are
// equal when their RGBA components are equal; cache state never affects
// equality, so compare with Equal rather than ==.
package color

import (
	"fmt"
	stdcolor "image/color"
)

// Cache validity bits.
const (
	valid8 uint8 = 1 << iota
	valid15
	valid16
)

// Color is an 8-bit-per-channel RGBA color.
type Color struct {
	r, g, b, a uint8

	valid uint8
	c8    uint8
	c15   uint16
	c16   uint16
}

// Common colors.
var (
	Black       = RGBA(0, 0, 0, 255)
	White       = RGBA(255, 255, 255, 255)
	Transparent = RGBA(0, 0, 0, 0)
)

// RGBA returns a color from its components.
func RGBA(r, g, b, a uint8) Color {
	return Color{r: r, g: g, b: b, a: a}
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{r: r, g: g, b: b, a: 255}
}

// FromUint32 unpacks a 0xAARRGGBB value.
func FromUint32(v uint32) Color {
	return Color{r: uint8(v >> 16), g: uint8(v >> 8), b: uint8(v), a: uint8(v >> 24)}
}

// FromIndex returns the system palette entry i.
func FromIndex(i uint8) Color {
	c := systemPalette()[i]
	c.valid = valid8
	c.c8 = i
	return c
}

// FromStd converts any image/color value. Premultiplied inputs are
// un-premultiplied through color.NRGBAModel.
func FromStd(c stdcolor.Color) Color {
	n := stdcolor.NRGBAModel.Convert(c).(stdcolor.NRGBA)
	return Color{r: n.R, g: n.G, b: n.B, a: n.A}
}

// R returns the red component.
func (c Color) R() uint8 { return c.r }

// G returns the green component.
func (c Color) G() uint8 { return c.g }

// B returns the blue component.
func (c Color) B() uint8 { return c.b }

// A returns the alpha component.
func (c Color) A() uint8 { return c.a }

// Components returns r, g, b, a.
func (c Color) Components() (r, g, b, a uint8) { return c.r, c.g, c.b, c.a }

// SetRGBA replaces the components and drops every cached encoding.
func (c *Color) SetRGBA(r, g, b, a uint8) {
	*c = Color{r: r, g: g, b: b, a: a}
}

// SetAlpha replaces the alpha component. Packed encodings without alpha
// stay valid, except the 15-bit one which carries an alpha bit.
func (c *Color) SetAlpha(a uint8) {
	if c.a == a {
		return
	}
	c.a = a
	c.valid &^= valid15
}

// InvalidateCache drops every cached encoding.
func (c *Color) InvalidateCache() {
	c.valid = 0
}

// Equal reports whether c and o have the same RGBA components.
func (c Color) Equal(o Color) bool {
	return c.r == o.r && c.g == o.g && c.b == o.b && c.a == o.a
}

// Uint32 packs c as 0xAARRGGBB.
func (c Color) Uint32() uint32 {
	return uint32(c.a)<<24 | uint32(c.r)<<16 | uint32(c.g)<<8 | uint32(c.b)
}

// Color8 returns the system palette index closest to c.
func (c *Color) Color8() uint8 {
	if c.valid&valid8 == 0 {
		c.c8 = IndexForRGB(c.r, c.g, c.b)
		c.valid |= valid8
	}
	return c.c8
}

// Color15 returns c packed as aRRRRRGGGGGBBBBB. The alpha bit is set when
// alpha is at least 128.
func (c *Color) Color15() uint16 {
	if c.valid&valid15 == 0 {
		c.c15 = Pack15(c.r, c.g, c.b, c.a)
		c.valid |= valid15
	}
	return c.c15
}

// Color16 returns c packed as RRRRRGGGGGGBBBBB.
func (c *Color) Color16() uint16 {
	if c.valid&valid16 == 0 {
		c.c16 = Pack16(c.r, c.g, c.b)
		c.valid |= valid16
	}
	return c.c16
}

// Color32 returns c packed as 0xAARRGGBB.
func (c *Color) Color32() uint32 {
	return c.Uint32()
}

// ToDepth returns c encoded for the given depth. Unsupported depths
// encode as 0.
func (c *Color) ToDepth(d Depth) uint32 {
	switch d {
	case Depth8:
		return uint32(c.Color8())
	case Depth15:
		return uint32(c.Color15())
	case Depth16:
		return uint32(c.Color16())
	case Depth24:
		return c.Uint32() & 0x00FFFFFF
	case Depth32:
		return c.Uint32()
	}
	return 0
}

// Decode unpacks v from the given depth. Channels narrower than 8 bits are
// shifted up without replication, so low bits come back as zero.
func Decode(v uint32, d Depth) Color {
	switch d {
	case Depth8:
		return FromIndex(uint8(v))
	case Depth15:
		r, g, b, a := Unpack15(uint16(v))
		return Color{r: r, g: g, b: b, a: a}
	case Depth16:
		r, g, b := Unpack16(uint16(v))
		return Color{r: r, g: g, b: b, a: 255}
	case Depth24:
		return FromUint32(v | 0xFF000000)
	case Depth32:
		return FromUint32(v)
	}
	return Color{}
}

// MakeBlend returns the per-channel linear interpolation from c to o.
// t is clamped to [0, 1]; 0 and NaN yield c, 1 yields o.
func (c Color) MakeBlend(o Color, t float64) Color {
	if !(t > 0) {
		return Color{r: c.r, g: c.g, b: c.b, a: c.a}
	}
	if t >= 1 {
		return Color{r: o.r, g: o.g, b: o.b, a: o.a}
	}
	return Color{
		r: lerp8(c.r, o.r, t),
		g: lerp8(c.g, o.g, t),
		b: lerp8(c.b, o.b, t),
		a: lerp8(c.a, o.a, t),
	}
}

// BlendCoverage blends c toward o by an 8-bit coverage value, the integer
// form of MakeBlend used by glyph and alpha blits.
func (c Color) BlendCoverage(o Color, cov uint8) Color {
	switch cov {
	case 0:
		return Color{r: c.r, g: c.g, b: c.b, a: c.a}
	case 255:
		return Color{r: o.r, g: o.g, b: o.b, a: o.a}
	}
	return Color{
		r: mix8(c.r, o.r, cov),
		g: mix8(c.g, o.g, cov),
		b: mix8(c.b, o.b, cov),
		a: mix8(c.a, o.a, cov),
	}
}

// Std returns c as a non-premultiplied image/color value.
func (c Color) Std() stdcolor.NRGBA {
	return stdcolor.NRGBA{R: c.r, G: c.g, B: c.b, A: c.a}
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.Std().RGBA()
}

// String returns c as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.r, c.g, c.b, c.a)
}

func lerp8(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	return clamp255(v + 0.5)
}

func mix8(a, b, cov uint8) uint8 {
	v := int(a)*(255-int(cov)) + int(b)*int(cov)
	return uint8((v + 127) / 255)
}

func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV returns hue in degrees [0, 360) and saturation and value in [0, 1].
func (c Color) HSV() (h, s, v float64) {
	return c.colorful().Hsv()
}

// FromHSV returns the opaque color for hue in degrees and saturation and
// value in [0, 1]. Out-of-range inputs are clamped.
func FromHSV(h, s, v float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsv(h, clampUnit(s), clampUnit(v)).Clamped().RGB255()
	return Color{r: r, g: g, b: b, a: 255}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.r) / 255,
		G: float64(c.g) / 255,
		B: float64(c.b) / 255,
	}
}

// hsv8 stores hue as a fraction of a full turn in 256 steps.
func (c Color) hsv8() (h, s, v uint8) {
	hf, sf, vf := c.HSV()
	return uint8(int(hf*256/360) & 0xFF), clamp255(sf*255 + 0.5), clamp255(vf*255 + 0.5)
}

func fromHSV8(h, s, v, a uint8) Color {
	c := FromHSV(float64(h)*360/256, float64(s)/255, float64(v)/255)
	c.a = a
	return c
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package color

import "sync"

// PaletteSize is the number of entries in the system palette.
const PaletteSize = 256

// The system palette is a 6x6x6 color cube (indices 0-215, index
// r*36+g*6+b) followed by a 40-step gray ramp.
var systemPalette = sync.OnceValue(func() *[PaletteSize]Color {
	var p [PaletteSize]Color
	for i := 0; i < 216; i++ {
		p[i] = Color{
			r: uint8(i / 36 * 51),
			g: uint8(i / 6 % 6 * 51),
			b: uint8(i % 6 * 51),
			a: 255,
		}
	}
	for i := 0; i < 40; i++ {
		v := uint8(i * 255 / 39)
		p[216+i] = Color{r: v, g: v, b: v, a: 255}
	}
	return &p
})

// inverseMap maps every 15-bit RGB value to its nearest palette index.
var inverseMap = sync.OnceValue(func() *[1 << 15]uint8 {
	pal := systemPalette()
	var m [1 << 15]uint8
	for v := 0; v < 1<<15; v++ {
		r := (v >> 10 & 0x1F) << 3
		g := (v >> 5 & 0x1F) << 3
		b := (v & 0x1F) << 3
		r |= r >> 5
		g |= g >> 5
		b |= b >> 5
		best, bestDist := 0, 1<<30
		for i := range pal {
			dr := r - int(pal[i].r)
			dg := g - int(pal[i].g)
			db := b - int(pal[i].b)
			d := dr*dr + dg*dg + db*db
			if d < bestDist {
				best, bestDist = i, d
				if d == 0 {
					break
				}
			}
		}
		m[v] = uint8(best)
	}
	return &m
})

// Palette returns a copy of the system palette.
func Palette() [PaletteSize]Color {
	return *systemPalette()
}

// IndexForRGB returns the palette index nearest to r, g, b. The lookup
// works on 15-bit precision.
func IndexForRGB(r, g, b uint8) uint8 {
	return inverseMap()[Pack15(r, g, b, 0)]
}

// InvertIndex returns the palette entry holding the inverse of entry i.
// Cube entries map to the opposite corner and gray entries to the mirrored
// gray, so applying it twice returns i.
func InvertIndex(i uint8) uint8 {
	if i < 216 {
		return 215 - i
	}
	return 255 - (i - 216)
}

package color

import (
	"encoding/binary"
	stdcolor "image/color"
)

// Pack15 packs 8-bit channels into aRRRRRGGGGGBBBBB.
func Pack15(r, g, b, a uint8) uint16 {
	v := uint16(r>>3)<<10 | uint16(g>>3)<<5 | uint16(b>>3)
	if a >= 128 {
		v |= 0x8000
	}
	return v
}

// Unpack15 expands a 15-bit value. Alpha is 255 or 0 from the top bit.
func Unpack15(v uint16) (r, g, b, a uint8) {
	r = uint8(v>>10&0x1F) << 3
	g = uint8(v>>5&0x1F) << 3
	b = uint8(v&0x1F) << 3
	if v&0x8000 != 0 {
		a = 255
	}
	return r, g, b, a
}

// Pack16 packs 8-bit channels into RRRRRGGGGGGBBBBB.
func Pack16(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// Unpack16 expands a 16-bit value.
func Unpack16(v uint16) (r, g, b uint8) {
	r = uint8(v>>11) << 3
	g = uint8(v>>5&0x3F) << 2
	b = uint8(v&0x1F) << 3
	return r, g, b
}

func order(s Space) binary.ByteOrder {
	if s.IsBigEndian() {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// PixelAt decodes pixel x of a row stored in space s. Every descriptor is
// supported, including sub-byte and interchange spaces; unknown spaces
// decode as transparent black. The caller guarantees row is long enough.
func PixelAt(s Space, row []byte, x int) Color {
	switch s {
	case Gray1:
		if row[x>>3]&(0x80>>(x&7)) != 0 {
			return Black
		}
		return White
	case CMAP8:
		return FromIndex(row[x])
	case Gray8:
		v := row[x]
		return Color{r: v, g: v, b: v, a: 255}
	case RGB15, RGB15Big, RGBA15, RGBA15Big:
		r, g, b, a := Unpack15(order(s).Uint16(row[x*2:]))
		if !s.HasAlpha() {
			a = 255
		}
		return Color{r: r, g: g, b: b, a: a}
	case RGB16, RGB16Big:
		r, g, b := Unpack16(order(s).Uint16(row[x*2:]))
		return Color{r: r, g: g, b: b, a: 255}
	case RGB24:
		p := row[x*3:]
		return Color{r: p[2], g: p[1], b: p[0], a: 255}
	case RGB24Big:
		p := row[x*3:]
		return Color{r: p[0], g: p[1], b: p[2], a: 255}
	case RGB32, RGB32Big:
		v := order(s).Uint32(row[x*4:])
		return FromUint32(v | 0xFF000000)
	case RGBA32, RGBA32Big:
		return FromUint32(order(s).Uint32(row[x*4:]))
	case YCbCr422, YUV422:
		p := row[(x&^1)*2:]
		y := p[0]
		if x&1 == 1 {
			y = p[2]
		}
		r, g, b := stdcolor.YCbCrToRGB(y, p[1], p[3])
		return Color{r: r, g: g, b: b, a: 255}
	case YCbCr444:
		p := row[x*3:]
		r, g, b := stdcolor.YCbCrToRGB(p[0], p[1], p[2])
		return Color{r: r, g: g, b: b, a: 255}
	case HSV24:
		p := row[x*3:]
		return fromHSV8(p[0], p[1], p[2], 255)
	case HSV32:
		p := row[x*4:]
		return fromHSV8(p[0], p[1], p[2], p[3])
	case CMY24:
		p := row[x*3:]
		return Color{r: 255 - p[0], g: 255 - p[1], b: 255 - p[2], a: 255}
	case CMYK32:
		p := row[x*4:]
		r, g, b := stdcolor.CMYKToRGB(p[0], p[1], p[2], p[3])
		return Color{r: r, g: g, b: b, a: 255}
	}
	return Color{}
}

// SetPixelAt encodes c as pixel x of a row stored in space s. The
// interchange 4:2:2 spaces share chroma between pixel pairs; writing one
// pixel of a pair replaces the pair's chroma.
func SetPixelAt(s Space, row []byte, x int, c Color) {
	switch s {
	case Gray1:
		mask := byte(0x80 >> (x & 7))
		if c.Luma() < 128 {
			row[x>>3] |= mask
		} else {
			row[x>>3] &^= mask
		}
	case CMAP8:
		row[x] = c.Color8()
	case Gray8:
		row[x] = c.Luma()
	case RGB15, RGB15Big, RGBA15, RGBA15Big:
		a := c.a
		if !s.HasAlpha() {
			a = 255
		}
		order(s).PutUint16(row[x*2:], Pack15(c.r, c.g, c.b, a))
	case RGB16, RGB16Big:
		order(s).PutUint16(row[x*2:], c.Color16())
	case RGB24:
		p := row[x*3:]
		p[0], p[1], p[2] = c.b, c.g, c.r
	case RGB24Big:
		p := row[x*3:]
		p[0], p[1], p[2] = c.r, c.g, c.b
	case RGB32, RGB32Big, RGBA32, RGBA32Big:
		order(s).PutUint32(row[x*4:], c.Uint32())
	case YCbCr422, YUV422:
		p := row[(x&^1)*2:]
		y, cb, cr := stdcolor.RGBToYCbCr(c.r, c.g, c.b)
		if x&1 == 1 {
			p[2] = y
		} else {
			p[0] = y
		}
		p[1], p[3] = cb, cr
	case YCbCr444:
		p := row[x*3:]
		p[0], p[1], p[2] = stdcolor.RGBToYCbCr(c.r, c.g, c.b)
	case HSV24:
		p := row[x*3:]
		p[0], p[1], p[2] = c.hsv8()
	case HSV32:
		p := row[x*4:]
		p[0], p[1], p[2] = c.hsv8()
		p[3] = c.a
	case CMY24:
		p := row[x*3:]
		p[0], p[1], p[2] = 255-c.r, 255-c.g, 255-c.b
	case CMYK32:
		p := row[x*4:]
		p[0], p[1], p[2], p[3] = stdcolor.RGBToCMYK(c.r, c.g, c.b)
	}
}

// Luma returns the Rec. 601 luminance of c.
func (c Color) Luma() uint8 {
	return uint8((299*int(c.r) + 587*int(c.g) + 114*int(c.b) + 500) / 1000)
}

// Native returns c in the native layout of s read as an integer in the
// space's byte order. It is the value hardware fill hooks receive.
// Spaces wider than 32 bits or narrower than 8 return 0.
func Native(s Space, c Color) uint32 {
	var p [4]byte
	n := s.BytesPerPixel()
	if n < 1 || n > 4 {
		return 0
	}
	SetPixelAt(s, p[:], 0, c)
	return NativeAt(s, p[:n])
}

// NativeAt reads the first pixel of b as an integer in the byte order of s.
func NativeAt(s Space, b []byte) uint32 {
	o := order(s)
	switch s.BytesPerPixel() {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(o.Uint16(b))
	case 3:
		if s.IsBigEndian() {
			return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		}
		return uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
	case 4:
		return o.Uint32(b)
	}
	return 0
}

// PutNative stores v, as returned by Native, into the first pixel of b.
func PutNative(s Space, b []byte, v uint32) {
	o := order(s)
	switch s.BytesPerPixel() {
	case 1:
		b[0] = uint8(v)
	case 2:
		o.PutUint16(b, uint16(v))
	case 3:
		if s.IsBigEndian() {
			b[0], b[1], b[2] = uint8(v>>16), uint8(v>>8), uint8(v)
		} else {
			b[0], b[1], b[2] = uint8(v), uint8(v>>8), uint8(v>>16)
		}
	case 4:
		o.PutUint32(b, v)
	}
}

// Package blit converts and scales scanlines between packed color spaces.
//
// A Blitter binds one scanline function per (source, destination) pair from
// a fixed matrix over the 8, 15, 16 and 32-bit depths. Pairs outside the
// matrix bind a no-op. The bound function performs no allocation.
package blit

import (
	"encoding/binary"

	"github.com/gogpu/display/color"
)

// Fixed is an unsigned 16.16 fixed-point number.
type Fixed uint32

// One is 1.0 in Fixed.
const One Fixed = 1 << 16

// ScaleFactor returns the per-pixel source step for stretching srcWidth
// pixels over dstWidth pixels.
func ScaleFactor(srcWidth, dstWidth int) Fixed {
	if dstWidth <= 0 || srcWidth <= 0 {
		return One
	}
	return Fixed(uint64(srcWidth) << 16 / uint64(dstWidth))
}

// SourceIndex returns the source pixel sampled for destination pixel i.
func SourceIndex(i int, position, factor Fixed) int {
	return int((uint64(position) + uint64(i)*uint64(factor)) >> 16)
}

// Func writes count destination pixels. Destination pixel i samples source
// pixel (position + i*factor) >> 16, clamped to the last source pixel.
type Func func(dst, src []byte, count int, position, factor Fixed)

// Blitter holds the scanline function selected for a space pair.
type Blitter struct {
	fn       Func
	src, dst color.Space
	ok       bool
}

// depths that take part in the matrix.
var matrixDepths = map[color.Depth]bool{
	color.Depth8:  true,
	color.Depth15: true,
	color.Depth16: true,
	color.Depth32: true,
}

// Select binds the function converting src pixels to dst pixels and
// reports whether the pair is supported. Unsupported pairs bind a no-op.
func (b *Blitter) Select(src, dst color.Space) bool {
	b.src, b.dst = src, dst
	b.fn, b.ok = lookup(src, dst)
	return b.ok
}

// Selected reports whether the last Select bound a real function.
func (b *Blitter) Selected() bool { return b.ok }

// Draw runs the bound function.
func (b *Blitter) Draw(dst, src []byte, count int, position, factor Fixed) {
	if b.fn == nil {
		return
	}
	b.fn(dst, src, count, position, factor)
}

func lookup(src, dst color.Space) (Func, bool) {
	if !matrixDepths[src.Depth()] || !matrixDepths[dst.Depth()] {
		return noop, false
	}
	if src == dst {
		return copySame(src.BytesPerPixel()), true
	}
	load, store := loaders[src], storers[dst]
	if load == nil || store == nil {
		return noop, false
	}
	sbpp, dbpp := src.BytesPerPixel(), dst.BytesPerPixel()
	return func(d, s []byte, count int, pos, factor Fixed) {
		last := len(s)/sbpp - 1
		if last < 0 {
			return
		}
		if n := len(d) / dbpp; count > n {
			count = n
		}
		for i := 0; i < count; i++ {
			si := int(pos >> 16)
			if si > last {
				si = last
			}
			store(d[i*dbpp:], load(s[si*sbpp:]))
			pos += factor
		}
	}, true
}

func noop([]byte, []byte, int, Fixed, Fixed) {}

func copySame(bpp int) Func {
	return func(d, s []byte, count int, pos, factor Fixed) {
		last := len(s)/bpp - 1
		if last < 0 {
			return
		}
		if n := len(d) / bpp; count > n {
			count = n
		}
		if first := int(pos >> 16); factor == One && pos&0xFFFF == 0 && first+count-1 <= last {
			copy(d[:count*bpp], s[first*bpp:])
			return
		}
		for i := 0; i < count; i++ {
			si := int(pos >> 16)
			if si > last {
				si = last
			}
			copy(d[i*bpp:i*bpp+bpp], s[si*bpp:])
			pos += factor
		}
	}
}

// argb is the interchange form between loaders and storers: 0xAARRGGBB.
type argb = uint32

var (
	loaders = map[color.Space]func([]byte) argb{
		color.CMAP8:     loadIndex,
		color.RGB15:     load15(binary.LittleEndian, false),
		color.RGB15Big:  load15(binary.BigEndian, false),
		color.RGBA15:    load15(binary.LittleEndian, true),
		color.RGBA15Big: load15(binary.BigEndian, true),
		color.RGB16:     load16(binary.LittleEndian),
		color.RGB16Big:  load16(binary.BigEndian),
		color.RGB32:     load32(binary.LittleEndian, false),
		color.RGB32Big:  load32(binary.BigEndian, false),
		color.RGBA32:    load32(binary.LittleEndian, true),
		color.RGBA32Big: load32(binary.BigEndian, true),
	}
	storers = map[color.Space]func([]byte, argb){
		color.CMAP8:     storeIndex,
		color.RGB15:     store15(binary.LittleEndian, false),
		color.RGB15Big:  store15(binary.BigEndian, false),
		color.RGBA15:    store15(binary.LittleEndian, true),
		color.RGBA15Big: store15(binary.BigEndian, true),
		color.RGB16:     store16(binary.LittleEndian),
		color.RGB16Big:  store16(binary.BigEndian),
		color.RGB32:     store32(binary.LittleEndian),
		color.RGB32Big:  store32(binary.BigEndian),
		color.RGBA32:    store32(binary.LittleEndian),
		color.RGBA32Big: store32(binary.BigEndian),
	}
)

var paletteARGB = func() (p [color.PaletteSize]argb) {
	for i, c := range color.Palette() {
		p[i] = c.Uint32()
	}
	return p
}()

func loadIndex(s []byte) argb { return paletteARGB[s[0]] }

func storeIndex(d []byte, v argb) {
	d[0] = color.IndexForRGB(uint8(v>>16), uint8(v>>8), uint8(v))
}

func load15(o binary.ByteOrder, alpha bool) func([]byte) argb {
	return func(s []byte) argb {
		r, g, b, a := color.Unpack15(o.Uint16(s))
		if !alpha {
			a = 0xFF
		}
		return argb(a)<<24 | argb(r)<<16 | argb(g)<<8 | argb(b)
	}
}

func store15(o binary.ByteOrder, alpha bool) func([]byte, argb) {
	return func(d []byte, v argb) {
		a := uint8(v >> 24)
		if !alpha {
			a = 0xFF
		}
		o.PutUint16(d, color.Pack15(uint8(v>>16), uint8(v>>8), uint8(v), a))
	}
}

func load16(o binary.ByteOrder) func([]byte) argb {
	return func(s []byte) argb {
		r, g, b := color.Unpack16(o.Uint16(s))
		return 0xFF000000 | argb(r)<<16 | argb(g)<<8 | argb(b)
	}
}

func store16(o binary.ByteOrder) func([]byte, argb) {
	return func(d []byte, v argb) {
		o.PutUint16(d, color.Pack16(uint8(v>>16), uint8(v>>8), uint8(v)))
	}
}

func load32(o binary.ByteOrder, alpha bool) func([]byte) argb {
	return func(s []byte) argb {
		v := o.Uint32(s)
		if !alpha {
			v |= 0xFF000000
		}
		return v
	}
}

func store32(o binary.ByteOrder) func([]byte, argb) {
	return func(d []byte, v argb) { o.PutUint32(d, v) }
}

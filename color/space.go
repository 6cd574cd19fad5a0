package color

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Space identifies a pixel layout. Little-endian variants carry no suffix;
// big-endian variants end in Big.
type Space uint16

// Color space descriptors.
const (
	NoSpace Space = iota
	Gray1
	CMAP8
	Gray8
	RGB15
	RGB15Big
	RGBA15
	RGBA15Big
	RGB16
	RGB16Big
	RGB24
	RGB24Big
	RGB32
	RGB32Big
	RGBA32
	RGBA32Big
	YCbCr422
	YCbCr444
	YUV422
	HSV24
	HSV32
	CMY24
	CMYK32

	spaceCount
)

// Depth is the number of significant color bits per pixel used by the
// packed encodings. Rasterizers only ever see Depth8, Depth15, Depth16,
// Depth24 and Depth32.
type Depth uint8

// Packed depths.
const (
	DepthNone Depth = 0
	Depth1    Depth = 1
	Depth8    Depth = 8
	Depth15   Depth = 15
	Depth16   Depth = 16
	Depth24   Depth = 24
	Depth32   Depth = 32
)

// SpaceInfo describes a color space.
type SpaceInfo struct {
	Name         string
	BitsPerPixel int
	Depth        Depth
	BigEndian    bool
	HasAlpha     bool

	// Rasterizable spaces can be the target of drawing primitives.
	Rasterizable bool

	// Format is the matching texture format, or TextureFormatUndefined.
	Format gputypes.TextureFormat
}

var spaceInfoTable = [spaceCount]SpaceInfo{
	NoSpace:   {Name: "none"},
	Gray1:     {Name: "GRAY1", BitsPerPixel: 1, Depth: Depth1, BigEndian: true},
	CMAP8:     {Name: "CMAP8", BitsPerPixel: 8, Depth: Depth8, Rasterizable: true},
	Gray8:     {Name: "GRAY8", BitsPerPixel: 8, Depth: Depth8, Rasterizable: true, Format: gputypes.TextureFormatR8Unorm},
	RGB15:     {Name: "RGB15", BitsPerPixel: 16, Depth: Depth15, Rasterizable: true},
	RGB15Big:  {Name: "RGB15_BIG", BitsPerPixel: 16, Depth: Depth15, BigEndian: true, Rasterizable: true},
	RGBA15:    {Name: "RGBA15", BitsPerPixel: 16, Depth: Depth15, HasAlpha: true, Rasterizable: true},
	RGBA15Big: {Name: "RGBA15_BIG", BitsPerPixel: 16, Depth: Depth15, BigEndian: true, HasAlpha: true, Rasterizable: true},
	RGB16:     {Name: "RGB16", BitsPerPixel: 16, Depth: Depth16, Rasterizable: true},
	RGB16Big:  {Name: "RGB16_BIG", BitsPerPixel: 16, Depth: Depth16, BigEndian: true, Rasterizable: true},
	RGB24:     {Name: "RGB24", BitsPerPixel: 24, Depth: Depth24, Rasterizable: true},
	RGB24Big:  {Name: "RGB24_BIG", BitsPerPixel: 24, Depth: Depth24, BigEndian: true, Rasterizable: true},
	RGB32:     {Name: "RGB32", BitsPerPixel: 32, Depth: Depth32, Rasterizable: true, Format: gputypes.TextureFormatBGRA8Unorm},
	RGB32Big:  {Name: "RGB32_BIG", BitsPerPixel: 32, Depth: Depth32, BigEndian: true, Rasterizable: true},
	RGBA32:    {Name: "RGBA32", BitsPerPixel: 32, Depth: Depth32, HasAlpha: true, Rasterizable: true, Format: gputypes.TextureFormatBGRA8Unorm},
	RGBA32Big: {Name: "RGBA32_BIG", BitsPerPixel: 32, Depth: Depth32, BigEndian: true, HasAlpha: true, Rasterizable: true},
	YCbCr422:  {Name: "YCbCr422", BitsPerPixel: 16},
	YCbCr444:  {Name: "YCbCr444", BitsPerPixel: 24},
	YUV422:    {Name: "YUV422", BitsPerPixel: 16},
	HSV24:     {Name: "HSV24", BitsPerPixel: 24},
	HSV32:     {Name: "HSV32", BitsPerPixel: 32},
	CMY24:     {Name: "CMY24", BitsPerPixel: 24},
	CMYK32:    {Name: "CMYK32", BitsPerPixel: 32},
}

// Info returns the descriptor for s. Unknown values describe NoSpace.
func (s Space) Info() SpaceInfo {
	if s >= spaceCount {
		return spaceInfoTable[NoSpace]
	}
	return spaceInfoTable[s]
}

// IsValid reports whether s names a known, non-empty color space.
func (s Space) IsValid() bool {
	return s > NoSpace && s < spaceCount
}

// BitsPerPixel returns the storage size of one pixel in bits.
func (s Space) BitsPerPixel() int { return s.Info().BitsPerPixel }

// BytesPerPixel returns the storage size of one pixel in bytes, or 0 for
// sub-byte spaces.
func (s Space) BytesPerPixel() int { return s.Info().BitsPerPixel / 8 }

// Depth returns the packed depth of s.
func (s Space) Depth() Depth { return s.Info().Depth }

// HasAlpha reports whether s stores an alpha channel.
func (s Space) HasAlpha() bool { return s.Info().HasAlpha }

// IsBigEndian reports whether multi-byte pixels are stored high byte first.
func (s Space) IsBigEndian() bool { return s.Info().BigEndian }

// CanRasterize reports whether drawing primitives can target s.
func (s Space) CanRasterize() bool { return s.Info().Rasterizable }

// TextureFormat returns the texture format with the same memory layout.
func (s Space) TextureFormat() gputypes.TextureFormat {
	f := s.Info().Format
	if f == 0 {
		return gputypes.TextureFormatUndefined
	}
	return f
}

// RowBytes returns the minimum number of bytes holding width pixels.
func (s Space) RowBytes(width int) int {
	return (width*s.BitsPerPixel() + 7) / 8
}

// String returns the conventional name of s.
func (s Space) String() string {
	if s >= spaceCount {
		return "unknown"
	}
	return spaceInfoTable[s].Name
}

// ParseSpace returns the space whose String form equals name, ignoring
// case.
func ParseSpace(name string) (Space, error) {
	for s := Space(1); s < spaceCount; s++ {
		if strings.EqualFold(spaceInfoTable[s].Name, name) {
			return s, nil
		}
	}
	return NoSpace, fmt.Errorf("color: unknown space %q", name)
}

// SpaceForDepth returns the little-endian rasterizable space for a depth.
func SpaceForDepth(d Depth) Space {
	switch d {
	case Depth8:
		return CMAP8
	case Depth15:
		return RGB15
	case Depth16:
		return RGB16
	case Depth24:
		return RGB24
	case Depth32:
		return RGB32
	}
	return NoSpace
}

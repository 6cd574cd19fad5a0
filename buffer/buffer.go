// Package buffer implements the graphics buffer: a view of frame buffer or
// bitmap memory addressed through a precomputed row-offset table.
//
// Pitch (bytes per row) is signed. A negative pitch describes a bottom-up
// layout where row 0 is stored last in memory. The row table is rebuilt as
// a whole whenever the backing memory, dimensions or pitch change.
package buffer

import (
	"errors"
	"image"

	"github.com/gogpu/display/color"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("buffer: invalid dimensions")

	// ErrInvalidSpace is returned for spaces that cannot back a buffer.
	ErrInvalidSpace = errors.New("buffer: invalid color space")

	// ErrInvalidStride is returned when |bytesPerRow| cannot hold a row.
	ErrInvalidStride = errors.New("buffer: stride too small for width")

	// ErrDataTooSmall is returned when memory is smaller than height rows.
	ErrDataTooSmall = errors.New("buffer: data too small")
)

// Buffer is a width x height pixel grid in a fixed color space.
//
// Buffer is not safe for concurrent use; the owning driver serializes
// access under its lock.
type Buffer struct {
	data        []byte
	width       int
	height      int
	bytesPerRow int
	space       color.Space
	rows        []int
}

// New wraps existing memory without copying. bytesPerRow may be negative
// for bottom-up layouts; its magnitude must hold one row.
func New(data []byte, width, height, bytesPerRow int, space color.Space) (*Buffer, error) {
	b := &Buffer{}
	if err := b.Reset(data, width, height, bytesPerRow, space); err != nil {
		return nil, err
	}
	return b, nil
}

// Alloc allocates a zeroed top-down buffer with tightly packed rows.
func Alloc(width, height int, space color.Space) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !space.IsValid() {
		return nil, ErrInvalidSpace
	}
	pitch := space.RowBytes(width)
	return New(make([]byte, pitch*height), width, height, pitch, space)
}

// Reset points b at new memory and geometry. On error b is left unchanged.
func (b *Buffer) Reset(data []byte, width, height, bytesPerRow int, space color.Space) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if !space.IsValid() {
		return ErrInvalidSpace
	}
	pitch := bytesPerRow
	if pitch < 0 {
		pitch = -pitch
	}
	rowBytes := space.RowBytes(width)
	if pitch < rowBytes {
		return ErrInvalidStride
	}
	need := pitch*(height-1) + rowBytes
	if len(data) < need {
		return ErrDataTooSmall
	}

	rows := make([]int, height)
	origin := 0
	if bytesPerRow < 0 {
		origin = pitch * (height - 1)
	}
	for y := range rows {
		rows[y] = origin + y*bytesPerRow
	}

	b.data = data
	b.width = width
	b.height = height
	b.bytesPerRow = bytesPerRow
	b.space = space
	b.rows = rows
	return nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// BytesPerRow returns the signed pitch.
func (b *Buffer) BytesPerRow() int { return b.bytesPerRow }

// Space returns the pixel layout.
func (b *Buffer) Space() color.Space { return b.space }

// Data returns the backing memory.
func (b *Buffer) Data() []byte { return b.data }

// Bounds returns the pixel rectangle (0, 0)-(width, height).
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// RowOffset returns the byte offset of row y within Data.
func (b *Buffer) RowOffset(y int) int { return b.rows[y] }

// Row returns the bytes of row y, exactly RowBytes long.
func (b *Buffer) Row(y int) []byte {
	off := b.rows[y]
	return b.data[off : off+b.space.RowBytes(b.width) : off+b.space.RowBytes(b.width)]
}

// RowBytes returns the number of meaningful bytes in each row.
func (b *Buffer) RowBytes() int { return b.space.RowBytes(b.width) }

// PixelOffset returns the byte offset of (x, y) for byte-aligned spaces.
func (b *Buffer) PixelOffset(x, y int) int {
	return b.rows[y] + x*b.space.BytesPerPixel()
}

// At decodes the pixel at (x, y). Out-of-range coordinates return the
// zero Color.
func (b *Buffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return color.Color{}
	}
	return color.PixelAt(b.space, b.Row(y), x)
}

// Set encodes c at (x, y). Out-of-range coordinates are ignored.
func (b *Buffer) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	color.SetPixelAt(b.space, b.Row(y), x, c)
}

// Clear zeroes every row.
func (b *Buffer) Clear() {
	for y := 0; y < b.height; y++ {
		clear(b.Row(y))
	}
}

// Clone returns a tightly packed top-down copy of b.
func (b *Buffer) Clone() *Buffer {
	pitch := b.RowBytes()
	data := make([]byte, pitch*b.height)
	for y := 0; y < b.height; y++ {
		copy(data[y*pitch:], b.Row(y))
	}
	rows := make([]int, b.height)
	for y := range rows {
		rows[y] = y * pitch
	}
	return &Buffer{
		data:        data,
		width:       b.width,
		height:      b.height,
		bytesPerRow: pitch,
		space:       b.space,
		rows:        rows,
	}
}

// ToImage converts b to an NRGBA image.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	for y := 0; y < b.height; y++ {
		row := b.Row(y)
		for x := 0; x < b.width; x++ {
			img.SetNRGBA(x, y, color.PixelAt(b.space, row, x).Std())
		}
	}
	return img
}

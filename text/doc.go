// Package text is the glyph source for driver text drawing.
//
// A Face maps runes to Glyph coverage masks plus advance metrics. Drivers
// treat a glyph purely as a source bitmap: mono glyphs are blitted with the
// high color, gray glyphs are blended between the pixel under them and the
// high color by coverage.
//
// Two face implementations are provided:
//
//   - OpenTypeFace rasterizes TrueType/OpenType outlines with
//     golang.org/x/image/font/opentype and can lay out runs with HarfBuzz
//     shaping from github.com/go-text/typesetting.
//   - BitmapFace wraps any tinygo.org/x/tinyfont font and produces mono
//     glyphs.
//
// VisualOrder reorders mixed-direction strings with the Unicode
// bidirectional algorithm before glyphs are placed left to right.
package text
